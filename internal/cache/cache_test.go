package cache

import (
	"testing"
	"time"
)

func TestDocumentKey(t *testing.T) {
	now := time.Now()

	k1 := DocumentKey("a.txt", 10, now)
	k2 := DocumentKey("a.txt", 10, now)
	if k1 != k2 {
		t.Error("identical documents must produce identical keys")
	}

	if DocumentKey("b.txt", 10, now) == k1 {
		t.Error("path change must change the key")
	}
	if DocumentKey("a.txt", 11, now) == k1 {
		t.Error("size change must change the key")
	}
	if DocumentKey("a.txt", 10, now.Add(time.Second)) == k1 {
		t.Error("mtime change must change the key")
	}
}

func TestMemoryCache(t *testing.T) {
	c := NewMemoryCache(time.Minute, time.Minute)

	if _, found := c.Get("missing"); found {
		t.Error("expected miss for absent key")
	}

	if err := c.Set("k", []byte("value"), time.Minute); err != nil {
		t.Fatalf("set: %v", err)
	}
	got, found := c.Get("k")
	if !found || string(got) != "value" {
		t.Errorf("get after set: %q, %v", got, found)
	}

	if err := c.Delete("k"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, found := c.Get("k"); found {
		t.Error("expected miss after delete")
	}
}

func TestMemoryCache_Expiry(t *testing.T) {
	c := NewMemoryCache(time.Minute, time.Minute)

	if err := c.Set("k", []byte("v"), 10*time.Millisecond); err != nil {
		t.Fatalf("set: %v", err)
	}
	time.Sleep(30 * time.Millisecond)
	if _, found := c.Get("k"); found {
		t.Error("expected entry to expire")
	}
}

func TestDiskCache(t *testing.T) {
	dir := t.TempDir()
	c := NewDiskCache(dir, time.Minute)

	if err := c.Set("k", []byte("persisted"), time.Minute); err != nil {
		t.Fatalf("set: %v", err)
	}

	// A fresh instance over the same directory sees the entry.
	c2 := NewDiskCache(dir, time.Minute)
	got, found := c2.Get("k")
	if !found || string(got) != "persisted" {
		t.Errorf("get from fresh instance: %q, %v", got, found)
	}

	if err := c2.Clear(); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if _, found := c2.Get("k"); found {
		t.Error("expected miss after clear")
	}
}

func TestDiskCache_Expiry(t *testing.T) {
	c := NewDiskCache(t.TempDir(), time.Minute)

	if err := c.Set("k", []byte("v"), 10*time.Millisecond); err != nil {
		t.Fatalf("set: %v", err)
	}
	time.Sleep(30 * time.Millisecond)
	if _, found := c.Get("k"); found {
		t.Error("expected entry to expire")
	}
}

func TestLayeredCache_PromotesDiskHits(t *testing.T) {
	dir := t.TempDir()

	// Seed the disk layer only.
	seed := NewDiskCache(dir, time.Minute)
	if err := seed.Set("k", []byte("warm"), time.Minute); err != nil {
		t.Fatalf("seed: %v", err)
	}

	c := NewLayeredCache(time.Minute, dir, time.Minute)
	got, found := c.Get("k")
	if !found || string(got) != "warm" {
		t.Fatalf("disk hit not served: %q, %v", got, found)
	}

	// After promotion the memory layer serves it even if disk is wiped.
	if err := seed.Clear(); err != nil {
		t.Fatalf("clear: %v", err)
	}
	got, found = c.Get("k")
	if !found || string(got) != "warm" {
		t.Errorf("promoted entry not served from memory: %q, %v", got, found)
	}
}

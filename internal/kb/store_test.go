package kb

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/ppiankov/gnosia/internal/model"
)

func openTestStore(t *testing.T) (*Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "gnosia.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s, path
}

func sampleKB() *model.KnowledgeBase {
	kb := &model.KnowledgeBase{
		Meta: model.Meta{
			Source:      "corpus:/tmp/docs",
			GeneratedAt: time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
		},
		Collections: model.Collections{
			Facts: []model.Fact{
				{
					Subject: "coreCS", Predicate: model.PredicateImplementsValidated,
					Object: "algorithm", Confidence: 0.9, CategoryID: "coreCS",
					Origins: []string{"a.txt"}, Format: model.FormatText,
					Validated: true, Fitness: 1.68, Neighbors: 2,
				},
				{
					Subject: "algebra", Predicate: model.PredicateImplements,
					Object: "matrix", Confidence: 0.7, CategoryID: "algebra",
					Origins: []string{"b.md"}, Format: model.FormatMarkdown,
					Fitness: 0.84,
				},
			},
			Patterns: []model.Item{
				{Content: "category:coreCS", Weight: 1.68, Origins: []string{"corpus:/tmp/docs"}},
			},
		},
	}
	kb.CountItems()
	return kb
}

func TestStore_SaveLoadRoundTrip(t *testing.T) {
	s, path := openTestStore(t)

	if err := s.Save(sampleKB(), 1.9); err != nil {
		t.Fatalf("save: %v", err)
	}

	loaded, err := s.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if loaded.Meta.Source != "kb:"+path {
		t.Errorf("unexpected source %q", loaded.Meta.Source)
	}
	if len(loaded.Collections.Facts) != 2 {
		t.Fatalf("expected 2 facts, got %d", len(loaded.Collections.Facts))
	}
	if len(loaded.Collections.Patterns) != 1 {
		t.Fatalf("expected 1 pattern, got %d", len(loaded.Collections.Patterns))
	}

	byObject := map[string]model.Fact{}
	for _, f := range loaded.Collections.Facts {
		byObject[f.Object] = f
	}
	alg := byObject["algorithm"]
	if alg.Confidence != 0.9 || !alg.Validated || alg.Fitness != 1.68 || alg.Neighbors != 2 {
		t.Errorf("fact metadata lost in round trip: %+v", alg)
	}
	if len(alg.Origins) != 1 || alg.Origins[0] != "a.txt" {
		t.Errorf("origins lost: %v", alg.Origins)
	}
}

func TestStore_SaveReplaces(t *testing.T) {
	s, _ := openTestStore(t)

	if err := s.Save(sampleKB(), 1.9); err != nil {
		t.Fatalf("first save: %v", err)
	}

	smaller := &model.KnowledgeBase{
		Meta: model.Meta{Source: "corpus:/tmp/docs", GeneratedAt: time.Now().UTC()},
		Collections: model.Collections{
			Facts: []model.Fact{
				{Subject: "s", Predicate: "p", Object: "o", Confidence: 0.7},
			},
		},
	}
	if err := s.Save(smaller, 0.5); err != nil {
		t.Fatalf("second save: %v", err)
	}

	loaded, err := s.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(loaded.Collections.Facts) != 1 {
		t.Errorf("save must replace the item set, got %d facts", len(loaded.Collections.Facts))
	}
	if len(loaded.Collections.Patterns) != 0 {
		t.Errorf("stale patterns survived replace: %d", len(loaded.Collections.Patterns))
	}

	runs, err := s.RunCount()
	if err != nil {
		t.Fatalf("run count: %v", err)
	}
	if runs != 2 {
		t.Errorf("expected 2 recorded runs, got %d", runs)
	}
}

func TestStore_LoadEmpty(t *testing.T) {
	s, _ := openTestStore(t)

	loaded, err := s.Load()
	if err != nil {
		t.Fatalf("load empty: %v", err)
	}
	if len(loaded.Collections.Facts) != 0 {
		t.Errorf("expected empty store, got %d facts", len(loaded.Collections.Facts))
	}

	runs, err := s.RunCount()
	if err != nil {
		t.Fatalf("run count: %v", err)
	}
	if runs != 0 {
		t.Errorf("expected 0 runs, got %d", runs)
	}
}

func TestStore_Reopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gnosia.db")

	s, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := s.Save(sampleKB(), 1.9); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	s2, err := Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s2.Close()

	loaded, err := s2.Load()
	if err != nil {
		t.Fatalf("load after reopen: %v", err)
	}
	if len(loaded.Collections.Facts) != 2 {
		t.Errorf("persisted facts lost across reopen: %d", len(loaded.Collections.Facts))
	}
}

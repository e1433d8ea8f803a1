package model

import (
	"testing"
)

func TestNormalizeTerm(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Algorithm", "algorithm"},
		{"  padded  ", "padded"},
		{"Matrix   Multiplication", "matrix multiplication"},
		{"tabs\tand\nnewlines", "tabs and newlines"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := NormalizeTerm(tt.in); got != tt.want {
			t.Errorf("NormalizeTerm(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFact_Identity(t *testing.T) {
	a := Fact{Subject: "CoreCS", Predicate: "implements", Object: "Algorithm"}
	b := Fact{Subject: "corecs", Predicate: "Implements", Object: "algorithm "}

	if a.Identity() != b.Identity() {
		t.Errorf("identities differ: %q vs %q", a.Identity(), b.Identity())
	}
	if a.Hash() != b.Hash() {
		t.Error("equal identities must hash equally")
	}

	c := Fact{Subject: "corecs", Predicate: "implements", Object: "recursion"}
	if a.Hash() == c.Hash() {
		t.Error("different identities must hash differently")
	}
}

func TestFact_IdentityIgnoresMetadata(t *testing.T) {
	a := Fact{Subject: "s", Predicate: "p", Object: "o", Confidence: 0.7, Origins: []string{"x"}}
	b := Fact{Subject: "s", Predicate: "p", Object: "o", Confidence: 0.9, Fitness: 3, Validated: true}

	if a.Hash() != b.Hash() {
		t.Error("identity must derive from the triple only")
	}
}

func TestFact_Origin(t *testing.T) {
	f := Fact{Origins: []string{"first.txt", "second.txt"}}
	if f.Origin() != "first.txt" {
		t.Errorf("unexpected primary origin %q", f.Origin())
	}

	var empty Fact
	if empty.Origin() != "" {
		t.Errorf("expected empty origin, got %q", empty.Origin())
	}
}

func TestFormatForExtension(t *testing.T) {
	tests := []struct {
		ext  string
		want FormatTag
	}{
		{".md", FormatMarkdown},
		{".markdown", FormatMarkdown},
		{".html", FormatHTML},
		{".htm", FormatHTML},
		{".json", FormatJSON},
		{".yaml", FormatYAML},
		{".yml", FormatYAML},
		{".csv", FormatCSV},
		{".txt", FormatText},
		{".weird", FormatText},
	}
	for _, tt := range tests {
		if got := FormatForExtension(tt.ext); got != tt.want {
			t.Errorf("FormatForExtension(%q) = %q, want %q", tt.ext, got, tt.want)
		}
	}
}

func TestDocument_IsStructured(t *testing.T) {
	if !(Document{Format: FormatJSON}).IsStructured() {
		t.Error("json is structured")
	}
	if !(Document{Format: FormatYAML}).IsStructured() {
		t.Error("yaml is structured")
	}
	if (Document{Format: FormatMarkdown}).IsStructured() {
		t.Error("markdown is not structured")
	}
}

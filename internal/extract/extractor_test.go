package extract

import (
	"testing"
	"time"

	"github.com/ppiankov/gnosia/internal/catalog"
	"github.com/ppiankov/gnosia/internal/model"
	"github.com/ppiankov/gnosia/internal/oracle"
)

func testCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	cat, err := catalog.New([]*catalog.Category{
		{ID: "coreCS", Keywords: []string{"algorithm", "recursion"}, Rank: 1},
		{ID: "algebraicFoundations", Keywords: []string{"matrix"}, Rank: 2},
		{ID: "quantum", Keywords: []string{"qubit"}, Rank: 3, ExternallyValidated: true,
			Dependencies: []string{"algebraicFoundations"}},
		{ID: catalog.StructuralID, Rank: 0},
	})
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}
	return cat
}

func testOracle() oracle.Oracle {
	return oracle.NewStaticOracle(map[string][]model.ValidationRecord{
		"coreCS": {{CategoryID: "coreCS", Concept: "turing machine", Relevance: 0.9}},
		// below the cutoff: matrix facts stay uncorroborated
		"algebraicFoundations": {{CategoryID: "algebraicFoundations", Concept: "weak", Relevance: 0.2}},
	})
}

func newTestExtractor(t *testing.T) *Extractor {
	cfg := model.ExtractionConfig{
		StructuralDepth:     4,
		BaseConfidence:      0.7,
		ValidatedConfidence: 0.9,
	}
	return NewExtractor(testCatalog(t), testOracle(), cfg, 0.5)
}

func textDoc(path string) model.Document {
	return model.Document{Path: path, Format: model.FormatText, ModTime: time.Now()}
}

func TestExtract_Lexical(t *testing.T) {
	e := newTestExtractor(t)

	res := e.Extract(textDoc("doc.txt"), []byte("The algorithm uses recursion. Algorithms everywhere."))
	if res.StructuredFallback {
		t.Error("text document must not set fallback")
	}

	if len(res.Facts) != 3 {
		t.Fatalf("expected 3 facts, got %d: %+v", len(res.Facts), res.Facts)
	}

	// One fact per occurrence, corroborated category uses the validated
	// predicate and confidence.
	for _, f := range res.Facts {
		if f.CategoryID != "coreCS" {
			t.Errorf("unexpected category %s", f.CategoryID)
		}
		if f.Predicate != model.PredicateImplementsValidated {
			t.Errorf("expected validated predicate, got %s", f.Predicate)
		}
		if f.Confidence != 0.9 {
			t.Errorf("expected confidence 0.9, got %v", f.Confidence)
		}
		if !f.Validated {
			t.Error("expected validated flag")
		}
		if f.Origin() != "doc.txt" {
			t.Errorf("unexpected origin %q", f.Origin())
		}
	}
}

func TestExtract_UncorroboratedCategory(t *testing.T) {
	e := newTestExtractor(t)

	res := e.Extract(textDoc("doc.txt"), []byte("a sparse matrix"))
	if len(res.Facts) != 1 {
		t.Fatalf("expected 1 fact, got %d", len(res.Facts))
	}

	f := res.Facts[0]
	if f.Predicate != model.PredicateImplements {
		t.Errorf("expected plain predicate, got %s", f.Predicate)
	}
	if f.Confidence != 0.7 {
		t.Errorf("expected confidence 0.7, got %v", f.Confidence)
	}
	if f.Validated {
		t.Error("uncorroborated fact must not be validated")
	}
}

func TestExtract_CategoryMetadata(t *testing.T) {
	e := newTestExtractor(t)

	res := e.Extract(textDoc("q.txt"), []byte("one qubit"))
	if len(res.Facts) != 1 {
		t.Fatalf("expected 1 fact, got %d", len(res.Facts))
	}

	f := res.Facts[0]
	if !f.ExternallyValidated {
		t.Error("expected externally validated flag from category")
	}
	if f.Rank != 3 {
		t.Errorf("expected rank 3, got %d", f.Rank)
	}
	if len(f.Dependencies) != 1 || f.Dependencies[0] != "algebraicFoundations" {
		t.Errorf("unexpected dependencies: %v", f.Dependencies)
	}
}

func TestExtract_HTMLVisibleText(t *testing.T) {
	e := newTestExtractor(t)
	doc := model.Document{Path: "page.html", Format: model.FormatHTML}

	html := `<html><head><script>var algorithm = 1;</script></head>
<body><p>a matrix inside markup</p></body></html>`

	res := e.Extract(doc, []byte(html))
	if len(res.Facts) != 1 {
		t.Fatalf("expected 1 fact, got %d: %+v", len(res.Facts), res.Facts)
	}
	if res.Facts[0].Object != "matrix" {
		t.Errorf("expected matrix from body text, got %q", res.Facts[0].Object)
	}
}

func TestExtract_NoMatchesIsEmpty(t *testing.T) {
	e := newTestExtractor(t)

	res := e.Extract(textDoc("doc.txt"), []byte("nothing of note"))
	if len(res.Facts) != 0 {
		t.Errorf("expected no facts, got %d", len(res.Facts))
	}
}

func TestDocLabel(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"dir/notes.json", "notes"},
		{"notes.yaml", "notes"},
		{"dir\\win.json", "win"},
		{"noext", "noext"},
		{".hidden", ".hidden"},
	}
	for _, tt := range tests {
		if got := docLabel(tt.path); got != tt.want {
			t.Errorf("docLabel(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

package extract

import (
	"fmt"
	"strings"
	"testing"

	"github.com/ppiankov/gnosia/internal/catalog"
	"github.com/ppiankov/gnosia/internal/model"
)

func structuredDoc(path string, format model.FormatTag) model.Document {
	return model.Document{Path: path, Format: format}
}

func factSet(facts []model.Fact) map[string]model.Fact {
	m := make(map[string]model.Fact, len(facts))
	for _, f := range facts {
		m[f.Subject+"|"+f.Predicate+"|"+f.Object] = f
	}
	return m
}

func TestStructural_JSON(t *testing.T) {
	e := newTestExtractor(t)
	doc := structuredDoc("config.json", model.FormatJSON)

	content := []byte(`{"server": {"port": 8080, "hosts": ["a", "b"]}, "name": "demo"}`)
	res := e.Extract(doc, content)
	if res.StructuredFallback {
		t.Fatal("well-formed JSON must not fall back")
	}

	set := factSet(res.Facts)
	expect := []string{
		"config|" + model.RelationContains + "|server",
		"config|" + model.RelationContains + "|name",
		"server|" + model.RelationNumericValue + "|port",
		"server|" + model.RelationContainsArray + "|hosts",
	}
	for _, key := range expect {
		if _, ok := set[key]; !ok {
			t.Errorf("missing structural fact %s (have %v)", key, res.Facts)
		}
	}

	for _, f := range res.Facts {
		if f.CategoryID != catalog.StructuralID {
			t.Errorf("structural fact carries category %s", f.CategoryID)
		}
		if f.Format != model.FormatJSON {
			t.Errorf("structural fact carries format %s", f.Format)
		}
	}
}

func TestStructural_YAML(t *testing.T) {
	e := newTestExtractor(t)
	doc := structuredDoc("deploy.yaml", model.FormatYAML)

	content := []byte("replicas: 3\nlabels:\n  app: web\n")
	res := e.Extract(doc, content)
	if res.StructuredFallback {
		t.Fatal("well-formed YAML must not fall back")
	}

	set := factSet(res.Facts)
	if _, ok := set["deploy|"+model.RelationNumericValue+"|replicas"]; !ok {
		t.Errorf("missing numeric fact, have %v", res.Facts)
	}
	if _, ok := set["labels|"+model.RelationContains+"|app"]; !ok {
		t.Errorf("missing nested fact, have %v", res.Facts)
	}
}

func TestStructural_DepthBound(t *testing.T) {
	cfg := model.ExtractionConfig{StructuralDepth: 2, BaseConfidence: 0.7, ValidatedConfidence: 0.9}
	e := NewExtractor(testCatalog(t), testOracle(), cfg, 0.5)
	doc := structuredDoc("deep.json", model.FormatJSON)

	// Nested 6 levels; only 2 may be visited.
	content := []byte(`{"l1": {"l2": {"l3": {"l4": {"l5": {"l6": 1}}}}}}`)
	res := e.Extract(doc, content)

	for _, f := range res.Facts {
		if f.Object == "l3" || f.Object == "l4" || f.Object == "l5" || f.Object == "l6" {
			t.Errorf("fact beyond depth bound: %+v", f)
		}
	}
	set := factSet(res.Facts)
	if _, ok := set["deep|"+model.RelationContains+"|l1"]; !ok {
		t.Error("missing level-1 fact")
	}
	if _, ok := set["l1|"+model.RelationContains+"|l2"]; !ok {
		t.Error("missing level-2 fact")
	}
}

func TestStructural_VeryDeepInputTerminates(t *testing.T) {
	e := newTestExtractor(t)
	doc := structuredDoc("wide.json", model.FormatJSON)

	var b strings.Builder
	depth := 500
	for i := 0; i < depth; i++ {
		fmt.Fprintf(&b, `{"k%d":`, i)
	}
	b.WriteString("1")
	for i := 0; i < depth; i++ {
		b.WriteString("}")
	}

	res := e.Extract(doc, []byte(b.String()))
	if res.StructuredFallback {
		t.Fatal("deep but well-formed input must not fall back")
	}
	if len(res.Facts) > 4 {
		t.Errorf("expected at most 4 facts at default depth, got %d", len(res.Facts))
	}
}

func TestStructural_MalformedFallsBack(t *testing.T) {
	e := newTestExtractor(t)
	doc := structuredDoc("broken.json", model.FormatJSON)

	res := e.Extract(doc, []byte(`{"algorithm": tru`))
	if !res.StructuredFallback {
		t.Fatal("malformed JSON must set the fallback flag")
	}

	// The lexical pass still runs over the raw text.
	if len(res.Facts) != 1 || res.Facts[0].Object != "algorithm" {
		t.Errorf("expected lexical fact from raw text, got %+v", res.Facts)
	}
}

func TestStructural_ArrayElements(t *testing.T) {
	e := newTestExtractor(t)
	doc := structuredDoc("list.json", model.FormatJSON)

	content := []byte(`{"items": [{"id": 1}, {"id": 2}]}`)
	res := e.Extract(doc, content)

	set := factSet(res.Facts)
	if _, ok := set["list|"+model.RelationContainsArray+"|items"]; !ok {
		t.Error("missing array fact")
	}
	// Array elements are walked under the array's label.
	if _, ok := set["items|"+model.RelationNumericValue+"|id"]; !ok {
		t.Errorf("missing element fact, have %v", res.Facts)
	}
}

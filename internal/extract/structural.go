package extract

import (
	"encoding/json"
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/ppiankov/gnosia/internal/catalog"
	"github.com/ppiankov/gnosia/internal/model"
)

// structuralPass walks a parsed key/value tree to the configured depth
// bound and emits (StructureLabel, relation, key) facts. The depth bound
// guarantees termination on very deep or cyclic-looking structures.
func (e *Extractor) structuralPass(doc model.Document, content []byte) ([]model.Fact, error) {
	var root any
	switch doc.Format {
	case model.FormatJSON:
		if err := json.Unmarshal(content, &root); err != nil {
			return nil, fmt.Errorf("parse JSON %s: %w", doc.Path, err)
		}
	case model.FormatYAML:
		if err := yaml.Unmarshal(content, &root); err != nil {
			return nil, fmt.Errorf("parse YAML %s: %w", doc.Path, err)
		}
	default:
		return nil, nil
	}

	depth := e.cfg.StructuralDepth
	if depth <= 0 {
		depth = 4
	}

	w := &structWalker{extractor: e, doc: doc}
	w.walk(docLabel(doc.Path), root, depth)
	return w.facts, nil
}

type structWalker struct {
	extractor *Extractor
	doc       model.Document
	facts     []model.Fact
}

func (w *structWalker) walk(label string, value any, depth int) {
	if depth <= 0 {
		return
	}

	switch v := value.(type) {
	case map[string]any:
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Strings(keys) // deterministic emission order
		for _, k := range keys {
			w.emit(label, relationFor(v[k]), k)
			w.walk(k, v[k], depth-1)
		}
	case map[any]any:
		// Older YAML shapes; keys are stringified.
		keys := make([]string, 0, len(v))
		byKey := make(map[string]any, len(v))
		for k, child := range v {
			ks := fmt.Sprintf("%v", k)
			keys = append(keys, ks)
			byKey[ks] = child
		}
		sort.Strings(keys)
		for _, k := range keys {
			w.emit(label, relationFor(byKey[k]), k)
			w.walk(k, byKey[k], depth-1)
		}
	case []any:
		for _, elem := range v {
			w.walk(label, elem, depth-1)
		}
	}
}

func (w *structWalker) emit(label, relation, key string) {
	w.facts = append(w.facts, model.Fact{
		Subject:    label,
		Predicate:  relation,
		Object:     model.NormalizeTerm(key),
		Confidence: w.extractor.cfg.BaseConfidence,
		CategoryID: catalog.StructuralID,
		Origins:    []string{w.doc.Path},
		Format:     w.doc.Format,
		LastSeen:   w.doc.ModTime,
	})
}

// relationFor picks the structural relation from the value's shape.
func relationFor(value any) string {
	switch value.(type) {
	case float64, float32, int, int64, uint64, json.Number:
		return model.RelationNumericValue
	case []any:
		return model.RelationContainsArray
	default:
		return model.RelationContains
	}
}

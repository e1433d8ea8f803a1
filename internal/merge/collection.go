package merge

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/ppiankov/gnosia/internal/model"
)

// ErrCorruptCollection marks an input whose shape is not recognized.
// Callers skip such inputs with a warning; a corrupt collection never
// aborts the full merge.
var ErrCorruptCollection = errors.New("unrecognized knowledge collection shape")

// LoadCollection reads a serialized knowledge collection and normalizes
// it into flat item records. Three layouts are recognized:
//
//   - standard: {"meta": ..., "collections": {...}}
//   - trie:     {"meta": ..., "trie": {"items": [...], "children": {...}}}
//   - sections: {"meta": ..., "sections": [{"title": ..., "items": [...]}]}
func LoadCollection(path string) (*model.KnowledgeBase, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read collection %s: %w", path, err)
	}
	kb, err := DecodeCollection(data)
	if err != nil {
		return nil, fmt.Errorf("collection %s: %w", path, err)
	}
	if kb.Meta.Source == "" {
		kb.Meta.Source = path
	}
	return kb, nil
}

// DecodeCollection normalizes raw collection bytes into a KnowledgeBase.
func DecodeCollection(data []byte) (*model.KnowledgeBase, error) {
	var probe struct {
		Meta        model.Meta      `json:"meta"`
		Collections json.RawMessage `json:"collections"`
		Trie        json.RawMessage `json:"trie"`
		Sections    json.RawMessage `json:"sections"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptCollection, err)
	}

	switch {
	case len(probe.Collections) > 0:
		var kb model.KnowledgeBase
		if err := json.Unmarshal(data, &kb); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrCorruptCollection, err)
		}
		return &kb, nil

	case len(probe.Trie) > 0:
		var root trieNode
		if err := json.Unmarshal(probe.Trie, &root); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrCorruptCollection, err)
		}
		kb := &model.KnowledgeBase{Meta: probe.Meta}
		flattenTrie(&root, kb)
		return kb, nil

	case len(probe.Sections) > 0:
		var sections []manuscriptSection
		if err := json.Unmarshal(probe.Sections, &sections); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrCorruptCollection, err)
		}
		kb := &model.KnowledgeBase{Meta: probe.Meta}
		for _, sec := range sections {
			for _, raw := range sec.Items {
				appendRawItem(kb, raw)
			}
		}
		return kb, nil
	}

	return nil, ErrCorruptCollection
}

// trieNode is the tree-shaped collection layout.
type trieNode struct {
	Items    []json.RawMessage   `json:"items,omitempty"`
	Children map[string]trieNode `json:"children,omitempty"`
}

// manuscriptSection is the section-shaped collection layout.
type manuscriptSection struct {
	Title string            `json:"title,omitempty"`
	Items []json.RawMessage `json:"items"`
}

func flattenTrie(node *trieNode, kb *model.KnowledgeBase) {
	for _, raw := range node.Items {
		appendRawItem(kb, raw)
	}
	for _, child := range node.Children {
		flattenTrie(&child, kb)
	}
}

// appendRawItem coerces one raw record into the matching collection. A
// record is a fact when it carries a triple (or declares kind "fact");
// otherwise its kind field routes it. Unroutable records are dropped.
func appendRawItem(kb *model.KnowledgeBase, raw json.RawMessage) {
	var probe struct {
		Kind      string `json:"kind"`
		Subject   string `json:"subject"`
		Predicate string `json:"predicate"`
		Object    string `json:"object"`
	}
	if err := json.Unmarshal(raw, &probe); err != nil {
		return
	}

	if probe.Kind == model.KindFact || (probe.Subject != "" && probe.Predicate != "" && probe.Object != "") {
		var f model.Fact
		if err := json.Unmarshal(raw, &f); err != nil {
			return
		}
		kb.Collections.Facts = append(kb.Collections.Facts, f)
		return
	}

	var it model.Item
	if err := json.Unmarshal(raw, &it); err != nil {
		return
	}
	switch probe.Kind {
	case model.KindPattern:
		kb.Collections.Patterns = append(kb.Collections.Patterns, it)
	case model.KindAxiom:
		kb.Collections.Axioms = append(kb.Collections.Axioms, it)
	case model.KindCrossReference:
		kb.Collections.CrossReferences = append(kb.Collections.CrossReferences, it)
	}
}

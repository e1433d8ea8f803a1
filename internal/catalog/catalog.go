// Package catalog holds the static registry of pattern categories that
// drive lexical extraction. The catalog is pure configuration: loaded
// once, validated up front, immutable afterwards.
package catalog

import (
	"fmt"
	"os"
	"regexp"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Category is one named pattern-matching rule set.
type Category struct {
	ID       string   `yaml:"id"`
	Label    string   `yaml:"label"`
	Keywords []string `yaml:"keywords"`

	// Dependencies lists category ids that are conceptual prerequisites.
	Dependencies []string `yaml:"dependencies"`

	// Rank is the category's position in the refinement chain.
	Rank int `yaml:"rank"`

	// ExternallyValidated marks domain-grounded categories whose facts
	// receive the stronger corroboration bonus.
	ExternallyValidated bool `yaml:"externally_validated"`

	matcher *regexp.Regexp
}

// Matches returns the normalized base keyword for every occurrence in
// text. Matching is case-insensitive, word-bounded, and tolerates simple
// plural forms; the returned lexeme is always the singular keyword in
// lower case. Categories without keywords (structural categories) match
// nothing.
func (c *Category) Matches(text string) []string {
	if c.matcher == nil {
		return nil
	}
	var out []string
	for _, m := range c.matcher.FindAllStringSubmatch(text, -1) {
		out = append(out, strings.ToLower(m[1]))
	}
	return out
}

// Catalog is an immutable, validated set of categories.
type Catalog struct {
	categories []*Category
	byID       map[string]*Category
}

// New compiles and validates a category set. A dependency referencing a
// non-existent category id is a fatal configuration error.
func New(categories []*Category) (*Catalog, error) {
	c := &Catalog{byID: make(map[string]*Category, len(categories))}
	for _, cat := range categories {
		if cat.ID == "" {
			return nil, fmt.Errorf("catalog: category with empty id")
		}
		if _, dup := c.byID[cat.ID]; dup {
			return nil, fmt.Errorf("catalog: duplicate category id %q", cat.ID)
		}
		if cat.Label == "" {
			cat.Label = cat.ID
		}
		if err := cat.compile(); err != nil {
			return nil, fmt.Errorf("catalog: category %q: %w", cat.ID, err)
		}
		c.byID[cat.ID] = cat
		c.categories = append(c.categories, cat)
	}

	for _, cat := range c.categories {
		for _, dep := range cat.Dependencies {
			if _, ok := c.byID[dep]; !ok {
				return nil, fmt.Errorf("catalog: category %q depends on unknown category %q", cat.ID, dep)
			}
		}
	}

	sort.SliceStable(c.categories, func(i, j int) bool {
		return c.categories[i].Rank < c.categories[j].Rank
	})

	return c, nil
}

func (cat *Category) compile() error {
	if len(cat.Keywords) == 0 {
		return nil
	}
	parts := make([]string, 0, len(cat.Keywords))
	for _, kw := range cat.Keywords {
		kw = strings.TrimSpace(strings.ToLower(kw))
		if kw == "" {
			continue
		}
		parts = append(parts, regexp.QuoteMeta(kw))
	}
	if len(parts) == 0 {
		return nil
	}
	// Word-boundary match with optional plural suffix; longest keyword
	// first so that "matrix multiplication" wins over "matrix".
	sort.Slice(parts, func(i, j int) bool { return len(parts[i]) > len(parts[j]) })
	expr := `(?i)\b(` + strings.Join(parts, "|") + `)(?:e?s)?\b`
	re, err := regexp.Compile(expr)
	if err != nil {
		return fmt.Errorf("compile matcher: %w", err)
	}
	cat.matcher = re
	return nil
}

// Categories returns the categories in rank order.
func (c *Catalog) Categories() []*Category {
	return c.categories
}

// Get returns the category with the given id.
func (c *Catalog) Get(id string) (*Category, bool) {
	cat, ok := c.byID[id]
	return cat, ok
}

// Len returns the number of categories.
func (c *Catalog) Len() int {
	return len(c.categories)
}

// Load builds the catalog from the built-in defaults, optionally
// overlaid with categories from a YAML file. Overlay categories with an
// id already present replace the default definition.
func Load(path string) (*Catalog, error) {
	cats := defaultCategories()
	if path != "" {
		overlay, err := loadFile(path)
		if err != nil {
			return nil, err
		}
		cats = mergeOverlay(cats, overlay)
	}
	return New(cats)
}

func loadFile(path string) ([]*Category, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog file: %w", err)
	}
	var doc struct {
		Categories []*Category `yaml:"categories"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse catalog file %s: %w", path, err)
	}
	return doc.Categories, nil
}

func mergeOverlay(base, overlay []*Category) []*Category {
	out := make([]*Category, 0, len(base)+len(overlay))
	replaced := make(map[string]*Category, len(overlay))
	for _, cat := range overlay {
		replaced[cat.ID] = cat
	}
	for _, cat := range base {
		if o, ok := replaced[cat.ID]; ok {
			out = append(out, o)
			delete(replaced, cat.ID)
			continue
		}
		out = append(out, cat)
	}
	for _, cat := range overlay {
		if _, pending := replaced[cat.ID]; pending {
			out = append(out, cat)
		}
	}
	return out
}

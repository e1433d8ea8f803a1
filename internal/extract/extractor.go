// Package extract applies the category catalog to documents and emits
// raw facts. The lexical pass runs on every document; structured
// (key/value) documents additionally get a depth-bounded structural
// pass. No understanding is claimed: a fact records that a category's
// lexical pattern matched, nothing more.
package extract

import (
	"fmt"
	"os"
	"strings"

	"github.com/ppiankov/gnosia/internal/catalog"
	"github.com/ppiankov/gnosia/internal/model"
	"github.com/ppiankov/gnosia/internal/oracle"
)

// Extractor turns one document into raw facts.
type Extractor struct {
	catalog      *catalog.Catalog
	oracle       oracle.Oracle
	cfg          model.ExtractionConfig
	minRelevance float64
}

// Result carries the facts from one document plus recoverable-failure
// flags for the pipeline's counters.
type Result struct {
	Facts []model.Fact

	// StructuredFallback is set when a structured document failed to
	// parse and only the raw-text pass ran.
	StructuredFallback bool
}

// NewExtractor creates an extractor over a validated catalog.
func NewExtractor(cat *catalog.Catalog, o oracle.Oracle, cfg model.ExtractionConfig, minRelevance float64) *Extractor {
	return &Extractor{
		catalog:      cat,
		oracle:       o,
		cfg:          cfg,
		minRelevance: minRelevance,
	}
}

// ExtractFile reads the document from disk and extracts facts. Read
// errors are returned to the caller, which skips and counts them.
func (e *Extractor) ExtractFile(doc model.Document) (*Result, error) {
	data, err := os.ReadFile(doc.Path)
	if err != nil {
		return nil, fmt.Errorf("read document %s: %w", doc.Path, err)
	}
	return e.Extract(doc, data), nil
}

// Extract runs the lexical pass (and, for structured formats, the
// structural pass) over content. It never fails: malformed structured
// input falls back to raw text.
func (e *Extractor) Extract(doc model.Document, content []byte) *Result {
	result := &Result{}

	text := string(content)
	if doc.Format == model.FormatHTML {
		text = visibleText(text)
	}

	result.Facts = e.lexicalPass(doc, text)

	if doc.IsStructured() {
		structural, err := e.structuralPass(doc, content)
		if err != nil {
			// MalformedStructuredInput: the lexical pass above already
			// covered the raw text, so just record the fallback.
			result.StructuredFallback = true
		} else {
			result.Facts = append(result.Facts, structural...)
		}
	}

	return result
}

// lexicalPass emits one fact per match occurrence per category.
func (e *Extractor) lexicalPass(doc model.Document, text string) []model.Fact {
	var facts []model.Fact

	for _, cat := range e.catalog.Categories() {
		matches := cat.Matches(text)
		if len(matches) == 0 {
			// A category yielding zero matches is not an error.
			continue
		}

		records := e.oracle.Lookup(cat.ID)
		corroborated := oracle.Corroborated(records, e.minRelevance)

		predicate := model.PredicateImplements
		confidence := e.cfg.BaseConfidence
		if corroborated {
			predicate = model.PredicateImplementsValidated
			confidence = e.cfg.ValidatedConfidence
		}

		for _, lexeme := range matches {
			facts = append(facts, model.Fact{
				Subject:             cat.Label,
				Predicate:           predicate,
				Object:              model.NormalizeTerm(lexeme),
				Confidence:          confidence,
				CategoryID:          cat.ID,
				Origins:             []string{doc.Path},
				Format:              doc.Format,
				Rank:                cat.Rank,
				Dependencies:        append([]string(nil), cat.Dependencies...),
				Validated:           corroborated,
				ExternallyValidated: cat.ExternallyValidated,
				LastSeen:            doc.ModTime,
			})
		}
	}

	return facts
}

// docLabel returns the structural root label for a document: the file
// name without its extension.
func docLabel(path string) string {
	base := path
	if idx := strings.LastIndexAny(base, "/\\"); idx >= 0 {
		base = base[idx+1:]
	}
	if idx := strings.LastIndex(base, "."); idx > 0 {
		base = base[:idx]
	}
	return base
}

package pipeline

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/ppiankov/gnosia/internal/model"
)

// Renderer writes a knowledge base to its output formats.
type Renderer struct {
	pretty bool
}

// NewRenderer creates a new renderer
func NewRenderer(pretty bool) *Renderer {
	return &Renderer{pretty: pretty}
}

// RenderJSON writes the knowledge base as JSON to the given path,
// creating parent directories as needed.
func (r *Renderer) RenderJSON(kb *model.KnowledgeBase, path string) error {
	var (
		data []byte
		err  error
	)
	if r.pretty {
		data, err = json.MarshalIndent(kb, "", "  ")
	} else {
		data, err = json.Marshal(kb)
	}
	if err != nil {
		return fmt.Errorf("marshal knowledge base: %w", err)
	}

	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write knowledge base: %w", err)
	}
	return nil
}

// RenderSummary prints a short human-readable run summary.
func (r *Renderer) RenderSummary(w io.Writer, result *Result) {
	kb := result.KnowledgeBase

	fmt.Fprintf(w, "Source:            %s\n", kb.Meta.Source)
	fmt.Fprintf(w, "Documents:         %d\n", result.Documents)
	fmt.Fprintf(w, "Facts:             %d\n", len(kb.Collections.Facts))
	if n := len(kb.Collections.Patterns); n > 0 {
		fmt.Fprintf(w, "Patterns:          %d\n", n)
	}
	if n := len(kb.Collections.Axioms); n > 0 {
		fmt.Fprintf(w, "Axioms:            %d\n", n)
	}
	if n := len(kb.Collections.CrossReferences); n > 0 {
		fmt.Fprintf(w, "Cross-references:  %d\n", n)
	}
	fmt.Fprintf(w, "Validation ratio:  %.2f\n", kb.Meta.ValidationRatio)
	if kb.Stats != nil {
		fmt.Fprintf(w, "Overall coherence: %.3f\n", kb.Stats.OverallCoherence)
		if len(kb.Stats.Ranking) > 0 {
			fmt.Fprintf(w, "Top category:      %s\n", kb.Stats.Ranking[0])
		}
	}
	if result.Summary != nil && result.Summary.Collisions > 0 {
		fmt.Fprintf(w, "Hash collisions:   %d\n", result.Summary.Collisions)
	}

	f := kb.Meta.Failures
	if f.DocumentsSkipped+f.StructuredFallbacks+f.CollectionsSkipped > 0 {
		fmt.Fprintf(w, "Skipped:           %d documents, %d collections (%d structured fallbacks)\n",
			f.DocumentsSkipped, f.CollectionsSkipped, f.StructuredFallbacks)
	}
}

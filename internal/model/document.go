package model

import "time"

// FormatTag classifies a document by its detected format
type FormatTag string

const (
	FormatText     FormatTag = "text"
	FormatMarkdown FormatTag = "markdown"
	FormatHTML     FormatTag = "html"
	FormatJSON     FormatTag = "json"
	FormatYAML     FormatTag = "yaml"
	FormatCSV      FormatTag = "csv"
)

// Document describes one candidate file discovered by the corpus scanner.
// Documents are ephemeral: they live for a single scan pass.
type Document struct {
	Path    string    `json:"path"`
	Size    int64     `json:"size"`
	ModTime time.Time `json:"mod_time"`
	Format  FormatTag `json:"format"`
}

// IsStructured reports whether the document format has a key/value tree
// that the structural extractor can walk.
func (d Document) IsStructured() bool {
	return d.Format == FormatJSON || d.Format == FormatYAML
}

// FormatForExtension maps a file extension (with leading dot) to a format
// tag. Unknown extensions fall back to plain text.
func FormatForExtension(ext string) FormatTag {
	switch ext {
	case ".md", ".markdown":
		return FormatMarkdown
	case ".html", ".htm":
		return FormatHTML
	case ".json":
		return FormatJSON
	case ".yaml", ".yml":
		return FormatYAML
	case ".csv":
		return FormatCSV
	default:
		return FormatText
	}
}

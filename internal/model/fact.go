package model

import (
	"crypto/sha256"
	"encoding/hex"
	"regexp"
	"strings"
	"time"
)

// Predicates emitted by the triple extractor. The validated form is used
// when the oracle corroborates the fact's category.
const (
	PredicateImplements          = "implements"
	PredicateImplementsValidated = "implements_validated"

	// Structural relations for key/value documents.
	RelationContains      = "contains"
	RelationNumericValue  = "has_numeric_value"
	RelationContainsArray = "contains_array"
)

// Fact is a (subject, predicate, object) triple with quality metadata.
// Identity is derived from the normalized triple only; everything else is
// evidence that merging accumulates.
type Fact struct {
	Subject    string  `json:"subject"`
	Predicate  string  `json:"predicate"`
	Object     string  `json:"object"`
	Confidence float64 `json:"confidence"`

	CategoryID   string    `json:"category_id,omitempty"`
	Origins      []string  `json:"origins,omitempty"`
	Format       FormatTag `json:"format,omitempty"`
	Rank         int       `json:"rank,omitempty"`
	Dependencies []string  `json:"dependencies,omitempty"`

	Validated           bool `json:"validated"`            // oracle-corroborated
	ExternallyValidated bool `json:"externally_validated"` // category-level flag

	Fitness   float64   `json:"fitness"`
	Neighbors int       `json:"neighbors"`
	LastSeen  time.Time `json:"last_seen,omitempty"`
}

var whitespaceRE = regexp.MustCompile(`\s+`)

// NormalizeTerm lowercases a triple component and collapses internal
// whitespace so that identity hashing is insensitive to case and spacing.
func NormalizeTerm(s string) string {
	return whitespaceRE.ReplaceAllString(strings.TrimSpace(strings.ToLower(s)), " ")
}

// Identity returns the normalized subject|predicate|object key. Two facts
// with the same identity are the same fact regardless of which document
// produced them.
func (f *Fact) Identity() string {
	return NormalizeTerm(f.Subject) + "|" + NormalizeTerm(f.Predicate) + "|" + NormalizeTerm(f.Object)
}

// Hash returns the content-addressed hash of the fact's identity.
func (f *Fact) Hash() string {
	return HashContent(f.Identity())
}

// Origin returns the fact's primary origin document reference, or "" when
// no origin has been recorded.
func (f *Fact) Origin() string {
	if len(f.Origins) == 0 {
		return ""
	}
	return f.Origins[0]
}

// HashContent computes the sha256 hex digest used for content addressing
// throughout the merger.
func HashContent(content string) string {
	sum := sha256.Sum256([]byte(content))
	return hex.EncodeToString(sum[:])
}

// ValidationRecord is one corroborating concept supplied by the
// validation oracle for a category.
type ValidationRecord struct {
	CategoryID string  `json:"category_id"`
	Concept    string  `json:"concept"`
	Relevance  float64 `json:"relevance"`
}

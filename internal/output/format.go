package output

import (
	"fmt"
	"strings"

	"github.com/crimson-sun/industry-codes/internal/model"
)

// Verbosity controls how much of each matched record is emitted.
type Verbosity int

const (
	Minimal  Verbosity = iota // id, label, similarity
	Standard                  // adds hierarchy, category and distance
	Full                      // the whole record
)

var verbosityNames = [...]string{"minimal", "standard", "full"}

func (v Verbosity) String() string {
	if v < Minimal || v > Full {
		return fmt.Sprintf("Verbosity(%d)", int(v))
	}
	return verbosityNames[v]
}

// ParseVerbosity maps "minimal", "standard" or "full" to a Verbosity.
func ParseVerbosity(s string) (Verbosity, error) {
	for i, name := range verbosityNames {
		if strings.EqualFold(strings.TrimSpace(s), name) {
			return Verbosity(i), nil
		}
	}
	return Standard, fmt.Errorf("unknown verbosity %q", s)
}

// MinimalMatch is the Minimal projection of a ScoredMatch.
type MinimalMatch struct {
	ID         int     `json:"industry_id"`
	Label      string  `json:"label"`
	Similarity float64 `json:"similarity_score"`
}

// StandardMatch is the Standard projection of a ScoredMatch.
type StandardMatch struct {
	ID         int     `json:"industry_id"`
	Label      string  `json:"label"`
	Hierarchy  string  `json:"hierarchy"`
	Category   string  `json:"category"`
	Distance   int     `json:"levenshtein_distance"`
	Similarity float64 `json:"similarity_score"`
}

// Result is the encoded form of a QueryResult. Matches holds []MinimalMatch,
// []StandardMatch or []model.ScoredMatch depending on verbosity.
type Result struct {
	Query   string `json:"query"`
	Field   string `json:"search_field"`
	Matches any    `json:"matches"`
	Error   string `json:"error,omitempty"`
}

// FormatResult projects r's matches according to verbosity.
func FormatResult(r model.QueryResult, verbosity Verbosity) Result {
	out := Result{Query: r.Query, Field: r.Field, Error: r.Error}

	switch verbosity {
	case Minimal:
		ms := make([]MinimalMatch, len(r.Matches))
		for i, m := range r.Matches {
			ms[i] = MinimalMatch{ID: m.ID, Label: m.Label, Similarity: m.Similarity}
		}
		out.Matches = ms
	case Standard:
		ms := make([]StandardMatch, len(r.Matches))
		for i, m := range r.Matches {
			ms[i] = StandardMatch{
				ID:         m.ID,
				Label:      m.Label,
				Hierarchy:  m.Hierarchy,
				Category:   m.Category,
				Distance:   m.Distance,
				Similarity: m.Similarity,
			}
		}
		out.Matches = ms
	default:
		ms := r.Matches
		if ms == nil {
			ms = []model.ScoredMatch{}
		}
		out.Matches = ms
	}
	return out
}

package industrycodes

import (
	"slices"

	"github.com/crimson-sun/industry-codes/internal/model"
)

// Industry is one catalog entry. Hierarchy is a ">"-delimited path;
// Category is its first segment, Subcategories the rest, and Depth the
// number of segments.
type Industry struct {
	ID            int      `json:"industry_id"`
	Label         string   `json:"label"`
	Hierarchy     string   `json:"hierarchy"`
	Description   string   `json:"description"`
	Category      string   `json:"category"`
	Subcategories []string `json:"subcategories"`
	Depth         int      `json:"depth"`
}

// NewIndustry builds an Industry and derives Category, Subcategories and
// Depth from the ">"-delimited hierarchy.
func NewIndustry(id int, label, hierarchy, description string) Industry {
	return industryFromRecord(model.NewRecord(id, label, hierarchy, description))
}

// Match is an Industry scored against one query.
type Match struct {
	Industry
	Distance   int     `json:"levenshtein_distance"`
	Similarity float64 `json:"similarity_score"` // 1 - distance/max_len, in [0, 1]
}

func industryFromRecord(r model.Record) Industry {
	return Industry{
		ID:            r.ID,
		Label:         r.Label,
		Hierarchy:     r.Hierarchy,
		Description:   r.Description,
		Category:      r.Category,
		Subcategories: slices.Clone(r.Subcategories),
		Depth:         r.Depth,
	}
}

func (i Industry) record() model.Record {
	subs := slices.Clone(i.Subcategories)
	if subs == nil {
		subs = []string{}
	}
	return model.Record{
		ID:            i.ID,
		Label:         i.Label,
		Hierarchy:     i.Hierarchy,
		Description:   i.Description,
		Category:      i.Category,
		Subcategories: subs,
		Depth:         i.Depth,
	}
}

func industryRecords(inds []Industry) []model.Record {
	out := make([]model.Record, len(inds))
	for i, ind := range inds {
		out[i] = ind.record()
	}
	return out
}

func industriesFromRecords(rs []model.Record) []Industry {
	out := make([]Industry, len(rs))
	for i, r := range rs {
		out[i] = industryFromRecord(r)
	}
	return out
}

func matchesFromScored(ms []model.ScoredMatch) []Match {
	out := make([]Match, len(ms))
	for i, m := range ms {
		out[i] = Match{
			Industry:   industryFromRecord(m.Record),
			Distance:   m.Distance,
			Similarity: m.Similarity,
		}
	}
	return out
}

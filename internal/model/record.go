package model

import (
	"slices"
	"strings"
	"time"
)

// Record is a single industry classification entry. Hierarchy is a
// ">"-delimited path such as "Technology, Information and Media > Software
// Development"; Category is its first segment.
type Record struct {
	ID            int      `json:"industry_id"`
	Label         string   `json:"label"`
	Hierarchy     string   `json:"hierarchy"`
	Description   string   `json:"description"`
	Category      string   `json:"category"`
	Subcategories []string `json:"subcategories"`
	Depth         int      `json:"depth"`
}

// NewRecord builds a Record and derives Category, Subcategories and Depth
// from the hierarchy path.
func NewRecord(id int, label, hierarchy, description string) Record {
	parts := SplitHierarchy(hierarchy)
	r := Record{
		ID:            id,
		Label:         label,
		Hierarchy:     hierarchy,
		Description:   description,
		Subcategories: []string{},
		Depth:         len(parts),
	}
	if len(parts) > 0 {
		r.Category = parts[0]
		r.Subcategories = append(r.Subcategories, parts[1:]...)
	}
	return r
}

// SplitHierarchy splits a ">"-delimited path into trimmed segments.
// An empty or blank hierarchy yields a single empty segment.
func SplitHierarchy(hierarchy string) []string {
	parts := strings.Split(hierarchy, ">")
	for i, p := range parts {
		parts[i] = strings.TrimSpace(p)
	}
	return parts
}

// Clone returns a copy of r that shares no mutable state with it.
func (r Record) Clone() Record {
	r.Subcategories = slices.Clone(r.Subcategories)
	return r
}

// Document is the persisted catalog representation.
type Document struct {
	LastUpdated     time.Time `json:"last_updated,omitzero"`
	SourceURL       string    `json:"source_url,omitempty"`
	TotalIndustries int       `json:"total_industries"`
	Industries      []Record  `json:"industries"`
}

// NewDocument wraps records with provenance metadata.
func NewDocument(records []Record, sourceURL string, updated time.Time) *Document {
	if records == nil {
		records = []Record{}
	}
	return &Document{
		LastUpdated:     updated,
		SourceURL:       sourceURL,
		TotalIndustries: len(records),
		Industries:      records,
	}
}

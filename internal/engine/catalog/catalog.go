// Package catalog holds the immutable set of industry records searched by
// the engine, plus flat views and a category index built once up front.
package catalog

import (
	"slices"

	"github.com/google/btree"

	"github.com/crimson-sun/industry-codes/internal/engine/fold"
	"github.com/crimson-sun/industry-codes/internal/model"
)

const btreeDegree = 32

// Catalog is a read-only, ordered collection of records. It is safe for
// concurrent use once built.
type Catalog struct {
	records     []model.Record
	labels      []string
	hierarchies []string

	categories *btree.BTreeG[string]
	byCategory map[string][]int // folded category -> record positions
}

// New builds a Catalog from records in the given order. Records are
// trusted to be valid (loader.Validate enforces that); a nil or empty slice
// gives an empty catalog.
func New(records []model.Record) *Catalog {
	c := &Catalog{
		records:     make([]model.Record, len(records)),
		labels:      make([]string, len(records)),
		hierarchies: make([]string, len(records)),
		categories:  btree.NewOrderedG[string](btreeDegree),
		byCategory:  make(map[string][]int),
	}
	for i, r := range records {
		c.records[i] = r.Clone()
		c.labels[i] = r.Label
		c.hierarchies[i] = r.Hierarchy
		c.categories.ReplaceOrInsert(r.Category)
		key := fold.Lower(r.Category)
		c.byCategory[key] = append(c.byCategory[key], i)
	}
	return c
}

// Len returns the number of records.
func (c *Catalog) Len() int {
	return len(c.records)
}

// Record returns the record at position i. The returned value shares no
// mutable state with the catalog.
func (c *Catalog) Record(i int) model.Record {
	return c.records[i].Clone()
}

// Records returns a copy of all records in catalog order.
func (c *Catalog) Records() []model.Record {
	out := make([]model.Record, len(c.records))
	for i, r := range c.records {
		out[i] = r.Clone()
	}
	return out
}

// Labels returns every record label in catalog order.
func (c *Catalog) Labels() []string {
	return slices.Clone(c.labels)
}

// Hierarchies returns every record hierarchy in catalog order.
func (c *Catalog) Hierarchies() []string {
	return slices.Clone(c.hierarchies)
}

// Categories returns the distinct top-level categories, sorted ascending.
func (c *Catalog) Categories() []string {
	out := make([]string, 0, c.categories.Len())
	c.categories.Ascend(func(name string) bool {
		out = append(out, name)
		return true
	})
	return out
}

// ByCategory returns the records whose category matches name
// case-insensitively, in catalog order. No match yields an empty slice.
func (c *Catalog) ByCategory(name string) []model.Record {
	idx := c.byCategory[fold.Lower(name)]
	out := make([]model.Record, len(idx))
	for i, pos := range idx {
		out[i] = c.records[pos].Clone()
	}
	return out
}

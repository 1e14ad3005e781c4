package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crimson-sun/industry-codes/internal/model"
)

func testRecords() []model.Record {
	return []model.Record{
		model.NewRecord(4, "Software Development", "Technology, Information and Media > Software Development", "Builds software."),
		model.NewRecord(32, "Restaurants", "Accommodation Services > Food and Beverage Services > Restaurants", ""),
		model.NewRecord(6, "Technology, Information and Internet", "Technology, Information and Media > Technology, Information and Internet", ""),
		model.NewRecord(1, "Accommodation Services", "Accommodation Services", ""),
		model.NewRecord(96, "IT Services and IT Consulting", "Professional Services > IT Services and IT Consulting", ""),
	}
}

func TestNewBuildsFlatViews(t *testing.T) {
	recs := testRecords()
	c := New(recs)

	require.Equal(t, len(recs), c.Len())
	labels := c.Labels()
	hierarchies := c.Hierarchies()
	for i, r := range recs {
		assert.Equal(t, r.Label, labels[i])
		assert.Equal(t, r.Hierarchy, hierarchies[i])
		assert.Equal(t, r, c.Record(i))
	}
}

func TestNewEmpty(t *testing.T) {
	for _, c := range []*Catalog{New(nil), New([]model.Record{})} {
		assert.Equal(t, 0, c.Len())
		assert.Empty(t, c.Categories())
		assert.NotNil(t, c.Categories())
		assert.Empty(t, c.ByCategory("anything"))
		assert.Empty(t, c.Records())
	}
}

func TestCategoriesSortedDistinct(t *testing.T) {
	c := New(testRecords())
	assert.Equal(t, []string{
		"Accommodation Services",
		"Professional Services",
		"Technology, Information and Media",
	}, c.Categories())
}

func TestByCategoryCaseInsensitive(t *testing.T) {
	c := New(testRecords())

	lower := c.ByCategory("technology, information and media")
	upper := c.ByCategory("TECHNOLOGY, INFORMATION AND MEDIA")
	require.Len(t, lower, 2)
	assert.Equal(t, lower, upper)

	// Catalog order is preserved.
	assert.Equal(t, 4, lower[0].ID)
	assert.Equal(t, 6, lower[1].ID)
}

func TestByCategoryNoMatch(t *testing.T) {
	c := New(testRecords())
	got := c.ByCategory("Mining")
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestCatalogIsolatedFromCallers(t *testing.T) {
	recs := testRecords()
	c := New(recs)

	// Mutating the input after construction must not leak in.
	recs[1].Subcategories[0] = "changed"
	assert.Equal(t, "Food and Beverage Services", c.Record(1).Subcategories[0])

	// Nor may mutating returned values.
	got := c.ByCategory("Accommodation Services")
	got[0].Subcategories[0] = "changed again"
	assert.Equal(t, "Food and Beverage Services", c.Record(1).Subcategories[0])

	labels := c.Labels()
	labels[0] = "mutated"
	assert.Equal(t, "Software Development", c.Labels()[0])
}

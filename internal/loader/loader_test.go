package loader

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crimson-sun/industry-codes/internal/model"
)

func TestRecordsFromstatic(t *testing.T) {
	recs := []model.Record{
		model.NewRecord(1, "Software Development", "Tech > Software", ""),
		model.NewRecord(2, "Restaurants", "Food > Dining", ""),
	}
	got, err := Records(context.Background(), static(recs))
	require.NoError(t, err)
	assert.Equal(t, recs, got)
}

func TestRecordsEmptyIsValid(t *testing.T) {
	got, err := Records(context.Background(), static(nil))
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestRecordsWrapsLoadFailure(t *testing.T) {
	boom := errors.New("connection refused")
	l := Func(func(context.Context) (*model.Document, error) { return nil, boom })

	_, err := Records(context.Background(), l)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDataAcquisition)
	assert.ErrorIs(t, err, boom)
}

func TestRecordsNilDocument(t *testing.T) {
	l := Func(func(context.Context) (*model.Document, error) { return nil, nil })
	_, err := Records(context.Background(), l)
	assert.ErrorIs(t, err, ErrDataAcquisition)
}

func TestRecordsWrapsValidationFailure(t *testing.T) {
	recs := []model.Record{
		model.NewRecord(1, "A", "X", ""),
		model.NewRecord(1, "B", "Y", ""),
	}
	_, err := Records(context.Background(), static(recs))
	assert.ErrorIs(t, err, ErrDataAcquisition)
	assert.Contains(t, err.Error(), "duplicate industry_id 1")
}

func TestValidate(t *testing.T) {
	good := model.NewRecord(1, "Software Development", "Tech > Software", "")

	badCategory := good
	badCategory.Category = "Food"

	badDepth := good
	badDepth.Depth = 3

	badSubs := good
	badSubs.Subcategories = []string{"Hardware"}

	noLabel := good
	noLabel.Label = "  "

	zeroDepth := model.Record{ID: 9, Label: "x", Hierarchy: "X", Category: "X"}

	tests := []struct {
		name    string
		rec     model.Record
		wantErr bool
	}{
		{"valid", good, false},
		{"category mismatch", badCategory, true},
		{"depth mismatch", badDepth, true},
		{"subcategory mismatch", badSubs, true},
		{"empty label", noLabel, true},
		{"zero depth", zeroDepth, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate([]model.Record{tt.rec})
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateAcceptsNullSubcategoriesAtDepthOne(t *testing.T) {
	r := model.Record{ID: 1, Label: "Retail", Hierarchy: "Retail", Category: "Retail", Depth: 1}
	assert.NoError(t, Validate([]model.Record{r}))
}

func TestRegistry(t *testing.T) {
	Register("test-static", func(Config) (Loader, error) { return static(nil), nil })

	ctor, err := Get("test-static")
	require.NoError(t, err)
	l, err := ctor(Config{})
	require.NoError(t, err)
	assert.NotNil(t, l)
	assert.Contains(t, Sources(), "test-static")
	assert.IsNonDecreasing(t, Sources())

	_, err = Get("nope")
	assert.ErrorContains(t, err, "unknown catalog source")
}

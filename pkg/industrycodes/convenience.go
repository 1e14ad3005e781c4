package industrycodes

import "context"

// GetClosestCategory builds a Matcher and returns the topN label matches
// for query. Each call loads the catalog; for repeated queries create a
// Matcher with New and reuse it.
func GetClosestCategory(ctx context.Context, query string, topN int, opts ...Option) ([]Match, error) {
	m, err := New(ctx, opts...)
	if err != nil {
		return nil, err
	}
	return m.FindClosest(query, topN, Label)
}

// GetClosestCategoriesBatch is GetClosestCategory for several queries
// sharing one catalog load.
func GetClosestCategoriesBatch(ctx context.Context, queries []string, topN int, opts ...Option) ([][]Match, error) {
	m, err := New(ctx, opts...)
	if err != nil {
		return nil, err
	}
	return m.FindClosestBatch(queries, topN, Label)
}

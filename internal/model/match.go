package model

// ScoredMatch is a catalog record scored against one query.
// Distance and Similarity are only meaningful relative to that query.
type ScoredMatch struct {
	Record
	Distance   int     `json:"levenshtein_distance"`
	Similarity float64 `json:"similarity_score"`
}

// QueryResult is the outcome of one query in a batch run.
type QueryResult struct {
	Query   string        `json:"query"`
	Field   string        `json:"search_field"`
	Matches []ScoredMatch `json:"matches"`
	Error   string        `json:"error,omitempty"`
}

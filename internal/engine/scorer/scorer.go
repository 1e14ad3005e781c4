// Package scorer turns edit distance into a normalized similarity score.
package scorer

// Scorer scores folded query text against folded record text. It owns
// reusable DP rows and is not safe for concurrent use; give each goroutine
// its own.
type Scorer struct {
	prev []int
	curr []int
}

// New creates a Scorer with empty scratch space.
func New() *Scorer {
	return &Scorer{}
}

// Score returns the edit distance between query and text and the
// similarity derived from it.
func (s *Scorer) Score(query, text []rune) (distance int, similarity float64) {
	distance = s.Distance(query, text)
	return distance, Similarity(distance, len(query), len(text))
}

// Similarity normalizes an edit distance against the longer of the two
// compared lengths: 1 - distance/maxLen. Two empty strings score 0.
func Similarity(distance, lenA, lenB int) float64 {
	maxLen := max(lenA, lenB)
	if maxLen == 0 {
		return 0
	}
	return 1 - float64(distance)/float64(maxLen)
}

package scorer

// Levenshtein computes the edit distance between a and b counted in code
// points: the minimum number of single-rune insertions, deletions or
// substitutions needed to turn one into the other.
func Levenshtein(a, b string) int {
	return New().Distance([]rune(a), []rune(b))
}

// Distance computes the edit distance between a and b, reusing the
// scorer's scratch rows.
//
// Time complexity: O(len(a) * len(b))
// Space complexity: O(min(len(a), len(b))).
func (s *Scorer) Distance(a, b []rune) int {
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	// Keep a as the shorter sequence so the rows stay small.
	if len(a) > len(b) {
		a, b = b, a
	}

	prev, curr := s.rows(len(a) + 1)
	for i := range prev {
		prev[i] = i
	}

	for j := 1; j <= len(b); j++ {
		curr[0] = j
		bj := b[j-1]
		for i := 1; i <= len(a); i++ {
			cost := 1
			if a[i-1] == bj {
				cost = 0
			}
			curr[i] = min(
				prev[i]+1,      // deletion
				curr[i-1]+1,    // insertion
				prev[i-1]+cost, // substitution
			)
		}
		prev, curr = curr, prev
	}

	return prev[len(a)]
}

// rows returns two scratch rows of length n, growing the backing buffers
// when needed.
func (s *Scorer) rows(n int) ([]int, []int) {
	if cap(s.prev) < n {
		s.prev = make([]int, n)
		s.curr = make([]int, n)
	}
	return s.prev[:n], s.curr[:n]
}

package fold

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLower(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"software", "software"},
		{"Software Development", "software development"},
		{"TECH > SOFTWARE", "tech > software"},
		{"ÉCOLE", "école"},
		{"ΑΘΗΝΑ", "αθηνα"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Lower(tt.in), "Lower(%q)", tt.in)
	}
}

func TestRunesCountsCodePoints(t *testing.T) {
	r := Runes("Café")
	assert.Len(t, r, 4)
	assert.Equal(t, 'é', r[3])
}

func TestEqual(t *testing.T) {
	assert.True(t, Equal("tech", "TECH"))
	assert.True(t, Equal("Tech", "tEcH"))
	assert.False(t, Equal("tech", "tech "))
}

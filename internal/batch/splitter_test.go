package batch

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplit_Delimited(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		result   string
		expected int
		want     []string
	}{
		{
			name:     "intact",
			result:   "Bonjour +-+ Monde +-+ Au revoir",
			expected: 3,
			want:     []string{"Bonjour", "Monde", "Au revoir"},
		},
		{
			name:     "corrupted spacing",
			result:   "Bonjour +- + Monde + -+ Au revoir + - + Fin",
			expected: 4,
			want:     []string{"Bonjour", "Monde", "Au revoir", "Fin"},
		},
		{
			name:     "collapsed",
			result:   "Bonjour + + Monde+-+Au revoir",
			expected: 3,
			want:     []string{"Bonjour", "Monde", "Au revoir"},
		},
		{
			name:     "single line",
			result:   "  Bonjour ",
			expected: 1,
			want:     []string{"Bonjour"},
		},
		{
			name:     "delimiter lost",
			result:   "Bonjour Monde",
			expected: 2,
			want:     []string{"Bonjour Monde"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Split(ShapeDelimited, tt.result, tt.expected))
		})
	}
}

func TestSplit_RoundTrip(t *testing.T) {
	t.Parallel()

	texts := []string{"Where are you?", "Home,\nfinally.", "<i>Quiet</i>", "1, 2, 3"}
	assert.Equal(t, texts, Split(ShapeDelimited, strings.Join(texts, joiner), len(texts)))
}

func TestSplit_Separated(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []string{"Hej", "Verden"}, Split(ShapeSeparated, "Hej"+Separator+" Verden", 2))
	// separated results keep literal delimiters
	assert.Equal(t, []string{"a +-+ b"}, Split(ShapeSeparated, "a +-+ b", 1))
}

func TestSplitAll(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []string{"Hej", "Verden", "Farvel"},
		SplitAll(ShapeSeparated, []string{"Hej", " Verden", "Farvel "}, 3))
	assert.Equal(t, []string{"Hej", "Verden"},
		SplitAll(ShapeDelimited, []string{"Hej +-+ Verden"}, 2))
	assert.Equal(t, []string{""}, SplitAll(ShapeDelimited, []string{""}, 2))
	assert.Empty(t, SplitAll(ShapeSeparated, nil, 2))
}

package batch

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// Bodies below follow captured responses of the gtx endpoint.
func TestDecodeNestedResponse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		raw  string
		want string
	}{
		{
			name: "single sentence",
			raw:  `[[["Hallo Welt","Hello world",null,null,1]],null,"en"]`,
			want: "Hallo Welt",
		},
		{
			name: "two sentences",
			raw:  `[[["Hallo.","Hello.",null,null,1],["Welt","World",null,null,1]],null,"en"]`,
			want: "Hallo. Welt",
		},
		{
			name: "escaped quotes and newline",
			raw:  `[[["Sag \"Hallo\"\nJa","Say \"hello\"\nyes",null,null,1]],null,"en"]`,
			want: "Sag \"Hallo\"\nJa",
		},
		{
			name: "html entity",
			raw:  `[[["Det er Bob&#39;s","It is Bob's",null,null,1]],null,"en"]`,
			want: "Det er Bob's",
		},
		{
			name: "delimiter kept",
			raw:  `[[["Hej +-+ Verden","Hello +-+ World",null,null,1]],null,"en"]`,
			want: "Hej +-+ Verden",
		},
		{
			name: "blank lines collapsed",
			raw:  `[[["Hej\n\n Verden","Hello\n\nWorld",null,null,1]],null,"en"]`,
			want: "Hej\nVerden",
		},
		{name: "empty", raw: "", want: ""},
		{name: "no nesting", raw: `["a","b"]`, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DecodeNestedResponse(tt.raw))
		})
	}
}

func TestScanTranslatedRuns_DepthThreshold(t *testing.T) {
	t.Parallel()

	// depth 2 is structural, depth 3 holds sentences
	assert.Equal(t, "", scanTranslatedRuns(`[["a","b"]]`))
	assert.Equal(t, "a", scanTranslatedRuns(`[[["a","b"]]]`))
	assert.Equal(t, "a c", scanTranslatedRuns(`[[["a","b"],["c","d"]]]`))
}

func TestScanTranslatedRuns_BracketsInsideQuotes(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "[x] y", scanTranslatedRuns(`[[["[x] y","[x] z"]]]`))
}

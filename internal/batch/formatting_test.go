package batch

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStripFormatting(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		wantText string
		wantTag  Formatting
	}{
		{name: "plain", input: "Hello", wantText: "Hello", wantTag: FormattingNone},
		{name: "italic", input: "<i>Hello</i>", wantText: "Hello", wantTag: FormattingItalic},
		{name: "italic two lines", input: "<i>Hello\nWorld</i>", wantText: "Hello\nWorld", wantTag: FormattingItalicTwoLines},
		{name: "italic three lines", input: "<i>a\nb\nc</i>", wantText: "a\nb\nc", wantTag: FormattingItalic},
		{name: "two spans", input: "<i>a</i> b <i>c</i>", wantText: "<i>a</i> b <i>c</i>", wantTag: FormattingNone},
		{name: "partial span", input: "<i>Hello</i> there", wantText: "<i>Hello</i> there", wantTag: FormattingNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text, tag := StripFormatting(tt.input)
			assert.Equal(t, tt.wantText, text)
			assert.Equal(t, tt.wantTag, tag)
		})
	}
}

func TestFormattingRoundTrip(t *testing.T) {
	t.Parallel()

	for _, input := range []string{"Hello", "<i>Hello</i>", "<i>Hello\nWorld</i>"} {
		text, tag := StripFormatting(input)
		assert.Equal(t, input, RestoreFormatting(text, tag), "round trip of %q", input)
	}
}

package subtitle

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToBatchLinesAndApply(t *testing.T) {
	f := &File{
		Format: "SRT",
		Lines: []Line{
			{Index: 7, Text: "Hello"},
			{Index: 8, Text: "World"},
		},
	}

	lines := ToBatchLines(f)
	require.Len(t, lines, 2)
	assert.Equal(t, 0, lines[0].Index)
	assert.Equal(t, "World", lines[1].Original)

	lines[0].Translated = "Hej"
	lines[1].Translated = "Verden"
	out := ApplyTranslations(f, append(lines, lines[0]))

	assert.Equal(t, "Hej", out.Lines[0].TranslatedText)
	assert.Equal(t, "Verden", out.Lines[1].TranslatedText)
	assert.Equal(t, 7, out.Lines[0].Index)
	assert.Empty(t, f.Lines[0].TranslatedText, "input is not modified")
}

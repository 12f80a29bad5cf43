package batch

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
)

func linesOf(texts ...string) []Line {
	ret := make([]Line, len(texts))
	for i, text := range texts {
		ret[i] = Line{Index: i, Original: text}
	}
	return ret
}

func TestPack_FitsInOneBatch(t *testing.T) {
	t.Parallel()

	batches := Pack(linesOf("Hello", "World", "Goodbye"), PackOptions{SizeBudget: 1000})

	require.Len(t, batches, 1)
	assert.Equal(t, 0, batches[0].Start)
	assert.Equal(t, 2, batches[0].End)
	assert.Equal(t, "Hello +-+ World +-+ Goodbye", batches[0].Packed)
	assert.Equal(t, []string{"Hello", "World", "Goodbye"}, batches[0].Texts)
}

func TestPack_PartitionsInput(t *testing.T) {
	t.Parallel()

	texts := []string{
		"Where are you going?", "Home.", "It is late,", "and I am tired.",
		"Wait for me!", "No.", "Please?", "Fine, come along then.", "Thank you.",
	}
	longest := 0
	for _, text := range texts {
		longest = max(longest, EncodedLen(text))
	}

	for _, budget := range []int{longest, longest * 2, longest * 5, 0} {
		batches := Pack(linesOf(texts...), PackOptions{SizeBudget: budget})
		require.NotEmpty(t, batches)

		next := 0
		for _, b := range batches {
			assert.Equal(t, next, b.Start, "budget %d", budget)
			assert.GreaterOrEqual(t, b.End, b.Start)
			assert.Equal(t, b.Len(), len(b.Texts))
			if budget > 0 && b.Len() > 1 {
				assert.LessOrEqual(t, EncodedLen(b.Packed), budget)
			}
			next = b.End + 1
		}
		assert.Equal(t, len(texts), next, "budget %d", budget)
	}
}

func TestPack_OversizedLineIsSingleton(t *testing.T) {
	t.Parallel()

	batches := Pack(linesOf("short", "this line is definitely too long", "ok"), PackOptions{SizeBudget: 10})

	require.Len(t, batches, 3)
	for i, b := range batches {
		assert.Equal(t, i, b.Start)
		assert.Equal(t, i, b.End)
	}
}

func TestPack_MaxLines(t *testing.T) {
	t.Parallel()

	batches := Pack(linesOf("a", "b", "c", "d", "e"), PackOptions{MaxLines: 2})

	require.Len(t, batches, 3)
	assert.Equal(t, "[0,1]", batches[0].String())
	assert.Equal(t, "[2,3]", batches[1].String())
	assert.Equal(t, "[4,4]", batches[2].String())
}

func TestPacker_NextIsIncremental(t *testing.T) {
	t.Parallel()

	lines := linesOf("<i>one</i>", "two", "three")
	p := NewPacker(lines, PackOptions{MaxLines: 1})

	b, ok := p.Next()
	require.True(t, ok)
	assert.Equal(t, "one", b.Packed)
	assert.Equal(t, FormattingItalic, lines[0].Formatting)
	assert.Equal(t, 2, p.Remaining())

	_, _ = p.Next()
	_, _ = p.Next()
	_, ok = p.Next()
	assert.False(t, ok)
}

func TestPrepareLine_AutoSplit(t *testing.T) {
	t.Parallel()

	opts := PackOptions{AutoSplit: true, Source: language.English}

	tests := []struct {
		name      string
		original  string
		want      string
		autoSplit bool
		tag       Formatting
	}{
		{name: "comma join", original: "Hello there,\nhow are you?", want: "Hello there, how are you?", autoSplit: true},
		{name: "letter join", original: "I never\nsaid that", want: "I never said that", autoSplit: true},
		{name: "sentence end kept", original: "Stop.\nNow!", want: "Stop.\nNow!"},
		{name: "dialog dash kept", original: "- Yes?\n- No.", want: "- Yes?\n- No."},
		{name: "single line", original: "Just one", want: "Just one"},
		{name: "italic two lines", original: "<i>Hello\nWorld</i>", want: "Hello World", autoSplit: true, tag: FormattingItalicTwoLines},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			line := Line{Original: tt.original}
			got := PrepareLine(&line, opts)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.autoSplit, line.AutoSplit)
			assert.Equal(t, tt.tag, line.Formatting)
		})
	}
}

func TestPrepareLine_AutoSplitDisabled(t *testing.T) {
	t.Parallel()

	line := Line{Original: "I never\nsaid that"}
	assert.Equal(t, "I never\nsaid that", PrepareLine(&line, PackOptions{}))
	assert.False(t, line.AutoSplit)

	line = Line{Original: "我从来\n没说过"}
	assert.Equal(t, "我从来\n没说过", PrepareLine(&line, PackOptions{AutoSplit: true, Source: language.Chinese}))
	assert.False(t, line.AutoSplit)
}

func TestPrepareLine_ExpandContractions(t *testing.T) {
	t.Parallel()

	line := Line{Original: "I'm sure it's fine here"}
	got := PrepareLine(&line, PackOptions{ExpandContractions: true, Source: language.English})
	assert.Equal(t, "I am sure it is fine here", got)

	line = Line{Original: "I'm sure"}
	got = PrepareLine(&line, PackOptions{ExpandContractions: true, Source: language.German})
	assert.Equal(t, "I'm sure", got)
}

func TestCanAutoSplit(t *testing.T) {
	t.Parallel()

	assert.True(t, CanAutoSplit(language.Und))
	assert.True(t, CanAutoSplit(language.English))
	assert.True(t, CanAutoSplit(language.Russian))
	assert.False(t, CanAutoSplit(language.Japanese))
	assert.False(t, CanAutoSplit(language.SimplifiedChinese))
	assert.False(t, CanAutoSplit(language.TraditionalChinese))
}

func TestEncodedLen(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 3, EncodedLen("abc"))
	assert.Equal(t, 5, EncodedLen("a b"))
	assert.Equal(t, 4, EncodedLen("a-_."))
	assert.Equal(t, 6, EncodedLen("é"))
	assert.Equal(t, 13, EncodedLen(joiner))
	assert.Equal(t, len(strings.Repeat("x", 50)), EncodedLen(strings.Repeat("x", 50)))
}

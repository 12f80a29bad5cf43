package batch

import "fmt"

// Delimiter joins prepared lines inside a packed batch.
const Delimiter = "+-+"

// joiner is the delimiter as it appears between two packed lines.
const joiner = " " + Delimiter + " "

// NewLine is the line-break convention of every text the engine writes.
const NewLine = "\n"

// Formatting captures the italic markup stripped from a line before translation.
type Formatting int

const (
	FormattingNone Formatting = iota
	FormattingItalic
	FormattingItalicTwoLines
)

func (f Formatting) String() string {
	switch f {
	case FormattingItalic:
		return "italic"
	case FormattingItalicTwoLines:
		return "italic-two-lines"
	default:
		return "none"
	}
}

// Line is one subtitle paragraph owned by a translation run.
type Line struct {
	Index      int        // ordinal position in the subtitle, 0..N-1
	Original   string     // source text
	Translated string     // result text, written by the pipeline
	Formatting Formatting // set once while packing, consumed once while normalizing
	AutoSplit  bool       // two physical lines were joined before translation
}

// Batch is a contiguous run of lines sent in one request.
type Batch struct {
	Start  int      // first line index
	End    int      // last line index (inclusive)
	Texts  []string // prepared text of every line in [Start, End]
	Packed string   // Texts joined with the delimiter
}

// Len returns the number of lines in the batch.
func (b Batch) Len() int {
	return b.End - b.Start + 1
}

func (b Batch) String() string {
	return fmt.Sprintf("[%d,%d]", b.Start, b.End)
}

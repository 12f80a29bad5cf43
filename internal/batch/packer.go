package batch

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/language"
)

// PackOptions bounds and prepares the batches produced by a Packer.
type PackOptions struct {
	// SizeBudget is the maximum encoded length of a packed batch. <= 0 disables the bound.
	SizeBudget int
	// MaxLines caps the number of lines per batch. 0 means unbounded.
	MaxLines int
	// AutoSplit joins eligible two-line paragraphs before translation.
	AutoSplit bool
	// ExpandContractions rewrites English contractions before translation.
	ExpandContractions bool
	// Source is the language of the original texts.
	Source language.Tag
}

// Packer greedily groups lines into batches, one batch per call to Next.
// Lines are prepared lazily so batch k+1 is never packed before batch k is consumed.
type Packer struct {
	lines []Line
	opts  PackOptions
	pos   int

	preparedIdx  int
	preparedText string
}

// NewPacker returns a packer over lines. It writes Formatting and AutoSplit of
// every line it prepares.
func NewPacker(lines []Line, opts PackOptions) *Packer {
	return &Packer{
		lines:       lines,
		opts:        opts,
		preparedIdx: -1,
	}
}

// Next returns the next batch, or false once every line has been packed.
// A line whose encoded length alone exceeds the budget becomes a singleton batch.
func (p *Packer) Next() (Batch, bool) {
	if p.pos >= len(p.lines) {
		return Batch{}, false
	}

	b := Batch{Start: p.pos}
	var acc strings.Builder
	accLen := 0
	for p.pos < len(p.lines) {
		text := p.prepared(p.pos)
		textLen := EncodedLen(text)
		if len(b.Texts) > 0 {
			if p.opts.MaxLines > 0 && len(b.Texts) >= p.opts.MaxLines {
				break
			}
			grown := accLen + EncodedLen(joiner) + textLen
			if p.opts.SizeBudget > 0 && grown > p.opts.SizeBudget {
				break
			}
			acc.WriteString(joiner)
			accLen = grown
		} else {
			accLen = textLen
		}
		acc.WriteString(text)
		b.Texts = append(b.Texts, text)
		p.pos++
	}

	b.End = p.pos - 1
	b.Packed = acc.String()
	return b, true
}

// Remaining reports how many lines have not been packed yet.
func (p *Packer) Remaining() int {
	return len(p.lines) - p.pos
}

func (p *Packer) prepared(i int) string {
	if p.preparedIdx != i {
		p.preparedText = PrepareLine(&p.lines[i], p.opts)
		p.preparedIdx = i
	}
	return p.preparedText
}

// Pack packs every line at once.
func Pack(lines []Line, opts PackOptions) []Batch {
	p := NewPacker(lines, opts)
	var ret []Batch
	for {
		b, ok := p.Next()
		if !ok {
			return ret
		}
		ret = append(ret, b)
	}
}

// PrepareLine strips formatting from the original text and applies the
// auto-split pre-pass, recording both decisions on the line.
func PrepareLine(line *Line, opts PackOptions) string {
	text := line.Original
	if opts.ExpandContractions && isEnglish(opts.Source) {
		text = ExpandContractions(text)
	}

	text, line.Formatting = StripFormatting(text)
	line.AutoSplit = false

	if !opts.AutoSplit || !CanAutoSplit(opts.Source) {
		return text
	}
	parts := splitLines(text)
	if len(parts) == 2 && parts[0] != "" && endsWithJoinableRune(parts[0]) {
		line.AutoSplit = true
		return removeLineBreaks(text)
	}
	return text
}

// CanAutoSplit reports whether the auto-split heuristic is meaningful for the
// source language. Logographic scripts do not mark word ends with spaces.
func CanAutoSplit(source language.Tag) bool {
	if source == language.Und {
		return true
	}
	script, conf := source.Script()
	if conf == language.No {
		return true
	}
	switch script.String() {
	case "Hans", "Hant", "Hani", "Jpan":
		return false
	}
	return true
}

func endsWithJoinableRune(s string) bool {
	r, _ := utf8.DecodeLastRuneInString(s)
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == ','
}

func removeLineBreaks(text string) string {
	parts := splitLines(text)
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return strings.Join(parts, " ")
}

func isEnglish(tag language.Tag) bool {
	base, _ := tag.Base()
	return base.String() == "en"
}

// EncodedLen returns the length of s after RFC 3986 percent-encoding, the
// unit request budgets are expressed in.
func EncodedLen(s string) int {
	n := 0
	for i := 0; i < len(s); i++ {
		if isUnreserved(s[i]) {
			n++
		} else {
			n += 3
		}
	}
	return n
}

func isUnreserved(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	case c == '-', c == '_', c == '.', c == '~':
		return true
	}
	return false
}

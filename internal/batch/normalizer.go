package batch

import (
	"regexp"
	"strings"

	"golang.org/x/text/language"
)

var (
	paragraphTag = regexp.MustCompile(`(?i)<\s*/?\s*p\s*>`)
	breakTag     = regexp.MustCompile(`(?i)<\s*br\s*(/\s*)?>`)
	italicOpenRe = regexp.MustCompile(`(?i)<\s*i\s*>`)
	italicEndRe  = regexp.MustCompile(`(?i)<\s*/\s*i\s*>`)
)

// Normalizer cleans one recovered segment and restores the layout recorded
// for its line.
type Normalizer struct {
	Target language.Tag
}

func NewNormalizer(target language.Tag) Normalizer {
	return Normalizer{Target: target}
}

// Normalize applies the cleanup rules in order. It never looks at other
// segments and never fails.
func (n Normalizer) Normalize(segment string, line Line) string {
	text := stripRemnants(segment)
	text = canonicalBreaks(text)
	text = canonicalItalics(text)

	switch {
	case line.AutoSplit:
		text = AutoBreakLine(text)
	case countLines(text) == 1 && countLines(strings.TrimSpace(line.Original)) == 2:
		text = AutoBreakLine(text)
	}

	text = RestoreFormatting(text, line.Formatting)
	return FixIdioms(text, n.Target)
}

func stripRemnants(text string) string {
	text = paragraphTag.ReplaceAllString(text, "")
	text = strings.TrimSpace(text)
	if i := strings.Index(text, Delimiter); i >= 0 && i < 4 {
		text = text[i+len(Delimiter):]
	}
	text = strings.ReplaceAll(text, Delimiter, "")
	return strings.TrimSpace(text)
}

func canonicalBreaks(text string) string {
	text = strings.ReplaceAll(text, "\r\n", NewLine)
	text = strings.ReplaceAll(text, "\r", NewLine)
	text = strings.ReplaceAll(text, " ...", "...")
	text = breakTag.ReplaceAllString(text, NewLine)
	for strings.Contains(text, NewLine+" ") || strings.Contains(text, " "+NewLine) {
		text = strings.ReplaceAll(text, NewLine+" ", NewLine)
		text = strings.ReplaceAll(text, " "+NewLine, NewLine)
	}
	return strings.TrimSpace(text)
}

func canonicalItalics(text string) string {
	text = italicOpenRe.ReplaceAllString(text, italicOpen)
	text = italicEndRe.ReplaceAllString(text, italicClose)

	if strings.HasPrefix(text, italicOpen+" ") {
		text = italicOpen + text[len(italicOpen)+1:]
	}
	if strings.HasSuffix(text, " "+italicClose) {
		text = text[:len(text)-len(italicClose)-1] + italicClose
	}
	text = strings.ReplaceAll(text, NewLine+italicOpen+" ", NewLine+italicOpen)
	text = strings.ReplaceAll(text, " "+italicClose+NewLine, italicClose+NewLine)
	return text
}

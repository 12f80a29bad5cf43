package batch

import "strings"

const (
	italicOpen  = "<i>"
	italicClose = "</i>"
)

// StripFormatting detects a line fully wrapped in one italic span and removes the
// span. It must run before any other transformation touches the line layout.
func StripFormatting(text string) (string, Formatting) {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, italicOpen) || !strings.HasSuffix(text, italicClose) {
		return text, FormattingNone
	}
	if strings.Count(text, italicOpen) != 1 || len(text) < len(italicOpen)+len(italicClose) {
		return text, FormattingNone
	}

	inner := text[len(italicOpen) : len(text)-len(italicClose)]
	if len(splitLines(text)) == 2 {
		return inner, FormattingItalicTwoLines
	}
	return inner, FormattingItalic
}

// RestoreFormatting wraps text in the italic span recorded by StripFormatting.
// Embedded line breaks stay inside the span.
func RestoreFormatting(text string, f Formatting) string {
	if f == FormattingNone {
		return text
	}
	return italicOpen + text + italicClose
}

// splitLines splits on any line-break convention.
func splitLines(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	return strings.Split(text, "\n")
}

func countLines(text string) int {
	return len(splitLines(text))
}

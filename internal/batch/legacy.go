package batch

import (
	"encoding/json"
	"html"
	"strings"
)

// keepDepth is the bracket depth above which odd quoted runs hold translated
// text in the legacy nested-array response. Even runs echo the source text.
// The threshold was derived from captured responses, not from a documented format.
const keepDepth = 2

type scanState int

const (
	stateSeekQuote scanState = iota
	stateInQuote
)

// DecodeNestedResponse extracts the translation from the legacy single-shot
// response body, a deeply nested literal array such as
//
//	[[["Hallo","Hello",null,null,1]],null,"en"]
//
// and decodes escapes and entities in the result.
func DecodeNestedResponse(raw string) string {
	text := scanTranslatedRuns(strings.TrimSpace(raw))
	text = unescapeLiteral(text)
	text = html.UnescapeString(text)
	return tidyLineBreaks(text)
}

// scanTranslatedRuns walks the body once, tracking bracket depth outside
// quoted runs and keeping every other run found deeper than keepDepth.
func scanTranslatedRuns(raw string) string {
	if len(raw) < 2 {
		return ""
	}

	var (
		out     strings.Builder
		run     strings.Builder
		state   = stateSeekQuote
		depth   = 0
		runs    = 0
		escaped = false
	)
	if raw[0] == '[' {
		depth = 1
	}

	// the outermost opening and closing bytes are structural
	for i := 1; i < len(raw)-1; i++ {
		c := raw[i]
		switch state {
		case stateSeekQuote:
			switch c {
			case '"':
				state = stateInQuote
				run.Reset()
			case '[':
				depth++
			case ']':
				depth--
			}
		case stateInQuote:
			if escaped {
				run.WriteByte(c)
				escaped = false
				continue
			}
			if c == '\\' {
				run.WriteByte(c)
				escaped = true
				continue
			}
			if c != '"' {
				run.WriteByte(c)
				continue
			}
			runs++
			if runs%2 == 1 && depth > keepDepth {
				out.WriteByte(' ')
				out.WriteString(run.String())
			}
			state = stateSeekQuote
		}
	}
	return strings.TrimSpace(out.String())
}

// unescapeLiteral decodes backslash escapes the way a string literal in the
// response would be decoded.
func unescapeLiteral(s string) string {
	var decoded string
	if err := json.Unmarshal([]byte(`"`+s+`"`), &decoded); err == nil {
		return decoded
	}
	return strings.NewReplacer(
		`\n`, "\n",
		`\r`, "",
		`\t`, "\t",
		`\"`, `"`,
		`\/`, "/",
		`\\`, `\`,
	).Replace(s)
}

func tidyLineBreaks(s string) string {
	s = strings.Join(splitLines(s), NewLine)
	for strings.Contains(s, NewLine+NewLine) {
		s = strings.ReplaceAll(s, NewLine+NewLine, NewLine)
	}
	for strings.Contains(s, NewLine+" ") || strings.Contains(s, " "+NewLine) {
		s = strings.ReplaceAll(s, NewLine+" ", NewLine)
		s = strings.ReplaceAll(s, " "+NewLine, NewLine)
	}
	return strings.TrimSpace(s)
}

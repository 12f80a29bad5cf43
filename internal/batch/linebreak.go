package batch

import (
	"strings"
	"unicode"
)

// AutoBreakLine rewraps text as two lines, breaking at the whitespace closest
// to the middle. A break right after sentence-ending punctuation wins when it
// lies within a sixth of the length from the middle. Whitespace inside markup
// tags is never used. Text without a usable break point is returned unchanged.
func AutoBreakLine(text string) string {
	text = removeLineBreaks(strings.TrimSpace(text))
	runes := []rune(text)
	if len(runes) == 0 {
		return text
	}

	mid := len(runes) / 2
	window := len(runes) / 6

	best, bestDist := -1, len(runes)
	sentence, sentenceDist := -1, len(runes)
	inTag := false
	for i, r := range runes {
		switch {
		case r == '<':
			inTag = true
		case r == '>':
			inTag = false
		case inTag || !unicode.IsSpace(r) || i == 0 || i == len(runes)-1:
		default:
			dist := abs(i - mid)
			if dist < bestDist {
				best, bestDist = i, dist
			}
			if isSentenceEnd(runes[i-1]) && dist <= window && dist < sentenceDist {
				sentence, sentenceDist = i, dist
			}
		}
	}
	if sentence >= 0 {
		best = sentence
	}
	if best < 0 {
		return text
	}

	first := strings.TrimSpace(string(runes[:best]))
	second := strings.TrimSpace(string(runes[best+1:]))
	if first == "" || second == "" {
		return text
	}
	return first + NewLine + second
}

func isSentenceEnd(r rune) bool {
	return r == '.' || r == '!' || r == '?'
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

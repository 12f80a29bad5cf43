package batch

import (
	"strings"
)

// Shape describes how a backend hands back the boundaries of a batch.
type Shape int

const (
	// ShapeDelimited results carry the delimiter as literal text, possibly
	// with spaces inserted or removed around its parts.
	ShapeDelimited Shape = iota
	// ShapeSeparated results are already divided by Separator, or returned
	// one string per line.
	ShapeSeparated
)

func (s Shape) String() string {
	if s == ShapeSeparated {
		return "separated"
	}
	return "delimited"
}

// Separator is the boundary character of ShapeSeparated results.
const Separator = "\x00"

// delimiterVariants maps the corrupted delimiter forms returned by remote
// services onto the separator.
var delimiterVariants = strings.NewReplacer(
	"+ - +", Separator,
	"+- +", Separator,
	"+ -+", Separator,
	"+ +", Separator,
	Delimiter, Separator,
)

// Split recovers the per-line segments of one translated batch. It always
// returns a slice; callers compare its length with expected and degrade
// gracefully on mismatch. Split itself never uses expected beyond sizing.
func Split(shape Shape, result string, expected int) []string {
	if shape == ShapeDelimited {
		result = delimiterVariants.Replace(result)
	}
	parts := make([]string, 0, max(expected, 1))
	for _, part := range strings.Split(result, Separator) {
		parts = append(parts, strings.TrimSpace(part))
	}
	return parts
}

// SplitAll splits every string a backend returned for one batch and
// concatenates the segments in order.
func SplitAll(shape Shape, results []string, expected int) []string {
	if len(results) == 1 {
		return Split(shape, results[0], expected)
	}
	ret := make([]string, 0, expected)
	for _, r := range results {
		ret = append(ret, Split(shape, r, 1)...)
	}
	return ret
}

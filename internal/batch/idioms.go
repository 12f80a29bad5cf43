package batch

import (
	"strings"

	"golang.org/x/text/language"
)

type idiom struct {
	from, to string
}

// idioms holds literal fixups for phrases services commonly get wrong,
// keyed by the base language of the target. Rules run in order and each one
// sees the output of the previous.
var idioms = map[string][]idiom{
	"da": {
		{"Jeg ved.", "Jeg ved det."},
		{", jeg ved.", ", jeg ved det."},
		{"Jeg er ked af.", "Jeg er ked af det."},
		{", jeg er ked af.", ", jeg er ked af det."},
		{"Come on.", "Kom nu."},
		{", come on.", ", kom nu."},
		{"Come on,", "Kom nu,"},
		{"Hey ", "Hej "},
		{"Hey,", "Hej,"},
		{" gonna ", " ville "},
		{"Gonna ", "Vil "},
		{"Ked af.", "Undskyld."},
	},
}

// FixIdioms applies the idiom table of target. Text in languages without a
// table is returned unchanged.
func FixIdioms(text string, target language.Tag) string {
	base, _ := target.Base()
	for _, r := range idioms[base.String()] {
		text = strings.ReplaceAll(text, r.from, r.to)
	}
	return text
}

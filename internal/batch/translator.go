package batch

import (
	"context"

	"golang.org/x/text/language"
)

// Translator is a remote translation backend. Translate receives the texts of
// one batch in the form its Shape asks for and returns owned result strings.
// Calls are never concurrent within one run.
type Translator interface {
	Translate(ctx context.Context, source, target language.Tag, texts []string, diag *Diagnostics) ([]string, error)
	LanguagePairs() []LanguagePair
	InfoURL() string
	Shape() Shape
}

// LanguagePair is a selectable language of a backend.
type LanguagePair struct {
	Name string `json:"name"`
	Code string `json:"code"`
}

// payload returns what is sent for b: the packed text for delimited backends,
// one string per line for separated ones.
func payload(shape Shape, b Batch) []string {
	if shape == ShapeSeparated {
		return append([]string(nil), b.Texts...)
	}
	return []string{b.Packed}
}

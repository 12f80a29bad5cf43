package subtitle

import (
	"github.com/MimeLyc/subtitle-batch-translator/internal/batch"
)

// ToBatchLines copies the texts of f into engine lines, indexed 0..N-1.
func ToBatchLines(f *File) []batch.Line {
	ret := make([]batch.Line, len(f.Lines))
	for i, line := range f.Lines {
		ret[i] = batch.Line{
			Index:      i,
			Original:   line.Text,
			Translated: line.TranslatedText,
		}
	}
	return ret
}

// ApplyTranslations returns a copy of f carrying the translated texts of lines.
func ApplyTranslations(f *File, lines []batch.Line) *File {
	out := &File{
		Lines:    make([]Line, len(f.Lines)),
		Language: f.Language,
		Format:   f.Format,
		Path:     f.Path,
	}
	copy(out.Lines, f.Lines)
	for _, l := range lines {
		if l.Index >= 0 && l.Index < len(out.Lines) {
			out.Lines[l.Index].TranslatedText = l.Translated
		}
	}
	return out
}

package file

import (
	"path/filepath"
	"strings"
)

// ReplaceExt swaps the extension of path, adding one when path has none.
func ReplaceExt(path, ext string) string {
	if path == "" {
		return path
	}
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}

	dir, name := filepath.Split(path)
	if i := strings.LastIndex(name, "."); i > 0 {
		name = name[:i]
	}
	return filepath.Join(dir, name+ext)
}

// LanguageSuffix returns the language code between the stem and the
// extension, "en" for movie.en.srt, or "" when there is none.
func LanguageSuffix(path string) string {
	stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	i := strings.LastIndex(stem, ".")
	if i <= 0 {
		return ""
	}
	return stem[i+1:]
}

// LanguageSibling names the translation of path into lang, next to path.
// A trailing suffix equal to from is replaced: movie.en.srt becomes movie.da.srt.
func LanguageSibling(path, from, lang string) string {
	ext := filepath.Ext(path)
	stem := strings.TrimSuffix(path, ext)
	if from != "" && strings.EqualFold(LanguageSuffix(path), from) {
		stem = stem[:len(stem)-len(from)-1]
	}
	return stem + "." + lang + ext
}

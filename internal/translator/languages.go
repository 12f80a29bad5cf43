package translator

import (
	"sort"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"

	"github.com/MimeLyc/subtitle-batch-translator/internal/batch"
)

var googleCodes = []string{
	"af", "sq", "ar", "hy", "az", "eu", "be", "bn", "bs", "bg", "ca", "zh-CN", "zh-TW",
	"hr", "cs", "da", "nl", "en", "eo", "et", "tl", "fi", "fr", "gl", "ka", "de", "el",
	"gu", "ht", "he", "hi", "hu", "is", "id", "ga", "it", "ja", "kn", "km", "ko", "lo",
	"la", "lv", "lt", "mk", "ms", "mt", "mn", "no", "fa", "pl", "pt", "pa", "ro", "ru",
	"sr", "sk", "sl", "so", "es", "sw", "sv", "ta", "te", "th", "tr", "uk", "ur", "vi",
	"cy", "yi", "yo", "zu",
}

var microsoftCodes = []string{
	"af", "ar", "bg", "bn", "bs", "ca", "cs", "cy", "da", "de", "el", "en", "es", "et",
	"fa", "fi", "fil", "fr", "ga", "he", "hi", "hr", "ht", "hu", "id", "is", "it", "ja",
	"ko", "lt", "lv", "ms", "mt", "nb", "nl", "pl", "pt", "pt-PT", "ro", "ru", "sk", "sl",
	"sr-Cyrl", "sr-Latn", "sv", "sw", "ta", "te", "th", "tr", "uk", "ur", "vi",
	"zh-Hans", "zh-Hant",
}

// languagePairs names every code in English, sorted by name. Codes that do
// not parse are skipped.
func languagePairs(codes []string) []batch.LanguagePair {
	namer := display.English.Tags()
	ret := make([]batch.LanguagePair, 0, len(codes))
	for _, code := range codes {
		tag, err := language.Parse(code)
		if err != nil {
			continue
		}
		name := namer.Name(tag)
		if name == "" {
			name = code
		}
		ret = append(ret, batch.LanguagePair{Name: name, Code: code})
	}
	sort.Slice(ret, func(i, j int) bool { return ret[i].Name < ret[j].Name })
	return ret
}

// languageName is used in prompts, falling back to the tag itself.
func languageName(tag language.Tag) string {
	if tag == language.Und {
		return "the detected source language"
	}
	if name := display.English.Tags().Name(tag); name != "" {
		return name
	}
	return tag.String()
}

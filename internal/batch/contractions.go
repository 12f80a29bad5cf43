package batch

import "regexp"

type rewrite struct {
	re   *regexp.Regexp
	repl string
}

// contractions are expanded before translation; services translate the long
// forms more reliably.
var contractions = []rewrite{
	{regexp.MustCompile(`\bI'm `), "I am "},
	{regexp.MustCompile(`\bI've `), "I have "},
	{regexp.MustCompile(`\bI'll `), "I will "},
	{regexp.MustCompile(`\bI'd `), "I would "},
	{regexp.MustCompile(`\b(I|i)t's `), "${1}t is "},
	{regexp.MustCompile(`\b(Y|y)ou're `), "${1}ou are "},
	{regexp.MustCompile(`\b(Y|y)ou've `), "${1}ou have "},
	{regexp.MustCompile(`\b(Y|y)ou'll `), "${1}ou will "},
	{regexp.MustCompile(`\b(Y|y)ou'd `), "${1}ou would "},
	{regexp.MustCompile(`\b(H|h)e's `), "${1}e is "},
	{regexp.MustCompile(`\b(S|s)he's `), "${1}he is "},
	{regexp.MustCompile(`\b(W|w)e're `), "${1}e are "},
	{regexp.MustCompile(`\bwon't `), "will not "},
	{regexp.MustCompile(`\bdon't `), "do not "},
	{regexp.MustCompile(`\bDon't `), "Do not "},
	{regexp.MustCompile(`\b(T|t)hey're `), "${1}hey are "},
	{regexp.MustCompile(`\b(W|w)ho's `), "${1}ho is "},
	{regexp.MustCompile(`\b(T|t)hat's `), "${1}hat is "},
	{regexp.MustCompile(`\b(W|w)hat's `), "${1}hat is "},
	{regexp.MustCompile(`\b(W|w)here's `), "${1}here is "},
	// \b does not match before an apostrophe
	{regexp.MustCompile(`\B'(C|c)ause `), "${1}ecause "},
}

// ExpandContractions rewrites common English contractions to their long form.
func ExpandContractions(s string) string {
	for _, rw := range contractions {
		s = rw.re.ReplaceAllString(s, rw.repl)
	}
	return s
}

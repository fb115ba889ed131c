package enrich

import (
	"regexp"
	"strings"
)

var whitespace = regexp.MustCompile(`\s+`)

type jargonRule struct {
	pattern *regexp.Regexp
	plain   string
}

// Legal jargon rewritten into plain language. Rules run once each, in
// declaration order, over the selected sentences; matching is case-insensitive
// and whole-word.
var jargonRules = compileRules([][2]string{
	{"decreto legislativo", "legge"},
	{"comma", "punto"},
	{"ai sensi dell'articolo", "secondo la legge"},
	{"in deroga", "come eccezione"},
	{"contributo a fondo perduto", "finanziamento che non deve essere restituito"},
	{"agevolazione fiscale", "sconto sulle tasse"},
	{"adempimento", "obbligo"},
	{"a decorrere da", "a partire da"},
})

func compileRules(pairs [][2]string) []jargonRule {
	rules := make([]jargonRule, 0, len(pairs))
	for _, p := range pairs {
		rules = append(rules, jargonRule{
			pattern: regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(p[0]) + `\b`),
			plain:   p[1],
		})
	}
	return rules
}

// SplitSentences cuts text on sentence terminators, squeezing internal
// whitespace. A trailing fragment without a terminator counts as a sentence.
func SplitSentences(text string) []string {
	var out []string
	var b strings.Builder

	flush := func() {
		s := strings.TrimSpace(whitespace.ReplaceAllString(b.String(), " "))
		if s != "" {
			out = append(out, s)
		}
		b.Reset()
	}

	for _, r := range text {
		b.WriteRune(r)
		if r == '.' || r == '!' || r == '?' {
			flush()
		}
	}
	flush()

	return out
}

// Simplify keeps the first maxSentences sentences of text and rewrites legal
// jargon into plain language.
func Simplify(text string, maxSentences int) string {
	if maxSentences <= 0 {
		maxSentences = 5
	}

	sentences := SplitSentences(text)
	if len(sentences) > maxSentences {
		sentences = sentences[:maxSentences]
	}

	simplified := strings.Join(sentences, " ")
	for _, rule := range jargonRules {
		simplified = rule.pattern.ReplaceAllString(simplified, rule.plain)
	}
	return simplified
}

package enrich

import (
	"regexp"
	"sort"
	"strings"
)

var wordPattern = regexp.MustCompile(`\p{L}+`)

var stopwords = map[string]struct{}{
	"a": {}, "ad": {}, "ai": {}, "al": {}, "alla": {}, "alle": {}, "anche": {},
	"che": {}, "chi": {}, "come": {}, "con": {}, "da": {}, "dal": {}, "dalla": {},
	"degli": {}, "dei": {}, "del": {}, "della": {}, "delle": {}, "di": {}, "due": {},
	"e": {}, "ed": {}, "essere": {}, "gli": {}, "ha": {}, "hanno": {}, "i": {},
	"il": {}, "in": {}, "la": {}, "le": {}, "lo": {}, "ma": {}, "ne": {}, "nel": {},
	"nella": {}, "non": {}, "o": {}, "per": {}, "presente": {}, "quanto": {},
	"se": {}, "si": {}, "sia": {}, "sono": {}, "su": {}, "sul": {}, "sulla": {},
	"tra": {}, "un": {}, "una": {}, "uno": {},
	"l": {}, "d": {}, "all": {}, "dell": {}, "dall": {}, "nell": {}, "sull": {},
	"the": {}, "of": {}, "and": {}, "to": {}, "for": {},
}

// Keywords extracts the limit most frequent alphabetic, non-stopword tokens
// from text, case-folded. Ties are broken by first occurrence, so repeated
// runs over the same text always return the same ordered list.
func Keywords(text string, limit int) []string {
	if limit <= 0 {
		limit = 10
	}

	tokens := wordPattern.FindAllString(strings.ToLower(text), -1)
	if len(tokens) == 0 {
		return nil
	}

	freq := make(map[string]int)
	first := make(map[string]int)
	for i, token := range tokens {
		if _, skip := stopwords[token]; skip {
			continue
		}
		if _, ok := first[token]; !ok {
			first[token] = i
		}
		freq[token]++
	}

	if len(freq) == 0 {
		return nil
	}

	words := make([]string, 0, len(freq))
	for word := range freq {
		words = append(words, word)
	}

	sort.Slice(words, func(i, j int) bool {
		if freq[words[i]] == freq[words[j]] {
			return first[words[i]] < first[words[j]]
		}
		return freq[words[i]] > freq[words[j]]
	})

	if limit > len(words) {
		limit = len(words)
	}
	return words[:limit]
}

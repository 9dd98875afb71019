package index

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// glossaryStopwords are capitalized words that never name a character.
var glossaryStopwords = map[string]struct{}{
	"i": {}, "the": {}, "a": {}, "an": {}, "he": {}, "she": {},
	"they": {}, "his": {}, "her": {}, "mr": {}, "mrs": {}, "ms": {},
}

// keywordStopwords are function words skipped by TopKeywords.
var keywordStopwords = map[string]struct{}{
	"the": {}, "and": {}, "for": {}, "that": {}, "with": {}, "this": {},
	"from": {}, "have": {}, "has": {}, "was": {}, "were": {}, "are": {},
	"not": {}, "you": {}, "your": {}, "his": {}, "her": {}, "she": {},
	"him": {}, "had": {}, "they": {}, "them": {}, "there": {}, "here": {},
	"into": {}, "out": {}, "who": {}, "what": {}, "when": {}, "where": {},
	"how": {}, "why": {}, "can": {}, "could": {}, "would": {}, "should": {},
}

// Term is a glossary entry.
type Term struct {
	Word  string
	Count int
}

// Keyword is a corpus term with its accumulated IDF weight.
type Keyword struct {
	Word   string
	Weight float64
}

// CharacterGlossary lists recurring capitalized words, most frequent first.
// Sentence-initial words and proper adjectives show up too; the heuristic
// only filters a short stopword list.
func (x *Index) CharacterGlossary(limit, minOccurrences int) []Term {
	counts := newCounter[int]()
	for _, sentence := range x.sentences {
		for _, field := range strings.Fields(sentence) {
			if name, ok := candidateName(field); ok {
				counts.add(name, 1)
			}
		}
	}

	terms := []Term{}
	for _, e := range counts.mostCommon(-1) {
		if e.value < minOccurrences {
			break
		}
		if len(terms) >= limit {
			break
		}
		terms = append(terms, Term{Word: e.key, Count: e.value})
	}
	return terms
}

func candidateName(field string) (string, bool) {
	stripped := strings.Trim(field, ".,;:!?")
	first, _ := utf8.DecodeRuneInString(stripped)
	if stripped == "" || !unicode.IsUpper(first) {
		return "", false
	}
	cleaned := strings.Map(func(r rune) rune {
		if r == '\'' || (r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z') {
			return r
		}
		return -1
	}, stripped)
	if len(cleaned) < 2 {
		return "", false
	}
	if _, stop := glossaryStopwords[strings.ToLower(cleaned)]; stop {
		return "", false
	}
	return cleaned, true
}

// TopKeywords ranks corpus tokens by IDF summed over every occurrence.
func (x *Index) TopKeywords(limit int) []Keyword {
	scores := newCounter[float64]()
	for _, tokens := range x.tokens {
		for _, t := range tokens {
			if len(t) < 3 {
				continue
			}
			if _, stop := keywordStopwords[t]; stop {
				continue
			}
			scores.add(t, x.idf[t])
		}
	}

	keywords := []Keyword{}
	if limit <= 0 {
		return keywords
	}
	for _, e := range scores.mostCommon(limit) {
		keywords = append(keywords, Keyword{Word: e.key, Weight: e.value})
	}
	return keywords
}

package index

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// wordRegex matches a single token: a run of ASCII letters and apostrophes.
var wordRegex = regexp.MustCompile(`[A-Za-z']+`)

// SplitSentences segments text into trimmed, non-empty sentences.
// A boundary follows any '.', '!' or '?' that is immediately followed by
// whitespace; the punctuation stays with the sentence and the whitespace run
// is dropped. Abbreviations like "Mr." split too.
func SplitSentences(text string) []string {
	text = strings.ReplaceAll(strings.TrimSpace(text), "\n", " ")

	var sentences []string
	start := 0
	for i := 0; i < len(text); {
		c := text[i]
		if c != '.' && c != '!' && c != '?' {
			i++
			continue
		}
		next := i + 1
		end := next
		for end < len(text) {
			r, size := utf8.DecodeRuneInString(text[end:])
			if !unicode.IsSpace(r) {
				break
			}
			end += size
		}
		if end == next {
			i++
			continue
		}
		if s := strings.TrimSpace(text[start:next]); s != "" {
			sentences = append(sentences, s)
		}
		start = end
		i = end
	}
	if s := strings.TrimSpace(text[start:]); s != "" {
		sentences = append(sentences, s)
	}
	return sentences
}

// Tokenize returns the lower-cased words of a sentence in order, duplicates kept.
func Tokenize(sentence string) []string {
	words := wordRegex.FindAllString(sentence, -1)
	tokens := make([]string, len(words))
	for i, w := range words {
		tokens[i] = strings.ToLower(w)
	}
	return tokens
}

// Package index builds a sentence-level TF-IDF index over a single book and
// answers search, summary, glossary and keyword queries against it.
//
// An Index is immutable once built. Every query is a pure function of that
// state, so one Index may be shared by any number of goroutines.
package index

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"unicode/utf8"

	"github.com/metcalfc/bookvox/internal/reader"
)

// ErrInvalidUTF8 is returned when a book file is not valid UTF-8 text.
var ErrInvalidUTF8 = errors.New("book text is not valid UTF-8")

// Sentence is one indexed sentence of the book.
type Sentence struct {
	Index  int
	Text   string
	Tokens []string
}

// ChapterSpan is the half-open sentence range [Start, End) of a chapter.
type ChapterSpan struct {
	Title string
	Start int
	End   int
}

// Index holds the segmented sentences, their tokens and the IDF table.
type Index struct {
	text      string
	sentences []string
	tokens    [][]string
	idf       map[string]float64
	chapters  []ChapterSpan
}

// New builds an index from raw book text.
func New(text string) *Index {
	text = strings.TrimSpace(text)
	return build(text, SplitSentences(text), nil)
}

// FromChapters builds an index whose sentences never cross a chapter boundary.
func FromChapters(chapters []reader.Chapter) *Index {
	var (
		sentences []string
		spans     []ChapterSpan
		texts     []string
	)
	for _, ch := range chapters {
		split := SplitSentences(ch.Text)
		if len(split) == 0 {
			continue
		}
		spans = append(spans, ChapterSpan{
			Title: ch.Title,
			Start: len(sentences),
			End:   len(sentences) + len(split),
		})
		sentences = append(sentences, split...)
		texts = append(texts, strings.TrimSpace(ch.Text))
	}
	return build(strings.Join(texts, "\n\n"), sentences, spans)
}

// FromFile loads a book through the reader format registry and indexes it.
// Formats that expose chapters are indexed chapter by chapter.
func FromFile(path string) (*Index, error) {
	chapters, err := reader.ExtractChapters(path)
	if err != nil {
		return nil, err
	}
	for _, ch := range chapters {
		if !utf8.ValidString(ch.Text) {
			return nil, fmt.Errorf("%s: %w", path, ErrInvalidUTF8)
		}
	}
	if len(chapters) == 1 && chapters[0].Title == "" {
		return New(chapters[0].Text), nil
	}
	return FromChapters(chapters), nil
}

func build(text string, sentences []string, chapters []ChapterSpan) *Index {
	tokens := make([][]string, len(sentences))
	for i, s := range sentences {
		tokens[i] = Tokenize(s)
	}
	return &Index{
		text:      text,
		sentences: sentences,
		tokens:    tokens,
		idf:       computeIDF(tokens),
		chapters:  chapters,
	}
}

// computeIDF returns ln((1+N)/(1+df)) + 1 for every token, where df counts
// the sentences containing the token at least once.
func computeIDF(tokenized [][]string) map[string]float64 {
	df := make(map[string]int)
	for _, tokens := range tokenized {
		seen := make(map[string]struct{}, len(tokens))
		for _, t := range tokens {
			if _, ok := seen[t]; ok {
				continue
			}
			seen[t] = struct{}{}
			df[t]++
		}
	}

	n := float64(len(tokenized))
	idf := make(map[string]float64, len(df))
	for t, freq := range df {
		idf[t] = math.Log((1+n)/(1+float64(freq))) + 1
	}
	return idf
}

// IDF returns the inverse document frequency of token, or 0 if unseen.
func (x *Index) IDF(token string) float64 {
	return x.idf[token]
}

// TFIDF scores sentence tokens against query tokens. Either side empty scores 0.
func (x *Index) TFIDF(query, tokens []string) float64 {
	if len(query) == 0 || len(tokens) == 0 {
		return 0
	}
	tf := make(map[string]int, len(tokens))
	for _, t := range tokens {
		tf[t]++
	}
	length := float64(len(tokens))
	var score float64
	for _, q := range query {
		score += float64(tf[q]) / length * x.idf[q]
	}
	return score
}

// Len returns the number of sentences.
func (x *Index) Len() int {
	return len(x.sentences)
}

// Text returns the normalized book text the index was built from.
func (x *Index) Text() string {
	return x.text
}

// Sentence returns sentence i, or false when i is out of range.
func (x *Index) Sentence(i int) (Sentence, bool) {
	if i < 0 || i >= len(x.sentences) {
		return Sentence{}, false
	}
	return Sentence{
		Index:  i,
		Text:   x.sentences[i],
		Tokens: append([]string(nil), x.tokens[i]...),
	}, true
}

// Sentences returns every sentence in document order.
func (x *Index) Sentences() []Sentence {
	out := make([]Sentence, len(x.sentences))
	for i := range x.sentences {
		out[i], _ = x.Sentence(i)
	}
	return out
}

// Passage joins the sentences in [start, end) with single spaces, clamping the
// range to the book.
func (x *Index) Passage(start, end int) string {
	start, end = x.clamp(start, end)
	if start >= end {
		return ""
	}
	return strings.Join(x.sentences[start:end], " ")
}

// Chapters returns the chapter spans, empty for books without chapters.
func (x *Index) Chapters() []ChapterSpan {
	return append([]ChapterSpan(nil), x.chapters...)
}

// ChapterOf returns the chapter containing sentence i.
func (x *Index) ChapterOf(i int) (ChapterSpan, bool) {
	for _, ch := range x.chapters {
		if i >= ch.Start && i < ch.End {
			return ch, true
		}
	}
	return ChapterSpan{}, false
}

func (x *Index) clamp(start, end int) (int, int) {
	return max(0, start), min(len(x.sentences), end)
}

// contextWindow returns sentences [max(0,i-w), min(N,i+w+1)) and the start index.
func (x *Index) contextWindow(i, w int) ([]string, int) {
	start, end := x.clamp(i-w, i+w+1)
	return append([]string(nil), x.sentences[start:end]...), start
}

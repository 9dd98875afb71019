package index

import (
	"cmp"
	"slices"
	"strings"
)

// NotFound is returned as the answer or script when no sentence matches.
const NotFound = "No relevant passages were found."

// SearchResult is one matched sentence with its surrounding context.
type SearchResult struct {
	Sentence string
	Score    float64
	Index    int
	Context  []string
}

// Search returns up to topK sentences ranked by TF-IDF against the query.
// Each result carries window sentences on either side as context. Sentences
// sharing no token with the query are never returned; equal scores rank by
// ascending sentence index.
func (x *Index) Search(query string, topK, window int) []SearchResult {
	results := []SearchResult{}
	if topK <= 0 {
		return results
	}
	window = max(window, 0)

	q := Tokenize(query)
	for i, tokens := range x.tokens {
		score := x.TFIDF(q, tokens)
		if score <= 0 {
			continue
		}
		context, _ := x.contextWindow(i, window)
		results = append(results, SearchResult{
			Sentence: x.sentences[i],
			Score:    score,
			Index:    i,
			Context:  context,
		})
	}

	slices.SortStableFunc(results, func(a, b SearchResult) int {
		if c := cmp.Compare(b.Score, a.Score); c != 0 {
			return c
		}
		return cmp.Compare(a.Index, b.Index)
	})
	if len(results) > topK {
		results = results[:topK]
	}
	return results
}

// ContextualAnswer returns the best matching sentence joined with its context,
// or NotFound.
func (x *Index) ContextualAnswer(question string, window int) string {
	hits := x.Search(question, 1, window)
	if len(hits) == 0 {
		return NotFound
	}
	return strings.Join(hits[0].Context, " ")
}

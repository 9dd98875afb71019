package index

import (
	"cmp"
	"slices"
)

const (
	keywordPool    = 50
	minKeywordLen  = 4
	positionWeight = 0.2
)

// SummaryResult is one sentence selected for an extractive summary.
type SummaryResult struct {
	Sentence string
	Index    int
	Score    float64
}

// Summarize selects up to maxSentences sentences from the whole book and
// returns them in document order.
func (x *Index) Summarize(maxSentences int) []SummaryResult {
	return x.summarize(0, len(x.sentences), maxSentences)
}

// SummarizeSpan summarizes the sentences in [start, end). Bounds are clamped
// to the book; an empty range yields no results. Keywords and the position
// bonus are computed relative to the span alone.
func (x *Index) SummarizeSpan(start, end, maxSentences int) []SummaryResult {
	start, end = x.clamp(start, end)
	return x.summarize(start, end, maxSentences)
}

func (x *Index) summarize(start, end, maxSentences int) []SummaryResult {
	results := []SummaryResult{}
	if start >= end || maxSentences <= 0 {
		return results
	}

	span := x.tokens[start:end]
	keywords := candidateKeywords(span)
	size := float64(len(span))
	for offset, tokens := range span {
		bonus := positionWeight * (1 - float64(offset)/size)
		results = append(results, SummaryResult{
			Sentence: x.sentences[start+offset],
			Index:    start + offset,
			Score:    x.TFIDF(keywords, tokens) + bonus,
		})
	}

	slices.SortStableFunc(results, func(a, b SummaryResult) int {
		return cmp.Compare(b.Score, a.Score)
	})
	if len(results) > maxSentences {
		results = results[:maxSentences]
	}
	slices.SortFunc(results, func(a, b SummaryResult) int {
		return cmp.Compare(a.Index, b.Index)
	})
	return results
}

// candidateKeywords takes the most frequent tokens and keeps the longer ones.
// The length filter applies after the cut, so fewer than keywordPool may remain.
func candidateKeywords(tokenized [][]string) []string {
	freq := newCounter[int]()
	for _, tokens := range tokenized {
		for _, t := range tokens {
			freq.add(t, 1)
		}
	}
	var keywords []string
	for _, e := range freq.mostCommon(keywordPool) {
		if len(e.key) >= minKeywordLen {
			keywords = append(keywords, e.key)
		}
	}
	return keywords
}

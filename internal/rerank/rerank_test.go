package rerank

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shelfscan/expiryocr/internal/postprocess"
)

func newReranker(t *testing.T, strategy Strategy) *Reranker {
	t.Helper()
	post, err := postprocess.NewPostprocessor(postprocess.DefaultConfig())
	require.NoError(t, err)
	cfg := DefaultConfig()
	cfg.Strategy = strategy
	r, err := NewReranker(cfg, post)
	require.NoError(t, err)
	return r
}

func TestRankFiltersEmptyCandidates(t *testing.T) {
	r := newReranker(t, StrategyRerank)

	_, ok := r.Rank(nil)
	assert.False(t, ok)

	_, ok = r.Rank([]Candidate{
		{Label: "baseline", Order: 0, Text: ""},
		{Label: "clahe", Order: 1, Text: "   "},
	})
	assert.False(t, ok)
}

func TestRankRerankPrefersStructuredText(t *testing.T) {
	r := newReranker(t, StrategyRerank)

	// A plausible date line must beat pure symbol noise even at lower
	// backend confidence.
	winner, ok := r.Rank([]Candidate{
		{Label: "baseline", Order: 0, Text: "@@@@", Confidence: 0.6},
		{Label: "clahe", Order: 1, Text: "VAL 12/2026", Confidence: 0.5},
	})
	require.True(t, ok)
	assert.Equal(t, "VAL 12/2026", winner.Text)
	assert.Equal(t, "clahe", winner.Label)
	assert.Positive(t, winner.Terms.Format)
	assert.Positive(t, winner.Terms.Keyword)
	assert.Positive(t, winner.Terms.Contextual)
}

func TestRankShortTextPenalty(t *testing.T) {
	r := newReranker(t, StrategyRerank)

	winner, ok := r.Rank([]Candidate{
		{Label: "baseline", Order: 0, Text: "AB", Confidence: 0.7},
		{Label: "clahe", Order: 1, Text: "BATCH 88", Confidence: 0.7},
	})
	require.True(t, ok)
	assert.Equal(t, "BATCH 88", winner.Text)
}

func TestRankEpsilonTieResolvesToLowerOrder(t *testing.T) {
	r := newReranker(t, StrategyRerank)

	// Identical text and confidence: identical scores, earlier variant wins.
	winner, ok := r.Rank([]Candidate{
		{Label: "sharp", Order: 6, Text: "LOTE 202522", Confidence: 0.8},
		{Label: "baseline", Order: 0, Text: "LOTE 202522", Confidence: 0.8},
		{Label: "threshold", Order: 3, Text: "LOTE 202522", Confidence: 0.8},
	})
	require.True(t, ok)
	assert.Equal(t, "baseline", winner.Label)
}

func TestRankDeterministicUnderArrivalOrder(t *testing.T) {
	r := newReranker(t, StrategyRerank)

	cands := []Candidate{
		{Label: "baseline", Order: 0, Text: "LOTE 2O2522", Confidence: 0.55},
		{Label: "clahe", Order: 1, Text: "VAL 12/2026", Confidence: 0.6},
		{Label: "threshold", Order: 3, Text: "#*!", Confidence: 0.9},
		{Label: "invert", Order: 4, Text: "VAL 12/2026", Confidence: 0.58},
	}
	first, ok := r.Rank(cands)
	require.True(t, ok)

	reversed := []Candidate{cands[3], cands[2], cands[1], cands[0]}
	second, ok := r.Rank(reversed)
	require.True(t, ok)

	assert.Equal(t, first.Label, second.Label)
	assert.Equal(t, first.Text, second.Text)
	assert.InDelta(t, first.Score, second.Score, 1e-12)

	// And repeat calls on the same slice agree too.
	third, ok := r.Rank(cands)
	require.True(t, ok)
	assert.Equal(t, first.Label, third.Label)
}

func TestRankConfidenceStrategy(t *testing.T) {
	r := newReranker(t, StrategyConfidence)

	winner, ok := r.Rank([]Candidate{
		{Label: "baseline", Order: 0, Text: "VAL 12/2026", Confidence: 0.5},
		{Label: "threshold", Order: 3, Text: "@@@@", Confidence: 0.9},
	})
	require.True(t, ok)
	assert.Equal(t, "@@@@", winner.Text)
	assert.InDelta(t, 0.9, winner.Score, 1e-12)
}

func TestRankVotingMajorityBeatsLoneConfidence(t *testing.T) {
	r := newReranker(t, StrategyVoting)

	// Three renditions correct to the same string; one outlier has higher
	// raw confidence but no support.
	winner, ok := r.Rank([]Candidate{
		{Label: "baseline", Order: 0, Text: "L0TE 2025", Confidence: 0.4},
		{Label: "clahe", Order: 1, Text: "XYZ999", Confidence: 0.9},
		{Label: "threshold", Order: 3, Text: "LOTE 2025", Confidence: 0.4},
		{Label: "invert", Order: 4, Text: "LO7E 2025", Confidence: 0.4},
	})
	require.True(t, ok)
	assert.Equal(t, "baseline", winner.Label)
	assert.InDelta(t, 0.4, winner.Score, 1e-12)
}

func TestRankVotingTieBreaksOnSummedConfidence(t *testing.T) {
	r := newReranker(t, StrategyVoting)

	winner, ok := r.Rank([]Candidate{
		{Label: "baseline", Order: 0, Text: "AAA111", Confidence: 0.3},
		{Label: "clahe", Order: 1, Text: "BBB222", Confidence: 0.6},
		{Label: "threshold", Order: 3, Text: "AAA111", Confidence: 0.3},
		{Label: "invert", Order: 4, Text: "BBB222", Confidence: 0.6},
	})
	require.True(t, ok)
	assert.Equal(t, "BBB222", winner.Text)
}

func TestSymbolDensity(t *testing.T) {
	assert.Zero(t, symbolDensity("VAL 12/2026"))
	assert.Zero(t, symbolDensity(""))
	assert.InDelta(t, 1.0, symbolDensity("@@@@"), 1e-12)
	assert.InDelta(t, 0.25, symbolDensity("AB@D"), 1e-12)
}

func TestWhitespaceIrregularity(t *testing.T) {
	assert.Zero(t, whitespaceIrregularity("LOTE 2025"))
	assert.Zero(t, whitespaceIrregularity(""))
	assert.InDelta(t, 0.5, whitespaceIrregularity("LOTE  2025"), 1e-12)
	assert.InDelta(t, 1.0, whitespaceIrregularity("A B C"), 1e-12)
}

func TestNewRerankerValidation(t *testing.T) {
	post, err := postprocess.NewPostprocessor(postprocess.DefaultConfig())
	require.NoError(t, err)

	cfg := DefaultConfig()
	cfg.Strategy = "best"
	_, err = NewReranker(cfg, post)
	assert.Error(t, err)

	cfg = DefaultConfig()
	cfg.Weights.Confidence = 0
	_, err = NewReranker(cfg, post)
	assert.Error(t, err)

	_, err = NewReranker(DefaultConfig(), nil)
	assert.Error(t, err)
}

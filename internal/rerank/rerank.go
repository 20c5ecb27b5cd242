package rerank

import (
	"sort"
	"strings"

	"github.com/shelfscan/expiryocr/internal/postprocess"
)

// Candidate is one (variant, recognition) pair entering reranking.
type Candidate struct {
	// Label is the variant label that produced this recognition.
	Label string `json:"label"`
	// Order is the variant's canonical generation index, the deterministic
	// tie-breaker.
	Order int `json:"order"`
	// Text is the raw recognized string.
	Text string `json:"text"`
	// Confidence is the backend confidence in [0,1].
	Confidence float64 `json:"confidence"`
}

// ScoredCandidate is a Candidate annotated with its composite score.
type ScoredCandidate struct {
	Candidate
	Score float64 `json:"score"`
	Terms Terms   `json:"terms"`
}

// Reranker selects the winning candidate per line.
type Reranker struct {
	cfg  Config
	post *postprocess.Postprocessor
}

// NewReranker validates the configuration and returns a reranker. The
// postprocessor supplies the contextual fixability term.
func NewReranker(cfg Config, post *postprocess.Postprocessor) (*Reranker, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if post == nil {
		return nil, errNilPostprocessor
	}
	return &Reranker{cfg: cfg, post: post}, nil
}

// Config returns the reranker configuration.
func (r *Reranker) Config() Config { return r.cfg }

// Rank picks the best candidate. The second return is false only when no
// candidate produced non-empty text; callers then emit an empty line rather
// than failing. Repeated calls on the same input return the same winner.
func (r *Reranker) Rank(candidates []Candidate) (ScoredCandidate, bool) {
	usable := make([]Candidate, 0, len(candidates))
	for _, c := range candidates {
		if strings.TrimSpace(c.Text) != "" {
			usable = append(usable, c)
		}
	}
	if len(usable) == 0 {
		return ScoredCandidate{}, false
	}
	// Canonical variant order first, so ties always resolve the same way
	// regardless of arrival order.
	sort.SliceStable(usable, func(i, j int) bool { return usable[i].Order < usable[j].Order })

	switch r.cfg.Strategy {
	case StrategyConfidence:
		return r.rankByConfidence(usable), true
	case StrategyVoting:
		return r.rankByVote(usable), true
	default:
		return r.rankByScore(usable), true
	}
}

func (r *Reranker) rankByConfidence(cands []Candidate) ScoredCandidate {
	best := cands[0]
	for _, c := range cands[1:] {
		if c.Confidence > best.Confidence+r.cfg.Epsilon {
			best = c
		}
	}
	return ScoredCandidate{Candidate: best, Score: best.Confidence, Terms: Terms{Confidence: best.Confidence}}
}

// rankByVote groups candidates by corrected text and picks the largest
// group; group ties resolve by summed confidence, then canonical order.
// The winner within a group is its earliest, highest-confidence member.
func (r *Reranker) rankByVote(cands []Candidate) ScoredCandidate {
	type group struct {
		votes      int
		confidence float64
		first      int
		best       Candidate
	}
	groups := map[string]*group{}
	order := []string{}
	for _, c := range cands {
		key := r.post.Correct(c.Text)
		g, ok := groups[key]
		if !ok {
			g = &group{first: c.Order, best: c}
			groups[key] = g
			order = append(order, key)
		}
		g.votes++
		g.confidence += c.Confidence
		if c.Confidence > g.best.Confidence+r.cfg.Epsilon {
			g.best = c
		}
	}

	winner := groups[order[0]]
	for _, key := range order[1:] {
		g := groups[key]
		switch {
		case g.votes > winner.votes:
			winner = g
		case g.votes == winner.votes && g.confidence > winner.confidence+r.cfg.Epsilon:
			winner = g
		}
	}
	score := winner.confidence / float64(winner.votes)
	return ScoredCandidate{Candidate: winner.best, Score: score, Terms: Terms{Confidence: score}}
}

func (r *Reranker) rankByScore(cands []Candidate) ScoredCandidate {
	best := ScoredCandidate{Score: negInf}
	for _, c := range cands {
		score, terms := r.score(c)
		if score > best.Score+r.cfg.Epsilon {
			best = ScoredCandidate{Candidate: c, Score: score, Terms: terms}
		}
	}
	return best
}

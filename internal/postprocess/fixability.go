package postprocess

import (
	"strings"
	"unicode"
)

// Fixability estimates how plausible a raw recognition looks after the
// correction chain, in [0,1]. The reranker uses it as the contextual term:
// strings that correct into a date code or known keyword outrank strings
// that stay garbage even after correction.
func (p *Postprocessor) Fixability(text string) float64 {
	if strings.TrimSpace(text) == "" {
		return 0
	}
	corrected := p.Correct(text)

	score := 0.0
	if _, ok := ExtractDate(corrected); ok {
		score += 0.45
	}
	if containsKnownWord(corrected, p.cfg.KnownWords) {
		score += 0.25
	}
	score += 0.3 * alnumRatio(corrected)
	if score > 1 {
		score = 1
	}
	return score
}

func containsKnownWord(text string, words []string) bool {
	for _, tok := range strings.Fields(text) {
		core := strings.TrimFunc(tok, func(r rune) bool { return !isAlnum(r) })
		for _, w := range words {
			if strings.EqualFold(core, w) {
				return true
			}
		}
	}
	return false
}

func alnumRatio(text string) float64 {
	total, alnum := 0, 0
	for _, r := range text {
		if unicode.IsSpace(r) {
			continue
		}
		total++
		if isAlnum(r) {
			alnum++
		}
	}
	if total == 0 {
		return 0
	}
	return float64(alnum) / float64(total)
}

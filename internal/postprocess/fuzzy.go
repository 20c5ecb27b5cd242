package postprocess

import (
	"strings"
	"unicode"
)

// fuzzyCorrect replaces near-miss tokens with their closest dictionary word.
// Tokens containing digits are never touched: date and lot codes routinely
// sit within edit distance of short keywords and must not be "corrected".
func (p *Postprocessor) fuzzyCorrect(text string) string {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return text
	}
	for i, tok := range fields {
		fields[i] = p.correctToken(tok)
	}
	return strings.Join(fields, " ")
}

func (p *Postprocessor) correctToken(tok string) string {
	// Compare the alphanumeric core, keep surrounding punctuation.
	core := strings.TrimFunc(tok, func(r rune) bool { return !isAlnum(r) })
	if len(core) < 3 || strings.ContainsFunc(core, unicode.IsDigit) {
		return tok
	}

	upper := strings.ToUpper(core)
	best := ""
	bestDist := p.cfg.FuzzyThreshold + 1
	for _, word := range p.cfg.KnownWords {
		w := strings.ToUpper(word)
		if upper == w {
			return tok
		}
		if d := levenshtein(upper, w); d < bestDist {
			best, bestDist = w, d
		}
	}
	if best == "" {
		return tok
	}
	idx := strings.Index(tok, core)
	return tok[:idx] + best + tok[idx+len(core):]
}

// levenshtein computes edit distance with the standard two-row dynamic
// program.
func levenshtein(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	if len(ra) == 0 {
		return len(rb)
	}
	if len(rb) == 0 {
		return len(ra)
	}
	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			curr[j] = minOf(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(rb)]
}

func minOf(a, b, c int) int {
	if b < a {
		a = b
	}
	if c < a {
		a = c
	}
	return a
}

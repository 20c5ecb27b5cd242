package rerank

import (
	"regexp"
	"strings"
	"unicode"
)

var (
	datePatternRe = regexp.MustCompile(`\b\d{1,2}\s*[/.\-]\s*\d{2,4}(\s*[/.\-]\s*\d{2,4})?\b`)
	lotPatternRe  = regexp.MustCompile(`\b[A-Z]{0,3}\d{4,}[A-Z0-9]*\b`)
)

var domainKeywords = []string{"LOT", "LOTE", "VAL", "VALIDADE", "EXP", "BATCH", "MFG", "DATE"}

// Terms are the sub-scores contributing to a composite rerank score, kept on
// the candidate for diagnostics.
type Terms struct {
	Confidence float64 `json:"confidence"`
	Format     float64 `json:"format"`
	Keyword    float64 `json:"keyword"`
	Contextual float64 `json:"contextual"`
	Short      float64 `json:"short"`
	Symbol     float64 `json:"symbol"`
	Whitespace float64 `json:"whitespace"`
}

// score computes the weighted composite for one candidate.
func (r *Reranker) score(c Candidate) (float64, Terms) {
	w := r.cfg.Weights
	upper := strings.ToUpper(c.Text)

	t := Terms{Confidence: w.Confidence * c.Confidence}
	if datePatternRe.MatchString(upper) || lotPatternRe.MatchString(upper) {
		t.Format = w.Format
	}
	if hasKeyword(upper) {
		t.Keyword = w.Keyword
	}
	t.Contextual = w.Contextual * r.post.Fixability(c.Text)
	if n := len(strings.TrimSpace(c.Text)); n > 0 && n < r.cfg.MinLength {
		t.Short = -w.Short
	}
	t.Symbol = -w.Symbol * symbolDensity(c.Text)
	t.Whitespace = -w.Whitespace * whitespaceIrregularity(c.Text)

	total := t.Confidence + t.Format + t.Keyword + t.Contextual + t.Short + t.Symbol + t.Whitespace
	return total, t
}

func hasKeyword(upper string) bool {
	for _, kw := range domainKeywords {
		if strings.Contains(upper, kw) {
			return true
		}
	}
	return false
}

// symbolDensity is the fraction of non-space characters that are neither
// letters, digits, nor common code punctuation.
func symbolDensity(text string) float64 {
	total, symbols := 0, 0
	for _, r := range text {
		if unicode.IsSpace(r) {
			continue
		}
		total++
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			continue
		}
		switch r {
		case '/', '-', '.', ':':
			continue
		}
		symbols++
	}
	if total == 0 {
		return 0
	}
	return float64(symbols) / float64(total)
}

// whitespaceIrregularity penalizes runs of multiple spaces and single-rune
// fragments, both common OCR failure shapes.
func whitespaceIrregularity(text string) float64 {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return 0
	}
	score := 0.0
	if strings.Contains(trimmed, "  ") {
		score += 0.5
	}
	fields := strings.Fields(trimmed)
	single := 0
	for _, f := range fields {
		if len([]rune(f)) == 1 {
			single++
		}
	}
	if len(fields) > 0 {
		score += float64(single) / float64(len(fields))
	}
	if score > 1 {
		score = 1
	}
	return score
}

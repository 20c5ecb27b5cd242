package postprocess

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Ambiguous letter -> digit pairs confusable in OCR output.
var letterToDigit = map[rune]rune{
	'O': '0', 'I': '1', 'S': '5', 'Z': '2', 'B': '8', 'G': '6', 'T': '7',
}

var digitToLetter = map[rune]rune{
	'0': 'O', '1': 'I', '5': 'S', '2': 'Z', '8': 'B', '6': 'G', '7': 'T',
}

// Postprocessor applies the correction rule chain. Correct is a pure
// function and idempotent: a second application of the full chain is a no-op.
type Postprocessor struct {
	cfg Config
}

// NewPostprocessor validates the configuration and returns a postprocessor.
func NewPostprocessor(cfg Config) (*Postprocessor, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Postprocessor{cfg: cfg}, nil
}

// Config returns the postprocessor configuration.
func (p *Postprocessor) Config() Config { return p.cfg }

// Correct runs the rule chain in order: uppercase, ambiguity mapping, fuzzy
// dictionary correction, format repair.
func (p *Postprocessor) Correct(text string) string {
	out := norm.NFC.String(text)
	if p.cfg.Uppercase {
		out = strings.ToUpper(out)
	}
	if p.cfg.AmbiguityMapping {
		out = mapAmbiguity(out)
	}
	if p.cfg.FuzzyThreshold > 0 && len(p.cfg.KnownWords) > 0 {
		out = p.fuzzyCorrect(out)
	}
	if p.cfg.FormatRepair {
		out = repairFormats(out)
	}
	return out
}

// mapAmbiguity disambiguates confusable characters inside alphanumeric runs.
// A run with a digit majority maps confusable letters to digits (2O25 ->
// 2025). A letter-majority run maps a digit to its letter only when the
// digit sits strictly between letters (L0TE -> LOTE); digits touching a run
// boundary are left alone so codes like A1 survive.
func mapAmbiguity(text string) string {
	runes := []rune(text)
	out := make([]rune, len(runes))
	copy(out, runes)

	i := 0
	for i < len(runes) {
		if !isAlnum(runes[i]) {
			i++
			continue
		}
		j := i
		digits, letters := 0, 0
		for j < len(runes) && isAlnum(runes[j]) {
			if unicode.IsDigit(runes[j]) {
				digits++
			} else {
				letters++
			}
			j++
		}
		if digits > letters {
			for k := i; k < j; k++ {
				if d, ok := letterToDigit[out[k]]; ok {
					out[k] = d
				}
			}
		} else {
			for k := i + 1; k < j-1; k++ {
				if !unicode.IsDigit(out[k]) {
					continue
				}
				if l, ok := digitToLetter[out[k]]; ok &&
					unicode.IsLetter(runes[k-1]) && unicode.IsLetter(runes[k+1]) {
					out[k] = l
				}
			}
		}
		i = j
	}
	return string(out)
}

func isAlnum(r rune) bool { return unicode.IsLetter(r) || unicode.IsDigit(r) }

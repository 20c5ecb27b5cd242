package postprocess

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDefault(t *testing.T) *Postprocessor {
	t.Helper()
	p, err := NewPostprocessor(DefaultConfig())
	require.NoError(t, err)
	return p
}

func TestCorrectAmbiguity(t *testing.T) {
	p := newDefault(t)

	cases := []struct{ in, want string }{
		{"l0te", "LOTE"},     // letter-flanked digit in a letter run
		{"2O25", "2025"},     // confusable letter in a digit run
		{"LO7E", "LOTE"},     // 7 -> T between letters
		{"LOTE 2O25", "LOTE 2025"},
		{"A1", "A1"},         // boundary digit must survive
		{"EXP", "EXP"},
		{"", ""},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, p.Correct(tc.in), "input %q", tc.in)
	}
}

func TestCorrectDigitBlocksUntouched(t *testing.T) {
	p := newDefault(t)
	// Balanced runs take the letter branch, and multi-digit blocks inside it
	// stay numeric.
	assert.Equal(t, "AB12CD", p.Correct("ab12cd"))
}

func TestFuzzyCorrection(t *testing.T) {
	p := newDefault(t)

	// Distance ties resolve to the earlier vocabulary entry.
	assert.Equal(t, "LOT", p.Correct("LOTF"))
	// Unique nearest word.
	assert.Equal(t, "LOTE", p.Correct("LQTE"))
	assert.Equal(t, "DATE", p.Correct("DAXE"))
	// Short tokens are never corrected: VAL stays VAL.
	assert.Equal(t, "VAL 12/2026", p.Correct("VAL 12/2026"))
	// Digit-bearing tokens are never corrected.
	assert.Equal(t, "DA7E", mapAmbiguityOff(t).Correct("DA7E"))
	// Punctuation around the core survives the replacement.
	assert.Equal(t, "(DATE)", p.Correct("(DAXE)"))
}

func mapAmbiguityOff(t *testing.T) *Postprocessor {
	t.Helper()
	cfg := DefaultConfig()
	cfg.AmbiguityMapping = false
	p, err := NewPostprocessor(cfg)
	require.NoError(t, err)
	return p
}

func TestFormatRepair(t *testing.T) {
	p := newDefault(t)

	cases := []struct{ in, want string }{
		{"VAL 12.2026", "VAL 12/2026"},
		{"VAL 12-2026", "VAL 12/2026"},
		{"12 / 2026", "12/2026"},
		{"01 / 05 / 27", "01/05/27"},
		{"EXP  12/2026 ", "EXP 12/2026"},
		{"31.12.2026", "31/12/2026"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, p.Correct(tc.in), "input %q", tc.in)
	}
}

func TestCorrectDisabledChain(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Uppercase = false
	cfg.AmbiguityMapping = false
	cfg.FuzzyThreshold = 0
	cfg.FormatRepair = false
	p, err := NewPostprocessor(cfg)
	require.NoError(t, err)

	assert.Equal(t, "l0te  12.2026", p.Correct("l0te  12.2026"))
}

func TestCorrectIdempotent(t *testing.T) {
	properties := gopter.NewProperties(nil)
	p := newDefault(t)

	properties.Property("a second pass of the full chain is a no-op", prop.ForAll(
		func(s string) bool {
			once := p.Correct(s)
			return p.Correct(once) == once
		},
		gen.RegexMatch(`[A-Za-z0-9 ./:\-]{0,24}`),
	))

	properties.TestingRun(t)
}

func TestExtractDate(t *testing.T) {
	d, ok := ExtractDate("VAL 12/2026")
	require.True(t, ok)
	assert.Equal(t, Date{Month: 12, Year: 2026}, d)
	assert.Equal(t, "12/2026", d.String())

	d, ok = ExtractDate("EXP 01/05/27")
	require.True(t, ok)
	assert.Equal(t, Date{Day: 1, Month: 5, Year: 2027}, d)
	assert.Equal(t, "1/05/2027", d.String())

	d, ok = ExtractDate("LOTE 31/12/2026 BATCH 88")
	require.True(t, ok)
	assert.Equal(t, Date{Day: 31, Month: 12, Year: 2026}, d)

	_, ok = ExtractDate("13/2026") // month out of range
	assert.False(t, ok)

	_, ok = ExtractDate("12/1980") // year below the plausible window
	assert.False(t, ok)

	_, ok = ExtractDate("LOTE 202522") // lot code, not a date
	assert.False(t, ok)

	_, ok = ExtractDate("")
	assert.False(t, ok)
}

func TestFixabilityOrdering(t *testing.T) {
	p := newDefault(t)

	date := p.Fixability("VAL 12.2026")     // repairs into a date + keyword-free
	keyword := p.Fixability("L0TE ABC")     // corrects into a known word
	garbage := p.Fixability("@@@ ###")      // nothing to salvage
	empty := p.Fixability("   ")

	assert.Greater(t, date, keyword)
	assert.Greater(t, keyword, garbage)
	assert.Zero(t, empty)
	for _, v := range []float64{date, keyword, garbage} {
		assert.GreaterOrEqual(t, v, 0.0)
		assert.LessOrEqual(t, v, 1.0)
	}
}

func TestLevenshtein(t *testing.T) {
	cases := []struct {
		a, b string
		want int
	}{
		{"", "", 0},
		{"LOT", "", 3},
		{"LOT", "LOT", 0},
		{"LOTE", "LOT", 1},
		{"DAXE", "DATE", 1},
		{"VAL", "LOTE", 4},
		{"kitten", "sitting", 3},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, levenshtein(tc.a, tc.b), "%q vs %q", tc.a, tc.b)
	}
}

func TestConfigValidate(t *testing.T) {
	cfg := DefaultConfig()
	cfg.FuzzyThreshold = -1
	_, err := NewPostprocessor(cfg)
	assert.Error(t, err)

	cfg = DefaultConfig()
	cfg.KnownWords = []string{"LOT", ""}
	_, err = NewPostprocessor(cfg)
	assert.Error(t, err)
}

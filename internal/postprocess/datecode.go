package postprocess

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	// Separator normalization: dotted or dashed dates become slash dates.
	dmySepRe = regexp.MustCompile(`\b(\d{1,2})[.\-](\d{1,2})[.\-](\d{2,4})\b`)
	mySepRe  = regexp.MustCompile(`\b(\d{1,2})[.\-](\d{4})\b`)

	// Stray whitespace around a date separator.
	dateGapRe = regexp.MustCompile(`(\d)\s*/\s*(\d)`)

	multiSpaceRe = regexp.MustCompile(`\s{2,}`)

	dmyRe = regexp.MustCompile(`\b(\d{1,2})/(\d{1,2})/(\d{2,4})\b`)
	myRe  = regexp.MustCompile(`\b(\d{1,2})/(\d{2,4})\b`)
)

// repairFormats applies domain regex corrections: canonical date separators,
// stray whitespace inside codes, and whitespace collapsing. The gap repair
// loops to a fixed point so chained separators (D/M/Y with spaces around
// both slashes) converge in one call.
func repairFormats(text string) string {
	out := dmySepRe.ReplaceAllString(text, "$1/$2/$3")
	out = mySepRe.ReplaceAllString(out, "$1/$2")
	for {
		next := dateGapRe.ReplaceAllString(out, "$1/$2")
		if next == out {
			break
		}
		out = next
	}
	out = multiSpaceRe.ReplaceAllString(out, " ")
	return strings.TrimSpace(out)
}

// Date is a parsed packaging date code. Day is zero for month/year codes.
type Date struct {
	Day   int `json:"day,omitempty"`
	Month int `json:"month"`
	Year  int `json:"year"`
}

// ExtractDate finds the first plausible date code in corrected text.
// Supported shapes are DD/MM/YYYY, DD/MM/YY, MM/YYYY and MM/YY; two-digit
// years map into 2000-2099.
func ExtractDate(text string) (Date, bool) {
	if m := dmyRe.FindStringSubmatch(text); m != nil {
		d := Date{Day: atoi(m[1]), Month: atoi(m[2]), Year: normalizeYear(atoi(m[3]))}
		if d.valid() {
			return d, true
		}
	}
	if m := myRe.FindStringSubmatch(text); m != nil {
		d := Date{Month: atoi(m[1]), Year: normalizeYear(atoi(m[2]))}
		if d.valid() {
			return d, true
		}
	}
	return Date{}, false
}

func (d Date) valid() bool {
	if d.Month < 1 || d.Month > 12 {
		return false
	}
	if d.Day < 0 || d.Day > 31 {
		return false
	}
	return d.Year >= 1990 && d.Year <= 2099
}

// String renders the canonical slash form.
func (d Date) String() string {
	if d.Day > 0 {
		return strconv.Itoa(d.Day) + "/" + pad2(d.Month) + "/" + strconv.Itoa(d.Year)
	}
	return pad2(d.Month) + "/" + strconv.Itoa(d.Year)
}

func normalizeYear(y int) int {
	if y < 100 {
		return 2000 + y
	}
	return y
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}

func pad2(n int) string {
	if n < 10 {
		return "0" + strconv.Itoa(n)
	}
	return strconv.Itoa(n)
}

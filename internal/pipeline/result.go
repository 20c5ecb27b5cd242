package pipeline

import (
	"github.com/shelfscan/expiryocr/internal/postprocess"
	"github.com/shelfscan/expiryocr/internal/rerank"
)

// LineTrace is the per-line diagnostic trail: where the line was, which
// variant won, and what it read.
type LineTrace struct {
	Index int `json:"index"`

	// Box is the line's bounding box in source-image coordinates.
	Box struct {
		X int `json:"x"`
		Y int `json:"y"`
		W int `json:"w"`
		H int `json:"h"`
	} `json:"box"`

	// Angle is the residual rotation estimate for the line, degrees.
	Angle float64 `json:"angle"`

	// WinningVariant is the label of the variant whose recognition won
	// reranking; empty when no variant produced text.
	WinningVariant string `json:"winning_variant,omitempty"`

	// RawText is the winner's uncorrected recognition.
	RawText string `json:"raw_text,omitempty"`

	// Text is the postprocessed line text.
	Text string `json:"text"`

	// Confidence is the winner's backend confidence in [0,1].
	Confidence float64 `json:"confidence"`

	// Score is the winner's composite rerank score with its sub-terms.
	Score float64      `json:"score"`
	Terms rerank.Terms `json:"terms"`

	// Candidates is how many variants produced usable text.
	Candidates int `json:"candidates"`
}

// Result is the top-level pipeline output. A run always produces one, even
// for degenerate input; empty text with zero confidence is the floor.
type Result struct {
	// Text is the final recognition: line texts joined in vertical order.
	Text string `json:"text"`

	// Confidence aggregates line confidences (mean over non-empty lines).
	Confidence float64 `json:"confidence"`

	// Date is the parsed date code when the final text contains one.
	Date *postprocess.Date `json:"date,omitempty"`

	// AppliedRotation is the global pre-rotation applied before line
	// detection, degrees.
	AppliedRotation float64 `json:"applied_rotation,omitempty"`

	Lines []LineTrace `json:"lines"`

	Processing struct {
		DetectNs    int64 `json:"detect_ns"`
		NormalizeNs int64 `json:"normalize_ns"`
		RecognizeNs int64 `json:"recognize_ns"`
		TotalNs     int64 `json:"total_ns"`
	} `json:"processing"`
}

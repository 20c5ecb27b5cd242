package rerank

import (
	"errors"
	"math"
)

var errNilPostprocessor = errors.New("rerank: postprocessor is required")

var negInf = math.Inf(-1)

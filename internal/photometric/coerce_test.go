package photometric

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCoerceScalarPlainNumbers(t *testing.T) {
	cases := []struct {
		in   any
		want float64
	}{
		{130, 130},
		{int64(7), 7},
		{uint8(255), 255},
		{float32(1.5), 1.5},
		{3.25, 3.25},
	}
	for _, tc := range cases {
		got, err := CoerceScalar(tc.in)
		require.NoError(t, err)
		assert.InDelta(t, tc.want, got, 1e-6)
	}
}

func TestCoerceScalarColorTriple(t *testing.T) {
	// The documented defect class: an RGB triple where a scalar mean is
	// needed must reduce to the channel mean, not fail.
	got, err := CoerceScalar([]any{120.0, 130.0, 140.0})
	require.NoError(t, err)
	assert.InDelta(t, 130.0, got, 1e-9)

	got, err = CoerceScalar([]int{100, 200})
	require.NoError(t, err)
	assert.InDelta(t, 150.0, got, 1e-9)

	got, err = CoerceScalar([3]float64{10, 20, 30})
	require.NoError(t, err)
	assert.InDelta(t, 20.0, got, 1e-9)
}

func TestCoerceScalarNested(t *testing.T) {
	got, err := CoerceScalar([]any{[]any{10.0, 20.0}, 30.0})
	require.NoError(t, err)
	assert.InDelta(t, 22.5, got, 1e-9)
}

func TestCoerceScalarRejectsNonNumeric(t *testing.T) {
	_, err := CoerceScalar(nil)
	assert.Error(t, err)

	_, err = CoerceScalar("130")
	assert.Error(t, err)

	_, err = CoerceScalar([]any{})
	assert.Error(t, err)

	_, err = CoerceScalar([]any{1.0, "x"})
	assert.Error(t, err)

	_, err = CoerceScalar(map[string]int{"r": 1})
	assert.Error(t, err)
}

// Boundary-shape fuzzing: any non-empty numeric list of any nesting depth
// must coerce without error to a value within the element range.
func TestCoerceScalarBoundaryShapes(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("non-empty float lists coerce to their mean range", prop.ForAll(
		func(vals []float64) bool {
			if len(vals) == 0 {
				_, err := CoerceScalar(vals)
				return err != nil
			}
			got, err := CoerceScalar(vals)
			if err != nil {
				return false
			}
			lo, hi := vals[0], vals[0]
			for _, v := range vals {
				if v < lo {
					lo = v
				}
				if v > hi {
					hi = v
				}
			}
			return got >= lo-1e-9 && got <= hi+1e-9
		},
		gen.SliceOf(gen.Float64Range(0, 255)),
	))

	properties.Property("wrapping a scalar in a singleton list is transparent", prop.ForAll(
		func(v float64) bool {
			direct, err1 := CoerceScalar(v)
			wrapped, err2 := CoerceScalar([]float64{v})
			return err1 == nil && err2 == nil && direct == wrapped
		},
		gen.Float64Range(-1e6, 1e6),
	))

	properties.TestingRun(t)
}

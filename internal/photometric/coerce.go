package photometric

import (
	"fmt"
	"reflect"
)

// CoerceScalar converts a configuration value into a scalar intensity.
// Configuration sources routinely supply color-like values as multi-element
// lists (for example an RGB triple where a grayscale mean is needed); those
// are reduced to the mean of their elements instead of failing the load.
// Empty lists and non-numeric values return an error.
func CoerceScalar(v any) (float64, error) {
	if v == nil {
		return 0, fmt.Errorf("cannot coerce nil to scalar")
	}
	if f, ok := toFloat(v); ok {
		return f, nil
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		n := rv.Len()
		if n == 0 {
			return 0, fmt.Errorf("cannot coerce empty list to scalar")
		}
		sum := 0.0
		for i := range n {
			f, err := CoerceScalar(rv.Index(i).Interface())
			if err != nil {
				return 0, fmt.Errorf("element %d: %w", i, err)
			}
			sum += f
		}
		return sum / float64(n), nil
	}
	return 0, fmt.Errorf("cannot coerce %T to scalar", v)
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	}
	return 0, false
}

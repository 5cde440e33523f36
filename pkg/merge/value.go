package merge

import (
	"fmt"
	"math"

	"github.com/google/go-cmp/cmp"
)

// Normalize converts a decoded value into the canonical shapes used for comparison:
// map[string]any, []any, int for integers that fit, float64 for other numbers.
// YAML decoders and Go literals produce different concrete types for the same data.
func Normalize(v any) any {
	switch val := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[k] = Normalize(item)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[fmt.Sprint(k)] = Normalize(item)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = Normalize(item)
		}
		return out
	case []string:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = item
		}
		return out
	case int8:
		return int(val)
	case int16:
		return int(val)
	case int32:
		return int(val)
	case int64:
		return int(val)
	case uint:
		return normalizeUnsigned(uint64(val))
	case uint8:
		return int(val)
	case uint16:
		return int(val)
	case uint32:
		return int(val)
	case uint64:
		return normalizeUnsigned(val)
	case float32:
		return float64(val)
	default:
		return v
	}
}

func normalizeUnsigned(u uint64) any {
	if u > math.MaxInt64 {
		return float64(u)
	}
	return int(u)
}

// Equal reports whether two decoded values are the same data.
func Equal(a, b any) bool {
	return cmp.Equal(Normalize(a), Normalize(b))
}

// DeepCopy returns a copy of v that shares no maps or slices with it.
func DeepCopy(v any) any {
	switch val := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[k] = DeepCopy(item)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = DeepCopy(item)
		}
		return out
	default:
		return Normalize(v)
	}
}

// CopyData deep-copies one source's data. A nil input yields an empty map.
func CopyData(data map[string]any) map[string]any {
	out := make(map[string]any, len(data))
	for k, v := range data {
		out[k] = DeepCopy(v)
	}
	return out
}

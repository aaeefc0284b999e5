package value

import (
	"encoding/json"
	"fmt"
	"math"
	"slices"
	"strconv"
)

// FromAny converts a Go value produced by a generic decoder (encoding/json,
// yaml.v3, viper) into a Value. Go maps carry no order, so their keys are
// inserted in sorted order for determinism.
func FromAny(v any) (Value, error) {
	switch val := v.(type) {
	case nil:
		return Null{}, nil
	case Value:
		return val, nil
	case string:
		return String(val), nil
	case bool:
		return Bool(val), nil
	case int:
		return NumberFromInt(int64(val)), nil
	case int64:
		return NumberFromInt(val), nil
	case uint64:
		return Number{lit: strconv.FormatUint(val, 10)}, nil
	case float64:
		if math.IsInf(val, 0) || math.IsNaN(val) {
			return nil, fmt.Errorf("non-finite number %v", val)
		}
		return Number{lit: strconv.FormatFloat(val, 'g', -1, 64)}, nil
	case json.Number:
		return NewNumber(string(val))
	case []any:
		out := make(List, len(val))
		for i, elem := range val {
			conv, err := FromAny(elem)
			if err != nil {
				return nil, fmt.Errorf("[%d]: %w", i, err)
			}
			out[i] = conv
		}
		return out, nil
	case map[string]any:
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		slices.Sort(keys)
		m := NewMap()
		for _, k := range keys {
			conv, err := FromAny(val[k])
			if err != nil {
				return nil, fmt.Errorf("[%q]: %w", k, err)
			}
			m.Set(k, conv)
		}
		return m, nil
	default:
		return nil, fmt.Errorf("unsupported type: %T", v)
	}
}

// ToAny converts v into plain Go values (map[string]any loses key order).
// Numbers become json.Number so no precision is lost.
func ToAny(v Value) any {
	switch val := v.(type) {
	case String:
		return string(val)
	case Number:
		return json.Number(val.String())
	case Bool:
		return bool(val)
	case List:
		out := make([]any, len(val))
		for i, elem := range val {
			out[i] = ToAny(elem)
		}
		return out
	case *Map:
		out := make(map[string]any, val.Len())
		for _, e := range val.Entries() {
			out[e.Key] = ToAny(e.Value)
		}
		return out
	default:
		return nil
	}
}

package ir

import (
	"encoding/json"
	"fmt"
	"maps"
	"slices"
	"strconv"
)

// ToAny converts a node to the generic representation used by the
// schema validator: map[string]any, []any, json.Number, string, bool,
// nil.  Object field order is not preserved.
func ToAny(y *Node) any {
	switch y.Type {
	case NullType:
		return nil
	case BoolType:
		return y.Bool
	case StringType:
		return y.String
	case NumberType:
		if y.Number != "" {
			return json.Number(y.Number)
		}
		if y.Int64 != nil {
			return json.Number(strconv.FormatInt(*y.Int64, 10))
		}
		return json.Number(strconv.FormatFloat(*y.Float64, 'g', -1, 64))
	case ArrayType:
		res := make([]any, len(y.Values))
		for i, v := range y.Values {
			res[i] = ToAny(v)
		}
		return res
	case ObjectType:
		res := make(map[string]any, len(y.Fields))
		for i := range y.Fields {
			res[y.Fields[i].String] = ToAny(y.Values[i])
		}
		return res
	default:
		panic("type")
	}
}

// FromAny converts a generic JSON value to a node.  Maps lose key
// ordering; keys are sorted for stability.
func FromAny(v any) (*Node, error) {
	switch t := v.(type) {
	case nil:
		return Null(), nil
	case bool:
		return FromBool(t), nil
	case string:
		return FromString(t), nil
	case int:
		return FromInt(int64(t)), nil
	case int64:
		return FromInt(t), nil
	case float64:
		return FromFloat(t), nil
	case json.Number:
		return fromNumber(t)
	case []any:
		vals := make([]*Node, len(t))
		for i, e := range t {
			n, err := FromAny(e)
			if err != nil {
				return nil, err
			}
			vals[i] = n
		}
		return FromSlice(vals), nil
	case map[string]any:
		keys := slices.Sorted(maps.Keys(t))
		res := Object()
		for _, k := range keys {
			n, err := FromAny(t[k])
			if err != nil {
				return nil, err
			}
			res.Set(k, n)
		}
		return res, nil
	default:
		return nil, fmt.Errorf("cannot represent %T", v)
	}
}

func fromNumber(num json.Number) (*Node, error) {
	if i, err := num.Int64(); err == nil {
		n := FromInt(i)
		n.Number = num.String()
		return n, nil
	}
	f, err := num.Float64()
	if err != nil {
		return nil, fmt.Errorf("bad number %q: %w", num.String(), err)
	}
	n := FromFloat(f)
	n.Number = num.String()
	return n, nil
}

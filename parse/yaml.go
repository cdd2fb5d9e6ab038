package parse

import (
	"fmt"
	"time"

	gyaml "github.com/goccy/go-yaml"

	"github.com/sevmeta/sevmeta/ir"
)

func parseYAML(data []byte) (*ir.Node, error) {
	var v any
	if err := gyaml.UnmarshalWithOptions(data, &v, gyaml.UseOrderedMap()); err != nil {
		return nil, fmt.Errorf("yaml: %w", err)
	}
	return yamlValue(v)
}

func yamlValue(v any) (*ir.Node, error) {
	switch t := v.(type) {
	case nil:
		return ir.Null(), nil
	case bool:
		return ir.FromBool(t), nil
	case string:
		return ir.FromString(t), nil
	case int:
		return ir.FromInt(int64(t)), nil
	case int64:
		return ir.FromInt(t), nil
	case uint64:
		if t > 1<<62 {
			return nil, fmt.Errorf("integer %d out of range", t)
		}
		return ir.FromInt(int64(t)), nil
	case float64:
		return ir.FromFloat(t), nil
	case time.Time:
		return ir.FromString(t.Format(time.RFC3339)), nil
	case gyaml.MapSlice:
		res := ir.Object()
		for _, item := range t {
			key, ok := item.Key.(string)
			if !ok {
				return nil, fmt.Errorf("mapping key %v is not a string", item.Key)
			}
			if ir.Get(res, key) != nil {
				return nil, fmt.Errorf("duplicate key %q", key)
			}
			val, err := yamlValue(item.Value)
			if err != nil {
				return nil, err
			}
			res.Set(key, val)
		}
		return res, nil
	case []any:
		res := ir.Array()
		for _, e := range t {
			val, err := yamlValue(e)
			if err != nil {
				return nil, err
			}
			res.Append(val)
		}
		return res, nil
	default:
		return nil, fmt.Errorf("cannot represent yaml value of type %T", v)
	}
}

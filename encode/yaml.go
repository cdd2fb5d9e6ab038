package encode

import (
	"fmt"
	"io"

	gyaml "github.com/goccy/go-yaml"

	"github.com/sevmeta/sevmeta/ir"
)

func encodeYAML(y *ir.Node, w io.Writer, es *EncState) error {
	v := toYAMLValue(y)
	d, err := gyaml.MarshalWithOptions(v,
		gyaml.Indent(es.indent),
		gyaml.IndentSequence(false),
		gyaml.UseLiteralStyleIfMultiline(true),
	)
	if err != nil {
		return fmt.Errorf("yaml: %w", err)
	}
	_, err = w.Write(d)
	return err
}

// toYAMLValue maps IR to goccy values; MapSlice keeps object field
// order.
func toYAMLValue(y *ir.Node) any {
	switch y.Type {
	case ir.NullType:
		return nil
	case ir.BoolType:
		return y.Bool
	case ir.StringType:
		return y.String
	case ir.NumberType:
		if y.Int64 != nil {
			return *y.Int64
		}
		return *y.Float64
	case ir.ArrayType:
		res := make([]any, len(y.Values))
		for i, v := range y.Values {
			res[i] = toYAMLValue(v)
		}
		return res
	case ir.ObjectType:
		res := make(gyaml.MapSlice, len(y.Fields))
		for i := range y.Fields {
			res[i] = gyaml.MapItem{
				Key:   y.Fields[i].String,
				Value: toYAMLValue(y.Values[i]),
			}
		}
		return res
	default:
		panic("type")
	}
}

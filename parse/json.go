package parse

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/sevmeta/sevmeta/ir"
)

// parseJSON decodes with a token walk rather than unmarshalling to
// map[string]any, so object field order survives.
func parseJSON(data []byte) (*ir.Node, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	y, err := jsonValue(dec)
	if err != nil {
		return nil, err
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, fmt.Errorf("trailing content after document")
	}
	return y, nil
}

func jsonValue(dec *json.Decoder) (*ir.Node, error) {
	tok, err := dec.Token()
	if err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("unexpected end of input")
		}
		return nil, err
	}
	return jsonValueFromToken(dec, tok)
}

func jsonValueFromToken(dec *json.Decoder, tok json.Token) (*ir.Node, error) {
	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			return jsonObject(dec)
		case '[':
			return jsonArray(dec)
		default:
			return nil, fmt.Errorf("unexpected %q", t)
		}
	case string:
		return ir.FromString(t), nil
	case bool:
		return ir.FromBool(t), nil
	case nil:
		return ir.Null(), nil
	case json.Number:
		return numberNode(t)
	default:
		return nil, fmt.Errorf("unexpected token %v", tok)
	}
}

func jsonObject(dec *json.Decoder) (*ir.Node, error) {
	res := ir.Object()
	for {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		if d, ok := tok.(json.Delim); ok && d == '}' {
			return res, nil
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("object key is %v, not a string", tok)
		}
		if ir.Get(res, key) != nil {
			return nil, fmt.Errorf("duplicate key %q at %s", key, res.Path())
		}
		val, err := jsonValue(dec)
		if err != nil {
			return nil, err
		}
		res.Set(key, val)
	}
}

func jsonArray(dec *json.Decoder) (*ir.Node, error) {
	res := ir.Array()
	for {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		if d, ok := tok.(json.Delim); ok && d == ']' {
			return res, nil
		}
		val, err := jsonValueFromToken(dec, tok)
		if err != nil {
			return nil, err
		}
		res.Append(val)
	}
}

func numberNode(num json.Number) (*ir.Node, error) {
	if i, err := num.Int64(); err == nil {
		n := ir.FromInt(i)
		n.Number = num.String()
		return n, nil
	}
	f, err := num.Float64()
	if err != nil {
		return nil, fmt.Errorf("bad number %q: %w", num.String(), err)
	}
	n := ir.FromFloat(f)
	n.Number = num.String()
	return n, nil
}

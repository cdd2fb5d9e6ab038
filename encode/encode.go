package encode

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/sevmeta/sevmeta/format"
	"github.com/sevmeta/sevmeta/ir"
)

// Encode writes y to w.  The default is persisted-form JSON.
func Encode(y *ir.Node, w io.Writer, opts ...EncodeOption) error {
	es := &EncState{indent: 2}
	for _, opt := range opts {
		opt(es)
	}
	switch es.format {
	case format.JSONFormat:
		if err := encodeJSON(y, w, es, 0); err != nil {
			return err
		}
		_, err := io.WriteString(w, "\n")
		return err
	case format.YAMLFormat:
		return encodeYAML(y, w, es)
	default:
		return fmt.Errorf("%w: %v", format.ErrBadFormat, es.format)
	}
}

func MustString(node *ir.Node) string {
	buf := bytes.NewBuffer(nil)
	if err := Encode(node, buf); err != nil {
		panic(err)
	}
	return strings.TrimSpace(buf.String())
}

func encodeJSON(y *ir.Node, w io.Writer, es *EncState, depth int) error {
	switch y.Type {
	case ir.NullType:
		return writeColored(w, es.colors.null(), "null")
	case ir.BoolType:
		return writeColored(w, es.colors.boolean(), strconv.FormatBool(y.Bool))
	case ir.NumberType:
		return writeColored(w, es.colors.number(), numberLiteral(y))
	case ir.StringType:
		d, err := json.Marshal(y.String)
		if err != nil {
			return err
		}
		return writeColored(w, es.colors.str(), string(d))
	case ir.ArrayType:
		if len(y.Values) == 0 {
			_, err := io.WriteString(w, "[]")
			return err
		}
		if _, err := io.WriteString(w, "["); err != nil {
			return err
		}
		for i, v := range y.Values {
			if i > 0 {
				if _, err := io.WriteString(w, ","); err != nil {
					return err
				}
			}
			if err := newlineIndent(w, es, depth+1); err != nil {
				return err
			}
			if err := encodeJSON(v, w, es, depth+1); err != nil {
				return err
			}
		}
		if err := newlineIndent(w, es, depth); err != nil {
			return err
		}
		_, err := io.WriteString(w, "]")
		return err
	case ir.ObjectType:
		if len(y.Fields) == 0 {
			_, err := io.WriteString(w, "{}")
			return err
		}
		if _, err := io.WriteString(w, "{"); err != nil {
			return err
		}
		for i := range y.Fields {
			if i > 0 {
				if _, err := io.WriteString(w, ","); err != nil {
					return err
				}
			}
			if err := newlineIndent(w, es, depth+1); err != nil {
				return err
			}
			d, err := json.Marshal(y.Fields[i].String)
			if err != nil {
				return err
			}
			if err := writeColored(w, es.colors.key(), string(d)); err != nil {
				return err
			}
			if _, err := io.WriteString(w, ": "); err != nil {
				return err
			}
			if err := encodeJSON(y.Values[i], w, es, depth+1); err != nil {
				return err
			}
		}
		if err := newlineIndent(w, es, depth); err != nil {
			return err
		}
		_, err := io.WriteString(w, "}")
		return err
	default:
		panic("type")
	}
}

func numberLiteral(y *ir.Node) string {
	if y.Number != "" {
		return y.Number
	}
	if y.Int64 != nil {
		return strconv.FormatInt(*y.Int64, 10)
	}
	return strconv.FormatFloat(*y.Float64, 'g', -1, 64)
}

func newlineIndent(w io.Writer, es *EncState, depth int) error {
	_, err := io.WriteString(w, "\n"+strings.Repeat(" ", es.indent*depth))
	return err
}

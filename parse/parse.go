package parse

import (
	"bytes"
	"fmt"

	"github.com/sevmeta/sevmeta/format"
	"github.com/sevmeta/sevmeta/ir"
)

type config struct {
	format      *format.Format
	skipUIDTest bool
}

type Option func(*config)

// WithFormat fixes the input format.  Without it, input starting with
// '{' or '[' is read as JSON and anything else as YAML.
func WithFormat(f format.Format) Option {
	return func(c *config) { c.format = &f }
}

// AllowDuplicateUIDs disables the duplicate-UID check.  Only the merge
// driver uses this, to let a conflicted document be loaded for repair.
func AllowDuplicateUIDs() Option {
	return func(c *config) { c.skipUIDTest = true }
}

// Parse reads a single JSON or YAML document.
func Parse(data []byte, opts ...Option) (*ir.Node, error) {
	cfg := &config{}
	for _, opt := range opts {
		opt(cfg)
	}
	f := sniff(data)
	if cfg.format != nil {
		f = *cfg.format
	}
	var (
		y   *ir.Node
		err error
	)
	switch f {
	case format.JSONFormat:
		y, err = parseJSON(data)
	case format.YAMLFormat:
		y, err = parseYAML(data)
	default:
		return nil, fmt.Errorf("%w: %v", format.ErrBadFormat, f)
	}
	if err != nil {
		return nil, err
	}
	if !cfg.skipUIDTest {
		if err := checkUIDs(y); err != nil {
			return nil, err
		}
	}
	return y, nil
}

func sniff(data []byte) format.Format {
	trimmed := bytes.TrimLeft(data, " \t\r\n")
	if len(trimmed) > 0 && (trimmed[0] == '{' || trimmed[0] == '[') {
		return format.JSONFormat
	}
	return format.YAMLFormat
}

func checkUIDs(y *ir.Node) error {
	return y.Visit(func(node *ir.Node, isPost bool) (bool, error) {
		if isPost {
			return false, nil
		}
		if node.Type != ir.ArrayType {
			return true, nil
		}
		if !ir.IsUIDArray(node) {
			return true, nil
		}
		if uid, dup := ir.DuplicateUID(node); dup {
			return false, fmt.Errorf("duplicate UID %q at %s", uid, node.Path())
		}
		return true, nil
	})
}

// Package schema validates metadata documents against their embedded,
// versioned JSON schemas and derives default document templates from
// the schema structure.
package schema

import (
	"bytes"
	"embed"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/sevmeta/sevmeta/ir"
	"github.com/sevmeta/sevmeta/parse"
)

//go:embed schemas/*.schema.json
var schemaFS embed.FS

// DefaultVersion is assumed for documents which do not declare a
// schema version.
const DefaultVersion = "v2"

// VersionField is the top level field declaring a document's schema
// version.
const VersionField = "SchemaVersion"

// Schema is one compiled schema version together with its default
// document template.
type Schema struct {
	Version string

	compiled *jsonschema.Schema
	root     *ir.Node
	defaults *ir.Node
}

func load(version string) (*Schema, error) {
	name := fmt.Sprintf("schemas/sevmeta-%s.schema.json", version)
	raw, err := schemaFS.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("unknown schema version %q", version)
	}
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("decoding schema %s: %w", version, err)
	}
	c := jsonschema.NewCompiler()
	if err := c.AddResource(name, doc); err != nil {
		return nil, err
	}
	compiled, err := c.Compile(name)
	if err != nil {
		return nil, fmt.Errorf("compiling schema %s: %w", version, err)
	}
	root, err := parse.Parse(raw)
	if err != nil {
		return nil, err
	}
	s := &Schema{Version: version, compiled: compiled, root: root}
	s.defaults = s.buildDefaults(root)
	return s, nil
}

// Validate checks doc against the schema and returns a
// *ViolationError when it does not conform.
func (s *Schema) Validate(doc *ir.Node) error {
	err := s.compiled.Validate(ir.ToAny(doc))
	if err == nil {
		return nil
	}
	if ve, ok := err.(*jsonschema.ValidationError); ok {
		return violation(s.Version, ve)
	}
	return err
}

// Defaults returns a fresh copy of the schema shaped default document.
// The caller still has to set Sname and SchemaVersion.
func (s *Schema) Defaults() *ir.Node {
	return s.defaults.Clone()
}

// ElementDefaults returns the default template for an element of the
// keyed array addressed by the given chain of mapping keys, or nil
// when the chain does not lead to an array of mappings.
func (s *Schema) ElementDefaults(keys []string) *ir.Node {
	node := s.root
	for _, key := range keys {
		props := ir.Get(node, "properties")
		if props == nil {
			return nil
		}
		node = s.resolve(ir.Get(props, key))
		if node == nil {
			return nil
		}
		if typeOf(node) == "array" {
			node = s.resolve(ir.Get(node, "items"))
			if node == nil {
				return nil
			}
		}
	}
	if typeOf(node) != "object" {
		return nil
	}
	return s.buildDefaults(node)
}

// buildDefaults walks an object schema and assembles its default
// instance: declared defaults are taken as is, nested objects recurse.
// Properties with neither a default nor object structure are omitted.
func (s *Schema) buildDefaults(node *ir.Node) *ir.Node {
	res := ir.Object()
	props := ir.Get(node, "properties")
	if props == nil {
		return res
	}
	for i := range props.Fields {
		field := props.Fields[i].String
		ps := s.resolve(props.Values[i])
		if ps == nil {
			continue
		}
		if d := ir.Get(ps, "default"); d != nil {
			res.Set(field, d.Clone())
			continue
		}
		if typeOf(ps) == "object" && ir.Get(ps, "properties") != nil {
			res.Set(field, s.buildDefaults(ps))
		}
	}
	return res
}

// resolve follows a local $ref into the schema's $defs.
func (s *Schema) resolve(node *ir.Node) *ir.Node {
	if node == nil || node.Type != ir.ObjectType {
		return nil
	}
	ref := ir.Get(node, "$ref")
	if ref == nil {
		return node
	}
	const prefix = "#/$defs/"
	if ref.Type != ir.StringType || len(ref.String) <= len(prefix) || ref.String[:len(prefix)] != prefix {
		return nil
	}
	defs := ir.Get(s.root, "$defs")
	if defs == nil {
		return nil
	}
	return ir.Get(defs, ref.String[len(prefix):])
}

func typeOf(node *ir.Node) string {
	t := ir.Get(node, "type")
	if t == nil || t.Type != ir.StringType {
		return ""
	}
	return t.String
}

// VersionOf reads a document's declared schema version, falling back
// to DefaultVersion when the field is absent.
func VersionOf(doc *ir.Node) string {
	v := ir.Get(doc, VersionField)
	if v == nil || v.Type != ir.StringType || v.String == "" {
		return DefaultVersion
	}
	return v.String
}

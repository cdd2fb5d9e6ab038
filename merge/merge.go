package merge

import (
	"fmt"

	"github.com/sevmeta/sevmeta/debug"
	"github.com/sevmeta/sevmeta/ir"
)

// Mode selects the merge semantics applied uniformly to a whole update:
// Additive sets scalars and appends or creates array elements, Removal
// removes matching array elements.
type Mode int

const (
	Additive Mode = iota
	Removal
)

func (m Mode) String() string {
	switch m {
	case Additive:
		return "additive"
	case Removal:
		return "removal"
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// SchemaVersionField is the top level field carrying the document's
// declared schema version.
const SchemaVersionField = "SchemaVersion"

type Config struct {
	// ElementDefaults, when set, supplies a schema shaped template for
	// an element created in a keyed array addressed by the given chain
	// of mapping keys from the document root.
	ElementDefaults func(keys []string) *ir.Node
	// FillLinked, when set, is invoked on a mapping right after its
	// linked file path field was assigned, so checksum and timestamp
	// fields can be derived from the referenced file.
	FillLinked func(obj *ir.Node) error
	// PathField names the leaf field which triggers FillLinked.
	PathField string
}

type Opt func(*Config)

func WithElementDefaults(f func(keys []string) *ir.Node) Opt {
	return func(c *Config) { c.ElementDefaults = f }
}

func WithLinkedFill(f func(obj *ir.Node) error) Opt {
	return func(c *Config) { c.FillLinked = f }
}

func WithPathField(name string) Opt {
	return func(c *Config) { c.PathField = name }
}

// Merge applies an update document to base in the given mode and
// returns the merged document. base is never mutated; on error the
// returned document is nil and nothing has been applied. Warnings
// report skipped instructions, such as removals targeting scalars.
func Merge(base, update *ir.Node, mode Mode, opts ...Opt) (*ir.Node, []Warning, error) {
	cfg := &Config{PathField: "Path"}
	for _, opt := range opts {
		opt(cfg)
	}
	if base == nil || base.Type != ir.ObjectType {
		return nil, nil, &MalformedUpdateError{Reason: "base document root is not a mapping"}
	}
	if update == nil || update.Type != ir.ObjectType {
		return nil, nil, &MalformedUpdateError{Reason: "update document root is not a mapping"}
	}
	if err := checkSchemaVersion(base, update); err != nil {
		return nil, nil, err
	}
	m := &merger{cfg: cfg, mode: mode}
	res := base.Clone()
	if err := m.object(res, update, nil); err != nil {
		return nil, nil, err
	}
	return res, m.warnings, nil
}

func checkSchemaVersion(base, update *ir.Node) error {
	uv := ir.Get(update, SchemaVersionField)
	if uv == nil {
		return nil
	}
	bv := ir.Get(base, SchemaVersionField)
	if bv == nil {
		return nil
	}
	if uv.Type != ir.StringType || bv.Type != ir.StringType || uv.String != bv.String {
		return &SchemaVersionError{Base: bv.String, Update: uv.String}
	}
	return nil
}

type merger struct {
	cfg      *Config
	mode     Mode
	warnings []Warning
}

func (m *merger) warnf(y *ir.Node, format string, args ...any) {
	m.warnings = append(m.warnings, Warning{
		Path:    y.Path(),
		Message: fmt.Sprintf(format, args...),
	})
}

// object merges the fields of upd into base in place. base is always a
// mapping from the cloned result tree; keys is the chain of mapping
// keys from the document root to base.
func (m *merger) object(base, upd *ir.Node, keys []string) error {
	if debug.Merge() {
		debug.Logf("merge %s object at %s\n%v\ninto\n%v\n", m.mode, upd.Path(), debug.Doc{Node: upd}, debug.Doc{Node: base})
	}
	for i := range upd.Fields {
		field := upd.Fields[i].String
		uv := upd.Values[i]
		if err := m.field(base, field, uv, append(keys, field)); err != nil {
			return err
		}
	}
	return nil
}

func (m *merger) field(base *ir.Node, field string, uv *ir.Node, keys []string) error {
	switch {
	case uv.Type.IsLeaf():
		return m.leaf(base, field, uv)
	case uv.Type == ir.ObjectType:
		return m.nested(base, field, uv, keys)
	case uv.Type == ir.ArrayType:
		return m.array(base, field, uv, keys)
	}
	return &MalformedUpdateError{Path: uv.Path(), Reason: fmt.Sprintf("unexpected node type %s", uv.Type)}
}

func (m *merger) leaf(base *ir.Node, field string, uv *ir.Node) error {
	if m.mode == Removal {
		// a UID field addresses its element, it is not an instruction
		if field == ir.UIDField {
			return nil
		}
		m.warnf(uv, "removal of scalar field %q is not supported, skipped", field)
		return nil
	}
	base.Set(field, uv.Clone())
	if field == m.cfg.PathField && m.cfg.FillLinked != nil && uv.Type == ir.StringType {
		if err := m.cfg.FillLinked(base); err != nil {
			return fmt.Errorf("filling linked file fields for %s: %w", uv.Path(), err)
		}
	}
	return nil
}

func (m *merger) nested(base *ir.Node, field string, uv *ir.Node, keys []string) error {
	bv := ir.Get(base, field)
	if bv == nil || bv.Type != ir.ObjectType {
		if m.mode == Removal {
			// nothing to remove under an absent key
			if bv == nil {
				return nil
			}
			m.warnf(uv, "removal cannot recurse into non-mapping field %q, skipped", field)
			return nil
		}
		bv = ir.Object()
		base.Set(field, bv)
	}
	return m.object(bv, uv, keys)
}

func (m *merger) array(base *ir.Node, field string, uv *ir.Node, keys []string) error {
	keyed, err := classify(uv)
	if err != nil {
		return err
	}
	if keyed {
		return m.keyedArray(base, field, uv, keys)
	}
	return m.plainArray(base, field, uv)
}

// classify reports whether an update array is a keyed array, i.e. a
// sequence of mappings addressed by UID. An array of mappings where
// some elements lack a UID is malformed.
func classify(uv *ir.Node) (keyed bool, err error) {
	if ir.IsUIDArray(uv) {
		return true, nil
	}
	for _, el := range uv.Values {
		if el.Type != ir.ObjectType {
			continue
		}
		if _, ok := ir.UIDOf(el); ok {
			continue
		}
		return false, &MalformedUpdateError{
			Path:   el.Path(),
			Reason: "array element mapping is missing a UID field",
		}
	}
	return false, nil
}

func (m *merger) plainArray(base *ir.Node, field string, uv *ir.Node) error {
	bv := ir.Get(base, field)
	switch m.mode {
	case Additive:
		if bv == nil || bv.Type != ir.ArrayType || !scalarList(bv) || !scalarList(uv) {
			// not an append context, replace wholesale
			base.Set(field, uv.Clone())
			return nil
		}
		for _, el := range uv.Values {
			bv.Append(el.Clone())
		}
		return nil
	case Removal:
		if bv == nil || bv.Type != ir.ArrayType {
			return nil
		}
		for _, el := range uv.Values {
			for i, have := range bv.Values {
				if ir.Equal(have, el) {
					bv.RemoveValueAt(i)
					break
				}
			}
		}
		return nil
	}
	return nil
}

func scalarList(y *ir.Node) bool {
	for _, el := range y.Values {
		if !el.Type.IsLeaf() {
			return false
		}
	}
	return true
}

func (m *merger) keyedArray(base *ir.Node, field string, uv *ir.Node, keys []string) error {
	bv := ir.Get(base, field)
	if bv == nil || bv.Type != ir.ArrayType {
		if m.mode == Removal {
			return nil
		}
		bv = ir.Array()
		base.Set(field, bv)
	}
	for _, el := range uv.Values {
		uid, ok := ir.UIDOf(el)
		if !ok {
			return &MalformedUpdateError{
				Path:   el.Path(),
				Reason: "array element mapping is missing a UID field",
			}
		}
		idx, found := ir.LocateUID(bv, uid)
		if found {
			if m.mode == Removal && onlyUID(el) {
				m.warnf(el, "removal of whole element %q is not supported, skipped", uid)
				continue
			}
			if err := m.object(bv.Values[idx], el, keys); err != nil {
				return err
			}
			continue
		}
		if m.mode == Removal {
			// absent target, nothing to remove
			continue
		}
		created := m.newElement(uid, keys)
		bv.Append(created)
		if err := m.object(created, el, keys); err != nil {
			return err
		}
	}
	return nil
}

// onlyUID reports whether an update element carries nothing besides its
// UID, which in removal mode would mean deleting the whole element.
func onlyUID(el *ir.Node) bool {
	for _, f := range el.Fields {
		if f.String != ir.UIDField {
			return false
		}
	}
	return true
}

// newElement builds a fresh keyed-array element: the UID is set first,
// then schema defaults if available, so the element is schema shaped
// even when the update supplies only a subset of fields.
func (m *merger) newElement(uid string, keys []string) *ir.Node {
	var el *ir.Node
	if m.cfg.ElementDefaults != nil {
		el = m.cfg.ElementDefaults(keys)
	}
	if el == nil || el.Type != ir.ObjectType {
		el = ir.Object()
	}
	el.Set(ir.UIDField, ir.FromString(uid))
	return el
}

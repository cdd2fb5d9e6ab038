package ir

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
)

// Path reports the address of a node within its document, for error
// reporting.  Elements of UID-arrays are addressed by their UID, other
// array elements by index.
func (y *Node) Path() string {
	if y.Parent == nil {
		return "$"
	}
	switch y.Parent.Type {
	case ObjectType:
		f := y.ParentField
		prefix := y.Parent.Path() + "."
		if f != "" && strings.IndexAny(f, "'.*$[]") == -1 {
			return prefix + f
		}
		return prefix + "'" + strings.Replace(f, "'", "\\'", -1) + "'"

	case ArrayType:
		if uid, ok := UIDOf(y); ok {
			return y.Parent.Path() + "['" + uid + "']"
		}
		return y.Parent.Path() + "[" + strconv.Itoa(y.ParentIndex) + "]"
	default:
		panic("parent but not in container")
	}
}

// Path is one segment of a parsed path expression.  A segment is a
// mapping key (Field), a UID-array element selector (UID) or a plain
// array index (Index).
type Path struct {
	Field *string
	UID   *string
	Index *int
	Next  *Path
}

func (p *Path) String() string {
	buf := bytes.NewBuffer([]byte{'$'})
	x := p
	for x != nil {
		switch {
		case x.Field != nil:
			buf.WriteString("." + pathString(*x.Field))
		case x.UID != nil:
			buf.WriteString("['" + strings.Replace(*x.UID, "'", "\\'", -1) + "']")
		case x.Index != nil:
			fmt.Fprintf(buf, "[%d]", *x.Index)
		}
		x = x.Next
	}
	return buf.String()
}

// Keys returns the mapping-key segments of p in order, skipping UID and
// index selectors.  This is the schema-side address of the path: the
// chain of property names leading to the node.
func (p *Path) Keys() []string {
	var res []string
	for x := p; x != nil; x = x.Next {
		if x.Field != nil {
			res = append(res, *x.Field)
		}
	}
	return res
}

// ParsePath parses expressions of the form
//
//	$.ParameterEstimation.Results['online'].InferenceSoftware
//	$.Info.Labels[0]
//
// where ['uid'] selects the element of a UID-array whose UID field
// equals uid and [n] selects a plain array element by index.
func ParsePath(p string) (*Path, error) {
	if len(p) == 0 || p[0] != '$' {
		return nil, fmt.Errorf("path %q should start with '$'", p)
	}
	root := &Path{}
	if len(p) == 1 {
		return root, nil
	}
	err := parseFrag(p[1:], root)
	if err != nil {
		return nil, err
	}
	return root, nil
}

func parseFrag(frag string, parent *Path) error {
	if len(frag) == 0 {
		return nil
	}
	switch frag[0] {
	case '.':
		field, rest, err := parseField(frag[1:])
		if err != nil {
			return err
		}
		parent.Field = &field
		if len(rest) == 0 {
			return nil
		}
		next := &Path{}
		if err := parseFrag(rest, next); err != nil {
			return err
		}
		parent.Next = next
		return nil
	case '[':
		if len(frag) > 1 && frag[1] == '\'' {
			uid, rest, err := parseField(frag[1:])
			if err != nil {
				return err
			}
			if len(rest) == 0 || rest[0] != ']' {
				return fmt.Errorf("expected ']' after UID selector")
			}
			parent.UID = &uid
			if len(rest) == 1 {
				return nil
			}
			next := &Path{}
			if err := parseFrag(rest[1:], next); err != nil {
				return err
			}
			parent.Next = next
			return nil
		}
		i := strings.IndexByte(frag[1:], ']')
		if i == -1 {
			return fmt.Errorf("expected '[' <index> ']'")
		}
		u64, err := strconv.ParseUint(frag[1:i+1], 10, 64)
		if err != nil {
			return err
		}
		index := int(u64)
		parent.Index = &index
		if len(frag) == i+2 {
			return nil
		}
		next := &Path{}
		if err := parseFrag(frag[i+2:], next); err != nil {
			return err
		}
		parent.Next = next
		return nil
	default:
		return fmt.Errorf("expected '.' or '['")
	}
}

func parseField(frag string) (field, rest string, err error) {
	if len(frag) == 0 {
		return "", "", fmt.Errorf("expected field at end of string")
	}
	if frag[0] != '\'' {
		i := strings.IndexAny(frag, ".[]")
		if i == -1 {
			return frag, "", nil
		}
		return frag[:i], frag[i:], nil
	}
	escaped := false
	res := make([]byte, 0, len(frag))
	for i := 1; i < len(frag); i++ {
		c := frag[i]
		switch c {
		case '\\':
			escaped = true
		case '\'':
			if !escaped {
				return string(res), frag[i+1:], nil
			}
			fallthrough
		default:
			escaped = false
			res = append(res, c)
		}
	}
	return "", "", fmt.Errorf("end of string scanning for \"'\"")
}

func pathString(f string) string {
	if strings.IndexAny(f, "'.*$[]") == -1 {
		return f
	}
	return "'" + strings.Replace(f, "'", "\\'", -1) + "'"
}

// GetPath resolves a path expression against y, returning nil with no
// error when an addressed field or UID is absent.
func (y *Node) GetPath(yPath string) (*Node, error) {
	yp, err := ParsePath(yPath)
	if err != nil {
		return nil, err
	}
	res := y
	for yp != nil {
		switch {
		case yp.Field != nil:
			if res.Type != ObjectType {
				return nil, fmt.Errorf("at %s: expected object, got %s", res.Path(), res.Type)
			}
			res = Get(res, *yp.Field)
			if res == nil {
				return nil, nil
			}
		case yp.UID != nil:
			if res.Type != ArrayType {
				return nil, fmt.Errorf("at %s: expected array, got %s", res.Path(), res.Type)
			}
			i, found := LocateUID(res, *yp.UID)
			if !found {
				return nil, nil
			}
			res = res.Values[i]
		case yp.Index != nil:
			if res.Type != ArrayType {
				return nil, fmt.Errorf("at %s: expected array, got %s", res.Path(), res.Type)
			}
			index := *yp.Index
			if index < 0 || index >= len(res.Values) {
				return nil, fmt.Errorf("index out of bounds %d (len %d)", index, len(res.Values))
			}
			res = res.Values[index]
		}
		yp = yp.Next
	}
	return res, nil
}

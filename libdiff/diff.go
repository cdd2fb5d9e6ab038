package libdiff

import (
	"github.com/sevmeta/sevmeta/debug"
	"github.com/sevmeta/sevmeta/ir"
)

// Diff returns the additive half of the difference between before and
// after: a sparse update document containing the fields whose values
// were set or whose arrays gained elements. Returns nil when nothing
// was added or changed.
func Diff(before, after *ir.Node) *ir.Node {
	add, _ := diffObject(before, after)
	if debug.Diff() {
		debug.Logf("diff additions\n%v\n", debug.Doc{Node: add})
	}
	return add
}

// Removals returns the removal half of the difference: a sparse update
// document which, applied in removal mode, drops the array elements
// present in before but not in after. Fields which disappeared
// wholesale are included too, though removal mode can only act on
// their array elements. Returns nil when nothing was removed.
func Removals(before, after *ir.Node) *ir.Node {
	_, rem := diffObject(before, after)
	if debug.Diff() {
		debug.Logf("diff removals\n%v\n", debug.Doc{Node: rem})
	}
	return rem
}

// Summary returns the names of the top level fields touched by the
// difference between before and after, in document order, for use in
// commit messages.
func Summary(before, after *ir.Node) []string {
	add, rem := diffObject(before, after)
	seen := map[string]bool{}
	var keys []string
	for _, d := range []*ir.Node{add, rem} {
		if d == nil {
			continue
		}
		for _, f := range d.Fields {
			if !seen[f.String] {
				seen[f.String] = true
				keys = append(keys, f.String)
			}
		}
	}
	return keys
}

func diffObject(before, after *ir.Node) (add, rem *ir.Node) {
	add, rem = ir.Object(), ir.Object()
	for i := range after.Fields {
		field := after.Fields[i].String
		av := after.Values[i]
		bv := ir.Get(before, field)
		fAdd, fRem := diffValue(bv, av)
		if fAdd != nil {
			add.Set(field, fAdd)
		}
		if fRem != nil {
			rem.Set(field, fRem)
		}
	}
	for i := range before.Fields {
		field := before.Fields[i].String
		if ir.Get(after, field) == nil {
			rem.Set(field, before.Values[i].Clone())
		}
	}
	return emptyToNil(add), emptyToNil(rem)
}

func diffValue(bv, av *ir.Node) (add, rem *ir.Node) {
	if bv == nil {
		return av.Clone(), nil
	}
	if bv.Type != av.Type {
		return av.Clone(), nil
	}
	switch av.Type {
	case ir.ObjectType:
		return diffObject(bv, av)
	case ir.ArrayType:
		if keyedPair(bv, av) {
			return diffKeyedArray(bv, av)
		}
		return diffList(bv, av)
	default:
		if ir.Equal(bv, av) {
			return nil, nil
		}
		return av.Clone(), nil
	}
}

// keyedPair reports whether two arrays should be diffed by UID: at
// least one side is a UID keyed array and the other is either the same
// or empty.
func keyedPair(bv, av *ir.Node) bool {
	bk, ak := ir.IsUIDArray(bv), ir.IsUIDArray(av)
	switch {
	case bk && ak:
		return true
	case bk && len(av.Values) == 0:
		return true
	case ak && len(bv.Values) == 0:
		return true
	}
	return false
}

func diffKeyedArray(bv, av *ir.Node) (add, rem *ir.Node) {
	add, rem = ir.Array(), ir.Array()
	for _, el := range av.Values {
		uid, _ := ir.UIDOf(el)
		idx, found := ir.LocateUID(bv, uid)
		if !found {
			add.Append(el.Clone())
			continue
		}
		elAdd, elRem := diffObject(bv.Values[idx], el)
		if elAdd != nil {
			add.Append(withUID(uid, elAdd))
		}
		if elRem != nil {
			rem.Append(withUID(uid, elRem))
		}
	}
	for _, el := range bv.Values {
		uid, _ := ir.UIDOf(el)
		if _, found := ir.LocateUID(av, uid); !found {
			rem.Append(withUID(uid, ir.Object()))
		}
	}
	return emptyArrToNil(add), emptyArrToNil(rem)
}

// withUID prefixes a sparse element with its UID so the update can be
// resolved against the base array.
func withUID(uid string, el *ir.Node) *ir.Node {
	res := ir.Object()
	res.Set(ir.UIDField, ir.FromString(uid))
	for i := range el.Fields {
		res.Set(el.Fields[i].String, el.Values[i])
	}
	return res
}

func emptyToNil(y *ir.Node) *ir.Node {
	if len(y.Fields) == 0 {
		return nil
	}
	return y
}

func emptyArrToNil(y *ir.Node) *ir.Node {
	if len(y.Values) == 0 {
		return nil
	}
	return y
}

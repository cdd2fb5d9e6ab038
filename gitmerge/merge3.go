// Package gitmerge implements the three way merge used as a git merge
// driver for metadata documents.
//
// Each branch's divergence from the common ancestor is computed as a
// pair of sparse updates, the two additive halves are combined with a
// "theirs wins" policy for scalar collisions, and the combined update
// plus both branches' removals are applied to the ancestor. Structural
// incompatibilities, such as one branch changing a field's type while
// the other edits its old form, surface as a ConflictError.
package gitmerge

import (
	"fmt"
	"slices"

	"github.com/sevmeta/sevmeta/debug"
	"github.com/sevmeta/sevmeta/ir"
	"github.com/sevmeta/sevmeta/libdiff"
	"github.com/sevmeta/sevmeta/merge"
)

// ConflictError reports a structural conflict between the two
// branches which cannot be resolved automatically.
type ConflictError struct {
	Path   string
	Ours   ir.Type
	Theirs ir.Type
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("merge conflict at %s: ours is %s, theirs is %s, manual resolution required",
		e.Path, e.Ours, e.Theirs)
}

type Config struct {
	// Validate, when set, is run on the merged document before it is
	// accepted; a validation error fails the merge.
	Validate func(*ir.Node) error
}

type Opt func(*Config)

func WithValidate(f func(*ir.Node) error) Opt {
	return func(c *Config) { c.Validate = f }
}

// Merge3 merges the divergences of ours and theirs from their common
// ancestor base. Scalar collisions resolve in theirs' favor; elements
// added on both branches appear once; elements removed on either
// branch stay removed. A type level collision returns a ConflictError.
func Merge3(base, ours, theirs *ir.Node, opts ...Opt) (*ir.Node, error) {
	cfg := &Config{}
	for _, opt := range opts {
		opt(cfg)
	}
	addOurs := libdiff.Diff(base, ours)
	addTheirs := libdiff.Diff(base, theirs)
	if debug.Merge3() {
		debug.Logf("merge3 ours adds\n%v\ntheirs adds\n%v\n",
			debug.Doc{Node: addOurs}, debug.Doc{Node: addTheirs})
	}
	if addOurs != nil && addTheirs != nil {
		if err := conflictScan(addOurs, addTheirs); err != nil {
			return nil, err
		}
	}
	res := base.Clone()
	var err error
	if combined := combineAdds(addOurs, addTheirs); combined != nil {
		res, _, err = merge.Merge(res, combined, merge.Additive)
		if err != nil {
			return nil, err
		}
	}
	for _, rem := range []*ir.Node{libdiff.Removals(base, ours), libdiff.Removals(base, theirs)} {
		if rem == nil {
			continue
		}
		res, _, err = merge.Merge(res, rem, merge.Removal)
		if err != nil {
			return nil, err
		}
	}
	if cfg.Validate != nil {
		if err := cfg.Validate(res); err != nil {
			return nil, err
		}
	}
	return res, nil
}

// conflictScan walks the two additive halves in parallel and rejects
// fields the branches set to different node types.
func conflictScan(ours, theirs *ir.Node) error {
	for i := range ours.Fields {
		field := ours.Fields[i].String
		ov := ours.Values[i]
		tv := ir.Get(theirs, field)
		if tv == nil {
			continue
		}
		if ov.Type != tv.Type {
			return &ConflictError{Path: ov.Path(), Ours: ov.Type, Theirs: tv.Type}
		}
		switch ov.Type {
		case ir.ObjectType:
			if err := conflictScan(ov, tv); err != nil {
				return err
			}
		case ir.ArrayType:
			if ir.IsUIDArray(ov) && ir.IsUIDArray(tv) {
				if err := conflictScanKeyed(ov, tv); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func conflictScanKeyed(ours, theirs *ir.Node) error {
	for _, oel := range ours.Values {
		uid, _ := ir.UIDOf(oel)
		idx, found := ir.LocateUID(theirs, uid)
		if !found {
			continue
		}
		if err := conflictScan(oel, theirs.Values[idx]); err != nil {
			return err
		}
	}
	return nil
}

// combineAdds folds the two additive halves into one update: fields
// set by a single branch pass through, scalar collisions take theirs,
// plain list additions are deduplicated across branches and ordered
// canonically, keyed array elements merge per UID.
func combineAdds(ours, theirs *ir.Node) *ir.Node {
	if ours == nil {
		return theirs
	}
	if theirs == nil {
		return ours
	}
	res := ir.Object()
	for i := range ours.Fields {
		field := ours.Fields[i].String
		ov := ours.Values[i]
		tv := ir.Get(theirs, field)
		if tv == nil {
			res.Set(field, ov.Clone())
			continue
		}
		res.Set(field, combineValues(ov, tv))
	}
	for i := range theirs.Fields {
		field := theirs.Fields[i].String
		if ir.Get(ours, field) == nil {
			res.Set(field, theirs.Values[i].Clone())
		}
	}
	return res
}

func combineValues(ov, tv *ir.Node) *ir.Node {
	if ov.Type != tv.Type {
		// caught by conflictScan for object collisions; theirs wins
		return tv.Clone()
	}
	switch ov.Type {
	case ir.ObjectType:
		return combineAdds(ov, tv)
	case ir.ArrayType:
		if ir.IsUIDArray(ov) || ir.IsUIDArray(tv) {
			return combineKeyed(ov, tv)
		}
		return combineLists(ov, tv)
	default:
		return tv.Clone()
	}
}

func combineLists(ov, tv *ir.Node) *ir.Node {
	els := make([]*ir.Node, 0, len(ov.Values)+len(tv.Values))
	for _, el := range ov.Values {
		els = append(els, el.Clone())
	}
	for _, el := range tv.Values {
		if !slices.ContainsFunc(els, func(have *ir.Node) bool {
			return ir.Equal(have, el)
		}) {
			els = append(els, el.Clone())
		}
	}
	slices.SortStableFunc(els, ir.Compare)
	return ir.FromSlice(els)
}

func combineKeyed(ov, tv *ir.Node) *ir.Node {
	res := ir.Array()
	for _, oel := range ov.Values {
		uid, _ := ir.UIDOf(oel)
		idx, found := ir.LocateUID(tv, uid)
		if !found {
			res.Append(oel.Clone())
			continue
		}
		res.Append(combineAdds(oel, tv.Values[idx]))
	}
	for _, tel := range tv.Values {
		uid, _ := ir.UIDOf(tel)
		if _, found := ir.LocateUID(ov, uid); !found {
			res.Append(tel.Clone())
		}
	}
	return res
}

package libdiff

import (
	"github.com/sevmeta/sevmeta/encode"
	"github.com/sevmeta/sevmeta/ir"

	diffpatch "github.com/sergi/go-diff/diffmatchpatch"
)

// diffList diffs two plain arrays by mapping encoded element values to
// runes and running a character diff over them, so repeated elements
// are matched positionally instead of by set membership.
func diffList(bv, av *ir.Node) (add, rem *ir.Node) {
	valMap := map[string]rune{}
	bRunes := mapValuesTo(valMap, bv)
	aRunes := mapValuesTo(valMap, av)
	diffCfg := diffpatch.New()
	diffs := diffCfg.DiffMainRunes(bRunes, aRunes, false)
	add, rem = ir.Array(), ir.Array()
	bi, ai := 0, 0
	for i := range diffs {
		diff := &diffs[i]
		switch diff.Type {
		case diffpatch.DiffDelete:
			for range diff.Text {
				rem.Append(bv.Values[bi].Clone())
				bi++
			}
		case diffpatch.DiffEqual:
			bi += len([]rune(diff.Text))
			ai += len([]rune(diff.Text))
		case diffpatch.DiffInsert:
			for range diff.Text {
				add.Append(av.Values[ai].Clone())
				ai++
			}
		}
	}
	return emptyArrToNil(add), emptyArrToNil(rem)
}

func mapValuesTo(m map[string]rune, node *ir.Node) []rune {
	rs := make([]rune, len(node.Values))
	for i := range node.Values {
		v := encode.MustString(node.Values[i])
		r, ok := m[v]
		if !ok {
			r = rune(len(m))
			m[v] = r
		}
		rs[i] = r
	}
	return rs
}

package ir

import "testing"

func mkObj(kvs ...any) *Node {
	res := Object()
	for i := 0; i < len(kvs); i += 2 {
		res.Set(kvs[i].(string), kvs[i+1].(*Node))
	}
	return res
}

func TestSetReplacesInPlace(t *testing.T) {
	obj := mkObj("a", FromInt(1), "b", FromInt(2))
	obj.Set("a", FromInt(3))
	if len(obj.Fields) != 2 {
		t.Fatalf("got %d fields, want 2", len(obj.Fields))
	}
	if obj.Fields[0].String != "a" {
		t.Errorf("field order changed: %q first", obj.Fields[0].String)
	}
	v := Get(obj, "a")
	if v.Int64 == nil || *v.Int64 != 3 {
		t.Errorf("got %v, want 3", v)
	}
}

func TestSetAppendsNewField(t *testing.T) {
	obj := mkObj("a", FromInt(1))
	obj.Set("b", FromString("x"))
	if len(obj.Fields) != 2 || obj.Fields[1].String != "b" {
		t.Fatalf("new field not appended")
	}
	if Get(obj, "b").Parent != obj {
		t.Errorf("parent not set")
	}
}

func TestCloneDetached(t *testing.T) {
	obj := mkObj("a", FromSlice([]*Node{FromInt(1), FromInt(2)}))
	cl := obj.Clone()
	Get(cl, "a").Append(FromInt(3))
	if len(Get(obj, "a").Values) != 2 {
		t.Errorf("clone shares storage with original")
	}
	if !Equal(Get(cl, "a").Values[2], FromInt(3)) {
		t.Errorf("clone append lost")
	}
}

func TestRemoveValueAt(t *testing.T) {
	arr := FromSlice([]*Node{FromString("x"), FromString("y"), FromString("z")})
	arr.RemoveValueAt(1)
	if len(arr.Values) != 2 {
		t.Fatalf("got %d values, want 2", len(arr.Values))
	}
	if arr.Values[1].String != "z" || arr.Values[1].ParentIndex != 1 {
		t.Errorf("indices not reassigned after removal")
	}
}

func TestEqualIgnoresFieldOrder(t *testing.T) {
	a := mkObj("x", FromInt(1), "y", FromInt(2))
	b := mkObj("y", FromInt(2), "x", FromInt(1))
	if !Equal(a, b) {
		t.Errorf("field order should not affect equality")
	}
	if Compare(a, b) == 0 {
		t.Errorf("Compare is order-sensitive and should differ here")
	}
}

func TestUIDHelpers(t *testing.T) {
	el1 := mkObj("UID", FromString("A1"), "Value", FromInt(1))
	el2 := mkObj("UID", FromString("A2"))
	arr := FromSlice([]*Node{el1, el2})

	if !IsUIDArray(arr) {
		t.Fatalf("expected UID-array")
	}
	i, found := LocateUID(arr, "A2")
	if !found || i != 1 {
		t.Errorf("LocateUID(A2) = %d, %v", i, found)
	}
	if _, found := LocateUID(arr, "A3"); found {
		t.Errorf("found absent UID")
	}
	if IsUIDArray(FromSlice([]*Node{FromString("x")})) {
		t.Errorf("scalar list is not a UID-array")
	}
	mixed := FromSlice([]*Node{el1.Clone(), mkObj("Value", FromInt(2))})
	if IsUIDArray(mixed) {
		t.Errorf("array with UID-less element is not a UID-array")
	}

	dup := FromSlice([]*Node{el1.Clone(), el1.Clone()})
	uid, has := DuplicateUID(dup)
	if !has || uid != "A1" {
		t.Errorf("DuplicateUID = %q, %v", uid, has)
	}
}

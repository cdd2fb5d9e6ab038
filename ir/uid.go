package ir

// UIDField is the reserved mapping key identifying elements of
// UID-arrays.
const UIDField = "UID"

// UIDOf returns the UID of a UID-array element.  The second return is
// false when y is not a mapping, has no UID field, or the UID is not a
// string.
func UIDOf(y *Node) (string, bool) {
	if y == nil || y.Type != ObjectType {
		return "", false
	}
	v := Get(y, UIDField)
	if v == nil || v.Type != StringType {
		return "", false
	}
	return v.String, true
}

// IsUIDArray reports whether y is a non-empty sequence whose elements
// are all mappings carrying a string UID field.  All other sequences
// are plain arrays.
func IsUIDArray(y *Node) bool {
	if y == nil || y.Type != ArrayType || len(y.Values) == 0 {
		return false
	}
	for _, v := range y.Values {
		if _, ok := UIDOf(v); !ok {
			return false
		}
	}
	return true
}

// LocateUID scans a sequence for the first element whose UID field
// equals uid.
func LocateUID(seq *Node, uid string) (int, bool) {
	for i, v := range seq.Values {
		vUID, ok := UIDOf(v)
		if !ok {
			continue
		}
		if vUID == uid {
			return i, true
		}
	}
	return 0, false
}

// DuplicateUID returns the first UID value appearing more than once in
// seq, if any.
func DuplicateUID(seq *Node) (string, bool) {
	seen := make(map[string]bool, len(seq.Values))
	for _, v := range seq.Values {
		uid, ok := UIDOf(v)
		if !ok {
			continue
		}
		if seen[uid] {
			return uid, true
		}
		seen[uid] = true
	}
	return "", false
}

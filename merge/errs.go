package merge

import "fmt"

// MalformedUpdateError indicates an update document which violates the
// basic shape contract: a non-mapping root, or a keyed-array element
// missing its UID field. Nothing is applied when it is returned.
type MalformedUpdateError struct {
	Path   string
	Reason string
}

func (e *MalformedUpdateError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("malformed update: %s", e.Reason)
	}
	return fmt.Sprintf("malformed update at %s: %s", e.Path, e.Reason)
}

// SchemaVersionError indicates an update whose declared schema version
// does not match the base document's. The merge is rejected before any
// mutation.
type SchemaVersionError struct {
	Base   string
	Update string
}

func (e *SchemaVersionError) Error() string {
	return fmt.Sprintf("update schema version %q does not match document schema version %q",
		e.Update, e.Base)
}

// Warning reports an update instruction which could not be applied and
// was skipped, such as a removal targeting a scalar field or a whole
// element. Warnings never abort the merge.
type Warning struct {
	Path    string
	Message string
}

func (w Warning) String() string {
	return fmt.Sprintf("%s: %s", w.Path, w.Message)
}

package schema

import (
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// ViolationError reports a document which does not conform to its
// declared schema version. Path addresses the offending location in
// the document.
type ViolationError struct {
	Version string
	Path    string
	Message string
}

func (e *ViolationError) Error() string {
	return fmt.Sprintf("schema %s violation at %s: %s", e.Version, e.Path, e.Message)
}

// violation flattens a validator error into a ViolationError carrying
// the deepest cause's location.
func violation(version string, ve *jsonschema.ValidationError) *ViolationError {
	leaf := ve
	for len(leaf.Causes) > 0 {
		leaf = leaf.Causes[0]
	}
	return &ViolationError{
		Version: version,
		Path:    instancePath(leaf.InstanceLocation),
		Message: leaf.Error(),
	}
}

func instancePath(loc []string) string {
	if len(loc) == 0 {
		return "$"
	}
	var b strings.Builder
	b.WriteByte('$')
	for _, seg := range loc {
		b.WriteByte('.')
		b.WriteString(seg)
	}
	return b.String()
}

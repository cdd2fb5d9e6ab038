package gitmerge

import (
	"bytes"
	"fmt"
	"os"

	"github.com/sevmeta/sevmeta/encode"
	"github.com/sevmeta/sevmeta/format"
	"github.com/sevmeta/sevmeta/ir"
	"github.com/sevmeta/sevmeta/parse"
)

// RunFiles implements the git merge driver file contract: it reads the
// ancestor, ours and theirs versions from the given paths, merges
// them, and on success overwrites oursPath with the merged content.
// On conflict an error is returned and no file is touched; git then
// leaves the path unmerged.
func RunFiles(ancestorPath, oursPath, theirsPath string, opts ...Opt) error {
	base, err := readDoc(ancestorPath)
	if err != nil {
		if !os.IsNotExist(err) {
			return err
		}
		// no common ancestor, both sides are additions
		base = ir.Object()
	}
	ours, err := readSide(oursPath, base)
	if err != nil {
		return err
	}
	theirs, err := readSide(theirsPath, base)
	if err != nil {
		return err
	}
	res, err := Merge3(base, ours, theirs, opts...)
	if err != nil {
		return err
	}
	buf := bytes.NewBuffer(nil)
	if err := encode.Encode(res, buf, encode.EncodeFormat(format.FromPath(oursPath))); err != nil {
		return err
	}
	return os.WriteFile(oursPath, buf.Bytes(), 0644)
}

// readSide reads a branch's merge stage, treating a missing file as an
// unchanged copy of the ancestor.
func readSide(path string, base *ir.Node) (*ir.Node, error) {
	y, err := readDoc(path)
	if err != nil {
		if os.IsNotExist(err) {
			return base.Clone(), nil
		}
		return nil, err
	}
	return y, nil
}

// readDoc parses a merge stage file. Git hands the driver temporary
// files whose names carry no useful extension, so the content sniffing
// in parse decides the format.
func readDoc(path string) (*ir.Node, error) {
	d, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	// an empty stage means the document did not exist on that side
	if len(bytes.TrimSpace(d)) == 0 {
		return ir.Object(), nil
	}
	y, err := parse.Parse(d)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if y.Type != ir.ObjectType {
		return nil, fmt.Errorf("%s: document root is not a mapping", path)
	}
	return y, nil
}

// Package ir holds the in-memory representation of superevent metadata
// documents: an ordered tree of mappings, sequences and scalars.
//
// Objects keep their fields in insertion order so that re-encoding a
// document produces minimal diffs across commits.  Sequences whose
// elements are mappings carrying a "UID" field are UID-arrays: the UID
// identifies the element, the position does not.
//
// # Related Packages
//
//   - github.com/sevmeta/sevmeta/parse - parse JSON/YAML to IR
//   - github.com/sevmeta/sevmeta/encode - encode IR to JSON/YAML
//   - github.com/sevmeta/sevmeta/merge - apply update documents
package ir

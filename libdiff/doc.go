// Package libdiff computes structural diffs between metadata documents.
//
// A diff is expressed as a pair of sparse update documents: the result
// of Diff applied additively to the old document, followed by the
// result of Removals applied in removal mode, reconstructs the new
// document. Both halves are ordinary update documents, so they are
// human auditable and re-appliable.
//
// # Usage
//
//	add := libdiff.Diff(oldDoc, newDoc)
//	rem := libdiff.Removals(oldDoc, newDoc)
//	keys := libdiff.Summary(oldDoc, newDoc)
//
// # Related Packages
//
//   - github.com/sevmeta/sevmeta/ir - document representation
//   - github.com/sevmeta/sevmeta/merge - update application
package libdiff

// Package encode renders IR documents as JSON or YAML.
//
// JSON output is the persisted form: two-space indent, object fields
// in document order, trailing newline, so re-encoding an unchanged
// document is byte-identical and commit diffs stay minimal.
package encode

// Package parse reads superevent metadata and update documents into
// IR.  JSON and YAML inputs with equivalent content produce identical
// trees; object field order is preserved from the input.
//
// Parsing rejects documents containing a UID-array with duplicate UID
// values, so the merge engine can assume uniqueness.
package parse

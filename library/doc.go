// Package library manages a version controlled repository of
// superevent metadata documents: one JSON file per superevent, each
// write paired with a git commit, with optimistic concurrency between
// independent writers.
package library

package library

import "fmt"

// StaleWriteError indicates the persisted document moved between load
// and write. The caller has to re-load, re-apply its update, and retry.
type StaleWriteError struct {
	Sname string
}

func (e *StaleWriteError) Error() string {
	return fmt.Sprintf("%s changed in the library since it was loaded, re-load and retry", e.Sname)
}

// NotFoundError indicates a superevent with no document in the
// library.
type NotFoundError struct {
	Sname string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no metadata for %s in this library", e.Sname)
}

package library

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	jsonpatch "github.com/evanphx/json-patch/v5"
	"github.com/go-git/go-billy/v5/util"
	"go.uber.org/zap"

	"github.com/sevmeta/sevmeta/encode"
	"github.com/sevmeta/sevmeta/ir"
	"github.com/sevmeta/sevmeta/libdiff"
	"github.com/sevmeta/sevmeta/merge"
	"github.com/sevmeta/sevmeta/parse"
	"github.com/sevmeta/sevmeta/schema"
)

// Metadata is one superevent's document, held in memory together with
// the library file content it was loaded from. Updates mutate only the
// in-memory document; Write persists and commits it.
type Metadata struct {
	lib   *Library
	Sname string

	doc    *ir.Node
	loaded []byte
}

func (m *Metadata) Doc() *ir.Node {
	return m.doc
}

// IsNew reports whether the document exists only in memory so far.
func (m *Metadata) IsNew() bool {
	return m.loaded == nil
}

func (m *Metadata) Schema() (*schema.Schema, error) {
	return schema.Get(schema.VersionOf(m.doc))
}

// Update merges an update document into the in-memory document. The
// merged result is schema validated before it replaces the current
// one, so a violating update leaves the document untouched.
func (m *Metadata) Update(update *ir.Node, mode merge.Mode) ([]merge.Warning, error) {
	sch, err := m.Schema()
	if err != nil {
		return nil, err
	}
	merged, warns, err := merge.Merge(m.doc, update, mode,
		merge.WithElementDefaults(sch.ElementDefaults),
		merge.WithLinkedFill(m.lib.filler.Fill))
	if err != nil {
		return nil, err
	}
	if err := sch.Validate(merged); err != nil {
		return nil, err
	}
	for _, w := range warns {
		m.lib.log.Warn("update instruction skipped",
			zap.String("sname", m.Sname),
			zap.String("path", w.Path),
			zap.String("reason", w.Message))
	}
	m.doc = merged
	return warns, nil
}

// Write persists the document to the library and commits it. An empty
// message gets a generated summary of the changed top level fields.
// When the library file moved since load, a *StaleWriteError is
// returned and nothing is written; an unchanged document writes and
// commits nothing.
func (m *Metadata) Write(message string) error {
	name := FileName(m.Sname)
	data := []byte(encode.MustString(m.doc))
	current, err := util.ReadFile(m.lib.fs, name)
	switch {
	case err == nil:
		if m.loaded == nil || !bytes.Equal(current, m.loaded) {
			return &StaleWriteError{Sname: m.Sname}
		}
	case os.IsNotExist(err):
		if m.loaded != nil {
			return &StaleWriteError{Sname: m.Sname}
		}
	default:
		return err
	}
	if m.loaded != nil && jsonpatch.Equal(m.loaded, data) {
		m.lib.log.Info("no changes to write", zap.String("sname", m.Sname))
		return nil
	}
	if message == "" {
		message = m.commitMessage()
	}
	if err := util.WriteFile(m.lib.fs, name, data, 0644); err != nil {
		return err
	}
	if err := m.lib.commit(message, name); err != nil {
		return err
	}
	m.lib.log.Info("wrote metadata",
		zap.String("sname", m.Sname), zap.String("message", message))
	m.loaded = data
	return nil
}

func (m *Metadata) commitMessage() string {
	if m.loaded == nil {
		return fmt.Sprintf("%s - Created", m.Sname)
	}
	before, err := parse.Parse(m.loaded)
	if err != nil {
		return fmt.Sprintf("%s - Updated", m.Sname)
	}
	keys := libdiff.Summary(before, m.doc)
	if len(keys) == 0 {
		return fmt.Sprintf("%s - Updated", m.Sname)
	}
	return fmt.Sprintf("%s - Changes made to [%s]", m.Sname, strings.Join(keys, ", "))
}

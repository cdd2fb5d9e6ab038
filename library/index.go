package library

import (
	"fmt"
	"regexp"
	"sort"

	jsonpatch "github.com/evanphx/json-patch/v5"
	"github.com/go-git/go-billy/v5/util"
	"go.uber.org/zap"

	"github.com/sevmeta/sevmeta/encode"
	"github.com/sevmeta/sevmeta/ir"
	"github.com/sevmeta/sevmeta/parse"
)

// IndexFile is the generated library index at the repository root.
const IndexFile = "sevmeta-index.json"

var docFileRE = regexp.MustCompile(`^(S[0-9]{6}[a-z]+)-metadata\.json$`)

type IndexEntry struct {
	Sname string
	Path  string
}

// Scan walks the library for superevent documents passing the include
// rule, sorted by superevent name.
func (l *Library) Scan() ([]IndexEntry, error) {
	infos, err := l.fs.ReadDir("/")
	if err != nil {
		return nil, err
	}
	var entries []IndexEntry
	for _, fi := range infos {
		m := docFileRE.FindStringSubmatch(fi.Name())
		if m == nil {
			continue
		}
		d, err := util.ReadFile(l.fs, fi.Name())
		if err != nil {
			return nil, err
		}
		doc, err := parse.Parse(d)
		if err != nil {
			return nil, fmt.Errorf("parsing %s: %w", fi.Name(), err)
		}
		ok, err := l.Included(doc)
		if err != nil {
			return nil, err
		}
		if !ok {
			l.log.Debug("excluded from index", zap.String("sname", m[1]))
			continue
		}
		entries = append(entries, IndexEntry{Sname: m[1], Path: fi.Name()})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Sname < entries[j].Sname })
	return entries, nil
}

// WriteIndex rebuilds the library index file and commits it when it
// changed.
func (l *Library) WriteIndex(message string) ([]IndexEntry, error) {
	entries, err := l.Scan()
	if err != nil {
		return nil, err
	}
	doc := ir.Object()
	doc.Set("Library", ir.FromString(l.cfg.Library.Name))
	list := ir.Array()
	for _, e := range entries {
		el := ir.Object()
		el.Set("Sname", ir.FromString(e.Sname))
		el.Set("Path", ir.FromString(e.Path))
		list.Append(el)
	}
	doc.Set("Superevents", list)
	data := []byte(encode.MustString(doc))
	if existing, err := util.ReadFile(l.fs, IndexFile); err == nil && jsonpatch.Equal(existing, data) {
		return entries, nil
	}
	if err := util.WriteFile(l.fs, IndexFile, data, 0644); err != nil {
		return nil, err
	}
	if message == "" {
		message = "Update library index"
	}
	if err := l.commit(message, IndexFile); err != nil {
		return nil, err
	}
	l.log.Info("wrote index", zap.Int("superevents", len(entries)))
	return entries, nil
}

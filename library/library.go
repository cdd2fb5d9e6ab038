package library

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"regexp"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"
	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"go.uber.org/zap"

	"github.com/sevmeta/sevmeta/ir"
	"github.com/sevmeta/sevmeta/linkedfile"
	"github.com/sevmeta/sevmeta/parse"
	"github.com/sevmeta/sevmeta/schema"
)

var snameRE = regexp.MustCompile(`^S[0-9]{6}[a-z]+$`)

// FileName is the deterministic library file name of a superevent's
// document.
func FileName(sname string) string {
	return sname + "-metadata.json"
}

type Library struct {
	repo    *git.Repository
	wt      *git.Worktree
	fs      billy.Filesystem
	cfg     *Config
	include *vm.Program
	log     *zap.Logger
	filler  *linkedfile.Filler
}

type Opt func(*Library)

func WithLogger(log *zap.Logger) Opt {
	return func(l *Library) { l.log = log }
}

func WithFiller(f *linkedfile.Filler) Opt {
	return func(l *Library) { l.filler = f }
}

// New wraps an already opened git repository as a metadata library.
func New(repo *git.Repository, opts ...Opt) (*Library, error) {
	wt, err := repo.Worktree()
	if err != nil {
		return nil, err
	}
	cfg, err := readConfig(wt.Filesystem)
	if err != nil {
		return nil, err
	}
	include, err := compileInclude(cfg.Library.Include)
	if err != nil {
		return nil, err
	}
	l := &Library{
		repo:    repo,
		wt:      wt,
		fs:      wt.Filesystem,
		cfg:     cfg,
		include: include,
		log:     zap.NewNop(),
		filler:  linkedfile.New(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l, nil
}

// Open opens the library in an existing git working tree.
func Open(path string, opts ...Opt) (*Library, error) {
	repo, err := git.PlainOpen(path)
	if err != nil {
		return nil, fmt.Errorf("opening library at %s: %w", path, err)
	}
	return New(repo, opts...)
}

// Init creates a new library: a fresh git repository holding the given
// configuration as its first commit.
func Init(path string, cfg *Config, opts ...Opt) (*Library, error) {
	repo, err := git.PlainInit(path, false)
	if err != nil {
		return nil, fmt.Errorf("initializing library at %s: %w", path, err)
	}
	wt, err := repo.Worktree()
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		cfg = defaultConfig()
	}
	if cfg.User.Name == "" {
		cfg.User.Name = "sevmeta"
	}
	if cfg.User.Email == "" {
		cfg.User.Email = "sevmeta@localhost"
	}
	buf := bytes.NewBuffer(nil)
	if err := toml.NewEncoder(buf).Encode(cfg); err != nil {
		return nil, err
	}
	if err := util.WriteFile(wt.Filesystem, ConfigFile, buf.Bytes(), 0644); err != nil {
		return nil, err
	}
	if _, err := wt.Add(ConfigFile); err != nil {
		return nil, err
	}
	_, err = wt.Commit("Initialize library", &git.CommitOptions{
		Author: &object.Signature{Name: cfg.User.Name, Email: cfg.User.Email, When: time.Now()},
	})
	if err != nil {
		return nil, err
	}
	return New(repo, opts...)
}

func (l *Library) Name() string {
	return l.cfg.Library.Name
}

func (l *Library) signature() *object.Signature {
	return &object.Signature{
		Name:  l.cfg.User.Name,
		Email: l.cfg.User.Email,
		When:  time.Now(),
	}
}

func (l *Library) commit(message string, paths ...string) error {
	for _, p := range paths {
		if _, err := l.wt.Add(p); err != nil {
			return err
		}
	}
	_, err := l.wt.Commit(message, &git.CommitOptions{Author: l.signature()})
	return err
}

// Load reads a superevent's document from the library.
func (l *Library) Load(sname string) (*Metadata, error) {
	if !snameRE.MatchString(sname) {
		return nil, fmt.Errorf("invalid superevent name %q", sname)
	}
	d, err := util.ReadFile(l.fs, FileName(sname))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &NotFoundError{Sname: sname}
		}
		return nil, err
	}
	doc, err := parse.Parse(d)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", FileName(sname), err)
	}
	if doc.Type != ir.ObjectType {
		return nil, fmt.Errorf("%s: document root is not a mapping", FileName(sname))
	}
	return &Metadata{lib: l, Sname: sname, doc: doc, loaded: d}, nil
}

// Create builds a new in-memory document for a superevent from the
// current schema's defaults. Nothing is persisted until Write.
func (l *Library) Create(sname string) (*Metadata, error) {
	if !snameRE.MatchString(sname) {
		return nil, fmt.Errorf("invalid superevent name %q", sname)
	}
	sch, err := schema.Get(schema.DefaultVersion)
	if err != nil {
		return nil, err
	}
	doc := sch.Defaults()
	doc.Set("Sname", ir.FromString(sname))
	doc.Set(schema.VersionField, ir.FromString(sch.Version))
	l.log.Debug("created default document", zap.String("sname", sname),
		zap.String("schema", sch.Version))
	return &Metadata{lib: l, Sname: sname, doc: doc}, nil
}

// LoadOrCreate loads a superevent's document, falling back to a fresh
// default document when the library has none.
func (l *Library) LoadOrCreate(sname string) (*Metadata, error) {
	md, err := l.Load(sname)
	if err == nil {
		return md, nil
	}
	nf := &NotFoundError{}
	if errors.As(err, &nf) {
		return l.Create(sname)
	}
	return nil, err
}

// Included evaluates the library's include rule against a document's
// identity fields.
func (l *Library) Included(doc *ir.Node) (bool, error) {
	if l.include == nil {
		return true, nil
	}
	env := includeEnv{
		Sname:       stringField(doc, "Sname"),
		Labels:      stringList(doc, "Info", "Labels"),
		Instruments: stringList(doc, "Info", "Instruments"),
	}
	out, err := expr.Run(l.include, env)
	if err != nil {
		return false, fmt.Errorf("library include rule: %w", err)
	}
	return out.(bool), nil
}

func stringField(doc *ir.Node, field string) string {
	v := ir.Get(doc, field)
	if v == nil || v.Type != ir.StringType {
		return ""
	}
	return v.String
}

func stringList(doc *ir.Node, fields ...string) []string {
	v := doc
	for _, f := range fields {
		v = ir.Get(v, f)
		if v == nil {
			return nil
		}
	}
	if v.Type != ir.ArrayType {
		return nil
	}
	res := make([]string, 0, len(v.Values))
	for _, el := range v.Values {
		if el.Type == ir.StringType {
			res = append(res, el.String)
		}
	}
	return res
}

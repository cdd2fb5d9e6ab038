package library

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sevmeta/sevmeta/ir"
	"github.com/sevmeta/sevmeta/merge"
	"github.com/sevmeta/sevmeta/parse"
)

func testLib(t *testing.T, cfg *Config) *Library {
	t.Helper()
	l, err := Init(t.TempDir(), cfg)
	require.NoError(t, err)
	return l
}

func mustParse(t *testing.T, s string) *ir.Node {
	t.Helper()
	y, err := parse.Parse([]byte(s))
	require.NoError(t, err)
	return y
}

func headMessage(t *testing.T, l *Library) string {
	t.Helper()
	ref, err := l.repo.Head()
	require.NoError(t, err)
	c, err := l.repo.CommitObject(ref.Hash())
	require.NoError(t, err)
	return c.Message
}

func TestCreateWriteLoad(t *testing.T) {
	l := testLib(t, nil)
	md, err := l.Create("S230101ab")
	require.NoError(t, err)
	require.True(t, md.IsNew())
	require.NoError(t, md.Write(""))
	require.Equal(t, "S230101ab - Created", headMessage(t, l))

	got, err := l.Load("S230101ab")
	require.NoError(t, err)
	require.False(t, got.IsNew())
	require.True(t, ir.Equal(got.Doc(), md.Doc()))
}

func TestLoadMissing(t *testing.T) {
	l := testLib(t, nil)
	_, err := l.Load("S230101ab")
	nf := &NotFoundError{}
	require.ErrorAs(t, err, &nf)

	md, err := l.LoadOrCreate("S230101ab")
	require.NoError(t, err)
	require.True(t, md.IsNew())
}

func TestInvalidSname(t *testing.T) {
	l := testLib(t, nil)
	_, err := l.Create("G12345")
	require.Error(t, err)
}

func TestUpdateAndCommitMessage(t *testing.T) {
	l := testLib(t, nil)
	md, err := l.Create("S230101ab")
	require.NoError(t, err)
	require.NoError(t, md.Write(""))

	warns, err := md.Update(mustParse(t,
		`{"Info": {"Labels": ["EM_READY"]}, "ParameterEstimation": {"Status": "ongoing"}}`),
		merge.Additive)
	require.NoError(t, err)
	require.Empty(t, warns)
	require.NoError(t, md.Write(""))
	require.Equal(t, "S230101ab - Changes made to [Info, ParameterEstimation]", headMessage(t, l))

	got, err := l.Load("S230101ab")
	require.NoError(t, err)
	status, err := got.Doc().GetPath("$.ParameterEstimation.Status")
	require.NoError(t, err)
	require.Equal(t, "ongoing", status.String)
}

func TestUpdateSchemaViolationRollsBack(t *testing.T) {
	l := testLib(t, nil)
	md, err := l.Create("S230101ab")
	require.NoError(t, err)
	before := md.Doc().Clone()

	// the last field violates the schema, nothing may stick
	_, err = md.Update(mustParse(t,
		`{"Info": {"Labels": ["EM_READY"]}, "Bogus": 1}`), merge.Additive)
	require.Error(t, err)
	require.True(t, ir.Equal(md.Doc(), before))
}

func TestUpdateCreatesKeyedElementsWithDefaults(t *testing.T) {
	l := testLib(t, nil)
	md, err := l.Create("S230101ab")
	require.NoError(t, err)
	_, err = md.Update(mustParse(t,
		`{"ParameterEstimation": {"Results": [{"UID": "Prod1"}]}}`), merge.Additive)
	require.NoError(t, err)
	rs, err := md.Doc().GetPath(`$.ParameterEstimation.Results['Prod1'].ReviewStatus`)
	require.NoError(t, err)
	require.NotNil(t, rs)
	require.Equal(t, "unstarted", rs.String)
}

func TestNoOpWriteSkipsCommit(t *testing.T) {
	l := testLib(t, nil)
	md, err := l.Create("S230101ab")
	require.NoError(t, err)
	require.NoError(t, md.Write(""))
	first := headMessage(t, l)
	require.NoError(t, md.Write(""))
	require.Equal(t, first, headMessage(t, l))
}

func TestStaleWrite(t *testing.T) {
	l := testLib(t, nil)
	md, err := l.Create("S230101ab")
	require.NoError(t, err)
	require.NoError(t, md.Write(""))

	a, err := l.Load("S230101ab")
	require.NoError(t, err)
	b, err := l.Load("S230101ab")
	require.NoError(t, err)

	_, err = a.Update(mustParse(t, `{"ParameterEstimation": {"Status": "ongoing"}}`), merge.Additive)
	require.NoError(t, err)
	require.NoError(t, a.Write(""))

	_, err = b.Update(mustParse(t, `{"ParameterEstimation": {"Status": "complete"}}`), merge.Additive)
	require.NoError(t, err)
	err = b.Write("")
	stale := &StaleWriteError{}
	require.ErrorAs(t, err, &stale)
	require.Equal(t, "S230101ab", stale.Sname)
}

func TestIncludeRuleAndIndex(t *testing.T) {
	l := testLib(t, &Config{
		Library: LibraryConfig{Name: "o4", Include: `Sname startsWith "S23"`},
		User:    UserConfig{Name: "tester", Email: "tester@example.org"},
	})
	for _, sname := range []string{"S230101ab", "S220505cd"} {
		md, err := l.Create(sname)
		require.NoError(t, err)
		require.NoError(t, md.Write(""))
	}

	entries, err := l.Scan()
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, "S230101ab", entries[0].Sname)

	_, err = l.WriteIndex("")
	require.NoError(t, err)
	require.Equal(t, "Update library index", headMessage(t, l))

	// a second rebuild with no changes commits nothing
	_, err = l.WriteIndex("rebuilt")
	require.NoError(t, err)
	require.Equal(t, "Update library index", headMessage(t, l))
}

func TestIncludeRuleErrors(t *testing.T) {
	_, err := Init(t.TempDir(), &Config{
		Library: LibraryConfig{Include: `Sname +`},
	})
	require.Error(t, err)
}

package rewriter

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"ora-cte-fix/internal/catalog"
	"ora-cte-fix/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// MockRewriter appends a marker so ordering can be observed
type MockRewriter struct {
	name string
}

func (m *MockRewriter) Name() string { return m.name }
func (m *MockRewriter) Rewrite(path string, content string) (string, []model.Outcome) {
	return content + m.name, []model.Outcome{{Rewriter: m.name, Status: model.StatusRewritten}}
}

func TestEngine_Apply(t *testing.T) {
	e := NewEngine()
	e.Register(&MockRewriter{name: "a"})
	e.Register(&MockRewriter{name: "b"})

	out, outcomes := e.Apply("x.sql", "-")

	assert.Equal(t, "-ab", out)
	require.Len(t, outcomes, 2)
	assert.Equal(t, "a", outcomes[0].Rewriter)
	assert.Equal(t, "b", outcomes[1].Rewriter)
}

func TestEngine_FixFile(t *testing.T) {
	path := copyTestdata(t, "benchmark.sql")
	e := NewEngine()
	e.Register(NewSectionRewriter(catalog.Default()))

	res := e.FixFile(path, Options{})

	require.NoError(t, res.Err)
	assert.True(t, res.Changed)
	assert.True(t, res.Written)
	assert.Equal(t, 3, res.Rewritten())
	assert.Equal(t, 5, res.Skipped())

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, readTestdata(t, "benchmark.sections.golden"), string(got))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o640), info.Mode().Perm())

	_, err = os.Stat(path + ".bak")
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestEngine_FixFile_DryRun(t *testing.T) {
	path := copyTestdata(t, "benchmark.sql")
	e := NewEngine()
	e.Register(NewPatternRewriter())

	res := e.FixFile(path, Options{DryRun: true})

	require.NoError(t, res.Err)
	assert.True(t, res.Changed)
	assert.False(t, res.Written)
	assert.Contains(t, res.Diff, "--- "+path)
	assert.Contains(t, res.Diff, "+WITH CONTAINER_INFO AS (")
	assert.Contains(t, res.Diff, "+GROUP BY CI.container_desc;")

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, readTestdata(t, "benchmark.sql"), string(got))
}

func TestEngine_FixFile_Backup(t *testing.T) {
	path := copyTestdata(t, "benchmark.sql")
	e := NewEngine()
	e.Register(NewPatternRewriter())

	res := e.FixFile(path, Options{Backup: true})
	require.NoError(t, res.Err)

	bak, err := os.ReadFile(path + ".bak")
	require.NoError(t, err)
	assert.Equal(t, readTestdata(t, "benchmark.sql"), string(bak))

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, readTestdata(t, "benchmark.pattern.golden"), string(got))
}

func TestEngine_FixFile_Unchanged(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plain.sql")
	require.NoError(t, os.WriteFile(path, []byte("SELECT 1 FROM DUAL;\n"), 0o644))
	e := NewEngine()
	e.Register(NewPatternRewriter())

	res := e.FixFile(path, Options{})

	require.NoError(t, res.Err)
	assert.False(t, res.Changed)
	assert.True(t, res.Written)
	assert.Empty(t, res.Outcomes)
}

func TestEngine_FixFile_Errors(t *testing.T) {
	e := NewEngine()
	e.Register(NewPatternRewriter())

	res := e.FixFile(filepath.Join(t.TempDir(), "missing.sql"), Options{})
	assert.ErrorIs(t, res.Err, os.ErrNotExist)

	bad := filepath.Join(t.TempDir(), "latin1.sql")
	require.NoError(t, os.WriteFile(bad, []byte("SELECT 'caf\xe9' FROM DUAL;"), 0o644))
	res = e.FixFile(bad, Options{})
	assert.ErrorIs(t, res.Err, ErrInvalidEncoding)
}

func TestVerify(t *testing.T) {
	rewritten := model.FileResult{Outcomes: []model.Outcome{{Status: model.StatusRewritten}}}
	already := model.FileResult{Outcomes: []model.Outcome{{Status: model.StatusAlreadyRewritten}}}
	skipped := model.FileResult{Outcomes: []model.Outcome{{Status: model.StatusRewritten}, {Status: model.StatusNotFound}}}
	empty := model.FileResult{}
	failed := model.FileResult{Err: os.ErrPermission}

	tests := []struct {
		name    string
		results []model.FileResult
		strict  bool
		wantErr error
	}{
		{"Lenient ignores skips", []model.FileResult{skipped}, false, nil},
		{"Lenient ignores empty runs", []model.FileResult{empty}, false, nil},
		{"File error always fails", []model.FileResult{failed}, false, os.ErrPermission},
		{"Strict all rewritten", []model.FileResult{rewritten}, true, nil},
		{"Strict already rewritten", []model.FileResult{already}, true, nil},
		{"Strict with skips", []model.FileResult{skipped}, true, ErrSectionsSkipped},
		{"Strict nothing rewritten", []model.FileResult{empty}, true, ErrNothingRewritten},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Verify(tt.results, tt.strict)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestUnifiedDiff(t *testing.T) {
	diff, err := unifiedDiff("a.sql", "x\ny\n", "x\nz\n")
	require.NoError(t, err)
	assert.True(t, strings.Contains(diff, "-y\n") && strings.Contains(diff, "+z\n"), diff)
}

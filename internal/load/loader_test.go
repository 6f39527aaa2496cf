package load

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func repoRoot(t *testing.T) string {
	t.Helper()

	root, err := filepath.Abs(filepath.Join("..", ".."))
	require.NoError(t, err)

	return root
}

func TestLoader_Load_Examples(t *testing.T) {
	if testing.Short() {
		t.Skip("runs the go tool")
	}

	l := NewLoader("", zaptest.NewLogger(t))
	l.Dir = repoRoot(t)

	res, err := l.Load(context.Background(), "./examples/...")
	require.NoError(t, err)
	require.NoError(t, res.Diagnostics.Error())

	var names []string
	for _, f := range res.Files {
		rel, err := filepath.Rel(l.Dir, f.Filename)
		require.NoError(t, err)

		names = append(names, filepath.ToSlash(rel))
	}

	assert.Equal(t, []string{
		"examples/empty/cases_test.go",
		"examples/even/cases_test.go",
		"examples/ordered/cases_test.go",
		"examples/parallel/cases_test.go",
		"examples/propagate/cases_test.go",
	}, names)

	even := res.Files[1]
	require.Len(t, even.Generators, 1)
	assert.Equal(t, "even", even.Generators[0].Name)
	require.Len(t, even.Instances, 1)
	assert.Len(t, even.Instances[0].Entries, 3)

	var sources []string
	for _, f := range res.Sources {
		sources = append(sources, filepath.Base(f.Filename))
	}

	assert.Contains(t, sources, "even.go")
	assert.NotContains(t, sources, "cases_paramtest_test.go", "generated files are excluded by the tag")

	assert.Positive(t, res.Packages)
}

func TestLoader_Load_NoDirectives(t *testing.T) {
	if testing.Short() {
		t.Skip("runs the go tool")
	}

	l := NewLoader("", nil)
	l.Dir = repoRoot(t)

	res, err := l.Load(context.Background(), "./internal/common")
	require.NoError(t, err)
	assert.Empty(t, res.Files)
	assert.False(t, res.Diagnostics.HasErrors())
}

func TestLoader_Load_MissingPackage(t *testing.T) {
	if testing.Short() {
		t.Skip("runs the go tool")
	}

	l := NewLoader("", nil)
	l.Dir = repoRoot(t)

	_, err := l.Load(context.Background(), "./no/such/package")
	require.Error(t, err)
}

func TestNewLoader_Defaults(t *testing.T) {
	l := NewLoader("", nil)
	assert.Equal(t, "paramtest", l.Tag)
	assert.NotNil(t, l.log)

	assert.Equal(t, "custom", NewLoader("custom", nil).Tag)
}

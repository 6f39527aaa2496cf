package cli

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"paramtest-generator/internal/config"
)

func TestCheck_VerifyExamples(t *testing.T) {
	if testing.Short() {
		t.Skip("runs the go tool")
	}

	_, stderr, err := execute(t, "--dir", repoRoot(t), "check", "--verify", "./examples/...")
	require.NoError(t, err, stderr)
	assert.NotContains(t, stderr, "stale:")
	assert.NotContains(t, stderr, "error:")
}

func TestGen_DryRun(t *testing.T) {
	if testing.Short() {
		t.Skip("runs the go tool")
	}

	stdout, stderr, err := execute(t, "--dir", repoRoot(t), "gen", "--dry-run", "./examples/even")
	require.NoError(t, err, stderr)

	assert.Contains(t, stdout, "=== "+filepath.FromSlash("examples/even/cases_paramtest_test.go")+" ===\n")
	assert.Contains(t, stdout, "func TestEven(t *testing.T) {")
	assert.Contains(t, stdout, `t.Run("negative", even_negative)`)
}

func TestGen_OutDir(t *testing.T) {
	if testing.Short() {
		t.Skip("runs the go tool")
	}

	root := repoRoot(t)
	out := t.TempDir()

	_, stderr, err := execute(t, "--dir", root, "gen", "--out", out, "./examples/propagate")
	require.NoError(t, err, stderr)

	want, err := os.ReadFile(filepath.Join(root, "examples", "propagate", "cases_paramtest_test.go"))
	require.NoError(t, err)

	got, err := os.ReadFile(filepath.Join(out, "cases_paramtest_test.go"))
	require.NoError(t, err)

	assert.Equal(t, string(want), string(got))
	assert.Contains(t, stderr, "generated")
}

func TestGen_FlagOverridesPackageConfig(t *testing.T) {
	if testing.Short() {
		t.Skip("runs the go tool")
	}

	_, stderr, err := execute(t, "--dir", repoRoot(t), "gen", "--dry-run", "--propagation", "on", "./examples/even")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errDirectives))
	assert.Contains(t, stderr, "[body_results]")
	assert.Contains(t, stderr, filepath.FromSlash("examples/even/cases_test.go"))
}

func TestCheck_ConfigFlag(t *testing.T) {
	if testing.Short() {
		t.Skip("runs the go tool")
	}

	cfgPath := filepath.Join(t.TempDir(), "paramtest.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("propagation: off\n"), 0o644))

	_, stderr, err := execute(t, "--dir", repoRoot(t), "check", "--config", cfgPath, "./examples/propagate")
	require.Error(t, err)
	assert.Contains(t, stderr, "without propagation it must not return values")

	_, stderr, err = execute(t, "--dir", repoRoot(t), "check", "./examples/propagate")
	require.NoError(t, err, stderr)
}

func TestPipeline_ConfigFor(t *testing.T) {
	work := t.TempDir()
	pkg := filepath.Join(work, "pkg")
	plain := filepath.Join(work, "plain")

	require.NoError(t, os.MkdirAll(pkg, 0o755))
	require.NoError(t, os.MkdirAll(plain, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(work, config.DefaultFilename), []byte("parallel: true\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(pkg, config.DefaultFilename),
		[]byte("propagation: on\ntag: other\n"), 0o644))

	p := newPipeline(&app{dir: work, log: zap.NewNop()}, &options{}, os.Stderr)
	require.NoError(t, p.loadRootConfig())

	c, err := p.configFor(pkg)
	require.NoError(t, err)
	assert.True(t, c.Propagation.Enabled())
	assert.False(t, c.Parallel, "package config replaces the working directory's")
	assert.Equal(t, "paramtest", c.Tag, "tag always comes from the run")

	c, err = p.configFor(plain)
	require.NoError(t, err)
	assert.False(t, c.Propagation.Enabled())
	assert.True(t, c.Parallel)

	p = newPipeline(&app{dir: work, log: zap.NewNop()}, &options{
		propagation:    config.PropagationOff,
		propagationSet: true,
	}, os.Stderr)
	require.NoError(t, p.loadRootConfig())

	c, err = p.configFor(pkg)
	require.NoError(t, err)
	assert.False(t, c.Propagation.Enabled(), "flags win over files")
}

func TestConfigCommand(t *testing.T) {
	work := t.TempDir()
	pkg := filepath.Join(work, "pkg")

	require.NoError(t, os.MkdirAll(pkg, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(pkg, config.DefaultFilename), []byte("propagation: on\n"), 0o644))

	stdout, stderr, err := execute(t, "--dir", work, "config", "pkg", "--parallel")
	require.NoError(t, err, stderr)

	c, err := config.Parse([]byte(stdout))
	require.NoError(t, err, stdout)
	assert.True(t, c.Propagation.Enabled())
	assert.True(t, c.Parallel)
	assert.Equal(t, "_paramtest_test.go", c.Suffix)

	stdout, _, err = execute(t, "--dir", work, "config")
	require.NoError(t, err)

	c, err = config.Parse([]byte(stdout))
	require.NoError(t, err)
	assert.Equal(t, config.Default(), c)
}

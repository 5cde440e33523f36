package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/adrg/xdg"
	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	errUtils "github.com/cloudposse/monarch/errors"
	"github.com/cloudposse/monarch/pkg/document"
)

const (
	testHierarchy = "global:\n  - team:\n      - team/dev\n"
	testConfig    = "hierarchy: hierarchy.yaml\ndata_dir: data\nlogs:\n  level: \"Off\"\n"
	testChanges   = "source: global\nset:\n  tier: t1\n---\nsource: team/dev\nset:\n  tier: t1\n"
)

// setupProject creates a project directory, makes it the working directory and isolates
// the command from any user configuration.
func setupProject(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "xdg"))
	xdg.Reload()
	t.Setenv("MONARCH_CLI_CONFIG_PATH", "")
	t.Chdir(dir)

	for name, text := range map[string]string{
		"monarch.yaml":   testConfig,
		"hierarchy.yaml": testHierarchy,
		"changes.yaml":   testChanges,
	} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(text), 0o644))
	}
	return dir
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Cleanup(Cleanup)

	root := NewRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestVersionCmd(t *testing.T) {
	setupProject(t)

	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "monarch ")
}

func TestApplyCmd(t *testing.T) {
	dir := setupProject(t)

	_, err := run(t, "apply", "--target", "global", "changes.yaml")
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, "data", "global.yaml"))
	require.NoError(t, err)
	assert.Equal(t, document.BeginMarker+"\ntier: t1\n"+document.EndMarker+"\n", string(data))
	assert.NoFileExists(t, filepath.Join(dir, "data", "team", "dev.yaml"))
}

func TestApplyCmd_DryRun(t *testing.T) {
	dir := setupProject(t)

	out, err := run(t, "apply", "--target", "global", "--dry-run", "*.yaml")
	require.Error(t, err, "monarch.yaml and hierarchy.yaml are not change documents")

	out, err = run(t, "apply", "--target", "global", "--dry-run", "changes.yaml")
	require.NoError(t, err)
	assert.Contains(t, out, "+tier: t1")
	assert.NoFileExists(t, filepath.Join(dir, "data", "global.yaml"))
}

func TestApplyCmd_TargetFromEnv(t *testing.T) {
	dir := setupProject(t)
	t.Setenv("MONARCH_TARGET", "team")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "changes.yaml"), []byte("source: team\nset: {owner: sre}\n"), 0o644))

	_, err := run(t, "apply", "changes.yaml")
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(dir, "data", "team.yaml"))
}

func TestApplyCmd_Errors(t *testing.T) {
	setupProject(t)

	_, err := run(t, "apply")
	require.Error(t, err, "at least one change file is required")

	_, err = run(t, "apply", "changes.yaml")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errUtils.ErrMissingOption))
	assert.Equal(t, errUtils.ExitCodeUsage, errUtils.GetExitCode(err))

	_, err = run(t, "apply", "--target", "nowhere", "changes.yaml")
	assert.True(t, errors.Is(err, errUtils.ErrTargetNotFound))

	_, err = run(t, "--config", "missing.yaml", "version")
	assert.True(t, errors.Is(err, errUtils.ErrLoadConfig))
}

func TestApplyCmd_Conflict(t *testing.T) {
	dir := setupProject(t)
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "data"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "data", "team.yaml"), []byte("tier: manual\n"), 0o644))

	_, err := run(t, "apply", "--target", "global", "changes.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 conflicting sources were skipped")
	assert.Equal(t, errUtils.ExitCodeConflict, errUtils.GetExitCode(err))
}

func TestDescribeCmds(t *testing.T) {
	dir := setupProject(t)
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "data"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "data", "global.yaml"), []byte("tier: t1\n"), 0o644))

	out, err := run(t, "describe", "hierarchy", "--flat")
	require.NoError(t, err)
	assert.Equal(t, "global\nteam\nteam/dev\n", out)

	out, err = run(t, "describe", "source", "team/dev", "-f", "json")
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"tier\": \"t1\"\n}\n", out)

	out, err = run(t, "inherited", "team/dev", "tier", "t1")
	require.NoError(t, err)
	assert.Equal(t, "true\n", out)
}

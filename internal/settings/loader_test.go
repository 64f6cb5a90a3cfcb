package settings

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadReturnsDefaultsWithoutConfigFile(t *testing.T) {
	dir := t.TempDir()
	result, err := Load(dir, Overrides{})
	require.NoError(t, err)
	require.Equal(t, []string{"Runbook.md"}, result.DefaultPaths)
	require.Equal(t, []string{"shell", "sh", "bash"}, result.SpawnableLanguages)
}

func TestLoadMergesNearestConfigFile(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0o755))

	rc := "default_paths:\n  - Deploy.md\nspawnable_languages:\n  - shell\n  - python\n"
	require.NoError(t, os.WriteFile(filepath.Join(root, ".runbookrc.yaml"), []byte(rc), 0o644))

	result, err := Load(nested, Overrides{})
	require.NoError(t, err)
	require.Equal(t, []string{"Deploy.md"}, result.DefaultPaths)
	require.Equal(t, []string{"shell", "python"}, result.SpawnableLanguages)
}

func TestLoadCLIOverridesBeatConfigFile(t *testing.T) {
	dir := t.TempDir()
	rc := "default_paths:\n  - Deploy.md\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".runbookrc.yaml"), []byte(rc), 0o644))

	result, err := Load(dir, Overrides{DefaultPaths: []string{"Custom.md"}})
	require.NoError(t, err)
	require.Equal(t, []string{"Custom.md"}, result.DefaultPaths)
}

func TestLoadRejectsInvalidPartialsRepoURL(t *testing.T) {
	dir := t.TempDir()
	rc := "partials_repo: \"not a url\"\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".runbookrc.yaml"), []byte(rc), 0o644))

	_, err := Load(dir, Overrides{})
	require.Error(t, err)
}

func TestLoadColorExplicitFalseFromFileIsRespected(t *testing.T) {
	dir := t.TempDir()
	rc := "color: false\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".runbookrc.yaml"), []byte(rc), 0o644))

	result, err := Load(dir, Overrides{})
	require.NoError(t, err)
	require.False(t, result.Color)
}

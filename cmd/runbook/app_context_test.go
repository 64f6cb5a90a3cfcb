package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/alexisbeaulieu97/runbookmd/internal/runbookapp"
	"github.com/alexisbeaulieu97/runbookmd/internal/settings"
)

const cliSampleRunbook = "# Sample\n\n" +
	"```shell build\n" +
	"echo building\n" +
	"```\n\n" +
	"```shell test --dep=build\n" +
	"echo testing\n" +
	"```\n"

func writeSampleRunbook(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "Runbook.md")
	require.NoError(t, os.WriteFile(path, []byte(cliSampleRunbook), 0o644))
	return path
}

func newTestApp(s settings.RunbookSettings) *AppContext {
	return &AppContext{
		Settings: s,
		Prepare:  runbookapp.NewPrepareUseCase(nil, nil, s),
		Run:      runbookapp.NewRunUseCase(nil, nil, s),
	}
}

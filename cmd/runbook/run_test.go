package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/alexisbeaulieu97/runbookmd/internal/settings"
)

func TestRunCommandExecutesFullPlan(t *testing.T) {
	dir := t.TempDir()
	path := writeSampleRunbook(t, dir)

	root := newRootCmd(newTestApp(settings.Defaults()))
	buf := &bytes.Buffer{}
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs([]string{"run", path})

	require.NoError(t, root.Execute())
	require.Contains(t, buf.String(), "2 tasks, 0 failed, 0 unresolved")
}

func TestRunCommandVisualizeSkipsExecution(t *testing.T) {
	dir := t.TempDir()
	path := writeSampleRunbook(t, dir)

	root := newRootCmd(newTestApp(settings.Defaults()))
	buf := &bytes.Buffer{}
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs([]string{"run", "--visualize", "mermaid-js", path})

	require.NoError(t, root.Execute())

	out := buf.String()
	require.Contains(t, out, "graph TD")
	require.NotContains(t, out, "tasks, 0 failed")
}

func TestRunCommandRejectsUnknownVisualizeMode(t *testing.T) {
	dir := t.TempDir()
	path := writeSampleRunbook(t, dir)

	root := newRootCmd(newTestApp(settings.Defaults()))
	buf := &bytes.Buffer{}
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs([]string{"run", "--visualize", "bogus", path})

	err := root.Execute()
	require.Error(t, err)
	require.Contains(t, err.Error(), "bogus")
}

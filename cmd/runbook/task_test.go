package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/alexisbeaulieu97/runbookmd/internal/settings"
)

func TestTaskCommandRunsTargetAndAncestors(t *testing.T) {
	dir := t.TempDir()
	path := writeSampleRunbook(t, dir)

	root := newRootCmd(newTestApp(settings.Defaults()))
	buf := &bytes.Buffer{}
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs([]string{"task", "test", path})

	require.NoError(t, root.Execute())

	out := buf.String()
	require.Contains(t, out, "build")
	require.Contains(t, out, "test")
	require.Contains(t, out, "2 tasks, 0 failed")
}

func TestTaskCommandUnknownTaskErrors(t *testing.T) {
	dir := t.TempDir()
	path := writeSampleRunbook(t, dir)

	root := newRootCmd(newTestApp(settings.Defaults()))
	buf := &bytes.Buffer{}
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs([]string{"task", "does-not-exist", path})

	err := root.Execute()
	require.Error(t, err)
	require.Contains(t, err.Error(), "does-not-exist")
}

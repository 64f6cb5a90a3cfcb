package runbookexec

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAutoDispatchesLineRunner(t *testing.T) {
	result, err := Auto(context.Background(), "echo one\necho two", nil, "")
	require.NoError(t, err)
	require.Nil(t, result.Shebang)
	require.Len(t, result.Lines, 2)
	require.Equal(t, "one\n", result.Lines[0].Stdout)
	require.Equal(t, "two\n", result.Lines[1].Stdout)
}

func TestAutoDispatchesShebang(t *testing.T) {
	source := "#!/bin/sh\necho shebang-ran\n"
	result, err := Auto(context.Background(), source, nil, "")
	require.NoError(t, err)
	require.NotNil(t, result.Shebang)
	require.Equal(t, "shebang-ran\n", result.Shebang.Stdout)
	require.Equal(t, 0, result.Shebang.ExitCode)
}

func TestAutoPropagatesNonZeroExit(t *testing.T) {
	result, err := Auto(context.Background(), "exit 3", nil, "")
	require.NoError(t, err)
	require.Len(t, result.Lines, 1)
	require.Equal(t, 3, result.Lines[0].ExitCode)
}

func TestNonEmptyLinesSkipsBlank(t *testing.T) {
	lines := nonEmptyLines("a\n\nb\n   \nc")
	require.Equal(t, []string{"a", "b", "c"}, lines)
}

package errors

import (
	stdErrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFenceIssueErrorWrapsUnderlying(t *testing.T) {
	t.Parallel()

	underlying := fmt.Errorf("unknown fence language")
	err := NewFenceIssueError("Runbook.md", 12, 15, underlying)

	var fenceErr *FenceIssueError
	require.ErrorAs(t, err, &fenceErr)
	require.Equal(t, "Runbook.md", fenceErr.Provenance)
	require.Equal(t, 12, fenceErr.StartLine)
	require.Equal(t, 15, fenceErr.EndLine)
	require.True(t, stdErrors.Is(err, underlying))
	require.Contains(t, err.Error(), "Runbook.md")
}

func TestFrontmatterParseErrorIncludesPath(t *testing.T) {
	t.Parallel()

	underlying := stdErrors.New("missing required field: title")
	err := NewFrontmatterParseError("onboarding.md", underlying)

	var frontmatterErr *FrontmatterParseError
	require.ErrorAs(t, err, &frontmatterErr)
	require.Equal(t, "onboarding.md", frontmatterErr.Path)
	require.True(t, stdErrors.Is(err, underlying))
}

func TestAttrsParseErrorCarriesRawText(t *testing.T) {
	t.Parallel()

	underlying := stdErrors.New("unexpected token '}'")
	err := NewAttrsParseError("Runbook.md:20", "{timeout: 30,}", underlying)

	var attrsErr *AttrsParseError
	require.ErrorAs(t, err, &attrsErr)
	require.Equal(t, "{timeout: 30,}", attrsErr.Raw)
	require.True(t, stdErrors.Is(err, underlying))
}

func TestPartialArgsInvalidErrorIncludesPartialName(t *testing.T) {
	t.Parallel()

	underlying := stdErrors.New("locals.title is required")
	err := NewPartialArgsInvalidError("callout", underlying)

	var partialErr *PartialArgsInvalidError
	require.ErrorAs(t, err, &partialErr)
	require.Equal(t, "callout", partialErr.Partial)
	require.True(t, stdErrors.Is(err, underlying))
}

func TestInjectableRenderFailedErrorIncludesInjectableName(t *testing.T) {
	t.Parallel()

	underlying := stdErrors.New("wrapper threw")
	err := NewInjectableRenderFailedError("banner", underlying)

	var injectableErr *InjectableRenderFailedError
	require.ErrorAs(t, err, &injectableErr)
	require.Equal(t, "banner", injectableErr.Injectable)
	require.True(t, stdErrors.Is(err, underlying))
}

func TestInterpFailedErrorIncludesTaskContext(t *testing.T) {
	t.Parallel()

	underlying := stdErrors.New("undefined: captured.missing")
	err := NewInterpFailedError("deploy", underlying)

	var interpErr *InterpFailedError
	require.ErrorAs(t, err, &interpErr)
	require.Equal(t, "deploy", interpErr.TaskID)
	require.True(t, stdErrors.Is(err, underlying))
}

func TestTaskRunThrewErrorIncludesTaskContext(t *testing.T) {
	t.Parallel()

	underlying := stdErrors.New("exit status 1")
	err := NewTaskRunThrewError("install_deps", underlying)

	var runErr *TaskRunThrewError
	require.ErrorAs(t, err, &runErr)
	require.Equal(t, "install_deps", runErr.TaskID)
	require.True(t, stdErrors.Is(err, underlying))
}

func TestRegexInvalidErrorIncludesPattern(t *testing.T) {
	t.Parallel()

	underlying := stdErrors.New("missing closing paren")
	err := NewRegexInvalidError("run (.*", underlying)

	var regexErr *RegexInvalidError
	require.ErrorAs(t, err, &regexErr)
	require.Equal(t, "run (.*", regexErr.Pattern)
	require.True(t, stdErrors.Is(err, underlying))
}

func TestUnresolvedErrorListsTaskIDs(t *testing.T) {
	t.Parallel()

	err := NewUnresolvedError([]string{"a", "b"})

	var unresolvedErr *UnresolvedError
	require.ErrorAs(t, err, &unresolvedErr)
	require.Equal(t, []string{"a", "b"}, unresolvedErr.TaskIDs)
	require.Contains(t, err.Error(), "a")
}

func TestMissingDepErrorIncludesTaskAndDep(t *testing.T) {
	t.Parallel()

	err := NewMissingDepError("leaf", "ghost")

	var missingErr *MissingDepError
	require.ErrorAs(t, err, &missingErr)
	require.Equal(t, "leaf", missingErr.TaskID)
	require.Equal(t, "ghost", missingErr.Dep)
}

package markdown

import (
	"testing"

	"github.com/stretchr/testify/require"
)

const sampleDoc = `# Deploy

Some narrative text.

` + "```shell build --dep=fetch\necho hi\n```" + `

## Cleanup

` + "```sql PARTIAL footer\n-- bye\n```"

func TestParseExtractsFencesInOrder(t *testing.T) {
	doc, err := Parse("Runbook.md", []byte(sampleDoc))
	require.NoError(t, err)
	require.Len(t, doc.Fences, 2)

	first := doc.Fences[0]
	require.Equal(t, "shell", first.Language)
	require.Equal(t, "shell build --dep=fetch", first.Info)
	require.Equal(t, "echo hi\n", first.Body)
	require.Equal(t, "Deploy", first.Heading)
	require.Positive(t, first.StartLine)

	second := doc.Fences[1]
	require.Equal(t, "sql", second.Language)
	require.Equal(t, "Cleanup", second.Heading)
}

func TestParseEmptyDocument(t *testing.T) {
	doc, err := Parse("Empty.md", []byte(""))
	require.NoError(t, err)
	require.Empty(t, doc.Fences)
}

func TestLanguageFromInfoHandlesBareLanguage(t *testing.T) {
	require.Equal(t, "shell", languageFromInfo("shell"))
	require.Equal(t, "shell", languageFromInfo("shell build"))
	require.Equal(t, "", languageFromInfo(""))
}

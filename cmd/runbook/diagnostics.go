package main

import (
	"fmt"
	"io"

	"github.com/alexisbeaulieu97/runbookmd/internal/runbookapp"
)

// printDiagnostics surfaces any fence issues or invalid implicit-dep regexes
// recorded while preparing a plan, without failing the command — they are
// structural warnings, not execution failures.
func printDiagnostics(w io.Writer, prepared *runbookapp.Prepared) {
	for _, issue := range prepared.Issues {
		fmt.Fprintf(w, "warning: %s:%d: %s\n", issue.Provenance, issue.StartLine, issue.Message)
	}
	for _, issue := range prepared.RegexIssues {
		fmt.Fprintf(w, "warning: %s: invalid dependency pattern %q: %v\n", issue.TaskID, issue.Pattern, issue.Err)
	}
}

package main

import (
	"fmt"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/alexisbeaulieu97/runbookmd/internal/directive"
)

func newLsCmd(app *AppContext, root *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ls [paths...]",
		Short: "List tasks discovered in one or more runbook files",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLs(cmd, app, args)
		},
	}
	return cmd
}

func runLs(cmd *cobra.Command, app *AppContext, paths []string) error {
	ctx, logger := app.CommandContext(cmd, "ls")

	prepared, err := app.Prepare.Prepare(ctx, paths)
	if err != nil {
		return err
	}
	if logger != nil {
		logger.Debug(ctx, "listing tasks", "task_count", len(prepared.Tasks))
	}
	printDiagnostics(cmd.ErrOrStderr(), prepared)

	writer := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(writer, "ID\tDEPS\tFLAGS\tDESCRIPTION\tENGINE\tORIGIN")

	sorted := append([]*directive.TaskCell(nil), prepared.Tasks...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].TaskID() < sorted[j].TaskID() })

	for _, task := range sorted {
		deps := strings.Join(task.ExplicitDeps(), ",")
		if deps == "" {
			deps = "-"
		}
		fmt.Fprintf(writer, "%s\t%s\t%s\t%s\t%s\t%s:%d\n",
			task.TaskID(),
			deps,
			flagSummary(task),
			taskDescription(task),
			task.Cell.Language,
			task.Cell.Provenance,
			task.Cell.StartLine,
		)
	}

	return writer.Flush()
}

// taskDescription prefers an explicit --desc flag over the fence's nearest
// preceding heading, falling back to "-" when neither is present.
func taskDescription(task *directive.TaskCell) string {
	if desc, ok := task.Cell.Info.GetFlag("desc"); ok {
		return desc
	}
	if task.Cell.Heading != "" {
		return task.Cell.Heading
	}
	return "-"
}

func flagSummary(task *directive.TaskCell) string {
	if len(task.Cell.Info.Flags) == 0 {
		return "-"
	}
	names := make([]string, 0, len(task.Cell.Info.Flags))
	for name := range task.Cell.Info.Flags {
		names = append(names, name)
	}
	sort.Strings(names)
	return strings.Join(names, ",")
}

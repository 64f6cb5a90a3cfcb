package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alexisbeaulieu97/runbookmd/internal/plan"
	"github.com/alexisbeaulieu97/runbookmd/internal/runbookexec"
)

type taskOptions struct {
	verbose   string
	summarize bool
}

func newTaskCmd(app *AppContext, root *rootFlags) *cobra.Command {
	opts := &taskOptions{}

	cmd := &cobra.Command{
		Use:   "task <taskId> [paths...]",
		Short: "Run taskId and its ancestors",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTask(cmd, app, root, opts, args[0], args[1:])
		},
	}

	cmd.Flags().StringVar(&opts.verbose, "verbose", "plain", "Output style: plain, rich, or markdown")
	cmd.Flags().BoolVar(&opts.summarize, "summarize", false, "Print only the final totals")

	return cmd
}

func runTask(cmd *cobra.Command, app *AppContext, root *rootFlags, opts *taskOptions, taskID string, paths []string) error {
	mode, err := parseVerboseMode(opts.verbose)
	if err != nil {
		return err
	}

	ctx, logger := app.CommandContext(cmd, "task")

	prepared, err := app.Prepare.Prepare(ctx, paths)
	if err != nil {
		return err
	}
	printDiagnostics(cmd.ErrOrStderr(), prepared)

	sub := plan.Subplan(prepared.Plan, []string{taskID})
	if _, ok := sub.ByID[taskID]; !ok {
		return fmt.Errorf("task %q not found", taskID)
	}

	interpolator := runbookexec.NewInterpolator(prepared.Registry)
	sections, runErr := app.Run.RunPlan(ctx, sub, interpolator)

	if !opts.summarize {
		if err := renderSections(cmd.OutOrStdout(), sections, mode, app.Settings.Color && !root.noColor); err != nil {
			return err
		}
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%d tasks, %d failed\n", len(sections), countFailed(sections))

	if logger != nil {
		logger.Debug(ctx, "task run complete", "task_id", taskID, "section_count", len(sections))
	}

	if runErr != nil {
		return runErr
	}
	if countFailed(sections) > 0 {
		return fmt.Errorf("task %q failed", taskID)
	}
	return nil
}

func countFailed(sections []runbookexec.SectionFrame) int {
	n := 0
	for _, s := range sections {
		if !s.Result.Success {
			n++
		}
	}
	return n
}

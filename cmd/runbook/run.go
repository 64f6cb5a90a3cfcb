package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alexisbeaulieu97/runbookmd/internal/runbookapp"
	"github.com/alexisbeaulieu97/runbookmd/internal/runbookexec"
)

type runOptions struct {
	verbose   string
	summarize bool
	visualize string
}

func newRunCmd(app *AppContext, root *rootFlags) *cobra.Command {
	opts := &runOptions{}

	cmd := &cobra.Command{
		Use:   "run [paths...]",
		Short: "Run the full DAG, or print a visualization",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRun(cmd, app, root, opts, args)
		},
	}

	cmd.Flags().StringVar(&opts.verbose, "verbose", "plain", "Output style: plain, rich, or markdown")
	cmd.Flags().BoolVar(&opts.summarize, "summarize", false, "Print only the final totals")
	cmd.Flags().StringVar(&opts.visualize, "visualize", "", "Print a visualization instead of running: ascii-tree, ascii-workflow, ascii-flowchart, mermaid-js")

	return cmd
}

func runRun(cmd *cobra.Command, app *AppContext, root *rootFlags, opts *runOptions, paths []string) error {
	visualize, err := parseVisualizeMode(opts.visualize)
	if err != nil {
		return err
	}
	mode, err := parseVerboseMode(opts.verbose)
	if err != nil {
		return err
	}

	ctx, logger := app.CommandContext(cmd, "run")

	prepared, err := app.Prepare.Prepare(ctx, paths)
	if err != nil {
		return err
	}
	printDiagnostics(cmd.ErrOrStderr(), prepared)

	if visualize != visualizeNone {
		fmt.Fprint(cmd.OutOrStdout(), renderVisualization(visualize, prepared))
		return nil
	}

	interpolator := runbookexec.NewInterpolator(prepared.Registry)
	sections, runErr := app.Run.RunPlan(ctx, prepared.Plan, interpolator)

	if !opts.summarize {
		if err := renderSections(cmd.OutOrStdout(), sections, mode, app.Settings.Color && !root.noColor); err != nil {
			return err
		}
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%d tasks, %d failed, %d unresolved\n",
		len(sections), countFailed(sections), len(prepared.Plan.Unresolved))

	if logger != nil {
		logger.Debug(ctx, "run complete", "section_count", len(sections), "unresolved", len(prepared.Plan.Unresolved))
	}

	if runErr != nil {
		return runErr
	}
	if countFailed(sections) > 0 {
		return fmt.Errorf("run failed: %d task(s) did not succeed", countFailed(sections))
	}
	return nil
}

func renderVisualization(mode visualizeMode, prepared *runbookapp.Prepared) string {
	switch mode {
	case visualizeASCIITree:
		return runbookapp.ASCIITree(prepared.Plan)
	case visualizeASCIIWorkflow:
		return runbookapp.ASCIIWorkflow(prepared.Plan)
	case visualizeASCIIFlow:
		return runbookapp.ASCIIFlowchart(prepared.Plan)
	case visualizeMermaid:
		return runbookapp.MermaidJS(prepared.Plan)
	default:
		return ""
	}
}

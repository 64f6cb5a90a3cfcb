package main

import (
	"github.com/spf13/cobra"
)

type rootFlags struct {
	noColor bool
}

func newRootCmd(app *AppContext) *cobra.Command {
	flags := &rootFlags{}

	cmd := &cobra.Command{
		Use:           "runbook",
		Short:         "runbook executes Markdown-driven runbooks as dependency-ordered task DAGs",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().BoolVar(&flags.noColor, "no-color", false, "Disable styled output")

	cmd.AddCommand(newLsCmd(app, flags))
	cmd.AddCommand(newTaskCmd(app, flags))
	cmd.AddCommand(newRunCmd(app, flags))
	cmd.AddCommand(newMdastCmd())
	cmd.AddCommand(newVersionCmd())

	return cmd
}

package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// newMdastCmd is a passthrough stub: Markdown AST tooling is delegated to an
// external tool, out of this engine's core scope.
func newMdastCmd() *cobra.Command {
	return &cobra.Command{
		Use:                "mdast -- [args...]",
		Short:              "Delegate to an external Markdown AST tool (out of core scope)",
		DisableFlagParsing: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return fmt.Errorf("mdast is a passthrough stub; wire it to an external AST tool before use")
		},
	}
}

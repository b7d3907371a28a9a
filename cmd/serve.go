package cmd

import (
	"github.com/spf13/cobra"

	"github.com/ksnll/mithrilforge/internal/bootstrap"
)

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and the enrichment pipelines",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return bootstrap.Start(cmd.Context(), options())
		},
	}
}

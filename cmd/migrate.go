package cmd

import (
	"github.com/spf13/cobra"

	"github.com/ksnll/mithrilforge/internal/database"
)

func newMigrateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply or roll back database migrations",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply all pending migrations",
			RunE: func(cmd *cobra.Command, _ []string) error {
				deps, err := newCommandDeps(cmd.Context())
				if err != nil {
					return err
				}
				defer deps.Close()
				return database.MigrateUp(cmd.Context(), deps.DB.DB, deps.Logger)
			},
		},
		&cobra.Command{
			Use:   "down",
			Short: "Roll back every migration",
			RunE: func(cmd *cobra.Command, _ []string) error {
				deps, err := newCommandDeps(cmd.Context())
				if err != nil {
					return err
				}
				defer deps.Close()
				return database.MigrateDown(cmd.Context(), deps.DB.DB, deps.Logger)
			},
		},
	)
	return cmd
}

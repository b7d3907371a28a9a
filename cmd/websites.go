package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/ksnll/mithrilforge/internal/models"
	"github.com/ksnll/mithrilforge/internal/repository"
)

// websiteLister is the read side of the website repository.
type websiteLister interface {
	List(ctx context.Context) ([]models.Website, error)
}

func newWebsitesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "websites",
		Short: "Inspect tracked websites",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List tracked websites and their enrichment",
		RunE: func(cmd *cobra.Command, _ []string) error {
			deps, err := newCommandDeps(cmd.Context())
			if err != nil {
				return err
			}
			defer deps.Close()

			repo := repository.NewWebsiteRepository(deps.DB, deps.Logger)
			return listWebsites(cmd.Context(), repo, cmd.OutOrStdout())
		},
	})
	return cmd
}

func listWebsites(ctx context.Context, lister websiteLister, out io.Writer) error {
	websites, err := lister.List(ctx)
	if err != nil {
		return fmt.Errorf("list websites: %w", err)
	}
	if len(websites) == 0 {
		_, err = fmt.Fprintln(out, "No websites tracked")
		return err
	}

	renderWebsites(out, websites)
	return nil
}

// renderWebsites writes websites as a table.
func renderWebsites(out io.Writer, websites []models.Website) {
	t := table.NewWriter()
	t.SetOutputMirror(out)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"ID", "Source", "Contact name", "Contact email", "Generated"})

	for i := range websites {
		w := &websites[i]
		t.AppendRow(table.Row{
			w.ID,
			w.SourceAddress,
			deref(w.ContactName),
			deref(w.ContactEmail),
			deref(w.GeneratedWebsiteLink),
		})
	}
	t.AppendFooter(table.Row{"", fmt.Sprintf("%d websites", len(websites))})
	t.Render()
}

func deref(s *string) string {
	if s == nil {
		return "-"
	}
	return *s
}

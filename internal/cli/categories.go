package cli

import (
	"tareas-cli/internal/mutate"

	"github.com/spf13/cobra"
)

func newCategoriesCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "categories",
		Short: "Reference data: task categories",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List categories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, client, err := requireSession(app)
			if err != nil {
				return err
			}
			res, err := mutate.LoadCategories(cmd.Context(), client)
			if err != nil {
				return err
			}
			return writeOut(cmd, app, res.Categories)
		},
	})
	return cmd
}

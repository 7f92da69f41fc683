package cli

import (
	"fmt"
	"os"
	"strings"

	"tareas-cli/internal/api"
	"tareas-cli/internal/format"
	"tareas-cli/internal/session"
	"tareas-cli/internal/tui"

	"github.com/spf13/cobra"
)

type App struct {
	BaseURL    string
	PrettyJSON bool
	AssumeYes  bool
}

func NewRootCmd() *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:          "tareas",
		Short:        "Terminal client for the Tareas task API",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Start the interactive TUI
  tareas

  # Scriptable commands
  tareas login ana@example.com
  tareas tasks list --pending --sort due_date
  tareas tasks add "Buy milk" --due 2026-09-05
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			// No subcommand => interactive TUI.
			if cmd.HasSubCommands() && len(args) == 0 {
				return runTUI(app)
			}
			return cmd.Help()
		},
	}

	cmd.PersistentFlags().StringVar(&app.BaseURL, "base-url", envOr("TAREAS_API_URL", api.DefaultBaseURL), "API base origin")
	cmd.PersistentFlags().BoolVar(&app.PrettyJSON, "pretty", false, "Pretty-print JSON output")
	cmd.PersistentFlags().BoolVarP(&app.AssumeYes, "yes", "y", false, "Assume yes for confirmation prompts")

	cmd.AddCommand(newLoginCmd(app))
	cmd.AddCommand(newLogoutCmd(app))
	cmd.AddCommand(newWhoamiCmd(app))
	cmd.AddCommand(newTasksCmd(app))
	cmd.AddCommand(newSubtasksCmd(app))
	cmd.AddCommand(newCategoriesCmd(app))
	cmd.AddCommand(newDocsCmd(app))

	return cmd
}

func runTUI(app *App) error {
	sessions, client, err := connect(app)
	if err != nil {
		return err
	}
	return tui.Run(sessions, client)
}

// connect restores the persisted session and builds the API client with
// it injected. The restore never fails on a missing or corrupt file; the
// result is simply an anonymous session.
func connect(app *App) (*session.Store, *api.Client, error) {
	sessions := session.NewStore()
	if err := sessions.Restore(); err != nil {
		return nil, nil, fmt.Errorf("restore session: %w", err)
	}
	return sessions, api.NewClient(app.BaseURL, sessions), nil
}

// requireSession is like connect but refuses to proceed anonymously.
func requireSession(app *App) (*session.Store, *api.Client, error) {
	sessions, client, err := connect(app)
	if err != nil {
		return nil, nil, err
	}
	if !sessions.Current().Authenticated() {
		return nil, nil, fmt.Errorf("not logged in; run `tareas login <email>`")
	}
	return sessions, client, nil
}

func envOr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func writeOut(cmd *cobra.Command, app *App, v any) error {
	return format.WriteJSON(cmd.OutOrStdout(), v, app.PrettyJSON)
}

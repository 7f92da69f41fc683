package cli

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func newLoginCmd(app *App) *cobra.Command {
	var password string

	cmd := &cobra.Command{
		Use:   "login <email>",
		Short: "Authenticate and store the API token",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			email := strings.TrimSpace(args[0])
			if email == "" {
				return errors.New("email is required")
			}

			if password == "" {
				pw, err := readPassword(cmd)
				if err != nil {
					return err
				}
				password = pw
			}

			sessions, client, err := connect(app)
			if err != nil {
				return err
			}
			token, tokenEmail, err := client.Login(cmd.Context(), email, password)
			if err != nil {
				return err
			}
			if tokenEmail == "" {
				tokenEmail = email
			}
			if err := sessions.Login(token, tokenEmail); err != nil {
				return fmt.Errorf("persist session: %w", err)
			}
			return writeOut(cmd, app, map[string]any{"email": tokenEmail, "ok": true})
		},
	}

	cmd.Flags().StringVar(&password, "password", "", "Password (prompted when omitted)")
	return cmd
}

func readPassword(cmd *cobra.Command) (string, error) {
	fmt.Fprint(cmd.ErrOrStderr(), "Password: ")
	if f, ok := cmd.InOrStdin().(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		b, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(cmd.ErrOrStderr())
		if err != nil {
			return "", err
		}
		return string(b), nil
	}
	// Piped input (tests, scripts): read one line.
	line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func newLogoutCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Clear the stored session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sessions, _, err := connect(app)
			if err != nil {
				return err
			}
			if err := sessions.Logout(); err != nil {
				return err
			}
			return writeOut(cmd, app, map[string]any{"ok": true})
		},
	}
}

func newWhoamiCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the current session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sessions, _, err := connect(app)
			if err != nil {
				return err
			}
			s := sessions.Current()
			return writeOut(cmd, app, map[string]any{
				"authenticated": s.Authenticated(),
				"email":         s.Email,
			})
		},
	}
}

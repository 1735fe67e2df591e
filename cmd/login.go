package cmd

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/soiltwin/soiltwin-cli/internal/domain"
)

func newLoginCmd(app *app) *cobra.Command {
	var username string
	var password string
	var passwordStdin bool

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in to the SoilTwin backend",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if passwordStdin {
				read, err := readLine(cmd.InOrStdin())
				if err != nil {
					return fmt.Errorf("read password from stdin: %w", err)
				}
				password = read
			}

			ctx := cmd.Context()
			app.sessions.Restore(ctx)

			err := runSpinner(ctx, cmd.ErrOrStderr(), "Signing in...", func(ctx context.Context) error {
				return app.sessions.Login(ctx, username, password)
			})
			if err != nil {
				return err
			}

			identity, _ := app.sessions.Identity()
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s\n", identityLabel(identity))
			return err
		},
	}

	cmd.Flags().StringVarP(&username, "username", "u", "", "Username")
	cmd.Flags().StringVarP(&password, "password", "p", "", "Password")
	cmd.Flags().BoolVar(&passwordStdin, "password-stdin", false, "Read the password from stdin")
	_ = cmd.MarkFlagRequired("username")
	cmd.MarkFlagsMutuallyExclusive("password", "password-stdin")
	cmd.MarkFlagsOneRequired("password", "password-stdin")

	return cmd
}

func newLogoutCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			app.sessions.Restore(ctx)
			app.sessions.Logout(ctx)

			_, err := fmt.Fprintln(cmd.OutOrStdout(), "Logged out")
			return err
		},
	}
}

func newWhoamiCmd(app *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := requireSession(cmd, app); err != nil {
				return err
			}

			identity, _ := app.sessions.Identity()
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), identity)
			}
			_, err := fmt.Fprintln(cmd.OutOrStdout(), identityLabel(identity))
			return err
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Render JSON output")

	return cmd
}

// requireSession restores the durable session and refuses to continue
// without one.
func requireSession(cmd *cobra.Command, app *app) error {
	app.sessions.Restore(cmd.Context())
	if !app.sessions.IsAuthenticated() {
		return fmt.Errorf("%w: run `st login` first", domain.ErrNotAuthenticated)
	}
	return nil
}

func identityLabel(identity domain.Identity) string {
	return fmt.Sprintf("%s (%s)", identity.Username, identity.Role)
}

func readLine(r io.Reader) (string, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && err != io.EOF {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeJSONLine(w io.Writer, v any) error {
	return json.NewEncoder(w).Encode(v)
}

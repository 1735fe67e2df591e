package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/soiltwin/soiltwin-cli/internal/domain"
)

func newAskCmd(app *app) *cobra.Command {
	var language string
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "ask <question>",
		Short: "Ask the soil advisory assistant",
		Args:  cobra.MinimumNArgs(1),
		RunE: protected(app, func(cmd *cobra.Command, args []string) error {
			question := strings.Join(args, " ")

			var answer domain.Answer
			err := runSpinner(cmd.Context(), cmd.ErrOrStderr(), "Thinking...", func(ctx context.Context) error {
				var err error
				answer, err = app.client.Ask(ctx, question, language)
				return err
			})
			if err != nil {
				return fmt.Errorf("ask advisor: %w", err)
			}

			if asJSON {
				return writeJSON(cmd.OutOrStdout(), answer)
			}
			if _, err := fmt.Fprintln(cmd.OutOrStdout(), answer.Answer); err != nil {
				return err
			}
			if answer.CostSaving != "" {
				_, err = fmt.Fprintf(cmd.OutOrStdout(), "\nestimated saving: %s\n", answer.CostSaving)
			}
			return err
		}),
	}

	cmd.Flags().StringVarP(&language, "language", "l", "en", "Answer language (en, hi, pa, ...)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Render JSON output")

	return cmd
}

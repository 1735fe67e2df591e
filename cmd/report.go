package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/soiltwin/soiltwin-cli/internal/domain"
)

func newReportCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Manage soil health card reports",
	}

	cmd.AddCommand(newReportUploadCmd(app))

	return cmd
}

func newReportUploadCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "upload <file>",
		Short: "Upload a soil report (PDF or image) for extraction",
		Args:  cobra.ExactArgs(1),
		RunE: protected(app, func(cmd *cobra.Command, args []string) error {
			file, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("open soil report: %w", err)
			}
			defer file.Close()

			var receipt domain.UploadReceipt
			err = runSpinner(cmd.Context(), cmd.ErrOrStderr(), "Uploading report...", func(ctx context.Context) error {
				var err error
				receipt, err = app.client.UploadSoilReport(ctx, filepath.Base(args[0]), file)
				return err
			})
			if err != nil {
				return fmt.Errorf("upload soil report: %w", err)
			}

			message := receipt.Message
			if message == "" {
				message = "Report uploaded"
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), message)
			return err
		}),
	}
}

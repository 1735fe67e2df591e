package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

func newOpenDataCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "ogd <resource-id>",
		Short: "Fetch an Open Government Data resource through the backend proxy",
		Args:  cobra.ExactArgs(1),
		RunE: protected(app, func(cmd *cobra.Command, args []string) error {
			raw, err := app.client.OpenData(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("fetch open data %s: %w", args[0], err)
			}

			var pretty bytes.Buffer
			if err := json.Indent(&pretty, raw, "", "  "); err != nil {
				return fmt.Errorf("decode open data %s: %w", args[0], err)
			}
			pretty.WriteByte('\n')

			_, err = pretty.WriteTo(cmd.OutOrStdout())
			return err
		}),
	}
}

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	dashboardadapter "github.com/soiltwin/soiltwin-cli/internal/adapters/render/dashboard"
)

func newWeatherCmd(app *app) *cobra.Command {
	var location string
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "weather",
		Short: "Show current weather and its soil impact",
		Args:  cobra.NoArgs,
		RunE: protected(app, func(cmd *cobra.Command, _ []string) error {
			weather, err := app.client.Weather(cmd.Context(), location)
			if err != nil {
				return fmt.Errorf("fetch weather: %w", err)
			}

			if asJSON {
				return writeJSON(cmd.OutOrStdout(), weather)
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), dashboardadapter.WeatherPanel(weather))
			return err
		}),
	}

	cmd.Flags().StringVar(&location, "location", app.cfg.WeatherLocation, "City,country code")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Render JSON output")

	return cmd
}

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/soiltwin/soiltwin-cli/internal/domain"
)

func newProfileCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Show or edit the farm profile",
	}

	cmd.AddCommand(newProfileShowCmd(app), newProfileSetCmd(app))

	return cmd
}

func newProfileShowCmd(app *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show the farm profile",
		Args:  cobra.NoArgs,
		RunE: protected(app, func(cmd *cobra.Command, _ []string) error {
			envelope, err := app.client.Profile(cmd.Context())
			if err != nil {
				return fmt.Errorf("fetch profile: %w", err)
			}
			if !envelope.Found() {
				_, err = fmt.Fprintln(cmd.OutOrStdout(), "No farm profile yet. Create one with `st profile set`.")
				return err
			}

			if asJSON {
				return writeJSON(cmd.OutOrStdout(), envelope.Data)
			}
			return writeProfile(cmd, *envelope.Data)
		}),
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Render JSON output")

	return cmd
}

func newProfileSetCmd(app *app) *cobra.Command {
	var input domain.Profile

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Create or update the farm profile",
		Long:  "set starts from the stored profile (or the default soil card values) and overrides the fields given as flags.",
		Args:  cobra.NoArgs,
		RunE: protected(app, func(cmd *cobra.Command, _ []string) error {
			envelope, err := app.client.Profile(cmd.Context())
			if err != nil {
				return fmt.Errorf("fetch profile: %w", err)
			}

			profile := domain.DefaultProfile()
			if envelope.Found() {
				profile = *envelope.Data
			}
			applyProfileFlags(cmd.Flags(), &profile, input)

			if err := app.client.SaveProfile(cmd.Context(), profile); err != nil {
				return fmt.Errorf("save profile: %w", err)
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), "Profile saved")
			return err
		}),
	}

	flags := cmd.Flags()
	flags.StringVar(&input.Name, "name", "", "Farm name")
	flags.StringVar(&input.Location, "location", "", "Farm location")
	flags.Float64Var(&input.LandSize, "land-size", 0, "Land size in acres")
	flags.StringVar(&input.Crop, "crop", "", "Current crop")
	flags.Float64Var(&input.Nitrogen, "nitrogen", 0, "Nitrogen (kg/ha)")
	flags.Float64Var(&input.Phosphorus, "phosphorus", 0, "Phosphorus (kg/ha)")
	flags.Float64Var(&input.Potassium, "potassium", 0, "Potassium (kg/ha)")
	flags.Float64Var(&input.Moisture, "moisture", 0, "Moisture (%)")
	flags.Float64Var(&input.PH, "ph", 0, "Soil pH")
	flags.Float64Var(&input.OrganicCarbon, "organic-carbon", 0, "Organic carbon (%)")

	return cmd
}

func applyProfileFlags(flags *pflag.FlagSet, profile *domain.Profile, input domain.Profile) {
	if flags.Changed("name") {
		profile.Name = input.Name
	}
	if flags.Changed("location") {
		profile.Location = input.Location
	}
	if flags.Changed("land-size") {
		profile.LandSize = input.LandSize
	}
	if flags.Changed("crop") {
		profile.Crop = input.Crop
	}
	if flags.Changed("nitrogen") {
		profile.Nitrogen = input.Nitrogen
	}
	if flags.Changed("phosphorus") {
		profile.Phosphorus = input.Phosphorus
	}
	if flags.Changed("potassium") {
		profile.Potassium = input.Potassium
	}
	if flags.Changed("moisture") {
		profile.Moisture = input.Moisture
	}
	if flags.Changed("ph") {
		profile.PH = input.PH
	}
	if flags.Changed("organic-carbon") {
		profile.OrganicCarbon = input.OrganicCarbon
	}
}

func writeProfile(cmd *cobra.Command, profile domain.Profile) error {
	_, err := fmt.Fprintf(cmd.OutOrStdout(),
		"name:           %s\nlocation:       %s\nland size:      %.2f acres\ncrop:           %s\nnitrogen:       %.1f kg/ha\nphosphorus:     %.1f kg/ha\npotassium:      %.1f kg/ha\nmoisture:       %.1f %%\nph:             %.2f\norganic carbon: %.2f %%\n",
		profile.Name, profile.Location, profile.LandSize, profile.Crop,
		profile.Nitrogen, profile.Phosphorus, profile.Potassium,
		profile.Moisture, profile.PH, profile.OrganicCarbon,
	)
	return err
}

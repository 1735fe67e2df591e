package cmd

import (
	"context"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
)

func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	return execute(ctx, newRootCmd)
}

// execute releases the wired app after the command returns, including on
// error paths where cobra skips the post-run hooks.
func execute(ctx context.Context, build func() (*cobra.Command, func())) error {
	rootCmd, closeApp := build()
	defer closeApp()

	return rootCmd.ExecuteContext(ctx)
}

func newRootCmd() (*cobra.Command, func()) {
	rootCmd := &cobra.Command{
		Use:           "st",
		Short:         "SoilTwin CLI (st): watch and steer your soil digital twin",
		Long:          "st (SoilTwin CLI) signs you in to a SoilTwin backend, streams the live soil dashboard, injects simulation events and queries the advisory assistant from the terminal.",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	app, err := wireApp()
	if err != nil {
		rootCmd.RunE = func(_ *cobra.Command, _ []string) error {
			return err
		}
		return rootCmd, func() {}
	}

	rootCmd.PersistentPreRun = func(cmd *cobra.Command, _ []string) {
		cmd.SetContext(app.boundary.bind(cmd.Context()))
	}

	rootCmd.AddCommand(
		newVersionCmd(),
		newLoginCmd(app),
		newLogoutCmd(app),
		newWhoamiCmd(app),
		newRegisterCmd(app),
		newPasswordCmd(app),
		newWatchCmd(app),
		newEventCmd(app),
		newAskCmd(app),
		newWeatherCmd(app),
		newHistoryCmd(app),
		newOpenDataCmd(app),
		newProfileCmd(app),
		newReportCmd(app),
	)

	return rootCmd, app.close
}

package cmd

import "github.com/spf13/cobra"

// protected wraps commands that need a signed-in user.
func protected(app *app, run func(cmd *cobra.Command, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		if err := requireSession(cmd, app); err != nil {
			return err
		}
		return app.settle(cmd.Context(), run(cmd, args))
	}
}

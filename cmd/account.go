package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/soiltwin/soiltwin-cli/internal/domain"
)

func newRegisterCmd(app *app) *cobra.Command {
	var registration domain.Registration

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create a farmer account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var receipt domain.AccountReceipt
			err := runSpinner(cmd.Context(), cmd.ErrOrStderr(), "Creating account...", func(ctx context.Context) error {
				var err error
				receipt, err = app.auth.Register(ctx, registration)
				return err
			})
			if err != nil {
				return fmt.Errorf("register: %w", err)
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s\nSign in with `st login -u %s`\n", receiptMessage(receipt, "Account created"), registration.Username)
			return err
		},
	}

	cmd.Flags().StringVarP(&registration.Username, "username", "u", "", "Username (3-20 characters)")
	cmd.Flags().StringVar(&registration.Email, "email", "", "Email address")
	cmd.Flags().StringVar(&registration.Fullname, "name", "", "Full name")
	cmd.Flags().StringVarP(&registration.Password, "password", "p", "", "Password (8+ characters, one number)")
	for _, name := range []string{"username", "email", "name", "password"} {
		_ = cmd.MarkFlagRequired(name)
	}

	return cmd
}

func newPasswordCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "password",
		Short: "Recover a forgotten password",
	}

	cmd.AddCommand(newPasswordForgotCmd(app), newPasswordResetCmd(app))

	return cmd
}

func newPasswordForgotCmd(app *app) *cobra.Command {
	var email string

	cmd := &cobra.Command{
		Use:   "forgot",
		Short: "Request a password reset token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			receipt, err := app.auth.ForgotPassword(cmd.Context(), email)
			if err != nil {
				return fmt.Errorf("request password reset: %w", err)
			}

			out := cmd.OutOrStdout()
			if _, err := fmt.Fprintln(out, receiptMessage(receipt, "Reset instructions sent")); err != nil {
				return err
			}
			if receipt.Token != "" {
				_, err = fmt.Fprintf(out, "reset token: %s (expires in %s)\n", receipt.Token, receipt.ExpiresIn)
			}
			return err
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Account email address")
	_ = cmd.MarkFlagRequired("email")

	return cmd
}

func newPasswordResetCmd(app *app) *cobra.Command {
	var reset domain.PasswordReset

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Set a new password with a reset token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			receipt, err := app.auth.ResetPassword(cmd.Context(), reset)
			if err != nil {
				return fmt.Errorf("reset password: %w", err)
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), receiptMessage(receipt, "Password updated"))
			return err
		},
	}

	cmd.Flags().StringVar(&reset.Email, "email", "", "Account email address")
	cmd.Flags().StringVar(&reset.Token, "token", "", "Reset token")
	cmd.Flags().StringVar(&reset.NewPassword, "new-password", "", "New password")
	for _, name := range []string{"email", "token", "new-password"} {
		_ = cmd.MarkFlagRequired(name)
	}

	return cmd
}

func receiptMessage(receipt domain.AccountReceipt, fallback string) string {
	if receipt.Message != "" {
		return receipt.Message
	}
	return fallback
}

package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	apperrors "restopos/internal/errors"
)

func loginCmd(flags *globalFlags) *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and keep the session for later commands",
		RunE: withApp(flags, func(a *app, cmd *cobra.Command, args []string) error {
			var err error
			if email == "" {
				if email, err = a.prompt("Email: "); err != nil {
					return err
				}
			}
			if password == "" {
				if password, err = a.prompt("Password: "); err != nil {
					return err
				}
			}
			if email == "" || password == "" {
				return apperrors.NewValidationError("email and password are required")
			}

			token, user, err := a.client.Login(cmd.Context(), email, password)
			if err != nil {
				return err
			}
			if err := a.session.Save(token, user); err != nil {
				return err
			}
			a.logger.Info("logged in", zap.Int64("userId", user.ID))
			fmt.Fprintf(a.out, "Signed in as %s (%s)\n", user.Name, user.Role)
			return nil
		}),
	}

	cmd.Flags().StringVar(&email, "email", "", "Account email")
	cmd.Flags().StringVar(&password, "password", "", "Account password, prompted when omitted")
	return cmd
}

func logoutCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "End the session on the backend and forget it locally",
		RunE: withApp(flags, func(a *app, cmd *cobra.Command, args []string) error {
			if !a.session.Authenticated() {
				fmt.Fprintln(a.out, "Not signed in.")
				return nil
			}
			// The local session goes even if the backend call fails.
			remoteErr := a.client.Logout(cmd.Context())
			if err := a.session.Clear(); err != nil {
				return err
			}
			if remoteErr != nil {
				a.logger.Warn("backend logout failed", zap.Error(remoteErr))
			}
			fmt.Fprintln(a.out, "Signed out.")
			return nil
		}),
	}
}

func meCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "me",
		Short: "Show the signed-in account as the backend sees it",
		RunE: withApp(flags, func(a *app, cmd *cobra.Command, args []string) error {
			if _, err := a.currentUser(); err != nil {
				return err
			}
			user, err := a.client.Me(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "%s <%s>\nrole: %s\nactive: %t\n", user.Name, user.Email, user.Role, user.IsActive)
			return nil
		}),
	}
}

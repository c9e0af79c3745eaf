package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/greenbook/greenbook-api/internal/app"
	"github.com/greenbook/greenbook-api/internal/core/domain"
)

func createAdminCommand(rt *runtime) *cobra.Command {
	var username, password string

	cmd := &cobra.Command{
		Use:   "create-admin",
		Short: "Create an administrator account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if username == "" || password == "" {
				return errors.New("--username and --password are required")
			}
			ctx := cmd.Context()
			a, err := app.New(ctx, rt.cfg, rt.log)
			if err != nil {
				return err
			}
			defer a.Close(ctx)

			u, err := a.Auth.CreateUser(ctx, username, password, domain.RoleAdmin)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created admin %q (id %d)\n", u.Username, u.ID)
			return nil
		},
	}
	cmd.Flags().StringVarP(&username, "username", "u", "", "Account name")
	cmd.Flags().StringVarP(&password, "password", "p", "", "Account password")
	return cmd
}

package main

import (
	"fmt"

	"github.com/rpggio/powermason/internal/domain/user"
	"github.com/spf13/cobra"
)

func newUserCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage users and API keys",
	}
	cmd.AddCommand(newUserCreateCmd())
	return cmd
}

func newUserCreateCmd() *cobra.Command {
	var (
		username string
		roleName string
		phone    string
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a user and print a new API token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			role, err := user.ParseRole(roleName)
			if err != nil {
				return fmt.Errorf("%w: %q (must be Admin, Manager or Staff)", err, roleName)
			}

			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.Close()

			var phonePtr *string
			if phone != "" {
				phonePtr = &phone
			}
			u, err := a.users.Create(cmd.Context(), username, role, phonePtr)
			if err != nil {
				return fmt.Errorf("creating user %q: %w", username, err)
			}
			token, err := a.users.CreateAPIKey(cmd.Context(), u.ID, "created by cli")
			if err != nil {
				return fmt.Errorf("creating api key: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "user id: %s\n", u.ID)
			fmt.Fprintf(out, "api token: %s\n", token)
			return nil
		},
	}

	cmd.Flags().StringVar(&username, "username", "", "Unique user name")
	cmd.Flags().StringVar(&roleName, "role", string(user.RoleStaff), "Role: Admin, Manager or Staff")
	cmd.Flags().StringVar(&phone, "phone", "", "Optional phone number")
	_ = cmd.MarkFlagRequired("username")
	return cmd
}

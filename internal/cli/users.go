package cli

import (
	"errors"
	"fmt"

	"chatbot-admin/internal/services"

	"github.com/spf13/cobra"
)

func newUsersCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "users",
		Short: "Manage user accounts",
	}

	var email string
	verify := &cobra.Command{
		Use:   "verify",
		Short: "Mark a user's email address as verified",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := newApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			user, err := services.NewAuthService(a.store, a.cfg).VerifyUserByEmail(ctx, email)
			if errors.Is(err, services.ErrUserNotFound) {
				return fmt.Errorf("no user with email %q", email)
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "verified %s at %s\n", user.Email, user.EmailVerifiedAt.Format("2006-01-02 15:04:05"))
			return nil
		},
	}
	verify.Flags().StringVar(&email, "email", "", "email address of the user")
	_ = verify.MarkFlagRequired("email")

	cmd.AddCommand(verify)
	return cmd
}

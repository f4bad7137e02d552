package cli

import (
	"context"
	"errors"
	"log"

	"github.com/spf13/cobra"

	"quiz-portal-service/internal/app"
	"quiz-portal-service/internal/config"
)

// NewCreateAdminCmd creates an administrator, or promotes the account with that email.
func NewCreateAdminCmd(configPath *string) *cobra.Command {
	var in app.Signup
	cmd := &cobra.Command{
		Use:   "create-admin",
		Short: "Create or promote an administrator account",
		RunE: func(cmd *cobra.Command, args []string) error {
			return createAdmin(cmd.Context(), *configPath, in)
		},
	}
	cmd.Flags().StringVar(&in.Email, "email", "", "admin email (required)")
	cmd.Flags().StringVar(&in.Username, "username", "admin", "display name for a new account")
	cmd.Flags().StringVar(&in.Password, "password", "", "password; required for a new account, resets an existing one")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func createAdmin(ctx context.Context, configPath string, in app.Signup) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if cfg.Postgres.URL == "" {
		return errors.New("postgres url not configured; an in-memory admin would not outlive this command")
	}
	deps, err := openInfra(ctx, cfg)
	if err != nil {
		return err
	}
	defer deps.Close()

	// tokens are not issued here
	users := app.NewUserService(deps.store, nil)
	admin, err := users.EnsureAdmin(ctx, in)
	if err != nil {
		return err
	}
	log.Printf("admin %s (%s) ready", admin.Email, admin.ID)
	return nil
}

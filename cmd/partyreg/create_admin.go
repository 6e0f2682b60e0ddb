package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"

	"partyreg/internal/adapters/auth"
	"partyreg/internal/adapters/email"
	"partyreg/internal/repository/postgres"
	"partyreg/internal/services"
)

var (
	adminEmail    string
	adminName     string
	adminPassword string
)

var createAdminCmd = &cobra.Command{
	Use:   "create-admin",
	Short: "Create a dashboard admin account",
	Long: `Create a dashboard admin account.

Example:
  partyreg create-admin --email ops@example.com --name Ops --password 'long-enough'`,
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB(cmd.Context(), cfg.DBUrl)
		if err != nil {
			return err
		}
		defer db.Close()

		mailer, err := email.NewMailer(email.MailerConfig{Provider: email.ProviderNoop}, logger)
		if err != nil {
			return err
		}
		authSvc := services.NewAuthService(
			postgres.NewAdminUserRepository(db),
			postgres.NewLoginCodeRepository(db),
			auth.NewBcryptHasher(bcrypt.DefaultCost),
			auth.NewJWT(cfg.JWTSecret),
			cfg.JWTExpiry,
			services.NewEmailService(mailer, email.NewTemplateRenderer()),
		)
		admin, err := authSvc.CreateAdmin(cmd.Context(), adminEmail, adminName, adminPassword)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "created admin %s (%s)\n", admin.Email, admin.ID)
		return nil
	},
}

func init() {
	createAdminCmd.Flags().StringVar(&adminEmail, "email", "", "admin email (required)")
	createAdminCmd.Flags().StringVar(&adminName, "name", "", "display name")
	createAdminCmd.Flags().StringVar(&adminPassword, "password", "", "password, at least 8 characters (required)")
	_ = createAdminCmd.MarkFlagRequired("email")
	_ = createAdminCmd.MarkFlagRequired("password")
}

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/artnaweb-sites-e-sistemas/conexao-fa/internal/access"
	"github.com/artnaweb-sites-e-sistemas/conexao-fa/internal/app"
	"github.com/artnaweb-sites-e-sistemas/conexao-fa/internal/config"
	"github.com/artnaweb-sites-e-sistemas/conexao-fa/internal/db"
	"github.com/artnaweb-sites-e-sistemas/conexao-fa/internal/logger"
	"github.com/artnaweb-sites-e-sistemas/conexao-fa/internal/model"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "admin",
		Short: "Operational tools for the portal",
	}

	rootCmd.AddCommand(inviteCmd())
	rootCmd.AddCommand(migrateCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// inviteCmd bootstraps the first administrator. Every later invite
// goes through the API, but that needs an admin to already exist.
func inviteCmd() *cobra.Command {
	role := string(model.RoleAdmin)

	cmd := &cobra.Command{
		Use:   "invite <email> <name>",
		Short: "Create an invite directly, bypassing the API",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			logger.Init(cfg.IsDevelopment(), cfg.SentryDSN)

			application, err := app.New(cfg)
			if err != nil {
				return err
			}
			defer func() { _ = application.Close() }()

			actor := access.Actor{ID: "cli", Role: model.RoleAdmin}
			invite, err := application.UserService.CreateInvite(args[0], args[1], model.Role(role), actor)
			if err != nil {
				return err
			}

			fmt.Printf("invite created for %s (%s)\n", invite.Email, invite.Role)
			return nil
		},
	}

	cmd.Flags().StringVar(&role, "role", string(model.RoleAdmin), "role for the invited user (admin, professional, client)")
	return cmd
}

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage database migrations",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			database, err := db.Init(cfg.DBDriver, cfg.DBConnection)
			if err != nil {
				return err
			}
			defer func() { _ = database.Close() }()
			return db.RunMigrations(database.DB, cfg.DBDriver)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "down",
		Short: "Roll back the latest migration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			database, err := db.Init(cfg.DBDriver, cfg.DBConnection)
			if err != nil {
				return err
			}
			defer func() { _ = database.Close() }()
			return db.MigrateDown(database.DB, cfg.DBDriver)
		},
	})

	return cmd
}

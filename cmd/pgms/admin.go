package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Keerthana22gh/pg-management-system/internal/repository"
	"github.com/Keerthana22gh/pg-management-system/internal/service"
	"github.com/Keerthana22gh/pg-management-system/pkg/database"
)

func newAdminCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Manage admin accounts",
	}

	var loginID, password string
	create := &cobra.Command{
		Use:   "create",
		Short: "Create an admin login",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, err := bootstrap()
			if err != nil {
				return err
			}

			db, err := database.NewPostgres(cmd.Context(), database.FromConfig(cfg.Database))
			if err != nil {
				return fmt.Errorf("postgres: %w", err)
			}
			defer db.Close()

			users := repository.NewStore(db.Pool()).Users
			auth := service.NewAuthService(users, nil, service.NewPasswordHasher(0), nil, log)

			user, err := auth.CreateAdmin(cmd.Context(), loginID, password)
			if err != nil {
				return fmt.Errorf("create admin: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "admin %q created with id %d\n", user.LoginID, user.ID)
			return nil
		},
	}
	create.Flags().StringVar(&loginID, "user-id", "", "login id of the new admin")
	create.Flags().StringVar(&password, "password", "", "password of the new admin")
	_ = create.MarkFlagRequired("user-id")
	_ = create.MarkFlagRequired("password")

	cmd.AddCommand(create)
	return cmd
}

package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/Keerthana22gh/pg-management-system/migrations"
	"github.com/Keerthana22gh/pg-management-system/pkg/database"
)

func newMigrateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the database schema",
	}

	migrator := func() (*database.Migrator, error) {
		cfg, _, err := bootstrap()
		if err != nil {
			return nil, err
		}
		return database.NewMigrator(database.FromConfig(cfg.Database).DSN(), migrations.FS, "."), nil
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply all pending migrations",
			RunE: func(cmd *cobra.Command, _ []string) error {
				m, err := migrator()
				if err != nil {
					return err
				}
				if err := m.Up(cmd.Context()); err != nil {
					return err
				}
				version, err := m.Version(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "schema at version %d\n", version)
				return nil
			},
		},
		&cobra.Command{
			Use:   "down [steps]",
			Short: "Roll back migrations (default 1)",
			Args:  cobra.MaximumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				steps := 1
				if len(args) == 1 {
					n, err := strconv.Atoi(args[0])
					if err != nil || n < 1 {
						return fmt.Errorf("steps must be a positive integer, got %q", args[0])
					}
					steps = n
				}
				m, err := migrator()
				if err != nil {
					return err
				}
				return m.Down(cmd.Context(), steps)
			},
		},
		&cobra.Command{
			Use:   "status",
			Short: "Print the state of every migration",
			RunE: func(cmd *cobra.Command, _ []string) error {
				m, err := migrator()
				if err != nil {
					return err
				}
				return m.Status(cmd.Context())
			},
		},
	)
	return cmd
}

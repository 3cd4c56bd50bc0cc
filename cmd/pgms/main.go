package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/Keerthana22gh/pg-management-system/pkg/config"
	"github.com/Keerthana22gh/pg-management-system/pkg/logger"
)

var (
	envFile    string
	configFile string
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "pgms",
		Short:         "PG hostel management server",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file loaded into the environment if present")
	root.PersistentFlags().StringVar(&configFile, "config", "", "env-format config file read directly; must exist")

	root.AddCommand(newServeCommand(), newMigrateCommand(), newAdminCommand())
	return root
}

// bootstrap loads the environment and configuration and builds the logger
func bootstrap() (*config.Config, *logger.Logger, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !os.IsNotExist(err) {
			return nil, nil, fmt.Errorf("load %s: %w", envFile, err)
		}
	}

	var (
		cfg *config.Config
		err error
	)
	if configFile != "" {
		cfg, err = config.LoadWithPath(configFile)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, nil, fmt.Errorf("config: %w", err)
	}

	log, err := logger.New(&logger.Config{
		Level:       cfg.Log.Level,
		ServiceName: cfg.App.Name,
		Development: cfg.IsDevelopment(),
		OutputPath:  cfg.Log.Output,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("logger: %w", err)
	}
	return cfg, log, nil
}

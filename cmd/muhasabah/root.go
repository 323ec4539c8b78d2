package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/MrEthical07/muhasabah/internal/config"
	"github.com/MrEthical07/muhasabah/internal/logging"
)

var version = "dev"

var (
	cfg *config.Config
	log *logrus.Logger
)

var rootCmd = &cobra.Command{
	Use:           "muhasabah",
	Short:         "Muhasabah daily checklist API",
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		envErr := godotenv.Overload()

		var err error
		cfg, err = config.Load()
		if err != nil {
			return err
		}
		log, err = logging.New(cfg.LogLevel, cfg.LogFormat)
		if err != nil {
			return err
		}
		if envErr != nil {
			log.Debug("no .env file loaded")
		}
		return nil
	},
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "muhasabah:", err)
		os.Exit(1)
	}
}

package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/cinezuva/cinezuva/internal/config"
	"github.com/cinezuva/cinezuva/internal/logger"

	_ "github.com/joho/godotenv/autoload"
)

var rootCmd = &cobra.Command{
	Use:           "cinezuva",
	Short:         "Cinezuva movie download catalog",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if configFile != "" {
			config.SetConfigFile(configFile)
		}
	},
}

var configFile string

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "config file")
}

// getConfig loads the configuration and installs the default logger at its
// level.
func getConfig() (*config.Config, error) {
	cfg, err := config.GetConfig()
	if err != nil {
		return nil, err
	}
	slog.SetDefault(logger.New(cfg.LogLevel()))
	return cfg, nil
}

func main() {
	slog.SetDefault(logger.New(slog.LevelInfo))
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		logger.Fatal(slog.Default(), "command failed", slog.String("cmd", os.Args[0]), logger.Error(err))
	}
}

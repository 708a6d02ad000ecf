package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"autonav/internal/storage"
)

const (
	appName = "autonav"
	appID   = "dev.autonav.card"

	envConfig = "AUTONAV_CONFIG"
	envDebug  = "AUTONAV_DEBUG"
)

var (
	configPath string
	debugLogs  bool
	logger     = slog.Default()
)

var rootCmd = &cobra.Command{
	Use:   appName,
	Short: "Auto-navigate card",
	Long: `autonav shows a card that waits for the user to go idle, counts down and
then navigates its host to a configured path or back through history.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if !cmd.Flags().Changed("debug") {
			if value, ok := os.LookupEnv(envDebug); ok {
				parsed, err := strconv.ParseBool(value)
				if err != nil {
					return fmt.Errorf("%s: %w", envDebug, err)
				}
				debugLogs = parsed
			}
		}
		logger = newLogger(os.Stderr, debugLogs)
		slog.SetDefault(logger)

		if configPath == "" {
			configPath = os.Getenv(envConfig)
		}
		if configPath == "" {
			resolved, err := storage.ResolvePath(appName)
			if err != nil {
				return err
			}
			configPath = resolved
		}
		logger.Debug("using config", "path", configPath)
		return nil
	},
	RunE: runCard,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "settings file (default $"+envConfig+" or the user config dir)")
	rootCmd.PersistentFlags().BoolVar(&debugLogs, "debug", false, "enable debug logging (also $"+envDebug+")")
	addRunFlags(rootCmd)

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(simulateCmd)
	rootCmd.AddCommand(initConfigCmd)
}

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "load .env: %v\n", err)
	}
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

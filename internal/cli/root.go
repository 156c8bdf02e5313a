package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/rocketscienceinc/tictactoe-hotseat/internal/config"
)

const defaultConfigPath = "./config.yml"

type options struct {
	configPath string
	logFile    string
}

// NewRootCmd - without a subcommand the servers are started.
func NewRootCmd() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:   "tictactoe",
		Short: "Hot-seat tic-tac-toe for two players on one screen",
		Long: `tictactoe runs a two player tic-tac-toe game where both players share one screen.

"serve" hosts the game in the browser, "play" runs it in the terminal.`,
		PersistentPreRun: func(*cobra.Command, []string) {
			// .env is optional, variables may be set directly
			_ = godotenv.Load()
		},
		RunE: func(*cobra.Command, []string) error {
			return runServe(opts)
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", defaultConfigPath, "Path to the YAML config file")

	rootCmd.AddCommand(newServeCmd(opts))
	rootCmd.AddCommand(newPlayCmd(opts))

	return rootCmd
}

// Execute runs the root command
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// initConfig - a missing config file falls back to defaults and the environment.
func initConfig(path string) (*config.Config, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return config.Default()
		}

		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	return config.Load(path)
}

// initLogger - unknown levels fall back to info.
func initLogger(conf *config.Config, w io.Writer) *slog.Logger {
	var level slog.Level

	switch conf.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}))
}

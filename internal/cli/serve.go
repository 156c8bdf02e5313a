package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	application "github.com/rocketscienceinc/tictactoe-hotseat/internal"
)

func newServeCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the game page, the JSON API and the WebSocket endpoint",
		RunE: func(*cobra.Command, []string) error {
			return runServe(opts)
		},
	}
}

func runServe(opts *options) error {
	conf, err := initConfig(opts.configPath)
	if err != nil {
		return err
	}

	logger := initLogger(conf, os.Stdout)

	if err = application.RunApp(logger, conf); err != nil {
		return fmt.Errorf("app run failed: %w", err)
	}

	return nil
}

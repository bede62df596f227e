// Package cmd provides Cobra CLI commands for iconscope.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/bnema/iconscope/internal/cli"
	"github.com/bnema/iconscope/internal/domain/build"
)

var errAppNotInitialized = errors.New("app not initialized")

var (
	app       *cli.App
	buildInfo build.Info
	logLevel  string
	rootCmd   = &cobra.Command{
		Use:   "iconscope",
		Short: "Resolve icons for installed programs",
		Long: `iconscope finds an icon for every program of a software inventory.

Each program goes through an ordered chain of strategies:
  - a custom icon registered by the user
  - the icon embedded in the file the program record points at
  - the executable found by scanning vendor installation folders
  - a well-known icon downloaded for recognized publishers
  - a built-in generic icon for the program type

Results are cached in two tiers: icons extracted from local files live for
hours, remote and generic fallbacks for days.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			// Skip initialization for commands that don't need app context
			switch cmd.Name() {
			case "help", "completion", "gen-docs", "version":
				return nil
			}

			var err error
			app, err = cli.NewApp(cmd.Context(), buildInfo, cli.Options{LogLevel: logLevel})
			if err != nil {
				return fmt.Errorf("initialize app: %w", err)
			}
			return nil
		},
		PersistentPostRun: func(_ *cobra.Command, _ []string) {
			if app != nil {
				_ = app.Close()
			}
		},
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "override the configured log level (trace, debug, info, warn, error)")
}

// Execute runs the root command.
func Execute() {
	if err := execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	// PersistentPostRun is skipped when a command fails
	defer func() {
		if app != nil {
			_ = app.Close()
		}
	}()
	return rootCmd.ExecuteContext(ctx)
}

// GetApp returns the initialized app (for use by subcommands).
func GetApp() (*cli.App, error) {
	if app == nil {
		return nil, errAppNotInitialized
	}
	return app, nil
}

// SetBuildInfo sets the build information (called from main.go before Execute).
func SetBuildInfo(info build.Info) {
	buildInfo = info
}

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"chapterly/internal/bootstrap"
	"chapterly/internal/platform/config"
	"chapterly/internal/platform/logging"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var homePath string

	root := &cobra.Command{
		Use:           "chapterly",
		Short:         "Track books and reading time from the terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&homePath, "home", "", "data directory (default $CHAPTERLY_HOME or ~/.chapterly)")

	root.AddCommand(newTUICmd(&homePath))
	root.AddCommand(newBookCmd(&homePath))
	root.AddCommand(newTimerCmd(&homePath))
	root.AddCommand(newSessionCmd(&homePath))
	root.AddCommand(newStatsCmd(&homePath))
	root.AddCommand(newWidgetCmd(&homePath))
	root.AddCommand(newSurfaceCmd(&homePath))
	return root
}

func loadApp(ctx context.Context, homePath string) (*bootstrap.App, error) {
	cfg, err := config.New(homePath)
	if err != nil {
		return nil, err
	}
	logger, err := logging.New(os.Stderr, cfg.Log.Format, cfg.Log.Level)
	if err != nil {
		return nil, err
	}
	return bootstrap.New(ctx, cfg, logger)
}

// withApp loads the app for one command and closes it afterwards.
func withApp(homePath *string, run func(cmd *cobra.Command, args []string, app *bootstrap.App) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		app, err := loadApp(cmd.Context(), *homePath)
		if err != nil {
			return err
		}
		defer app.Close()
		return run(cmd, args, app)
	}
}

func newTUICmd(homePath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Run the chapterly terminal UI",
		RunE: withApp(homePath, func(cmd *cobra.Command, _ []string, app *bootstrap.App) error {
			return bootstrap.RunTUI(cmd.Context(), app)
		}),
	}
}

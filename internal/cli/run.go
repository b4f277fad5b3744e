package cli

import (
	"context"
	"errors"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/wallshift/wallshift/internal/scheduler"
)

var (
	// Run command flags
	runSize sizeValue
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Cycle wallpapers continuously",
	Long: `Run the wallpaper cycle as a foreground daemon.

The wallpaper is changed immediately and then on every delay interval
from the config. When a change fails (unreadable image, unreachable
URL, setter error) the failure is logged and retried after the shorter
error_delay instead.

Stops cleanly on SIGINT or SIGTERM.`,
	Args: cobra.NoArgs,
	RunE: runRun,
}

func init() {
	runCmd.Flags().VarP(&runSize, "size", "s", "target canvas size (e.g. 1920x1080)")
}

// runRun executes the run command.
func runRun(cmd *cobra.Command, args []string) error {
	env, err := newCycleEnv(cmd, &runSize, false)
	if err != nil {
		return err
	}

	delay, err := env.cfg.CycleDelay()
	if err != nil {
		return err
	}
	errorDelay, err := env.cfg.RetryDelay()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	env.log.Info("starting wallpaper cycle", "delay", delay, "error_delay", errorDelay)

	runner := &scheduler.Runner{
		Delay:      delay,
		ErrorDelay: errorDelay,
		Logger:     env.log.Named("scheduler"),
	}
	if err := runner.Run(ctx, env.step); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	env.log.Info("wallpaper cycle stopped")
	return nil
}

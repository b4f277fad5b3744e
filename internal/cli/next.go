package cli

import (
	"github.com/spf13/cobra"
)

var (
	// Next command flags
	nextSize       sizeValue
	nextRedoColors bool
)

// nextCmd represents the next command
var nextCmd = &cobra.Command{
	Use:   "next",
	Short: "Switch to the next wallpaper",
	Long: `Pick the next image from the library, compose it onto the wallpaper
canvas and set it as the desktop background.

Which image comes next is decided by the random_algorithm config value
(pure, weighted or leastused); the pick is recorded in the usage
history so the weighted and leastused policies spread picks across the
whole library.

Examples:
  # Advance to the next wallpaper
  wallshift next

  # Re-estimate colours even if they are cached for this image
  wallshift next --redo-colors`,
	Args: cobra.NoArgs,
	RunE: runNext,
}

func init() {
	nextCmd.Flags().VarP(&nextSize, "size", "s", "target canvas size (e.g. 1920x1080)")
	nextCmd.Flags().BoolVar(&nextRedoColors, "redo-colors", false, "ignore cached colour estimates for the picked image")
}

// runNext executes the next command.
func runNext(cmd *cobra.Command, args []string) error {
	env, err := newCycleEnv(cmd, &nextSize, nextRedoColors)
	if err != nil {
		return err
	}
	return env.step(cmd.Context())
}

package cli

import (
	"fmt"

	"github.com/disintegration/imaging"
	"github.com/spf13/cobra"

	"github.com/wallshift/wallshift/internal/imageio"
	"github.com/wallshift/wallshift/internal/library"
	"github.com/wallshift/wallshift/internal/wallpaper"
)

var (
	// Render command flags
	renderSize   sizeValue
	renderOutput string
)

// renderCmd represents the render command
var renderCmd = &cobra.Command{
	Use:   "render <image>",
	Short: "Compose one image onto a wallpaper canvas",
	Long: `Run the full pipeline for a single image and write the composed canvas
to a file, without touching the desktop background or the usage history.

The image is fitted onto a canvas of the target size, with background,
border and padding colours taken from the config (including colours
derived from the image itself via the kmeans/meanshift sentinels).

The target size comes from --size, or from force_monitor_size in the
config when the flag is omitted.

Examples:
  # Render to wallpaper.png at the configured monitor size
  wallshift render wallpaper.jpg

  # Explicit size and output file
  wallshift render --size 2560x1440 --output out.png wallpaper.jpg`,
	Args: cobra.ExactArgs(1),
	RunE: runRender,
}

func init() {
	renderCmd.Flags().VarP(&renderSize, "size", "s", "target canvas size (e.g. 1920x1080)")
	renderCmd.Flags().StringVarP(&renderOutput, "output", "o", "wallpaper.png", "output file")
}

// runRender executes the render command.
func runRender(cmd *cobra.Command, args []string) error {
	imagePath := args[0]

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	target, err := resolveSize(&renderSize, cfg)
	if err != nil {
		return err
	}

	log := newLogger(cmd, "wallshift")
	producer, err := wallpaper.NewProducer(cfg, wallpaper.WithLogger(log.Named("pipeline")))
	if err != nil {
		return fmt.Errorf("invalid colour configuration: %w", err)
	}

	img, err := imageio.NewSmartLoader().Load(imagePath)
	if err != nil {
		return fmt.Errorf("failed to load image: %w", err)
	}

	canvas, err := producer.Produce(img, library.ID(imagePath), target)
	if err != nil {
		return err
	}

	if err := imaging.Save(canvas, renderOutput); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}

	log.Info("wrote wallpaper", "path", renderOutput, "size", fmt.Sprintf("%dx%d", target.Width, target.Height))
	return nil
}

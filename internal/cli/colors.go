package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/wallshift/wallshift/internal/colour"
	"github.com/wallshift/wallshift/internal/imageio"
	"github.com/wallshift/wallshift/internal/wallpaper"
)

var (
	// Colors command flags
	colorsAlgorithm string
	colorsNoPreview bool
)

// colorsCmd represents the colors command
var colorsCmd = &cobra.Command{
	Use:   "colors <image>",
	Short: "Show the colours estimated from an image",
	Long: `Show the colours a wallpaper change would derive from an image.

Each clustering algorithm is run against the image and its colours are
printed in rank order (most prevalent first), with the share of sampled
pixels each colour represents. The rank order is what the kmeans/kmeans2
and meanshift/meanshift2 colour sentinels in the config refer to.

Colour swatches are shown when stdout is a terminal.

Examples:
  # Show colours from both algorithms
  wallshift colors wallpaper.jpg

  # Only run k-means
  wallshift colors --algorithm kmeans wallpaper.jpg`,
	Args: cobra.ExactArgs(1),
	RunE: runColors,
}

func init() {
	colorsCmd.Flags().StringVarP(&colorsAlgorithm, "algorithm", "a", "", "restrict to one algorithm (kmeans, meanshift)")
	colorsCmd.Flags().BoolVar(&colorsNoPreview, "no-preview", false, "disable colour swatches even on a terminal")
}

// runColors executes the colors command.
func runColors(cmd *cobra.Command, args []string) error {
	imagePath := args[0]

	if err := imageio.ValidateImagePath(imagePath); err != nil {
		return fmt.Errorf("invalid image path: %w", err)
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	algorithms := colour.ValidAlgorithms()
	if colorsAlgorithm != "" {
		alg := colour.Algorithm(strings.ToLower(colorsAlgorithm))
		if !colour.IsValidAlgorithm(alg) {
			return fmt.Errorf("unknown algorithm %q (valid: kmeans, meanshift)", colorsAlgorithm)
		}
		algorithms = []colour.Algorithm{alg}
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

	preview := !colorsNoPreview && term.IsTerminal(int(os.Stdout.Fd()))

	for _, alg := range algorithms {
		result, err := producer.EstimatedColours(img, alg)
		if err != nil {
			return fmt.Errorf("%s: %w", alg, err)
		}

		total := 0
		for _, c := range result.Clusters {
			total += c.Count
		}

		fmt.Printf("%s:\n", alg)
		for _, c := range result.Clusters {
			fmt.Println(formatCluster(c, total, preview))
		}
	}
	return nil
}

// formatCluster renders one cluster line: optional swatch, hex code,
// sample share, and whether the colour reads as dark or light.
func formatCluster(c colour.Cluster, total int, preview bool) string {
	share := 0.0
	if total > 0 {
		share = float64(c.Count) / float64(total) * 100
	}

	line := "  "
	if preview {
		line += colour.FormatWithPreview(c.Centroid, 8)
	} else {
		line += c.Centroid.Hex()
	}
	return fmt.Sprintf("%s  %5.1f%%  %s", line, share, shade(c.Centroid))
}

// shade classifies a colour as dark or light by its linear-RGB
// luminance, the same quantity used for WCAG contrast.
func shade(p colour.Pixel) string {
	r, g, b := colorful.Color{
		R: float64(p.R) / 255,
		G: float64(p.G) / 255,
		B: float64(p.B) / 255,
	}.LinearRgb()

	luminance := 0.2126*r + 0.7152*g + 0.0722*b
	if luminance < 0.179 {
		return "dark"
	}
	return "light"
}

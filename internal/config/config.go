// Package config loads and validates the wallshift configuration file.
//
// The configuration is a single JSON document. Every tuning parameter
// is validated once at load time so out-of-range values surface before
// any pipeline work starts, never mid-computation.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/wallshift/wallshift/internal/colour"
)

// Size is an explicit width/height pair in pixels.
type Size struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// KMeansOptions tunes the k-means clusterer and its sampler.
type KMeansOptions struct {
	// MaxDimension downscales the image so its longest side does not
	// exceed this before sampling. 0 disables downscaling.
	MaxDimension int `json:"max_dimension_for_downscaling"`

	// SubsampleSize bounds how many pixels are clustered. 0 keeps all.
	SubsampleSize int `json:"subsample_size"`

	// WhiteThreshold excludes pixels closer than this to pure white.
	WhiteThreshold float64 `json:"white_exclusion_threshold"`

	// ClusterSize is k, the number of clusters to seed.
	ClusterSize int `json:"cluster_size"`

	// MaxIterations bounds the refinement loop.
	MaxIterations int `json:"max_iterations"`

	// DistanceThreshold is the centroid-movement convergence cutoff.
	DistanceThreshold float64 `json:"distance_threshold"`

	// PruningDistance folds near-duplicate clusters. <= 0 disables.
	PruningDistance float64 `json:"pruning_distance"`
}

// MeanShiftOptions tunes the mean-shift clusterer and its sampler.
type MeanShiftOptions struct {
	MaxDimension   int     `json:"max_dimension_for_downscaling"`
	SubsampleSize  int     `json:"subsample_size"`
	WhiteThreshold float64 `json:"white_exclusion_threshold"`

	// Radius is the neighbourhood distance for the shift step.
	Radius float64 `json:"radius"`

	// Tolerance is the per-seed convergence and mode-merge distance.
	Tolerance float64 `json:"tolerance"`

	// MaxIterations bounds the shifting of a single seed.
	MaxIterations int `json:"max_iterations"`

	// MaxSeeds caps how many samples seed the shift. 0 uses all.
	MaxSeeds int `json:"max_seeds"`
}

// Config is the complete wallshift configuration.
type Config struct {
	// RandomAlgorithm selects the image-selection policy:
	// "pure", "weighted" or "leastused".
	RandomAlgorithm string `json:"random_algorithm"`

	// BackgroundColor, BorderColor and PaddingColor accept a colour
	// name, a "#rrggbb" hex value, an "r, g, b" triple, or the
	// sentinels "kmeans"/"kmeans2"/"meanshift"/"meanshift2" meaning
	// "derive from the image via clustering, rank 1 / rank 2".
	// PaddingColor may be empty, in which case BackgroundColor fills
	// the leftover canvas area.
	BackgroundColor string `json:"background_color"`
	BorderColor     string `json:"border_color"`
	PaddingColor    string `json:"padding_color"`

	// BorderSize is the border thickness in pixels, 0 for no border.
	BorderSize int `json:"border_size"`

	// HistorySize bounds the recently-shown ring.
	HistorySize int `json:"history_size"`

	// ForceMonitorSize overrides the target canvas size.
	ForceMonitorSize *Size `json:"force_monitor_size,omitempty"`

	// Delay is the time between wallpaper changes (Go duration
	// string). ErrorDelay is the retry interval after a failed change.
	Delay      string `json:"delay"`
	ErrorDelay string `json:"error_delay"`

	KMeans    KMeansOptions    `json:"kmeans"`
	MeanShift MeanShiftOptions `json:"mean_shift"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		RandomAlgorithm: "weighted",
		BackgroundColor: "kmeans",
		BorderColor:     "kmeans2",
		PaddingColor:    "",
		BorderSize:      0,
		HistorySize:     10,
		Delay:           "20m",
		ErrorDelay:      "1m",
		KMeans: KMeansOptions{
			MaxDimension:      700,
			SubsampleSize:     0,
			WhiteThreshold:    100,
			ClusterSize:       5,
			MaxIterations:     10,
			DistanceThreshold: 1.0,
			PruningDistance:   10.0,
		},
		MeanShift: MeanShiftOptions{
			MaxDimension:   700,
			SubsampleSize:  10000,
			WhiteThreshold: 100,
			Radius:         30,
			Tolerance:      0.001,
			MaxIterations:  100,
			MaxSeeds:       500,
		},
	}
}

// DefaultPath returns the default config file location.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to determine config directory: %w", err)
	}
	return filepath.Join(dir, "wallshift", "config.json"), nil
}

// Load reads and validates the configuration at path. A missing file
// yields the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path) // #nosec G304 - User-specified config path
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks every option and reports the first offending value.
func (c *Config) Validate() error {
	switch c.RandomAlgorithm {
	case "pure", "weighted", "leastused":
	default:
		return fmt.Errorf("invalid value for random_algorithm: %q (want pure, weighted or leastused)", c.RandomAlgorithm)
	}

	if _, err := ParseColorSource(c.BackgroundColor); err != nil {
		return fmt.Errorf("invalid value for background_color: %w", err)
	}
	if _, err := ParseColorSource(c.BorderColor); err != nil {
		return fmt.Errorf("invalid value for border_color: %w", err)
	}
	if c.PaddingColor != "" {
		if _, err := ParseColorSource(c.PaddingColor); err != nil {
			return fmt.Errorf("invalid value for padding_color: %w", err)
		}
	}

	if c.BorderSize < 0 {
		return fmt.Errorf("invalid value for border_size: %d (must not be negative)", c.BorderSize)
	}
	if c.HistorySize < 1 {
		return fmt.Errorf("invalid value for history_size: %d (must be positive)", c.HistorySize)
	}
	if c.ForceMonitorSize != nil {
		if c.ForceMonitorSize.Width < 1 || c.ForceMonitorSize.Height < 1 {
			return fmt.Errorf("invalid value for force_monitor_size: %dx%d",
				c.ForceMonitorSize.Width, c.ForceMonitorSize.Height)
		}
	}

	if _, err := c.CycleDelay(); err != nil {
		return fmt.Errorf("invalid value for delay: %w", err)
	}
	if _, err := c.RetryDelay(); err != nil {
		return fmt.Errorf("invalid value for error_delay: %w", err)
	}

	if err := c.KMeans.validate(); err != nil {
		return fmt.Errorf("invalid kmeans option: %w", err)
	}
	if err := c.MeanShift.validate(); err != nil {
		return fmt.Errorf("invalid mean_shift option: %w", err)
	}
	return nil
}

func (o KMeansOptions) validate() error {
	if o.MaxDimension < 0 {
		return fmt.Errorf("max_dimension_for_downscaling: %d (must not be negative)", o.MaxDimension)
	}
	if o.SubsampleSize < 0 {
		return fmt.Errorf("subsample_size: %d (must not be negative)", o.SubsampleSize)
	}
	if o.WhiteThreshold < 0 {
		return fmt.Errorf("white_exclusion_threshold: %g (must not be negative)", o.WhiteThreshold)
	}
	if o.ClusterSize < 1 {
		return fmt.Errorf("cluster_size: %d (must be at least 1)", o.ClusterSize)
	}
	if o.MaxIterations < 1 {
		return fmt.Errorf("max_iterations: %d (must be at least 1)", o.MaxIterations)
	}
	if o.DistanceThreshold < 0 {
		return fmt.Errorf("distance_threshold: %g (must not be negative)", o.DistanceThreshold)
	}
	return nil
}

func (o MeanShiftOptions) validate() error {
	if o.MaxDimension < 0 {
		return fmt.Errorf("max_dimension_for_downscaling: %d (must not be negative)", o.MaxDimension)
	}
	if o.SubsampleSize < 0 {
		return fmt.Errorf("subsample_size: %d (must not be negative)", o.SubsampleSize)
	}
	if o.WhiteThreshold < 0 {
		return fmt.Errorf("white_exclusion_threshold: %g (must not be negative)", o.WhiteThreshold)
	}
	if o.Radius <= 0 {
		return fmt.Errorf("radius: %g (must be positive)", o.Radius)
	}
	if o.Tolerance <= 0 {
		return fmt.Errorf("tolerance: %g (must be positive)", o.Tolerance)
	}
	if o.MaxIterations < 1 {
		return fmt.Errorf("max_iterations: %d (must be at least 1)", o.MaxIterations)
	}
	if o.MaxSeeds < 0 {
		return fmt.Errorf("max_seeds: %d (must not be negative)", o.MaxSeeds)
	}
	return nil
}

// CycleDelay returns the parsed wallpaper-change interval.
func (c *Config) CycleDelay() (time.Duration, error) {
	return parseDelay(c.Delay)
}

// RetryDelay returns the parsed error-retry interval.
func (c *Config) RetryDelay() (time.Duration, error) {
	return parseDelay(c.ErrorDelay)
}

func parseDelay(s string) (time.Duration, error) {
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, err
	}
	if d < time.Second {
		return 0, fmt.Errorf("%s is below the 1s minimum", s)
	}
	return d, nil
}

// DerivedAlgorithms returns which clustering algorithms the colour
// options actually reference, so the pipeline only runs what it needs.
func (c *Config) DerivedAlgorithms() []colour.Algorithm {
	seen := map[colour.Algorithm]bool{}
	var algorithms []colour.Algorithm
	for _, raw := range []string{c.BackgroundColor, c.BorderColor, c.PaddingColor} {
		if raw == "" {
			continue
		}
		src, err := ParseColorSource(raw)
		if err != nil || !src.Derived {
			continue
		}
		if !seen[src.Algorithm] {
			seen[src.Algorithm] = true
			algorithms = append(algorithms, src.Algorithm)
		}
	}
	return algorithms
}

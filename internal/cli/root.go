// Package cli provides the command-line interface for wallshift.
package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strconv"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/wallshift/wallshift/internal/config"
	"github.com/wallshift/wallshift/internal/version"
)

var (
	// Global config file override
	globalConfigPath string

	// rootCmd represents the base command when called without any subcommands
	rootCmd = &cobra.Command{
		Use:   "wallshift",
		Short: "A wallpaper cycler with image-derived colours",
		Long: `Wallshift manages a list of wallpaper images, picks the next image using
a configurable random policy, estimates background and border colours
from the image via unsupervised clustering, composes the image onto a
fixed-size canvas, and applies the result as the desktop background.

Add images or directories to the library, then cycle manually with
"next" or continuously with "run".`,
		Version:      version.Short(),
		SilenceUsage: true,
	}
)

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().BoolP("quiet", "q", false, "suppress non-error output")
	rootCmd.PersistentFlags().StringVar(&globalConfigPath, "config", "", "config file (default: <user config dir>/wallshift/config.json)")

	// Set version template
	rootCmd.SetVersionTemplate(version.String() + "\n")

	// Add subcommands
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(colorsCmd)
	rootCmd.AddCommand(renderCmd)
	rootCmd.AddCommand(nextCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(removeCmd)
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long:  `Print detailed version information including build date, commit hash, and Go version.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(version.String())
	},
}

// newLogger builds the logger for a command invocation. Verbose enables
// debug output, quiet discards everything below errors.
func newLogger(cmd *cobra.Command, name string) hclog.Logger {
	verbose, _ := cmd.Flags().GetBool("verbose")
	quiet, _ := cmd.Flags().GetBool("quiet")

	var logger hclog.Logger
	switch {
	case quiet:
		logger = hclog.New(&hclog.LoggerOptions{
			Name:   name,
			Output: io.Discard,
			Level:  hclog.Off,
		})
	case verbose:
		logger = hclog.New(&hclog.LoggerOptions{
			Name:   name,
			Output: os.Stderr,
			Level:  hclog.Debug,
		})
	default:
		logger = hclog.New(&hclog.LoggerOptions{
			Name:   name,
			Output: os.Stderr,
			Level:  hclog.Info,
		})
	}
	return logger
}

// loadConfig loads the configuration from the --config override or the
// default location.
func loadConfig() (*config.Config, error) {
	path := globalConfigPath
	if path == "" {
		var err error
		path, err = config.DefaultPath()
		if err != nil {
			return nil, err
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

// statePath returns the path of a state file (library, history, colour
// cache) in the wallshift config directory, creating the directory if
// needed.
func statePath(name string) (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to determine config directory: %w", err)
	}
	stateDir := filepath.Join(dir, "wallshift")
	if err := os.MkdirAll(stateDir, 0o755); err != nil { // #nosec G301 - State directory needs standard permissions
		return "", fmt.Errorf("failed to create state directory: %w", err)
	}
	return filepath.Join(stateDir, name), nil
}

var sizeRe = regexp.MustCompile(`^(\d+)x(\d+)$`)

// parseSize parses a "WxH" string such as "1920x1080".
func parseSize(s string) (config.Size, error) {
	m := sizeRe.FindStringSubmatch(s)
	if m == nil {
		return config.Size{}, fmt.Errorf("invalid size %q (expected WxH, e.g. 1920x1080)", s)
	}
	w, _ := strconv.Atoi(m[1])
	h, _ := strconv.Atoi(m[2])
	if w < 1 || h < 1 {
		return config.Size{}, fmt.Errorf("invalid size %q: dimensions must be positive", s)
	}
	return config.Size{Width: w, Height: h}, nil
}

// sizeValue is a pflag.Value holding a "WxH" canvas size.
type sizeValue struct {
	size config.Size
	set  bool
}

var _ pflag.Value = (*sizeValue)(nil)

func (v *sizeValue) String() string {
	if !v.set {
		return ""
	}
	return fmt.Sprintf("%dx%d", v.size.Width, v.size.Height)
}

func (v *sizeValue) Set(s string) error {
	size, err := parseSize(s)
	if err != nil {
		return err
	}
	v.size = size
	v.set = true
	return nil
}

func (v *sizeValue) Type() string {
	return "WxH"
}

// resolveSize picks the target canvas size: the --size flag wins, then
// force_monitor_size from the config.
func resolveSize(flag *sizeValue, cfg *config.Config) (config.Size, error) {
	if flag != nil && flag.set {
		return flag.size, nil
	}
	if cfg.ForceMonitorSize != nil {
		return *cfg.ForceMonitorSize, nil
	}
	return config.Size{}, fmt.Errorf("no target size: pass --size WxH or set force_monitor_size in the config")
}

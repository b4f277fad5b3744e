// Package setter applies an image file as the desktop background.
//
// The desktop environment is detected by scanning the process table for
// well known session processes, then the matching tool is invoked to set
// the wallpaper. Detection happens once per Setter and is cached.
package setter

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"
	"sync"

	"github.com/hashicorp/go-hclog"
	"github.com/mitchellh/go-ps"
)

// Desktop identifies a detected desktop environment.
type Desktop string

const (
	DesktopGNOME   Desktop = "gnome"
	DesktopPlasma  Desktop = "plasma"
	DesktopSway    Desktop = "sway"
	DesktopMacOS   Desktop = "macos"
	DesktopUnknown Desktop = "unknown"
)

// processDesktops maps session process names to the desktop they indicate.
// Checked in the order the process table returns them.
var processDesktops = map[string]Desktop{
	"gnome-shell": DesktopGNOME,
	"plasmashell": DesktopPlasma,
	"sway":        DesktopSway,
}

// Setter applies wallpapers for the detected desktop environment.
type Setter struct {
	logger hclog.Logger

	mu      sync.Mutex
	desktop Desktop
	probed  bool
}

// New creates a Setter with the given logger.
func New(logger hclog.Logger) *Setter {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Setter{logger: logger}
}

// Desktop returns the detected desktop environment, probing the process
// table on first use.
func (s *Setter) Desktop() Desktop {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.probed {
		s.desktop = detectDesktop()
		s.probed = true
		s.logger.Debug("detected desktop environment", "desktop", s.desktop)
	}
	return s.desktop
}

// Set applies the image at path as the desktop background.
func (s *Setter) Set(ctx context.Context, path string) error {
	desktop := s.Desktop()

	name, args, err := wallpaperCommand(desktop, path)
	if err != nil {
		return err
	}

	s.logger.Debug("setting wallpaper", "desktop", desktop, "command", name, "path", path)

	cmd := exec.CommandContext(ctx, name, args...)
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("failed to set wallpaper via %s: %w (output: %s)", name, err, out)
	}
	return nil
}

// detectDesktop identifies the running desktop environment.
func detectDesktop() Desktop {
	if runtime.GOOS == "darwin" {
		return DesktopMacOS
	}

	processes, err := ps.Processes()
	if err != nil {
		return DesktopUnknown
	}

	for _, p := range processes {
		if desktop, ok := processDesktops[p.Executable()]; ok {
			return desktop
		}
	}
	return DesktopUnknown
}

// wallpaperCommand returns the command used to set the wallpaper on the
// given desktop.
func wallpaperCommand(desktop Desktop, path string) (string, []string, error) {
	switch desktop {
	case DesktopGNOME:
		uri := "file://" + path
		return "gsettings", []string{"set", "org.gnome.desktop.background", "picture-uri", uri}, nil
	case DesktopPlasma:
		return "plasma-apply-wallpaperimage", []string{path}, nil
	case DesktopSway:
		return "swaymsg", []string{"output", "*", "bg", path, "fill"}, nil
	case DesktopMacOS:
		script := fmt.Sprintf(`tell application "System Events" to set picture of every desktop to %q`, path)
		return "osascript", []string{"-e", script}, nil
	default:
		// feh works on most remaining X11 setups.
		return "feh", []string{"--bg-fill", path}, nil
	}
}

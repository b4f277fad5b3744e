package setter

import (
	"strings"
	"testing"
)

func TestWallpaperCommand(t *testing.T) {
	const path = "/tmp/current.png"

	tests := []struct {
		desktop  Desktop
		wantName string
		wantArg  string
	}{
		{DesktopGNOME, "gsettings", "file://" + path},
		{DesktopPlasma, "plasma-apply-wallpaperimage", path},
		{DesktopSway, "swaymsg", path},
		{DesktopMacOS, "osascript", path},
		{DesktopUnknown, "feh", path},
	}

	for _, tt := range tests {
		t.Run(string(tt.desktop), func(t *testing.T) {
			name, args, err := wallpaperCommand(tt.desktop, path)
			if err != nil {
				t.Fatalf("wallpaperCommand(%s) failed: %v", tt.desktop, err)
			}
			if name != tt.wantName {
				t.Errorf("command = %s, want %s", name, tt.wantName)
			}
			if !strings.Contains(strings.Join(args, " "), tt.wantArg) {
				t.Errorf("args %v should reference %q", args, tt.wantArg)
			}
		})
	}
}

func TestDesktopProbeCached(t *testing.T) {
	s := New(nil)
	first := s.Desktop()
	if second := s.Desktop(); second != first {
		t.Errorf("detection changed between calls: %s then %s", first, second)
	}
}

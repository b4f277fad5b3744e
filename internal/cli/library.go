package cli

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/wallshift/wallshift/internal/imageio"
	"github.com/wallshift/wallshift/internal/library"
	"github.com/wallshift/wallshift/internal/selection"
)

// listCmd represents the list command
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the images in the library",
	Long: `List every image the cycler can pick from, with its identifier, how
often it has been shown, and whether it was added individually or found
by a directory scan.`,
	Args: cobra.NoArgs,
	RunE: runList,
}

// addCmd represents the add command
var addCmd = &cobra.Command{
	Use:   "add <path|url|directory>...",
	Short: "Add images or directories to the library",
	Long: `Add one or more images to the library.

Arguments may be image files, http(s) URLs, or directories. Directories
are rescanned on every cycle, so images dropped into them later are
picked up automatically.

Examples:
  wallshift add ~/Pictures/wallpapers
  wallshift add sunset.jpg https://example.com/nebula.png`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAdd,
}

// removeCmd represents the remove command
var removeCmd = &cobra.Command{
	Use:   "remove <path|url|directory>...",
	Short: "Remove images or directories from the library",
	Long: `Remove entries from the library. Images found through a scanned
directory cannot be removed individually; remove the directory instead.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runRemove,
}

// runList executes the list command.
func runList(cmd *cobra.Command, args []string) error {
	lib, history, _, err := loadLibraryAndHistory()
	if err != nil {
		return err
	}

	if lib.Len() == 0 {
		fmt.Println("Library is empty. Add images with \"wallshift add\".")
		return nil
	}

	lastShown := history.LastShown()

	table := NewTable([]string{"ID", "SHOWN", "ORIGIN", "SIZE", "PATH"})
	for _, entry := range lib.Entries() {
		origin := "file"
		if entry.FromDir {
			origin = "scan"
		}
		// Remote images are not fetched just to list them.
		size := "-"
		if !imageio.IsURL(entry.Path) {
			if w, h, err := imageio.GetImageDimensions(entry.Path); err == nil {
				size = fmt.Sprintf("%dx%d", w, h)
			}
		}
		path := entry.Path
		if entry.ID == lastShown {
			path += "  (current)"
		}
		table.AddRow([]string{entry.ID, strconv.Itoa(history.Count(entry.ID)), origin, size, path})
	}
	fmt.Print(table.Render())
	return nil
}

// runAdd executes the add command.
func runAdd(cmd *cobra.Command, args []string) error {
	libPath, err := statePath("library.json")
	if err != nil {
		return err
	}
	lib, err := library.Load(libPath)
	if err != nil {
		return fmt.Errorf("failed to load library: %w", err)
	}

	for _, arg := range args {
		if info, err := os.Stat(arg); err == nil && info.IsDir() {
			if err := lib.AddDirectory(arg); err != nil {
				return fmt.Errorf("failed to add directory %s: %w", arg, err)
			}
			continue
		}
		if err := lib.AddFile(arg); err != nil {
			return fmt.Errorf("failed to add %s: %w", arg, err)
		}
	}

	if err := lib.Save(); err != nil {
		return err
	}
	fmt.Printf("Library now has %d images.\n", lib.Len())
	return nil
}

// runRemove executes the remove command.
func runRemove(cmd *cobra.Command, args []string) error {
	lib, history, historyPath, err := loadLibraryAndHistory()
	if err != nil {
		return err
	}

	before := lib.IDs()

	removed := 0
	for _, arg := range args {
		if lib.Remove(arg) {
			removed++
		} else {
			fmt.Fprintf(os.Stderr, "not in library: %s\n", arg)
		}
	}
	if removed == 0 {
		return fmt.Errorf("nothing removed")
	}

	if err := lib.Save(); err != nil {
		return err
	}

	// Drop the usage counts of every image that disappeared, so a
	// later re-add starts fresh instead of inheriting stale weights.
	remaining := make(map[string]bool, lib.Len())
	for _, id := range lib.IDs() {
		remaining[id] = true
	}
	for _, id := range before {
		if !remaining[id] {
			history.Forget(id)
		}
	}
	if err := history.Save(historyPath); err != nil {
		return fmt.Errorf("failed to persist history: %w", err)
	}

	fmt.Printf("Removed %d entries, %d images remain.\n", removed, lib.Len())
	return nil
}

// loadLibraryAndHistory loads the persisted library and usage history,
// returning the history's path so callers can write it back.
func loadLibraryAndHistory() (*library.Library, *selection.History, string, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, "", err
	}

	libPath, err := statePath("library.json")
	if err != nil {
		return nil, nil, "", err
	}
	lib, err := library.Load(libPath)
	if err != nil {
		return nil, nil, "", fmt.Errorf("failed to load library: %w", err)
	}

	historyPath, err := statePath("history.json")
	if err != nil {
		return nil, nil, "", err
	}
	history, err := selection.LoadHistory(historyPath, cfg.HistorySize)
	if err != nil {
		return nil, nil, "", fmt.Errorf("failed to load history: %w", err)
	}
	return lib, history, historyPath, nil
}

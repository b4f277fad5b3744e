package cli

import (
	"context"
	"errors"
	"fmt"
	"image"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"

	"github.com/wallshift/wallshift/internal/config"
	"github.com/wallshift/wallshift/internal/imageio"
	"github.com/wallshift/wallshift/internal/library"
	"github.com/wallshift/wallshift/internal/selection"
	"github.com/wallshift/wallshift/internal/setter"
	"github.com/wallshift/wallshift/internal/util/imagecache"
	"github.com/wallshift/wallshift/internal/wallpaper"
)

// cycleEnv bundles the state one wallpaper change needs: config,
// library, usage history, colour cache, pipeline and setter. Built once
// per command invocation and reused across daemon steps.
type cycleEnv struct {
	cfg         *config.Config
	log         hclog.Logger
	lib         *library.Library
	history     *selection.History
	historyPath string
	cache       *wallpaper.ColourCache
	producer    *wallpaper.Producer
	picker      *selection.Picker
	setter      *setter.Setter
	target      config.Size
	redoColours bool
}

// newCycleEnv loads config and state files and wires the pipeline.
func newCycleEnv(cmd *cobra.Command, sizeFlag *sizeValue, redoColours bool) (*cycleEnv, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	target, err := resolveSize(sizeFlag, cfg)
	if err != nil {
		return nil, err
	}

	log := newLogger(cmd, "wallshift")

	libPath, err := statePath("library.json")
	if err != nil {
		return nil, err
	}
	lib, err := library.Load(libPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load library: %w", err)
	}

	historyPath, err := statePath("history.json")
	if err != nil {
		return nil, err
	}
	history, err := selection.LoadHistory(historyPath, cfg.HistorySize)
	if err != nil {
		return nil, fmt.Errorf("failed to load history: %w", err)
	}

	cachePath, err := statePath("colours.json")
	if err != nil {
		return nil, err
	}
	cache, err := wallpaper.NewColourCache(cachePath)
	if err != nil {
		return nil, fmt.Errorf("failed to load colour cache: %w", err)
	}

	producer, err := wallpaper.NewProducer(cfg,
		wallpaper.WithLogger(log.Named("pipeline")),
		wallpaper.WithCache(cache))
	if err != nil {
		return nil, fmt.Errorf("invalid colour configuration: %w", err)
	}

	policy, err := selection.ParsePolicy(cfg.RandomAlgorithm)
	if err != nil {
		return nil, err
	}

	return &cycleEnv{
		cfg:         cfg,
		log:         log,
		lib:         lib,
		history:     history,
		historyPath: historyPath,
		cache:       cache,
		producer:    producer,
		picker:      selection.NewPicker(policy, history, nil),
		setter:      setter.New(log.Named("setter")),
		target:      target,
		redoColours: redoColours,
	}, nil
}

// step advances the cycle once: pick, load, compose, set, persist.
func (e *cycleEnv) step(ctx context.Context) error {
	// Pick up images added to or removed from scanned directories.
	e.lib.Rescan()

	id, err := e.picker.Next(e.lib.IDs())
	if err != nil {
		if errors.Is(err, selection.ErrNoImages) {
			return fmt.Errorf("library is empty: add images with \"wallshift add\"")
		}
		return err
	}

	path, ok := e.lib.PathFor(id)
	if !ok {
		return fmt.Errorf("no path for image %s", id)
	}
	e.log.Info("selected wallpaper", "path", path)

	local := path
	if imageio.IsURL(path) {
		local, err = imagecache.DownloadAndCache(ctx, path, imagecache.CacheOptions{})
		if err != nil {
			return fmt.Errorf("failed to fetch remote image: %w", err)
		}
	}

	img, err := imageio.NewFileLoader().Load(local)
	if err != nil {
		return fmt.Errorf("failed to load image: %w", err)
	}

	if e.redoColours {
		e.cache.Drop(id)
	}

	canvas, err := e.producer.Produce(img, id, e.target)
	if err != nil {
		return err
	}

	out, err := writeCanvas(canvas)
	if err != nil {
		return err
	}

	if err := e.setter.Set(ctx, out); err != nil {
		return err
	}

	// The pick already happened, so persist history and cache even
	// though later steps can still fail next cycle.
	if err := e.history.Save(e.historyPath); err != nil {
		e.log.Warn("failed to persist history", "error", err)
	}
	if err := e.cache.Save(); err != nil {
		e.log.Warn("failed to persist colour cache", "error", err)
	}
	return nil
}

// writeCanvas saves the composed canvas to the cache directory and
// returns its path.
func writeCanvas(canvas *image.NRGBA) (string, error) {
	cacheDir, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("failed to determine cache directory: %w", err)
	}
	dir := filepath.Join(cacheDir, "wallshift")
	if err := os.MkdirAll(dir, 0o755); err != nil { // #nosec G301 - Cache directory needs standard permissions
		return "", fmt.Errorf("failed to create cache directory: %w", err)
	}

	out := filepath.Join(dir, "current.png")
	if err := imaging.Save(canvas, out); err != nil {
		return "", fmt.Errorf("failed to write composed wallpaper: %w", err)
	}
	return out, nil
}

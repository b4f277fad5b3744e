package wallpaper

import (
	"fmt"
	"image"
	"image/color"

	"github.com/hashicorp/go-hclog"

	"github.com/wallshift/wallshift/internal/colour"
	"github.com/wallshift/wallshift/internal/config"
	"github.com/wallshift/wallshift/internal/random"
)

// defaultColour is the hardcoded fallback when colour estimation fails
// (empty sample set, empty cluster result).
var defaultColour = color.NRGBA{A: 255}

// Producer runs the full per-image pipeline: sample, cluster, select
// colours, compose. Colour config values are resolved to ColorSources
// once at construction; estimation failures fall back to the default
// colour and never abort the run.
//
// A Producer is safe to reuse across images. Each Produce call builds
// its own independently seeded samplers and clusterers, so concurrent
// calls do not share mutable state or correlated randomness.
type Producer struct {
	cfg        *config.Config
	log        hclog.Logger
	cache      *ColourCache
	background config.ColorSource
	border     config.ColorSource
	padding    *config.ColorSource

	// newRand builds the per-call randomness source. Tests swap in a
	// seeded constructor.
	newRand func() random.Source
}

// ProducerOption customises a Producer.
type ProducerOption func(*Producer)

// WithLogger sets the pipeline logger.
func WithLogger(log hclog.Logger) ProducerOption {
	return func(p *Producer) { p.log = log }
}

// WithCache attaches a colour cache consulted before clustering.
func WithCache(cache *ColourCache) ProducerOption {
	return func(p *Producer) { p.cache = cache }
}

// WithRandSource overrides the per-call randomness constructor.
func WithRandSource(newRand func() random.Source) ProducerOption {
	return func(p *Producer) { p.newRand = newRand }
}

// NewProducer resolves the colour configuration and returns a ready
// pipeline. The config must already be validated.
func NewProducer(cfg *config.Config, opts ...ProducerOption) (*Producer, error) {
	p := &Producer{
		cfg:     cfg,
		log:     hclog.NewNullLogger(),
		newRand: random.New,
	}

	var err error
	if p.background, err = config.ParseColorSource(cfg.BackgroundColor); err != nil {
		return nil, fmt.Errorf("background colour: %w", err)
	}
	if p.border, err = config.ParseColorSource(cfg.BorderColor); err != nil {
		return nil, fmt.Errorf("border colour: %w", err)
	}
	if cfg.PaddingColor != "" {
		src, err := config.ParseColorSource(cfg.PaddingColor)
		if err != nil {
			return nil, fmt.Errorf("padding colour: %w", err)
		}
		p.padding = &src
	}

	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// Produce runs the pipeline for one image and returns the composed
// canvas. The id keys the colour cache; an empty id disables caching
// for this call.
func (p *Producer) Produce(img image.Image, id string, target config.Size) (*image.NRGBA, error) {
	if target.Width < 1 || target.Height < 1 {
		return nil, fmt.Errorf("invalid target size %dx%d", target.Width, target.Height)
	}

	estimated := p.estimateColours(img, id)

	layout := Layout{
		Width:    target.Width,
		Height:   target.Height,
		BorderPx: p.cfg.BorderSize,
		Fill:     p.resolve(p.background, estimated),
		Border:   p.resolve(p.border, estimated),
	}
	if p.padding != nil {
		c := p.resolve(*p.padding, estimated)
		layout.Padding = &c
	}

	canvas, err := Compose(img, layout)
	if err != nil {
		return nil, fmt.Errorf("failed to compose canvas: %w", err)
	}
	return canvas, nil
}

// estimateColours runs each clustering algorithm the colour config
// references and returns the ranked colours per algorithm. Failures
// are logged and leave the algorithm's entry missing, which resolves
// to the default colour.
func (p *Producer) estimateColours(img image.Image, id string) map[colour.Algorithm][]colour.Pixel {
	estimated := make(map[colour.Algorithm][]colour.Pixel)

	for _, alg := range p.cfg.DerivedAlgorithms() {
		if p.cache != nil && id != "" {
			if colours, ok := p.cache.Get(id, alg); ok {
				p.log.Debug("using cached colours", "image", id, "algorithm", alg)
				estimated[alg] = colours
				continue
			}
		}

		result, err := p.runClusterer(img, alg)
		if err != nil {
			p.log.Warn("colour estimation failed, falling back to default colour",
				"algorithm", alg, "error", err)
			continue
		}
		colours := result.Colours()
		estimated[alg] = colours

		if p.cache != nil && id != "" {
			p.cache.Put(id, alg, colours)
		}
	}
	return estimated
}

// runClusterer samples the image and clusters the samples with the
// given algorithm, returning clusters ordered by population.
func (p *Producer) runClusterer(img image.Image, alg colour.Algorithm) (*colour.Result, error) {
	var sampler *colour.Sampler
	var clusterer colour.Clusterer

	switch alg {
	case colour.AlgorithmKMeans:
		o := p.cfg.KMeans
		sampler = &colour.Sampler{
			MaxDimension:   o.MaxDimension,
			SubsampleSize:  o.SubsampleSize,
			WhiteThreshold: o.WhiteThreshold,
			Rand:           p.newRand(),
		}
		clusterer = &colour.KMeans{
			K:                 o.ClusterSize,
			MaxIterations:     o.MaxIterations,
			DistanceThreshold: o.DistanceThreshold,
			PruningDistance:   o.PruningDistance,
			Rand:              p.newRand(),
		}
	case colour.AlgorithmMeanShift:
		o := p.cfg.MeanShift
		sampler = &colour.Sampler{
			MaxDimension:   o.MaxDimension,
			SubsampleSize:  o.SubsampleSize,
			WhiteThreshold: o.WhiteThreshold,
			Rand:           p.newRand(),
		}
		clusterer = &colour.MeanShift{
			Radius:        o.Radius,
			Tolerance:     o.Tolerance,
			MaxIterations: o.MaxIterations,
			MaxSeeds:      o.MaxSeeds,
			Rand:          p.newRand(),
			Logger:        p.log,
		}
	default:
		return nil, fmt.Errorf("unknown algorithm %q", alg)
	}

	samples, err := sampler.Sample(img)
	if err != nil {
		return nil, err
	}
	result, err := clusterer.Cluster(samples)
	if err != nil {
		return nil, err
	}
	if len(result.Clusters) == 0 {
		return nil, colour.ErrEmptyResult
	}
	return result, nil
}

// resolve turns a ColorSource into a concrete colour using the
// estimated ranked colours, falling back to the default colour when
// estimation produced nothing for the referenced algorithm.
func (p *Producer) resolve(src config.ColorSource, estimated map[colour.Algorithm][]colour.Pixel) color.NRGBA {
	if !src.Derived {
		return src.Literal
	}

	picked, err := colour.SelectRank(estimated[src.Algorithm], src.Rank)
	if err != nil {
		return defaultColour
	}
	return picked.NRGBA()
}

// EstimatedColours exposes the ranked clusters for one image, for the
// CLI's colour-inspection command.
func (p *Producer) EstimatedColours(img image.Image, alg colour.Algorithm) (*colour.Result, error) {
	return p.runClusterer(img, alg)
}

package colour

import (
	"errors"
	"image"
	"math"

	"github.com/disintegration/imaging"

	"github.com/wallshift/wallshift/internal/random"
)

// ErrEmptyImage is returned when no eligible pixels remain after white
// exclusion. Callers are expected to substitute a default colour.
var ErrEmptyImage = errors.New("no eligible pixels after white exclusion")

// Sampler extracts a bounded set of representative pixels from an
// image for one clustering run.
//
// Transparency is flattened onto a white background before sampling,
// so fully transparent pixels read as white and are subject to the
// white-exclusion rule. A pixel is excluded when its Euclidean
// distance from pure white in RGB space is below WhiteThreshold.
type Sampler struct {
	// MaxDimension is the longest side the image is downscaled to
	// before sampling. 0 disables downscaling.
	MaxDimension int

	// SubsampleSize bounds the number of surviving pixels by drawing a
	// uniform subset without replacement. 0 keeps every pixel.
	SubsampleSize int

	// WhiteThreshold excludes pixels closer than this to pure white.
	// 0 disables exclusion.
	WhiteThreshold float64

	// Rand is the randomness source used for subsampling. Defaults to
	// a time-seeded source when nil.
	Rand random.Source
}

// Sample extracts pixels from img, applying downscaling, white
// exclusion and subsampling in that order.
func (s *Sampler) Sample(img image.Image) ([]Pixel, error) {
	if img == nil {
		return nil, errors.New("image cannot be nil")
	}

	bounds := img.Bounds()
	if s.MaxDimension > 0 && longestSide(bounds) > s.MaxDimension {
		img = imaging.Fit(img, s.MaxDimension, s.MaxDimension, imaging.Lanczos)
		bounds = img.Bounds()
	}

	pixels := make([]Pixel, 0, bounds.Dx()*bounds.Dy())
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			p := flattenOnWhite(img.At(x, y).RGBA())
			if s.WhiteThreshold > 0 && distanceFromWhite(p) < s.WhiteThreshold {
				continue
			}
			pixels = append(pixels, p)
		}
	}

	if len(pixels) == 0 {
		return nil, ErrEmptyImage
	}

	if s.SubsampleSize > 0 && len(pixels) > s.SubsampleSize {
		pixels = s.subsample(pixels)
	}

	return pixels, nil
}

// subsample draws exactly SubsampleSize pixels without replacement.
func (s *Sampler) subsample(pixels []Pixel) []Pixel {
	rnd := s.Rand
	if rnd == nil {
		rnd = random.New()
	}
	picked := make([]Pixel, s.SubsampleSize)
	for i, idx := range rnd.Perm(len(pixels))[:s.SubsampleSize] {
		picked[i] = pixels[idx]
	}
	return picked
}

// flattenOnWhite composites a premultiplied 16-bit RGBA value over a
// white background and narrows it to 8-bit RGB.
func flattenOnWhite(r, g, b, a uint32) Pixel {
	if a == 0 {
		return Pixel{R: 255, G: 255, B: 255}
	}
	if a == 0xffff {
		return Pixel{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(b >> 8)}
	}
	// Values are alpha-premultiplied, so the white contribution is
	// simply the remaining coverage.
	rest := 0xffff - a
	return Pixel{
		R: uint8((r + rest) >> 8),
		G: uint8((g + rest) >> 8),
		B: uint8((b + rest) >> 8),
	}
}

func distanceFromWhite(p Pixel) float64 {
	dr := 255 - float64(p.R)
	dg := 255 - float64(p.G)
	db := 255 - float64(p.B)
	return math.Sqrt(dr*dr + dg*dg + db*db)
}

func longestSide(r image.Rectangle) int {
	return max(r.Dx(), r.Dy())
}

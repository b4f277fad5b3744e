// Package colour estimates representative background and border
// colours from an image by unsupervised pixel clustering.
//
// The pipeline is: sample pixels from the image (Sampler), partition
// them into clusters (KMeans or MeanShift), then pick the centroid of
// the most populous cluster (Result.Select).
package colour

import (
	"fmt"
	"image/color"
	"math"
)

// Pixel is a single 8-bit RGB sample.
type Pixel struct {
	R, G, B uint8
}

// NRGBA returns the pixel as an opaque color.NRGBA.
func (p Pixel) NRGBA() color.NRGBA {
	return color.NRGBA{R: p.R, G: p.G, B: p.B, A: 255}
}

// Hex returns the pixel in "#rrggbb" form.
func (p Pixel) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", p.R, p.G, p.B)
}

// point is a position in RGB space with fractional channels. Centroids
// live in this space until they are rounded back to 8 bits on output.
type point struct {
	R, G, B float64
}

// distance returns the Euclidean distance between two points.
func (p point) distance(other point) float64 {
	dr := p.R - other.R
	dg := p.G - other.G
	db := p.B - other.B
	return math.Sqrt(dr*dr + dg*dg + db*db)
}

// pixel rounds the point back to an 8-bit Pixel using
// round-half-to-even, clamping to [0, 255].
func (p point) pixel() Pixel {
	return Pixel{
		R: roundChannel(p.R),
		G: roundChannel(p.G),
		B: roundChannel(p.B),
	}
}

func roundChannel(v float64) uint8 {
	r := math.RoundToEven(v)
	if r < 0 {
		return 0
	}
	if r > 255 {
		return 255
	}
	return uint8(r)
}

func (p Pixel) point() point {
	return point{R: float64(p.R), G: float64(p.G), B: float64(p.B)}
}

// toPoints converts a sample set into fractional RGB space.
func toPoints(samples []Pixel) []point {
	points := make([]point, len(samples))
	for i, s := range samples {
		points[i] = s.point()
	}
	return points
}

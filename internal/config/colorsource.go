package config

import (
	"fmt"
	"image/color"
	"regexp"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/wallshift/wallshift/internal/colour"
)

// ColorSource is the resolved form of a colour config value: either a
// literal colour, or an instruction to derive one from the image via
// clustering at a given rank. Parsing happens once at pipeline setup,
// not per image.
type ColorSource struct {
	// Literal is the colour when Derived is false.
	Literal color.NRGBA

	// Derived marks a clustering sentinel ("kmeans", "meanshift2", ...).
	Derived bool

	// Algorithm and Rank select the clusterer and which cluster's
	// centroid to use (1 = most common, 2 = second most common).
	Algorithm colour.Algorithm
	Rank      int
}

var (
	sentinelRe = regexp.MustCompile(`^(kmeans|meanshift|mean_shift)(\d*)$`)
	tripleRe   = regexp.MustCompile(`^(\d+),\s*(\d+),\s*(\d+)$`)
)

// namedColors is the small set of colour names accepted in config
// values, matching common CSS keywords.
var namedColors = map[string]color.NRGBA{
	"black":   {R: 0, G: 0, B: 0, A: 255},
	"white":   {R: 255, G: 255, B: 255, A: 255},
	"gray":    {R: 128, G: 128, B: 128, A: 255},
	"grey":    {R: 128, G: 128, B: 128, A: 255},
	"silver":  {R: 192, G: 192, B: 192, A: 255},
	"red":     {R: 255, G: 0, B: 0, A: 255},
	"maroon":  {R: 128, G: 0, B: 0, A: 255},
	"green":   {R: 0, G: 128, B: 0, A: 255},
	"lime":    {R: 0, G: 255, B: 0, A: 255},
	"olive":   {R: 128, G: 128, B: 0, A: 255},
	"blue":    {R: 0, G: 0, B: 255, A: 255},
	"navy":    {R: 0, G: 0, B: 128, A: 255},
	"teal":    {R: 0, G: 128, B: 128, A: 255},
	"aqua":    {R: 0, G: 255, B: 255, A: 255},
	"yellow":  {R: 255, G: 255, B: 0, A: 255},
	"orange":  {R: 255, G: 165, B: 0, A: 255},
	"purple":  {R: 128, G: 0, B: 128, A: 255},
	"fuchsia": {R: 255, G: 0, B: 255, A: 255},
}

// ParseColorSource parses a colour config value.
//
// Accepted forms: a clustering sentinel with an optional trailing rank
// ("kmeans", "kmeans2", "meanshift", "meanshift2"), a "#rrggbb" hex
// value, a decimal "r, g, b" triple, or a colour name.
func ParseColorSource(value string) (ColorSource, error) {
	s := strings.ToLower(strings.TrimSpace(value))
	if s == "" {
		return ColorSource{}, fmt.Errorf("colour value is empty")
	}

	if m := sentinelRe.FindStringSubmatch(s); m != nil {
		alg := colour.AlgorithmKMeans
		if m[1] != "kmeans" {
			alg = colour.AlgorithmMeanShift
		}
		rank := 1
		if m[2] != "" {
			n, err := strconv.Atoi(m[2])
			if err != nil || n < 1 {
				return ColorSource{}, fmt.Errorf("invalid cluster rank in %q", value)
			}
			rank = n
		}
		return ColorSource{Derived: true, Algorithm: alg, Rank: rank}, nil
	}

	if m := tripleRe.FindStringSubmatch(s); m != nil {
		var channels [3]uint8
		for i := 0; i < 3; i++ {
			n, err := strconv.Atoi(m[i+1])
			if err != nil || n < 0 || n > 255 {
				return ColorSource{}, fmt.Errorf("channel out of range in %q", value)
			}
			channels[i] = uint8(n)
		}
		return ColorSource{
			Literal: color.NRGBA{R: channels[0], G: channels[1], B: channels[2], A: 255},
		}, nil
	}

	if strings.HasPrefix(s, "#") {
		c, err := colorful.Hex(s)
		if err != nil {
			return ColorSource{}, fmt.Errorf("invalid hex colour %q: %w", value, err)
		}
		r, g, b := c.RGB255()
		return ColorSource{Literal: color.NRGBA{R: r, G: g, B: b, A: 255}}, nil
	}

	if c, ok := namedColors[s]; ok {
		return ColorSource{Literal: c}, nil
	}

	return ColorSource{}, fmt.Errorf("unrecognised colour %q", value)
}

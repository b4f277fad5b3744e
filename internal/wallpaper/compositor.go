// Package wallpaper composes a source image onto a fixed-size canvas
// and drives the colour-estimation pipeline that fills the leftover
// area.
package wallpaper

import (
	"fmt"
	"image"
	"image/color"

	"github.com/disintegration/imaging"
)

// Layout describes the target canvas for one composition.
type Layout struct {
	// Width and Height are the exact output canvas dimensions.
	Width  int
	Height int

	// BorderPx is the thickness of the solid border drawn around the
	// scaled image, 0 for none.
	BorderPx int

	// Fill colours the canvas area not covered by the scaled image.
	Fill color.NRGBA

	// Padding, when set, overrides Fill for the uncovered area.
	Padding *color.NRGBA

	// Border is the border colour, independent of Fill and Padding.
	Border color.NRGBA
}

// Compose scales img to fit inside the layout's canvas (minus border),
// centres it, and fills everything else with the padding colour when
// set, else the fill colour. The source is never cropped: it is scaled
// proportionally, up or down, until it just fits. The output always
// has exactly the layout's dimensions.
//
// Composition is fully deterministic: identical inputs produce an
// identical canvas.
func Compose(img image.Image, layout Layout) (*image.NRGBA, error) {
	if layout.Width < 1 || layout.Height < 1 {
		return nil, fmt.Errorf("invalid canvas size %dx%d", layout.Width, layout.Height)
	}
	if layout.BorderPx < 0 {
		return nil, fmt.Errorf("invalid border thickness %d", layout.BorderPx)
	}

	innerW := layout.Width - 2*layout.BorderPx
	innerH := layout.Height - 2*layout.BorderPx
	if innerW < 1 || innerH < 1 {
		return nil, fmt.Errorf("border %dpx leaves no room on a %dx%d canvas",
			layout.BorderPx, layout.Width, layout.Height)
	}

	bounds := img.Bounds()
	srcW, srcH := bounds.Dx(), bounds.Dy()
	if srcW < 1 || srcH < 1 {
		return nil, fmt.Errorf("source image is empty")
	}

	scaledW, scaledH := fitDimensions(srcW, srcH, innerW, innerH)

	scaled := img
	if scaledW != srcW || scaledH != srcH {
		scaled = imaging.Resize(img, scaledW, scaledH, imaging.Lanczos)
	}

	base := layout.Fill
	if layout.Padding != nil {
		base = *layout.Padding
	}
	canvas := imaging.New(layout.Width, layout.Height, base)

	x := (layout.Width - scaledW) / 2
	y := (layout.Height - scaledH) / 2

	if layout.BorderPx > 0 {
		b := layout.BorderPx
		frame := imaging.New(scaledW+2*b, scaledH+2*b, layout.Border)
		canvas = imaging.Paste(canvas, frame, image.Pt(x-b, y-b))
	}

	return imaging.Paste(canvas, scaled, image.Pt(x, y)), nil
}

// fitDimensions scales (srcW, srcH) proportionally to the largest size
// that fits inside (maxW, maxH).
func fitDimensions(srcW, srcH, maxW, maxH int) (int, int) {
	srcRatio := float64(srcW) / float64(srcH)
	maxRatio := float64(maxW) / float64(maxH)

	if srcRatio > maxRatio {
		h := int(float64(maxW)/srcRatio + 0.5)
		return maxW, max(h, 1)
	}
	w := int(float64(maxH)*srcRatio + 0.5)
	return max(w, 1), maxH
}

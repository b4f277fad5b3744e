package colour

import (
	"errors"
	"image"
	"image/color"
	"testing"

	"github.com/wallshift/wallshift/internal/random"
)

// solidImage returns a w x h image filled with a single colour.
func solidImage(w, h int, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

// splitImage returns a w x h image whose left half is one colour and
// right half another.
func splitImage(w, h int, left, right color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if x < w/2 {
				img.SetNRGBA(x, y, left)
			} else {
				img.SetNRGBA(x, y, right)
			}
		}
	}
	return img
}

func TestSamplerAllPixels(t *testing.T) {
	img := solidImage(8, 4, color.NRGBA{R: 10, G: 20, B: 30, A: 255})

	sampler := &Sampler{}
	samples, err := sampler.Sample(img)
	if err != nil {
		t.Fatalf("Sample() error = %v", err)
	}

	if len(samples) != 32 {
		t.Errorf("Expected 32 samples, got %d", len(samples))
	}
	for _, s := range samples {
		if s != (Pixel{R: 10, G: 20, B: 30}) {
			t.Fatalf("Unexpected sample %+v", s)
		}
	}
}

func TestSamplerWhiteExclusion(t *testing.T) {
	tests := []struct {
		name      string
		img       image.Image
		threshold float64
		want      int
		wantErr   error
	}{
		{
			name:      "all white image is empty",
			img:       solidImage(4, 4, color.NRGBA{R: 255, G: 255, B: 255, A: 255}),
			threshold: 100,
			wantErr:   ErrEmptyImage,
		},
		{
			name:      "threshold zero keeps white pixels",
			img:       solidImage(4, 4, color.NRGBA{R: 255, G: 255, B: 255, A: 255}),
			threshold: 0,
			want:      16,
		},
		{
			name: "near-white pixels excluded",
			img: splitImage(4, 4,
				color.NRGBA{R: 250, G: 250, B: 250, A: 255},
				color.NRGBA{R: 20, G: 20, B: 20, A: 255}),
			threshold: 100,
			want:      8,
		},
		{
			name:      "transparent pixels flatten to white and are excluded",
			img:       solidImage(4, 4, color.NRGBA{A: 0}),
			threshold: 100,
			wantErr:   ErrEmptyImage,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sampler := &Sampler{WhiteThreshold: tt.threshold}
			samples, err := sampler.Sample(tt.img)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Sample() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Sample() error = %v", err)
			}
			if len(samples) != tt.want {
				t.Errorf("Expected %d samples, got %d", tt.want, len(samples))
			}
		})
	}
}

func TestSamplerSubsample(t *testing.T) {
	img := splitImage(10, 10,
		color.NRGBA{R: 200, G: 0, B: 0, A: 255},
		color.NRGBA{R: 0, G: 0, B: 200, A: 255})

	sampler := &Sampler{
		SubsampleSize: 25,
		Rand:          random.NewSeeded(1),
	}
	samples, err := sampler.Sample(img)
	if err != nil {
		t.Fatalf("Sample() error = %v", err)
	}
	if len(samples) != 25 {
		t.Errorf("Expected exactly 25 samples, got %d", len(samples))
	}
}

func TestSamplerSubsampleSmallerThanLimit(t *testing.T) {
	img := solidImage(3, 3, color.NRGBA{R: 1, G: 2, B: 3, A: 255})

	sampler := &Sampler{SubsampleSize: 100}
	samples, err := sampler.Sample(img)
	if err != nil {
		t.Fatalf("Sample() error = %v", err)
	}
	if len(samples) != 9 {
		t.Errorf("Expected all 9 samples, got %d", len(samples))
	}
}

func TestSamplerDownscale(t *testing.T) {
	img := solidImage(40, 20, color.NRGBA{R: 50, G: 60, B: 70, A: 255})

	sampler := &Sampler{MaxDimension: 10}
	samples, err := sampler.Sample(img)
	if err != nil {
		t.Fatalf("Sample() error = %v", err)
	}

	// Longest side scaled from 40 to 10 keeps the aspect ratio: 10x5.
	if len(samples) != 50 {
		t.Errorf("Expected 50 samples after downscale, got %d", len(samples))
	}
}

func TestSamplerNilImage(t *testing.T) {
	sampler := &Sampler{}
	if _, err := sampler.Sample(nil); err == nil {
		t.Fatal("Expected error for nil image")
	}
}

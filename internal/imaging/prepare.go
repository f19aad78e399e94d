package imaging

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/anthonynsimon/bild/adjust"
	"github.com/anthonynsimon/bild/effect"
	"github.com/disintegration/imaging"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/ironsheep/prime-image/internal/digits"
)

// GrayMode selects how a color pixel becomes a single intensity.
type GrayMode string

const (
	// GrayAverage is the plain channel mean (r+g+b)/3.
	GrayAverage GrayMode = "average"

	// GrayLuminance weights channels by perceived brightness.
	GrayLuminance GrayMode = "luminance"

	// GrayLightness uses CIE L*, which spreads mid-tones more evenly.
	GrayLightness GrayMode = "lightness"
)

// ParseGrayMode validates a mode name. An empty name selects GrayAverage.
func ParseGrayMode(s string) (GrayMode, error) {
	switch GrayMode(s) {
	case "", GrayAverage:
		return GrayAverage, nil
	case GrayLuminance, GrayLightness:
		return GrayMode(s), nil
	default:
		return "", fmt.Errorf("unknown grayscale mode: %s", s)
	}
}

// Options controls the conversion of an image into a digit grid.
type Options struct {
	// Width and Height bound the grid. The image is scaled down to fit while
	// keeping its aspect ratio, so the actual grid may be narrower or shorter.
	Width  int
	Height int

	// Region optionally crops the source before scaling.
	Region *Region

	// Gray selects the grayscale conversion.
	Gray GrayMode

	// Contrast adjusts contrast before conversion, in [-1, 1]. Zero leaves
	// the image untouched.
	Contrast float64

	// Dither diffuses the color-to-gray error with Floyd-Steinberg weights.
	Dither bool

	// Levels quantizes intensities to this many evenly spaced gray levels
	// (2-256). 256 keeps full resolution.
	Levels int

	// Modulus maps intensities to digits: 10 or 9.
	Modulus int
}

// DefaultOptions returns the 30x60 grid the command line tool uses.
func DefaultOptions() Options {
	return Options{
		Width:   30,
		Height:  60,
		Gray:    GrayAverage,
		Dither:  true,
		Levels:  256,
		Modulus: digits.DefaultModulus,
	}
}

// Extraction is a digit grid derived from an image.
type Extraction struct {
	Digits digits.Sequence `json:"-"`
	Width  int             `json:"width"`
	Height int             `json:"height"`
}

// Extract runs Prepare and maps the resulting intensities to digits in
// row-major order: cell (x, y) becomes digit y*Width + x.
func Extract(img image.Image, opts Options) (*Extraction, error) {
	gray, err := Prepare(img, opts)
	if err != nil {
		return nil, err
	}
	pix, w, h := Intensities(gray)
	seq, err := digits.FromPixels(pix, opts.Modulus)
	if err != nil {
		return nil, err
	}
	return &Extraction{Digits: seq, Width: w, Height: h}, nil
}

// Prepare crops, scales, adjusts and converts an image to grayscale.
//
// # Pipeline
//
//  1. Optional crop to opts.Region
//  2. Lanczos downscale to fit within Width x Height (never upscales)
//  3. Optional contrast adjustment
//  4. Grayscale conversion by opts.Gray, with optional Floyd-Steinberg
//     error diffusion and quantization to opts.Levels
func Prepare(img image.Image, opts Options) (*image.Gray, error) {
	if opts.Width < 1 || opts.Height < 1 {
		return nil, fmt.Errorf("invalid grid size %dx%d", opts.Width, opts.Height)
	}
	mode, err := ParseGrayMode(string(opts.Gray))
	if err != nil {
		return nil, err
	}
	levels := opts.Levels
	if levels < 2 || levels > 256 {
		levels = 256
	}

	src := img
	if opts.Region != nil {
		if src, err = Crop(src, *opts.Region); err != nil {
			return nil, err
		}
	}

	src = imaging.Fit(src, opts.Width, opts.Height, imaging.Lanczos)

	if opts.Contrast != 0 {
		c := math.Max(-1, math.Min(1, opts.Contrast))
		src = adjust.Contrast(src, c)
	}

	if mode == GrayLuminance && !opts.Dither && levels == 256 {
		return rebase(effect.Grayscale(src)), nil
	}
	return diffuse(src, grayFunc(mode), levels, opts.Dither), nil
}

// Intensities flattens a grayscale image row-major.
func Intensities(gray *image.Gray) (pix []uint8, width, height int) {
	b := gray.Bounds()
	width, height = b.Dx(), b.Dy()
	pix = make([]uint8, 0, width*height)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		off := gray.PixOffset(b.Min.X, y)
		pix = append(pix, gray.Pix[off:off+width]...)
	}
	return pix, width, height
}

func grayFunc(mode GrayMode) func(r, g, b float64) float64 {
	switch mode {
	case GrayLuminance:
		return func(r, g, b float64) float64 {
			return 0.299*r + 0.587*g + 0.114*b
		}
	case GrayLightness:
		return func(r, g, b float64) float64 {
			l, _, _ := colorful.Color{R: r / 255, G: g / 255, B: b / 255}.Lab()
			return l * 255
		}
	default:
		return func(r, g, b float64) float64 {
			return (r + g + b) / 3
		}
	}
}

// diffuse converts src to gray, optionally spreading each pixel's per-channel
// error to its unvisited neighbours (7/16 right, 3/16 below-left, 5/16 below,
// 1/16 below-right).
func diffuse(src image.Image, toGray func(r, g, b float64) float64, levels int, dither bool) *image.Gray {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()

	plane := make([][3]float64, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			r, g, bl, _ := src.At(b.Min.X+x, b.Min.Y+y).RGBA()
			plane[y*w+x] = [3]float64{float64(r >> 8), float64(g >> 8), float64(bl >> 8)}
		}
	}

	step := 255.0 / float64(levels-1)
	out := image.NewGray(image.Rect(0, 0, w, h))

	spread := func(x, y int, e [3]float64, weight float64) {
		if x < 0 || x >= w || y >= h {
			return
		}
		p := &plane[y*w+x]
		for c := 0; c < 3; c++ {
			p[c] += e[c] * weight
		}
	}

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			p := plane[y*w+x]
			for c := range p {
				p[c] = clamp255(p[c])
			}
			q := math.Round(clamp255(toGray(p[0], p[1], p[2]))/step) * step
			q = clamp255(q)
			out.SetGray(x, y, color.Gray{Y: uint8(math.Round(q))})

			if !dither {
				continue
			}
			e := [3]float64{p[0] - q, p[1] - q, p[2] - q}
			spread(x+1, y, e, 7.0/16)
			spread(x-1, y+1, e, 3.0/16)
			spread(x, y+1, e, 5.0/16)
			spread(x+1, y+1, e, 1.0/16)
		}
	}
	return out
}

// rebase moves a gray image's origin to (0, 0).
func rebase(g *image.Gray) *image.Gray {
	if g.Bounds().Min == (image.Point{}) {
		return g
	}
	out := image.NewGray(image.Rect(0, 0, g.Bounds().Dx(), g.Bounds().Dy()))
	pix, _, _ := Intensities(g)
	copy(out.Pix, pix)
	return out
}

func clamp255(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return v
}

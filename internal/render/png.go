package render

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/ironsheep/prime-image/internal/digits"
)

// Each cell is a 3x5 glyph with one pixel of padding on every side.
const (
	cellWidth  = 5
	cellHeight = 7
)

// glyphs is a 3x5 pixel font for the ten digits.
var glyphs = [10][5]string{
	{"111", "101", "101", "101", "111"},
	{"010", "110", "010", "010", "111"},
	{"111", "001", "111", "100", "111"},
	{"111", "001", "111", "001", "111"},
	{"101", "101", "111", "001", "001"},
	{"111", "100", "111", "001", "111"},
	{"111", "100", "111", "101", "111"},
	{"111", "001", "001", "001", "001"},
	{"111", "101", "111", "101", "111"},
	{"111", "101", "111", "001", "111"},
}

// PNGOptions controls raster output.
type PNGOptions struct {
	// Scale multiplies every font pixel. Values below 1 are treated as 1.
	Scale int

	// Shade fills each cell with Shade(d); otherwise cells are black with
	// white digits.
	Shade bool
}

// Image draws the grid as an RGBA image.
func Image(seq digits.Sequence, width, height int, opts PNGOptions) (*image.RGBA, error) {
	grid, err := rows(seq, width, height)
	if err != nil {
		return nil, err
	}
	scale := max(opts.Scale, 1)

	img := image.NewRGBA(image.Rect(0, 0, width*cellWidth*scale, height*cellHeight*scale))
	for y, row := range grid {
		for x, d := range row {
			bg, fg := color.RGBA{0, 0, 0, 255}, color.RGBA{255, 255, 255, 255}
			if opts.Shade {
				bg, fg = toRGBA(Shade(d)), toRGBA(Ink(d))
			}
			drawCell(img, x*cellWidth*scale, y*cellHeight*scale, scale, d, fg, bg)
		}
	}
	return img, nil
}

// PNG encodes the grid image as PNG.
func PNG(w io.Writer, seq digits.Sequence, width, height int, opts PNGOptions) error {
	img, err := Image(seq, width, height, opts)
	if err != nil {
		return err
	}
	if err := png.Encode(w, img); err != nil {
		return fmt.Errorf("failed to encode image: %w", err)
	}
	return nil
}

// drawCell paints one cell with its top-left corner at (x, y).
func drawCell(img *image.RGBA, x, y, scale int, d uint8, fg, bg color.RGBA) {
	for dy := 0; dy < cellHeight*scale; dy++ {
		for dx := 0; dx < cellWidth*scale; dx++ {
			img.SetRGBA(x+dx, y+dy, bg)
		}
	}
	for row, line := range glyphs[d] {
		for col, pixel := range line {
			if pixel != '1' {
				continue
			}
			px := x + (col+1)*scale
			py := y + (row+1)*scale
			for sy := 0; sy < scale; sy++ {
				for sx := 0; sx < scale; sx++ {
					img.SetRGBA(px+sx, py+sy, fg)
				}
			}
		}
	}
}

func toRGBA(c colorful.Color) color.RGBA {
	r, g, b := c.RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 255}
}

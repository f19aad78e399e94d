package render

import (
	"errors"
	"fmt"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/ironsheep/prime-image/internal/digits"
)

// ErrDimensions is returned when a sequence does not fill the grid exactly.
var ErrDimensions = errors.New("sequence does not match grid dimensions")

var (
	darkest  = colorful.Color{R: 0.05, G: 0.05, B: 0.08}
	lightest = colorful.Color{R: 0.96, G: 0.96, B: 0.92}
	inkDark  = colorful.Color{R: 0.1, G: 0.1, B: 0.1}
	inkLight = colorful.Color{R: 0.95, G: 0.95, B: 0.95}
)

// rows splits seq into height rows of width digits.
func rows(seq digits.Sequence, width, height int) ([]digits.Sequence, error) {
	if width < 1 || height < 1 || seq.Len() != width*height {
		return nil, fmt.Errorf("%w: %d digits for %dx%d", ErrDimensions, seq.Len(), width, height)
	}
	out := make([]digits.Sequence, height)
	for y := range out {
		out[y] = seq[y*width : (y+1)*width]
	}
	return out, nil
}

// Shade returns the background color for a digit: 0 is darkest, 9 lightest,
// blended in Lab space so steps look even.
func Shade(d uint8) colorful.Color {
	return darkest.BlendLab(lightest, float64(d)/9).Clamped()
}

// Ink returns a text color readable on Shade(d).
func Ink(d uint8) colorful.Color {
	l, _, _ := Shade(d).Lab()
	if l < 0.55 {
		return inkLight
	}
	return inkDark
}

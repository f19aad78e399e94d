package render

import (
	"bytes"
	"errors"
	"image/color"
	"image/png"
	"strings"
	"testing"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/ironsheep/prime-image/internal/digits"
)

func mustParse(t *testing.T, s string) digits.Sequence {
	t.Helper()
	seq, err := digits.Parse(s)
	if err != nil {
		t.Fatalf("Parse(%q) failed: %v", s, err)
	}
	return seq
}

func TestText(t *testing.T) {
	seq := mustParse(t, "123456")

	var buf bytes.Buffer
	if err := Text(&buf, seq, 3, 2, TextOptions{ShowNumber: true}); err != nil {
		t.Fatalf("Text failed: %v", err)
	}

	want := "123\n456\nnum = 123456\n"
	if buf.String() != want {
		t.Errorf("got %q, want %q", buf.String(), want)
	}
}

func TestText_RowMajorNotTransposed(t *testing.T) {
	// Two rows of three: a transposed layout would print three rows of two.
	seq := mustParse(t, "100200")

	var buf bytes.Buffer
	if err := Text(&buf, seq, 3, 2, TextOptions{}); err != nil {
		t.Fatalf("Text failed: %v", err)
	}
	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	if len(lines) != 2 || lines[0] != "100" || lines[1] != "200" {
		t.Errorf("got lines %q, want [100 200]", lines)
	}
}

func TestText_Shade(t *testing.T) {
	seq := mustParse(t, "09")

	var buf bytes.Buffer
	if err := Text(&buf, seq, 2, 1, TextOptions{Shade: true}); err != nil {
		t.Fatalf("Text failed: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "\x1b[48;5;232m") {
		t.Errorf("missing darkest background in %q", out)
	}
	if !strings.Contains(out, "\x1b[48;5;255m") {
		t.Errorf("missing lightest background in %q", out)
	}
	if !strings.HasSuffix(out, "\x1b[0m\n") {
		t.Errorf("row not reset: %q", out)
	}
}

func TestDimensionMismatch(t *testing.T) {
	seq := mustParse(t, "12345")
	var buf bytes.Buffer

	if err := Text(&buf, seq, 3, 2, TextOptions{}); !errors.Is(err, ErrDimensions) {
		t.Errorf("Text: got %v, want ErrDimensions", err)
	}
	if err := HTML(&buf, seq, 3, 2, HTMLOptions{}); !errors.Is(err, ErrDimensions) {
		t.Errorf("HTML: got %v, want ErrDimensions", err)
	}
	if err := PNG(&buf, seq, 3, 2, PNGOptions{}); !errors.Is(err, ErrDimensions) {
		t.Errorf("PNG: got %v, want ErrDimensions", err)
	}
	if err := Text(&buf, digits.Sequence{}, 0, 0, TextOptions{}); !errors.Is(err, ErrDimensions) {
		t.Errorf("Text with empty grid: got %v, want ErrDimensions", err)
	}
}

func TestHTML(t *testing.T) {
	seq := mustParse(t, "170319")

	var buf bytes.Buffer
	err := HTML(&buf, seq, 3, 2, HTMLOptions{Title: "Test <prime>", Caption: "found in 3 trials"})
	if err != nil {
		t.Fatalf("HTML failed: %v", err)
	}

	out := buf.String()
	if !strings.HasPrefix(out, "<!DOCTYPE html>") {
		t.Errorf("missing doctype: %q", out[:min(40, len(out))])
	}
	if !strings.Contains(out, "Test &lt;prime&gt;") {
		t.Error("title not escaped")
	}
	if !strings.Contains(out, "found in 3 trials") {
		t.Error("missing caption")
	}

	doc, err := html.Parse(strings.NewReader(out))
	if err != nil {
		t.Fatalf("output does not parse: %v", err)
	}

	var rowsSeen, cells []string
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.DataAtom {
			case atom.Tr:
				rowsSeen = append(rowsSeen, "")
			case atom.Td:
				cells = append(cells, n.FirstChild.Data)
				rowsSeen[len(rowsSeen)-1] += n.FirstChild.Data
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	if len(cells) != 6 {
		t.Fatalf("cells: got %d, want 6", len(cells))
	}
	if len(rowsSeen) != 2 || rowsSeen[0] != "170" || rowsSeen[1] != "319" {
		t.Errorf("rows: got %q, want [170 319]", rowsSeen)
	}
	if !strings.Contains(out, "170319</p>") {
		t.Error("missing full number")
	}
}

func TestShade_Monotonic(t *testing.T) {
	prev := -1.0
	for d := uint8(0); d <= 9; d++ {
		l, _, _ := Shade(d).Lab()
		if l <= prev {
			t.Errorf("Shade(%d) lightness %.3f not above Shade(%d) %.3f", d, l, d-1, prev)
		}
		prev = l
	}
	if Ink(0) == Ink(9) {
		t.Error("Ink should differ between darkest and lightest cells")
	}
}

func TestPNG(t *testing.T) {
	seq := mustParse(t, "1234")

	var buf bytes.Buffer
	if err := PNG(&buf, seq, 2, 2, PNGOptions{Scale: 2}); err != nil {
		t.Fatalf("PNG failed: %v", err)
	}

	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatalf("failed to decode PNG: %v", err)
	}
	b := img.Bounds()
	if b.Dx() != 2*cellWidth*2 || b.Dy() != 2*cellHeight*2 {
		t.Errorf("dimensions: got %dx%d, want %dx%d", b.Dx(), b.Dy(), 2*cellWidth*2, 2*cellHeight*2)
	}
}

func TestImage_Glyph(t *testing.T) {
	img, err := Image(mustParse(t, "7"), 1, 1, PNGOptions{})
	if err != nil {
		t.Fatalf("Image failed: %v", err)
	}

	white := color.RGBA{255, 255, 255, 255}
	black := color.RGBA{0, 0, 0, 255}

	// Padding is background.
	if got := img.RGBAAt(0, 0); got != black {
		t.Errorf("padding: got %v, want black", got)
	}
	// "7" top row is solid.
	for x := 1; x <= 3; x++ {
		if got := img.RGBAAt(x, 1); got != white {
			t.Errorf("top stroke at (%d,1): got %v, want white", x, got)
		}
	}
	// Second row of "7" is "001".
	if got := img.RGBAAt(1, 2); got != black {
		t.Errorf("(1,2): got %v, want black", got)
	}
	if got := img.RGBAAt(3, 2); got != white {
		t.Errorf("(3,2): got %v, want white", got)
	}
}

func TestImage_ShadeBackground(t *testing.T) {
	img, err := Image(mustParse(t, "09"), 2, 1, PNGOptions{Shade: true})
	if err != nil {
		t.Fatalf("Image failed: %v", err)
	}
	dark := img.RGBAAt(0, 0)
	light := img.RGBAAt(cellWidth, 0)
	if int(dark.R)+int(dark.G)+int(dark.B) >= int(light.R)+int(light.G)+int(light.B) {
		t.Errorf("cell 0 (%v) should be darker than cell 9 (%v)", dark, light)
	}
}

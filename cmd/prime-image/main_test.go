package main

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writePNG(t *testing.T, width, height int, c color.Color) string {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, c)
		}
	}

	path := filepath.Join(t.TempDir(), "input.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create image: %v", err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatalf("failed to encode image: %v", err)
	}
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	root := newRootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestConvert(t *testing.T) {
	// 127 mod 10 = 7, so the grid reads 77 and a prime is one digit away.
	imgPath := writePNG(t, 2, 1, color.RGBA{127, 127, 127, 255})
	htmlPath := filepath.Join(t.TempDir(), "prime.html")
	pngPath := filepath.Join(t.TempDir(), "prime.png")

	out, err := execute(t, "convert", imgPath,
		"--width", "2", "--height", "1",
		"--seed", "11", "--shade", "never",
		"--html", htmlPath, "--png", pngPath)
	if err != nil {
		t.Fatalf("convert failed: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 2 {
		t.Fatalf("output lines: got %q, want grid row and number", lines)
	}
	switch lines[0] {
	case "71", "73", "79":
	default:
		t.Errorf("grid row: got %q, want 71, 73 or 79", lines[0])
	}
	if lines[1] != "num = "+lines[0] {
		t.Errorf("number line: got %q", lines[1])
	}

	page, err := os.ReadFile(htmlPath)
	if err != nil {
		t.Fatalf("html not written: %v", err)
	}
	if !strings.Contains(string(page), "Found a 2-digit prime") {
		t.Error("html page missing search caption")
	}
	if _, err := os.Stat(pngPath); err != nil {
		t.Errorf("png not written: %v", err)
	}
}

func TestConvert_NextMode(t *testing.T) {
	imgPath := writePNG(t, 2, 1, color.RGBA{127, 127, 127, 255})

	out, err := execute(t, "convert", imgPath, "--width", "2", "--height", "1", "--mode", "next", "--shade", "never")
	if err != nil {
		t.Fatalf("convert failed: %v", err)
	}
	if !strings.HasPrefix(out, "79\n") {
		t.Errorf("got %q, want 79 (next prime after 77)", out)
	}
}

func TestConvert_Errors(t *testing.T) {
	imgPath := writePNG(t, 4, 4, color.RGBA{0, 0, 0, 255})

	tests := []struct {
		name string
		args []string
	}{
		{"missing image", []string{"convert", filepath.Join(t.TempDir(), "none.png")}},
		{"no argument", []string{"convert"}},
		{"bad modulus", []string{"convert", imgPath, "--modulus", "7"}},
		{"bad mode", []string{"convert", imgPath, "--mode", "exhaustive"}},
		{"bad region", []string{"convert", imgPath, "--region", "middle"}},
		{"single digit", []string{"convert", imgPath, "--width", "1", "--height", "1"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := execute(t, tt.args...); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestCheck(t *testing.T) {
	tests := []struct {
		digits string
		want   string
	}{
		{"97", "2-digit number is probably prime (2 rounds)\n"},
		{"1000000", "7-digit number is composite (2 rounds)\n"},
	}
	for _, tt := range tests {
		t.Run(tt.digits, func(t *testing.T) {
			out, err := execute(t, "check", tt.digits)
			if err != nil {
				t.Fatalf("check failed: %v", err)
			}
			if out != tt.want {
				t.Errorf("got %q, want %q", out, tt.want)
			}
		})
	}

	if _, err := execute(t, "check", "12x"); err == nil {
		t.Error("expected error for invalid digits")
	}
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "version")
	if err != nil {
		t.Fatalf("version failed: %v", err)
	}
	if !strings.HasPrefix(out, "prime-image dev\n") {
		t.Errorf("got %q", out)
	}
}

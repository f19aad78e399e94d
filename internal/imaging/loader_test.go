package imaging

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

// writeTestImage encodes img as PNG under name in a per-test directory.
func writeTestImage(t *testing.T, name string, img image.Image) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create %s: %v", name, err)
	}
	defer f.Close()

	if err := png.Encode(f, img); err != nil {
		t.Fatalf("failed to encode image: %v", err)
	}
	return path
}

// createTestImage creates a single-color PNG and returns its path.
func createTestImage(t *testing.T, width, height int, c color.Color) string {
	t.Helper()
	return writeTestImage(t, "test-image.png", createInMemoryImage(width, height, c))
}

// createTestImageWithPattern creates a PNG split into quadrants: red top-left,
// green top-right, blue bottom-left and white bottom-right.
func createTestImageWithPattern(t *testing.T, width, height int) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			var c color.Color
			switch {
			case x < width/2 && y < height/2:
				c = color.RGBA{255, 0, 0, 255}
			case y < height/2:
				c = color.RGBA{0, 255, 0, 255}
			case x < width/2:
				c = color.RGBA{0, 0, 255, 255}
			default:
				c = color.RGBA{255, 255, 255, 255}
			}
			img.Set(x, y, c)
		}
	}
	return writeTestImage(t, "test-pattern.png", img)
}

func TestImageCache_Load(t *testing.T) {
	cache := NewImageCache()
	imgPath := createTestImage(t, 100, 100, color.RGBA{255, 0, 0, 255})

	img1, err := cache.Load(imgPath)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	bounds := img1.Bounds()
	if bounds.Dx() != 100 || bounds.Dy() != 100 {
		t.Errorf("unexpected dimensions: got %dx%d, want 100x100", bounds.Dx(), bounds.Dy())
	}

	// Second load should return cached image
	img2, err := cache.Load(imgPath)
	if err != nil {
		t.Fatalf("second Load failed: %v", err)
	}
	if img1 != img2 {
		t.Error("second Load did not return cached image")
	}
}

func TestImageCache_Load_Errors(t *testing.T) {
	cache := NewImageCache()

	if _, err := cache.Load("/nonexistent/path/to/image.png"); err == nil {
		t.Error("Load should fail for non-existent file")
	}

	garbage := filepath.Join(t.TempDir(), "invalid.png")
	if err := os.WriteFile(garbage, []byte("not an image"), 0o644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}
	if _, err := cache.Load(garbage); err == nil {
		t.Error("Load should fail for invalid image data")
	}

	if cache.Len() != 0 {
		t.Errorf("failed loads were cached: Len = %d", cache.Len())
	}
}

func TestImageCache_Lifecycle(t *testing.T) {
	cache := NewImageCache()
	a := writeTestImage(t, "a.png", createInMemoryImage(5, 5, color.Black))
	b := writeTestImage(t, "b.png", createInMemoryImage(5, 5, color.White))

	for _, p := range []string{a, b, a} {
		if _, err := cache.Load(p); err != nil {
			t.Fatalf("Load failed: %v", err)
		}
	}
	if cache.Len() != 2 {
		t.Errorf("after loads: Len = %d, want 2", cache.Len())
	}

	cache.Evict(a)
	cache.Evict("/never/loaded.png")
	if cache.Len() != 1 {
		t.Errorf("after Evict: Len = %d, want 1", cache.Len())
	}

	cache.Clear()
	if cache.Len() != 0 {
		t.Errorf("after Clear: Len = %d, want 0", cache.Len())
	}
}

func TestImageCache_ConcurrentAccess(t *testing.T) {
	cache := NewImageCache()
	imgPath := createTestImage(t, 50, 50, color.RGBA{128, 128, 128, 255})

	var wg sync.WaitGroup
	errs := make(chan error, 100)

	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := cache.Load(imgPath); err != nil {
				errs <- err
			}
		}()
	}

	wg.Wait()
	close(errs)

	for err := range errs {
		t.Errorf("concurrent Load error: %v", err)
	}
}

func TestLoadFile_ExtraFormats(t *testing.T) {
	src := createInMemoryImage(6, 4, color.RGBA{40, 80, 120, 255})

	tests := []struct {
		name   string
		encode func(f *os.File) error
	}{
		{"image.bmp", func(f *os.File) error { return bmp.Encode(f, src) }},
		{"image.tiff", func(f *os.File) error { return tiff.Encode(f, src, nil) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), tt.name)
			f, err := os.Create(path)
			if err != nil {
				t.Fatalf("failed to create file: %v", err)
			}
			if err := tt.encode(f); err != nil {
				t.Fatalf("failed to encode: %v", err)
			}
			f.Close()

			img, err := LoadFile(path)
			if err != nil {
				t.Fatalf("LoadFile failed: %v", err)
			}
			if b := img.Bounds(); b.Dx() != 6 || b.Dy() != 4 {
				t.Errorf("dimensions: got %dx%d, want 6x4", b.Dx(), b.Dy())
			}
			r, g, bl, _ := img.At(2, 2).RGBA()
			if r>>8 != 40 || g>>8 != 80 || bl>>8 != 120 {
				t.Errorf("pixel: got (%d,%d,%d), want (40,80,120)", r>>8, g>>8, bl>>8)
			}
		})
	}
}

func TestLoadImageInfo(t *testing.T) {
	cache := NewImageCache()
	imgPath := createTestImage(t, 200, 150, color.RGBA{255, 128, 64, 255})

	info, err := LoadImageInfo(cache, imgPath)
	if err != nil {
		t.Fatalf("LoadImageInfo failed: %v", err)
	}

	if info.Width != 200 || info.Height != 150 {
		t.Errorf("dimensions: got %dx%d, want 200x150", info.Width, info.Height)
	}
	if info.Format != "png" {
		t.Errorf("Format: got %s, want png", info.Format)
	}
	if info.FileSizeBytes <= 0 {
		t.Error("FileSizeBytes should be positive")
	}
	if info.MaxDigits != 200*150 {
		t.Errorf("MaxDigits: got %d, want %d", info.MaxDigits, 200*150)
	}

	if _, err := LoadImageInfo(cache, "/nonexistent/image.png"); err == nil {
		t.Error("LoadImageInfo should fail for non-existent file")
	}
}

func TestFormatFromExt(t *testing.T) {
	tests := []struct {
		path   string
		format string
	}{
		{"a.png", "png"},
		{"a.jpg", "jpeg"},
		{"a.JPEG", "jpeg"},
		{"a.gif", "gif"},
		{"a.bmp", "bmp"},
		{"a.tif", "tiff"},
		{"a.TIFF", "tiff"},
		{"a.webp", "webp"},
		{"a.xyz", "unknown"},
		{"noext", "unknown"},
	}

	for _, tt := range tests {
		if got := formatFromExt(tt.path); got != tt.format {
			t.Errorf("formatFromExt(%q): got %s, want %s", tt.path, got, tt.format)
		}
	}
}

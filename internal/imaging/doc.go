// Package imaging turns pictures into digit grids.
//
// This package loads images, scales them into a grid of cells, converts each
// cell to one grayscale intensity, and maps intensities to decimal digits. All
// operations work with standard Go image.Image types and use a coordinate
// system where (0,0) is at the top-left corner, X increases rightward, and Y
// increases downward.
//
// # Grid Layout
//
// A grid of Width columns and Height rows is flattened row-major: the digit
// for cell (x, y) sits at index y*Width + x. The render package reads digits
// back with the same layout, so a picture never comes out transposed.
//
// # Grayscale Conversion
//
// Three conversions are available:
//   - average: (R+G+B)/3, the historical behaviour
//   - luminance: ITU-R BT.601 weights, closer to perceived brightness
//   - lightness: CIE L*, perceptually uniform
//
// Floyd-Steinberg dithering spreads the per-channel difference between a
// pixel and its gray value to later pixels. With fewer than 256 gray levels
// this preserves tone through texture.
//
// # Thread Safety
//
// The ImageCache type is safe for concurrent use. All other functions are
// stateless.
//
// # Error Handling
//
// Functions return errors for invalid inputs such as:
//   - Regions outside image bounds or with x1 >= x2 or y1 >= y2
//   - Grid sizes below 1x1
//   - Unknown grayscale modes or digit moduli
//   - File I/O and decoding errors during image loading
package imaging

// Package render lays a digit sequence out as a picture.
//
// Every renderer reads the sequence row-major: Height rows of Width digits,
// with the digit for cell (x, y) at index y*Width + x. This is the layout the
// imaging package extracts with, so a round trip keeps the picture upright.
//
// Three outputs are provided:
//   - Text: plain digit rows for a console, optionally shaded with ANSI gray
//     backgrounds, followed by the full number
//   - HTML: a standalone page with one shaded table cell per digit
//   - PNG: a raster drawn with a 3x5 pixel digit font
//
// A sequence whose length is not Width*Height is rejected with ErrDimensions.
package render

package render

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"golang.org/x/term"

	"github.com/ironsheep/prime-image/internal/digits"
)

// TextOptions controls console output.
type TextOptions struct {
	// Shade paints each digit on an ANSI 256-color gray background.
	Shade bool

	// ShowNumber appends a "num = <digits>" line after the grid.
	ShowNumber bool
}

// Text writes the grid as height lines of width digits.
func Text(w io.Writer, seq digits.Sequence, width, height int, opts TextOptions) error {
	grid, err := rows(seq, width, height)
	if err != nil {
		return err
	}

	bw := bufio.NewWriter(w)
	for _, row := range grid {
		for _, d := range row {
			if opts.Shade {
				fmt.Fprintf(bw, "\x1b[48;5;%dm\x1b[38;5;%dm%c", grayIndex(d), inkIndex(d), '0'+d)
			} else {
				bw.WriteByte('0' + d)
			}
		}
		if opts.Shade {
			bw.WriteString("\x1b[0m")
		}
		bw.WriteByte('\n')
	}
	if opts.ShowNumber {
		fmt.Fprintf(bw, "num = %s\n", seq)
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("failed to write text grid: %w", err)
	}
	return nil
}

// IsTerminal reports whether f is attached to a terminal, which is when ANSI
// shading is worth emitting.
func IsTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// TerminalWidth returns the column count of the terminal behind f, or 0 when
// f is not a terminal.
func TerminalWidth(f *os.File) int {
	if !IsTerminal(f) {
		return 0
	}
	w, _, err := term.GetSize(int(f.Fd()))
	if err != nil {
		return 0
	}
	return w
}

// grayIndex maps 0-9 onto the 24-step xterm gray ramp (232-255).
func grayIndex(d uint8) int {
	return 232 + int(d)*23/9
}

func inkIndex(d uint8) int {
	if d < 5 {
		return 255
	}
	return 232
}

// Package preview renders the panel's back buffer to a terminal using
// ANSI 256-colour blocks, for developing against the backend without a
// real TG2040 panel attached.
package preview

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"io"
	"os"

	"github.com/maruel/ansi256"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
	"periph.io/x/conn/v3/display"
)

// Opts configures a Dev.
type Opts struct {
	// Cols and Rows bound the terminal block grid the surface is
	// subsampled into. Zero (or negative) selects 80 columns and 24
	// rows; the terminal's size is not detected.
	Cols, Rows int
	Palette    *ansi256.Palette
}

// Dev is a display.Drawer that writes a subsampled, colour-quantized
// copy of whatever it is told to draw to an ANSI terminal.
type Dev struct {
	w       io.Writer
	cols    int
	rows    int
	palette ansi256.Palette
	pixels  []color.NRGBA // cols*rows, row-major
	buf     bytes.Buffer
}

// New returns a Dev writing to stdout. Attached reports whether
// stdout looks like a real terminal; New does not refuse to run
// against a pipe, since that is useful for capturing a frame to a
// file, but Attached can be used to skip the work entirely when not.
func New(opts *Opts) *Dev {
	cols, rows := opts.Cols, opts.Rows
	if cols <= 0 {
		cols = 80
	}
	if rows <= 0 {
		rows = 24
	}
	p := opts.Palette
	if p == nil {
		p = ansi256.Default
	}
	return &Dev{
		w:       colorable.NewColorableStdout(),
		cols:    cols,
		rows:    rows,
		palette: *p,
		pixels:  make([]color.NRGBA, cols*rows),
	}
}

// Attached reports whether stdout is a real terminal, the way the
// teacher's status tooling gates ANSI output.
func Attached() bool {
	return isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
}

func (d *Dev) String() string { return "tg2040fb terminal preview" }

// Halt writes a newline and resets terminal attributes; the preview
// area is left on screen, not cleared.
func (d *Dev) Halt() error {
	_, err := d.w.Write([]byte("\n\033[0m"))
	return err
}

// ColorModel implements display.Drawer.
func (d *Dev) ColorModel() color.Model { return color.NRGBAModel }

// Bounds implements display.Drawer.
func (d *Dev) Bounds() image.Rectangle {
	return image.Rect(0, 0, d.cols, d.rows)
}

// Draw implements display.Drawer, subsampling src into the block grid
// by nearest-neighbour lookup and then printing it.
func (d *Dev) Draw(r image.Rectangle, src image.Image, sp image.Point) error {
	r = r.Intersect(d.Bounds())
	srcB := src.Bounds()

	for row := r.Min.Y; row < r.Max.Y; row++ {
		for col := r.Min.X; col < r.Max.X; col++ {
			sx := srcB.Min.X + (col-r.Min.X)*srcB.Dx()/max(1, d.cols)
			sy := srcB.Min.Y + (row-r.Min.Y)*srcB.Dy()/max(1, d.rows)
			sx += sp.X
			sy += sp.Y
			if sx >= srcB.Max.X {
				sx = srcB.Max.X - 1
			}
			if sy >= srcB.Max.Y {
				sy = srcB.Max.Y - 1
			}
			rr, gg, bb, aa := src.At(sx, sy).RGBA()
			d.pixels[row*d.cols+col] = color.NRGBA{
				R: uint8(rr >> 8), G: uint8(gg >> 8), B: uint8(bb >> 8), A: uint8(aa >> 8),
			}
		}
	}
	_, err := d.refresh()
	return err
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func (d *Dev) refresh() (int, error) {
	d.buf.Reset()
	_, _ = d.buf.WriteString("\033[H\033[0m")
	for row := 0; row < d.rows; row++ {
		for col := 0; col < d.cols; col++ {
			c := d.pixels[row*d.cols+col]
			_, _ = io.WriteString(&d.buf, d.palette.Block(c))
		}
		_, _ = d.buf.WriteString("\033[0m\n")
	}
	n, err := d.buf.WriteTo(d.w)
	return int(n), err
}

var _ display.Drawer = (*Dev)(nil)
var _ fmt.Stringer = (*Dev)(nil)

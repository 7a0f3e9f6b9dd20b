package preview

import (
	"image"
	"image/color"
	"testing"
)

type solidImage struct {
	c    color.Color
	rect image.Rectangle
}

func (s *solidImage) ColorModel() color.Model { return color.NRGBAModel }
func (s *solidImage) Bounds() image.Rectangle { return s.rect }
func (s *solidImage) At(x, y int) color.Color { return s.c }

func TestDrawDoesNotPanicOnShortRect(t *testing.T) {
	dev := New(&Opts{Cols: 8, Rows: 4})
	src := &solidImage{c: color.NRGBA{R: 255, A: 255}, rect: image.Rect(0, 0, 1, 1)}

	if err := dev.Draw(image.Rect(0, 0, 1, 1), src, image.Point{}); err != nil {
		t.Fatal(err)
	}
}

func TestDrawDoesNotPanicOnEmptyRect(t *testing.T) {
	dev := New(&Opts{Cols: 8, Rows: 4})
	src := &solidImage{c: color.NRGBA{}, rect: image.Rect(0, 0, 8, 4)}

	if err := dev.Draw(image.Rectangle{}, src, image.Point{}); err != nil {
		t.Fatal(err)
	}
}

func TestBoundsMatchesConfiguredGrid(t *testing.T) {
	dev := New(&Opts{Cols: 10, Rows: 5})
	b := dev.Bounds()
	if b.Dx() != 10 || b.Dy() != 5 {
		t.Fatalf("Bounds() = %v, want 10x5", b)
	}
}

// Package diag draws a small bring-up overlay, a corner-sized block of
// text reporting frame/rotate/pan timings and host resource figures,
// into the panel's back buffer. It is off the hot path unless
// explicitly enabled.
package diag

import (
	"image"
	"image/draw"
	"io/ioutil"
	"os"
	"strings"
	"time"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"github.com/gokrazy/stat/statexp"
	"golang.org/x/image/font/gofont/gomono"

	"github.com/sagotch/tg2040fb/internal/fbimage"
)

// EnvVar is the environment variable that enables the HUD.
const EnvVar = "TG2040FB_HUD"

// Enabled reports whether the HUD should be active, per EnvVar.
func Enabled() bool {
	return os.Getenv(EnvVar) == "1"
}

const (
	width  = 168
	height = 56
)

// Sample is one frame's worth of timing figures, handed to Draw by the
// caller after a present cycle.
type Sample struct {
	Frame, Rotate, Pan time.Duration
}

// HUD draws into a small off-screen canvas and blits the result into
// the corner of an RGB565 destination image.
type HUD struct {
	ctx     *gg.Context
	modules []statexp.ProcessAndFormatter
	files   map[string]*os.File
}

// New loads the monospace bring-up font and the default statexp
// modules. It is safe to construct even when Enabled() is false; the
// cost only matters once Draw starts being called every frame.
func New() (*HUD, error) {
	font, err := truetype.Parse(gomono.TTF)
	if err != nil {
		return nil, err
	}
	face := truetype.NewFace(font, &truetype.Options{Size: 9})

	ctx := gg.NewContext(width, height)
	ctx.SetFontFace(face)

	modules := statexp.DefaultModules()
	files := make(map[string]*os.File)
	for _, mod := range modules {
		fc, ok := mod.(interface{ FileContents() []string })
		if !ok {
			continue
		}
		for _, f := range fc.FileContents() {
			if _, ok := files[f]; ok {
				continue
			}
			fl, err := os.Open(f)
			if err != nil {
				continue // host figures are best-effort
			}
			files[f] = fl
		}
	}

	return &HUD{ctx: ctx, modules: modules, files: files}, nil
}

// Draw renders sample and the host's process/memory figures into the
// HUD's scratch canvas, then copies it, converted to RGB565, into the
// top-left corner of dst.
func (h *HUD) Draw(dst []byte, dstPitch int, sample Sample) {
	h.ctx.SetRGB(0, 0, 0)
	h.ctx.Clear()
	h.ctx.SetRGB(0, 1, 0)

	lines := []string{
		"frame " + sample.Frame.Round(time.Microsecond).String(),
		"rot   " + sample.Rotate.Round(time.Microsecond).String(),
		"pan   " + sample.Pan.Round(time.Microsecond).String(),
	}
	lines = append(lines, h.hostLines()...)

	y := 10.0
	for _, line := range lines {
		h.ctx.DrawString(line, 2, y)
		y += 11
	}

	blit(dst, dstPitch, h.ctx.Image().(*image.RGBA))
}

func (h *HUD) hostLines() []string {
	contents := make(map[string][]byte)
	for path, fl := range h.files {
		if _, err := fl.Seek(0, 0); err != nil {
			continue
		}
		b, err := ioutil.ReadAll(fl)
		if err != nil {
			continue
		}
		contents[path] = b
	}

	var lines []string
	for _, mod := range h.modules {
		cols := mod.ProcessAndFormat(contents)
		var parts []string
		for _, col := range cols {
			colored := col.RenderCustom(func(_, text string) string { return text })
			parts = append(parts, strings.TrimSpace(colored))
		}
		if len(parts) > 0 {
			lines = append(lines, strings.Join(parts, " "))
		}
	}
	return lines
}

// blit copies src (RGBA) into dst (RGB565, stride dstPitch) starting
// at (0,0), clipped to whichever of the two images is smaller. It
// reuses the fbimage RGB565 pixel encoding so the conversion exactly
// matches what the panel expects.
func blit(dst []byte, dstPitch int, src *image.RGBA) {
	b := src.Bounds()
	dstRect := image.Rect(0, 0, dstPitch/2, len(dst)/dstPitch)
	target := &fbimage.RGB565{
		Pix:    dst,
		Rect:   image.Rect(0, 0, b.Dx(), b.Dy()).Intersect(dstRect),
		Stride: dstPitch,
	}
	draw.Draw(target, target.Rect, src, b.Min, draw.Src)
}

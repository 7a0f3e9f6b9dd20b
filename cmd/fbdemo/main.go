// Program fbdemo exercises the TG2040 panel backend: it opens the
// panel (or falls back to a terminal preview when none is found),
// animates a test pattern, drains keyboard events, and prints a
// colorized startup banner.
package main

import (
	"flag"
	"fmt"
	"image"
	"image/color"
	"log"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"time"

	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"

	tg2040fb "github.com/sagotch/tg2040fb"
	"github.com/sagotch/tg2040fb/internal/evdev"
	"github.com/sagotch/tg2040fb/internal/preview"
	"github.com/sagotch/tg2040fb/internal/surface"
)

func banner(panelOK bool) {
	out := colorable.NewColorableStdout()
	green, yellow, reset := "\033[32m", "\033[33m", "\033[0m"
	if !isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsCygwinTerminal(os.Stdout.Fd()) {
		green, yellow, reset = "", "", ""
	}
	status := green + "panel attached" + reset
	if !panelOK {
		status = yellow + "no panel, using terminal preview" + reset
	}
	fmt.Fprintf(out, "tg2040fb demo: %s\n", status)
}

func main() {
	fbPath := flag.String("fb", "/dev/fb0", "panel framebuffer device")
	usePreview := flag.Bool("preview", false, "force terminal preview even if a panel is present")
	leaseConsole := flag.Bool("lease-console", true, "switch a virtual terminal into graphics mode for the demo's lifetime")
	debugListen := flag.String("debug-listen", "", "if non-empty, listen address for a debug pprof server")
	flag.Parse()

	if *debugListen != "" {
		go func() {
			log.Printf("running debug server on %v ...", *debugListen)
			http.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
				http.Redirect(w, r, "/debug/pprof", http.StatusFound)
			})
			log.Fatal(http.ListenAndServe(*debugListen, nil))
		}()
	}

	if err := run(*fbPath, *usePreview, *leaseConsole); err != nil {
		log.Fatal(err)
	}
}

func run(fbPath string, forcePreview, leaseConsole bool) error {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt)

	if forcePreview {
		return runPreview(sigCh)
	}

	be, err := tg2040fb.New(tg2040fb.Options{
		FramebufferPath: fbPath,
		LeaseConsole:    leaseConsole,
	})
	if err != nil {
		log.Printf("tg2040fb: %v, falling back to terminal preview", err)
		return runPreview(sigCh)
	}
	defer func() {
		if err := be.Close(); err != nil {
			log.Print(err)
		}
	}()

	banner(true)

	tick := time.NewTicker(33 * time.Millisecond)
	defer tick.Stop()

	frame := 0
	for {
		select {
		case <-sigCh:
			return nil
		case <-be.Redraw():
		case <-tick.C:
		}

		if !be.ConsoleVisible() {
			continue
		}

		drawTestPattern(be.Surface(), frame)
		frame++

		if err := be.Present(); err != nil {
			return err
		}

		for _, ev := range be.PollInput() {
			if ev.Kind == evdev.KeyEvent && ev.Pressed && ev.Scancode == evdev.ScancodeEscape {
				return nil
			}
		}
	}
}

func runPreview(sigCh <-chan os.Signal) error {
	banner(false)
	dev := preview.New(&preview.Opts{Cols: 64, Rows: 24})
	defer dev.Halt()

	back, err := surface.New()
	if err != nil {
		return err
	}

	img := &surfaceImage{s: back}

	tick := time.NewTicker(200 * time.Millisecond)
	defer tick.Stop()

	frame := 0
	for {
		select {
		case <-sigCh:
			return nil
		case <-tick.C:
		}

		drawTestPattern(back, frame)
		frame++

		if err := dev.Draw(dev.Bounds(), img, image.Point{}); err != nil {
			return err
		}
	}
}

// drawTestPattern renders a slowly-scrolling colour bar test pattern
// into the back buffer, enough to exercise the rotate/pan pipeline
// without depending on any particular application.
func drawTestPattern(s *surface.Surface, frame int) {
	pix := s.Pix()
	w, h := s.Bounds()
	pitch := s.Pitch()
	offset := frame % w

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			band := ((x + offset) / 32) % 8
			v := rgb565(bandColor(band))
			i := y*pitch + x*surface.BytesPerPixel
			pix[i] = byte(v)
			pix[i+1] = byte(v >> 8)
		}
	}
}

func bandColor(band int) color.NRGBA {
	palette := []color.NRGBA{
		{R: 0xff}, {G: 0xff}, {B: 0xff},
		{R: 0xff, G: 0xff}, {G: 0xff, B: 0xff}, {R: 0xff, B: 0xff},
		{R: 0xff, G: 0xff, B: 0xff}, {},
	}
	return palette[band%len(palette)]
}

func rgb565(c color.NRGBA) uint16 {
	r := uint16(c.R>>3) << 11
	g := uint16(c.G>>2) << 5
	b := uint16(c.B >> 3)
	return r | g | b
}

// surfaceImage exposes a surface.Surface as an image.Image so it can
// be fed to the preview's display.Drawer.
type surfaceImage struct {
	s *surface.Surface
}

func (si *surfaceImage) ColorModel() color.Model { return color.RGBAModel }
func (si *surfaceImage) Bounds() image.Rectangle {
	w, h := si.s.Bounds()
	return image.Rect(0, 0, w, h)
}
func (si *surfaceImage) At(x, y int) color.Color {
	pitch := si.s.Pitch()
	pix := si.s.Pix()
	i := y*pitch + x*surface.BytesPerPixel
	v := uint16(pix[i]) | uint16(pix[i+1])<<8
	r := uint8((v>>11)&0x1f) << 3
	g := uint8((v>>5)&0x3f) << 2
	b := uint8(v&0x1f) << 3
	return color.RGBA{R: r, G: g, B: b, A: 0xff}
}

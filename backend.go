// Package tg2040fb is a framebuffer video backend and evdev keyboard
// reader for the TG2040 handheld: a 240x320 RGB565 panel mounted
// rotated 90 degrees clockwise, driven through /dev/fb0 with a
// double-buffered vsync pan.
package tg2040fb

import (
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/sagotch/tg2040fb/internal/diag"
	"github.com/sagotch/tg2040fb/internal/evdev"
	"github.com/sagotch/tg2040fb/internal/fbdev"
	"github.com/sagotch/tg2040fb/internal/rotate"
	"github.com/sagotch/tg2040fb/internal/surface"
	"github.com/sagotch/tg2040fb/internal/vt"
)

// DevicesEnvVar is the environment variable Init reads to learn which
// evdev character devices to attach as keyboard/mouse/touch input, in
// "class:path[,class:path...]" form.
const DevicesEnvVar = "DEVICES"

// Options configures New.
type Options struct {
	// FramebufferPath is the panel character device, typically
	// "/dev/fb0".
	FramebufferPath string

	// Devices overrides the DEVICES environment variable when non-nil.
	Devices []struct {
		Path  string
		Class evdev.Class
	}

	// LeaseConsole controls whether a virtual terminal is put into
	// graphics mode for the backend's lifetime. Disable it when
	// running under a display manager that already owns the console.
	LeaseConsole bool
}

// Backend owns every resource needed to drive the panel and read
// keyboard input: a leased console, the mapped panel device, the
// application-facing back buffer, and the input reader. Construct one
// with New and release it with Close.
type Backend struct {
	opts Options

	console *vt.Lease
	panel   *fbdev.Device
	back    *surface.Surface
	input   *evdev.Reader
	hud     *diag.HUD

	active     int // which panel half is currently scanned out
	lastSample diag.Sample
}

// New acquires every resource in order (console lease, panel device,
// back buffer, input reader) and returns an initialised Backend. If
// any step fails, everything acquired so far is released before
// returning the error.
func New(opts Options) (b *Backend, err error) {
	be := &Backend{opts: opts}

	defer func() {
		if err != nil {
			be.unwind()
		}
	}()

	if opts.LeaseConsole {
		be.console, err = vt.Acquire()
		if err != nil {
			return nil, fmt.Errorf("tg2040fb: lease console: %w", err)
		}
	}

	fbPath := opts.FramebufferPath
	if fbPath == "" {
		fbPath = "/dev/fb0"
	}
	be.panel, err = fbdev.Open(fbPath)
	if err != nil {
		return nil, fmt.Errorf("tg2040fb: open panel: %w", err)
	}

	be.back, err = surface.New()
	if err != nil {
		return nil, fmt.Errorf("tg2040fb: allocate surface: %w", err)
	}

	be.input = evdev.NewReader()
	devices := opts.Devices
	if devices == nil {
		parsed, perr := evdev.ParseDevicesEnv(os.Getenv(DevicesEnvVar))
		if perr != nil {
			return nil, fmt.Errorf("tg2040fb: parse %s: %w", DevicesEnvVar, perr)
		}
		devices = parsed
	}
	for _, d := range devices {
		if aerr := be.input.Add(d.Path, d.Class); aerr != nil {
			return nil, fmt.Errorf("tg2040fb: attach input device %s: %w", d.Path, aerr)
		}
	}

	if diag.Enabled() {
		be.hud, err = diag.New()
		if err != nil {
			log.Printf("tg2040fb: diagnostics HUD disabled: %v", err)
			be.hud = nil
			err = nil
		}
	}

	return be, nil
}

// unwind releases whatever subset of resources was acquired before an
// Init failure, in reverse order, best-effort.
func (b *Backend) unwind() {
	if b.panel != nil {
		b.panel.Close()
		b.panel = nil
	}
	if b.console != nil {
		b.console.Release()
		b.console = nil
	}
}

// Surface returns the back buffer the application draws into between
// calls to Present.
func (b *Backend) Surface() *surface.Surface { return b.back }

// PollInput drains pending keyboard (and, if configured, touch) events
// from every attached input device, non-blocking.
func (b *Backend) PollInput() []evdev.Event {
	return b.input.Poll()
}

// AttachInput adds another evdev device at runtime, e.g. hot-plugged
// after New has already returned.
func (b *Backend) AttachInput(path string, class evdev.Class) error {
	return b.input.Add(path, class)
}

// DetachInput removes a previously attached evdev device.
func (b *Backend) DetachInput(path string) error {
	return b.input.Remove(path)
}

// ConsoleVisible reports whether the leased virtual terminal is
// currently the one shown on screen. When LeaseConsole is false this
// always returns true.
func (b *Backend) ConsoleVisible() bool {
	if b.console == nil {
		return true
	}
	return b.console.Visible()
}

// Redraw signals that the console became visible again after the user
// switched away and back, so the caller should repaint and Present
// even without new content. Returns a nil channel if no console is
// leased.
func (b *Backend) Redraw() <-chan struct{} {
	if b.console == nil {
		return nil
	}
	return b.console.Redraw()
}

// Present rotates the back buffer 90 degrees into the panel's inactive
// half and pans the display to it on the next vertical blank,
// flipping the active buffer index. If the diagnostics HUD is
// enabled, it is drawn into the back buffer first so it appears in the
// rotated output like any other content.
func (b *Backend) Present() error {
	frameStart := time.Now()

	target := 1 - b.active

	// Drawn from the previous cycle's timings: this frame's own
	// rotate/pan durations aren't known until after they run.
	if b.hud != nil {
		b.hud.Draw(b.back.Pix(), surface.Pitch, b.lastSample)
	}

	rotateStart := time.Now()
	rotate.Tiled(b.panel.Half(target), fbdev.VirtualPitch, b.back.Pix(), surface.Pitch)
	rotateDur := time.Since(rotateStart)

	panStart := time.Now()
	if err := b.panel.Pan(target); err != nil {
		// Not fatal: b.active is left untouched, so the next call
		// recomputes the same target half and retries the pan.
		log.Printf("tg2040fb: pan to half %d failed, retrying next frame: %v", target, err)
		b.lastSample = diag.Sample{
			Frame:  time.Since(frameStart),
			Rotate: rotateDur,
			Pan:    time.Since(panStart),
		}
		return nil
	}
	panDur := time.Since(panStart)

	b.active = target
	b.lastSample = diag.Sample{
		Frame:  time.Since(frameStart),
		Rotate: rotateDur,
		Pan:    panDur,
	}

	return nil
}

// Close releases every resource Backend owns, in the reverse of
// acquisition order, running every step even if an earlier one fails.
// The individual failures are joined rather than swallowed.
func (b *Backend) Close() error {
	var errs []error

	if b.panel != nil {
		if err := b.panel.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close panel: %w", err))
		}
	}
	if b.console != nil {
		if err := b.console.Release(); err != nil {
			errs = append(errs, fmt.Errorf("release console: %w", err))
		}
	}

	return errors.Join(errs...)
}

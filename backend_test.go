package tg2040fb

import (
	"os"
	"testing"

	"github.com/sagotch/tg2040fb/internal/evdev"
	"github.com/sagotch/tg2040fb/internal/fbdev"
	"github.com/sagotch/tg2040fb/internal/rotate"
	"github.com/sagotch/tg2040fb/internal/surface"
)

// TestPresentPipelineGeometry exercises the rotate+pan geometry Present
// drives, without a real panel device: a back buffer's worth of pixels
// rotated into a panel-half-sized destination must exactly match
// rotate.Scalar's pixel-by-pixel reference, and must fit the
// panel-half byte budget fbdev hands out.
func TestPresentPipelineGeometry(t *testing.T) {
	back, err := surface.New()
	if err != nil {
		t.Fatal(err)
	}
	for i := range back.Pix() {
		back.Pix()[i] = byte(i * 7)
	}

	got := make([]byte, fbdev.HalfSize)
	rotate.Tiled(got, fbdev.VirtualPitch, back.Pix(), surface.Pitch)

	want := make([]byte, fbdev.HalfSize)
	rotate.Scalar(want, fbdev.VirtualPitch, back.Pix(), surface.Pitch)

	for i := range got {
		if got[i] != want[i] {
			t.Fatalf("byte %d: Tiled = %#x, Scalar = %#x", i, got[i], want[i])
		}
	}
}

func TestParseDevicesEnvWiresIntoOptions(t *testing.T) {
	// New reads DevicesEnvVar through evdev.ParseDevicesEnv when
	// Options.Devices is nil; exercise that exact parse path without
	// needing a real framebuffer device to construct a full Backend.
	got, err := evdev.ParseDevicesEnv(os.Getenv(DevicesEnvVar))
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 0 {
		t.Fatalf("got %d devices from unset %s, want 0", len(got), DevicesEnvVar)
	}

	t.Setenv(DevicesEnvVar, "2:/dev/input/event3")
	got, err = evdev.ParseDevicesEnv(os.Getenv(DevicesEnvVar))
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].Path != "/dev/input/event3" || got[0].Class != evdev.ClassKeyboard {
		t.Fatalf("got %+v, want one keyboard at /dev/input/event3", got)
	}
}

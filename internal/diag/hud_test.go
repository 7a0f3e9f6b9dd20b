package diag

import (
	"testing"
	"time"
)

func TestDrawStaysWithinReservedRect(t *testing.T) {
	h, err := New()
	if err != nil {
		t.Fatal(err)
	}

	const pitch = 320 * 2
	const rows = 240
	dst := make([]byte, pitch*rows)
	sentinel := make([]byte, len(dst))
	for i := range sentinel {
		sentinel[i] = 0xAB
	}
	copy(dst, sentinel)

	h.Draw(dst, pitch, Sample{Frame: time.Millisecond, Rotate: time.Microsecond, Pan: time.Microsecond})

	for y := 0; y < rows; y++ {
		for x := 0; x < pitch; x++ {
			if y < height && x < width*2 {
				continue // inside the HUD's reserved rectangle
			}
			i := y*pitch + x
			if dst[i] != sentinel[i] {
				t.Fatalf("HUD wrote outside its reserved rectangle at row %d, col %d", y, x)
			}
		}
	}
}

// present mirrors Backend.Present's HUD gate: hud is only drawn when
// non-nil, exactly as backend.go's "if b.hud != nil" check does.
func present(hud *HUD, dst []byte, pitch int, sample Sample) {
	if hud != nil {
		hud.Draw(dst, pitch, sample)
	}
}

func TestDisabledHUDLeavesBufferByteIdentical(t *testing.T) {
	const pitch = 320 * 2
	const rows = 240
	sample := Sample{Frame: time.Millisecond, Rotate: time.Microsecond, Pan: time.Microsecond}

	untouched := make([]byte, pitch*rows)
	for i := range untouched {
		untouched[i] = 0xAB
	}

	disabled := make([]byte, len(untouched))
	copy(disabled, untouched)
	present(nil, disabled, pitch, sample)

	for i := range untouched {
		if disabled[i] != untouched[i] {
			t.Fatalf("byte %d: disabled HUD changed the buffer: got %#x, want %#x", i, disabled[i], untouched[i])
		}
	}

	h, err := New()
	if err != nil {
		t.Fatal(err)
	}
	enabled := make([]byte, len(untouched))
	copy(enabled, untouched)
	present(h, enabled, pitch, sample)

	changed := false
	for i := range untouched {
		if enabled[i] != untouched[i] {
			changed = true
			break
		}
	}
	if !changed {
		t.Fatal("enabled HUD left the buffer unchanged; Draw likely didn't run")
	}
}

func TestEnabledRespectsEnvVar(t *testing.T) {
	t.Setenv(EnvVar, "")
	if Enabled() {
		t.Fatal("Enabled() = true with no TG2040FB_HUD set")
	}
	t.Setenv(EnvVar, "1")
	if !Enabled() {
		t.Fatal("Enabled() = false with TG2040FB_HUD=1")
	}
}

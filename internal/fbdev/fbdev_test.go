package fbdev

import "testing"

func TestGeometryInvariant(t *testing.T) {
	// mapping_size = virtual_height x virtual_width x bytes_per_pixel
	want := VirtualHeight * VirtualWidth * bytesPerPixel
	if MappingSize != want {
		t.Fatalf("MappingSize = %d, want %d", MappingSize, want)
	}
	if HalfSize*2 != MappingSize {
		t.Fatalf("two halves (%d) don't add up to MappingSize (%d)", HalfSize*2, MappingSize)
	}
	if VirtualPitch != VirtualWidth*bytesPerPixel {
		t.Fatalf("VirtualPitch = %d, want %d", VirtualPitch, VirtualWidth*bytesPerPixel)
	}
}

func TestOpenUnavailableDevice(t *testing.T) {
	_, err := Open("/nonexistent/tg2040-panel")
	if err == nil {
		t.Fatal("expected an error opening a nonexistent device")
	}
	fbErr, ok := err.(*Error)
	if !ok {
		t.Fatalf("error type = %T, want *Error", err)
	}
	if fbErr.Kind != DeviceUnavailable {
		t.Fatalf("Kind = %v, want DeviceUnavailable", fbErr.Kind)
	}
}

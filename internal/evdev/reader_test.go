package evdev

import (
	"io"
	"testing"
)

// fakeDeviceIO is an in-memory deviceIO used to drive the reader's
// state machine without a real /dev/input device.
type fakeDeviceIO struct {
	queue   [][]byte // each entry is delivered by one Read call
	mtSlots map[uint16][]int32
	abs     map[uint16]int32
	closed  bool
}

func (f *fakeDeviceIO) Read(buf []byte) (int, error) {
	if len(f.queue) == 0 {
		return 0, nil
	}
	chunk := f.queue[0]
	f.queue = f.queue[1:]
	n := copy(buf, chunk)
	return n, nil
}

func (f *fakeDeviceIO) Close() error {
	f.closed = true
	return nil
}

func (f *fakeDeviceIO) MTSlots(code uint16, values []int32) error {
	src, ok := f.mtSlots[code]
	if !ok {
		return io.ErrUnexpectedEOF
	}
	copy(values, src)
	return nil
}

func (f *fakeDeviceIO) AbsValue(code uint16) (int32, error) {
	v, ok := f.abs[code]
	if !ok {
		return 0, io.ErrUnexpectedEOF
	}
	return v, nil
}

// encodeEvent builds one raw 24-byte struct input_event record; the
// 16-byte timestamp prefix is left zeroed since the reader ignores it.
func encodeEvent(typ, code uint16, value int32) []byte {
	b := make([]byte, rawEventSize)
	b[16] = byte(typ)
	b[17] = byte(typ >> 8)
	b[18] = byte(code)
	b[19] = byte(code >> 8)
	v := uint32(value)
	b[20] = byte(v)
	b[21] = byte(v >> 8)
	b[22] = byte(v >> 16)
	b[23] = byte(v >> 24)
	return b
}

func concatEvents(events ...[]byte) []byte {
	var out []byte
	for _, e := range events {
		out = append(out, e...)
	}
	return out
}

// addFakeKeyboard wires a fake keyboard device into r under path,
// bypassing Add (which would try to open a real file) by constructing
// the device record directly.
func addFakeKeyboard(r *Reader, path string, io *fakeDeviceIO) {
	d := &device{path: path, io: io, class: ClassKeyboard}
	if r.last == nil {
		r.first, r.last = d, d
	} else {
		r.last.next = d
		r.last = d
	}
}

func addFakeTouchscreen(r *Reader, path string, io *fakeDeviceIO, maxSlots int) {
	d := &device{path: path, io: io, class: ClassTouchscreen, touch: newTouchState(maxSlots)}
	if r.last == nil {
		r.first, r.last = d, d
	} else {
		r.last.next = d
		r.last = d
	}
}

func TestKeyPressAndRelease(t *testing.T) {
	fio := &fakeDeviceIO{
		queue: [][]byte{concatEvents(
			encodeEvent(evKey, keyA, 1),
			encodeEvent(evSyn, synReport, 0),
			encodeEvent(evKey, keyA, 0),
			encodeEvent(evSyn, synReport, 0),
		)},
	}
	r := NewReader()
	addFakeKeyboard(r, "/dev/input/fake0", fio)

	events := r.Poll()
	if len(events) != 2 {
		t.Fatalf("got %d events, want 2: %+v", len(events), events)
	}
	if events[0].Kind != KeyEvent || events[0].Scancode != ScancodeA || !events[0].Pressed {
		t.Errorf("event 0 = %+v, want pressed A", events[0])
	}
	if events[1].Kind != KeyEvent || events[1].Scancode != ScancodeA || events[1].Pressed {
		t.Errorf("event 1 = %+v, want released A", events[1])
	}
}

func TestUnknownScancodeIsDropped(t *testing.T) {
	fio := &fakeDeviceIO{
		queue: [][]byte{concatEvents(
			encodeEvent(evKey, 0xFFFF, 1),
			encodeEvent(evSyn, synReport, 0),
		)},
	}
	r := NewReader()
	addFakeKeyboard(r, "/dev/input/fake0", fio)

	events := r.Poll()
	if len(events) != 0 {
		t.Fatalf("got %d events, want 0 for an unrecognised keycode: %+v", len(events), events)
	}
}

func TestDroppedSyncResyncsTouchState(t *testing.T) {
	fio := &fakeDeviceIO{
		mtSlots: map[uint16][]int32{
			absMTTrackingID: {7},
			absMTPositionX:  {120},
			absMTPositionY:  {200},
			absMTPressure:   {30},
		},
		abs: map[uint16]int32{absMTSlot: 0},
	}
	r := NewReader()
	addFakeTouchscreen(r, "/dev/input/fake1", fio, 1)

	fio.queue = [][]byte{concatEvents(
		encodeEvent(evSyn, synDropped, 0),
		encodeEvent(evAbs, absMTPositionX, 999), // ignored while out of sync
		encodeEvent(evSyn, synReport, 0),
	)}

	events := r.Poll()
	if len(events) != 1 {
		t.Fatalf("got %d events, want 1 touch-down event: %+v", len(events), events)
	}
	ev := events[0]
	if ev.Kind != TouchEvent || ev.Delta != TouchDown || ev.Slot != 0 {
		t.Fatalf("event = %+v, want slot 0 touch-down", ev)
	}
	if ev.X != 120 || ev.Y != 200 || ev.Pressure != 30 {
		t.Fatalf("event coordinates = %+v, want (120,200,30)", ev)
	}
}

func TestTouchMoveAfterDown(t *testing.T) {
	fio := &fakeDeviceIO{
		mtSlots: map[uint16][]int32{
			absMTTrackingID: {1},
			absMTPositionX:  {10},
			absMTPositionY:  {10},
			absMTPressure:   {5},
		},
		abs: map[uint16]int32{absMTSlot: 0},
	}
	r := NewReader()
	addFakeTouchscreen(r, "/dev/input/fake1", fio, 1)

	fio.queue = [][]byte{concatEvents(
		encodeEvent(evSyn, synDropped, 0),
		encodeEvent(evSyn, synReport, 0),
	)}
	down := r.Poll()
	if len(down) != 1 || down[0].Delta != TouchDown {
		t.Fatalf("setup: got %+v, want one touch-down", down)
	}

	fio.mtSlots[absMTPositionX] = []int32{50}
	fio.queue = [][]byte{concatEvents(
		encodeEvent(evSyn, synDropped, 0),
		encodeEvent(evSyn, synReport, 0),
	)}
	move := r.Poll()
	if len(move) != 1 || move[0].Delta != TouchMove || move[0].X != 50 {
		t.Fatalf("got %+v, want one touch-move to x=50", move)
	}
}

func TestEventOrderIsPreservedAcrossDevices(t *testing.T) {
	kbd0 := &fakeDeviceIO{
		queue: [][]byte{concatEvents(
			encodeEvent(evKey, keyA, 1),
			encodeEvent(evSyn, synReport, 0),
			encodeEvent(evKey, keyB, 1),
			encodeEvent(evSyn, synReport, 0),
		)},
	}
	kbd1 := &fakeDeviceIO{
		queue: [][]byte{concatEvents(
			encodeEvent(evKey, keyC, 1),
			encodeEvent(evSyn, synReport, 0),
		)},
	}
	r := NewReader()
	addFakeKeyboard(r, "/dev/input/fake0", kbd0)
	addFakeKeyboard(r, "/dev/input/fake1", kbd1)

	events := r.Poll()
	if len(events) != 3 {
		t.Fatalf("got %d events, want 3", len(events))
	}
	if events[0].Scancode != ScancodeA || events[1].Scancode != ScancodeB || events[2].Scancode != ScancodeC {
		t.Fatalf("events out of order: %+v", events)
	}
}

func TestParseDevicesEnv(t *testing.T) {
	got, err := ParseDevicesEnv("2:/dev/input/event0,16:/dev/input/event1")
	if err != nil {
		t.Fatalf("ParseDevicesEnv: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d entries, want 2", len(got))
	}
	if got[0].Path != "/dev/input/event0" || got[0].Class != ClassKeyboard {
		t.Errorf("entry 0 = %+v", got[0])
	}
	if got[1].Path != "/dev/input/event1" || got[1].Class != ClassTouchscreen {
		t.Errorf("entry 1 = %+v", got[1])
	}
}

func TestParseDevicesEnvEmpty(t *testing.T) {
	got, err := ParseDevicesEnv("")
	if err != nil || got != nil {
		t.Fatalf("ParseDevicesEnv(\"\") = %v, %v; want nil, nil", got, err)
	}
}

func TestParseDevicesEnvMalformed(t *testing.T) {
	if _, err := ParseDevicesEnv("nocolon"); err == nil {
		t.Fatal("expected an error for an entry with no class:path separator")
	}
	if _, err := ParseDevicesEnv("bogus:/dev/input/event0"); err == nil {
		t.Fatal("expected an error for a non-numeric device class")
	}
	if _, err := ParseDevicesEnv("99:/dev/input/event0"); err == nil {
		t.Fatal("expected an error for an unknown device class")
	}
}

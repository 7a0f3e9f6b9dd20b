// Package evdev drains the kernel's evdev character devices, translates
// keycodes into scancodes, and resynchronises touch state after a
// dropped-packet notification. Touch handling exists for completeness
// but stays dormant on this backend: the TG2040 only exposes a
// keyboard-shaped input device.
package evdev

import "fmt"

// Class classifies a device the way the DEVICES environment variable's
// "class:path" entries do. Values match SDL_UDEV_deviceclass's bitmask
// (SDL_UDEV_DEVICE_MOUSE/_KEYBOARD/_TOUCHSCREEN) so a DEVICES string
// copied from an existing SDL_EVDEV_DEVICES setup parses unchanged.
type Class int

const (
	ClassMouse       Class = 0x01
	ClassKeyboard    Class = 0x02
	ClassTouchscreen Class = 0x10
)

// TouchDelta classifies a multi-touch slot's change since the last
// resync.
type TouchDelta int

const (
	TouchNone TouchDelta = iota
	TouchDown
	TouchUp
	TouchMove
)

// EventKind distinguishes the two event shapes Event can carry.
type EventKind int

const (
	KeyEvent EventKind = iota
	TouchEvent
)

// Event is what the reader appends to the event queue for the
// application to drain. Only the fields relevant to Kind are
// meaningful.
type Event struct {
	Kind EventKind

	// KeyEvent fields.
	Scancode Scancode
	Pressed  bool

	// TouchEvent fields.
	Slot     int
	Delta    TouchDelta
	X, Y     int32
	Pressure int32
}

type touchSlot struct {
	trackingID int32 // negative means no contact
	x, y       int32
	pressure   int32
	pending    TouchDelta
}

type touchState struct {
	maxSlots    int
	currentSlot int
	slots       []touchSlot
}

func newTouchState(maxSlots int) *touchState {
	slots := make([]touchSlot, maxSlots)
	for i := range slots {
		slots[i].trackingID = -1
	}
	return &touchState{maxSlots: maxSlots, slots: slots}
}

// device is one entry in the reader's singly-linked device list, keyed
// by path.
type device struct {
	path      string
	io        deviceIO
	class     Class
	outOfSync bool
	touch     *touchState
	next      *device
}

// Reader owns the device list and the non-blocking drain/translate
// pipeline. The zero value is ready to use.
type Reader struct {
	first, last *device
}

// NewReader returns an empty Reader with no devices attached.
func NewReader() *Reader {
	return &Reader{}
}

// Add opens path as a non-blocking, close-on-exec input device and
// appends it to the device list. Duplicate paths are rejected. Touch
// devices are queried for their slot count and seeded with an initial
// resync, so contacts already down when the device is added become the
// stored baseline; no events are emitted for them.
func (r *Reader) Add(path string, class Class) error {
	for d := r.first; d != nil; d = d.next {
		if d.path == path {
			return fmt.Errorf("evdev: %s already added", path)
		}
	}

	io, err := openDeviceIO(path)
	if err != nil {
		return &Error{Kind: UnknownInputDevice, Path: path, Err: err}
	}

	d := &device{path: path, io: io, class: class}
	if class == ClassTouchscreen {
		max, err := io.AbsMaximum(absMTSlot)
		if err != nil {
			io.Close()
			return &Error{Kind: UnknownInputDevice, Path: path, Err: err}
		}
		d.touch = newTouchState(int(max) + 1)
		resyncDevice(d)
		flushTouchDeltas(d) // seed state without surfacing startup events
	}

	if r.last == nil {
		r.first, r.last = d, d
	} else {
		r.last.next = d
		r.last = d
	}
	return nil
}

// Remove closes and forgets the device at path.
func (r *Reader) Remove(path string) error {
	var prev *device
	for d := r.first; d != nil; d = d.next {
		if d.path == path {
			if prev != nil {
				prev.next = d.next
			} else {
				r.first = d.next
			}
			if d == r.last {
				r.last = prev
			}
			return d.io.Close()
		}
		prev = d
	}
	return fmt.Errorf("evdev: %s not found", path)
}

// Poll drains every device's pending events, non-blocking, and returns
// the translated events in device-list order.
func (r *Reader) Poll() []Event {
	var out []Event
	buf := make([]byte, batchSize*rawEventSize)
	for d := r.first; d != nil; d = d.next {
		for {
			n, err := d.io.Read(buf)
			if n <= 0 || err != nil {
				break
			}
			count := n / rawEventSize
			out = append(out, pollBatch(d, buf[:n], count)...)
		}
	}
	return out
}

func pollBatch(d *device, buf []byte, count int) []Event {
	var out []Event
	for i := 0; i < count; i++ {
		ev := decodeRawEvent(buf[i*rawEventSize : (i+1)*rawEventSize])

		if d.outOfSync && d.class == ClassTouchscreen && ev.Type == evSyn && ev.Code != synReport {
			break
		}

		switch ev.Type {
		case evKey:
			if sc, ok := translateKeycode(ev.Code); ok {
				switch ev.Value {
				case 0:
					out = append(out, Event{Kind: KeyEvent, Scancode: sc, Pressed: false})
				case 1, 2:
					out = append(out, Event{Kind: KeyEvent, Scancode: sc, Pressed: true})
				}
			}
		case evSyn:
			switch ev.Code {
			case synDropped:
				d.outOfSync = true
			case synReport:
				if d.outOfSync && d.class == ClassTouchscreen {
					resyncDevice(d)
					out = append(out, flushTouchDeltas(d)...)
					d.outOfSync = false
				}
			}
		}
	}
	return out
}

// resyncDevice re-reads every multi-touch slot's tracking id, position
// and pressure via EVIOCGMTSLOTS, classifying each slot's transition
// against its previously stored state, then updates the current slot
// index via EVIOCGABS(ABS_MT_SLOT). Deltas are left pending on the
// slot record; flushTouchDeltas turns them into Events.
//
// This mirrors the kernel's documented SYN_DROPPED recovery recipe:
// ignore events until the next report, then query ground truth.
func resyncDevice(d *device) {
	if d.touch == nil {
		return
	}
	t := d.touch

	ids := make([]int32, t.maxSlots)
	if err := d.io.MTSlots(absMTTrackingID, ids); err != nil {
		return
	}
	for i, id := range ids {
		s := &t.slots[i]
		switch {
		case s.trackingID < 0 && id >= 0:
			s.trackingID = id
			s.pending = TouchDown
		case s.trackingID >= 0 && id < 0:
			s.trackingID = -1
			s.pending = TouchUp
		}
	}

	xs := make([]int32, t.maxSlots)
	if err := d.io.MTSlots(absMTPositionX, xs); err == nil {
		for i, x := range xs {
			s := &t.slots[i]
			if s.trackingID >= 0 && s.x != x {
				s.x = x
				if s.pending == TouchNone {
					s.pending = TouchMove
				}
			}
		}
	}

	ys := make([]int32, t.maxSlots)
	if err := d.io.MTSlots(absMTPositionY, ys); err == nil {
		for i, y := range ys {
			s := &t.slots[i]
			if s.trackingID >= 0 && s.y != y {
				s.y = y
				if s.pending == TouchNone {
					s.pending = TouchMove
				}
			}
		}
	}

	ps := make([]int32, t.maxSlots)
	if err := d.io.MTSlots(absMTPressure, ps); err == nil {
		for i, p := range ps {
			s := &t.slots[i]
			if s.trackingID >= 0 && s.pressure != p {
				s.pressure = p
				if s.pending == TouchNone {
					s.pending = TouchMove
				}
			}
		}
	}

	if slot, err := d.io.AbsValue(absMTSlot); err == nil {
		t.currentSlot = int(slot)
	}
}

// flushTouchDeltas converts every slot's pending delta into an Event
// and clears it.
func flushTouchDeltas(d *device) []Event {
	if d.touch == nil {
		return nil
	}
	var out []Event
	for i := range d.touch.slots {
		s := &d.touch.slots[i]
		if s.pending == TouchNone {
			continue
		}
		out = append(out, Event{
			Kind:     TouchEvent,
			Slot:     i,
			Delta:    s.pending,
			X:        s.x,
			Y:        s.y,
			Pressure: s.pressure,
		})
		s.pending = TouchNone
	}
	return out
}

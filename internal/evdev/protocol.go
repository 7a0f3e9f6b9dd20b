package evdev

// Event types and codes from <linux/input.h> and
// <linux/input-event-codes.h>. Only what this reader needs is named.
const (
	evSyn uint16 = 0x00
	evKey uint16 = 0x01
	evRel uint16 = 0x02
	evAbs uint16 = 0x03

	synReport  uint16 = 0
	synDropped uint16 = 3

	absMTSlot       uint16 = 0x2f
	absMTTrackingID uint16 = 0x39
	absMTPositionX  uint16 = 0x35
	absMTPositionY  uint16 = 0x36
	absMTPressure   uint16 = 0x3a
)

// rawEventSize is sizeof(struct input_event) on 64-bit Linux: a 16-byte
// struct timeval, followed by two uint16 and one int32, for 24 bytes
// total with no extra padding.
const rawEventSize = 24

// batchSize is how many fixed-size records the reader asks for per
// non-blocking read, matching the protocol's "batches of up to 32."
const batchSize = 32

// rawEvent is the decoded form of one struct input_event. The
// timestamp is read but not otherwise used.
type rawEvent struct {
	Type  uint16
	Code  uint16
	Value int32
}

func decodeRawEvent(b []byte) rawEvent {
	// Layout: 16 bytes of timeval, then type(2) code(2) value(4).
	return rawEvent{
		Type:  uint16(b[16]) | uint16(b[17])<<8,
		Code:  uint16(b[18]) | uint16(b[19])<<8,
		Value: int32(uint32(b[20]) | uint32(b[21])<<8 | uint32(b[22])<<16 | uint32(b[23])<<24),
	}
}

// absInfo mirrors struct input_absinfo (six int32 fields); only Value
// and Maximum are used here.
type absInfo struct {
	Value, Minimum, Maximum, Fuzz, Flat, Resolution int32
}

// Package rotate turns a 320x240 RGB565 landscape buffer into the
// 240x320 layout the TG2040 panel expects, by rotating it 90 degrees
// counter-clockwise. It provides two implementations that must agree
// byte-for-byte: Tiled, the fast path built around 8x8 blocks, and
// Scalar, the one-pixel-at-a-time reference.
package rotate

const (
	// SrcWidth and SrcHeight are the logical landscape dimensions the
	// application renders into.
	SrcWidth  = 320
	SrcHeight = 240

	// DstWidth and DstHeight are the physical panel dimensions after
	// rotation.
	DstWidth  = 240
	DstHeight = 320

	// tileSize is the edge length of the square blocks the tiled path
	// transposes at a time. SrcWidth and SrcHeight are exact multiples
	// of it, so no scalar tail loop is needed.
	tileSize = 8
)

// lane stands in for the 128-bit, 8-lane-of-uint16 vector register the
// original NEON code loads one source row into. See DESIGN.md for why
// this repo models vector registers this way instead of using
// per-architecture assembly.
type lane [8]uint16

// Scalar rotates src (SrcWidth x SrcHeight RGB565, row-major, srcStride
// bytes per row) into dst (DstWidth x DstHeight RGB565, row-major,
// dstStride bytes per row) one pixel at a time. It is the reference
// implementation: straightforward, and the thing Tiled is checked
// against.
func Scalar(dst []byte, dstStride int, src []byte, srcStride int) {
	for y := 0; y < SrcHeight; y++ {
		for x := 0; x < SrcWidth; x++ {
			v := readPixel(src, srcStride, x, y)
			writePixel(dst, dstStride, y, SrcWidth-1-x, v)
		}
	}
}

// Tiled rotates src into dst using the 8x8 tile transpose described in
// the panel rotation contract: each tile is loaded as eight lanes (one
// per source row), put through a three-stage interleave butterfly, and
// stored as eight contiguous destination rows, with the tile's
// reversal on the source x axis folded into the store address.
func Tiled(dst []byte, dstStride int, src []byte, srcStride int) {
	for y := 0; y < SrcHeight; y += tileSize {
		for x := 0; x < SrcWidth; x += tileSize {
			var rows [tileSize]lane
			for i := 0; i < tileSize; i++ {
				rows[i] = loadLane(src, srcStride, x, y+i)
			}

			out := transpose8x8(rows)

			// out[j] holds the eight pixels that belonged to source
			// column x+j of this tile; store it at destination row
			// (SrcWidth-1-x-j), contiguous along the destination's
			// horizontal axis starting at column y.
			for j := 0; j < tileSize; j++ {
				storeLane(dst, dstStride, y, SrcWidth-1-x-j, out[j])
			}
		}
	}
}

func loadLane(buf []byte, stride, x, y int) lane {
	var l lane
	base := y*stride + x*2
	for i := 0; i < 8; i++ {
		off := base + i*2
		l[i] = uint16(buf[off]) | uint16(buf[off+1])<<8
	}
	return l
}

// storeLane writes an 8-pixel lane into dst starting at destination
// column dstCol on destination row dstRow; the 8 pixels run along the
// destination's horizontal axis, matching the contiguous vector store
// of the original tiled algorithm.
func storeLane(dst []byte, stride, dstCol, dstRow int, l lane) {
	base := dstRow*stride + dstCol*2
	for i := 0; i < 8; i++ {
		off := base + i*2
		dst[off] = byte(l[i])
		dst[off+1] = byte(l[i] >> 8)
	}
}

func readPixel(buf []byte, stride, x, y int) uint16 {
	off := y*stride + x*2
	return uint16(buf[off]) | uint16(buf[off+1])<<8
}

func writePixel(buf []byte, stride, x, y int, v uint16) {
	off := y*stride + x*2
	buf[off] = byte(v)
	buf[off+1] = byte(v >> 8)
}

// transpose8x8 is the portable-Go equivalent of the original NEON
// transpose8x8_u16: a 16-bit interleave, then a 32-bit interleave
// (reinterpreting pairs of lanes as uint32 lanes), then a 64-bit
// interleave (reinterpreting as uint64 lanes). Each stage swaps the
// same index pairs vtrnq_u16/vtrnq_u32/the vtrnq_u64 compat shim would,
// just addressed directly instead of through a vector ALU.
func transpose8x8(rows [8]lane) [8]lane {
	// Stage 1: 16-bit interleave across adjacent row pairs.
	var t [4]struct{ lo, hi lane }
	for k := 0; k < 4; k++ {
		t[k] = trn16(rows[2*k], rows[2*k+1])
	}

	// Stage 2: 32-bit interleave, pairing t[0] with t[1] and t[2] with t[3].
	s0 := trn32(t[0].lo, t[1].lo)
	s1 := trn32(t[0].hi, t[1].hi)
	s2 := trn32(t[2].lo, t[3].lo)
	s3 := trn32(t[2].hi, t[3].hi)

	// Stage 3: 64-bit interleave, pairing s0/s2 and s1/s3.
	u0 := trn64(s0.lo, s2.lo)
	u1 := trn64(s0.hi, s2.hi)
	u2 := trn64(s1.lo, s3.lo)
	u3 := trn64(s1.hi, s3.hi)

	var out [8]lane
	out[0], out[1] = u0.lo, u2.lo
	out[2], out[3] = u1.lo, u3.lo
	out[4], out[5] = u0.hi, u2.hi
	out[6], out[7] = u1.hi, u3.hi
	return out
}

type lanePair struct{ lo, hi lane }

// trn16 interleaves two lanes at 16-bit granularity: lo gets the
// even-indexed elements of a followed by the even-indexed elements of
// b interleaved one-for-one, hi gets the odd-indexed ones. This is the
// scalar equivalent of vtrnq_u16(a, b).
func trn16(a, b lane) lanePair {
	var lo, hi lane
	for i := 0; i < 8; i += 2 {
		lo[i] = a[i]
		lo[i+1] = b[i]
		hi[i] = a[i+1]
		hi[i+1] = b[i+1]
	}
	return lanePair{lo, hi}
}

// trn32 interleaves two lanes at 32-bit (two-uint16) granularity,
// equivalent to vtrnq_u32 applied to the lanes reinterpreted as 4
// uint32 elements.
func trn32(a, b lane) lanePair {
	var lo, hi lane
	for i := 0; i < 8; i += 4 {
		lo[i], lo[i+1] = a[i], a[i+1]
		lo[i+2], lo[i+3] = b[i], b[i+1]
		hi[i], hi[i+1] = a[i+2], a[i+3]
		hi[i+2], hi[i+3] = b[i+2], b[i+3]
	}
	return lanePair{lo, hi}
}

// trn64 interleaves two lanes at 64-bit (four-uint16) granularity,
// equivalent to the vtrnq_u64_compat shim: lo is the low half of a
// followed by the low half of b, hi is the high half of a followed by
// the high half of b.
func trn64(a, b lane) lanePair {
	var lo, hi lane
	lo[0], lo[1], lo[2], lo[3] = a[0], a[1], a[2], a[3]
	lo[4], lo[5], lo[6], lo[7] = b[0], b[1], b[2], b[3]
	hi[0], hi[1], hi[2], hi[3] = a[4], a[5], a[6], a[7]
	hi[4], hi[5], hi[6], hi[7] = b[4], b[5], b[6], b[7]
	return lanePair{lo, hi}
}

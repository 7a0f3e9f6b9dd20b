// Copyright 2018 Axel Wagner
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package fbdev

// Field layouts below mirror struct fb_fix_screeninfo and struct
// fb_var_screeninfo from <linux/fb.h> on 64-bit Linux (the "unsigned
// long" members are 8 bytes there). Hand-derived rather than run
// through cgo -godefs, the way internal/vt's generated types.go was,
// since those two ioctls are all this package needs from the header.

// FixScreeninfo is struct fb_fix_screeninfo.
type FixScreeninfo struct {
	ID           [16]byte
	SmemStart    uint64
	SmemLen      uint32
	Type         uint32
	TypeAux      uint32
	Visual       uint32
	Xpanstep     uint16
	Ypanstep     uint16
	Ywrapstep    uint16
	_            uint16 // padding to align LineLength's following uint32
	LineLength   uint32
	MmioStart    uint64
	MmioLen      uint32
	Accel        uint32
	Capabilities uint16
	Reserved     [2]uint16
}

// Bitfield is struct fb_bitfield: the offset, length and bit order of
// one colour channel within a pixel.
type Bitfield struct {
	Offset   uint32
	Length   uint32
	MSBRight uint32
}

// VarScreeninfo is struct fb_var_screeninfo.
type VarScreeninfo struct {
	Xres         uint32
	Yres         uint32
	XresVirtual  uint32
	YresVirtual  uint32
	Xoffset      uint32
	Yoffset      uint32
	BitsPerPixel uint32
	Grayscale    uint32
	Red          Bitfield
	Green        Bitfield
	Blue         Bitfield
	Transp       Bitfield
	Nonstd       uint32
	Activate     uint32
	Height       uint32
	Width        uint32
	AccelFlags   uint32
	Pixclock     uint32
	LeftMargin   uint32
	RightMargin  uint32
	UpperMargin  uint32
	LowerMargin  uint32
	HsyncLen     uint32
	VsyncLen     uint32
	Sync         uint32
	Vmode        uint32
	Rotate       uint32
	Colorspace   uint32
	Reserved     [4]uint32
}

// ioctl request numbers from <linux/fb.h>. These follow the classic
// _IOC(dir, 'F', nr, size) encoding with dir=size=0, i.e. just
// ('F'<<8)|nr, so they are stable across architectures.
const (
	fbioGetVScreeninfo = 0x4600
	fbioPutVScreeninfo = 0x4601
	fbioGetFScreeninfo = 0x4602
	fbioPanDisplay     = 0x4606
)

// ActivateNow and ActivateVBL are values for VarScreeninfo.Activate.
const (
	ActivateNow = 0
	// ActivateVBL asks the driver to wait for vertical blank before
	// panning, which is what makes FBIOPAN_DISPLAY tear-free.
	ActivateVBL = 16
)

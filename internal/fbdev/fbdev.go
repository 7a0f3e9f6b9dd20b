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

// Package fbdev opens and memory-maps the TG2040 panel's character
// device. It is a close relative of the teacher's internal/fb package
// (itself derived from Axel Wagner's srvfb), generalised from "render
// whatever screeninfo says" to the fixed, known-in-advance TG2040
// geometry: two 240x320 RGB565 panels stacked vertically to form a
// double buffer.
package fbdev

import (
	"fmt"
	"unsafe"

	"golang.org/x/sys/unix"
)

const (
	// PhysicalWidth and PhysicalHeight are one panel's worth of pixels.
	PhysicalWidth  = 240
	PhysicalHeight = 320

	bytesPerPixel = 2

	// VirtualHeight stacks two physical panels so the controller can
	// pan between them: one is being scanned out while the other is
	// the rotator's write target.
	VirtualHeight = PhysicalHeight * 2
	VirtualWidth  = PhysicalWidth

	// VirtualPitch is the mapped region's row stride in bytes.
	VirtualPitch = VirtualWidth * bytesPerPixel

	// MappingSize is the total size of the mapped region: two panels'
	// worth of RGB565 pixels.
	MappingSize = VirtualHeight * VirtualPitch

	// HalfSize is one panel's worth of bytes within the mapping.
	HalfSize = PhysicalHeight * VirtualPitch
)

// Device owns the open panel character device and its memory mapping.
// The zero value is not usable; construct one with Open.
type Device struct {
	fd    int // -1 once closed
	mmap  []byte
	vinfo VarScreeninfo
}

// Open opens dev (typically "/dev/fb0") for read+write, queries its
// fixed and variable screen info, and memory-maps the full
// double-buffer region. The shared mapping is attempted first; if it
// is rejected (some MPU-less embedded hosts only allow private
// mappings), a private copy-on-write mapping is tried as a fallback.
func Open(dev string) (*Device, error) {
	fd, err := unix.Open(dev, unix.O_RDWR, 0)
	if err != nil {
		return nil, &Error{Kind: DeviceUnavailable, Op: "open", Path: dev, Err: err}
	}

	d := &Device{fd: fd}

	var finfo FixScreeninfo
	if _, _, eno := unix.Syscall(unix.SYS_IOCTL, uintptr(fd), fbioGetFScreeninfo, uintptr(unsafe.Pointer(&finfo))); eno != 0 {
		unix.Close(fd)
		return nil, &Error{Kind: GeometryQueryFailed, Op: "FBIOGET_FSCREENINFO", Path: dev, Err: eno}
	}

	var vinfo VarScreeninfo
	if _, _, eno := unix.Syscall(unix.SYS_IOCTL, uintptr(fd), fbioGetVScreeninfo, uintptr(unsafe.Pointer(&vinfo))); eno != 0 {
		unix.Close(fd)
		return nil, &Error{Kind: GeometryQueryFailed, Op: "FBIOGET_VSCREENINFO", Path: dev, Err: eno}
	}
	vinfo.Activate = ActivateVBL

	mmap, err := unix.Mmap(fd, 0, MappingSize, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		mmap, err = unix.Mmap(fd, 0, MappingSize, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_PRIVATE)
		if err != nil {
			unix.Close(fd)
			return nil, &Error{Kind: MappingFailed, Op: "mmap", Path: dev, Err: err}
		}
	}

	d.mmap = mmap
	d.vinfo = vinfo
	return d, nil
}

// Half returns the byte slice for buffer half idx (0 or 1) within the
// mapped region.
func (d *Device) Half(idx int) []byte {
	off := idx * HalfSize
	return d.mmap[off : off+HalfSize]
}

// Pan requests a vsync-aligned pan to buffer half idx. It blocks in
// the kernel until the next vertical blank.
func (d *Device) Pan(idx int) error {
	d.vinfo.Yoffset = uint32(idx * PhysicalHeight)
	if _, _, eno := unix.Syscall(unix.SYS_IOCTL, uintptr(d.fd), fbioPanDisplay, uintptr(unsafe.Pointer(&d.vinfo))); eno != 0 {
		return fmt.Errorf("FBIOPAN_DISPLAY: %v", eno)
	}
	return nil
}

// Close unmaps the region and closes the file handle. It is
// idempotent: calling Close more than once, or on a Device that failed
// to fully open, is safe.
func (d *Device) Close() error {
	var err error
	if d.mmap != nil {
		err = unix.Munmap(d.mmap)
		d.mmap = nil
	}
	if d.fd >= 0 {
		if cerr := unix.Close(d.fd); cerr != nil && err == nil {
			err = cerr
		}
		d.fd = -1
	}
	return err
}

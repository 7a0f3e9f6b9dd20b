package evdev

import (
	"unsafe"

	"golang.org/x/sys/unix"
)

// Linux's classic _IOC(dir, type, nr, size) encoding
// (asm-generic/ioctl.h), used to compute the EVIOCGABS and
// EVIOCGMTSLOTS request numbers, which are parameterised on size and
// so cannot be plain constants the way the fbdev ioctls are.
const (
	iocNRBits   = 8
	iocTypeBits = 8
	iocSizeBits = 14
	iocDirBits  = 2

	iocNRShift   = 0
	iocTypeShift = iocNRShift + iocNRBits
	iocSizeShift = iocTypeShift + iocTypeBits
	iocDirShift  = iocSizeShift + iocSizeBits

	iocRead = 2

	evdevIOCType = 'E'
)

func ioc(dir, nr, size uint32) uintptr {
	return uintptr(dir<<iocDirShift | evdevIOCType<<iocTypeShift | nr<<iocNRShift | size<<iocSizeShift)
}

const absInfoSize = 24 // 6 x int32

func eviocgabs(absCode uint16) uintptr {
	return ioc(iocRead, 0x40+uint32(absCode), absInfoSize)
}

func eviocgmtslots(size int) uintptr {
	return ioc(iocRead, 0x0a, uint32(size))
}

// deviceIO is the device-facing slice of syscalls the reader needs:
// draining the event stream and the two touch-resync control calls.
// Production code routes this through a real file descriptor;
// tests substitute an in-memory fake so the resync protocol can be
// exercised without real hardware.
type deviceIO interface {
	Read(buf []byte) (int, error)
	Close() error
	// MTSlots fills values with one entry per slot for the given
	// ABS_MT_* code, via EVIOCGMTSLOTS.
	MTSlots(code uint16, values []int32) error
	// AbsValue returns the current value of an absolute axis, via
	// EVIOCGABS.
	AbsValue(code uint16) (int32, error)
}

type fdDeviceIO struct {
	fd int
}

func openDeviceIO(path string) (*fdDeviceIO, error) {
	fd, err := unix.Open(path, unix.O_RDONLY|unix.O_NONBLOCK|unix.O_CLOEXEC, 0)
	if err != nil {
		return nil, err
	}
	return &fdDeviceIO{fd: fd}, nil
}

func (d *fdDeviceIO) Read(buf []byte) (int, error) {
	return unix.Read(d.fd, buf)
}

func (d *fdDeviceIO) Close() error {
	return unix.Close(d.fd)
}

func (d *fdDeviceIO) MTSlots(code uint16, values []int32) error {
	// struct input_mt_request_layout { __u32 code; __s32 values[n]; }
	req := make([]int32, len(values)+1)
	req[0] = int32(code)
	size := len(req) * 4
	_, _, eno := unix.Syscall(unix.SYS_IOCTL, uintptr(d.fd), eviocgmtslots(size), uintptr(unsafe.Pointer(&req[0])))
	if eno != 0 {
		return eno
	}
	copy(values, req[1:])
	return nil
}

func (d *fdDeviceIO) AbsValue(code uint16) (int32, error) {
	var info absInfo
	_, _, eno := unix.Syscall(unix.SYS_IOCTL, uintptr(d.fd), eviocgabs(code), uintptr(unsafe.Pointer(&info)))
	if eno != 0 {
		return 0, eno
	}
	return info.Value, nil
}

// AbsMaximum returns the maximum value of an absolute axis, via
// EVIOCGABS.
func (d *fdDeviceIO) AbsMaximum(code uint16) (int32, error) {
	var info absInfo
	_, _, eno := unix.Syscall(unix.SYS_IOCTL, uintptr(d.fd), eviocgabs(code), uintptr(unsafe.Pointer(&info)))
	if eno != 0 {
		return 0, eno
	}
	return info.Maximum, nil
}

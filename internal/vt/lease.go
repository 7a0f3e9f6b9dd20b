// Package vt puts a Linux virtual terminal into graphics mode for the
// lifetime of a panel backend, so the text console's cursor never
// bleeds through the panel, and restores it on release.
package vt

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"sync"
	"unsafe"

	"golang.org/x/sys/unix"
)

const tty = "/dev/tty0"

func nextFreeConsole() (int, error) {
	f, err := os.OpenFile(tty, os.O_WRONLY, 0)
	if err != nil {
		return 0, err
	}
	defer f.Close()
	free, err := unix.IoctlGetInt(int(f.Fd()), vtOpenQry)
	if err != nil {
		return 0, fmt.Errorf("VT_OPENQRY: %v", err)
	}
	if err := f.Close(); err != nil {
		return 0, err
	}
	return free, nil
}

func disallocateConsole(num int) error {
	f, err := os.OpenFile(tty, os.O_WRONLY, 0)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := unix.IoctlSetInt(int(f.Fd()), vtDisallocate, num); err != nil {
		return fmt.Errorf("VT_DISALLOCATE(%d): %v", num, err)
	}
	return f.Close()
}

func handleSwitches(fd uintptr, l *Lease) error {
	var mode vtMode
	if _, _, eno := unix.Syscall(unix.SYS_IOCTL, fd, vtGetMode, uintptr(unsafe.Pointer(&mode))); eno != 0 {
		return fmt.Errorf("VT_GETMODE: %v", eno)
	}

	usr1 := make(chan os.Signal, 1)
	signal.Notify(usr1, unix.SIGUSR1)
	go func() {
		for range usr1 {
			log.Printf("vt: switched away, panel no longer visible")
			l.setVisible(false)
			if err := unix.IoctlSetInt(int(fd), vtRelDisp, 1); err != nil {
				log.Printf("VT_RELDISP: %v", err)
			}
		}
	}()

	usr2 := make(chan os.Signal, 1)
	signal.Notify(usr2, unix.SIGUSR2)
	go func() {
		for range usr2 {
			log.Printf("vt: switched back, panel visible again")
			l.setVisible(true)
			if err := unix.IoctlSetInt(int(fd), vtRelDisp, vtAckAcq); err != nil {
				log.Printf("VT_RELDISP: %v", err)
			}
			select {
			case l.redraw <- struct{}{}:
			default:
			}
		}
	}()

	mode.Mode = vtProcess
	mode.Relsig = int16(unix.SIGUSR1)
	mode.Acqsig = int16(unix.SIGUSR2)

	l.setVisible(true)

	if _, _, eno := unix.Syscall(unix.SYS_IOCTL, fd, vtSetMode, uintptr(unsafe.Pointer(&mode))); eno != 0 {
		return fmt.Errorf("VT_SETMODE: %v", eno)
	}

	return nil
}

func unhandleSwitches(fd uintptr) error {
	var mode vtMode
	if _, _, eno := unix.Syscall(unix.SYS_IOCTL, fd, vtGetMode, uintptr(unsafe.Pointer(&mode))); eno != 0 {
		return fmt.Errorf("VT_GETMODE: %v", eno)
	}

	mode.Mode = vtAuto
	mode.Relsig = 0
	mode.Acqsig = 0

	if _, _, eno := unix.Syscall(unix.SYS_IOCTL, fd, vtSetMode, uintptr(unsafe.Pointer(&mode))); eno != 0 {
		return fmt.Errorf("VT_SETMODE: %v", eno)
	}

	return nil
}

// Lease represents a virtual terminal held in graphics mode.
type Lease struct {
	f      *os.File
	vt     int
	prevVT int
	redraw chan struct{}

	visibleMu sync.Mutex
	visible   bool
}

// Acquire opens the next free Linux virtual terminal and switches it
// into graphics mode. Call Release when done, to restore text mode and
// switch back to whatever VT was active beforehand.
func Acquire() (*Lease, error) {
	// Modeled after https://github.com/g0hl1n/psplash/blob/master/psplash-linuxvt.c
	free, err := nextFreeConsole()
	if err != nil {
		return nil, err
	}
	log.Printf("vt: leasing next free console /dev/tty%d", free)

	f, err := os.OpenFile(fmt.Sprintf("/dev/tty%d", free), os.O_RDWR, 0)
	if err != nil {
		return nil, err
	}

	var state vtState
	_, _, eno := unix.Syscall(unix.SYS_IOCTL, f.Fd(), vtGetState, uintptr(unsafe.Pointer(&state)))
	if eno != 0 {
		return nil, fmt.Errorf("VT_GETSTATE: %v", eno)
	}

	if err := unix.IoctlSetInt(int(f.Fd()), vtActivate, free); err != nil {
		return nil, fmt.Errorf("VT_ACTIVATE: %v", err)
	}
	if err := unix.IoctlSetInt(int(f.Fd()), vtWaitActive, free); err != nil {
		return nil, fmt.Errorf("VT_WAITACTIVE: %v", err)
	}

	l := &Lease{
		f:      f,
		vt:     free,
		prevVT: int(state.Active),
		redraw: make(chan struct{}, 1),
	}

	if err := handleSwitches(f.Fd(), l); err != nil {
		return nil, err
	}

	if err := unix.IoctlSetInt(int(f.Fd()), kdSetMode, kdGraphics); err != nil {
		return nil, fmt.Errorf("KDSETMODE: %v", err)
	}

	return l, nil
}

func (l *Lease) setVisible(v bool) {
	l.visibleMu.Lock()
	defer l.visibleMu.Unlock()
	l.visible = v
}

// Visible reports whether this virtual terminal is currently the one
// displayed on screen.
func (l *Lease) Visible() bool {
	l.visibleMu.Lock()
	defer l.visibleMu.Unlock()
	return l.visible
}

// Redraw signals that the panel became visible again after the user
// switched away and back, so the last frame should be repanned.
func (l *Lease) Redraw() <-chan struct{} {
	return l.redraw
}

// Release switches the console back to text mode, restores the
// previously active virtual terminal, and disallocates the leased one.
func (l *Lease) Release() error {
	if err := unix.IoctlSetInt(int(l.f.Fd()), kdSetMode, kdText); err != nil {
		return fmt.Errorf("KDSETMODE: %v", err)
	}

	if err := unhandleSwitches(l.f.Fd()); err != nil {
		return err
	}

	if err := unix.IoctlSetInt(int(l.f.Fd()), vtActivate, l.prevVT); err != nil {
		return fmt.Errorf("VT_ACTIVATE: %v", err)
	}
	if err := unix.IoctlSetInt(int(l.f.Fd()), vtWaitActive, l.prevVT); err != nil {
		return fmt.Errorf("VT_WAITACTIVE: %v", err)
	}

	if err := l.f.Close(); err != nil {
		return err
	}

	close(l.redraw)

	return disallocateConsole(l.vt)
}

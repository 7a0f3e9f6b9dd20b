//go:build ignore
// +build ignore

// generate with: GOARCH=arm go tool cgo -godefs ctypes.go | gofmt > types.go

package vt

/*
#include <linux/vt.h>
#include <linux/kd.h>
*/
import "C"

type vtState C.struct_vt_stat

type vtMode C.struct_vt_mode

const (
	vtOpenQry     = C.VT_OPENQRY
	vtGetState    = C.VT_GETSTATE
	vtGetMode     = C.VT_GETMODE
	vtSetMode     = C.VT_SETMODE
	vtActivate    = C.VT_ACTIVATE
	vtWaitActive  = C.VT_WAITACTIVE
	vtDisallocate = C.VT_DISALLOCATE
	vtProcess     = C.VT_PROCESS
	vtAuto        = C.VT_AUTO
	vtAckAcq      = C.VT_ACKACQ
	vtRelDisp     = C.VT_RELDISP
)

const (
	kdSetMode  = C.KDSETMODE
	kdGetMode  = C.KDGETMODE
	kdGraphics = C.KD_GRAPHICS
	kdText     = C.KD_TEXT
)

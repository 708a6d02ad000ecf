package platform

import (
	"fmt"
	"syscall"
	"time"
	"unsafe"
)

var (
	user32               = syscall.NewLazyDLL("user32.dll")
	kernel32             = syscall.NewLazyDLL("kernel32.dll")
	procGetLastInputInfo = user32.NewProc("GetLastInputInfo")
	procGetTickCount     = kernel32.NewProc("GetTickCount")
)

type lastInputInfo struct {
	size uint32
	time uint32
}

type lastInputProvider struct{}

func newIdleProvider() IdleProvider {
	if err := procGetLastInputInfo.Find(); err != nil {
		return unsupportedIdleProvider{}
	}
	return lastInputProvider{}
}

type unsupportedIdleProvider struct{}

func (unsupportedIdleProvider) IdleDuration() (time.Duration, error) {
	return 0, ErrIdleUnsupported
}

func (lastInputProvider) IdleDuration() (time.Duration, error) {
	info := lastInputInfo{size: uint32(unsafe.Sizeof(lastInputInfo{}))}
	if result, _, err := procGetLastInputInfo.Call(uintptr(unsafe.Pointer(&info))); result == 0 {
		return 0, fmt.Errorf("GetLastInputInfo: %w", err)
	}
	now, _, _ := procGetTickCount.Call()
	// Both values are 32-bit millisecond tick counts; the subtraction wraps.
	idle := uint32(now) - info.time
	return time.Duration(idle) * time.Millisecond, nil
}

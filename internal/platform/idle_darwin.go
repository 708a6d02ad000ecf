package platform

import (
	"fmt"
	"os/exec"
	"regexp"
	"strconv"
	"time"
)

var hidIdlePattern = regexp.MustCompile(`"HIDIdleTime"\s*=\s*(\d+)`)

// ioregProvider reads HIDIdleTime (nanoseconds) from the IOHIDSystem registry entry.
type ioregProvider struct{}

func newIdleProvider() IdleProvider {
	if _, err := exec.LookPath("ioreg"); err != nil {
		return unsupportedIdleProvider{}
	}
	return ioregProvider{}
}

type unsupportedIdleProvider struct{}

func (unsupportedIdleProvider) IdleDuration() (time.Duration, error) {
	return 0, ErrIdleUnsupported
}

func (ioregProvider) IdleDuration() (time.Duration, error) {
	output, err := exec.Command("ioreg", "-c", "IOHIDSystem", "-d", "4").Output()
	if err != nil {
		return 0, fmt.Errorf("ioreg: %w", err)
	}
	match := hidIdlePattern.FindSubmatch(output)
	if match == nil {
		return 0, ErrIdleUnsupported
	}
	nanos, err := strconv.ParseInt(string(match[1]), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse HIDIdleTime: %w", err)
	}
	return time.Duration(nanos), nil
}

package platform

import (
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"
)

// xprintidleProvider asks the X server for the idle time. Wayland sessions
// without XWayland have no equivalent and report ErrIdleUnsupported.
type xprintidleProvider struct {
	binary string
}

type unsupportedIdleProvider struct{}

func newIdleProvider() IdleProvider {
	binary, err := exec.LookPath("xprintidle")
	if err != nil {
		return unsupportedIdleProvider{}
	}
	return &xprintidleProvider{binary: binary}
}

func (provider *xprintidleProvider) IdleDuration() (time.Duration, error) {
	output, err := exec.Command(provider.binary).Output()
	if err != nil {
		return 0, fmt.Errorf("xprintidle: %w", err)
	}
	return parseIdleMillis(string(output))
}

func (unsupportedIdleProvider) IdleDuration() (time.Duration, error) {
	return 0, ErrIdleUnsupported
}

func parseIdleMillis(value string) (time.Duration, error) {
	millis, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse idle milliseconds: %w", err)
	}
	if millis < 0 {
		millis = 0
	}
	return time.Duration(millis) * time.Millisecond, nil
}

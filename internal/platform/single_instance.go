package platform

import (
	"errors"
	"fmt"
	"hash/fnv"
	"net"
)

// ErrAlreadyRunning indicates another card process already holds the lock.
var ErrAlreadyRunning = errors.New("instance already running")

const (
	lockPortMin = 20000
	lockPortMax = 39999
)

// InstanceLock keeps one desktop card per lock name by holding a loopback port.
type InstanceLock struct {
	listener net.Listener
}

// AcquireInstanceLock binds the loopback port derived from name.
func AcquireInstanceLock(name string) (*InstanceLock, error) {
	listener, err := net.Listen("tcp", LockAddress(name))
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrAlreadyRunning, name)
	}
	return &InstanceLock{listener: listener}, nil
}

// Release frees the lock. It is safe on a nil lock.
func (lock *InstanceLock) Release() error {
	if lock == nil || lock.listener == nil {
		return nil
	}
	err := lock.listener.Close()
	lock.listener = nil
	return err
}

// LockAddress returns the loopback address used for name.
func LockAddress(name string) string {
	hash := fnv.New32a()
	_, _ = hash.Write([]byte(name))
	span := uint32(lockPortMax - lockPortMin + 1)
	return fmt.Sprintf("127.0.0.1:%d", lockPortMin+int(hash.Sum32()%span))
}

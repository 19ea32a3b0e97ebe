package joymouse

import (
	"errors"
	"fmt"
	"syscall"
)

var (
	ErrDeviceUnavailable = errors.New("input device unavailable")
	ErrDeviceLost        = errors.New("input device lost")
)

// ReadClassifier separates transient read hiccups from a device that keeps
// failing. Sources report every failed read through Failure and every good
// read through Success.
type ReadClassifier struct {
	Limit       int
	consecutive int
}

func (c *ReadClassifier) Success() {
	c.consecutive = 0
}

// Failure returns nil while err still looks transient and an error wrapping
// ErrDeviceLost once the device is gone or the failures exceed Limit.
func (c *ReadClassifier) Failure(err error) error {
	if IsDeviceGone(err) {
		return fmt.Errorf("%w: %w", ErrDeviceLost, err)
	}
	c.consecutive++
	if c.Limit > 0 && c.consecutive > c.Limit {
		return fmt.Errorf("%w: %d consecutive read errors, last: %w", ErrDeviceLost, c.consecutive, err)
	}
	return nil
}

func IsWouldBlock(err error) bool {
	return errors.Is(err, syscall.EAGAIN) || errors.Is(err, syscall.EWOULDBLOCK) || errors.Is(err, syscall.EINTR)
}

func IsDeviceGone(err error) bool {
	return errors.Is(err, syscall.ENODEV) || errors.Is(err, syscall.EBADF) || errors.Is(err, syscall.ENXIO)
}

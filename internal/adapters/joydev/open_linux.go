//go:build linux

package joydev

import (
	"bytes"
	"fmt"
	"unsafe"

	"joymouse/internal/core/joymouse"

	"golang.org/x/sys/unix"
)

const (
	iocNRBits   = 8
	iocTypeBits = 8
	iocSizeBits = 14

	iocNRShift   = 0
	iocTypeShift = iocNRShift + iocNRBits
	iocSizeShift = iocTypeShift + iocTypeBits
	iocDirShift  = iocSizeShift + iocSizeBits

	iocRead = 2
)

const nameLength = 128

func ioc(dir, typ, nr, size uint32) uintptr {
	return uintptr((dir << iocDirShift) | (typ << iocTypeShift) | (nr << iocNRShift) | (size << iocSizeShift))
}

func jsiocgVersion() uintptr { return ioc(iocRead, 'j', 0x01, 4) }
func jsiocgAxes() uintptr    { return ioc(iocRead, 'j', 0x11, 1) }
func jsiocgButtons() uintptr { return ioc(iocRead, 'j', 0x12, 1) }
func jsiocgName(n int) uintptr {
	return ioc(iocRead, 'j', 0x13, uint32(n))
}

// Open opens a joystick device node read-only and non-blocking.
func Open(path string, opts Options) (*Source, error) {
	fd, err := unix.Open(path, unix.O_RDONLY|unix.O_NONBLOCK|unix.O_CLOEXEC, 0)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", joymouse.ErrDeviceUnavailable, path, err)
	}

	info := DeviceInfo{Path: path}
	if name, err := deviceName(fd); err == nil {
		info.Name = name
	}
	if axes, err := ioctlUint8(fd, jsiocgAxes()); err == nil {
		info.Axes = axes
	}
	if buttons, err := ioctlUint8(fd, jsiocgButtons()); err == nil {
		info.Buttons = buttons
	}
	if version, err := unix.IoctlGetUint32(fd, uint(jsiocgVersion())); err == nil {
		info.Version = version
	}

	read := func(p []byte) (int, error) {
		return unix.Read(fd, p)
	}
	closeFn := func() error {
		return unix.Close(fd)
	}
	return newSource(info, read, closeFn, opts), nil
}

func deviceName(fd int) (string, error) {
	buf := make([]byte, nameLength)
	_, _, errno := unix.Syscall(unix.SYS_IOCTL, uintptr(fd), jsiocgName(len(buf)), uintptr(unsafe.Pointer(&buf[0])))
	if errno != 0 {
		return "", errno
	}
	if i := bytes.IndexByte(buf, 0); i >= 0 {
		buf = buf[:i]
	}
	return string(buf), nil
}

func ioctlUint8(fd int, req uintptr) (uint8, error) {
	var value uint8
	_, _, errno := unix.Syscall(unix.SYS_IOCTL, uintptr(fd), req, uintptr(unsafe.Pointer(&value)))
	if errno != 0 {
		return 0, errno
	}
	return value, nil
}

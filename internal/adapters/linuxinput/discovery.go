//go:build linux

package linuxinput

import (
	"fmt"
	"os"
	"sort"

	evdev "github.com/holoplot/go-evdev"
)

type DeviceInfo struct {
	Path      string
	Name      string
	IsVirtual bool
	IsGamepad bool
	Axes      int
	Buttons   int
}

func ListInputDevices() ([]DeviceInfo, error) {
	paths, err := evdev.ListDevicePaths()
	if err != nil {
		return nil, err
	}

	sort.Slice(paths, func(i, j int) bool {
		return paths[i].Path < paths[j].Path
	})

	devices := make([]DeviceInfo, 0, len(paths))
	for _, path := range paths {
		dev, err := openInputDevice(path.Path)
		if err != nil {
			continue
		}

		name := path.Name
		if actualName, err := dev.Name(); err == nil && actualName != "" {
			name = actualName
		}

		absCodes := dev.CapableEvents(evdev.EV_ABS)
		keyCodes := dev.CapableEvents(evdev.EV_KEY)
		devices = append(devices, DeviceInfo{
			Path:      path.Path,
			Name:      name,
			IsVirtual: deviceIsVirtual(dev, name),
			IsGamepad: hasGamepadCapabilities(absCodes, keyCodes),
			Axes:      len(absCodes),
			Buttons:   len(keyCodes),
		})
		_ = dev.Close()
	}

	return devices, nil
}

// FindGamepad returns the first physical gamepad event node, preferring
// physical devices over virtual ones.
func FindGamepad() (DeviceInfo, error) {
	devices, err := ListInputDevices()
	if err != nil {
		return DeviceInfo{}, err
	}

	var virtual []DeviceInfo
	for _, dev := range devices {
		if !dev.IsGamepad {
			continue
		}
		if dev.IsVirtual {
			virtual = append(virtual, dev)
			continue
		}
		return dev, nil
	}
	if len(virtual) > 0 {
		return virtual[0], nil
	}
	return DeviceInfo{}, fmt.Errorf("no gamepad found; use --list-devices and then pass --device")
}

func openInputDevice(path string) (*evdev.InputDevice, error) {
	return evdev.OpenWithFlags(path, os.O_RDONLY)
}

func deviceIsVirtual(device *evdev.InputDevice, name string) bool {
	id, err := device.InputID()
	if err == nil && id.BusType == uint16(evdev.BUS_VIRTUAL) {
		return true
	}
	return nameLooksVirtual(name)
}

//go:build linux

package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"joymouse/internal/adapters/devwatch"
	"joymouse/internal/adapters/joydev"
	"joymouse/internal/adapters/linuxinput"
	"joymouse/internal/adapters/x11input"
	"joymouse/internal/core/joymouse"
)

func parseBackendChoice(value string) (string, error) {
	backend := strings.ToLower(strings.TrimSpace(value))
	if backend == "" {
		backend = "auto"
	}
	switch backend {
	case "auto", "x11", "uinput":
		return backend, nil
	default:
		return "", fmt.Errorf("invalid --backend %q (linux supports auto|x11|uinput)", value)
	}
}

func permissionDeniedHint() string {
	return "Permission denied opening input backend. Add your user to the input group (or use a udev rule) for /dev/input, and for the uinput backend grant access to /dev/uinput. On X11 ensure DISPLAY is set."
}

// watchedSource closes the device watcher together with the source.
type watchedSource struct {
	joymouse.Source
	watch *devwatch.Watcher
}

func (s watchedSource) Close() error {
	err := s.Source.Close()
	if s.watch != nil {
		_ = s.watch.Close()
	}
	return err
}

func openSource(cfg config, logger *slog.Logger) (joymouse.Source, error) {
	path := cfg.devicePath
	kind := resolveSource(cfg.source, path)

	if kind == "evdev" && !isEventNode(path) {
		found, err := linuxinput.FindGamepad()
		if err != nil {
			return nil, err
		}
		logger.Info("Discovered gamepad", "path", found.Path, "name", found.Name)
		path = found.Path
	}

	watch, err := devwatch.Watch(path, logger)
	if err != nil {
		logger.Warn("Device removal watch unavailable", "path", path, "err", err)
	}
	var loss interface{ Lost() bool }
	if watch != nil {
		loss = watch
	}

	var source joymouse.Source
	switch kind {
	case "evdev":
		pad, err := linuxinput.OpenGamepadSource(path, linuxinput.SourceOptions{
			MaxReadErrors: cfg.maxReadErrors,
			Watch:         loss,
			Logger:        logger,
		})
		if err != nil {
			closeWatch(watch)
			return nil, err
		}
		logger.Info("Using source device", "source", "evdev", "path", path, "name", pad.Name(), "axes", pad.Axes(), "buttons", pad.Buttons())
		source = pad
	default:
		js, err := joydev.Open(path, joydev.Options{
			MaxReadErrors: cfg.maxReadErrors,
			Watch:         loss,
			Logger:        logger,
		})
		if err != nil {
			closeWatch(watch)
			return nil, err
		}
		info := js.Info()
		logger.Info("Using source device", "source", "joydev", "path", path, "name", info.Name, "axes", info.Axes, "buttons", info.Buttons)
		source = js
	}
	return watchedSource{Source: source, watch: watch}, nil
}

func closeWatch(watch *devwatch.Watcher) {
	if watch != nil {
		_ = watch.Close()
	}
}

func openSink(cfg config, logger *slog.Logger) (joymouse.Sink, error) {
	switch resolveLinuxBackend(cfg.backend) {
	case "x11":
		sink, err := x11input.Open(cfg.display, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to open X11 display: %w", err)
		}
		logger.Info("Backend", "name", "x11")
		return sink, nil
	default:
		sink, err := linuxinput.OpenUinputSink()
		if err != nil {
			return nil, err
		}
		logger.Info("Backend", "name", "uinput")
		if cfg.translation.RightStick == joymouse.ModeWarp {
			logger.Warn("Warp mode on uinput moves the pointer relatively and is subject to pointer acceleration")
		}
		return sink, nil
	}
}

func listInputDevices(out io.Writer) error {
	devices, err := linuxinput.ListInputDevices()
	if err != nil {
		return err
	}
	for _, dev := range devices {
		virtualTag := "physical"
		if dev.IsVirtual {
			virtualTag = "virtual"
		}
		kindTag := "other"
		if dev.IsGamepad {
			kindTag = "gamepad"
		}
		fmt.Fprintf(out, "%s: %s [%s, %s, %d axes, %d buttons]\n", dev.Path, dev.Name, virtualTag, kindTag, dev.Axes, dev.Buttons)
	}

	joysticks, _ := filepath.Glob("/dev/input/js*")
	for _, path := range joysticks {
		fmt.Fprintf(out, "%s: joydev\n", path)
	}
	return nil
}

func resolveSource(configured, devicePath string) string {
	choice := strings.ToLower(strings.TrimSpace(configured))
	if choice == "joydev" || choice == "evdev" {
		return choice
	}
	if isEventNode(devicePath) {
		return "evdev"
	}
	return "joydev"
}

func isEventNode(path string) bool {
	resolved, err := filepath.EvalSymlinks(path)
	if err != nil {
		resolved = path
	}
	return strings.HasPrefix(filepath.Base(resolved), "event") || strings.HasSuffix(path, "-event-joystick")
}

func resolveLinuxBackend(configured string) string {
	choice := strings.ToLower(strings.TrimSpace(configured))
	if choice == "" {
		choice = "auto"
	}
	if choice != "auto" {
		return choice
	}

	sessionType := strings.ToLower(strings.TrimSpace(os.Getenv("XDG_SESSION_TYPE")))
	switch sessionType {
	case "wayland":
		return "uinput"
	case "x11":
		return "x11"
	}

	if strings.TrimSpace(os.Getenv("WAYLAND_DISPLAY")) != "" {
		return "uinput"
	}
	if strings.TrimSpace(os.Getenv("DISPLAY")) != "" {
		return "x11"
	}
	return "uinput"
}

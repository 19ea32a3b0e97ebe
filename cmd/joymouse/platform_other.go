//go:build !linux

package main

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"joymouse/internal/core/joymouse"
)

func parseBackendChoice(value string) (string, error) {
	backend := strings.ToLower(strings.TrimSpace(value))
	if backend == "" || backend == "auto" {
		return "auto", nil
	}
	return "", fmt.Errorf("invalid --backend %q (unsupported platform)", value)
}

func permissionDeniedHint() string {
	return "Permission denied opening input backend."
}

func openSource(_ config, _ *slog.Logger) (joymouse.Source, error) {
	return nil, fmt.Errorf("%w: gamepad input is only supported on linux", joymouse.ErrDeviceUnavailable)
}

func openSink(_ config, _ *slog.Logger) (joymouse.Sink, error) {
	return nil, fmt.Errorf("synthetic pointer output is only supported on linux")
}

func listInputDevices(_ io.Writer) error {
	return fmt.Errorf("input device listing is not supported on this platform")
}

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"joymouse/internal/core/joymouse"
)

type config struct {
	devicePath    string
	source        string
	backend       string
	display       string
	configPath    string
	maxReadErrors int
	listDevices   bool
	writeConfig   bool
	logLevel      slog.Level
	translation   joymouse.Config
}

func newSlogLogger(out io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(out, &slog.HandlerOptions{
		Level: level,
	}))
}

func parseLogLevel(value string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warning", "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("invalid --log-level %q (expected debug|info|warning|error)", value)
	}
}

func parseSourceChoice(value string) (string, error) {
	source := strings.ToLower(strings.TrimSpace(value))
	if source == "" {
		source = "auto"
	}
	switch source {
	case "auto", "joydev", "evdev":
		return source, nil
	default:
		return "", fmt.Errorf("invalid --source %q (expected auto|joydev|evdev)", value)
	}
}

// parseConfig layers built-in defaults, the config file and explicitly set
// flags, in that order.
func parseConfig(args []string, stderr io.Writer) (config, error) {
	var cfg config
	flags := flag.NewFlagSet("joymouse", flag.ContinueOnError)
	flags.SetOutput(stderr)

	defaults := defaultSettings()
	var (
		deviceRaw   string
		sourceRaw   string
		backendRaw  string
		modeRaw     string
		logLevelRaw string
	)

	flags.StringVar(&deviceRaw, "device", defaults.Device, "Gamepad device node: /dev/input/jsN (joydev) or /dev/input/eventN (evdev).")
	flags.StringVar(&sourceRaw, "source", defaults.Source, "Input source: auto|joydev|evdev. auto picks by device node name.")
	flags.StringVar(&backendRaw, "backend", defaults.Backend, "Output backend: auto|x11|uinput.")
	flags.StringVar(&cfg.display, "display", defaults.Display, "X11 display to connect to (default: $DISPLAY).")
	flags.StringVar(&modeRaw, "mode", string(defaults.Translation.RightStick), "Right stick behaviour: scroll|warp.")
	flags.StringVar(&cfg.configPath, "config", "", "Config file path (default: $XDG_CONFIG_HOME/joymouse/config.toml).")
	flags.StringVar(&logLevelRaw, "log-level", defaults.LogLevel, "Log verbosity (default: info). Allowed: debug, info, warning, error.")
	flags.BoolVar(&cfg.listDevices, "list-devices", false, "Print available input devices and exit.")
	flags.BoolVar(&cfg.writeConfig, "write-config", false, "Write the effective configuration to the config file and exit.")

	if err := flags.Parse(args); err != nil {
		return cfg, err
	}
	if flags.NArg() > 0 {
		return cfg, fmt.Errorf("unexpected arguments: %s", strings.Join(flags.Args(), " "))
	}

	set := make(map[string]bool)
	flags.Visit(func(f *flag.Flag) {
		set[f.Name] = true
	})

	explicitConfig := cfg.configPath != ""
	if !explicitConfig {
		path, err := settingsPath()
		if err != nil {
			return cfg, err
		}
		cfg.configPath = path
	}
	settings, err := loadSettings(cfg.configPath, explicitConfig && !cfg.writeConfig)
	if err != nil {
		return cfg, err
	}

	if set["device"] {
		settings.Device = deviceRaw
	}
	if set["source"] {
		settings.Source = sourceRaw
	}
	if set["backend"] {
		settings.Backend = backendRaw
	}
	if set["display"] {
		settings.Display = cfg.display
	}
	if set["log-level"] {
		settings.LogLevel = logLevelRaw
	}
	if set["mode"] {
		settings.Translation.RightStick = joymouse.RightStickMode(strings.ToLower(strings.TrimSpace(modeRaw)))
	}

	if strings.TrimSpace(settings.Device) == "" {
		return cfg, fmt.Errorf("--device must not be empty")
	}
	if settings.MaxReadErrors <= 0 {
		return cfg, fmt.Errorf("max_read_errors must be > 0")
	}
	source, err := parseSourceChoice(settings.Source)
	if err != nil {
		return cfg, err
	}
	backend, err := parseBackendChoice(settings.Backend)
	if err != nil {
		return cfg, err
	}
	level, err := parseLogLevel(settings.LogLevel)
	if err != nil {
		return cfg, err
	}
	if _, err := joymouse.ParseRightStickMode(string(settings.Translation.RightStick)); err != nil {
		return cfg, fmt.Errorf("invalid --mode: %w", err)
	}
	if err := settings.Translation.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid [translation] settings in %s: %w", cfg.configPath, err)
	}

	cfg.devicePath = settings.Device
	cfg.source = source
	cfg.backend = backend
	cfg.display = settings.Display
	cfg.maxReadErrors = settings.MaxReadErrors
	cfg.logLevel = level
	cfg.translation = settings.Translation
	return cfg, nil
}

func (c config) settings() fileSettings {
	return fileSettings{
		Device:        c.devicePath,
		Source:        c.source,
		Backend:       c.backend,
		Display:       c.display,
		LogLevel:      strings.ToLower(c.logLevel.String()),
		MaxReadErrors: c.maxReadErrors,
		Translation:   c.translation,
	}
}

func isPermissionError(err error) bool {
	return errors.Is(err, os.ErrPermission) || errors.Is(err, syscall.EPERM) || errors.Is(err, syscall.EACCES)
}

func run(args []string, stdout, stderr io.Writer) int {
	cfg, err := parseConfig(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		fmt.Fprintln(stderr, err)
		return 2
	}

	if cfg.writeConfig {
		if err := saveSettings(cfg.configPath, cfg.settings()); err != nil {
			fmt.Fprintln(stderr, err)
			return 1
		}
		fmt.Fprintln(stdout, cfg.configPath)
		return 0
	}

	if cfg.listDevices {
		if err := listInputDevices(stdout); err != nil {
			fmt.Fprintln(stderr, err)
			return 1
		}
		return 0
	}

	logger := newSlogLogger(stderr, cfg.logLevel)

	source, err := openSource(cfg, logger)
	if err != nil {
		return reportStartupError(stderr, err)
	}
	defer source.Close()

	sink, err := openSink(cfg, logger)
	if err != nil {
		return reportStartupError(stderr, err)
	}
	defer sink.Close()

	service, err := joymouse.NewService(cfg.translation, source, sink, logger)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := service.Run(ctx); err != nil {
		logger.Error("Translation stopped", "err", err)
		return 1
	}
	return 0
}

func reportStartupError(stderr io.Writer, err error) int {
	if isPermissionError(err) {
		fmt.Fprintln(stderr, err)
		fmt.Fprintln(stderr, permissionDeniedHint())
		return 1
	}
	fmt.Fprintln(stderr, err)
	return 1
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

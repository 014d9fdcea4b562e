package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/atomicstack/pijul-channel-picker/internal/app"
	"github.com/atomicstack/pijul-channel-picker/internal/config"
	"github.com/atomicstack/pijul-channel-picker/internal/logging"
	"github.com/atomicstack/pijul-channel-picker/internal/logging/events"
	"golang.org/x/term"
)

// exit codes: 0 on a choice, 1 on dismissal or runtime failure, 2 on bad config.
const (
	exitOK = iota
	exitCancelled
	exitConfig
)

func main() {
	os.Exit(run())
}

func run() int {
	runtimeCfg := config.MustLoad()
	if err := config.Validate(runtimeCfg); err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		return exitConfig
	}
	logging.Configure(runtimeCfg.Logging.FilePath)
	logging.SetTraceEnabled(runtimeCfg.Logging.Trace)

	tty := probeTerminals()
	events.App.Start(startupTracePayload(runtimeCfg, tty))

	if err := app.Run(runtimeCfg.App, uiOutput(tty)); err != nil {
		if errors.Is(err, app.ErrDismissed) {
			return exitCancelled
		}
		logging.Error(err)
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return exitCancelled
	}
	return exitOK
}

// startupTracePayload bundles runtime context for trace logging.
func startupTracePayload(cfg config.Config, tty ttyDetails) map[string]interface{} {
	flags := make(map[string]interface{}, len(cfg.Flags)+3)
	for k, v := range cfg.Flags {
		flags[k] = v
	}
	flags["trace"] = cfg.Logging.Trace
	flags["logFile"] = cfg.Logging.FilePath
	if cfg.File != "" {
		flags["config"] = cfg.File
	}
	payload := map[string]interface{}{
		"argv":   cfg.Args,
		"flags":  flags,
		"config": cfg,
		"tty":    tty,
	}
	if cwd, err := os.Getwd(); err == nil {
		payload["cwd"] = cwd
	} else {
		payload["cwdError"] = err.Error()
	}
	return payload
}

type ttyDetails struct {
	UI     string           `json:"ui"`
	Probes []ttyProbeResult `json:"probes"`
}

type ttyProbeResult struct {
	Name       string `json:"name"`
	IsTerminal bool   `json:"is_terminal"`
	Width      int    `json:"width,omitempty"`
	Height     int    `json:"height,omitempty"`
	Error      string `json:"error,omitempty"`
}

type descriptor struct {
	name string
	fd   uintptr
}

func standardDescriptors() []descriptor {
	return []descriptor{
		{"stdin", os.Stdin.Fd()},
		{"stdout", os.Stdout.Fd()},
		{"stderr", os.Stderr.Fd()},
	}
}

func probeTerminals() ttyDetails {
	return probe(standardDescriptors(), term.IsTerminal, term.GetSize)
}

// probe records terminal support for each descriptor and picks where the
// picker should draw. Stdout is preferred, but when it is redirected (for
// example inside $(...)) the picker draws on stderr so the chosen channel
// stays clean on stdout.
func probe(descs []descriptor, isTerminal func(int) bool, size func(int) (int, int, error)) ttyDetails {
	details := ttyDetails{UI: "stdout", Probes: make([]ttyProbeResult, 0, len(descs))}
	stdoutTTY := false
	stderrTTY := false
	for _, d := range descs {
		entry := ttyProbeResult{Name: d.name}
		fd := int(d.fd)
		if fd >= 0 && isTerminal(fd) {
			entry.IsTerminal = true
			if width, height, err := size(fd); err == nil {
				entry.Width = width
				entry.Height = height
			} else {
				entry.Error = err.Error()
			}
		}
		switch d.name {
		case "stdout":
			stdoutTTY = entry.IsTerminal
		case "stderr":
			stderrTTY = entry.IsTerminal
		}
		details.Probes = append(details.Probes, entry)
	}
	if !stdoutTTY && stderrTTY {
		details.UI = "stderr"
	}
	return details
}

func uiOutput(tty ttyDetails) io.Writer {
	if tty.UI == "stderr" {
		return os.Stderr
	}
	return os.Stdout
}

package main

import (
	"fmt"
	"os"

	"github.com/sims-ims/sims-client/internal/app"
	"github.com/sims-ims/sims-client/internal/config"
	"github.com/sims-ims/sims-client/internal/logging"
	"github.com/sims-ims/sims-client/internal/logging/events"
	"golang.org/x/term"
)

func main() {
	cfg := config.MustLoad()
	if err := config.Validate(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		os.Exit(2)
	}
	logging.Configure(cfg.Logging.FilePath)
	logging.SetTraceEnabled(cfg.Logging.Trace)

	events.App.Start(startupTracePayload(cfg))

	err := app.Run(cfg.App)
	// The terminal is ours again; surface anything the log could not record.
	if ferr := logging.Failure(); ferr != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", ferr)
	}
	if err != nil {
		logging.Error(err)
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// startupTracePayload bundles runtime context for trace logging.
func startupTracePayload(cfg config.Config) map[string]interface{} {
	flags := make(map[string]interface{}, len(cfg.Flags)+2)
	for k, v := range cfg.Flags {
		flags[k] = v
	}
	flags["trace"] = cfg.Logging.Trace
	flags["logFile"] = cfg.Logging.FilePath
	payload := map[string]interface{}{
		"argv":    cfg.Args,
		"flags":   flags,
		"server":  cfg.App.Server,
		"logPath": logging.Path(),
		"config":  cfg,
		"tty":     collectTTYDetails(),
	}
	if exe, err := os.Executable(); err == nil {
		payload["executable"] = exe
	} else {
		payload["executableError"] = err.Error()
	}
	if cwd, err := os.Getwd(); err == nil {
		payload["cwd"] = cwd
	} else {
		payload["cwdError"] = err.Error()
	}
	return payload
}

type ttyDetails struct {
	Detected *ttyDetected     `json:"detected,omitempty"`
	Probes   []ttyProbeResult `json:"probes"`
}

type ttyDetected struct {
	Source string `json:"source"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

type ttyProbeResult struct {
	Name       string `json:"name"`
	IsTerminal bool   `json:"is_terminal"`
	Width      int    `json:"width,omitempty"`
	Height     int    `json:"height,omitempty"`
	Error      string `json:"error,omitempty"`
}

// collectTTYDetails reports which standard descriptors are terminals and the
// first size found. The inventory table sizes itself from that terminal.
func collectTTYDetails() ttyDetails {
	var details ttyDetails
	for _, f := range []*os.File{os.Stdin, os.Stdout, os.Stderr} {
		probe := probeTTY(f)
		if probe.IsTerminal && probe.Error == "" && details.Detected == nil {
			details.Detected = &ttyDetected{Source: probe.Name, Width: probe.Width, Height: probe.Height}
		}
		details.Probes = append(details.Probes, probe)
	}
	return details
}

func probeTTY(f *os.File) ttyProbeResult {
	result := ttyProbeResult{Name: ttyName(f)}
	fd := int(f.Fd())
	if fd < 0 || !term.IsTerminal(fd) {
		return result
	}
	result.IsTerminal = true
	width, height, err := term.GetSize(fd)
	if err != nil {
		result.Error = err.Error()
		return result
	}
	result.Width, result.Height = width, height
	return result
}

func ttyName(f *os.File) string {
	switch f {
	case os.Stdin:
		return "stdin"
	case os.Stdout:
		return "stdout"
	case os.Stderr:
		return "stderr"
	}
	return f.Name()
}

// Command qsim is a terminal quantum circuit simulator: place gates on a
// register of up to ten qubits, run it, and read the measured distribution.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/Gudvin82/quantum-simulator/internal/config"
	"github.com/Gudvin82/quantum-simulator/internal/explain"
	"github.com/Gudvin82/quantum-simulator/internal/quantum"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "qsim: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	cfg, err := config.ParseConfig(flag.CommandLine, args)
	if err != nil {
		return err
	}

	logger, closeLog, err := newLogger(cfg.LogFile, cfg.LogLevel)
	if err != nil {
		return err
	}
	defer closeLog()

	var ex explainer
	if client, err := explain.NewClient(cfg.Explain, logger); err != nil {
		logger.Warn("explanations disabled", "err", err)
	} else {
		ex = client
	}

	m := initialModel(cfg.Qubits, ex, logger, cfg.SaveFile,
		quantum.WithWorkers(cfg.Workers),
		quantum.WithLogger(logger),
	)
	logger.Info("starting", "qubits", cfg.Qubits, "workers", cfg.Workers, "explain", ex != nil)

	if _, err := tea.NewProgram(m, tea.WithAltScreen()).Run(); err != nil {
		logger.Error("program exited", "err", err)
		return err
	}
	return nil
}

// newLogger writes logfmt-style records to path. The TUI owns the terminal, so
// an empty path discards logs instead of falling back to stderr.
func newLogger(path, level string) (*log.Logger, func(), error) {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return nil, nil, fmt.Errorf("log level: %w", err)
	}
	if path == "" {
		return log.New(io.Discard), func() {}, nil
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	logger := log.NewWithOptions(f, log.Options{
		Level:           lvl,
		Prefix:          "qsim",
		ReportTimestamp: true,
		Formatter:       log.LogfmtFormatter,
	})
	return logger, func() { f.Close() }, nil
}

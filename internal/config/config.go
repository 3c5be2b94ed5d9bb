// Package config loads simulator settings from the environment and flags.
package config

import (
	"flag"
	"fmt"

	"github.com/caarlos0/env/v11"

	"github.com/Gudvin82/quantum-simulator/internal/explain"
	"github.com/Gudvin82/quantum-simulator/internal/quantum"
)

// Config holds the terminal simulator configuration.
type Config struct {
	Qubits   int    `env:"QSIM_QUBITS" envDefault:"2"`
	Workers  int    `env:"QSIM_WORKERS" envDefault:"0"`
	LogFile  string `env:"QSIM_LOG_FILE" envDefault:"qsim.log"`
	LogLevel string `env:"QSIM_LOG_LEVEL" envDefault:"info"`
	SaveFile string `env:"QSIM_SAVE_FILE" envDefault:"circuit.qasm"`
	Explain  explain.Config
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// ParseConfig parses environment and then flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	fs.IntVar(&cfg.Qubits, "qubits", cfg.Qubits, "Initial number of qubits (1-10)")
	fs.IntVar(&cfg.Workers, "workers", cfg.Workers, "Goroutines per gate application (0 = one per CPU)")
	fs.StringVar(&cfg.LogFile, "log-file", cfg.LogFile, "Log file path (empty disables logging)")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level: debug, info, warn, error")
	fs.StringVar(&cfg.SaveFile, "save-file", cfg.SaveFile, "Where ctrl+s writes the circuit as QASM")
	fs.StringVar(&cfg.Explain.Model, "explain-model", cfg.Explain.Model, "Model used for circuit explanations")
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	if cfg.Qubits < 1 || cfg.Qubits > quantum.MaxQubits {
		return Config{}, fmt.Errorf("qubits must be between 1 and %d, got %d", quantum.MaxQubits, cfg.Qubits)
	}
	return cfg, nil
}

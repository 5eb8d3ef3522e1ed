// Package cli holds the flag, logging and metrics wiring shared by the
// relief commands.
package cli

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/cognicore/relief/pkg/relief/config"
	"github.com/cognicore/relief/pkg/relief/metrics"
)

// Flags are the options every command accepts
type Flags struct {
	ConfigPath  string
	LogLevel    string
	MetricsFile string
}

// Register adds the shared flags to cmd
func (f *Flags) Register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.ConfigPath, "config", "c", "", "Config file path (YAML)")
	cmd.Flags().StringVar(&f.LogLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	cmd.Flags().StringVar(&f.MetricsFile, "metrics-file", "", "Write Prometheus metrics to this file on exit")
}

// Env is the per-run state built from Flags
type Env struct {
	Config  config.Config
	Logger  *slog.Logger
	Metrics *metrics.Recorder
	RunID   string

	metricsFile string
}

// Setup loads the configuration and creates a logger writing to w. Every
// record carries the run id.
func (f *Flags) Setup(w io.Writer) (*Env, error) {
	level, err := ParseLevel(f.LogLevel)
	if err != nil {
		return nil, err
	}
	cfg, err := config.Load(f.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	runID := uuid.NewString()
	logger := slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})).With("run_id", runID)
	return &Env{
		Config:      cfg,
		Logger:      logger,
		Metrics:     metrics.New(),
		RunID:       runID,
		metricsFile: f.MetricsFile,
	}, nil
}

// Finish writes the metrics file when one was requested
func (e *Env) Finish() error {
	if e.metricsFile == "" {
		return nil
	}
	if err := e.Metrics.WriteFile(e.metricsFile); err != nil {
		return fmt.Errorf("write metrics: %w", err)
	}
	e.Logger.Debug("metrics written", "path", e.metricsFile)
	return nil
}

// ParseLevel maps a level name to a slog level
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("unknown log level %q", s)
}

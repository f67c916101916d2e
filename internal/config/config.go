// Package config loads stealpool command configuration from YAML or JSON files.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Swind/go-steal-pool/core"

	"gopkg.in/yaml.v3"
)

// FileConfig is the layout of a configuration file.
type FileConfig struct {
	Pool    PoolConfig    `yaml:"pool" json:"pool"`
	Bench   BenchConfig   `yaml:"bench" json:"bench"`
	Metrics MetricsConfig `yaml:"metrics" json:"metrics"`
	Log     LogConfig     `yaml:"log" json:"log"`
}

// PoolConfig mirrors the serialisable part of core.PoolConfig.
type PoolConfig struct {
	ID              string `yaml:"id" json:"id"`
	Workers         int    `yaml:"workers" json:"workers"`
	IdleInterval    string `yaml:"idle_interval" json:"idle_interval"`
	Seed            uint64 `yaml:"seed" json:"seed"`
	HistoryCapacity int    `yaml:"history_capacity" json:"history_capacity"`
	LockOSThread    bool   `yaml:"lock_os_thread" json:"lock_os_thread"`
	// PanicPolicy is "log" (recover and continue) or "fatal" (crash the process).
	PanicPolicy string `yaml:"panic_policy" json:"panic_policy"`
}

// BenchConfig describes the synthetic workload of the bench command.
type BenchConfig struct {
	Tasks        int    `yaml:"tasks" json:"tasks"`
	TaskDuration string `yaml:"task_duration" json:"task_duration"`
	Timeout      string `yaml:"timeout" json:"timeout"`
	ClearAfter   string `yaml:"clear_after" json:"clear_after"`
}

// MetricsConfig controls the Prometheus endpoint.
type MetricsConfig struct {
	Addr         string `yaml:"addr" json:"addr"`
	Namespace    string `yaml:"namespace" json:"namespace"`
	PollInterval string `yaml:"poll_interval" json:"poll_interval"`
}

// LogConfig selects the minimum log level.
type LogConfig struct {
	Level string `yaml:"level" json:"level"`
}

// BenchSettings is BenchConfig with durations parsed.
type BenchSettings struct {
	Tasks        int
	TaskDuration time.Duration
	Timeout      time.Duration
	ClearAfter   time.Duration
}

// Default returns the configuration used when no file is given.
func Default() *FileConfig {
	return &FileConfig{
		Pool: PoolConfig{
			ID:          "bench",
			PanicPolicy: "log",
		},
		Bench: BenchConfig{
			Tasks:        1000,
			TaskDuration: "1ms",
			Timeout:      "30s",
		},
		Metrics: MetricsConfig{
			Namespace:    "stealpool",
			PollInterval: "1s",
		},
		Log: LogConfig{Level: "info"},
	}
}

// LoadFile reads a YAML (.yaml, .yml) or JSON (.json) file on top of Default().
func LoadFile(path string) (*FileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := Default()
	ext := strings.ToLower(filepath.Ext(path))

	switch ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse YAML: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse JSON: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported config format: %s", ext)
	}

	return config, nil
}

// Validate checks value ranges and that every duration parses.
func (f *FileConfig) Validate() error {
	if f.Bench.Tasks < 0 {
		return fmt.Errorf("bench.tasks must be non-negative")
	}
	switch strings.ToLower(f.Pool.PanicPolicy) {
	case "", "log", "fatal":
	default:
		return fmt.Errorf("pool.panic_policy must be \"log\" or \"fatal\", got %q", f.Pool.PanicPolicy)
	}
	if _, err := core.ParseLogLevel(f.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}

	durations := map[string]string{
		"pool.idle_interval":    f.Pool.IdleInterval,
		"bench.task_duration":   f.Bench.TaskDuration,
		"bench.timeout":         f.Bench.Timeout,
		"bench.clear_after":     f.Bench.ClearAfter,
		"metrics.poll_interval": f.Metrics.PollInterval,
	}
	for field, value := range durations {
		if _, err := parseDuration(value); err != nil {
			return fmt.Errorf("invalid %s: %w", field, err)
		}
	}
	return nil
}

// ToPoolConfig builds a core.PoolConfig. Handlers not covered by the file
// (metrics, logger) are left for the caller to set.
func (f *FileConfig) ToPoolConfig(logger core.Logger) (*core.PoolConfig, error) {
	idle, err := parseDuration(f.Pool.IdleInterval)
	if err != nil {
		return nil, fmt.Errorf("invalid pool.idle_interval: %w", err)
	}

	config := core.DefaultPoolConfig()
	config.ID = f.Pool.ID
	config.Workers = f.Pool.Workers
	config.Seed = f.Pool.Seed
	config.HistoryCapacity = f.Pool.HistoryCapacity
	config.LockOSThread = f.Pool.LockOSThread
	if idle > 0 {
		config.IdleInterval = idle
	}
	if logger != nil {
		config.Logger = logger
		config.RejectedTaskHandler = &core.DefaultRejectedTaskHandler{Logger: logger}
	}

	if strings.EqualFold(f.Pool.PanicPolicy, "fatal") {
		config.PanicHandler = &core.FatalPanicHandler{}
	} else {
		config.PanicHandler = &core.DefaultPanicHandler{Logger: logger}
	}
	return config, nil
}

// BenchSettings parses the bench section.
func (f *FileConfig) BenchSettings() (BenchSettings, error) {
	var (
		s   = BenchSettings{Tasks: f.Bench.Tasks}
		err error
	)
	if s.TaskDuration, err = parseDuration(f.Bench.TaskDuration); err != nil {
		return s, fmt.Errorf("invalid bench.task_duration: %w", err)
	}
	if s.Timeout, err = parseDuration(f.Bench.Timeout); err != nil {
		return s, fmt.Errorf("invalid bench.timeout: %w", err)
	}
	if s.ClearAfter, err = parseDuration(f.Bench.ClearAfter); err != nil {
		return s, fmt.Errorf("invalid bench.clear_after: %w", err)
	}
	return s, nil
}

// PollInterval parses metrics.poll_interval.
func (f *FileConfig) PollInterval() (time.Duration, error) {
	return parseDuration(f.Metrics.PollInterval)
}

// parseDuration treats an empty string as zero.
func parseDuration(s string) (time.Duration, error) {
	if s == "" {
		return 0, nil
	}
	return time.ParseDuration(s)
}

package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Settings holds the runtime configuration. Values come from defaults, then
// an optional YAML file, then command-line flags.
type Settings struct {
	Source  string         `yaml:"source"` // "demo", "mdns", host:port or a recording path
	Record  string         `yaml:"record"` // Optional CBOR recording path
	Radar   RadarSettings  `yaml:"radar"`
	Demo    DemoSettings   `yaml:"demo"`
	Log     LogSettings    `yaml:"log"`
	Metrics MetricsSetting `yaml:"metrics"`
}

// RadarSettings controls the polar plot.
type RadarSettings struct {
	RangeMeters float64 `yaml:"rangeMeters"`
	Rings       int     `yaml:"rings"`
}

// DemoSettings controls the simulated ranging source.
type DemoSettings struct {
	Endpoints int           `yaml:"endpoints"`
	Interval  time.Duration `yaml:"interval"`
	Seed      int64         `yaml:"seed"`
}

// LogSettings controls the rotating log file. An empty File disables logging.
type LogSettings struct {
	File       string `yaml:"file"`
	Level      string `yaml:"level"`
	Format     string `yaml:"format"`
	MaxSizeMB  int    `yaml:"maxSizeMb"`
	MaxBackups int    `yaml:"maxBackups"`
	MaxAgeDays int    `yaml:"maxAgeDays"`
}

// MetricsSetting controls the optional Prometheus endpoint.
type MetricsSetting struct {
	Addr string `yaml:"addr"`
}

// Default returns the built-in settings.
func Default() *Settings {
	return &Settings{
		Source: "demo",
		Radar: RadarSettings{
			RangeMeters: MaxRange,
			Rings:       RingCount,
		},
		Demo: DemoSettings{
			Interval: DemoInterval,
		},
		Log: LogSettings{
			Level:      "info",
			Format:     "text",
			MaxSizeMB:  LogMaxSizeMB,
			MaxBackups: LogMaxBackups,
			MaxAgeDays: LogMaxAgeDays,
		},
	}
}

// Load returns the defaults overlaid with the YAML file at path. An empty
// path returns the defaults.
func Load(path string) (*Settings, error) {
	s := Default()
	if path == "" {
		return s, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return s, nil
}

// Validate checks that the settings can drive the display.
func (s *Settings) Validate() error {
	var errs []error
	if s.Radar.RangeMeters < MinRange || s.Radar.RangeMeters > RangeLimit {
		errs = append(errs, fmt.Errorf("radar.rangeMeters must be within %.0f..%.0f, got %g", MinRange, RangeLimit, s.Radar.RangeMeters))
	}
	if s.Radar.Rings < 1 {
		errs = append(errs, fmt.Errorf("radar.rings must be positive, got %d", s.Radar.Rings))
	}
	if s.Demo.Endpoints < 0 {
		errs = append(errs, fmt.Errorf("demo.endpoints must not be negative, got %d", s.Demo.Endpoints))
	}
	if s.Demo.Interval <= 0 {
		errs = append(errs, fmt.Errorf("demo.interval must be positive, got %s", s.Demo.Interval))
	}
	switch strings.ToLower(s.Log.Format) {
	case "", "text", "json":
	default:
		errs = append(errs, fmt.Errorf("log.format must be text or json, got %q", s.Log.Format))
	}
	if strings.TrimSpace(s.Source) == "" {
		errs = append(errs, errors.New("source must not be empty"))
	}
	return errors.Join(errs...)
}

package main

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"uwb-radar.klederson.com/internal/app"
	"uwb-radar.klederson.com/internal/config"
	"uwb-radar.klederson.com/internal/logging"
	"uwb-radar.klederson.com/internal/metrics"
	"uwb-radar.klederson.com/internal/uwb"
)

var (
	flagDemo        bool
	flagSource      string
	flagRange       float64
	flagConfig      string
	flagRecord      string
	flagLogFile     string
	flagLogLevel    string
	flagMetricsAddr string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "uwb-radar",
		Short: "UWB Radar - Terminal display for Ultra-Wideband ranging results",
		Long: `UWB Radar plots the distance and azimuth of nearby UWB endpoints on a
polar radar and lists connected and disconnected endpoints with their
session parameters.

Ranging results come from a bridge streaming CBOR frames over TCP, found
directly (--source host:port) or via mDNS (--source mdns). A recording made
with --record can be replayed with --source <file>.
Use --demo for simulated endpoints without hardware.`,
		SilenceUsage: true,
		RunE:         run,
	}

	rootCmd.Flags().BoolVar(&flagDemo, "demo", false, "Run with simulated endpoints (same as --source demo)")
	rootCmd.Flags().StringVar(&flagSource, "source", "", "Ranging source: demo, mdns, host:port or a recording file")
	rootCmd.Flags().Float64Var(&flagRange, "range", 0, "Radar range in meters")
	rootCmd.Flags().StringVar(&flagConfig, "config", "", "YAML configuration file")
	rootCmd.Flags().StringVar(&flagRecord, "record", "", "Record every received frame to this CBOR file")
	rootCmd.Flags().StringVar(&flagLogFile, "log-file", "", "Write logs to this rotating file")
	rootCmd.Flags().StringVar(&flagLogLevel, "log-level", "", "Log level: debug, info, warn, error")
	rootCmd.Flags().StringVar(&flagMetricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address, e.g. :9464")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadSettings layers flags over the config file over the defaults.
func loadSettings(cmd *cobra.Command) (*config.Settings, error) {
	s, err := config.Load(flagConfig)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("source") {
		s.Source = flagSource
	}
	if flagDemo {
		s.Source = "demo"
	}
	if flags.Changed("range") {
		s.Radar.RangeMeters = flagRange
	}
	if flags.Changed("record") {
		s.Record = flagRecord
	}
	if flags.Changed("log-file") {
		s.Log.File = flagLogFile
	}
	if flags.Changed("log-level") {
		s.Log.Level = flagLogLevel
	}
	if flags.Changed("metrics-addr") {
		s.Metrics.Addr = flagMetricsAddr
	}

	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("invalid settings: %w", err)
	}
	return s, nil
}

func run(cmd *cobra.Command, args []string) error {
	settings, err := loadSettings(cmd)
	if err != nil {
		return err
	}

	log, closer := logging.New(settings.Log)
	defer closer.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	collector, err := metrics.NewCollector(prometheus.NewRegistry())
	if err != nil {
		return err
	}
	if settings.Metrics.Addr != "" {
		if err := collector.Serve(ctx, settings.Metrics.Addr, log); err != nil {
			return err
		}
	}

	source, err := app.OpenSource(settings, collector, log)
	if err != nil {
		return err
	}

	var recorder *uwb.Recorder
	if settings.Record != "" {
		recorder, err = uwb.NewRecorder(settings.Record)
		if err != nil {
			return err
		}
		defer recorder.Close()
	}

	log.Info("starting", "source", source.Name(), "range", settings.Radar.RangeMeters, "record", settings.Record)

	model := app.New(app.Options{
		Source:    source,
		Recorder:  recorder,
		Collector: collector,
		Logger:    log,
		Range:     settings.Radar.RangeMeters,
		Rings:     settings.Radar.Rings,
	})

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
		tea.WithFPS(config.TargetFPS),
	)

	// Start forwarding with reference to the tea program
	model.StartSource(p)
	defer model.Shutdown()

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run ui: %w", err)
	}
	return nil
}

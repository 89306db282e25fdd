package app

import (
	"fmt"
	"log/slog"
	"net"
	"os"

	"uwb-radar.klederson.com/internal/config"
	"uwb-radar.klederson.com/internal/metrics"
	"uwb-radar.klederson.com/internal/uwb"
)

// OpenSource picks the ranging source named by s.Source: "demo" for the
// simulator, "mdns" to locate a bridge on the local network, the path of an
// existing recording to replay it, or host:port to stream from a bridge.
func OpenSource(s *config.Settings, collector *metrics.Collector, log *slog.Logger) (uwb.RangingControlSource, error) {
	switch s.Source {
	case "demo":
		return uwb.NewMockSource(uwb.MockOptions{
			Endpoints: s.Demo.Endpoints,
			Interval:  s.Demo.Interval,
			Seed:      s.Demo.Seed,
		}), nil
	case "mdns":
		return withReconnectMetric(uwb.NewMDNSSource(config.ServiceType, log), collector), nil
	}

	if fi, err := os.Stat(s.Source); err == nil && !fi.IsDir() {
		return uwb.NewReplaySource(s.Source, log), nil
	}
	if _, _, err := net.SplitHostPort(s.Source); err != nil {
		return nil, fmt.Errorf("source %q is not demo, mdns, a recording or host:port: %w", s.Source, err)
	}
	return withReconnectMetric(uwb.NewTCPSource(s.Source, log), collector), nil
}

func withReconnectMetric(src *uwb.StreamSource, collector *metrics.Collector) *uwb.StreamSource {
	if collector != nil {
		src.OnRedial = collector.SourceReconnects.Inc
	}
	return src
}

package app

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"uwb-radar.klederson.com/internal/config"
	"uwb-radar.klederson.com/internal/logging"
	"uwb-radar.klederson.com/internal/metrics"
	"uwb-radar.klederson.com/internal/uwb"
)

func TestOpenSource(t *testing.T) {
	recording := filepath.Join(t.TempDir(), "session.cbor")
	require.NoError(t, os.WriteFile(recording, nil, 0o644))

	tests := []struct {
		source   string
		wantName string
		wantErr  bool
	}{
		{source: "demo", wantName: "demo"},
		{source: "mdns", wantName: "mdns " + config.ServiceType},
		{source: recording, wantName: "replay " + recording},
		{source: "10.0.0.2:7777", wantName: "tcp 10.0.0.2:7777"},
		{source: "not-a-source", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.source, func(t *testing.T) {
			s := config.Default()
			s.Source = tt.source

			src, err := OpenSource(s, nil, logging.Discard())
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantName, src.Name())
		})
	}
}

func TestDemoSourceCanBeControlled(t *testing.T) {
	src, err := OpenSource(config.Default(), nil, logging.Discard())
	require.NoError(t, err)
	_, ok := src.(uwb.RangingController)
	assert.True(t, ok)
}

func TestStreamSourceCountsRedials(t *testing.T) {
	c, err := metrics.NewCollector(prometheus.NewRegistry())
	require.NoError(t, err)

	s := config.Default()
	s.Source = "127.0.0.1:1"
	src, err := OpenSource(s, c, logging.Discard())
	require.NoError(t, err)

	stream, ok := src.(*uwb.StreamSource)
	require.True(t, ok)
	require.NotNil(t, stream.OnRedial)
	stream.OnRedial()
	assert.Equal(t, 1.0, testutil.ToFloat64(c.SourceReconnects))
}

package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"uwb-radar.klederson.com/internal/uwb"
)

func newTestCollector(t *testing.T) *Collector {
	t.Helper()
	c, err := NewCollector(prometheus.NewRegistry())
	require.NoError(t, err)
	return c
}

func TestObserveEvent(t *testing.T) {
	c := newTestCollector(t)

	c.ObserveEvent(uwb.KindFound)
	c.ObserveEvent(uwb.KindPosition)
	c.ObserveEvent(uwb.KindPosition)

	assert.Equal(t, 1.0, testutil.ToFloat64(c.Events.WithLabelValues(uwb.KindFound)))
	assert.Equal(t, 2.0, testutil.ToFloat64(c.Events.WithLabelValues(uwb.KindPosition)))
}

func TestObserveSnapshot(t *testing.T) {
	c := newTestCollector(t)
	a := uwb.Endpoint{ID: "A"}

	c.ObserveSnapshot(&uwb.Snapshot{
		Connected:    []uwb.ConnectedEndpoint{{Endpoint: a}},
		Disconnected: []uwb.Endpoint{{ID: "B"}, {ID: "C"}},
		Sessions:     map[string]uwb.RangingInfo{a.Key(): {SessionID: 1}},
		Running:      true,
	})

	assert.Equal(t, 1.0, testutil.ToFloat64(c.Connected))
	assert.Equal(t, 2.0, testutil.ToFloat64(c.Disconnected))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.Sessions))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.Ranging))

	c.ObserveSnapshot(&uwb.Snapshot{})
	assert.Equal(t, 0.0, testutil.ToFloat64(c.Connected))
	assert.Equal(t, 0.0, testutil.ToFloat64(c.Ranging))
}

func TestNilCollectorIsSafe(t *testing.T) {
	var c *Collector
	c.ObserveEvent(uwb.KindLost)
	c.ObserveSnapshot(&uwb.Snapshot{})
}

func TestDuplicateRegistrationFails(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := NewCollector(reg)
	require.NoError(t, err)

	_, err = NewCollector(reg)
	assert.Error(t, err)
}

func TestHandlerExposesMetrics(t *testing.T) {
	c := newTestCollector(t)
	c.ObserveEvent(uwb.KindFound)
	c.SourceReconnects.Inc()

	srv := httptest.NewServer(c.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Contains(t, string(body), `uwb_events_total{kind="found"} 1`)
	assert.Contains(t, string(body), "uwb_source_reconnects_total 1")
}

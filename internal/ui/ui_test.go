package ui

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"uwb-radar.klederson.com/internal/uwb"
)

func testSnapshot() *uwb.Snapshot {
	a := uwb.Endpoint{ID: "alpha|1234", Address: []byte{0x0A, 0x0B}}
	b := uwb.Endpoint{ID: "beta|5678"}
	c := uwb.Endpoint{ID: "gamma|9"}
	info := uwb.RangingInfo{
		ConfigID:       1,
		Address:        []byte{0x0A, 0x0B},
		ComplexChannel: uwb.ComplexChannel{Channel: 9, PreambleIndex: 11},
		SessionID:      4242,
	}
	return &uwb.Snapshot{
		Connected: []uwb.ConnectedEndpoint{
			{
				Endpoint: a,
				Position: uwb.RangingPosition{
					Distance:             uwb.Meters(2),
					Azimuth:              uwb.Degrees(10),
					ElapsedRealtimeNanos: 123456789,
				},
				Info: &info,
			},
			{
				Endpoint: b,
				Position: uwb.RangingPosition{Distance: uwb.Meters(3.5)},
			},
		},
		Disconnected: []uwb.Endpoint{c},
		Sessions:     map[string]uwb.RangingInfo{a.Key(): info},
		Running:      true,
	}
}

func TestFormatMeasurements(t *testing.T) {
	assert.Equal(t, "2.00m", FormatMeters(uwb.Meters(2)))
	assert.Equal(t, "N/A", FormatMeters(nil))
	assert.Equal(t, "-45.50°", FormatDegrees(uwb.Degrees(-45.5)))
	assert.Equal(t, "N/A", FormatDegrees(nil))
}

func TestAngleToDir(t *testing.T) {
	tests := []struct {
		deg  float64
		want string
	}{
		{0, "N"},
		{44, "NE"},
		{90, "E"},
		{-90, "W"},
		{181, "S"},
		{359, "N"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, angleToDir(tt.deg), "deg=%v", tt.deg)
	}
}

func TestElevationLabel(t *testing.T) {
	assert.Equal(t, "N/A", elevationLabel(nil))
	assert.Equal(t, "above", elevationLabel(uwb.Degrees(20)))
	assert.Equal(t, "below", elevationLabel(uwb.Degrees(-20)))
	assert.Equal(t, "level", elevationLabel(uwb.Degrees(3)))
}

func TestEndpointListShowsCardsAndDisconnected(t *testing.T) {
	out := RenderEndpointList(testSnapshot(), 60, 40, 0)

	assert.Contains(t, out, "CONNECTED [2]")
	assert.Contains(t, out, "Sessions: 1")
	assert.Contains(t, out, "alpha")
	assert.Contains(t, out, "alpha|1234", "cards carry the full endpoint ID")
	assert.Contains(t, out, "2.00m")
	assert.Contains(t, out, "10.00°")
	assert.Contains(t, out, "123456789 ns")
	assert.Contains(t, out, "0A:0B")
	assert.Contains(t, out, "4242")
	assert.Contains(t, out, noRangingInfo)
	assert.Contains(t, out, "N/A")
	assert.Contains(t, out, "DISCONNECTED [1]")
	assert.Contains(t, out, "gamma|9")
}

func TestDisconnectedListShowsFullIDs(t *testing.T) {
	lines := disconnectedSection([]uwb.Endpoint{{ID: "Tag|1"}, {ID: "Tag|2"}}, 40)
	require.Len(t, lines, 4)
	assert.Contains(t, lines[2], "Tag|1")
	assert.Contains(t, lines[3], "Tag|2")
}

func TestEndpointListHeight(t *testing.T) {
	out := RenderEndpointList(testSnapshot(), 40, 12, 1)
	assert.Len(t, strings.Split(out, "\n"), 12)
	assert.Contains(t, out, "DISCONNECTED [1]")
}

func TestEndpointListEmptyAndStopped(t *testing.T) {
	out := RenderEndpointList(&uwb.Snapshot{}, 40, 20, 0)
	assert.Contains(t, out, "No connected endpoints")
	assert.Contains(t, out, "Ranging is stopped")
}

func TestMenuBarRangingIndicator(t *testing.T) {
	assert.Contains(t, RenderMenuBar(120, "demo", true), "RANGING")
	out := RenderMenuBar(120, "tcp 10.0.0.2:7777", false)
	assert.Contains(t, out, "STOPPED")
	assert.Contains(t, out, "Source: tcp 10.0.0.2:7777")
	assert.Contains(t, out, "UWB RANGING")
}

func TestStatusBar(t *testing.T) {
	out := RenderStatusBar(140, StatusInfo{Running: true, Connected: 2, Disconnected: 1, Sessions: 1, Events: 17, SweepDeg: 90, Range: 10})
	assert.Contains(t, out, "[RANGING]")
	assert.Contains(t, out, "Connected: 2")
	assert.Contains(t, out, "Events: 17")
	assert.Contains(t, out, "Range: 0-10m")
	assert.Equal(t, 140, lipgloss.Width(out))
}

func TestDetailPanel(t *testing.T) {
	snap := testSnapshot()
	out := RenderDetailPanel(snap.Connected[0], 0, 70, 40, []float64{3, 2.5, 2}, 10)

	assert.Contains(t, out, "ENDPOINT DETAIL")
	assert.Contains(t, out, "EP1 alpha")
	assert.Contains(t, out, "alpha|1234")
	assert.Contains(t, out, "Distance History")
	assert.Contains(t, out, "2.00m  N  N/A")
	assert.Len(t, strings.Split(out, "\n"), 40)
}

func TestDetailPanelWithoutAzimuth(t *testing.T) {
	snap := testSnapshot()
	out := RenderDetailPanel(snap.Connected[1], 1, 70, 40, nil, 10)
	assert.Contains(t, out, "3.50m  N/A  N/A")
	assert.Contains(t, out, "?")
	assert.NotContains(t, out, "Distance History")
}

func TestCompassArrowPointsEast(t *testing.T) {
	out := RenderCompass(21, 11, uwb.RangingPosition{Distance: uwb.Meters(1), Azimuth: uwb.Degrees(90)}, 10)
	lines := strings.Split(out, "\n")
	require.Len(t, lines, 11)
	assert.Contains(t, lines[6], ">")
}

func TestCompassTooSmall(t *testing.T) {
	assert.Empty(t, RenderCompass(5, 3, uwb.RangingPosition{}, 10))
}

func TestSparkline(t *testing.T) {
	assert.Equal(t, "^-_", renderSparkline([]float64{4, 3, 2}, 10))
	assert.Len(t, renderSparkline([]float64{1, 2, 3, 4, 5}, 3), 3)
	assert.Empty(t, renderSparkline(nil, 10))
}

func TestSessionRows(t *testing.T) {
	rows := SessionRows(testSnapshot())
	require.Len(t, rows, 1)
	assert.Equal(t, "alpha", rows[0][0])
	assert.Equal(t, "9", rows[0][2])
	assert.Equal(t, "11", rows[0][3])
	assert.Equal(t, "4242", rows[0][4])
	assert.Equal(t, "0A:0B", rows[0][5])
}

func TestSessionPanel(t *testing.T) {
	tbl := NewSessionTable()
	out := RenderSessionPanel(tbl, 80, 20)
	assert.Contains(t, out, "No active sessions")

	tbl.SetRows(SessionRows(testSnapshot()))
	out = RenderSessionPanel(tbl, 80, 20)
	assert.Contains(t, out, "SESSIONS [1]")
	assert.Contains(t, out, "4242")
	assert.Len(t, strings.Split(out, "\n"), 20)
}

package radar

import (
	"math"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"uwb-radar.klederson.com/internal/config"
	"uwb-radar.klederson.com/internal/uwb"
)

func connectedAt(id string, d, az float64) uwb.ConnectedEndpoint {
	return uwb.ConnectedEndpoint{
		Endpoint: uwb.Endpoint{ID: id},
		Position: uwb.RangingPosition{Distance: uwb.Meters(d), Azimuth: uwb.Degrees(az)},
	}
}

func TestProject(t *testing.T) {
	tests := []struct {
		name  string
		d, az float64
		wantX float64
		wantY float64
	}{
		{"ahead", 2, 0, 0, -2},
		{"right", 2, 90, 2, 0},
		{"behind", 2, 180, 0, 2},
		{"left", 2, -90, -2, 0},
		{"origin", 0, 45, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x, y := Project(tt.d, tt.az, 1)
			assert.InDelta(t, tt.wantX, x, 1e-9)
			assert.InDelta(t, tt.wantY, y, 1e-9)
		})
	}
}

func TestCellIsDeterministic(t *testing.T) {
	cv := NewCanvas(80, 40, 10)
	c1, r1, _ := cv.Cell(3.5, 42)
	c2, r2, _ := cv.Cell(3.5, 42)
	assert.Equal(t, c1, c2)
	assert.Equal(t, r1, r2)
}

func TestCellClampsBeyondRange(t *testing.T) {
	cv := NewCanvas(80, 40, 5)

	col, row, clamped := cv.Cell(50, 0)
	assert.True(t, clamped)
	assert.Equal(t, cv.CenterX, col)
	assert.Equal(t, cv.CenterY-int(math.Round(cv.Radius*0.5)), row)

	_, _, clamped = cv.Cell(4.9, 0)
	assert.False(t, clamped)
}

func TestCellAngleOrientation(t *testing.T) {
	assert.InDelta(t, 0, CellAngle(10, 5, 10, 10), 1e-9)
	assert.InDelta(t, math.Pi/2, CellAngle(15, 10, 10, 10), 1e-9)
	assert.InDelta(t, math.Pi, CellAngle(10, 15, 10, 10), 1e-9)
}

func TestNormalizeAngle(t *testing.T) {
	assert.InDelta(t, math.Pi, NormalizeAngle(-math.Pi), 1e-9)
	assert.InDelta(t, 0.5, NormalizeAngle(4*math.Pi+0.5), 1e-9)
}

func TestSweepTurnsOnlyWhileRanging(t *testing.T) {
	s := NewSweep()
	t0 := time.Unix(0, 0)

	s.Update(t0, true)
	s.Update(t0.Add(time.Second), true)
	moved := s.Angle
	assert.Greater(t, moved, 0.0)

	s.Update(t0.Add(2*time.Second), false)
	assert.Equal(t, moved, s.Angle)
	assert.False(t, s.Active)
	assert.Zero(t, s.Intensity(moved))

	s.Update(t0.Add(3*time.Second), false)
	assert.Equal(t, moved, s.Angle)
}

func TestSweepIntensityTrail(t *testing.T) {
	s := &Sweep{Angle: math.Pi, Active: true}
	assert.InDelta(t, 1.0, s.Intensity(math.Pi), 1e-9)
	assert.Greater(t, s.Intensity(math.Pi-0.1), 0.0)
	assert.Zero(t, s.Intensity(math.Pi+0.1))

	var nilSweep *Sweep
	assert.Zero(t, nilSweep.Intensity(0))
}

func TestPaletteCycles(t *testing.T) {
	assert.Equal(t, EndpointColor(0), EndpointColor(len(palette)))
	assert.NotEqual(t, EndpointColor(0), EndpointColor(1))
	assert.Equal(t, "EP1", EndpointLabel(0))
	assert.Equal(t, "EP12", EndpointLabel(11))
}

func TestPlotPointsSkipsUnplottable(t *testing.T) {
	cv := NewCanvas(80, 40, 10)
	noAz := uwb.ConnectedEndpoint{
		Endpoint: uwb.Endpoint{ID: "b"},
		Position: uwb.RangingPosition{Distance: uwb.Meters(2)},
	}

	points := PlotPoints(cv, []uwb.ConnectedEndpoint{connectedAt("a", 2, 0), noAz, connectedAt("c", 4, 90)})
	require.Len(t, points, 2)
	assert.Equal(t, 0, points[0].Index)
	assert.Equal(t, 2, points[1].Index)
	assert.Equal(t, "EP3", points[1].Label)
}

func TestPlotPointsAvoidsLabelCollisions(t *testing.T) {
	cv := NewCanvas(80, 40, 10)
	eps := []uwb.ConnectedEndpoint{
		connectedAt("a", 3, 0),
		connectedAt("b", 3, 0),
	}

	points := PlotPoints(cv, eps)
	require.Len(t, points, 2)
	assert.Equal(t, points[0].Row, points[0].LabelRow)
	assert.NotEqual(t, points[0].LabelRow, points[1].LabelRow)
}

func TestPlotPointsLabelFlipsAtRightEdge(t *testing.T) {
	cv := NewCanvas(40, 20, 10)
	points := PlotPoints(cv, []uwb.ConnectedEndpoint{connectedAt("a", 10, 90)})
	require.Len(t, points, 1)
	assert.Less(t, points[0].LabelCol, points[0].Col)
}

func TestRenderDimensions(t *testing.T) {
	out := Render(60, 24, []uwb.ConnectedEndpoint{connectedAt("a", 2, 30)}, NewSweep(), Options{Range: 10, Rings: 5})
	lines := strings.Split(out, "\n")
	require.Len(t, lines, 24)
	for _, l := range lines {
		assert.Equal(t, 60, lipgloss.Width(l))
	}
	assert.Contains(t, out, "EP1")
	assert.Contains(t, out, "+")
	assert.Contains(t, out, "10m")
}

func TestDefaultRingLabelsFitShortPanel(t *testing.T) {
	// An 80x24 terminal leaves about 16 rows for the radar.
	opts := Options{Range: config.MaxRange, Rings: config.RingCount}
	out := Render(60, 16, nil, nil, opts)
	for i := 1; i <= opts.Rings; i++ {
		assert.Contains(t, out, formatMeters(opts.RingStep()*float64(i)))
	}
}

func TestRenderMarksClampedEndpoint(t *testing.T) {
	out := Render(60, 24, []uwb.ConnectedEndpoint{connectedAt("a", 25, 0)}, nil, Options{Range: 10, Rings: 5})
	assert.Contains(t, out, "O")
}

func TestRenderTooSmall(t *testing.T) {
	assert.Empty(t, Render(5, 3, nil, nil, Options{Range: 10, Rings: 5}))
}

func TestRenderReadout(t *testing.T) {
	out := RenderReadout([]uwb.ConnectedEndpoint{connectedAt("a", 2, 10), connectedAt("b", 1.234, -45.5)}, 200)
	assert.Contains(t, out, "EP1 Dist: 2.00m Az: 10.00°")
	assert.Contains(t, out, "EP2 Dist: 1.23m Az: -45.50°")

	assert.Contains(t, RenderReadout(nil, 80), "No positions yet")
}

func TestRenderReadoutWraps(t *testing.T) {
	eps := []uwb.ConnectedEndpoint{connectedAt("a", 1, 1), connectedAt("b", 2, 2), connectedAt("c", 3, 3)}
	out := RenderReadout(eps, 40)
	assert.Len(t, strings.Split(out, "\n"), 3)
}

func TestRenderLegend(t *testing.T) {
	out := RenderLegend(80, Options{Range: 10, Rings: 4})
	assert.Contains(t, out, "rings every 2.5m")
	assert.Contains(t, out, "beyond range")
}

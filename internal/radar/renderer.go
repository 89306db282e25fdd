package radar

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"uwb-radar.klederson.com/internal/config"
	"uwb-radar.klederson.com/internal/uwb"
)

var (
	colorBright = lipgloss.Color("#00FF41")
	colorMid    = lipgloss.Color("#008F11")
	colorDim    = lipgloss.Color("#004A0A")

	styleCenter    = lipgloss.NewStyle().Foreground(colorBright).Bold(true)
	styleRing      = lipgloss.NewStyle().Foreground(colorMid)
	styleSpoke     = lipgloss.NewStyle().Foreground(colorDim)
	styleDot       = lipgloss.NewStyle().Foreground(colorDim)
	styleRingLabel = lipgloss.NewStyle().Foreground(colorMid)
	styleLegend    = lipgloss.NewStyle().Foreground(colorMid)
	styleLegendKey = lipgloss.NewStyle().Foreground(colorBright)
)

const (
	glyphEndpoint = 'o'
	glyphClamped  = 'O'
	dashLen       = 1.5 // spoke dash length in columns
)

// Options controls the plot.
type Options struct {
	Range float64 // meters from center to rim
	Rings int     // concentric rings, evenly spaced
}

// RingStep returns the spacing between rings in meters.
func (o Options) RingStep() float64 {
	if o.Rings < 1 {
		return o.Range
	}
	return o.Range / float64(o.Rings)
}

// PlotPoint is where an endpoint and its label land on the canvas.
type PlotPoint struct {
	Col, Row int
	Index    int // position in the connected list
	Clamped  bool
	Label    string // empty when the label could not be placed
	LabelCol int
	LabelRow int
}

type cellKind uint8

const (
	cellEmpty cellKind = iota
	cellInterior
	cellSpoke
	cellRing
	cellRingLabel
	cellCenter
	cellLabel
	cellEndpoint
)

type cell struct {
	kind cellKind
	ch   rune
	ep   int // index into the connected list for endpoint and label cells
}

// Render produces the polar plot as a styled string of exactly height lines.
func Render(width, height int, connected []uwb.ConnectedEndpoint, sweep *Sweep, opts Options) string {
	if width < 10 || height < 5 {
		return ""
	}

	cv := NewCanvas(width, height, opts.Range)
	grid := make([][]cell, height)
	for row := range grid {
		grid[row] = make([]cell, width)
	}

	drawBackground(grid, cv, opts)
	drawSpokes(grid, cv)
	drawRingLabels(grid, cv, opts)
	set(grid, cv.CenterX, cv.CenterY, cell{kind: cellCenter, ch: '+'})

	for _, p := range PlotPoints(cv, connected) {
		glyph := glyphEndpoint
		if p.Clamped {
			glyph = glyphClamped
		}
		for i, ch := range p.Label {
			set(grid, p.LabelCol+i, p.LabelRow, cell{kind: cellLabel, ch: ch, ep: p.Index})
		}
		set(grid, p.Col, p.Row, cell{kind: cellEndpoint, ch: glyph, ep: p.Index})
	}

	var sb strings.Builder
	for row := 0; row < height; row++ {
		for col := 0; col < width; col++ {
			sb.WriteString(styleCell(grid[row][col], CellAngle(col, row, cv.CenterX, cv.CenterY), sweep))
		}
		if row < height-1 {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

func drawBackground(grid [][]cell, cv Canvas, opts Options) {
	rings := opts.Rings
	if rings < 1 {
		rings = 1
	}
	ringRadii := make([]float64, rings)
	for i := range ringRadii {
		ringRadii[i] = cv.Radius * float64(i+1) / float64(rings)
	}

	for row := range grid {
		for col := range grid[row] {
			dist := CellDistance(col, row, cv.CenterX, cv.CenterY)
			if dist > cv.Radius+0.5 {
				continue
			}
			c := cell{kind: cellInterior, ch: '.'}
			for _, r := range ringRadii {
				if math.Abs(dist-r) < 0.5 {
					c = cell{kind: cellRing, ch: RingChar(CellAngle(col, row, cv.CenterX, cv.CenterY))}
					break
				}
			}
			if c.kind == cellInterior && dist > cv.Radius {
				continue
			}
			grid[row][col] = c
		}
	}
}

// drawSpokes draws dashed diameters every SpokeStepDeg degrees.
func drawSpokes(grid [][]cell, cv Canvas) {
	for deg := 0.0; deg < 180; deg += config.SpokeStepDeg {
		a := deg * math.Pi / 180
		ch := SpokeChar(a)
		for s := -cv.Radius; s <= cv.Radius; s += 0.25 {
			if int(math.Floor(math.Abs(s)/dashLen))%2 == 1 {
				continue
			}
			col := cv.CenterX + int(math.Round(s*math.Sin(a)))
			row := cv.CenterY - int(math.Round(s*math.Cos(a)*config.AspectRatio))
			if row < 0 || row >= len(grid) || col < 0 || col >= len(grid[row]) {
				continue
			}
			if grid[row][col].kind == cellInterior {
				grid[row][col] = cell{kind: cellSpoke, ch: ch}
			}
		}
	}
}

// drawRingLabels writes each ring's distance just right of where it crosses
// the upward axis.
func drawRingLabels(grid [][]cell, cv Canvas, opts Options) {
	if opts.Rings < 1 {
		return
	}
	step := opts.RingStep()
	for i := 1; i <= opts.Rings; i++ {
		r := cv.Radius * float64(i) / float64(opts.Rings)
		row := cv.CenterY - int(math.Round(r*config.AspectRatio))
		label := formatMeters(step * float64(i))
		for j, ch := range label {
			set(grid, cv.CenterX+1+j, row, cell{kind: cellRingLabel, ch: ch})
		}
	}
}

func formatMeters(m float64) string {
	if m == math.Trunc(m) {
		return fmt.Sprintf("%.0fm", m)
	}
	return fmt.Sprintf("%.1fm", m)
}

func set(grid [][]cell, col, row int, c cell) {
	if row >= 0 && row < len(grid) && col >= 0 && col < len(grid[row]) {
		grid[row][col] = c
	}
}

// PlotPoints places every plottable endpoint on the canvas and resolves label
// collisions. Endpoints without distance or azimuth are skipped.
func PlotPoints(cv Canvas, connected []uwb.ConnectedEndpoint) []PlotPoint {
	type segment struct{ start, end int }
	occupied := make(map[int][]segment)

	free := func(row, start, end int) bool {
		for _, seg := range occupied[row] {
			if start < seg.end && end > seg.start {
				return false
			}
		}
		return true
	}

	points := make([]PlotPoint, 0, len(connected))
	for i, c := range connected {
		if !c.Position.Plottable() {
			continue
		}
		col, row, clamped := cv.Cell(c.Position.Distance.Value, c.Position.Azimuth.Value)
		occupied[row] = append(occupied[row], segment{col, col + 1})
		points = append(points, PlotPoint{Col: col, Row: row, Index: i, Clamped: clamped})
	}

	// Labels go right of the dot, or left near the right edge; when that row
	// is taken try below, then above, then drop the label.
	for k := range points {
		p := &points[k]
		label := EndpointLabel(p.Index)
		lc := p.Col + 2
		if lc+len(label) >= cv.Width {
			lc = p.Col - len(label) - 1
		}
		if lc < 0 {
			lc = 0
		}
		for _, lr := range []int{p.Row, p.Row + 1, p.Row - 1} {
			if free(lr, lc, lc+len(label)) {
				p.Label, p.LabelCol, p.LabelRow = label, lc, lr
				occupied[lr] = append(occupied[lr], segment{lc, lc + len(label)})
				break
			}
		}
	}
	return points
}

func styleCell(c cell, angle float64, sweep *Sweep) string {
	s := string(c.ch)
	switch c.kind {
	case cellEmpty:
		return " "
	case cellEndpoint:
		return lipgloss.NewStyle().Foreground(EndpointColor(c.ep)).Bold(true).Render(s)
	case cellLabel:
		return lipgloss.NewStyle().Foreground(EndpointColor(c.ep)).Render(s)
	case cellCenter:
		return styleCenter.Render(s)
	case cellRingLabel:
		return styleRingLabel.Render(s)
	}

	base := styleDot
	switch c.kind {
	case cellRing:
		base = styleRing
	case cellSpoke:
		base = styleSpoke
	}
	if color := sweepColor(sweep.Intensity(angle)); color != "" {
		return lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Render(s)
	}
	return base.Render(s)
}

func sweepColor(intensity float64) string {
	switch {
	case intensity <= 0:
		return ""
	case intensity > 0.8:
		return "#00FF41"
	case intensity > 0.5:
		return "#00CC33"
	case intensity > 0.3:
		return "#00AA22"
	default:
		return "#005511"
	}
}

// RenderReadout lists distance and azimuth for every plotted endpoint,
// wrapped to width.
func RenderReadout(connected []uwb.ConnectedEndpoint, width int) string {
	var items []string
	for i, c := range connected {
		if !c.Position.Plottable() {
			continue
		}
		text := fmt.Sprintf("%s Dist: %.2fm Az: %.2f°",
			EndpointLabel(i), c.Position.Distance.Value, c.Position.Azimuth.Value)
		items = append(items, lipgloss.NewStyle().Foreground(EndpointColor(i)).Render(text))
	}
	if len(items) == 0 {
		return styleLegend.Render("No positions yet")
	}

	var lines []string
	line := ""
	for _, it := range items {
		if line != "" && lipgloss.Width(line)+2+lipgloss.Width(it) > width {
			lines = append(lines, line)
			line = ""
		}
		if line != "" {
			line += "  "
		}
		line += it
	}
	lines = append(lines, line)
	return strings.Join(lines, "\n")
}

// RenderLegend produces the centered legend line.
func RenderLegend(width int, opts Options) string {
	legend := styleLegendKey.Render("+") + styleLegend.Render(" receiver  ") +
		styleLegendKey.Render(string(glyphEndpoint)) + styleLegend.Render(" endpoint  ") +
		styleLegendKey.Render(string(glyphClamped)) + styleLegend.Render(" beyond range  ") +
		styleLegend.Render("rings every "+formatMeters(opts.RingStep()))

	pad := (width - lipgloss.Width(legend)) / 2
	if pad < 0 {
		pad = 0
	}
	return strings.Repeat(" ", pad) + legend
}

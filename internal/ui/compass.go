package ui

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"uwb-radar.klederson.com/internal/radar"
	"uwb-radar.klederson.com/internal/uwb"
)

// RenderCompass renders a compass with an arrow pointing toward an endpoint.
// The arrow grows as the endpoint gets closer. Without an azimuth only the
// rose and a '?' at the center are drawn.
func RenderCompass(width, height int, pos uwb.RangingPosition, rangeMeters float64) string {
	if width < 9 || height < 5 {
		return ""
	}

	grid := make([][]byte, height)
	isArrow := make([][]bool, height)
	for i := range grid {
		grid[i] = make([]byte, width)
		isArrow[i] = make([]bool, width)
		for j := range grid[i] {
			grid[i][j] = ' '
		}
	}

	fcx := float64(width) / 2.0
	fcy := float64(height) / 2.0
	rx := math.Max(fcx-2.0, 3) // horizontal radius in columns
	ry := math.Max(fcy-2.0, 2) // vertical radius in rows

	steps := 80
	for i := 0; i < steps; i++ {
		a := float64(i) * 2 * math.Pi / float64(steps)
		col := int(math.Round(fcx + rx*math.Sin(a)))
		row := int(math.Round(fcy - ry*math.Cos(a)))
		if col >= 0 && col < width && row >= 0 && row < height && grid[row][col] == ' ' {
			grid[row][col] = byte(radar.RingChar(a))
		}
	}

	cx := int(math.Round(fcx))
	cy := int(math.Round(fcy))

	setGrid(grid, cx, cy-int(math.Round(ry))-1, 'N')
	setGrid(grid, cx, cy+int(math.Round(ry))+1, 'S')
	setGrid(grid, cx+int(math.Round(rx))+1, cy, 'E')
	setGrid(grid, cx-int(math.Round(rx))-1, cy, 'W')

	// Cross hairs
	for r := cy - int(ry) + 1; r < cy+int(ry); r++ {
		if r != cy && grid[r][cx] == ' ' {
			grid[r][cx] = ':'
		}
	}
	for c := cx - int(rx) + 1; c < cx+int(rx); c++ {
		if c != cx && grid[cy][c] == ' ' {
			grid[cy][c] = '.'
		}
	}

	if pos.Azimuth == nil {
		setGrid(grid, cx, cy, '?')
	} else {
		setGrid(grid, cx, cy, '+')
		drawArrow(grid, isArrow, pos.Azimuth.Value*math.Pi/180, proximity(pos.Distance, rangeMeters), fcx, fcy, rx, ry)
	}

	arrowSty := lipgloss.NewStyle().Foreground(lipgloss.Color(proximityColor(proximity(pos.Distance, rangeMeters)))).Bold(true)
	ringSty := lipgloss.NewStyle().Foreground(ColorDimGreen)
	axisSty := lipgloss.NewStyle().Foreground(lipgloss.Color("#003300"))
	markSty := lipgloss.NewStyle().Foreground(ColorMatrixGreen).Bold(true)

	var sb strings.Builder
	for row := 0; row < height; row++ {
		for col := 0; col < width; col++ {
			ch := grid[row][col]
			switch {
			case isArrow[row][col]:
				sb.WriteString(arrowSty.Render(string(ch)))
			case ch == 'N' || ch == 'S' || ch == 'E' || ch == 'W' || ch == '+' || ch == '?':
				sb.WriteString(markSty.Render(string(ch)))
			case ch == ':' || ch == '.':
				sb.WriteString(axisSty.Render(string(ch)))
			case ch != ' ':
				sb.WriteString(ringSty.Render(string(ch)))
			default:
				sb.WriteByte(' ')
			}
		}
		if row < height-1 {
			sb.WriteByte('\n')
		}
	}

	return sb.String()
}

// drawArrow draws a shaft from the center toward angle (radians, 0=north,
// clockwise) with an arrowhead and two short wings at the tip.
func drawArrow(grid [][]byte, isArrow [][]bool, angle, closeness, fcx, fcy, rx, ry float64) {
	const maxFrac, minFrac = 0.85, 0.3
	arrowFrac := minFrac + (maxFrac-minFrac)*closeness

	sinA := math.Sin(angle)
	cosA := math.Cos(angle)

	shaftSteps := int(math.Max(rx, ry) * arrowFrac)
	if shaftSteps < 2 {
		shaftSteps = 2
	}

	mark := func(col, row int, ch byte) {
		if row >= 0 && row < len(grid) && col >= 0 && col < len(grid[row]) {
			grid[row][col] = ch
			isArrow[row][col] = true
		}
	}

	tipCol, tipRow := int(math.Round(fcx)), int(math.Round(fcy))
	for s := 1; s <= shaftSteps; s++ {
		t := float64(s) / float64(shaftSteps) * arrowFrac
		tipCol = int(math.Round(fcx + t*rx*sinA))
		tipRow = int(math.Round(fcy - t*ry*cosA))
		mark(tipCol, tipRow, shaftChar(angle))
	}
	mark(tipCol, tipRow, arrowTip(angle))

	for _, wing := range []float64{angle - math.Pi*0.8, angle + math.Pi*0.8} {
		for w := 1; w <= 2; w++ {
			t := float64(w) * 0.8 / float64(shaftSteps)
			col := int(math.Round(float64(tipCol) + t*rx*math.Sin(wing)))
			row := int(math.Round(float64(tipRow) - t*ry*math.Cos(wing)))
			mark(col, row, shaftChar(wing))
		}
	}
}

func setGrid(grid [][]byte, col, row int, ch byte) {
	if row >= 0 && row < len(grid) && col >= 0 && col < len(grid[row]) {
		grid[row][col] = ch
	}
}

func sector(a float64) int {
	return int(math.Round(radar.NormalizeAngle(a)/(math.Pi/4))) % 8
}

// shaftChar returns the line character for a given angle direction.
func shaftChar(a float64) byte {
	switch sector(a) {
	case 0, 4: // N, S
		return '|'
	case 2, 6: // E, W
		return '-'
	case 1, 5: // NE, SW
		return '/'
	default: // SE, NW
		return '\\'
	}
}

// arrowTip returns the arrowhead character for a given angle.
func arrowTip(a float64) byte {
	return "^/>\\v/<\\"[sector(a)]
}

// proximity maps distance to [0, 1], 1 at the receiver and 0 at or past the
// rim. Unknown distance counts as far.
func proximity(d *uwb.Measurement, rangeMeters float64) float64 {
	if d == nil || rangeMeters <= 0 {
		return 0
	}
	return 1 - math.Min(math.Max(d.Value/rangeMeters, 0), 1)
}

// proximityColor maps closeness to a green shade (brighter = closer).
func proximityColor(closeness float64) string {
	switch {
	case closeness > 0.8:
		return "#00FF41"
	case closeness > 0.6:
		return "#00CC33"
	case closeness > 0.4:
		return "#00AA22"
	case closeness > 0.2:
		return "#008F11"
	}
	return "#005511"
}

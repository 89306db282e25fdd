package radar

import (
	"math"

	"uwb-radar.klederson.com/internal/config"
)

// Canvas describes the plot area in terminal cells.
type Canvas struct {
	Width, Height    int
	CenterX, CenterY int
	Radius           float64 // plot radius in columns
	Range            float64 // meters represented by Radius
}

// NewCanvas fits the largest circle into width x height cells, accounting
// for terminal aspect ratio.
func NewCanvas(width, height int, rangeMeters float64) Canvas {
	cx := width / 2
	cy := height / 2
	radius := math.Min(float64(cx-1), float64(cy-1)/config.AspectRatio)
	if radius < 3 {
		radius = 3
	}
	if rangeMeters <= 0 {
		rangeMeters = config.MaxRange
	}
	return Canvas{
		Width:   width,
		Height:  height,
		CenterX: cx,
		CenterY: cy,
		Radius:  radius,
		Range:   rangeMeters,
	}
}

// Scale returns columns per meter.
func (c Canvas) Scale() float64 {
	return c.Radius / c.Range
}

// Project converts a polar measurement into a screen offset from the center.
// Azimuth is in degrees, 0 straight ahead (up), positive clockwise. The
// returned y grows downward.
func Project(distance, azimuthDeg, scale float64) (x, y float64) {
	a := azimuthDeg * math.Pi / 180
	return distance * math.Sin(a) * scale, -distance * math.Cos(a) * scale
}

// Cell maps a measurement to a canvas cell. Distances beyond the canvas range
// are pulled in to the rim and reported as clamped.
func (c Canvas) Cell(distance, azimuthDeg float64) (col, row int, clamped bool) {
	if distance > c.Range {
		distance = c.Range
		clamped = true
	}
	if distance < 0 {
		distance = 0
	}
	x, y := Project(distance, azimuthDeg, c.Scale())
	col = c.CenterX + int(math.Round(x))
	row = c.CenterY + int(math.Round(y*config.AspectRatio))
	return col, row, clamped
}

// CellDistance computes the distance from a cell to the center in columns,
// accounting for terminal aspect ratio.
func CellDistance(col, row, centerX, centerY int) float64 {
	dx := float64(col - centerX)
	dy := float64(row-centerY) / config.AspectRatio
	return math.Sqrt(dx*dx + dy*dy)
}

// CellAngle computes the angle from center to a cell.
// Returns radians in [0, 2π), where 0=up, increasing clockwise.
func CellAngle(col, row, centerX, centerY int) float64 {
	dx := float64(col - centerX)
	dy := float64(row-centerY) / config.AspectRatio
	return NormalizeAngle(math.Atan2(dx, -dy))
}

// RingChar returns the character tangent to a ring at the given angle.
func RingChar(angle float64) rune {
	switch octant(angle) {
	case 0, 4:
		return '-'
	case 1, 5:
		return '\\'
	case 2, 6:
		return '|'
	default:
		return '/'
	}
}

// SpokeChar returns the line character for a spoke at the given plot angle
// (radians, 0=up, clockwise), after aspect correction.
func SpokeChar(angle float64) rune {
	screen := math.Atan2(math.Sin(angle), math.Cos(angle)*config.AspectRatio)
	switch octant(screen) {
	case 0, 4:
		return '|'
	case 2, 6:
		return '-'
	case 1, 5:
		return '/'
	default:
		return '\\'
	}
}

func octant(angle float64) int {
	return int(math.Round(NormalizeAngle(angle)/(math.Pi/4))) % 8
}

// NormalizeAngle wraps an angle to [0, 2π).
func NormalizeAngle(a float64) float64 {
	a = math.Mod(a, 2*math.Pi)
	if a < 0 {
		a += 2 * math.Pi
	}
	return a
}

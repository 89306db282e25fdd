package ui

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"uwb-radar.klederson.com/internal/uwb"
)

const notAvailable = "N/A"

// FormatMeters renders a distance as "2.00m", or N/A when absent.
func FormatMeters(m *uwb.Measurement) string {
	if m == nil {
		return notAvailable
	}
	return fmt.Sprintf("%.2fm", m.Value)
}

// FormatDegrees renders an angle as "10.00°", or N/A when absent.
func FormatDegrees(m *uwb.Measurement) string {
	if m == nil {
		return notAvailable
	}
	return fmt.Sprintf("%.2f°", m.Value)
}

// value styles a field value, dimming N/A.
func value(s string) string {
	if s == notAvailable {
		return StyleNA.Render(s)
	}
	return StyleFieldValue.Render(s)
}

func field(label, v string) string {
	return StyleFieldLabel.Render(fmt.Sprintf("  %-12s", label)) + value(v)
}

// truncate pads or cuts s to exactly w cells.
func truncate(s string, w int) string {
	r := []rune(s)
	if len(r) > w {
		return string(r[:w])
	}
	return s + strings.Repeat(" ", w-len(r))
}

// clampLines forces a rendered block to exactly height lines.
// lipgloss Height() only sets a minimum.
func clampLines(s string, height int) string {
	lines := strings.Split(s, "\n")
	if len(lines) > height {
		lines = lines[:height]
	}
	for len(lines) < height {
		lines = append(lines, "")
	}
	return strings.Join(lines, "\n")
}

// angleToDir maps an azimuth in degrees to a compass direction.
func angleToDir(deg float64) string {
	dirs := []string{"N", "NE", "E", "SE", "S", "SW", "W", "NW"}
	a := math.Mod(deg, 360)
	if a < 0 {
		a += 360
	}
	return dirs[int(math.Round(a/45))%8]
}

func elevationLabel(m *uwb.Measurement) string {
	switch {
	case m == nil:
		return notAvailable
	case m.Value > 10:
		return "above"
	case m.Value < -10:
		return "below"
	}
	return "level"
}

func padBetween(left, right string, width int) string {
	gap := width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 0 {
		gap = 0
	}
	return left + strings.Repeat(" ", gap) + right
}

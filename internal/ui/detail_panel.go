package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"uwb-radar.klederson.com/internal/radar"
	"uwb-radar.klederson.com/internal/uwb"
)

// RenderDetailPanel renders the endpoint detail overlay that replaces the
// radar area.
func RenderDetailPanel(c uwb.ConnectedEndpoint, index, width, height int, distanceHistory []float64, rangeMeters float64) string {
	innerW := width - 4
	if innerW < 20 {
		innerW = 20
	}

	title := StylePanelTitle.Render("ENDPOINT DETAIL")
	escHint := StyleHelp.Render("[ESC]")
	lines := []string{
		padBetween(title, escHint, innerW),
		StyleSeparator.Render(strings.Repeat("-", innerW)),
		"",
	}

	nameSty := lipgloss.NewStyle().Foreground(radar.EndpointColor(index)).Bold(true)
	lines = append(lines,
		StyleFieldLabel.Render(fmt.Sprintf("  %-12s", "Name"))+nameSty.Render(radar.EndpointLabel(index)+" "+c.Endpoint.DisplayName()),
		field("ID", c.Endpoint.ID),
		field("Address", uwb.FormatAddress(c.Endpoint.Address)),
		field("Distance", FormatMeters(c.Position.Distance)),
		field("Azimuth", FormatDegrees(c.Position.Azimuth)),
		field("Elevation", FormatDegrees(c.Position.Elevation)),
		field("Timestamp", fmt.Sprintf("%d ns", c.Position.ElapsedRealtimeNanos)),
	)
	lines = append(lines, sessionLines(c.Info)...)
	lines = append(lines, "")

	if len(distanceHistory) > 0 {
		sparkW := innerW - 4
		if sparkW < 10 {
			sparkW = 10
		}
		lines = append(lines, StyleFieldLabel.Render("  Distance History:"))
		spark := renderSparkline(distanceHistory, sparkW)
		lines = append(lines, "  "+lipgloss.NewStyle().Foreground(ColorGreen).Render(spark), "")
	}

	compassH := height - len(lines) - 5 // room for the label and the border
	if compassH < 5 {
		compassH = 5
	}
	compassW := innerW
	if compassW > compassH*3 {
		compassW = compassH * 3
	}

	if compass := RenderCompass(compassW, compassH, c.Position, rangeMeters); compass != "" {
		prefix := strings.Repeat(" ", max(0, (innerW-compassW)/2))
		for _, cl := range strings.Split(compass, "\n") {
			lines = append(lines, prefix+cl)
		}
	}

	lines = append(lines, centered(directionLabel(c.Position), innerW))

	content := strings.Join(lines, "\n")
	return clampLines(StylePanelActive.Width(width-2).Height(height-2).Render(content), height)
}

func directionLabel(p uwb.RangingPosition) string {
	dir := notAvailable
	if p.Azimuth != nil {
		dir = angleToDir(p.Azimuth.Value)
	}
	return fmt.Sprintf("%s  %s  %s", FormatMeters(p.Distance), dir, elevationLabel(p.Elevation))
}

func centered(s string, width int) string {
	pad := max(0, (width-lipgloss.Width(s))/2)
	return strings.Repeat(" ", pad) + StyleFieldValue.Render(s)
}

// renderSparkline draws the last width values scaled between their min and
// max. Closer readings sit lower.
func renderSparkline(values []float64, width int) string {
	if len(values) == 0 {
		return ""
	}
	if len(values) > width {
		values = values[len(values)-width:]
	}

	chars := []byte{'_', '.', '-', '~', '^'}

	minV, maxV := values[0], values[0]
	for _, v := range values {
		minV = min(minV, v)
		maxV = max(maxV, v)
	}
	rng := maxV - minV
	if rng < 0.1 {
		rng = 0.1
	}

	var sb strings.Builder
	for _, v := range values {
		idx := int((v - minV) / rng * float64(len(chars)-1))
		sb.WriteByte(chars[min(max(idx, 0), len(chars)-1)])
	}
	return sb.String()
}

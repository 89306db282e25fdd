package ui

// RenderRadarPanel wraps radar content with a styled border.
// The radar itself is drawn by package radar.
func RenderRadarPanel(width, height int, radarContent, readout, legend string) string {
	content := radarContent + "\n" + readout + "\n" + legend
	return clampLines(StylePanelBorder.Width(width-2).Height(height-2).Render(content), height)
}

package radar

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

// Endpoint colors, assigned by position in the connected list.
var palette = []lipgloss.Color{
	lipgloss.Color("#FF3B30"), // red
	lipgloss.Color("#3B82F6"), // blue
	lipgloss.Color("#22C55E"), // green
	lipgloss.Color("#06B6D4"), // cyan
	lipgloss.Color("#D946EF"), // magenta
	lipgloss.Color("#A3A3A3"), // gray
	lipgloss.Color("#FACC15"), // yellow
}

// EndpointColor returns the plot color for the i-th connected endpoint.
func EndpointColor(i int) lipgloss.Color {
	if i < 0 {
		i = -i
	}
	return palette[i%len(palette)]
}

// EndpointLabel returns the short plot label for the i-th connected endpoint.
func EndpointLabel(i int) string {
	return fmt.Sprintf("EP%d", i+1)
}

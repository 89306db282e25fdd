package ui

import (
	"fmt"

	"uwb-radar.klederson.com/internal/config"
)

// RenderMenuBar renders the top menu bar.
func RenderMenuBar(width int, source string, running bool) string {
	title := fmt.Sprintf(" %s v%s ", config.AppName, config.AppVersion)

	keys := []struct{ key, label string }{
		{"S", "tart"},
		{"P", " stop"},
		{"T", "able"},
		{"+/-", "zoom"},
		{"Q", "uit"},
	}

	menu := ""
	for _, k := range keys {
		menu += "  " + StyleMenuKey.Render("["+k.key+"]") + StyleMenuLabel.Render(k.label)
	}

	status := StyleStopped.Render("STOPPED")
	if running {
		status = StyleRanging.Render("RANGING")
	}

	left := StyleMenuKey.Render(title) + menu
	right := status + "  " + StyleMenuLabel.Render("Source: "+source) + " "

	// Padding(0, 1) takes two columns.
	return StyleMenuBar.Width(width).Render(padBetween(left, right, width-2))
}

package ui

import "fmt"

// StatusInfo is what the bottom bar reports.
type StatusInfo struct {
	Running      bool
	Connected    int
	Disconnected int
	Sessions     int
	Events       uint64
	SweepDeg     float64
	Range        float64
}

// RenderStatusBar renders the bottom status bar.
func RenderStatusBar(width int, s StatusInfo) string {
	status := StyleStopped.Render("[STOPPED]")
	if s.Running {
		status = StyleRanging.Render("[RANGING]")
	}

	info := fmt.Sprintf(" Connected: %d  Disconnected: %d  Sessions: %d  Events: %d  Sweep: %ddeg  Range: 0-%.0fm",
		s.Connected, s.Disconnected, s.Sessions, s.Events, int(s.SweepDeg), s.Range)

	content := status + StyleStatusBar.Padding(0).Render(info)
	return StyleStatusBar.Width(width).Render(padBetween(content, "", width-2))
}

package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"uwb-radar.klederson.com/internal/radar"
	"uwb-radar.klederson.com/internal/uwb"
)

const noRangingInfo = "No additional ranging info available"

// RenderEndpointList renders the connection status panel: one card per
// connected endpoint followed by the disconnected endpoints. The header stays
// fixed; cards scroll so the cursor is always visible.
func RenderEndpointList(snap *uwb.Snapshot, width, height, cursor int) string {
	innerW := width - 4
	if innerW < 10 {
		innerW = 10
	}
	innerH := height - 2
	if innerH < 3 {
		innerH = 3
	}

	title := StylePanelTitle.Render(fmt.Sprintf("CONNECTED [%d]", len(snap.Connected)))
	sessions := StyleFieldLabel.Render(fmt.Sprintf("Sessions: %d", len(snap.Sessions)))
	header := []string{
		padBetween(title, sessions, innerW),
		StyleSeparator.Render(strings.Repeat("-", innerW)),
	}

	var cards [][]string
	for i, c := range snap.Connected {
		cards = append(cards, endpointCard(c, i, innerW, i == cursor))
	}

	disconnected := disconnectedSection(snap.Disconnected, innerW)
	space := innerH - len(header) - len(disconnected)
	if space < 6 {
		space = innerH - len(header)
	}

	var body []string
	if len(cards) == 0 {
		body = append(body, "", StyleHelp.Render(" No connected endpoints"))
		if !snap.Running {
			body = append(body, StyleHelp.Render(" Ranging is stopped"))
		}
		body = append(body, "")
	} else {
		// Walk back from the cursor until the space runs out.
		start := cursor
		if start < 0 || start >= len(cards) {
			start = 0
		}
		used := len(cards[start])
		for start > 0 && used+len(cards[start-1]) <= space {
			start--
			used += len(cards[start])
		}
		for _, card := range cards[start:] {
			body = append(body, card...)
		}
		body = clip(body, space)
	}

	all := append(header, body...)
	all = append(all, disconnected...)
	rendered := StylePanelBorder.Width(width - 2).Height(innerH).Render(strings.Join(clip(all, innerH), "\n"))
	return clampLines(rendered, height)
}

func clip(lines []string, n int) []string {
	if len(lines) > n {
		return lines[:n]
	}
	return lines
}

func endpointCard(c uwb.ConnectedEndpoint, index, maxW int, isCursor bool) []string {
	pos := c.Position
	cursor := "  "
	if isCursor {
		cursor = ">>"
	}

	name := fmt.Sprintf("%s %s %s", cursor, radar.EndpointLabel(index), c.Endpoint.DisplayName())
	var first string
	if isCursor {
		first = StyleCursor.Render(truncate(name, maxW))
	} else {
		first = lipgloss.NewStyle().Foreground(radar.EndpointColor(index)).Bold(true).Render(truncate(name, maxW))
	}

	lines := []string{
		first,
		field("Endpoint ID", strings.TrimRight(truncate(c.Endpoint.ID, max(maxW-14, 0)), " ")),
		field("Distance", FormatMeters(pos.Distance)),
		field("Azimuth", FormatDegrees(pos.Azimuth)),
		field("Elevation", FormatDegrees(pos.Elevation)),
		field("Timestamp", fmt.Sprintf("%d ns", pos.ElapsedRealtimeNanos)),
	}
	lines = append(lines, sessionLines(c.Info)...)
	return append(lines, "")
}

func sessionLines(info *uwb.RangingInfo) []string {
	if info == nil {
		return []string{StyleNA.Render("  " + noRangingInfo)}
	}
	return []string{
		field("Config ID", fmt.Sprintf("%d", info.ConfigID)),
		field("Address", info.AddressString()),
		field("Channel", fmt.Sprintf("%d", info.ComplexChannel.Channel)),
		field("Preamble", fmt.Sprintf("%d", info.ComplexChannel.PreambleIndex)),
		field("Session ID", fmt.Sprintf("%d", info.SessionID)),
	}
}

func disconnectedSection(eps []uwb.Endpoint, maxW int) []string {
	lines := []string{
		StylePanelTitle.Render(fmt.Sprintf("DISCONNECTED [%d]", len(eps))),
		StyleSeparator.Render(strings.Repeat("-", maxW)),
	}
	for _, ep := range eps {
		lines = append(lines, StyleDisconnected.Render(truncate("   "+ep.ID, maxW)))
	}
	return lines
}

package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
	"uwb-radar.klederson.com/internal/uwb"
)

// NewSessionTable builds the sessions view table.
func NewSessionTable() table.Model {
	columns := []table.Column{
		{Title: "Endpoint", Width: 16},
		{Title: "Config", Width: 6},
		{Title: "Channel", Width: 7},
		{Title: "Preamble", Width: 8},
		{Title: "Session", Width: 10},
		{Title: "Address", Width: 17},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(10),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(ColorMidGreen).
		BorderBottom(true).
		Foreground(ColorMatrixGreen).
		Bold(true)
	s.Cell = s.Cell.Foreground(ColorGreen)
	s.Selected = s.Selected.
		Foreground(ColorBlack).
		Background(ColorMatrixGreen).
		Bold(true)
	t.SetStyles(s)
	return t
}

// SessionRows lists the known sessions in discovery order, connected
// endpoints first.
func SessionRows(snap *uwb.Snapshot) []table.Row {
	eps := make([]uwb.Endpoint, 0, len(snap.Connected)+len(snap.Disconnected))
	for _, c := range snap.Connected {
		eps = append(eps, c.Endpoint)
	}
	eps = append(eps, snap.Disconnected...)

	rows := make([]table.Row, 0, len(snap.Sessions))
	for _, ep := range eps {
		info, ok := snap.Sessions[ep.Key()]
		if !ok {
			continue
		}
		rows = append(rows, table.Row{
			ep.DisplayName(),
			fmt.Sprintf("%d", info.ConfigID),
			fmt.Sprintf("%d", info.ComplexChannel.Channel),
			fmt.Sprintf("%d", info.ComplexChannel.PreambleIndex),
			fmt.Sprintf("%d", info.SessionID),
			info.AddressString(),
		})
	}
	return rows
}

// RenderSessionPanel wraps the sessions table in the active panel border.
func RenderSessionPanel(t table.Model, width, height int) string {
	innerW := max(width-4, 10)
	title := StylePanelTitle.Render(fmt.Sprintf("SESSIONS [%d]", len(t.Rows())))
	lines := []string{
		padBetween(title, StyleHelp.Render("[T/ESC]"), innerW),
		StyleSeparator.Render(strings.Repeat("-", innerW)),
	}
	if len(t.Rows()) == 0 {
		lines = append(lines, "", StyleHelp.Render(" No active sessions"))
	} else {
		t.SetWidth(innerW)
		t.SetHeight(max(height-6, 3))
		lines = append(lines, t.View())
	}
	return clampLines(StylePanelActive.Width(width-2).Height(height-2).Render(strings.Join(lines, "\n")), height)
}

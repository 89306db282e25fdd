package ui

import "github.com/charmbracelet/lipgloss"

// ComposeLayout joins the main panel and the endpoint list horizontally,
// with menu bar on top and status bar on bottom.
func ComposeLayout(menuBar, mainPanel, sidePanel, statusBar string) string {
	middle := lipgloss.JoinHorizontal(lipgloss.Top, mainPanel, sidePanel)
	return lipgloss.JoinVertical(lipgloss.Left, menuBar, middle, statusBar)
}

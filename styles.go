package kimicheck

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	styleBold    = lipgloss.NewStyle().Bold(true)
	styleFaint   = lipgloss.NewStyle().Faint(true)
	styleSuccess = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	styleFailure = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	styleWarning = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))

	rule = strings.Repeat("=", 50)
)

package styles

import (
	"github.com/charmbracelet/lipgloss"

	vuams "github.com/nixmo/go-vuams"
	"github.com/nixmo/go-vuams/internal/tui/colors"
)

var (
	// Header styles
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colors.Mauve).
			Background(colors.Surface0).
			Padding(0, 1)

	LabelStyle = lipgloss.NewStyle().
			Foreground(colors.Subtext0)

	ValueStyle = lipgloss.NewStyle().
			Foreground(colors.Text)

	// Device state styles
	StatusRecordingStyle = lipgloss.NewStyle().
				Foreground(colors.Red).
				Bold(true)

	StatusIdleStyle = lipgloss.NewStyle().
			Foreground(colors.Green).
			Bold(true)

	StatusWarningStyle = lipgloss.NewStyle().
				Foreground(colors.Yellow).
				Bold(true)

	StatusUnknownStyle = lipgloss.NewStyle().
				Foreground(colors.Overlay0).
				Bold(true)

	// Content area styles
	PanelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colors.Surface1).
			Padding(0, 1)

	// Feedback styles
	ErrorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colors.Red)

	EventStyle = lipgloss.NewStyle().
			Foreground(colors.Teal)
)

// StatusStyle picks a style for a device state: recording is loud,
// idle is calm, anything the firmware flags as a problem is a warning.
func StatusStyle(status vuams.DeviceStatus) lipgloss.Style {
	switch status {
	case vuams.StatusRecording:
		return StatusRecordingStyle
	case vuams.StatusIdle:
		return StatusIdleStyle
	case vuams.StatusNoMemory, vuams.StatusCloseCover, vuams.StatusMemoryFull, vuams.StatusBatteryLow:
		return StatusWarningStyle
	default:
		return StatusUnknownStyle
	}
}

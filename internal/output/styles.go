package output

import "github.com/charmbracelet/lipgloss"

var (
	colorPrimary = lipgloss.Color("#7D56F4")
	colorSuccess = lipgloss.Color("#04B575")
	colorDanger  = lipgloss.Color("#FF5F87")
	colorMuted   = lipgloss.Color("#626262")

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorPrimary)

	sectionStyle = lipgloss.NewStyle().
			Bold(true).
			Underline(true)

	tableHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(colorPrimary)

	labelStyle = lipgloss.NewStyle().Foreground(colorMuted)

	// Net cost to the payer
	costStyle = lipgloss.NewStyle().Foreground(colorDanger)

	// Net savings to the payer
	savingStyle = lipgloss.NewStyle().Foreground(colorSuccess).Bold(true)
)

// netImpactStyle picks the style for a net budget impact value.
func netImpactStyle(negative bool) lipgloss.Style {
	if negative {
		return savingStyle
	}
	return costStyle
}

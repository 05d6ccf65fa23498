package tui

import "github.com/charmbracelet/lipgloss"

// One Dark Pro color palette
var (
	ColorFgPrimary   = lipgloss.Color("#ABB2BF")
	ColorFgSecondary = lipgloss.Color("#828997")
	ColorFgMuted     = lipgloss.Color("#636B78")

	ColorRed     = lipgloss.Color("#E06C75")
	ColorGreen   = lipgloss.Color("#98C379")
	ColorYellow  = lipgloss.Color("#E5C07B")
	ColorBlue    = lipgloss.Color("#61AFEF")
	ColorMagenta = lipgloss.Color("#C678DD")
	ColorCyan    = lipgloss.Color("#56B6C2")

	ColorBorder = lipgloss.Color("#3F4451")
)

// Component styles
var (
	HeaderStyle = lipgloss.NewStyle().
			Foreground(ColorRed).
			Bold(true).
			PaddingLeft(1)

	TabStyle = lipgloss.NewStyle().
			Foreground(ColorFgMuted).
			Padding(0, 2)

	ActiveTabStyle = lipgloss.NewStyle().
			Foreground(ColorMagenta).
			Bold(true).
			Underline(true).
			Padding(0, 2)

	PanelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder).
			Padding(0, 1)

	PanelTitleStyle = lipgloss.NewStyle().
			Foreground(ColorMagenta).
			Bold(true)

	SelectedStyle = lipgloss.NewStyle().
			Foreground(ColorBlue).
			Bold(true)

	// Calendar cells
	DayStyle = lipgloss.NewStyle().
			Foreground(ColorFgPrimary).
			Width(4).
			Align(lipgloss.Right)

	MarkedDayStyle = DayStyle.
			Foreground(ColorGreen).
			Bold(true)

	SelectedDayStyle = DayStyle.
				Foreground(ColorYellow).
				Reverse(true)

	WeekdayStyle = DayStyle.
			Foreground(ColorFgMuted)

	InputPromptStyle = lipgloss.NewStyle().
				Foreground(ColorGreen)

	StatusBarStyle = lipgloss.NewStyle().
			Foreground(ColorFgMuted).
			PaddingLeft(1).
			PaddingRight(1)

	HelpStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder).
			Padding(1, 2)

	HelpTitleStyle = lipgloss.NewStyle().
			Foreground(ColorBlue).
			Bold(true)

	HelpKeyStyle = lipgloss.NewStyle().
			Foreground(ColorYellow)

	HelpDescStyle = lipgloss.NewStyle().
			Foreground(ColorFgPrimary)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(ColorRed)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(ColorGreen)

	DimStyle = lipgloss.NewStyle().
			Foreground(ColorFgSecondary)
)

var categoryColors = map[string]lipgloss.Color{
	"joy":        ColorYellow,
	"personal":   ColorCyan,
	"challenges": ColorRed,
}

func categoryStyle(c string) lipgloss.Style {
	color, ok := categoryColors[c]
	if !ok {
		color = ColorFgMuted
	}
	return lipgloss.NewStyle().Foreground(color)
}

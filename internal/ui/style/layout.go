package style

import (
	"github.com/charmbracelet/lipgloss"
)

var palette = DefaultPalette()

// Header styles
var (
	TitleStyle = lipgloss.NewStyle().
			Foreground(palette.Primary).
			Bold(true).
			Margin(1, 0)

	SubHeaderStyle = lipgloss.NewStyle().
			Foreground(palette.Secondary).
			Bold(true).
			Margin(0, 0, 1, 0)
)

// Layout styles
var (
	PanelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(palette.TextMuted).
			Padding(1, 2).
			Margin(0, 1)

	ActivePanelStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(palette.Primary).
				Padding(1, 2).
				Margin(0, 1)
)

// Result styles
var (
	LabelStyle = lipgloss.NewStyle().
			Foreground(palette.TextSecondary)

	ValueStyle = lipgloss.NewStyle().
			Foreground(palette.Text).
			Bold(true)

	MutedStyle = lipgloss.NewStyle().
			Foreground(palette.TextMuted).
			Italic(true)
)

// Status banners
var (
	ErrorBannerStyle = lipgloss.NewStyle().
				Foreground(palette.Background).
				Background(palette.Error).
				Bold(true).
				Padding(0, 1)

	SuccessBannerStyle = lipgloss.NewStyle().
				Foreground(palette.Background).
				Background(palette.Success).
				Padding(0, 1)

	InfoStyle = lipgloss.NewStyle().
			Foreground(palette.Info)
)

// SignedValue renders a money value in the gain or loss color.
func SignedValue(v float64, text string) string {
	return ValueStyle.Foreground(palette.Signed(v)).Render(text)
}

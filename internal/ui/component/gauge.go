package component

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/rovshanmuradov/cryptocalc/internal/ui/style"
)

// ROIGauge draws a signed percentage as a bar scaled against fullScale.
type ROIGauge struct {
	value     float64
	width     int
	fullScale float64
	valid     bool
}

// NewROIGauge creates a gauge that is full at ±100%.
func NewROIGauge(width int) *ROIGauge {
	return &ROIGauge{width: width, fullScale: 100}
}

// SetValue sets the percentage to draw. A nil value renders as n/a.
func (g *ROIGauge) SetValue(value *float64) *ROIGauge {
	g.valid = value != nil
	if value != nil {
		g.value = *value
	}
	return g
}

// SetWidth sets the bar width
func (g *ROIGauge) SetWidth(width int) *ROIGauge {
	g.width = width
	return g
}

// SetFullScale sets the percentage at which the bar is full.
func (g *ROIGauge) SetFullScale(pct float64) *ROIGauge {
	if pct > 0 {
		g.fullScale = pct
	}
	return g
}

// View renders the gauge
func (g *ROIGauge) View() string {
	palette := style.DefaultPalette()
	if !g.valid {
		return lipgloss.NewStyle().Foreground(palette.TextMuted).Render(strings.Repeat("·", g.width) + " n/a")
	}

	var color lipgloss.Color
	var arrow string
	switch {
	case g.value > 0:
		color, arrow = palette.Success, "↑"
	case g.value < 0:
		color, arrow = palette.Error, "↓"
	default:
		color, arrow = palette.TextMuted, "→"
	}

	bar := lipgloss.NewStyle().Foreground(color).Render(g.bar())
	text := fmt.Sprintf("%+.2f%% %s", g.value, arrow)
	return bar + " " + lipgloss.NewStyle().Foreground(color).Bold(true).Render(text)
}

// bar fills a share of the width proportional to |value|/fullScale.
func (g *ROIGauge) bar() string {
	if g.width <= 0 {
		return ""
	}

	intensity := math.Min(math.Abs(g.value)/g.fullScale, 1)
	filled := int(intensity * float64(g.width))
	if filled < 1 && g.value != 0 {
		filled = 1
	}
	return strings.Repeat("█", filled) + strings.Repeat("░", g.width-filled)
}

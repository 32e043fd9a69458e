package component

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/rovshanmuradov/cryptocalc/internal/ui/style"
)

var sparkChars = []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// Sparkline is a one-line chart of a numeric series. Series longer than the
// width are resampled to fit.
type Sparkline struct {
	data     []float64
	width    int
	style    lipgloss.Style
	color    lipgloss.Color
	showText bool
}

// NewSparkline creates a new sparkline component
func NewSparkline(width int) *Sparkline {
	return &Sparkline{
		width: width,
		style: lipgloss.NewStyle(),
		color: style.DefaultPalette().Primary,
	}
}

// SetData sets the data points for the sparkline
func (s *Sparkline) SetData(data []float64) *Sparkline {
	s.data = make([]float64, len(data))
	copy(s.data, data)
	return s
}

// SetWidth sets the width of the sparkline
func (s *Sparkline) SetWidth(width int) *Sparkline {
	s.width = width
	return s
}

// SetColor sets the color for the sparkline
func (s *Sparkline) SetColor(color lipgloss.Color) *Sparkline {
	s.color = color
	return s
}

// ShowText appends the overall trend arrow.
func (s *Sparkline) ShowText(show bool) *Sparkline {
	s.showText = show
	return s
}

// Len returns the number of points held.
func (s *Sparkline) Len() int {
	return len(s.data)
}

// Clear removes all data points
func (s *Sparkline) Clear() *Sparkline {
	s.data = nil
	return s
}

// View renders the sparkline
func (s *Sparkline) View() string {
	if s.width <= 0 {
		return ""
	}
	if len(s.data) == 0 {
		return s.style.Render(strings.Repeat("▁", s.width))
	}

	styledBlocks := s.style.Foreground(s.color).Render(s.generateSparkBlocks())
	if !s.showText {
		return styledBlocks
	}

	palette := style.DefaultPalette()
	trend := s.Trend()
	trendColor := palette.TextMuted
	switch trend {
	case "↗":
		trendColor = palette.Success
	case "↘":
		trendColor = palette.Error
	}
	return styledBlocks + " " + lipgloss.NewStyle().Foreground(trendColor).Render(trend)
}

// generateSparkBlocks maps each sample to a block character, padded with
// spaces to the width.
func (s *Sparkline) generateSparkBlocks() string {
	samples := s.resample()
	lo, hi := minMax(samples)

	var result strings.Builder
	for _, value := range samples {
		index := len(sparkChars) / 2
		if hi > lo {
			index = int((value - lo) / (hi - lo) * float64(len(sparkChars)-1))
		}
		if index < 0 {
			index = 0
		} else if index >= len(sparkChars) {
			index = len(sparkChars) - 1
		}
		result.WriteRune(sparkChars[index])
	}

	if pad := s.width - len(samples); pad > 0 {
		result.WriteString(strings.Repeat(" ", pad))
	}
	return result.String()
}

// resample picks width evenly spaced points, always keeping the first and last.
func (s *Sparkline) resample() []float64 {
	if len(s.data) <= s.width {
		return s.data
	}
	if s.width == 1 {
		return s.data[len(s.data)-1:]
	}

	out := make([]float64, s.width)
	step := float64(len(s.data)-1) / float64(s.width-1)
	for i := range out {
		out[i] = s.data[int(float64(i)*step+0.5)]
	}
	return out
}

// Trend returns an arrow for the direction from the first to the last point.
func (s *Sparkline) Trend() string {
	if len(s.data) < 2 {
		return "→"
	}
	first, last := s.data[0], s.data[len(s.data)-1]
	switch {
	case last > first:
		return "↗"
	case last < first:
		return "↘"
	default:
		return "→"
	}
}

func minMax(data []float64) (float64, float64) {
	if len(data) == 0 {
		return 0, 0
	}
	lo, hi := data[0], data[0]
	for _, v := range data[1:] {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	return lo, hi
}

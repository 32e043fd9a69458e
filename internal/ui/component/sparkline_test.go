package component

import (
	"testing"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
)

func TestSparkline_Blocks(t *testing.T) {
	s := NewSparkline(4).SetData([]float64{0, 1, 2, 7})
	assert.Equal(t, "▁▂▃█", s.generateSparkBlocks())
}

func TestSparkline_PadsByRunes(t *testing.T) {
	s := NewSparkline(6).SetData([]float64{1, 2})
	blocks := s.generateSparkBlocks()
	assert.Equal(t, 6, utf8.RuneCountInString(blocks))
	assert.Equal(t, "▁█    ", blocks)
}

func TestSparkline_FlatSeries(t *testing.T) {
	s := NewSparkline(3).SetData([]float64{5, 5, 5})
	assert.Equal(t, "▅▅▅", s.generateSparkBlocks())
	assert.Equal(t, "→", s.Trend())
}

func TestSparkline_ResamplesLongSeries(t *testing.T) {
	data := make([]float64, 365)
	for i := range data {
		data[i] = float64(i + 1)
	}
	s := NewSparkline(10).SetData(data)

	samples := s.resample()
	assert.Len(t, samples, 10)
	assert.Equal(t, 1.0, samples[0])
	assert.Equal(t, 365.0, samples[9], "last point is kept")
	assert.Equal(t, 10, utf8.RuneCountInString(s.generateSparkBlocks()))
	assert.Equal(t, "↗", s.Trend())
}

func TestSparkline_EmptyAndWidth(t *testing.T) {
	s := NewSparkline(5)
	assert.Equal(t, 5, lipgloss.Width(s.View()))
	assert.Equal(t, 0, s.Len())

	s.SetWidth(0)
	assert.Equal(t, "", s.View())

	s.SetWidth(1).SetData([]float64{3, 2, 1})
	assert.Equal(t, []float64{1}, s.resample())
	assert.Equal(t, "↘", s.Trend())
	assert.Equal(t, 0, s.Clear().Len())
}

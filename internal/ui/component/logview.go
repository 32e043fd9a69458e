package component

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rovshanmuradov/cryptocalc/internal/logger"
	"github.com/rovshanmuradov/cryptocalc/internal/ui/style"
)

// LogSource supplies the most recent log entries, oldest first.
// *logger.LogBuffer implements it.
type LogSource interface {
	GetRecentLogs(limit int) []logger.LogEntry
}

// LogFilter defines what log levels to show
type LogFilter struct {
	ShowError   bool
	ShowWarning bool
	ShowInfo    bool
	ShowDebug   bool
}

// AllLevels shows every entry.
func AllLevels() LogFilter {
	return LogFilter{ShowError: true, ShowWarning: true, ShowInfo: true, ShowDebug: true}
}

// LogViewer renders a scrollable tail of the in-memory log buffer
type LogViewer struct {
	source   LogSource
	viewport viewport.Model
	filter   LogFilter
	limit    int
	title    string
	style    logViewStyle
}

type logViewStyle struct {
	container lipgloss.Style
	title     lipgloss.Style
	timestamp lipgloss.Style
	fields    lipgloss.Style
	error     lipgloss.Style
	warning   lipgloss.Style
	info      lipgloss.Style
	debug     lipgloss.Style
}

// NewLogViewer creates a viewer over source showing up to limit entries.
func NewLogViewer(source LogSource, limit int) *LogViewer {
	palette := style.DefaultPalette()

	return &LogViewer{
		source: source,
		limit:  limit,
		title:  "Logs",
		filter: AllLevels(),
		style: logViewStyle{
			container: lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(palette.Info).
				Padding(0, 1),
			title:     lipgloss.NewStyle().Foreground(palette.Info).Bold(true),
			timestamp: lipgloss.NewStyle().Foreground(palette.TextMuted),
			fields:    lipgloss.NewStyle().Foreground(palette.TextSecondary),
			error:     lipgloss.NewStyle().Foreground(palette.Error).Bold(true),
			warning:   lipgloss.NewStyle().Foreground(palette.Warning).Bold(true),
			info:      lipgloss.NewStyle().Foreground(palette.Info),
			debug:     lipgloss.NewStyle().Foreground(palette.TextMuted),
		},
		viewport: viewport.New(60, 10),
	}
}

// SetSize sets the component dimensions
func (lv *LogViewer) SetSize(width, height int) {
	lv.viewport.Width = max(width-4, 10)  // border + padding
	lv.viewport.Height = max(height-3, 2) // border + title
	lv.Refresh()
}

// SetFilter updates the log filter
func (lv *LogViewer) SetFilter(filter LogFilter) {
	lv.filter = filter
	lv.Refresh()
}

// Filter returns the active filter.
func (lv *LogViewer) Filter() LogFilter {
	return lv.filter
}

// Update forwards scrolling keys to the viewport.
func (lv *LogViewer) Update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	lv.viewport, cmd = lv.viewport.Update(msg)
	return cmd
}

// View renders the log viewer
func (lv *LogViewer) View() string {
	title := fmt.Sprintf("%s · %s", lv.title, lv.FilterStatus())
	content := lipgloss.JoinVertical(
		lipgloss.Left,
		lv.style.title.Render(title),
		lv.viewport.View(),
	)
	return lv.style.container.Render(content)
}

// Refresh reloads the viewport from the source and scrolls to the newest entry.
func (lv *LogViewer) Refresh() {
	lines := lv.Lines()
	if len(lines) == 0 {
		lv.viewport.SetContent("No logs match current filter")
		return
	}
	lv.viewport.SetContent(strings.Join(lines, "\n"))
	lv.viewport.GotoBottom()
}

// Lines returns the formatted entries passing the filter.
func (lv *LogViewer) Lines() []string {
	if lv.source == nil {
		return nil
	}

	var lines []string
	for _, entry := range lv.source.GetRecentLogs(lv.limit) {
		if lv.shouldShowEntry(entry) {
			lines = append(lines, lv.formatLogEntry(entry))
		}
	}
	return lines
}

func (lv *LogViewer) shouldShowEntry(entry logger.LogEntry) bool {
	switch strings.ToLower(entry.Level) {
	case "error", "dpanic", "panic", "fatal":
		return lv.filter.ShowError
	case "warning", "warn":
		return lv.filter.ShowWarning
	case "debug":
		return lv.filter.ShowDebug
	default:
		return lv.filter.ShowInfo
	}
}

func (lv *LogViewer) formatLogEntry(entry logger.LogEntry) string {
	timestamp := lv.style.timestamp.Render(entry.Timestamp.Format("15:04:05"))

	var styledMessage string
	switch strings.ToLower(entry.Level) {
	case "error", "dpanic", "panic", "fatal":
		styledMessage = lv.style.error.Render(entry.Message)
	case "warning", "warn":
		styledMessage = lv.style.warning.Render(entry.Message)
	case "debug":
		styledMessage = lv.style.debug.Render(entry.Message)
	default:
		styledMessage = lv.style.info.Render(entry.Message)
	}

	line := timestamp + " " + styledMessage
	if fields := formatFields(entry.Fields); fields != "" {
		line += " " + lv.style.fields.Render(fields)
	}
	return line
}

// formatFields renders fields as sorted key=value pairs.
func formatFields(fields map[string]interface{}) string {
	if len(fields) == 0 {
		return ""
	}
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%v", k, fields[k]))
	}
	return strings.Join(parts, " ")
}

// FilterStatus describes the active filter.
func (lv *LogViewer) FilterStatus() string {
	var active []string
	if lv.filter.ShowError {
		active = append(active, "Error")
	}
	if lv.filter.ShowWarning {
		active = append(active, "Warning")
	}
	if lv.filter.ShowInfo {
		active = append(active, "Info")
	}
	if lv.filter.ShowDebug {
		active = append(active, "Debug")
	}

	if len(active) == 0 {
		return "No filters active"
	}
	return "Showing: " + strings.Join(active, ", ")
}

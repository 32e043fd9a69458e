package screen

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rovshanmuradov/cryptocalc/internal/calc"
	"github.com/rovshanmuradov/cryptocalc/internal/export"
	"github.com/rovshanmuradov/cryptocalc/internal/price"
	"github.com/rovshanmuradov/cryptocalc/internal/ui"
	"github.com/rovshanmuradov/cryptocalc/internal/ui/component"
	"github.com/rovshanmuradov/cryptocalc/internal/ui/style"
)

const (
	defaultFetchTimeout = 15 * time.Second
	chartWidth          = 40
	assetField          = "asset"
)

// Exporter writes a report to disk. *export.ResultExporter implements it.
type Exporter interface {
	Save(report export.Report, options export.ExportOptions) (string, error)
}

// ExportRecorder counts exports. *metrics.Collector implements it.
type ExportRecorder interface {
	RecordExport(format string, err error)
}

// Env holds what every calculator screen shares.
type Env struct {
	Exporter     Exporter
	ExportDir    string
	Recorder     ExportRecorder
	FetchTimeout time.Duration
	// Assets seeds the asset selector until a market list arrives.
	Assets []string
}

// priceSource is the part of a calculator session used for price fetching.
type priceSource interface {
	Asset() string
	SetAsset(id string)
	SetPrice(p price.AssetPrice)
	Price() (price.AssetPrice, bool)
	Fetch(ctx context.Context, id string) (price.AssetPrice, error)
}

type bannerKind int

const (
	bannerNone bannerKind = iota
	bannerError
	bannerSuccess
)

// calculatorScreen is the layout and behavior shared by the calculator
// screens: a form on the left, results and a chart on the right.
type calculatorScreen struct {
	route  ui.Route
	env    Env
	keyMap ui.KeyMap
	source priceSource

	form    *component.Form
	header  *component.StatusHeader
	results *component.Table
	chart   *component.Sparkline
	gauge   *component.ROIGauge // nil when the calculator has no ROI figure
	helpBar *component.HelpBar

	// fieldAlias maps calculator field names onto form fields when they differ.
	fieldAlias map[string]string

	format      export.ExportFormat
	bannerText  string
	bannerKind  bannerKind
	chartTitle  string
	headline    string
	width       int
	height      int
	initialized bool
}

func newCalculatorScreen(route ui.Route, title string, env Env, source priceSource) calculatorScreen {
	if env.FetchTimeout <= 0 {
		env.FetchTimeout = defaultFetchTimeout
	}
	keyMap := ui.DefaultKeyMap()

	results := component.NewTable().
		AddColumn("Parameter", 0, lipgloss.Left).
		AddColumn("Value", 0, lipgloss.Right)

	return calculatorScreen{
		route:   route,
		env:     env,
		keyMap:  keyMap,
		source:  source,
		form:    component.NewForm(),
		header:  component.NewStatusHeader(title),
		results: results,
		chart:   component.NewSparkline(chartWidth).ShowText(true),
		helpBar: component.NewHelpBar().SetKeyBindings(keyMap.ContextualHelp(route)),
		format:  export.FormatCSV,
	}
}

// initOnce fetches the price of the preselected asset the first time the
// screen is shown.
func (c *calculatorScreen) initOnce() tea.Cmd {
	if c.initialized {
		return nil
	}
	c.initialized = true
	if c.source.Asset() == "" {
		return nil
	}
	return c.fetch(c.source.Asset())
}

// selectAsset switches the session to id and starts a price fetch.
func (c *calculatorScreen) selectAsset(id string) tea.Cmd {
	c.source.SetAsset(id)
	c.header.SetAsset(id)
	return c.fetch(id)
}

// fetch runs the price lookup outside the update loop. The session is only
// touched when the result message comes back.
func (c *calculatorScreen) fetch(id string) tea.Cmd {
	c.header.SetLoading(true)
	route, timeout, source := c.route, c.env.FetchTimeout, c.source

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		p, err := source.Fetch(ctx, id)
		return ui.PriceFetchedMsg{Route: route, AssetID: id, Price: p, Err: err}
	}
}

// applyPrice installs a fetched price. Results for an asset that is no
// longer selected are dropped.
func (c *calculatorScreen) applyPrice(msg ui.PriceFetchedMsg) bool {
	if msg.Route != c.route || msg.AssetID != c.source.Asset() {
		return false
	}
	if msg.Err != nil {
		c.header.SetPrice(nil)
		c.setError(fmt.Errorf("price for %s unavailable: %w", msg.AssetID, msg.Err))
		return true
	}

	c.source.SetPrice(msg.Price)
	p := msg.Price
	c.header.SetPrice(&p)
	return true
}

// setAssetOptions refreshes the asset selector from the market list.
func (c *calculatorScreen) setAssetOptions(markets []price.Market) {
	ids := make([]string, 0, len(markets)+1)
	seen := make(map[string]bool, len(markets)+1)
	if cur := c.source.Asset(); cur != "" {
		ids = append(ids, cur)
		seen[cur] = true
	}
	for _, m := range markets {
		if !seen[m.ID] {
			ids = append(ids, m.ID)
			seen[m.ID] = true
		}
	}
	c.form.SetFieldOptions(assetField, ids)
}

// handleKey covers the keys every calculator understands. It reports whether
// the key was consumed.
func (c *calculatorScreen) handleKey(msg tea.KeyMsg, calculate func() error, report func() (export.Report, error)) (bool, tea.Cmd) {
	switch {
	case key.Matches(msg, c.keyMap.Quit):
		return true, tea.Quit
	case key.Matches(msg, c.keyMap.Calculate):
		c.runCalculation(calculate)
		return true, nil
	case key.Matches(msg, c.keyMap.Export):
		c.export(report)
		return true, nil
	case key.Matches(msg, c.keyMap.ToggleJSON):
		if c.format == export.FormatCSV {
			c.format = export.FormatJSON
		} else {
			c.format = export.FormatCSV
		}
		c.setSuccess("Export format: " + string(c.format))
		return true, nil
	case key.Matches(msg, c.keyMap.Refresh):
		if id := c.source.Asset(); id != "" {
			return true, c.selectAsset(id)
		}
		return true, nil
	}
	return false, nil
}

// runCalculation runs calculate and reflects the outcome in the banner and
// field errors. A failure leaves no result displayed.
func (c *calculatorScreen) runCalculation(calculate func() error) {
	c.form.ClearErrors()
	c.clearBanner()

	if err := calculate(); err != nil {
		c.results.Clear()
		c.chart.Clear()
		c.headline = ""
		if c.gauge != nil {
			c.gauge.SetValue(nil)
		}
		c.setError(err)

		var fe *calc.FieldError
		if errors.As(err, &fe) {
			name := fe.Field
			if alias, ok := c.fieldAlias[name]; ok {
				name = alias
			}
			c.form.SetFieldError(name, fe.Err.Error())
		}
	}
}

// showReport fills the result table from the report rows.
func (c *calculatorScreen) showReport(report export.Report) {
	rows := make([][]string, len(report.Rows))
	for i, r := range report.Rows {
		rows[i] = []string{r.Parameter, r.Value}
	}
	c.results.SetRows(rows)
}

func (c *calculatorScreen) export(report func() (export.Report, error)) {
	r, err := report()
	if err != nil {
		c.setError(err)
		return
	}
	if c.env.Exporter == nil {
		c.setError(errors.New("export is not configured"))
		return
	}

	path, err := c.env.Exporter.Save(r, export.ExportOptions{
		Format:    c.format,
		OutputDir: c.env.ExportDir,
	})
	if c.env.Recorder != nil {
		c.env.Recorder.RecordExport(string(c.format), err)
	}
	if err != nil {
		c.setError(err)
		return
	}
	c.setSuccess("Exported to " + path)
}

func (c *calculatorScreen) setError(err error) {
	c.bannerKind = bannerError
	c.bannerText = err.Error()
}

func (c *calculatorScreen) setSuccess(text string) {
	c.bannerKind = bannerSuccess
	c.bannerText = text
}

func (c *calculatorScreen) clearBanner() {
	c.bannerKind = bannerNone
	c.bannerText = ""
}

// Banner returns the text of the status banner.
func (c *calculatorScreen) Banner() string {
	return c.bannerText
}

// HasError reports whether the banner shows an error.
func (c *calculatorScreen) HasError() bool {
	return c.bannerKind == bannerError
}

func (c *calculatorScreen) SetSize(width, height int) {
	c.width = width
	c.height = height
	c.header.SetWidth(width)
	c.helpBar.SetWidth(width)

	formWidth := max(width/2-6, 20)
	c.form.SetSize(formWidth, height)
	c.results.SetWidth(max(width-formWidth-12, 30))
	c.chart.SetWidth(min(chartWidth, max(width-formWidth-16, 10)))
}

func (c *calculatorScreen) view() string {
	var sections []string
	sections = append(sections, c.header.View())

	switch c.bannerKind {
	case bannerError:
		sections = append(sections, style.ErrorBannerStyle.Render("✖ "+c.bannerText))
	case bannerSuccess:
		sections = append(sections, style.SuccessBannerStyle.Render("✔ "+c.bannerText))
	}

	formPanel := style.ActivePanelStyle.Render(c.form.View())
	body := lipgloss.JoinHorizontal(lipgloss.Top, formPanel, c.resultPanel())
	sections = append(sections, body, c.helpBar.View())

	return strings.Join(sections, "\n")
}

func (c *calculatorScreen) resultPanel() string {
	if c.results.RowCount() == 0 {
		return style.PanelStyle.Render(style.MutedStyle.Render("No result. Fill in the form and press ctrl+r."))
	}

	parts := []string{}
	if c.headline != "" {
		parts = append(parts, c.headline, "")
	}
	parts = append(parts, c.results.View())
	if c.gauge != nil {
		parts = append(parts, "", style.LabelStyle.Render("ROI"), c.gauge.View())
	}
	if c.chart.Len() > 0 {
		parts = append(parts, "", style.LabelStyle.Render(c.chartTitle), c.chart.View())
	}
	parts = append(parts, "", style.MutedStyle.Render("export format: "+string(c.format)))
	return style.PanelStyle.Render(lipgloss.JoinVertical(lipgloss.Left, parts...))
}

// seriesOf converts points to chart values.
func seriesOf[T any](points []T, value func(T) float64) []float64 {
	out := make([]float64, len(points))
	for i, p := range points {
		out[i] = value(p)
	}
	return out
}

// headlineFor renders a labelled money value colored by sign.
func headlineFor(label string, v float64) string {
	return style.LabelStyle.Render(label+" ") + style.SignedValue(v, export.Display(v))
}

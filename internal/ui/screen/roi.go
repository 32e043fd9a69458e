package screen

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rovshanmuradov/cryptocalc/internal/calc"
	"github.com/rovshanmuradov/cryptocalc/internal/session"
	"github.com/rovshanmuradov/cryptocalc/internal/ui"
	"github.com/rovshanmuradov/cryptocalc/internal/ui/component"
	"github.com/rovshanmuradov/cryptocalc/internal/ui/router"
)

const (
	roiHoldDaysField   = "holding days"
	roiHoldMonthsField = "holding months"
)

// ROIScreen is the return on investment calculator
type ROIScreen struct {
	calculatorScreen
	session *session.ROI
}

// NewROIScreen creates the ROI screen over sess.
func NewROIScreen(sess *session.ROI, env Env) *ROIScreen {
	s := &ROIScreen{
		calculatorScreen: newCalculatorScreen(ui.RouteROI, "📈 Return on investment", env, sess),
		session:          sess,
	}
	s.gauge = component.NewROIGauge(20)
	s.chartTitle = "Profit at 0.5x … 2.5x of buy price"

	s.form.
		AddField(assetField, component.FieldTypeSelect, "Cryptocurrency", "select an asset").
		AddField(calc.InvestmentField.Name, component.FieldTypeNumber, "Investment ($)", "e.g. 1000").
		AddField(calc.BuyPriceField.Name, component.FieldTypeNumber, "Buy price ($)", "fetched price").
		AddField(calc.SellPriceField.Name, component.FieldTypeNumber, "Sell price ($)", "e.g. 150").
		AddField(roiHoldDaysField, component.FieldTypeNumber, "Holding period (days)", "0").
		AddField(roiHoldMonthsField, component.FieldTypeNumber, "Holding period (months)", "0").
		AddField(calc.MonthlyField.Name, component.FieldTypeNumber, "Monthly contribution ($)", "optional")

	s.form.SetFieldOptions(assetField, env.Assets)
	if sess.Asset() != "" {
		s.form.SetFieldValue(assetField, sess.Asset())
	} else if v := s.form.GetValue(assetField); v != "" {
		sess.SetAsset(v)
	}
	s.header.SetAsset(sess.Asset())
	return s
}

// Init fetches the selected asset's price on first display.
func (s *ROIScreen) Init() tea.Cmd {
	return s.initOnce()
}

// Update handles screen updates
func (s *ROIScreen) Update(msg tea.Msg) (router.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if handled, cmd := s.handleKey(msg, s.calculate, s.session.Report); handled {
			return s, cmd
		}

	case component.SelectChangedMsg:
		if msg.Field == assetField {
			s.form.SetFieldValue(calc.BuyPriceField.Name, "")
			return s, s.selectAsset(msg.Value)
		}
		return s, nil

	case ui.PriceFetchedMsg:
		if s.applyPrice(msg) && msg.Err == nil {
			s.form.SetFieldValue(calc.BuyPriceField.Name, s.session.PrefillBuyPrice())
		}
		return s, nil

	case ui.MarketListMsg:
		if msg.Err == nil {
			s.setAssetOptions(msg.Markets)
		}
		return s, nil
	}

	var cmd tea.Cmd
	s.form, cmd = s.form.Update(msg)
	return s, cmd
}

func (s *ROIScreen) calculate() error {
	res, err := s.session.Calculate(calc.ROIFields{
		Investment: s.form.GetValue(calc.InvestmentField.Name),
		BuyPrice:   s.form.GetValue(calc.BuyPriceField.Name),
		SellPrice:  s.form.GetValue(calc.SellPriceField.Name),
		HoldDays:   s.form.GetValue(roiHoldDaysField),
		HoldMonths: s.form.GetValue(roiHoldMonthsField),
		Monthly:    s.form.GetValue(calc.MonthlyField.Name),
	})
	if err != nil {
		return err
	}

	report, err := s.session.Report()
	if err != nil {
		return err
	}
	s.showReport(report)
	s.headline = headlineFor("Profit", res.Profit)
	roi := res.ROIPercent
	s.gauge.SetValue(&roi)
	s.chart.SetData(seriesOf(res.SimulatedCurve, func(p calc.CurvePoint) float64 { return p.Profit }))
	return nil
}

// View renders the ROI screen
func (s *ROIScreen) View() string {
	if s.width == 0 || s.height == 0 {
		return "Loading..."
	}
	return s.view()
}

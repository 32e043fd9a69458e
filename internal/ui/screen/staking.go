package screen

import (
	"strconv"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rovshanmuradov/cryptocalc/internal/calc"
	"github.com/rovshanmuradov/cryptocalc/internal/session"
	"github.com/rovshanmuradov/cryptocalc/internal/ui"
	"github.com/rovshanmuradov/cryptocalc/internal/ui/component"
	"github.com/rovshanmuradov/cryptocalc/internal/ui/router"
)

const (
	stakingDaysField   = "days"
	stakingMonthsField = "months"
)

// StakingScreen is the staking yield calculator
type StakingScreen struct {
	calculatorScreen
	session *session.Staking
}

// NewStakingScreen creates the staking screen. Assets are picked by ticker
// from the session's symbol table.
func NewStakingScreen(sess *session.Staking, env Env) *StakingScreen {
	s := &StakingScreen{
		calculatorScreen: newCalculatorScreen(ui.RouteStaking, "🥩 Staking yield", env, sess),
		session:          sess,
	}
	s.fieldAlias = map[string]string{"holding period": stakingDaysField}
	s.chartTitle = "Cumulative net reward (coins)"

	s.form.
		AddField(assetField, component.FieldTypeSelect, "Cryptocurrency", "select a ticker").
		AddField(calc.PrincipalField.Name, component.FieldTypeNumber, "Stake amount (coins)", "e.g. 1000").
		AddField(calc.APYField.Name, component.FieldTypeNumber, "APY (%)", "e.g. 5").
		AddField(stakingDaysField, component.FieldTypeNumber, "Period (days)", "0").
		AddField(stakingMonthsField, component.FieldTypeNumber, "Period (months)", "0").
		AddField(calc.ValidatorFeeField.Name, component.FieldTypeNumber, "Validator fee (%)", "0").
		AddField(calc.UnitPriceField.Name, component.FieldTypeNumber, "Coin price ($)", "fetched price")

	s.form.SetFieldOptions(assetField, sess.Symbols())
	if sess.Symbol() != "" {
		s.form.SetFieldValue(assetField, sess.Symbol())
	} else if v := s.form.GetValue(assetField); v != "" {
		sess.SetSymbol(v)
	}
	s.header.SetAsset(sess.Symbol())
	return s
}

// Init fetches the selected asset's price on first display.
func (s *StakingScreen) Init() tea.Cmd {
	return s.initOnce()
}

// Update handles screen updates
func (s *StakingScreen) Update(msg tea.Msg) (router.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if handled, cmd := s.handleKey(msg, s.calculate, s.session.Report); handled {
			return s, cmd
		}

	case component.SelectChangedMsg:
		if msg.Field == assetField {
			id := s.session.SetSymbol(msg.Value)
			s.header.SetAsset(s.session.Symbol())
			s.form.SetFieldValue(calc.UnitPriceField.Name, "")
			return s, s.fetch(id)
		}
		return s, nil

	case ui.PriceFetchedMsg:
		if s.applyPrice(msg) && msg.Err == nil {
			s.form.SetFieldValue(calc.UnitPriceField.Name, s.session.PrefillPrice())
		}
		return s, nil
	}

	var cmd tea.Cmd
	s.form, cmd = s.form.Update(msg)
	return s, cmd
}

func (s *StakingScreen) calculate() error {
	res, err := s.session.Calculate(calc.StakingFields{
		Amount: s.form.GetValue(calc.PrincipalField.Name),
		APY:    s.form.GetValue(calc.APYField.Name),
		Days:   s.form.GetValue(stakingDaysField),
		Months: s.form.GetValue(stakingMonthsField),
		Fee:    s.form.GetValue(calc.ValidatorFeeField.Name),
		Price:  s.form.GetValue(calc.UnitPriceField.Name),
	})
	if err != nil {
		return err
	}

	report, err := s.session.Report()
	if err != nil {
		return err
	}
	s.showReport(report)
	s.headline = headlineFor("Expected profit over "+strconv.Itoa(res.TotalDays)+" days", res.RewardValue)
	s.chart.SetData(seriesOf(res.Series, func(p calc.StakingPoint) float64 { return p.CumulativeNetProfit }))
	return nil
}

// View renders the staking screen
func (s *StakingScreen) View() string {
	if s.width == 0 || s.height == 0 {
		return "Loading..."
	}
	return s.view()
}

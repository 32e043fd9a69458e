package screen

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rovshanmuradov/cryptocalc/internal/calc"
	"github.com/rovshanmuradov/cryptocalc/internal/session"
	"github.com/rovshanmuradov/cryptocalc/internal/ui"
	"github.com/rovshanmuradov/cryptocalc/internal/ui/component"
	"github.com/rovshanmuradov/cryptocalc/internal/ui/router"
)

// MiningScreen is the mining profitability calculator
type MiningScreen struct {
	calculatorScreen
	session *session.Mining
}

// NewMiningScreen creates the mining screen over sess. The session's
// selected asset, if any, is fetched when the screen is first shown.
func NewMiningScreen(sess *session.Mining, env Env) *MiningScreen {
	s := &MiningScreen{
		calculatorScreen: newCalculatorScreen(ui.RouteMining, "⛏ Mining profitability", env, sess),
		session:          sess,
	}
	s.gauge = component.NewROIGauge(20)

	s.form.
		AddField(assetField, component.FieldTypeSelect, "Cryptocurrency", "select an asset").
		AddField(calc.HashrateField.Name, component.FieldTypeNumber, "Hashrate (MH/s)", "e.g. 100").
		AddField(calc.PowerField.Name, component.FieldTypeNumber, "Power consumption (W)", "e.g. 3000").
		AddField(calc.ElectricityCostField.Name, component.FieldTypeNumber, "Electricity cost ($/kWh)", "e.g. 0.1").
		AddField(calc.BlockRewardField.Name, component.FieldTypeNumber, "Block reward", "6.25").
		AddField(calc.DifficultyField.Name, component.FieldTypeNumber, "Network difficulty", "1000000").
		AddField(calc.PriceOverrideField.Name, component.FieldTypeNumber, "Coin price override ($)", "fetched price")

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
func (s *MiningScreen) Init() tea.Cmd {
	return s.initOnce()
}

// Update handles screen updates
func (s *MiningScreen) Update(msg tea.Msg) (router.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if handled, cmd := s.handleKey(msg, s.calculate, s.session.Report); handled {
			return s, cmd
		}

	case component.SelectChangedMsg:
		if msg.Field == assetField {
			return s, s.selectAsset(msg.Value)
		}
		return s, nil

	case ui.PriceFetchedMsg:
		s.applyPrice(msg)
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

func (s *MiningScreen) calculate() error {
	res, err := s.session.Calculate(calc.MiningFields{
		Hashrate:        s.form.GetValue(calc.HashrateField.Name),
		Power:           s.form.GetValue(calc.PowerField.Name),
		ElectricityCost: s.form.GetValue(calc.ElectricityCostField.Name),
		BlockReward:     s.form.GetValue(calc.BlockRewardField.Name),
		Difficulty:      s.form.GetValue(calc.DifficultyField.Name),
		PriceOverride:   s.form.GetValue(calc.PriceOverrideField.Name),
	})
	if err != nil {
		return err
	}

	report, err := s.session.Report()
	if err != nil {
		return err
	}
	s.showReport(report)
	s.headline = headlineFor("Profit per day", res.DailyProfit)
	s.gauge.SetValue(res.ROIPercent)
	return nil
}

// View renders the mining screen
func (s *MiningScreen) View() string {
	if s.width == 0 || s.height == 0 {
		return "Loading..."
	}
	return s.view()
}

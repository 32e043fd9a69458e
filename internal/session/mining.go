package session

import (
	"context"

	"github.com/rovshanmuradov/cryptocalc/internal/calc"
	"github.com/rovshanmuradov/cryptocalc/internal/export"
	"github.com/rovshanmuradov/cryptocalc/internal/price"
)

const MiningReportName = "mining_calculation"

// Mining is the mining profitability calculator session.
type Mining struct {
	base
	input  calc.MiningInput
	result *calc.MiningResult
	// asset the result was computed for
	resultAsset string
}

func NewMining(deps Deps) *Mining {
	return &Mining{base: newBase("mining", deps)}
}

// Select changes the mined asset and refetches its price.
func (m *Mining) Select(ctx context.Context, assetID string) (price.AssetPrice, error) {
	return m.selectAsset(ctx, assetID)
}

// Calculate parses the raw fields and computes with the held price. A failed
// calculation clears the previous result.
func (m *Mining) Calculate(fields calc.MiningFields) (calc.MiningResult, error) {
	var res calc.MiningResult
	err := m.run(func() error {
		in, out, err := calc.CalculateMining(fields, m.holder.Value())
		if err != nil {
			return err
		}
		m.input, res = in, out
		m.resultAsset = m.asset
		return nil
	})
	if err != nil {
		m.result = nil
		return calc.MiningResult{}, err
	}
	m.result = &res
	return res, nil
}

// Result returns the last successful result.
func (m *Mining) Result() (calc.MiningResult, bool) {
	if m.result == nil {
		return calc.MiningResult{}, false
	}
	return *m.result, true
}

// Report returns the rows of the displayed result.
func (m *Mining) Report() (export.Report, error) {
	if m.result == nil {
		return export.Report{}, ErrNothingToExport
	}
	in, res := m.input, *m.result

	priceLabel := "Coin price ($)"
	if res.PriceOverridden {
		priceLabel = "Coin price, manual ($)"
	}

	return export.Report{
		Name: MiningReportName,
		Rows: []export.Row{
			{Parameter: "Selected cryptocurrency", Value: m.resultAsset},
			{Parameter: "Hashrate (MH/s)", Value: export.Amount(in.HashrateMHs, 8)},
			{Parameter: "Power consumption (W)", Value: export.Amount(in.PowerWatts, 8)},
			{Parameter: "Electricity cost ($/kWh)", Value: export.Amount(in.ElectricityCost, 8)},
			{Parameter: "Block reward", Value: export.Amount(in.BlockReward, 8)},
			{Parameter: "Network difficulty", Value: export.Amount(in.Difficulty, 8)},
			{Parameter: priceLabel, Value: export.Money(res.Price)},
			{Parameter: "Earnings per day (coins)", Value: export.Amount(res.EarningsPerDay, 10)},
			{Parameter: "Revenue for the day ($)", Value: export.Money(res.DailyRevenue)},
			{Parameter: "Energy costs ($)", Value: export.Money(res.DailyEnergyCost)},
			{Parameter: "Profit for the day ($)", Value: export.Money(res.DailyProfit)},
			{Parameter: "ROI (%)", Value: export.PercentPtr(res.ROIPercent)},
		},
	}, nil
}

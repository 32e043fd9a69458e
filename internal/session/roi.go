package session

import (
	"context"
	"strconv"
	"strings"

	"github.com/rovshanmuradov/cryptocalc/internal/calc"
	"github.com/rovshanmuradov/cryptocalc/internal/export"
	"github.com/rovshanmuradov/cryptocalc/internal/price"
)

const ROIReportName = "roi-result"

// ROI is the return on investment calculator session.
type ROI struct {
	base
	input  calc.ROIInput
	result *calc.ROIResult
	// asset the result was computed for
	resultAsset string
}

func NewROI(deps Deps) *ROI {
	return &ROI{base: newBase("roi", deps)}
}

// Select changes the asset and refetches its price for the buy price field.
func (r *ROI) Select(ctx context.Context, assetID string) (price.AssetPrice, error) {
	return r.selectAsset(ctx, assetID)
}

// PrefillBuyPrice returns the held price formatted for the buy price field.
func (r *ROI) PrefillBuyPrice() string {
	p, ok := r.holder.Current()
	if !ok {
		return ""
	}
	return strconv.FormatFloat(p.Price, 'f', -1, 64)
}

// Calculate parses the raw fields and computes the return. A blank buy price
// is filled from the held price.
func (r *ROI) Calculate(fields calc.ROIFields) (calc.ROIResult, error) {
	if strings.TrimSpace(fields.BuyPrice) == "" {
		fields.BuyPrice = r.PrefillBuyPrice()
	}

	var res calc.ROIResult
	err := r.run(func() error {
		in, out, err := calc.CalculateROI(fields)
		if err != nil {
			return err
		}
		r.input, res = in, out
		r.resultAsset = r.asset
		return nil
	})
	if err != nil {
		r.result = nil
		return calc.ROIResult{}, err
	}
	r.result = &res
	return res, nil
}

// Result returns the last successful result.
func (r *ROI) Result() (calc.ROIResult, bool) {
	if r.result == nil {
		return calc.ROIResult{}, false
	}
	return *r.result, true
}

// Report returns the rows of the displayed result.
func (r *ROI) Report() (export.Report, error) {
	if r.result == nil {
		return export.Report{}, ErrNothingToExport
	}
	in, res := r.input, *r.result

	rows := []export.Row{
		{Parameter: "Investment ($)", Value: export.Money(in.Investment)},
		{Parameter: "Buy price ($)", Value: export.Money(in.BuyPrice)},
		{Parameter: "Sell price ($)", Value: export.Money(in.SellPrice)},
		{Parameter: "Units held", Value: export.Amount(res.UnitsHeld, 8)},
		{Parameter: "ROI (%)", Value: export.Percent(res.ROIPercent)},
		{Parameter: "Profit ($)", Value: export.Money(res.Profit)},
		{Parameter: "Final value ($)", Value: export.Money(res.FinalValue)},
	}
	if r.resultAsset != "" {
		rows = append([]export.Row{{Parameter: "Asset", Value: r.resultAsset}}, rows...)
	}
	if days := in.HoldingDays(); days > 0 {
		rows = append(rows,
			export.Row{Parameter: "Holding period (days)", Value: strconv.Itoa(days)},
			export.Row{Parameter: "Annualized ROI (%)", Value: export.PercentPtr(res.AnnualizedROIPercent)},
		)
	}
	if plan := res.Contributions; plan != nil {
		rows = append(rows,
			export.Row{Parameter: "Monthly contribution ($)", Value: export.Money(in.MonthlyContribution)},
			export.Row{Parameter: "Contribution months", Value: strconv.Itoa(plan.Months)},
			export.Row{Parameter: "Total invested ($)", Value: export.Money(plan.TotalInvested)},
			export.Row{Parameter: "Projected value ($)", Value: export.Money(plan.ProjectedValue)},
			export.Row{Parameter: "Projected profit ($)", Value: export.Money(plan.ProjectedProfit)},
		)
	}

	return export.Report{Name: ROIReportName, Rows: rows}, nil
}

// internal/calc/roi.go
package calc

import (
	"math"

	"github.com/shopspring/decimal"
)

// The simulated curve spans 0.5x to 2.5x of the buy price in 0.1x steps.
// Steps are integer tenths so the grid never drifts and always hits 1.0x exactly.
const (
	curveFirstTenth = 5
	curveLastTenth  = 25
)

// ROIFields is the raw text of the ROI form.
type ROIFields struct {
	Investment string
	BuyPrice   string
	SellPrice  string
	HoldDays   string
	HoldMonths string
	Monthly    string
}

// Field policy for the ROI calculator.
var (
	InvestmentField = Required("investment", Positive)
	BuyPriceField   = Required("buy price", Divisor)
	SellPriceField  = Required("sell price", NonNegative)
	MonthlyField    = Optional("monthly contribution", NonNegative)
)

// ROIInput is a fully parsed buy/sell scenario.
type ROIInput struct {
	Investment          float64
	BuyPrice            float64
	SellPrice           float64
	HoldDays            int
	HoldMonths          int
	MonthlyContribution float64
}

// HoldingDays is the holding period with months counted as 30 days.
func (in ROIInput) HoldingDays() int {
	return in.HoldDays + in.HoldMonths*daysPerMonth
}

func (in ROIInput) withinHorizon() bool {
	return in.HoldDays <= MaxHoldingDays &&
		in.HoldMonths <= MaxHoldingDays/daysPerMonth &&
		in.HoldingDays() <= MaxHoldingDays
}

// CurvePoint is one sample of the what-if sell price curve.
type CurvePoint struct {
	PriceLevel float64
	ROIPercent float64
	Profit     float64
}

// ContributionPlan projects regular monthly buys made at the buy price.
type ContributionPlan struct {
	Months          int
	TotalInvested   float64
	TotalUnits      float64
	ProjectedValue  float64
	ProjectedProfit float64
}

// ROIResult describes the outcome of selling at SellPrice.
type ROIResult struct {
	UnitsHeld      float64
	ROIPercent     float64
	Profit         float64
	FinalValue     float64
	SimulatedCurve []CurvePoint
	// AnnualizedROIPercent is set when a holding period is known and the position is not wiped out.
	AnnualizedROIPercent *float64
	Contributions        *ContributionPlan
}

// ParseROIInput applies the ROI field policy to raw text.
func ParseROIInput(f ROIFields) (ROIInput, error) {
	var in ROIInput
	var err error

	if in.Investment, err = InvestmentField.MustHave(f.Investment); err != nil {
		return ROIInput{}, err
	}
	if in.BuyPrice, err = BuyPriceField.MustHave(f.BuyPrice); err != nil {
		return ROIInput{}, err
	}
	if in.SellPrice, err = SellPriceField.MustHave(f.SellPrice); err != nil {
		return ROIInput{}, err
	}
	if in.MonthlyContribution, _, err = MonthlyField.Parse(f.Monthly); err != nil {
		return ROIInput{}, err
	}
	if in.HoldDays, err = parseCount("holding days", f.HoldDays); err != nil {
		return ROIInput{}, err
	}
	if in.HoldMonths, err = parseCount("holding months", f.HoldMonths); err != nil {
		return ROIInput{}, err
	}
	return in, nil
}

// ComputeROI returns ROI, profit and the simulated profit curve for a position.
func ComputeROI(in ROIInput) (ROIResult, error) {
	if in.BuyPrice == 0 {
		return ROIResult{}, &FieldError{Field: "buy price", Err: ErrDivisionByZero}
	}

	buy := in.BuyPrice
	units := in.Investment / buy

	res := ROIResult{
		UnitsHeld:      units,
		ROIPercent:     ((in.SellPrice - buy) / buy) * 100,
		Profit:         (in.SellPrice - buy) * units,
		FinalValue:     in.SellPrice * units,
		SimulatedCurve: simulateCurve(buy, units),
	}

	if days := in.HoldingDays(); days > 0 && in.withinHorizon() {
		if growth := 1 + res.ROIPercent/100; growth > 0 {
			annual := (math.Pow(growth, float64(daysPerYear)/float64(days)) - 1) * 100
			if !math.IsInf(annual, 0) && !math.IsNaN(annual) {
				res.AnnualizedROIPercent = &annual
			}
		}
		if months := days / daysPerMonth; months > 0 && in.MonthlyContribution > 0 {
			contributed := in.MonthlyContribution * float64(months)
			plan := ContributionPlan{
				Months:        months,
				TotalInvested: in.Investment + contributed,
				TotalUnits:    units + contributed/buy,
			}
			plan.ProjectedValue = plan.TotalUnits * in.SellPrice
			plan.ProjectedProfit = plan.ProjectedValue - plan.TotalInvested
			res.Contributions = &plan
		}
	}

	return res, nil
}

func simulateCurve(buy, units float64) []CurvePoint {
	base := decimal.NewFromFloat(buy)
	curve := make([]CurvePoint, 0, curveLastTenth-curveFirstTenth+1)
	for k := curveFirstTenth; k <= curveLastTenth; k++ {
		p := base.Mul(decimal.New(int64(k), -1)).InexactFloat64()
		curve = append(curve, CurvePoint{
			PriceLevel: p,
			ROIPercent: ((p - buy) / buy) * 100,
			Profit:     (p - buy) * units,
		})
	}
	return curve
}

// CalculateROI parses raw fields and computes the result in one step.
func CalculateROI(f ROIFields) (ROIInput, ROIResult, error) {
	in, err := ParseROIInput(f)
	if err != nil {
		return ROIInput{}, ROIResult{}, err
	}
	res, err := ComputeROI(in)
	return in, res, err
}

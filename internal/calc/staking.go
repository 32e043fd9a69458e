// internal/calc/staking.go
package calc

import "fmt"

const (
	daysPerYear  = 365
	daysPerMonth = 30

	// MaxHoldingDays bounds the projection length so the series stays small.
	MaxHoldingDays = 100 * daysPerYear
)

// StakingFields is the raw text of the staking form.
type StakingFields struct {
	Amount string
	APY    string
	Days   string
	Months string
	Fee    string
	Price  string
}

// Field policy for the staking calculator.
var (
	PrincipalField    = Required("stake amount", Positive)
	APYField          = Required("APY", NonNegative)
	ValidatorFeeField = WithDefault("validator fee", 0, Percent)
	UnitPriceField    = Required("coin price", Positive)
)

// StakingInput is a fully parsed staking scenario.
type StakingInput struct {
	Principal  float64
	APYPercent float64
	Days       int
	Months     int
	FeePercent float64
	UnitPrice  float64
}

// TotalDays is the holding period with months counted as 30 days.
func (in StakingInput) TotalDays() int {
	return in.Days + in.Months*daysPerMonth
}

// StakingPoint is one day of the cumulative profit projection.
type StakingPoint struct {
	Day                 int
	CumulativeNetProfit float64
}

// StakingResult is the projected reward over the holding period.
type StakingResult struct {
	TotalDays   int
	DailyProfit float64 // gross, before the validator fee
	GrossProfit float64
	FeeAmount   float64
	NetProfit   float64
	RewardValue float64 // NetProfit valued at the unit price
	Series      []StakingPoint
}

// ParseStakingInput applies the staking field policy to raw text.
func ParseStakingInput(f StakingFields) (StakingInput, error) {
	var in StakingInput
	var err error

	if in.Principal, err = PrincipalField.MustHave(f.Amount); err != nil {
		return StakingInput{}, err
	}
	if in.APYPercent, err = APYField.MustHave(f.APY); err != nil {
		return StakingInput{}, err
	}
	if in.UnitPrice, err = UnitPriceField.MustHave(f.Price); err != nil {
		return StakingInput{}, err
	}
	if in.FeePercent, _, err = ValidatorFeeField.Parse(f.Fee); err != nil {
		return StakingInput{}, err
	}
	if in.Days, err = parseCount("days", f.Days); err != nil {
		return StakingInput{}, err
	}
	if in.Months, err = parseCount("months", f.Months); err != nil {
		return StakingInput{}, err
	}
	return in, nil
}

// ComputeStaking projects simple (non-compounding) staking rewards day by day.
func ComputeStaking(in StakingInput) (StakingResult, error) {
	if in.Days > MaxHoldingDays || in.Months > MaxHoldingDays/daysPerMonth {
		return StakingResult{}, &FieldError{Field: "holding period", Err: fmt.Errorf("%w: at most %d days", ErrOutOfRange, MaxHoldingDays)}
	}
	totalDays := in.TotalDays()
	if totalDays <= 0 {
		return StakingResult{}, &FieldError{Field: "holding period", Err: fmt.Errorf("%w: must be at least one day", ErrOutOfRange)}
	}
	if totalDays > MaxHoldingDays {
		return StakingResult{}, &FieldError{Field: "holding period", Err: fmt.Errorf("%w: at most %d days", ErrOutOfRange, MaxHoldingDays)}
	}

	yearlyProfit := in.Principal * (in.APYPercent / 100)
	dailyProfit := yearlyProfit / daysPerYear
	keep := 1 - in.FeePercent/100

	series := make([]StakingPoint, totalDays)
	for i := 1; i <= totalDays; i++ {
		series[i-1] = StakingPoint{
			Day:                 i,
			CumulativeNetProfit: dailyProfit * float64(i) * keep,
		}
	}

	gross := dailyProfit * float64(totalDays)
	net := series[totalDays-1].CumulativeNetProfit

	return StakingResult{
		TotalDays:   totalDays,
		DailyProfit: dailyProfit,
		GrossProfit: gross,
		FeeAmount:   gross - net,
		NetProfit:   net,
		RewardValue: net * in.UnitPrice,
		Series:      series,
	}, nil
}

// CalculateStaking parses raw fields and computes the result in one step.
func CalculateStaking(f StakingFields) (StakingInput, StakingResult, error) {
	in, err := ParseStakingInput(f)
	if err != nil {
		return StakingInput{}, StakingResult{}, err
	}
	res, err := ComputeStaking(in)
	return in, res, err
}

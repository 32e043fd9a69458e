// internal/calc/mining.go
package calc

const (
	// DefaultBlockReward is used when the block reward field is empty or invalid.
	// It matches the Bitcoin subsidy between the 2020 and 2024 halvings.
	DefaultBlockReward = 6.25

	// DefaultNetworkDifficulty is used when the difficulty field is empty or invalid.
	DefaultNetworkDifficulty = 1_000_000

	secondsPerDay     = 86400
	hashesPerMegahash = 1_000_000
	hoursPerDay       = 24
	wattsPerKilowatt  = 1000
)

// MiningFields is the raw text a user typed into the mining form.
type MiningFields struct {
	Hashrate        string
	Power           string
	ElectricityCost string
	BlockReward     string
	Difficulty      string
	PriceOverride   string
}

// Field policy for the mining calculator.
var (
	HashrateField        = Required("hashrate", Positive)
	PowerField           = Required("power", Positive)
	ElectricityCostField = Required("electricity cost", NonNegative)
	BlockRewardField     = Fallback("block reward", DefaultBlockReward, Positive)
	DifficultyField      = Fallback("network difficulty", DefaultNetworkDifficulty, Positive)
	PriceOverrideField   = Optional("price", NonNegative)
)

// MiningInput is a fully parsed mining scenario.
type MiningInput struct {
	HashrateMHs     float64 // MH/s
	PowerWatts      float64
	ElectricityCost float64 // $/kWh
	BlockReward     float64
	Difficulty      float64
	PriceOverride   *float64
}

// MiningResult holds the daily economics of a mining rig.
type MiningResult struct {
	EarningsPerDay  float64 // coins per day
	Price           float64 // effective unit price used
	PriceOverridden bool
	DailyRevenue    float64
	DailyProfit     float64
	DailyEnergyCost float64
	// ROIPercent is profit relative to energy spend. Nil when the energy cost is zero.
	ROIPercent *float64
}

// ParseMiningInput applies the mining field policy to raw text.
// A price override that is typed but not a valid price is a field error.
func ParseMiningInput(f MiningFields) (MiningInput, error) {
	var in MiningInput
	var err error

	if in.HashrateMHs, err = HashrateField.MustHave(f.Hashrate); err != nil {
		return MiningInput{}, err
	}
	if in.PowerWatts, err = PowerField.MustHave(f.Power); err != nil {
		return MiningInput{}, err
	}
	if in.ElectricityCost, err = ElectricityCostField.MustHave(f.ElectricityCost); err != nil {
		return MiningInput{}, err
	}

	// Defaulted fields never fail.
	in.BlockReward, _, _ = BlockRewardField.Parse(f.BlockReward)
	in.Difficulty, _, _ = DifficultyField.Parse(f.Difficulty)

	v, ok, err := PriceOverrideField.Parse(f.PriceOverride)
	if err != nil {
		return MiningInput{}, err
	}
	if ok {
		in.PriceOverride = &v
	}

	return in, nil
}

// EffectivePrice picks the manual override when present, otherwise the fetched price.
func (in MiningInput) EffectivePrice(current *float64) (float64, bool) {
	if in.PriceOverride != nil {
		return *in.PriceOverride, true
	}
	if current != nil && *current > 0 {
		return *current, true
	}
	return 0, false
}

// ComputeMining returns daily profit, energy cost and energy ROI for a rig.
// currentPrice is the fetched unit price, nil when none is held.
func ComputeMining(in MiningInput, currentPrice *float64) (MiningResult, error) {
	price, ok := in.EffectivePrice(currentPrice)
	if !ok {
		return MiningResult{}, unavailable(ErrPriceUnavailable)
	}
	if in.Difficulty == 0 {
		return MiningResult{}, unavailable(ErrDivisionByZero)
	}

	earningsPerDay := (in.HashrateMHs * in.BlockReward * secondsPerDay) / (in.Difficulty * hashesPerMegahash)
	energyCostPerDay := (in.PowerWatts * hoursPerDay) * (in.ElectricityCost / wattsPerKilowatt)
	profitPerDay := earningsPerDay*price - energyCostPerDay

	res := MiningResult{
		EarningsPerDay:  earningsPerDay,
		Price:           price,
		PriceOverridden: in.PriceOverride != nil,
		DailyRevenue:    earningsPerDay * price,
		DailyProfit:     profitPerDay,
		DailyEnergyCost: energyCostPerDay,
	}
	if energyCostPerDay != 0 {
		roi := (profitPerDay / energyCostPerDay) * 100
		res.ROIPercent = &roi
	}
	return res, nil
}

// CalculateMining parses raw fields and computes the result in one step.
func CalculateMining(f MiningFields, currentPrice *float64) (MiningInput, MiningResult, error) {
	in, err := ParseMiningInput(f)
	if err != nil {
		return MiningInput{}, MiningResult{}, err
	}
	res, err := ComputeMining(in, currentPrice)
	return in, res, err
}

package session

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/rovshanmuradov/cryptocalc/internal/calc"
	"github.com/rovshanmuradov/cryptocalc/internal/export"
	"github.com/rovshanmuradov/cryptocalc/internal/price"
)

const StakingReportName = "staking_result"

// Staking is the staking yield calculator session. Assets are chosen by ticker
// symbol and resolved to price ids through a fixed table.
type Staking struct {
	base
	assets map[string]string
	symbol string
	input  calc.StakingInput
	result *calc.StakingResult
	// ticker or id the result was computed for
	resultAsset string
}

// NewStaking creates a staking session over the symbol→id table.
func NewStaking(deps Deps, assets map[string]string) *Staking {
	table := make(map[string]string, len(assets))
	for symbol, id := range assets {
		table[strings.ToUpper(symbol)] = id
	}
	return &Staking{base: newBase("staking", deps), assets: table}
}

// Symbols returns the selectable tickers in alphabetical order.
func (s *Staking) Symbols() []string {
	symbols := make([]string, 0, len(s.assets))
	for symbol := range s.assets {
		symbols = append(symbols, symbol)
	}
	sort.Strings(symbols)
	return symbols
}

// Symbol returns the selected ticker.
func (s *Staking) Symbol() string {
	return s.symbol
}

// Resolve maps a ticker to its price id. Unknown input is used as an id as-is.
func (s *Staking) Resolve(symbol string) string {
	symbol = strings.TrimSpace(symbol)
	if id, ok := s.assets[strings.ToUpper(symbol)]; ok {
		return id
	}
	return strings.ToLower(symbol)
}

// Select changes the staked asset and refetches its price.
func (s *Staking) Select(ctx context.Context, symbol string) (price.AssetPrice, error) {
	s.symbol = strings.ToUpper(strings.TrimSpace(symbol))
	return s.selectAsset(ctx, s.Resolve(symbol))
}

// SetSymbol changes the staked asset without fetching and returns its price id.
func (s *Staking) SetSymbol(symbol string) string {
	s.symbol = strings.ToUpper(strings.TrimSpace(symbol))
	s.SetAsset(s.Resolve(symbol))
	return s.asset
}

// PrefillPrice returns the held price formatted for the coin price field.
func (s *Staking) PrefillPrice() string {
	p, ok := s.holder.Current()
	if !ok {
		return ""
	}
	return strconv.FormatFloat(p.Price, 'f', -1, 64)
}

// Calculate parses the raw fields and projects the reward. A blank coin price
// is filled from the held price.
func (s *Staking) Calculate(fields calc.StakingFields) (calc.StakingResult, error) {
	if strings.TrimSpace(fields.Price) == "" {
		fields.Price = s.PrefillPrice()
	}

	var res calc.StakingResult
	err := s.run(func() error {
		in, out, err := calc.CalculateStaking(fields)
		if err != nil {
			return err
		}
		s.input, res = in, out
		s.resultAsset = s.symbol
		if s.resultAsset == "" {
			s.resultAsset = s.asset
		}
		return nil
	})
	if err != nil {
		s.result = nil
		return calc.StakingResult{}, err
	}
	s.result = &res
	return res, nil
}

// Result returns the last successful result.
func (s *Staking) Result() (calc.StakingResult, bool) {
	if s.result == nil {
		return calc.StakingResult{}, false
	}
	return *s.result, true
}

// Report returns the rows of the displayed result.
func (s *Staking) Report() (export.Report, error) {
	if s.result == nil {
		return export.Report{}, ErrNothingToExport
	}
	in, res := s.input, *s.result

	return export.Report{
		Name: StakingReportName,
		Rows: []export.Row{
			{Parameter: "Cryptocurrency", Value: s.resultAsset},
			{Parameter: "Stake amount", Value: export.Amount(in.Principal, 8)},
			{Parameter: "APY (%)", Value: export.Percent(in.APYPercent)},
			{Parameter: "Period (days/months)", Value: fmt.Sprintf("%d / %d", in.Days, in.Months)},
			{Parameter: "Total days", Value: strconv.Itoa(res.TotalDays)},
			{Parameter: "Coin price ($)", Value: export.Money(in.UnitPrice)},
			{Parameter: "Validator fee (%)", Value: export.Percent(in.FeePercent)},
			{Parameter: "Gross reward (coins)", Value: export.Amount(res.GrossProfit, 8)},
			{Parameter: "Validator fee (coins)", Value: export.Amount(res.FeeAmount, 8)},
			{Parameter: "Expected profit (coins)", Value: export.Amount(res.NetProfit, 8)},
			{Parameter: "Expected profit ($)", Value: export.Money(res.RewardValue)},
		},
	}, nil
}

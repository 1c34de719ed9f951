// Package wealth does the cash and capital bookkeeping of players.
//
// Cash is spendable money. Assets mirror the capital tied up in owned property
// and buildings; they only feed net worth and taxes. Amounts are whole currency
// units; fractional rates go through decimal arithmetic and are rounded half up.
package wealth

import (
	"github.com/shopspring/decimal"

	"github.com/tabletop-go/monopoly/internal/game/state"
)

// BuildingRefundRate is the share of the house cost returned when a building is sold.
const BuildingRefundRate = 0.5

// Increment adds cash to a player.
func Increment(p *state.Player, amount int) {
	p.Cash += amount
}

// Decrement removes cash from a player. Cash may go negative; callers that
// cannot allow that route the charge through collections first.
func Decrement(p *state.Player, amount int) {
	p.Cash -= amount
}

// BuyAsset pays cost in cash and records value as capital.
func BuyAsset(p *state.Player, cost, value int) {
	p.Cash -= cost
	p.Assets += value
}

// SellAsset receives proceeds in cash and releases value from capital.
func SellAsset(p *state.Player, proceeds, value int) {
	p.Cash += proceeds
	p.Assets -= value
}

// Exchange moves cash from one player to another in a single step.
func Exchange(from, to *state.Player, amount int) {
	from.Cash -= amount
	to.Cash += amount
}

// ApplyRate returns amount * rate rounded to whole currency.
func ApplyRate(amount int, rate float64) int {
	return int(decimal.NewFromInt(int64(amount)).
		Mul(decimal.NewFromFloat(rate)).
		Round(0).
		IntPart())
}

// MortgageValue is the cash a property raises when mortgaged.
func MortgageValue(cfg *state.PropertyConfig, prop *state.Property) int {
	if cfg.MortgageMultiplier <= 0 {
		return prop.Price
	}
	return int(decimal.NewFromInt(int64(prop.Price)).
		Div(decimal.NewFromInt(int64(cfg.MortgageMultiplier))).
		Floor().
		IntPart())
}

// MortgageInterest is the interest owed on lifting or transferring a mortgage.
func MortgageInterest(cfg *state.PropertyConfig, prop *state.Property) int {
	return ApplyRate(MortgageValue(cfg, prop), cfg.MortgageInterest)
}

// BuildingRefund is the cash returned for selling one building on the property.
func BuildingRefund(prop *state.Property) int {
	return ApplyRate(prop.HouseCost, BuildingRefundRate)
}

// BookValue is the capital a property currently represents for its owner.
func BookValue(cfg *state.PropertyConfig, prop *state.Property) int {
	value := prop.Price + prop.Buildings*prop.HouseCost
	if prop.Mortgaged {
		value -= MortgageValue(cfg, prop)
	}
	return value
}

// CalculateLiquidity is the cash a player could raise from the given properties
// without trading: cash, plus the mortgage value of every unmortgaged property,
// plus the refund for every building.
func CalculateLiquidity(gs *state.GameState, props []*state.Property, p *state.Player) int {
	liquidity := p.Cash
	for _, prop := range props {
		if !prop.Mortgaged {
			liquidity += MortgageValue(gs.Config, prop)
		}
		liquidity += BuildingRefund(prop) * prop.Buildings
	}
	return liquidity
}

// CalculateNetWorth returns cash plus assets and refreshes the cached value.
func CalculateNetWorth(p *state.Player) int {
	p.NetWorth = p.Cash + p.Assets
	return p.NetWorth
}

package property

import (
	"github.com/tabletop-go/monopoly/internal/game/state"
	"github.com/tabletop-go/monopoly/internal/game/wealth"
)

// Management is one kind of property management action.
type Management string

const (
	ManageRenovate   Management = "RENOVATE"
	ManageDemolish   Management = "DEMOLISH"
	ManageMortgage   Management = "MORTGAGE"
	ManageUnmortgage Management = "UNMORTGAGE"
)

func groupBuildingRange(gs *state.GameState, group state.Group) (lowest, highest int) {
	lowest = -1
	for _, prop := range InGroup(gs, group) {
		if lowest < 0 || prop.Buildings < lowest {
			lowest = prop.Buildings
		}
		if prop.Buildings > highest {
			highest = prop.Buildings
		}
	}
	if lowest < 0 {
		lowest = 0
	}
	return lowest, highest
}

func groupMortgaged(gs *state.GameState, group state.Group) bool {
	for _, prop := range InGroup(gs, group) {
		if prop.Mortgaged {
			return true
		}
	}
	return false
}

func owner(gs *state.GameState, prop *state.Property) *state.Player {
	if !prop.IsOwned() {
		return nil
	}
	p, err := gs.Player(prop.OwnedBy)
	if err != nil {
		return nil
	}
	return p
}

// CanRenovate reports whether one more building may go up on prop. Building is
// even across the group and needs the whole group unmortgaged, a free piece in
// the supply and enough cash for the house cost.
func CanRenovate(gs *state.GameState, prop *state.Property) bool {
	cfg := gs.Config
	p := owner(gs, prop)
	if p == nil || !prop.Group.IsColor() || !IsMonopoly(gs, prop) {
		return false
	}
	if groupMortgaged(gs, prop.Group) || prop.Buildings >= cfg.MaxBuildings {
		return false
	}
	if lowest, _ := groupBuildingRange(gs, prop.Group); prop.Buildings != lowest {
		return false
	}
	if prop.Buildings+1 == cfg.HotelThreshold {
		if cfg.Hotels < 1 {
			return false
		}
	} else if cfg.Houses < 1 {
		return false
	}
	return p.Cash >= prop.HouseCost
}

// CanDemolish reports whether one building may be sold off prop. Selling is
// even across the group; breaking a hotel needs the houses it turns back into.
func CanDemolish(gs *state.GameState, prop *state.Property) bool {
	if owner(gs, prop) == nil || prop.Buildings == 0 {
		return false
	}
	if _, highest := groupBuildingRange(gs, prop.Group); prop.Buildings != highest {
		return false
	}
	threshold := gs.Config.HotelThreshold
	if prop.Buildings == threshold && gs.Config.Houses < threshold-1 {
		return false
	}
	return true
}

// Liquidity is the cash p could raise without trading. A group whose hotels
// cannot all be broken back into houses is left out, buildings and mortgage
// value both. Houses standing in hotel-free groups count towards the supply
// since selling them comes first.
func Liquidity(gs *state.GameState, p *state.Player) int {
	threshold := gs.Config.HotelThreshold
	owned := gs.OwnedBy(p.ID)

	hotels := make(map[state.Group]int)
	for _, prop := range owned {
		if threshold > 0 && prop.Buildings == threshold {
			hotels[prop.Group]++
		}
	}
	spare := gs.Config.Houses
	for _, prop := range owned {
		if hotels[prop.Group] == 0 {
			spare += prop.Buildings
		}
	}

	liquid := make([]*state.Property, 0, len(owned))
	for _, prop := range owned {
		if n := hotels[prop.Group]; n > 0 && spare < n*(threshold-1) {
			continue
		}
		liquid = append(liquid, prop)
	}
	return wealth.CalculateLiquidity(gs, liquid, p)
}

// CanMortgage reports whether prop may be mortgaged. No building may stand
// anywhere in its group.
func CanMortgage(gs *state.GameState, prop *state.Property) bool {
	return owner(gs, prop) != nil && !prop.Mortgaged && !GroupHasBuildings(gs, prop.Group)
}

// CanUnmortgage reports whether the owner can afford to lift the mortgage on prop.
func CanUnmortgage(gs *state.GameState, prop *state.Property, bypassInterest bool) bool {
	p := owner(gs, prop)
	return p != nil && prop.Mortgaged && p.Cash >= UnmortgageCost(gs, prop, bypassInterest)
}

// Renovate adds one building to prop and charges its owner the house cost.
// It is a no-op returning false when the building is not allowed.
func Renovate(gs *state.GameState, prop *state.Property) bool {
	if !CanRenovate(gs, prop) {
		return false
	}
	cfg := gs.Config
	prop.Buildings++
	if prop.Buildings == cfg.HotelThreshold {
		cfg.Hotels--
		cfg.Houses += cfg.HotelThreshold - 1
	} else {
		cfg.Houses--
	}
	wealth.BuyAsset(owner(gs, prop), prop.HouseCost, prop.HouseCost)
	return true
}

// Demolish sells one building off prop for half the house cost.
// It is a no-op returning false when the sale is not allowed.
func Demolish(gs *state.GameState, prop *state.Property) bool {
	if !CanDemolish(gs, prop) {
		return false
	}
	releaseBuilding(gs.Config, prop)
	wealth.SellAsset(owner(gs, prop), wealth.BuildingRefund(prop), prop.HouseCost)
	return true
}

// releaseBuilding takes one building off prop and returns it to the supply.
func releaseBuilding(cfg *state.PropertyConfig, prop *state.Property) {
	if prop.Buildings == cfg.HotelThreshold {
		cfg.Hotels++
		cfg.Houses -= cfg.HotelThreshold - 1
	} else {
		cfg.Houses++
	}
	prop.Buildings--
}

// ClearBuildings returns every building on prop to the supply without paying
// anyone, and reports how many came off. The owner's capital is reduced by
// their cost. Hotels go back whole so the supply never has to break them.
func ClearBuildings(gs *state.GameState, prop *state.Property) int {
	cfg := gs.Config
	removed := prop.Buildings
	if removed == 0 {
		return 0
	}
	if prop.Buildings >= cfg.HotelThreshold && cfg.HotelThreshold > 0 {
		cfg.Hotels++
		cfg.Houses += prop.Buildings - cfg.HotelThreshold
	} else {
		cfg.Houses += prop.Buildings
	}
	prop.Buildings = 0
	if p := owner(gs, prop); p != nil {
		p.Assets -= removed * prop.HouseCost
	}
	return removed
}

// Mortgage pledges prop to the bank for its mortgage value.
func Mortgage(gs *state.GameState, prop *state.Property) bool {
	if !CanMortgage(gs, prop) {
		return false
	}
	value := wealth.MortgageValue(gs.Config, prop)
	prop.Mortgaged = true
	wealth.SellAsset(owner(gs, prop), value, value)
	return true
}

// Unmortgage lifts the mortgage on prop, charging the mortgage value plus
// interest unless bypassInterest is set.
func Unmortgage(gs *state.GameState, prop *state.Property, bypassInterest bool) bool {
	if !CanUnmortgage(gs, prop, bypassInterest) {
		return false
	}
	prop.Mortgaged = false
	wealth.BuyAsset(owner(gs, prop), UnmortgageCost(gs, prop, bypassInterest), wealth.MortgageValue(gs.Config, prop))
	return true
}

// Candidates returns the player's properties the given management action applies to.
func Candidates(gs *state.GameState, playerID string, action Management) []*state.Property {
	var allowed func(*state.Property) bool
	switch action {
	case ManageRenovate:
		allowed = func(prop *state.Property) bool { return CanRenovate(gs, prop) }
	case ManageDemolish:
		allowed = func(prop *state.Property) bool { return CanDemolish(gs, prop) }
	case ManageMortgage:
		allowed = func(prop *state.Property) bool { return CanMortgage(gs, prop) }
	case ManageUnmortgage:
		allowed = func(prop *state.Property) bool { return CanUnmortgage(gs, prop, false) }
	default:
		return nil
	}
	props := make([]*state.Property, 0, 4)
	for _, prop := range gs.OwnedBy(playerID) {
		if allowed(prop) {
			props = append(props, prop)
		}
	}
	return props
}

// Apply performs one management action on prop.
func Apply(gs *state.GameState, prop *state.Property, action Management) bool {
	switch action {
	case ManageRenovate:
		return Renovate(gs, prop)
	case ManageDemolish:
		return Demolish(gs, prop)
	case ManageMortgage:
		return Mortgage(gs, prop)
	case ManageUnmortgage:
		return Unmortgage(gs, prop, false)
	default:
		return false
	}
}

// ManagementActions lists the actions with at least one candidate for the player.
// When raisingCash is set only the actions that produce cash are considered.
func ManagementActions(gs *state.GameState, playerID string, raisingCash bool) []Management {
	all := []Management{ManageRenovate, ManageDemolish, ManageMortgage, ManageUnmortgage}
	if raisingCash {
		all = []Management{ManageDemolish, ManageMortgage}
	}
	actions := make([]Management, 0, len(all))
	for _, action := range all {
		if len(Candidates(gs, playerID, action)) > 0 {
			actions = append(actions, action)
		}
	}
	return actions
}

package property

import (
	"github.com/tabletop-go/monopoly/internal/game/state"
	"github.com/tabletop-go/monopoly/internal/game/wealth"
)

// ByID returns the tile with the given ID.
func ByID(gs *state.GameState, id string) (*state.Property, error) {
	return gs.Config.Property(id)
}

// ByPosition returns the tile for an unbounded board position.
func ByPosition(gs *state.GameState, position int) (*state.Property, error) {
	size := gs.BoardSize()
	tile := position
	if size > 0 {
		tile = ((position % size) + size) % size
	}
	return gs.Config.At(tile)
}

// InGroup returns every tile of the group in board order.
func InGroup(gs *state.GameState, group state.Group) []*state.Property {
	members := make([]*state.Property, 0, 4)
	for _, prop := range gs.Config.Properties {
		if prop.Group == group {
			members = append(members, prop)
		}
	}
	return members
}

// OwnsGroup reports whether the player owns every property of the group.
func OwnsGroup(gs *state.GameState, playerID string, group state.Group) bool {
	if playerID == state.Unowned {
		return false
	}
	members := InGroup(gs, group)
	if len(members) == 0 {
		return false
	}
	for _, prop := range members {
		if prop.OwnedBy != playerID {
			return false
		}
	}
	return true
}

// IsMonopoly reports whether the owner of prop holds its whole group.
func IsMonopoly(gs *state.GameState, prop *state.Property) bool {
	return prop.Ownable() && OwnsGroup(gs, prop.OwnedBy, prop.Group)
}

// CountOwnedInGroup returns how many properties of the group the player holds.
func CountOwnedInGroup(gs *state.GameState, playerID string, group state.Group) int {
	count := 0
	for _, prop := range InGroup(gs, group) {
		if prop.OwnedBy == playerID {
			count++
		}
	}
	return count
}

// CalculateRent returns the rent owed for landing on prop with the current roll
// and card multiplier. Unowned and mortgaged properties charge nothing.
func CalculateRent(gs *state.GameState, prop *state.Property) int {
	if !prop.Ownable() || !prop.IsOwned() || prop.Mortgaged {
		return 0
	}
	cfg := gs.Config
	multiplier := gs.TurnValues.RentMultiplier

	switch prop.Group {
	case state.GroupUtilities:
		factor := cfg.UtilitySingle
		switch {
		case multiplier > 0:
			factor = multiplier
		case OwnsGroup(gs, prop.OwnedBy, prop.Group):
			factor = cfg.UtilityDouble
		}
		return gs.TurnValues.Total() * factor
	case state.GroupRailroad:
		owned := CountOwnedInGroup(gs, prop.OwnedBy, prop.Group)
		if owned == 0 || len(cfg.RailroadRent) == 0 {
			return 0
		}
		if owned > len(cfg.RailroadRent) {
			owned = len(cfg.RailroadRent)
		}
		rent := cfg.RailroadRent[owned-1]
		if multiplier > 0 {
			rent *= multiplier
		}
		return rent
	default:
		if prop.Buildings > 0 && prop.Buildings <= len(prop.MultipliedRent) {
			return prop.MultipliedRent[prop.Buildings-1]
		}
		if IsMonopoly(gs, prop) {
			return prop.Rent * 2
		}
		return prop.Rent
	}
}

// NearestOfGroup returns the first tile of the group ahead of the given board index.
func NearestOfGroup(gs *state.GameState, fromTile int, group state.Group) *state.Property {
	size := gs.BoardSize()
	for step := 1; step <= size; step++ {
		prop, err := gs.Config.At((fromTile + step) % size)
		if err != nil {
			continue
		}
		if prop.Group == group {
			return prop
		}
	}
	return nil
}

// BuildingCounts returns the houses and hotels standing on the player's properties.
func BuildingCounts(gs *state.GameState, playerID string) (houses, hotels int) {
	threshold := gs.Config.HotelThreshold
	for _, prop := range gs.OwnedBy(playerID) {
		if threshold > 0 && prop.Buildings >= threshold {
			hotels++
			continue
		}
		houses += prop.Buildings
	}
	return houses, hotels
}

// GroupHasBuildings reports whether any property of the group carries a building.
func GroupHasBuildings(gs *state.GameState, group state.Group) bool {
	for _, prop := range InGroup(gs, group) {
		if prop.Buildings > 0 {
			return true
		}
	}
	return false
}

// Tradeable returns the player's properties that may change hands: those whose
// group carries no buildings.
func Tradeable(gs *state.GameState, playerID string) []*state.Property {
	props := make([]*state.Property, 0, 8)
	for _, prop := range gs.OwnedBy(playerID) {
		if !GroupHasBuildings(gs, prop.Group) {
			props = append(props, prop)
		}
	}
	return props
}

// UnmortgageCost is the cash needed to lift the mortgage on prop.
func UnmortgageCost(gs *state.GameState, prop *state.Property, bypassInterest bool) int {
	cost := wealth.MortgageValue(gs.Config, prop)
	if !bypassInterest {
		cost += wealth.MortgageInterest(gs.Config, prop)
	}
	return cost
}

// Transfer moves a property to a new owner, rebalancing both owners' capital.
// newOwner may be nil to return the property to the bank.
func Transfer(gs *state.GameState, prop *state.Property, newOwner *state.Player) {
	value := wealth.BookValue(gs.Config, prop)
	if previous, err := gs.Player(prop.OwnedBy); err == nil {
		previous.Assets -= value
	}
	if newOwner == nil {
		prop.OwnedBy = state.Unowned
		return
	}
	prop.OwnedBy = newOwner.ID
	newOwner.Assets += value
}

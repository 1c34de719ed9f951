package board

import (
	"fmt"

	"github.com/tabletop-go/monopoly/internal/game/state"
)

var knownKinds = map[state.TileKind]bool{
	state.TileGo:             true,
	state.TileJail:           true,
	state.TileFreeParking:    true,
	state.TileGoToJail:       true,
	state.TileChance:         true,
	state.TileCommunityChest: true,
	state.TileIncomeTax:      true,
	state.TileLuxuryTax:      true,
}

var knownActions = map[state.CardAction]bool{
	state.CardMove:              true,
	state.CardMoveNearest:       true,
	state.CardAddFunds:          true,
	state.CardRemoveFunds:       true,
	state.CardSendToJail:        true,
	state.CardChargePerBuilding: true,
	state.CardCollectFromAll:    true,
	state.CardPayAll:            true,
	state.CardGetOutOfJail:      true,
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidBoard, fmt.Sprintf(format, args...))
}

func validate(spec *boardSpec) error {
	if err := validateRules(spec); err != nil {
		return err
	}
	groups, err := validateTiles(spec)
	if err != nil {
		return err
	}
	tileIDs := make(map[string]bool, len(spec.Tiles))
	for _, t := range spec.Tiles {
		tileIDs[t.ID] = true
	}
	if len(spec.Chance) == 0 || len(spec.CommunityChest) == 0 {
		return invalid("both card decks need at least one card")
	}
	cardIDs := make(map[string]bool)
	for _, deck := range [][]cardSpec{spec.Chance, spec.CommunityChest} {
		for _, c := range deck {
			if c.ID == "" || cardIDs[c.ID] {
				return invalid("card id %q is empty or duplicated", c.ID)
			}
			cardIDs[c.ID] = true
			if err := validateCard(c, tileIDs, groups); err != nil {
				return err
			}
		}
	}
	return nil
}

func validateRules(spec *boardSpec) error {
	r := spec.Rules
	pc := spec.PropertyConfig
	switch {
	case r.DiceCount < 1 || r.DiceFaces < 1:
		return invalid("dice_count and dice_faces must be positive")
	case r.StartingCash < 0 || r.Salary < 0 || r.JailFine < 0:
		return invalid("starting_cash, salary and jail_fine must not be negative")
	case r.MaxJailTurns < 1 || r.SpeedingLimit < 1:
		return invalid("max_jail_turns and speeding_limit must be positive")
	case r.IncomeTaxRate < 0 || r.IncomeTaxRate > 1:
		return invalid("income_tax_rate %v out of range", r.IncomeTaxRate)
	case pc.MaxBuildings < 1 || pc.HotelThreshold < 1 || pc.HotelThreshold > pc.MaxBuildings:
		return invalid("hotel_threshold must be within 1..max_buildings")
	case pc.Houses < 0 || pc.Hotels < 0:
		return invalid("building supply must not be negative")
	case pc.MortgageMultiplier < 1:
		return invalid("mortgage_multiplier must be positive")
	case len(pc.RailroadRent) == 0:
		return invalid("railroad_rent needs at least one entry")
	}
	return nil
}

func validateTiles(spec *boardSpec) (map[state.Group]bool, error) {
	if len(spec.Tiles) == 0 {
		return nil, invalid("no tiles")
	}
	if spec.Tiles[0].Kind != string(state.TileGo) {
		return nil, invalid("the first tile must be go")
	}
	maxBuildings := spec.PropertyConfig.MaxBuildings
	ids := make(map[string]bool, len(spec.Tiles))
	groups := make(map[state.Group]bool)
	jails := 0
	for i, t := range spec.Tiles {
		if t.ID == "" || ids[t.ID] {
			return nil, invalid("tile %d: id %q is empty or duplicated", i, t.ID)
		}
		ids[t.ID] = true
		group := state.Group(t.Group)
		if group == "" {
			return nil, invalid("tile %q has no group", t.ID)
		}
		groups[group] = true

		if group == state.GroupSpecial {
			kind := state.TileKind(t.Kind)
			if !knownKinds[kind] {
				return nil, invalid("tile %q has unknown kind %q", t.ID, t.Kind)
			}
			if kind == state.TileJail {
				jails++
			}
			continue
		}
		if t.Kind != "" && t.Kind != string(state.TileProperty) {
			return nil, invalid("ownable tile %q cannot have kind %q", t.ID, t.Kind)
		}
		if t.Price <= 0 {
			return nil, invalid("ownable tile %q needs a price", t.ID)
		}
		if group.IsColor() {
			if len(t.MultipliedRent) != maxBuildings {
				return nil, invalid("tile %q needs %d multiplied_rent entries", t.ID, maxBuildings)
			}
			if t.HouseCost <= 0 {
				return nil, invalid("tile %q needs a house_cost", t.ID)
			}
		}
	}
	if jails != 1 {
		return nil, invalid("board needs exactly one jail tile, found %d", jails)
	}
	return groups, nil
}

func validateCard(c cardSpec, tiles map[string]bool, groups map[state.Group]bool) error {
	action := state.CardAction(c.Action)
	if !knownActions[action] {
		return invalid("card %q has unknown action %q", c.ID, c.Action)
	}
	switch action {
	case state.CardMove:
		if c.Tile == "" && c.Spaces == 0 {
			return invalid("move card %q needs a tile or spaces", c.ID)
		}
		if c.Tile != "" && !tiles[c.Tile] {
			return invalid("move card %q targets unknown tile %q", c.ID, c.Tile)
		}
	case state.CardMoveNearest:
		if !groups[state.Group(c.Group)] {
			return invalid("card %q targets unknown group %q", c.ID, c.Group)
		}
	case state.CardAddFunds, state.CardRemoveFunds, state.CardCollectFromAll, state.CardPayAll:
		if c.Amount <= 0 {
			return invalid("card %q needs a positive amount", c.ID)
		}
	case state.CardChargePerBuilding:
		if c.HouseCharge < 0 || c.HotelCharge < 0 {
			return invalid("card %q has a negative building charge", c.ID)
		}
	}
	return nil
}

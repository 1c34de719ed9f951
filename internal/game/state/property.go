package state

import (
	"errors"
	"fmt"
)

// ErrUnknownProperty is returned when a property ID or position has no tile.
var ErrUnknownProperty = errors.New("unknown property")

// Unowned is the OwnedBy value of a property held by the bank.
const Unowned = ""

// Group is the color group or category a tile belongs to.
type Group string

const (
	GroupBrown     Group = "Brown"
	GroupLightBlue Group = "LightBlue"
	GroupPink      Group = "Pink"
	GroupOrange    Group = "Orange"
	GroupRed       Group = "Red"
	GroupYellow    Group = "Yellow"
	GroupGreen     Group = "Green"
	GroupDarkBlue  Group = "DarkBlue"
	GroupRailroad  Group = "Railroad"
	GroupUtilities Group = "Utilities"
	GroupSpecial   Group = "Special"
)

// IsColor reports whether the group is an ordinary buildable color group.
func (g Group) IsColor() bool {
	switch g {
	case GroupRailroad, GroupUtilities, GroupSpecial, "":
		return false
	default:
		return true
	}
}

// TileKind distinguishes special tiles; ownable tiles use TileProperty.
type TileKind string

const (
	TileProperty       TileKind = "property"
	TileGo             TileKind = "go"
	TileJail           TileKind = "jail"
	TileFreeParking    TileKind = "free-parking"
	TileGoToJail       TileKind = "go-to-jail"
	TileChance         TileKind = "chance"
	TileCommunityChest TileKind = "community-chest"
	TileIncomeTax      TileKind = "income-tax"
	TileLuxuryTax      TileKind = "luxury-tax"
)

// Property is a board tile. Special tiles only carry ID, Name, Group, Kind and Position.
type Property struct {
	ID             string
	Name           string
	Group          Group
	Kind           TileKind
	Position       int
	Price          int
	Rent           int
	MultipliedRent []int // indexed by building count - 1; the last entry is the hotel
	HouseCost      int
	OwnedBy        string
	Buildings      int
	Mortgaged      bool
}

// Ownable reports whether the tile can be bought.
func (p *Property) Ownable() bool {
	return p.Group != GroupSpecial
}

// IsOwned reports whether a player holds the tile.
func (p *Property) IsOwned() bool {
	return p.OwnedBy != Unowned
}

// PropertyConfig is the board-wide property configuration and building supply.
type PropertyConfig struct {
	Properties          []*Property
	Houses              int // remaining house supply
	Hotels              int // remaining hotel supply
	HotelThreshold      int // building count at which a hotel replaces the houses
	MaxBuildings        int
	MortgageMultiplier  int // mortgage value = price / multiplier
	MortgageInterest    float64
	RailroadRent        []int // indexed by railroads owned - 1
	UtilitySingle       int
	UtilityDouble       int
	MinimumAuctionPrice int
}

// Property returns the tile with the given ID.
func (c *PropertyConfig) Property(id string) (*Property, error) {
	for _, prop := range c.Properties {
		if prop.ID == id {
			return prop, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownProperty, id)
}

// MustProperty returns the tile with the given ID and panics when it does not exist.
func (c *PropertyConfig) MustProperty(id string) *Property {
	prop, err := c.Property(id)
	if err != nil {
		panic(err)
	}
	return prop
}

// At returns the tile on the given board index.
func (c *PropertyConfig) At(position int) (*Property, error) {
	for _, prop := range c.Properties {
		if prop.Position == position {
			return prop, nil
		}
	}
	return nil, fmt.Errorf("%w: position %d", ErrUnknownProperty, position)
}

// Size returns the number of tiles on the board.
func (c *PropertyConfig) Size() int {
	return len(c.Properties)
}

// FirstOfKind returns the first tile of the given kind in board order.
func (c *PropertyConfig) FirstOfKind(kind TileKind) (*Property, error) {
	for _, prop := range c.Properties {
		if prop.Kind == kind {
			return prop, nil
		}
	}
	return nil, fmt.Errorf("%w: no %s tile", ErrUnknownProperty, kind)
}

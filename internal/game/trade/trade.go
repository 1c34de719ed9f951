// Package trade negotiates and settles bilateral trades between two players.
//
// A negotiation only edits a Details value; nothing in the game state changes
// until Execute is called on an accepted trade.
package trade

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/tabletop-go/monopoly/internal/game/property"
	"github.com/tabletop-go/monopoly/internal/game/state"
	"github.com/tabletop-go/monopoly/internal/game/wealth"
)

var (
	// ErrEmptySide is returned when one party gives nothing.
	ErrEmptySide = errors.New("both players must give something")
	// ErrCashExceedsBalance is returned when a party offers more cash than they hold.
	ErrCashExceedsBalance = errors.New("cash offered exceeds balance")
	// ErrInsufficientLiquidity is returned when a party could not cover the interest
	// on the mortgaged properties they would receive.
	ErrInsufficientLiquidity = errors.New("insufficient liquidity for mortgage interest")
)

// Status is the stage of a negotiation.
type Status string

const (
	StatusNew    Status = "NEW"
	StatusOffer  Status = "OFFER"
	StatusAccept Status = "ACCEPT"
	StatusCancel Status = "CANCEL"
)

// AssetKind tells what a traded asset is.
type AssetKind string

const (
	AssetProperty AssetKind = "property"
	AssetCard     AssetKind = "card"
	AssetCash     AssetKind = "cash"
)

// Asset is one item a party gives up.
type Asset struct {
	Kind   AssetKind
	ID     string // property or card ID
	Amount int    // cash only
}

// Details is the state of a negotiation: who gives what.
type Details struct {
	ID      string
	Status  Status
	Parties [2]string // initiator first
	// Assets maps each party's player ID to what that party gives up.
	Assets map[string][]Asset
}

// NewDetails starts an empty negotiation between two players.
func NewDetails(a, b string) *Details {
	return &Details{
		ID:      uuid.NewString(),
		Status:  StatusNew,
		Parties: [2]string{a, b},
		Assets:  map[string][]Asset{a: {}, b: {}},
	}
}

// Clone returns a deep copy.
func (d *Details) Clone() *Details {
	c := &Details{ID: d.ID, Status: d.Status, Parties: d.Parties, Assets: make(map[string][]Asset, len(d.Assets))}
	for id, assets := range d.Assets {
		c.Assets[id] = append([]Asset{}, assets...)
	}
	return c
}

// Cash returns the cash the party gives, or zero.
func (d *Details) Cash(playerID string) int {
	for _, a := range d.Assets[playerID] {
		if a.Kind == AssetCash {
			return a.Amount
		}
	}
	return 0
}

// Has reports whether the party gives the asset.
func (d *Details) Has(playerID string, kind AssetKind, id string) bool {
	for _, a := range d.Assets[playerID] {
		if a.Kind == kind && a.ID == id {
			return true
		}
	}
	return false
}

// Toggle adds the asset to the party's list, or removes it when already there.
func (d *Details) Toggle(playerID string, kind AssetKind, id string) {
	assets := d.Assets[playerID]
	for i, a := range assets {
		if a.Kind == kind && a.ID == id {
			d.Assets[playerID] = append(assets[:i:i], assets[i+1:]...)
			return
		}
	}
	d.Assets[playerID] = append(assets, Asset{Kind: kind, ID: id})
}

// SetCash sets the cash the party gives. Cash flows one way per trade, so any
// cash on the other side is cleared. A non-positive amount clears the entry.
// It reports whether the trade changed.
func (d *Details) SetCash(playerID string, amount int) bool {
	if amount < 0 {
		amount = 0
	}
	if d.Cash(playerID) == amount && d.Cash(d.Other(playerID)) == 0 {
		return false
	}
	for id := range d.Assets {
		d.Assets[id] = withoutCash(d.Assets[id])
	}
	if amount > 0 {
		d.Assets[playerID] = append(d.Assets[playerID], Asset{Kind: AssetCash, Amount: amount})
	}
	return true
}

func withoutCash(assets []Asset) []Asset {
	kept := assets[:0:0]
	for _, a := range assets {
		if a.Kind != AssetCash {
			kept = append(kept, a)
		}
	}
	return kept
}

// Other returns the ID of the party that is not playerID.
func (d *Details) Other(playerID string) string {
	if d.Parties[0] == playerID {
		return d.Parties[1]
	}
	return d.Parties[0]
}

// Summary describes the trade, one line per party.
func Summary(gs *state.GameState, d *Details, parties ...*state.Player) []string {
	lines := make([]string, 0, len(parties))
	for _, p := range parties {
		items := make([]string, 0, len(d.Assets[p.ID]))
		for _, a := range d.Assets[p.ID] {
			items = append(items, describe(gs, p, a))
		}
		if len(items) == 0 {
			items = append(items, "nothing")
		}
		lines = append(lines, fmt.Sprintf("%s gives: %s", p.Name, strings.Join(items, ", ")))
	}
	return lines
}

func describe(gs *state.GameState, owner *state.Player, a Asset) string {
	switch a.Kind {
	case AssetCash:
		return fmt.Sprintf("$%d", a.Amount)
	case AssetProperty:
		if prop, err := gs.Config.Property(a.ID); err == nil {
			if prop.Mortgaged {
				return prop.Name + " (mortgaged)"
			}
			return prop.Name
		}
	case AssetCard:
		for _, c := range owner.Cards {
			if c.ID == a.ID {
				return c.Text
			}
		}
	}
	return a.ID
}

// Validate checks that the trade can be settled.
func Validate(gs *state.GameState, d *Details) error {
	for _, id := range d.Parties {
		if len(d.Assets[id]) == 0 {
			return ErrEmptySide
		}
		p, err := gs.Player(id)
		if err != nil {
			return err
		}
		if cash := d.Cash(id); cash > p.Cash {
			return fmt.Errorf("%w: %s offers %d of %d", ErrCashExceedsBalance, p.Name, cash, p.Cash)
		}
	}
	for _, id := range d.Parties {
		p, _ := gs.Player(id)
		liquidity, interest := projected(gs, d, p)
		if liquidity < interest {
			return fmt.Errorf("%w: %s would have %d for %d interest", ErrInsufficientLiquidity, p.Name, liquidity, interest)
		}
	}
	return nil
}

// projected returns the party's liquidity after the trade and the interest
// owed on the mortgaged properties they would receive.
func projected(gs *state.GameState, d *Details, p *state.Player) (liquidity, interest int) {
	other := d.Other(p.ID)
	cash := p.Cash - d.Cash(p.ID) + d.Cash(other)

	props := make([]*state.Property, 0, 8)
	for _, prop := range gs.OwnedBy(p.ID) {
		if !d.Has(p.ID, AssetProperty, prop.ID) {
			props = append(props, prop)
		}
	}
	for _, a := range d.Assets[other] {
		if a.Kind != AssetProperty {
			continue
		}
		prop, err := gs.Config.Property(a.ID)
		if err != nil {
			continue
		}
		props = append(props, prop)
		if prop.Mortgaged {
			interest += wealth.MortgageInterest(gs.Config, prop)
		}
	}
	return wealth.CalculateLiquidity(gs, props, &state.Player{Cash: cash}), interest
}

// Received is a mortgaged property that changed hands in a settled trade.
type Received struct {
	Owner    *state.Player
	Property *state.Property
}

// Execute settles an accepted trade in one step: cash moves, cards change
// hands and properties change owner with both parties' capital rebalanced.
// It returns the mortgaged properties received so the new owners can be
// offered to lift the mortgage.
func Execute(gs *state.GameState, d *Details) ([]Received, error) {
	if d.Status != StatusAccept {
		return nil, fmt.Errorf("trade %s is %s, not %s", d.ID, d.Status, StatusAccept)
	}
	if err := Validate(gs, d); err != nil {
		return nil, err
	}
	for _, id := range d.Parties {
		giver, _ := gs.Player(id)
		for _, a := range d.Assets[id] {
			switch a.Kind {
			case AssetProperty:
				prop, err := gs.Config.Property(a.ID)
				if err != nil {
					return nil, err
				}
				if prop.OwnedBy != giver.ID || property.GroupHasBuildings(gs, prop.Group) {
					return nil, fmt.Errorf("%s cannot trade %s", giver.Name, prop.Name)
				}
			case AssetCard:
				if !holds(giver, a.ID) {
					return nil, fmt.Errorf("%s does not hold card %s", giver.Name, a.ID)
				}
			}
		}
	}

	var received []Received
	for _, id := range d.Parties {
		giver, _ := gs.Player(id)
		receiver, _ := gs.Player(d.Other(id))
		for _, a := range d.Assets[id] {
			switch a.Kind {
			case AssetCash:
				wealth.Exchange(giver, receiver, a.Amount)
			case AssetCard:
				card, _ := giver.RemoveCard(a.ID)
				receiver.Cards = append(receiver.Cards, card)
			case AssetProperty:
				prop := gs.Config.MustProperty(a.ID)
				property.Transfer(gs, prop, receiver)
				if prop.Mortgaged {
					received = append(received, Received{Owner: receiver, Property: prop})
				}
			}
		}
	}
	return received, nil
}

func holds(p *state.Player, cardID string) bool {
	for _, c := range p.Cards {
		if c.ID == cardID {
			return true
		}
	}
	return false
}

package game

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/tabletop-go/monopoly/internal/game/auction"
	"github.com/tabletop-go/monopoly/internal/game/property"
	"github.com/tabletop-go/monopoly/internal/game/rules"
	"github.com/tabletop-go/monopoly/internal/game/state"
	"github.com/tabletop-go/monopoly/internal/game/wealth"
)

// targetProperty returns the property an event names, or the tile the current
// player occupies. Naming a tile that does not exist is a defect.
func targetProperty(gs *state.GameState, evt rules.Event) *state.Property {
	if evt.TargetID == "" {
		return gs.CurrentTile
	}
	prop, err := property.ByID(gs, evt.TargetID)
	if err != nil {
		panic(err)
	}
	return prop
}

// offerPurchase lets the player buy the unowned property they landed on. A
// player who declines, or could not raise the price, sends it to auction.
func offerPurchase(ctx *Context, gs *state.GameState, evt rules.Event) {
	p := actor(gs, evt)
	prop := targetProperty(gs, evt)
	liquidity := property.Liquidity(gs, p)
	if liquidity >= prop.Price &&
		ctx.UI.PromptConfirm(fmt.Sprintf("%s, buy %s for %d? (cash %d)", p.Name, prop.Name, prop.Price, p.Cash)) {
		ctx.Notify(rules.Event{Type: rules.EventBuyProperty, PlayerID: p.ID, TargetID: prop.ID, Amount: prop.Price})
		return
	}
	ctx.Notify(rules.NewEventWithTarget(rules.EventAuction, p.ID, prop.ID))
}

// buyProperty charges the buyer and hands over the property once paid. The
// price is evt.Amount, or the list price when none is given.
func buyProperty(ctx *Context, gs *state.GameState, evt rules.Event) {
	p := actor(gs, evt)
	prop := targetProperty(gs, evt)
	if prop == nil || !prop.Ownable() || prop.IsOwned() {
		return
	}
	price := evt.Amount
	if price <= 0 {
		price = prop.Price
	}
	if !charge(ctx, gs, p, state.Unowned, price, "purchase of "+prop.Name, 0) || prop.IsOwned() {
		return
	}
	prop.OwnedBy = p.ID
	p.Assets += wealth.BookValue(gs.Config, prop)
	ctx.UI.Bought(p, prop, price)
	ctx.Notify(rules.NewSettledEvent(rules.EventBuyProperty, p.ID, prop.ID, price))
	ctx.Logger.Debug("property bought",
		zap.String("player_id", p.ID),
		zap.String("property_id", prop.ID),
		zap.Int("price", price),
		zap.String("via", evt.Data),
	)
}

// offerAuctionUnmortgage lets the winner of a mortgaged property at auction
// lift the mortgage without interest.
func offerAuctionUnmortgage(ctx *Context, gs *state.GameState, evt rules.Event) {
	if evt.Data != rules.DataAuction {
		return
	}
	p := actor(gs, evt)
	prop := targetProperty(gs, evt)
	if prop.OwnedBy != p.ID || !property.CanUnmortgage(gs, prop, true) {
		return
	}
	cost := property.UnmortgageCost(gs, prop, true)
	if !ctx.UI.PromptConfirm(fmt.Sprintf("%s, lift the mortgage on %s for %d?", p.Name, prop.Name, cost)) {
		return
	}
	if property.Unmortgage(gs, prop, true) {
		ctx.UI.PropertyManaged(p, prop, string(property.ManageUnmortgage))
	}
}

// auctionProperty auctions an unowned property among the solvent players,
// starting with the current player. A property nobody can bid on stays with
// the bank.
func auctionProperty(ctx *Context, gs *state.GameState, evt rules.Event) {
	prop := targetProperty(gs, evt)
	if prop == nil || !prop.Ownable() || prop.IsOwned() {
		return
	}
	base := gs.Config.MinimumAuctionPrice
	bidders := make([]auction.Bidder, 0, len(gs.Players))
	for _, p := range seatingFromCurrent(gs) {
		bidders = append(bidders, auction.Bidder{
			Player:  p,
			Ceiling: property.Liquidity(gs, p),
		})
	}

	result, err := auction.Run(ctx.UI, auction.Eligible(bidders, base), prop, base)
	if errors.Is(err, auction.ErrNoEligibleBidders) {
		ctx.UI.Message(fmt.Sprintf("Nobody can bid on %s; it stays with the bank", prop.Name))
		return
	}
	if err != nil {
		panic(err)
	}
	ctx.Notify(rules.Event{
		Type:     rules.EventBuyProperty,
		PlayerID: result.Buyer.ID,
		TargetID: prop.ID,
		Amount:   result.Price,
		Data:     rules.DataAuction,
	})
	if prop.OwnedBy == result.Buyer.ID {
		ctx.Notify(rules.NewSettledEvent(rules.EventAuction, result.Buyer.ID, prop.ID, result.Price))
	}
}

// seatingFromCurrent returns the solvent players in seating order, starting
// with the current player.
func seatingFromCurrent(gs *state.GameState) []*state.Player {
	n := len(gs.Players)
	seated := make([]*state.Player, 0, n)
	for i := 0; i < n; i++ {
		p := gs.Players[(gs.Turn+i)%n]
		if !p.Bankrupt {
			seated = append(seated, p)
		}
	}
	return seated
}

func payRent(ctx *Context, gs *state.GameState, evt rules.Event) {
	p := actor(gs, evt)
	prop := targetProperty(gs, evt)
	owner, err := gs.Player(prop.OwnedBy)
	if err != nil || owner.ID == p.ID {
		return
	}
	rent := property.CalculateRent(gs, prop)
	if rent <= 0 {
		return
	}
	if charge(ctx, gs, p, owner.ID, rent, "rent for "+prop.Name, 0) {
		ctx.UI.PaidRent(p, owner, prop, rent)
		ctx.Notify(rules.NewSettledEvent(rules.EventPayRent, p.ID, prop.ID, rent))
	}
}

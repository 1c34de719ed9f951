package game

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/tabletop-go/monopoly/internal/game/deck"
	"github.com/tabletop-go/monopoly/internal/game/property"
	"github.com/tabletop-go/monopoly/internal/game/rules"
	"github.com/tabletop-go/monopoly/internal/game/state"
	"github.com/tabletop-go/monopoly/internal/game/wealth"
)

// charge makes debtor pay amount to the creditor, or to the bank when
// creditorID is state.Unowned. assetValue is capital the debtor gains once the
// charge is paid. When cash does not cover the amount the charge becomes the
// pending sub-turn and is resolved through collections, which ends either in
// payment or in the debtor's bankruptcy. Cash never goes negative.
//
// It reports whether the charge was paid.
func charge(ctx *Context, gs *state.GameState, debtor *state.Player, creditorID string, amount int, reason string, assetValue int) bool {
	if debtor.Bankrupt {
		return false
	}
	c := &state.Charge{
		DebtorID:   debtor.ID,
		CreditorID: creditorID,
		Amount:     amount,
		AssetValue: assetValue,
		Reason:     reason,
	}
	if debtor.Cash >= amount {
		settle(ctx, gs, c)
		return true
	}

	previous := gs.SubTurn
	gs.SubTurn = c
	defer func() { gs.SubTurn = previous }()

	ctx.Logger.Debug("charge sent to collections",
		zap.String("player_id", debtor.ID),
		zap.String("creditor_id", creditorID),
		zap.Int("amount", amount),
		zap.Int("cash", debtor.Cash),
		zap.String("reason", reason),
	)
	ctx.Notify(rules.Event{
		Type:     rules.EventCollections,
		PlayerID: debtor.ID,
		TargetID: creditorID,
		Amount:   amount,
		Data:     reason,
	})
	return !debtor.Bankrupt
}

// settle pays a charge the debtor's cash covers.
func settle(ctx *Context, gs *state.GameState, c *state.Charge) {
	debtor, err := gs.Player(c.DebtorID)
	if err != nil {
		panic(err)
	}
	if c.Amount > 0 {
		if creditor := creditorOf(gs, c.CreditorID); creditor != nil {
			wealth.Exchange(debtor, creditor, c.Amount)
			ctx.UI.Received(creditor, c.Amount, c.Reason)
		} else {
			wealth.Decrement(debtor, c.Amount)
		}
		ctx.UI.Paid(debtor, c.Amount, c.Reason)
	}
	debtor.Assets += c.AssetValue
}

// creditorOf returns the solvent player behind a creditor ID, or nil for the bank.
func creditorOf(gs *state.GameState, id string) *state.Player {
	if id == state.Unowned {
		return nil
	}
	p, err := gs.Player(id)
	if err != nil || p.Bankrupt {
		return nil
	}
	return p
}

// collect resolves the pending sub-turn: it pays once cash suffices, offers
// liquidation while raising the difference is still possible and declares
// bankruptcy once it is not.
func collect(ctx *Context, gs *state.GameState, _ rules.Event) {
	c := gs.SubTurn
	if c == nil {
		return
	}
	debtor, err := gs.Player(c.DebtorID)
	if err != nil {
		panic(err)
	}
	for !debtor.Bankrupt {
		if debtor.Cash >= c.Amount {
			settle(ctx, gs, c)
			return
		}
		if property.Liquidity(gs, debtor) < c.Amount {
			ctx.Notify(rules.NewEventWithTarget(rules.EventBankruptcy, debtor.ID, c.CreditorID))
			return
		}
		ctx.Notify(rules.Event{
			Type:     rules.EventLiquidation,
			PlayerID: debtor.ID,
			TargetID: c.CreditorID,
			Amount:   c.Amount - debtor.Cash,
		})
	}
}

// liquidate offers one step towards raising cash for the pending charge.
func liquidate(ctx *Context, gs *state.GameState, evt rules.Event) {
	p := actor(gs, evt)
	actions := make([]state.Action, 0, 4)
	if len(property.ManagementActions(gs, p.ID, true)) > 0 {
		actions = append(actions, state.ActionManageProperties)
	}
	if len(gs.Opponents(p.ID)) > 0 {
		actions = append(actions, state.ActionTrade)
	}
	actions = append(actions, state.ActionPlayerInfo, state.ActionDeclareBankruptcy)

	options := make([]string, 0, len(actions))
	for _, a := range actions {
		options = append(options, string(a))
	}
	choice := ctx.UI.PromptSelect(options,
		fmt.Sprintf("%s, raise %d more to pay %d", p.Name, evt.Amount, gs.SubTurn.Amount))
	if choice < 0 || choice >= len(actions) {
		return
	}
	if actions[choice] == state.ActionDeclareBankruptcy {
		ctx.Notify(rules.NewEventWithTarget(rules.EventBankruptcy, p.ID, evt.TargetID))
		return
	}
	ctx.Notify(rules.NewEvent(actionEvents[actions[choice]], p.ID))
}

func declareBankruptcy(ctx *Context, gs *state.GameState, evt rules.Event) {
	p := actor(gs, evt)
	p.Bankrupt = true
	creditor := creditorOf(gs, evt.TargetID)
	ctx.UI.Bankrupt(p, creditor)
	ctx.Logger.Info("player bankrupt",
		zap.String("player_id", p.ID),
		zap.String("creditor_id", evt.TargetID),
		zap.Int("cash", p.Cash),
	)
}

// settleEstate hands a bankrupt player's estate to the creditor, or returns it
// to the bank for auction.
func settleEstate(ctx *Context, gs *state.GameState, evt rules.Event) {
	p := actor(gs, evt)
	if creditor := creditorOf(gs, evt.TargetID); creditor != nil {
		estateToPlayer(ctx, gs, p, creditor)
	} else {
		estateToBank(ctx, gs, p)
	}
	p.Assets = 0
	wealth.CalculateNetWorth(p)
}

// estateToPlayer sells the buildings back to the bank for the creditor and
// then gives the creditor the cash, cards and properties left.
func estateToPlayer(ctx *Context, gs *state.GameState, p, creditor *state.Player) {
	props := gs.OwnedBy(p.ID)
	for _, prop := range props {
		if removed := property.ClearBuildings(gs, prop); removed > 0 {
			wealth.Increment(creditor, removed*wealth.BuildingRefund(prop))
		}
	}
	if p.Cash > 0 {
		amount := p.Cash
		wealth.Exchange(p, creditor, amount)
		ctx.UI.Received(creditor, amount, "estate of "+p.Name)
	}
	creditor.Cards = append(creditor.Cards, p.Cards...)
	p.Cards = nil

	mortgaged := make([]*state.Property, 0, len(props))
	for _, prop := range props {
		property.Transfer(gs, prop, creditor)
		if prop.Mortgaged {
			mortgaged = append(mortgaged, prop)
		}
	}
	for _, prop := range mortgaged {
		offerReceivedMortgage(ctx, gs, creditor, prop)
	}
}

// estateToBank returns buildings to the supply and cards to their decks, then
// auctions each property among the remaining players. Mortgages stay in place.
func estateToBank(ctx *Context, gs *state.GameState, p *state.Player) {
	props := gs.OwnedBy(p.ID)
	for _, prop := range props {
		property.ClearBuildings(gs, prop)
		property.Transfer(gs, prop, nil)
	}
	for _, card := range p.Cards {
		pile := gs.Decks.Pile(card.Deck)
		pile.Discarded = deck.Discard(pile.Discarded, card)
	}
	p.Cards = nil
	if p.Cash > 0 {
		wealth.Decrement(p, p.Cash)
	}
	for _, prop := range props {
		ctx.Notify(rules.NewEventWithTarget(rules.EventAuction, "", prop.ID))
	}
}

func checkLastPlayer(_ *Context, gs *state.GameState, _ rules.Event) {
	if len(gs.ActivePlayers()) <= 1 {
		gs.GameOver = true
	}
}

// offerReceivedMortgage lets the new owner of a mortgaged property lift the
// mortgage with interest. Declining still costs the interest.
func offerReceivedMortgage(ctx *Context, gs *state.GameState, owner *state.Player, prop *state.Property) {
	if owner.Bankrupt || prop.OwnedBy != owner.ID {
		return
	}
	cost := property.UnmortgageCost(gs, prop, false)
	interest := wealth.MortgageInterest(gs.Config, prop)
	if ctx.UI.PromptConfirm(fmt.Sprintf("%s, lift the mortgage on %s for %d (otherwise pay %d interest)?",
		owner.Name, prop.Name, cost, interest)) {
		if charge(ctx, gs, owner, state.Unowned, cost, "unmortgage "+prop.Name, 0) && prop.OwnedBy == owner.ID {
			prop.Mortgaged = false
			owner.Assets += wealth.MortgageValue(gs.Config, prop)
			ctx.UI.PropertyManaged(owner, prop, string(property.ManageUnmortgage))
		}
		return
	}
	charge(ctx, gs, owner, state.Unowned, interest, "mortgage interest on "+prop.Name, 0)
}

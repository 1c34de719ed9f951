package game

import (
	"fmt"

	"github.com/tabletop-go/monopoly/internal/game/board"
	"github.com/tabletop-go/monopoly/internal/game/rules"
	"github.com/tabletop-go/monopoly/internal/game/state"
	"github.com/tabletop-go/monopoly/internal/game/wealth"
)

// resolveSpecialTile applies the tile the player landed on when it cannot be
// owned. A tile kind the engine does not know means the board is broken.
func resolveSpecialTile(ctx *Context, gs *state.GameState, evt rules.Event) {
	p := actor(gs, evt)
	tile := targetProperty(gs, evt)
	switch tile.Kind {
	case state.TileGo, state.TileJail, state.TileFreeParking:
	case state.TileGoToJail:
		ctx.Notify(rules.NewEvent(rules.EventJail, p.ID))
	case state.TileChance:
		ctx.Notify(rules.Event{Type: rules.EventDrawCard, PlayerID: p.ID, Data: string(state.DeckChance)})
	case state.TileCommunityChest:
		ctx.Notify(rules.Event{Type: rules.EventDrawCard, PlayerID: p.ID, Data: string(state.DeckCommunityChest)})
	case state.TileIncomeTax:
		ctx.Notify(rules.NewEvent(rules.EventIncomeTax, p.ID))
	case state.TileLuxuryTax:
		ctx.Notify(rules.NewEvent(rules.EventLuxuryTax, p.ID))
	default:
		panic(fmt.Errorf("%w: tile %s has unknown kind %q", board.ErrInvalidBoard, tile.ID, tile.Kind))
	}
}

// payIncomeTax charges either the flat tax or a share of the player's net
// worth, whichever the player picks.
func payIncomeTax(ctx *Context, gs *state.GameState, evt rules.Event) {
	p := actor(gs, evt)
	flat := gs.Rules.IncomeTax
	share := wealth.ApplyRate(wealth.CalculateNetWorth(p), gs.Rules.IncomeTaxRate)
	options := []string{
		fmt.Sprintf("Pay %d", flat),
		fmt.Sprintf("Pay %d%% of net worth (%d)", wealth.ApplyRate(100, gs.Rules.IncomeTaxRate), share),
	}
	amount := flat
	if ctx.UI.PromptSelect(options, fmt.Sprintf("%s, income tax", p.Name)) == 1 {
		amount = share
	}
	charge(ctx, gs, p, state.Unowned, amount, "income tax", 0)
}

func payLuxuryTax(ctx *Context, gs *state.GameState, evt rules.Event) {
	charge(ctx, gs, actor(gs, evt), state.Unowned, gs.Rules.LuxuryTax, "luxury tax", 0)
}

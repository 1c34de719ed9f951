package game

import (
	"go.uber.org/zap"

	"github.com/tabletop-go/monopoly/internal/game/deck"
	"github.com/tabletop-go/monopoly/internal/game/property"
	"github.com/tabletop-go/monopoly/internal/game/rules"
	"github.com/tabletop-go/monopoly/internal/game/state"
	"github.com/tabletop-go/monopoly/internal/game/wealth"
)

func rollDice(ctx *Context, gs *state.GameState, evt rules.Event) {
	p := actor(gs, evt)
	gs.TurnValues.Roll = ctx.Dice.Roll(gs.Rules.DiceCount, gs.Rules.DiceFaces)
	gs.TurnValues.Rolled = true
	gs.TurnValues.BonusRoll = false
	ctx.UI.DiceRoll(p, gs.TurnValues.Roll)
}

func routeRoll(ctx *Context, gs *state.GameState, evt rules.Event) {
	p := actor(gs, evt)
	if p.InJail() {
		ctx.Notify(rules.NewEvent(rules.EventJailRoll, p.ID))
		return
	}
	ctx.Notify(rules.NewEvent(rules.EventMoveRoll, p.ID))
}

// jailRoll handles an attempt to roll out of jail. Doubles free the player
// without a bonus roll; running out of attempts forces the fine.
func jailRoll(ctx *Context, gs *state.GameState, evt rules.Event) {
	p := actor(gs, evt)
	total := gs.TurnValues.Total()
	if gs.TurnValues.Doubles() {
		release(ctx, p)
		ctx.Notify(rules.NewEventWithAmount(rules.EventMovePlayer, p.ID, total))
		return
	}
	p.Jailed++
	if p.Jailed < gs.Rules.MaxJailTurns {
		return
	}
	ctx.Notify(rules.NewEvent(rules.EventPayFine, p.ID))
	if !p.Bankrupt {
		ctx.Notify(rules.NewEventWithAmount(rules.EventMovePlayer, p.ID, total))
	}
}

func moveRoll(ctx *Context, gs *state.GameState, evt rules.Event) {
	p := actor(gs, evt)
	tv := &gs.TurnValues
	if tv.Doubles() {
		tv.Speeding++
		if tv.Speeding >= gs.Rules.SpeedingLimit {
			ctx.Notify(rules.NewEvent(rules.EventSpeeding, p.ID))
			return
		}
		tv.BonusRoll = true
	}
	ctx.Notify(rules.NewEventWithAmount(rules.EventMovePlayer, p.ID, tv.Total()))
}

func announceSpeeding(ctx *Context, gs *state.GameState, evt rules.Event) {
	ctx.UI.Speeding(actor(gs, evt))
}

func sendToJail(ctx *Context, gs *state.GameState, evt rules.Event) {
	ctx.Notify(rules.NewEvent(rules.EventJail, actor(gs, evt).ID))
}

// movePlayer advances the player by evt.Amount spaces. Moving forward past the
// end of the board pays the salary; moving backwards never does.
func movePlayer(ctx *Context, gs *state.GameState, evt rules.Event) {
	p := actor(gs, evt)
	size := gs.BoardSize()
	from := p.Position
	p.Position += evt.Amount

	if evt.Amount > 0 && floorDiv(p.Position, size) > floorDiv(from, size) {
		ctx.Notify(rules.NewEventWithAmount(rules.EventPassGo, p.ID, gs.Rules.Salary))
	}

	tile, err := property.ByPosition(gs, p.Position)
	if err != nil {
		panic(err)
	}
	gs.CurrentTile = tile
	ctx.UI.LandedOn(p, tile)
	ctx.Logger.Debug("player moved",
		zap.String("player_id", p.ID),
		zap.Int("spaces", evt.Amount),
		zap.String("tile_id", tile.ID),
	)
}

// resolveTile dispatches on the tile the player landed on.
func resolveTile(ctx *Context, gs *state.GameState, evt rules.Event) {
	p := actor(gs, evt)
	tile := gs.CurrentTile
	if p.Bankrupt || tile == nil {
		return
	}
	switch {
	case !tile.Ownable():
		ctx.Notify(rules.NewEventWithTarget(rules.EventResolveSpecialProperty, p.ID, tile.ID))
	case !tile.IsOwned():
		ctx.Notify(rules.NewEventWithTarget(rules.EventResolveNewProperty, p.ID, tile.ID))
	case tile.OwnedBy != p.ID && !tile.Mortgaged:
		ctx.Notify(rules.NewEventWithTarget(rules.EventPayRent, p.ID, tile.ID))
	}
}

func collectSalary(ctx *Context, gs *state.GameState, evt rules.Event) {
	p := actor(gs, evt)
	wealth.Increment(p, evt.Amount)
	ctx.UI.PassGo(p, evt.Amount)
}

// jailPlayer moves the player onto the jail tile of the current lap. Going to
// jail never passes Go and forfeits any bonus roll.
func jailPlayer(ctx *Context, gs *state.GameState, evt rules.Event) {
	p := actor(gs, evt)
	jail, err := gs.Config.FirstOfKind(state.TileJail)
	if err != nil {
		panic(err)
	}
	size := gs.BoardSize()
	p.Position = floorDiv(p.Position, size)*size + jail.Position
	p.Jailed = 0
	gs.TurnValues.BonusRoll = false
	gs.CurrentTile = jail
	ctx.UI.Jailed(p)
}

func payFine(ctx *Context, gs *state.GameState, evt rules.Event) {
	p := actor(gs, evt)
	if !charge(ctx, gs, p, state.Unowned, gs.Rules.JailFine, "jail fine", 0) {
		return
	}
	release(ctx, p)
}

// useCard spends a held "get out of jail free" card, returning it to the
// discard pile of its deck.
func useCard(ctx *Context, gs *state.GameState, evt rules.Event) {
	p := actor(gs, evt)
	card := p.TakeCard()
	if card == nil {
		return
	}
	pile := gs.Decks.Pile(card.Deck)
	pile.Discarded = deck.Discard(pile.Discarded, card)
	release(ctx, p)
}

func release(ctx *Context, p *state.Player) {
	p.Jailed = state.NotJailed
	ctx.UI.Released(p)
}

func floorDiv(a, b int) int {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}

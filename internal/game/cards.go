package game

import (
	"fmt"

	"github.com/tabletop-go/monopoly/internal/game/board"
	"github.com/tabletop-go/monopoly/internal/game/deck"
	"github.com/tabletop-go/monopoly/internal/game/property"
	"github.com/tabletop-go/monopoly/internal/game/rules"
	"github.com/tabletop-go/monopoly/internal/game/state"
	"github.com/tabletop-go/monopoly/internal/game/wealth"
)

// drawCard draws from the deck named by evt.Data. Every card but "get out of
// jail free" goes straight to the discard pile.
func drawCard(ctx *Context, gs *state.GameState, evt rules.Event) {
	p := actor(gs, evt)
	pile := gs.Decks.Pile(state.DeckKind(evt.Data))
	card := deck.DrawFrom(pile, ctx.Rand)
	gs.TurnValues.Card = card
	if card == nil {
		ctx.UI.Message(fmt.Sprintf("The %s deck is empty", evt.Data))
		return
	}
	ctx.UI.CardDrawn(p, card)
	if card.Action != state.CardGetOutOfJail {
		pile.Discarded = deck.Discard(pile.Discarded, card)
	}
}

// applyCard carries out the card drawn by drawCard.
func applyCard(ctx *Context, gs *state.GameState, evt rules.Event) {
	p := actor(gs, evt)
	card := gs.TurnValues.Card
	if card == nil {
		return
	}
	switch card.Action {
	case state.CardMove:
		ctx.Notify(rules.NewEventWithAmount(rules.EventMovePlayer, p.ID, cardSpaces(gs, p, card)))
	case state.CardMoveNearest:
		target := property.NearestOfGroup(gs, p.Tile(gs.BoardSize()), card.Group)
		if target == nil {
			panic(fmt.Errorf("%w: card %s names group %s with no tile", board.ErrInvalidBoard, card.ID, card.Group))
		}
		gs.TurnValues.RentMultiplier = card.RentMultiplier
		ctx.Notify(rules.NewEventWithAmount(rules.EventMovePlayer, p.ID, spacesTo(gs, p, target)))
		gs.TurnValues.RentMultiplier = 0
	case state.CardAddFunds:
		wealth.Increment(p, card.Amount)
		ctx.UI.Received(p, card.Amount, card.Text)
	case state.CardRemoveFunds:
		charge(ctx, gs, p, state.Unowned, card.Amount, card.Text, 0)
	case state.CardSendToJail:
		ctx.Notify(rules.NewEvent(rules.EventJail, p.ID))
	case state.CardChargePerBuilding:
		houses, hotels := property.BuildingCounts(gs, p.ID)
		if amount := houses*card.HouseCharge + hotels*card.HotelCharge; amount > 0 {
			charge(ctx, gs, p, state.Unowned, amount, card.Text, 0)
		}
	case state.CardCollectFromAll:
		for _, other := range gs.Opponents(p.ID) {
			charge(ctx, gs, other, p.ID, card.Amount, card.Text, 0)
		}
	case state.CardPayAll:
		for _, other := range gs.Opponents(p.ID) {
			if !charge(ctx, gs, p, other.ID, card.Amount, card.Text, 0) {
				break
			}
		}
	case state.CardGetOutOfJail:
		p.Cards = append(p.Cards, card)
	default:
		panic(fmt.Errorf("%w: card %s has unknown action %q", board.ErrInvalidBoard, card.ID, card.Action))
	}
}

// cardSpaces is how far a move card takes the player: forward to its target
// tile, or by its relative spaces.
func cardSpaces(gs *state.GameState, p *state.Player, card *state.Card) int {
	if card.Tile == "" {
		return card.Spaces
	}
	target, err := property.ByID(gs, card.Tile)
	if err != nil {
		panic(fmt.Errorf("%w: card %s: %v", board.ErrInvalidBoard, card.ID, err))
	}
	return spacesTo(gs, p, target)
}

// spacesTo counts the spaces forward from the player's tile to target. Landing
// back on the same tile is a full lap.
func spacesTo(gs *state.GameState, p *state.Player, target *state.Property) int {
	size := gs.BoardSize()
	spaces := (target.Position - p.Tile(size) + size) % size
	if spaces == 0 {
		spaces = size
	}
	return spaces
}

package game

import (
	"github.com/tabletop-go/monopoly/internal/game/rules"
	"github.com/tabletop-go/monopoly/internal/game/state"
)

// Handlers returns the handler table of the turn pipeline. The table is fixed;
// callers get a fresh copy so registering it never shares slices.
func Handlers() Registry {
	return Registry{
		rules.EventStartGame:    {announceGame, determinePlayOrder, shuffleDecks, beginFirstTurn},
		rules.EventStartTurn:    {resetTurn, announceTurn, continueTurn},
		rules.EventContinueTurn: {computeActions, chooseAction},
		rules.EventEndTurn:      {endTurn},
		rules.EventEndGame:      {finishGame},
		rules.EventPlayerInfo:   {showPlayerInfo},

		rules.EventRollDice:   {rollDice, routeRoll},
		rules.EventJailRoll:   {jailRoll},
		rules.EventMoveRoll:   {moveRoll},
		rules.EventSpeeding:   {announceSpeeding, sendToJail},
		rules.EventMovePlayer: {movePlayer, resolveTile},
		rules.EventPassGo:     {collectSalary},

		rules.EventJail:    {jailPlayer},
		rules.EventPayFine: {payFine},
		rules.EventUseCard: {useCard},

		rules.EventResolveNewProperty:     {offerPurchase},
		rules.EventBuyProperty:            {buyProperty, offerAuctionUnmortgage},
		rules.EventAuction:                {auctionProperty},
		rules.EventPayRent:                {payRent},
		rules.EventResolveSpecialProperty: {resolveSpecialTile},
		rules.EventIncomeTax:              {payIncomeTax},
		rules.EventLuxuryTax:              {payLuxuryTax},
		rules.EventDrawCard:               {drawCard, applyCard},

		rules.EventManageProperties: {manageProperties},
		rules.EventRenovate:         {renovate},
		rules.EventDemolish:         {demolish},
		rules.EventMortgage:         {mortgage},
		rules.EventUnmortgage:       {unmortgage},
		rules.EventTrade:            {tradeWithPlayer},

		rules.EventCollections: {collect},
		rules.EventLiquidation: {liquidate},
		rules.EventBankruptcy:  {declareBankruptcy, settleEstate, checkLastPlayer},
	}
}

// Register subscribes every handler list on the context's bus, in table order
// per event, and returns the registered table.
func Register(ctx *Context, gs *state.GameState) Registry {
	registry := Handlers()
	for _, eventType := range rules.AllEventTypes {
		for _, h := range registry[eventType] {
			handler := h
			ctx.bus.SubscribeTyped(eventType, func(evt rules.Event) {
				handler(ctx, gs, evt)
			})
		}
	}
	return registry
}

// Bootstrap registers the pipeline and starts the game. It returns once the
// game has ended or nothing more is queued.
func Bootstrap(ctx *Context, gs *state.GameState) Registry {
	registry := Register(ctx, gs)
	ctx.Next(rules.NewEvent(rules.EventStartGame, ""))
	return registry
}

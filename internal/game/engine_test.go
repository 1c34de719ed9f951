package game

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/tabletop-go/monopoly/internal/game/board"
	"github.com/tabletop-go/monopoly/internal/game/gametest"
	"github.com/tabletop-go/monopoly/internal/game/rules"
	"github.com/tabletop-go/monopoly/internal/game/state"
	"github.com/tabletop-go/monopoly/internal/game/trade"
	"github.com/tabletop-go/monopoly/internal/game/watchers"
)

type harness struct {
	gs    *state.GameState
	ui    *gametest.ScriptedUI
	dice  *gametest.ScriptedDice
	bus   *rules.EventBus
	ctx   *Context
	stats *watchers.Stats
	seen  []rules.EventType
}

// newHarness registers the pipeline for Ada and Bo without starting the game,
// so tests can emit single events and inspect what cascades from them.
func newHarness(t *testing.T, rolls ...[]int) *harness {
	t.Helper()
	return newHarnessFor(t, gametest.NewState(t, "Ada", "Bo"), rolls...)
}

func newHarnessFor(t *testing.T, gs *state.GameState, rolls ...[]int) *harness {
	t.Helper()
	logger := zaptest.NewLogger(t)
	h := &harness{
		gs:    gs,
		ui:    gametest.NewScriptedUI(t),
		dice:  gametest.NewScriptedDice(t, rolls...),
		bus:   rules.NewEventBus(logger),
		stats: watchers.NewStats(),
	}
	h.ctx = NewContext(h.bus, h.ui, h.dice, rand.New(rand.NewPCG(1, 2)), logger)
	h.ctx.Watchers = rules.NewWatcherRegistry()
	h.stats.Register(h.ctx.Watchers)
	h.ctx.Watchers.Attach(h.bus)
	Register(h.ctx, h.gs)
	h.bus.Subscribe(func(evt rules.Event) { h.seen = append(h.seen, evt.Type) })
	return h
}

func (h *harness) count(eventType rules.EventType) int {
	n := 0
	for _, seen := range h.seen {
		if seen == eventType {
			n++
		}
	}
	return n
}

func TestEveryEventHasHandlers(t *testing.T) {
	h := newHarness(t)
	registry := Handlers()
	require.Len(t, registry, len(rules.AllEventTypes))
	for _, eventType := range rules.AllEventTypes {
		assert.NotEmpty(t, registry[eventType], eventType)
		assert.Equal(t, len(registry[eventType]), h.bus.Listeners(eventType), eventType)
	}
}

func TestJailEscalationForcesFine(t *testing.T) {
	h := newHarness(t, []int{4, 6}, []int{4, 6}, []int{4, 6})
	ada := h.gs.Players[0]
	ada.Position = 10
	ada.Jailed = 0

	for attempt := 1; attempt <= 2; attempt++ {
		h.gs.ResetTurnValues()
		h.ctx.Notify(rules.NewEvent(rules.EventRollDice, ada.ID))
		assert.Equal(t, attempt, ada.Jailed)
		assert.Zero(t, h.count(rules.EventPayFine))
		assert.Zero(t, h.count(rules.EventMovePlayer))
	}

	h.gs.ResetTurnValues()
	h.ctx.Notify(rules.NewEvent(rules.EventRollDice, ada.ID))

	assert.Equal(t, 1, h.count(rules.EventPayFine))
	assert.False(t, ada.InJail())
	assert.Equal(t, 1450, ada.Cash)
	assert.Equal(t, 20, ada.Position, "moves by the third roll after paying")
	assert.Equal(t, "free-parking", h.gs.CurrentTile.ID)
}

func TestJailDoublesReleaseWithoutBonusRoll(t *testing.T) {
	h := newHarness(t, []int{3, 3})
	h.ui.Confirms(true)
	ada := h.gs.Players[0]
	ada.Position = 10
	ada.Jailed = 1

	h.ctx.Notify(rules.NewEvent(rules.EventRollDice, ada.ID))

	assert.False(t, ada.InJail())
	assert.False(t, h.gs.TurnValues.BonusRoll)
	assert.Equal(t, "st-james-place", h.gs.CurrentTile.ID)
	assert.Equal(t, ada.ID, h.gs.Config.MustProperty("st-james-place").OwnedBy)
	assert.Equal(t, 1320, ada.Cash)
	assert.Equal(t, 180, ada.Assets)
}

func TestSpeedingSendsToJail(t *testing.T) {
	h := newHarness(t, []int{5, 5}, []int{5, 5}, []int{5, 5})
	ada := h.gs.Players[0]

	for i := 0; i < 3; i++ {
		h.ctx.Notify(rules.NewEvent(rules.EventRollDice, ada.ID))
	}

	require.GreaterOrEqual(t, len(h.seen), 4)
	assert.Equal(t,
		[]rules.EventType{rules.EventRollDice, rules.EventMoveRoll, rules.EventSpeeding, rules.EventJail},
		h.seen[len(h.seen)-4:])
	assert.Equal(t, 2, h.count(rules.EventMovePlayer), "the third roll does not move")
	assert.True(t, ada.InJail())
	assert.Equal(t, 10, ada.Tile(h.gs.BoardSize()))
	assert.False(t, h.gs.TurnValues.BonusRoll)
	assert.Equal(t, 1500, ada.Cash, "going to jail never passes Go")
}

func TestBankruptWithoutLiquidity(t *testing.T) {
	h := newHarness(t)
	ada := h.gs.Players[0]
	ada.Cash = 0
	ada.Jailed = 0

	h.ctx.Notify(rules.NewEvent(rules.EventPayFine, ada.ID))

	assert.Equal(t, []rules.EventType{rules.EventPayFine, rules.EventCollections, rules.EventBankruptcy}, h.seen)
	assert.True(t, ada.Bankrupt)
	assert.Zero(t, ada.Cash)
	assert.True(t, h.gs.GameOver)
	assert.Nil(t, h.gs.SubTurn)
}

func TestLiquidationRaisesCash(t *testing.T) {
	h := newHarness(t)
	ada := h.gs.Players[0]
	gametest.Give(t, h.gs, ada, "mediterranean-avenue", "baltic-avenue")
	ada.Cash = 10
	ada.Jailed = 0
	h.ui.Selects(
		"MANAGE_PROPERTIES", "MORTGAGE", "Baltic Avenue",
		"MANAGE_PROPERTIES", "MORTGAGE", "Mediterranean Avenue",
	)

	h.ctx.Notify(rules.NewEvent(rules.EventPayFine, ada.ID))

	assert.Equal(t, 2, h.count(rules.EventLiquidation))
	assert.Zero(t, h.count(rules.EventBankruptcy))
	assert.Zero(t, h.ui.Remaining())
	assert.False(t, ada.Bankrupt)
	assert.False(t, ada.InJail())
	assert.Equal(t, 20, ada.Cash)
	assert.Equal(t, 60, ada.Assets)
	assert.True(t, h.gs.Config.MustProperty("baltic-avenue").Mortgaged)
	assert.Nil(t, h.gs.SubTurn)
}

func TestBankruptcyToBankAuctionsEstate(t *testing.T) {
	h := newHarness(t)
	ada, bo := h.gs.Players[0], h.gs.Players[1]
	gametest.Give(t, h.gs, ada, "baltic-avenue")
	ada.Cash = 0
	ada.Cards = append(ada.Cards, &state.Card{ID: "chest-jail-free", Deck: state.DeckCommunityChest, Action: state.CardGetOutOfJail})
	discards := len(h.gs.Decks.CommunityChest.Discarded)
	h.ui.Numbers("61")

	h.ctx.Notify(rules.NewEvent(rules.EventLuxuryTax, ada.ID))

	assert.True(t, ada.Bankrupt)
	assert.Zero(t, ada.Assets)
	assert.Empty(t, ada.Cards)
	assert.Len(t, h.gs.Decks.CommunityChest.Discarded, discards+1)
	assert.Equal(t, 1, h.count(rules.EventAuction))

	baltic := h.gs.Config.MustProperty("baltic-avenue")
	assert.Equal(t, bo.ID, baltic.OwnedBy)
	assert.Equal(t, 1439, bo.Cash)
	assert.Equal(t, 60, bo.Assets)
}

func TestBankruptcyToPlayerTransfersEstate(t *testing.T) {
	h := newHarness(t)
	ada, bo := h.gs.Players[0], h.gs.Players[1]
	gametest.Give(t, h.gs, bo, "boardwalk")
	gametest.Give(t, h.gs, ada, "baltic-avenue")
	ada.Cash = 5
	ada.Position = 39

	h.ctx.Notify(rules.NewEventWithTarget(rules.EventPayRent, ada.ID, "boardwalk"))

	assert.Equal(t, 1, h.count(rules.EventBankruptcy))
	assert.Zero(t, h.count(rules.EventLiquidation), "liquidity 35 cannot cover rent 50")
	assert.True(t, ada.Bankrupt)
	assert.Equal(t, bo.ID, h.gs.Config.MustProperty("baltic-avenue").OwnedBy)
	assert.Equal(t, 1505, bo.Cash)
	assert.Equal(t, 460, bo.Assets)
	assert.True(t, h.gs.GameOver)
	assert.Zero(t, h.stats.RentPaid.GetCount(ada.ID), "rent was never paid in full")
}

func TestUnpaidPurchaseIsNotCounted(t *testing.T) {
	h := newHarness(t)
	ada := h.gs.Players[0]
	ada.Cash = 0

	h.ctx.Notify(rules.Event{Type: rules.EventBuyProperty, PlayerID: ada.ID, TargetID: "baltic-avenue", Amount: 60})

	assert.True(t, ada.Bankrupt)
	assert.False(t, h.gs.Config.MustProperty("baltic-avenue").IsOwned())
	assert.Zero(t, h.count(rules.EventSettled))
	assert.Zero(t, h.stats.Purchases.GetCount(ada.ID))
}

func TestHotelsThatCannotBreakAreNotLiquid(t *testing.T) {
	h := newHarness(t)
	ada, bo := h.gs.Players[0], h.gs.Players[1]
	gametest.Give(t, h.gs, bo, "boardwalk")
	gametest.Give(t, h.gs, ada, "mediterranean-avenue", "baltic-avenue")
	h.gs.Config.MustProperty("mediterranean-avenue").Buildings = 5
	h.gs.Config.MustProperty("baltic-avenue").Buildings = 5
	h.gs.Config.Houses = 0
	ada.Cash = 5
	ada.Position = 39

	h.ctx.Notify(rules.NewEventWithTarget(rules.EventPayRent, ada.ID, "boardwalk"))

	assert.Zero(t, h.count(rules.EventLiquidation), "no house supply to break the hotels into")
	assert.Equal(t, 1, h.count(rules.EventBankruptcy))
	assert.True(t, ada.Bankrupt)
	assert.Equal(t, bo.ID, h.gs.Config.MustProperty("baltic-avenue").OwnedBy)
}

func TestPassingGoPaysSalary(t *testing.T) {
	h := newHarness(t)
	ada := h.gs.Players[0]
	ada.Position = 38

	h.ctx.Notify(rules.NewEventWithAmount(rules.EventMovePlayer, ada.ID, 2))
	assert.Equal(t, 1, h.count(rules.EventPassGo))
	assert.Equal(t, 1700, ada.Cash)
	assert.Equal(t, "go", h.gs.CurrentTile.ID)

	// Back three from Mediterranean crosses Go backwards onto the luxury tax.
	ada.Position = 41
	h.ctx.Notify(rules.NewEventWithAmount(rules.EventMovePlayer, ada.ID, -3))
	assert.Equal(t, 1, h.count(rules.EventPassGo), "moving backwards never pays")
	assert.Equal(t, "luxury-tax", h.gs.CurrentTile.ID)
	assert.Equal(t, 1600, ada.Cash)
}

func TestNearestRailroadCardDoublesRent(t *testing.T) {
	h := newHarness(t)
	ada, bo := h.gs.Players[0], h.gs.Players[1]
	gametest.Give(t, h.gs, bo, "pennsylvania-railroad")
	card := &state.Card{ID: "chance-railroad-1", Deck: state.DeckChance, Action: state.CardMoveNearest,
		Group: state.GroupRailroad, RentMultiplier: 2}
	h.gs.Decks.Chance.Available = []*state.Card{card}
	h.gs.Decks.Chance.Discarded = nil
	h.gs.TurnValues.Roll = []int{3, 4}
	ada.Position = 7

	h.ctx.Notify(rules.NewEventWithTarget(rules.EventResolveSpecialProperty, ada.ID, "chance-1"))

	assert.Equal(t, 15, ada.Position)
	assert.Equal(t, 1450, ada.Cash)
	assert.Equal(t, 1550, bo.Cash)
	assert.Zero(t, h.gs.TurnValues.RentMultiplier)
	assert.Equal(t, []*state.Card{card}, h.gs.Decks.Chance.Discarded)
}

func TestJailFreeCardIsKeptAndReturned(t *testing.T) {
	h := newHarness(t)
	ada := h.gs.Players[0]
	card := &state.Card{ID: "chest-jail-free", Deck: state.DeckCommunityChest, Action: state.CardGetOutOfJail}
	h.gs.Decks.CommunityChest.Available = []*state.Card{card}
	h.gs.Decks.CommunityChest.Discarded = nil
	ada.Position = 2

	h.ctx.Notify(rules.NewEventWithTarget(rules.EventResolveSpecialProperty, ada.ID, "community-chest-1"))
	require.Len(t, ada.Cards, 1)
	assert.Empty(t, h.gs.Decks.CommunityChest.Discarded)

	h.ctx.Notify(rules.NewEvent(rules.EventJail, ada.ID))
	assert.Contains(t, AvailableActions(h.gs, ada), state.ActionUseCard)

	h.ctx.Notify(rules.NewEvent(rules.EventUseCard, ada.ID))
	assert.False(t, ada.InJail())
	assert.Empty(t, ada.Cards)
	assert.Equal(t, []*state.Card{card}, h.gs.Decks.CommunityChest.Discarded)
}

func TestIncomeTaxChoice(t *testing.T) {
	h := newHarness(t)
	ada, bo := h.gs.Players[0], h.gs.Players[1]
	h.ui.Selects("Pay 10%")

	h.ctx.Notify(rules.NewEvent(rules.EventIncomeTax, ada.ID))
	assert.Equal(t, 1350, ada.Cash)

	h.ctx.Notify(rules.NewEvent(rules.EventIncomeTax, bo.ID))
	assert.Equal(t, 1300, bo.Cash, "unanswered choice pays the flat tax")
}

func TestTradeOffersUnmortgageOnReceipt(t *testing.T) {
	h := newHarness(t)
	ada, bo := h.gs.Players[0], h.gs.Players[1]
	gametest.Give(t, h.gs, ada, "baltic-avenue")
	h.gs.Config.MustProperty("baltic-avenue").Mortgaged = true
	ada.Assets -= 30
	h.ui.Selects("Bo", "Cash", "Property", "Baltic Avenue").
		Commands(trade.CommandRequest, trade.CommandOffer, trade.CommandConfirm, trade.CommandConfirm).
		Numbers("100").
		Confirms(false)

	h.ctx.Notify(rules.NewEvent(rules.EventTrade, ada.ID))

	baltic := h.gs.Config.MustProperty("baltic-avenue")
	assert.Equal(t, bo.ID, baltic.OwnedBy)
	assert.True(t, baltic.Mortgaged, "declining keeps the mortgage")
	assert.Equal(t, 1600, ada.Cash)
	assert.Equal(t, 1397, bo.Cash, "declining still costs the interest")
	assert.Equal(t, 30, bo.Assets)
	assert.Zero(t, h.ui.Remaining())
	assert.Equal(t, 1, h.stats.TradesCompleted.GetCount(ada.ID))
}

func TestAbandonedTradeIsNotCounted(t *testing.T) {
	h := newHarness(t)
	ada := h.gs.Players[0]

	// no partner chosen
	h.ctx.Notify(rules.NewEvent(rules.EventTrade, ada.ID))

	assert.Equal(t, 1, h.count(rules.EventTrade))
	assert.Zero(t, h.stats.TradesCompleted.GetCount(ada.ID))
}

func TestGameOverRanksBankruptPlayersByElimination(t *testing.T) {
	h := newHarnessFor(t, gametest.NewState(t, "Ada", "Bo", "Cy"))
	ada, bo, cy := h.gs.Players[0], h.gs.Players[1], h.gs.Players[2]

	bo.Cash = 0
	h.ctx.Notify(rules.NewEvent(rules.EventPayFine, bo.ID))
	require.True(t, bo.Bankrupt)
	require.False(t, h.gs.GameOver)

	ada.Cash = 0
	h.ctx.Notify(rules.NewEvent(rules.EventPayFine, ada.ID))
	require.True(t, ada.Bankrupt)

	h.ctx.Notify(rules.NewEvent(rules.EventEndGame, ""))

	assert.Equal(t, cy.ID, h.gs.Winner)
	require.Len(t, h.ui.Standings, 3)
	assert.Equal(t, []string{"Cy", "Ada", "Bo"},
		[]string{h.ui.Standings[0].Name, h.ui.Standings[1].Name, h.ui.Standings[2].Name},
		"the last player to go bankrupt ranks highest among the bankrupt")
}

func TestActorDefaultsToDebtor(t *testing.T) {
	gs := gametest.NewState(t, "Ada", "Bo")
	assert.Equal(t, "Ada", actor(gs, rules.Event{}).Name)

	gs.SubTurn = &state.Charge{DebtorID: gs.Players[1].ID, Amount: 50}
	assert.Equal(t, "Bo", actor(gs, rules.Event{}).Name)
	assert.Equal(t, "Ada", actor(gs, rules.NewEvent(rules.EventPayFine, gs.Players[0].ID)).Name)
}

func TestAvailableActions(t *testing.T) {
	gs := gametest.NewState(t, "Ada", "Bo")
	ada := gs.Players[0]

	assert.Equal(t, []state.Action{state.ActionRollDice, state.ActionTrade, state.ActionPlayerInfo},
		AvailableActions(gs, ada))

	gs.TurnValues.Rolled = true
	assert.Equal(t, state.ActionEndTurn, AvailableActions(gs, ada)[0])

	gs.TurnValues.BonusRoll = true
	assert.Equal(t, state.ActionRollDice, AvailableActions(gs, ada)[0])

	gs.ResetTurnValues()
	ada.Jailed = 0
	assert.Equal(t, []state.Action{state.ActionPayFine, state.ActionRollDice, state.ActionTrade, state.ActionPlayerInfo},
		AvailableActions(gs, ada))

	gametest.Give(t, gs, ada, "baltic-avenue")
	assert.Contains(t, AvailableActions(gs, ada), state.ActionManageProperties)
}

func TestEngineRunsGameToTurnLimit(t *testing.T) {
	gs := gametest.NewState(t, "Ada", "Bo")
	gs.MaxTurns = 6
	ada, bo := gs.Players[0], gs.Players[1]
	u := gametest.NewScriptedUI(t)
	u.ConfirmDefault = true
	dice := gametest.NewScriptedDice(t, []int{1, 2})
	dice.Cycle = true

	engine := NewEngine(zaptest.NewLogger(t), u, dice, rand.New(rand.NewPCG(3, 4)))
	var seen []rules.EventType
	engine.Bus().Subscribe(func(evt rules.Event) { seen = append(seen, evt.Type) })

	require.NoError(t, engine.Run(gs))

	count := func(eventType rules.EventType) int {
		n := 0
		for _, s := range seen {
			if s == eventType {
				n++
			}
		}
		return n
	}
	assert.Equal(t, rules.EventStartGame, seen[0])
	assert.Equal(t, rules.EventEndGame, seen[len(seen)-1])
	assert.Equal(t, 6, count(rules.EventStartTurn))
	assert.Equal(t, 3, count(rules.EventBuyProperty))
	assert.Equal(t, 3, count(rules.EventPayRent))
	assert.Equal(t, 1, count(rules.EventEndGame))

	// Ada buys Baltic, Oriental and Connecticut; Bo pays rent on each.
	assert.Equal(t, 1238, ada.Cash)
	assert.Equal(t, 1482, bo.Cash)
	assert.Equal(t, ada.ID, gs.Winner)
	assert.True(t, gs.GameOver)
	assert.Equal(t, 1, u.Count("GameOver"))

	stats := engine.Stats()
	assert.Equal(t, 3, stats.Turns.GetCount(ada.ID))
	assert.Equal(t, 3, stats.Purchases.GetCount(ada.ID))
	assert.Equal(t, 3, stats.RentPaid.GetCount(bo.ID))
	assert.Len(t, u.Messages, 3, "play order and one summary line per player")

	assert.ErrorIs(t, engine.Run(gs), ErrAlreadyStarted)
}

func TestEngineReportsBrokenBoard(t *testing.T) {
	gs := gametest.NewState(t, "Ada", "Bo")
	gs.Config.MustProperty("community-chest-1").Kind = "bogus"
	u := gametest.NewScriptedUI(t)
	dice := gametest.NewScriptedDice(t, []int{1, 2}, []int{1, 2}, []int{1, 1})

	engine := NewEngine(zaptest.NewLogger(t), u, dice, nil)
	err := engine.Run(gs)

	require.Error(t, err)
	assert.ErrorIs(t, err, board.ErrInvalidBoard)
	assert.Contains(t, err.Error(), string(rules.EventResolveSpecialProperty))
	assert.Zero(t, engine.Bus().Pending())
	assert.Zero(t, engine.Bus().Depth())
}

func TestEngineNeedsTwoPlayers(t *testing.T) {
	gs := gametest.NewState(t, "Ada")
	engine := NewEngine(zaptest.NewLogger(t), gametest.NewScriptedUI(t), gametest.NewScriptedDice(t), nil)
	assert.ErrorIs(t, engine.Run(gs), ErrNotEnoughPlayers)
}

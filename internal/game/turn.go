package game

import (
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/tabletop-go/monopoly/internal/game/deck"
	"github.com/tabletop-go/monopoly/internal/game/dice"
	"github.com/tabletop-go/monopoly/internal/game/property"
	"github.com/tabletop-go/monopoly/internal/game/rules"
	"github.com/tabletop-go/monopoly/internal/game/state"
	"github.com/tabletop-go/monopoly/internal/game/watchers"
	"github.com/tabletop-go/monopoly/internal/game/wealth"
)

// actionEvents maps the turn menu to the event each choice emits.
var actionEvents = map[state.Action]rules.EventType{
	state.ActionRollDice:         rules.EventRollDice,
	state.ActionPayFine:          rules.EventPayFine,
	state.ActionUseCard:          rules.EventUseCard,
	state.ActionManageProperties: rules.EventManageProperties,
	state.ActionTrade:            rules.EventTrade,
	state.ActionPlayerInfo:       rules.EventPlayerInfo,
}

func announceGame(ctx *Context, gs *state.GameState, _ rules.Event) {
	ctx.UI.StartGame(gs.Players)
	ctx.Logger.Info("game started", zap.Int("players", len(gs.Players)))
}

// determinePlayOrder has every player roll once and seats them by descending
// total. Ties keep the original seating.
func determinePlayOrder(ctx *Context, gs *state.GameState, _ rules.Event) {
	totals := make(map[string]int, len(gs.Players))
	for _, p := range gs.Players {
		roll := ctx.Dice.Roll(gs.Rules.DiceCount, gs.Rules.DiceFaces)
		ctx.UI.DiceRoll(p, roll)
		totals[p.ID] = dice.Sum(roll)
	}
	sort.SliceStable(gs.Players, func(i, j int) bool {
		return totals[gs.Players[i].ID] > totals[gs.Players[j].ID]
	})
	gs.Turn = 0
	names := make([]string, 0, len(gs.Players))
	for _, p := range gs.Players {
		names = append(names, p.Name)
	}
	ctx.UI.Message(fmt.Sprintf("Play order: %v", names))
}

func shuffleDecks(ctx *Context, gs *state.GameState, _ rules.Event) {
	deck.ShuffleAll(&gs.Decks, ctx.Rand)
}

func beginFirstTurn(ctx *Context, gs *state.GameState, _ rules.Event) {
	ctx.Next(rules.NewEvent(rules.EventStartTurn, gs.CurrentPlayer().ID))
}

func resetTurn(_ *Context, gs *state.GameState, _ rules.Event) {
	gs.ResetTurnValues()
	p := gs.CurrentPlayer()
	if tile, err := property.ByPosition(gs, p.Position); err == nil {
		gs.CurrentTile = tile
	}
}

func announceTurn(ctx *Context, gs *state.GameState, _ rules.Event) {
	p := gs.CurrentPlayer()
	ctx.UI.StartTurn(p)
	ctx.Logger.Debug("turn started",
		zap.Int("turn", gs.Turn),
		zap.String("player_id", p.ID),
		zap.Int("cash", p.Cash),
	)
}

func continueTurn(ctx *Context, gs *state.GameState, _ rules.Event) {
	ctx.Next(rules.NewEvent(rules.EventContinueTurn, gs.CurrentPlayer().ID))
}

// computeActions refreshes the legal turn menu of the current player.
func computeActions(_ *Context, gs *state.GameState, _ rules.Event) {
	gs.Actions = AvailableActions(gs, gs.CurrentPlayer())
}

// AvailableActions lists what the player may do at this point of their turn.
func AvailableActions(gs *state.GameState, p *state.Player) []state.Action {
	tv := gs.TurnValues
	actions := make([]state.Action, 0, 6)
	switch {
	case p.InJail() && !tv.Rolled:
		actions = append(actions, state.ActionPayFine)
		if len(p.Cards) > 0 {
			actions = append(actions, state.ActionUseCard)
		}
		actions = append(actions, state.ActionRollDice)
	case !tv.Rolled || tv.BonusRoll:
		actions = append(actions, state.ActionRollDice)
	default:
		actions = append(actions, state.ActionEndTurn)
	}
	if len(property.ManagementActions(gs, p.ID, false)) > 0 {
		actions = append(actions, state.ActionManageProperties)
	}
	if len(gs.Opponents(p.ID)) > 0 {
		actions = append(actions, state.ActionTrade)
	}
	return append(actions, state.ActionPlayerInfo)
}

// chooseAction is the decision loop of a turn: it runs the chosen action and
// comes back here until the player ends the turn.
func chooseAction(ctx *Context, gs *state.GameState, _ rules.Event) {
	p := gs.CurrentPlayer()
	options := make([]string, 0, len(gs.Actions))
	for _, a := range gs.Actions {
		options = append(options, string(a))
	}
	choice := ctx.UI.PromptSelect(options, fmt.Sprintf("%s, choose an action", p.Name))
	if choice < 0 || choice >= len(gs.Actions) {
		ctx.Next(rules.NewEvent(rules.EventContinueTurn, p.ID))
		return
	}

	action := gs.Actions[choice]
	if action == state.ActionEndTurn {
		ctx.Notify(rules.NewEvent(rules.EventEndTurn, p.ID))
		return
	}
	ctx.Notify(rules.NewEvent(actionEvents[action], p.ID))

	if p.Bankrupt || gs.GameOver {
		ctx.Notify(rules.NewEvent(rules.EventEndTurn, p.ID))
		return
	}
	ctx.Next(rules.NewEvent(rules.EventContinueTurn, p.ID))
}

func endTurn(ctx *Context, gs *state.GameState, _ rules.Event) {
	p := gs.CurrentPlayer()
	ctx.UI.EndTurn(p)
	if gs.IsGameOver() {
		gs.GameOver = true
		ctx.Next(rules.NewEvent(rules.EventEndGame, ""))
		return
	}
	next := gs.AdvanceTurn()
	ctx.Next(rules.NewEvent(rules.EventStartTurn, next.ID))
}

// finishGame names the winner: the last solvent player, or the richest one
// when the turn limit stopped the game. Bankrupt players follow the solvent
// ones, the last to go bankrupt first.
func finishGame(ctx *Context, gs *state.GameState, _ rules.Event) {
	standings := gs.ActivePlayers()
	for _, p := range standings {
		wealth.CalculateNetWorth(p)
	}
	sort.SliceStable(standings, func(i, j int) bool {
		return standings[i].NetWorth > standings[j].NetWorth
	})

	var winner *state.Player
	if len(standings) > 0 {
		winner = standings[0]
		gs.Winner = winner.ID
	}
	standings = append(standings, eliminated(ctx, gs)...)
	gs.GameOver = true
	ctx.UI.GameOver(winner, standings)
	if winner != nil {
		ctx.Logger.Info("game over",
			zap.String("winner_id", winner.ID),
			zap.Int("net_worth", winner.NetWorth),
			zap.Int("turns", gs.Turn+1),
		)
	}
}

// eliminated lists the bankrupt players, most recent bankruptcy first. Without
// a bankruptcy watcher they are listed in seating order.
func eliminated(ctx *Context, gs *state.GameState) []*state.Player {
	var order []string
	if ctx.Watchers != nil {
		if w, ok := ctx.Watchers.GetWatcher(watchers.KeyBankruptcies).(*watchers.BankruptcyWatcher); ok {
			order = w.Order()
		}
	}

	out := make([]*state.Player, 0, len(gs.Players))
	listed := make(map[string]bool)
	for i := len(order) - 1; i >= 0; i-- {
		p, err := gs.Player(order[i])
		if err != nil || !p.Bankrupt || listed[p.ID] {
			continue
		}
		listed[p.ID] = true
		out = append(out, p)
	}
	for _, p := range gs.Players {
		if p.Bankrupt && !listed[p.ID] {
			out = append(out, p)
		}
	}
	return out
}

func showPlayerInfo(ctx *Context, gs *state.GameState, _ rules.Event) {
	for _, p := range gs.Players {
		wealth.CalculateNetWorth(p)
		ctx.UI.PlayerInfo(p, gs.OwnedBy(p.ID))
	}
}

// Package game is the rules engine: it binds every event of a turn to its
// ordered handlers and drives a game from the first roll to the last
// bankruptcy.
package game

import (
	"errors"
	"fmt"
	"math/rand/v2"

	"go.uber.org/zap"

	"github.com/tabletop-go/monopoly/internal/game/dice"
	"github.com/tabletop-go/monopoly/internal/game/rules"
	"github.com/tabletop-go/monopoly/internal/game/state"
	"github.com/tabletop-go/monopoly/internal/game/ui"
	"github.com/tabletop-go/monopoly/internal/game/watchers"
)

var (
	// ErrNotEnoughPlayers is returned when a game is started with fewer than two players.
	ErrNotEnoughPlayers = errors.New("at least two players are required")
	// ErrAlreadyStarted is returned when Run is called twice on one engine.
	ErrAlreadyStarted = errors.New("engine already ran a game")
)

// MinPlayers is the smallest table the engine plays.
const MinPlayers = 2

// Engine runs one game session.
type Engine struct {
	logger   *zap.Logger
	ui       ui.UI
	bus      *rules.EventBus
	ctx      *Context
	watchers *rules.WatcherRegistry
	stats    *watchers.Stats

	current rules.EventType // last event dispatched
	started bool
}

// NewEngine wires an engine around the UI and the dice. A nil roller rolls
// from a time-seeded source, and a nil rng shuffles decks from the roller's
// source when it has one.
func NewEngine(logger *zap.Logger, u ui.UI, roller dice.Roller, rng *rand.Rand) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	if roller == nil {
		roller = dice.NewRandomRoller(0)
	}
	if rng == nil {
		if seeded, ok := roller.(interface{ Rand() *rand.Rand }); ok {
			rng = seeded.Rand()
		}
	}

	bus := rules.NewEventBus(logger)
	e := &Engine{
		logger:   logger,
		ui:       u,
		bus:      bus,
		ctx:      NewContext(bus, u, roller, rng, logger),
		watchers: rules.NewWatcherRegistry(),
		stats:    watchers.NewStats(),
	}
	bus.Subscribe(func(evt rules.Event) { e.current = evt.Type })
	e.stats.Register(e.watchers)
	e.watchers.Attach(bus)
	e.ctx.Watchers = e.watchers
	return e
}

// Bus exposes the event bus so callers can observe the game.
func (e *Engine) Bus() *rules.EventBus {
	return e.bus
}

// Stats returns the statistics gathered so far.
func (e *Engine) Stats() *watchers.Stats {
	return e.stats
}

// Run plays the game to its end. A structural defect raised by a handler, such
// as a card naming a tile the board does not have, aborts the game and is
// returned tagged with the event in flight.
func (e *Engine) Run(gs *state.GameState) (err error) {
	if e.started {
		return ErrAlreadyStarted
	}
	e.started = true
	if len(gs.Players) < MinPlayers {
		return fmt.Errorf("%w: got %d", ErrNotEnoughPlayers, len(gs.Players))
	}

	defer func() {
		if r := recover(); r != nil {
			e.bus.Reset()
			if cause, ok := r.(error); ok {
				err = fmt.Errorf("game aborted during %s: %w", e.current, cause)
			} else {
				err = fmt.Errorf("game aborted during %s: %v", e.current, r)
			}
			e.logger.Error("game aborted",
				zap.String("event", string(e.current)),
				zap.Int("turn", gs.Turn),
				zap.Error(err),
			)
		}
	}()

	e.logger.Info("starting game",
		zap.Int("players", len(gs.Players)),
		zap.Int("max_turns", gs.MaxTurns),
	)
	Bootstrap(e.ctx, gs)

	for _, line := range e.stats.Summary(gs.Players) {
		e.ui.Message(line)
	}
	e.logger.Info("game finished",
		zap.String("winner_id", gs.Winner),
		zap.Int("turns", gs.Turn+1),
		zap.String("checksum", gs.Checksum()),
	)
	return nil
}

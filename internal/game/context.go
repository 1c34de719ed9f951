package game

import (
	"math/rand/v2"

	"go.uber.org/zap"

	"github.com/tabletop-go/monopoly/internal/game/dice"
	"github.com/tabletop-go/monopoly/internal/game/rules"
	"github.com/tabletop-go/monopoly/internal/game/state"
	"github.com/tabletop-go/monopoly/internal/game/ui"
)

// Context is what every handler gets besides the game state: the bus to emit
// on, the player-facing boundary and the sources of randomness.
type Context struct {
	bus    *rules.EventBus
	UI     ui.UI
	Dice   dice.Roller
	Rand   *rand.Rand
	Logger *zap.Logger

	// Watchers observe the bus. Nil when the context runs without statistics.
	Watchers *rules.WatcherRegistry
}

// NewContext wires a handler context. A nil logger discards logs and a nil
// rng falls back to the global source for deck shuffles.
func NewContext(bus *rules.EventBus, u ui.UI, roller dice.Roller, rng *rand.Rand, logger *zap.Logger) *Context {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Context{bus: bus, UI: u, Dice: roller, Rand: rng, Logger: logger}
}

// Notify runs the event's handlers before returning.
func (c *Context) Notify(evt rules.Event) {
	c.bus.Notify(evt)
}

// Next runs the event once the current dispatch has unwound.
func (c *Context) Next(evt rules.Event) {
	c.bus.Next(evt)
}

// Handler reacts to one event. Handlers of the same event run in registration order.
type Handler func(ctx *Context, gs *state.GameState, evt rules.Event)

// Registry binds each event to its ordered handler list.
type Registry map[rules.EventType][]Handler

// actor returns the player an event concerns, defaulting to the debtor of a
// pending charge or else the current player.
func actor(gs *state.GameState, evt rules.Event) *state.Player {
	if evt.PlayerID != "" {
		if p, err := gs.Player(evt.PlayerID); err == nil {
			return p
		}
	}
	return gs.ActingPlayer()
}

package rules

import (
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"
)

// EventType names a step of the turn pipeline.
type EventType string

const (
	// Game lifecycle
	EventStartGame EventType = "START_GAME"
	EventEndGame   EventType = "END_GAME"

	// Turn flow
	EventStartTurn    EventType = "START_TURN"
	EventContinueTurn EventType = "CONTINUE_TURN"
	EventEndTurn      EventType = "END_TURN"
	EventPlayerInfo   EventType = "PLAYER_INFO"

	// Dice and movement
	EventRollDice   EventType = "ROLL_DICE"
	EventJailRoll   EventType = "JAIL_ROLL"
	EventMoveRoll   EventType = "MOVE_ROLL"
	EventSpeeding   EventType = "SPEEDING"
	EventMovePlayer EventType = "MOVE_PLAYER"
	EventPassGo     EventType = "PASS_GO"

	// Jail
	EventJail    EventType = "JAIL"
	EventPayFine EventType = "PAY_FINE"
	EventUseCard EventType = "USE_CARD"

	// Landing
	EventResolveNewProperty     EventType = "RESOLVE_NEW_PROPERTY"
	EventBuyProperty            EventType = "BUY_PROPERTY"
	EventAuction                EventType = "AUCTION"
	EventPayRent                EventType = "PAY_RENT"
	EventResolveSpecialProperty EventType = "RESOLVE_SPECIAL_PROPERTY"
	EventIncomeTax              EventType = "INCOME_TAX"
	EventLuxuryTax              EventType = "LUXURY_TAX"
	EventDrawCard               EventType = "DRAW_CARD"

	// Property management
	EventManageProperties EventType = "MANAGE_PROPERTIES"
	EventRenovate         EventType = "RENOVATE"
	EventDemolish         EventType = "DEMOLISH"
	EventMortgage         EventType = "MORTGAGE"
	EventUnmortgage       EventType = "UNMORTGAGE"
	EventTrade            EventType = "TRADE"

	// Insolvency
	EventCollections EventType = "COLLECTIONS"
	EventLiquidation EventType = "LIQUIDATION"
	EventBankruptcy  EventType = "BANKRUPTCY"

	// EventSettled records that the event named in Data completed: a purchase
	// was paid, rent was paid, an auction was won or a trade was executed. It
	// has no handlers and exists for observers.
	EventSettled EventType = "SETTLED"
)

// AllEventTypes lists every event of the pipeline in catalogue order.
var AllEventTypes = []EventType{
	EventStartGame, EventStartTurn, EventContinueTurn, EventRollDice, EventJailRoll,
	EventMoveRoll, EventSpeeding, EventJail, EventPayFine, EventUseCard, EventMovePlayer,
	EventPassGo, EventResolveNewProperty, EventBuyProperty, EventAuction, EventPayRent,
	EventResolveSpecialProperty, EventIncomeTax, EventLuxuryTax, EventDrawCard,
	EventManageProperties, EventRenovate, EventDemolish, EventMortgage, EventUnmortgage,
	EventTrade, EventPlayerInfo, EventCollections, EventLiquidation, EventBankruptcy,
	EventEndTurn, EventEndGame,
}

// DataAuction marks a BUY_PROPERTY that settles an auction.
const DataAuction = "auction"

// MaxDepth bounds nested synchronous dispatch. A full turn cascade stays well
// below it; exceeding it means two events keep emitting each other.
const MaxDepth = 256

// ErrMaxDepthExceeded is the panic value raised when dispatch nests past MaxDepth.
var ErrMaxDepthExceeded = errors.New("maximum event depth exceeded")

// Event is a single emission on the bus.
type Event struct {
	Type     EventType
	PlayerID string // acting player, when the event concerns one
	TargetID string // property or creditor the event concerns
	Amount   int
	Data     string
	Depth    int // nesting depth at dispatch, filled in by the bus
}

// NewSettledEvent records that an event of the given type completed.
func NewSettledEvent(settled EventType, playerID, targetID string, amount int) Event {
	return Event{Type: EventSettled, PlayerID: playerID, TargetID: targetID, Amount: amount, Data: string(settled)}
}

// NewEvent creates an event for a player.
func NewEvent(eventType EventType, playerID string) Event {
	return Event{Type: eventType, PlayerID: playerID}
}

// NewEventWithTarget creates an event for a player and a property or creditor.
func NewEventWithTarget(eventType EventType, playerID, targetID string) Event {
	return Event{Type: eventType, PlayerID: playerID, TargetID: targetID}
}

// NewEventWithAmount creates an event carrying an amount.
func NewEventWithAmount(eventType EventType, playerID string, amount int) Event {
	return Event{Type: eventType, PlayerID: playerID, Amount: amount}
}

// Listener defines a callback that reacts to incoming events.
type Listener func(Event)

// TypedListener is a callback bound to one event type.
type TypedListener struct {
	Handle    int
	EventType EventType
	Callback  func(Event)
}

// EventBus dispatches events synchronously. Listeners of one type run in the
// order they subscribed. Notify is re-entrant: a listener may emit further
// events and they complete before Notify returns. Next defers an event until
// the outermost dispatch has unwound, so a long chain of turns runs as a loop
// instead of one ever-growing call stack.
type EventBus struct {
	mu             sync.RWMutex
	logger         *zap.Logger
	listeners      map[int]Listener
	observerOrder  []int
	typedListeners map[EventType][]TypedListener
	nextHandle     int

	depth    int
	queue    []Event
	draining bool
}

// NewEventBus constructs a fresh event bus instance.
func NewEventBus(logger *zap.Logger) *EventBus {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EventBus{
		logger:         logger,
		listeners:      make(map[int]Listener),
		typedListeners: make(map[EventType][]TypedListener),
	}
}

// Subscribe registers an observer of every event and returns a handle.
// Observers see an event before its typed listeners run.
func (bus *EventBus) Subscribe(listener Listener) int {
	if listener == nil {
		return -1
	}
	bus.mu.Lock()
	defer bus.mu.Unlock()
	handle := bus.nextHandle
	bus.nextHandle++
	bus.listeners[handle] = listener
	bus.observerOrder = append(bus.observerOrder, handle)
	return handle
}

// SubscribeTyped appends a listener to the ordered list of an event type.
func (bus *EventBus) SubscribeTyped(eventType EventType, callback func(Event)) int {
	if callback == nil {
		return -1
	}
	bus.mu.Lock()
	defer bus.mu.Unlock()
	handle := bus.nextHandle
	bus.nextHandle++
	bus.typedListeners[eventType] = append(bus.typedListeners[eventType], TypedListener{
		Handle:    handle,
		EventType: eventType,
		Callback:  callback,
	})
	return handle
}

// Unsubscribe removes the listener identified by the provided handle.
func (bus *EventBus) Unsubscribe(handle int) {
	bus.mu.Lock()
	defer bus.mu.Unlock()
	if _, ok := bus.listeners[handle]; ok {
		delete(bus.listeners, handle)
		for i, h := range bus.observerOrder {
			if h == handle {
				bus.observerOrder = append(bus.observerOrder[:i:i], bus.observerOrder[i+1:]...)
				break
			}
		}
		return
	}
	for eventType, listeners := range bus.typedListeners {
		for i := range listeners {
			if listeners[i].Handle == handle {
				bus.typedListeners[eventType] = append(listeners[:i:i], listeners[i+1:]...)
				return
			}
		}
	}
}

// Listeners returns how many typed listeners are bound to the event type.
func (bus *EventBus) Listeners(eventType EventType) int {
	bus.mu.RLock()
	defer bus.mu.RUnlock()
	return len(bus.typedListeners[eventType])
}

// Depth returns the current nesting depth of dispatch.
func (bus *EventBus) Depth() int {
	return bus.depth
}

// Notify delivers the event to its listeners before returning.
func (bus *EventBus) Notify(event Event) {
	bus.dispatch(event)
	if bus.depth == 0 && !bus.draining {
		bus.drain()
	}
}

// Next queues the event to run once the current dispatch has unwound. Called
// outside any dispatch it runs immediately.
func (bus *EventBus) Next(event Event) {
	bus.queue = append(bus.queue, event)
	if bus.depth == 0 && !bus.draining {
		bus.drain()
	}
}

// Pending returns the number of queued events.
func (bus *EventBus) Pending() int {
	return len(bus.queue)
}

// Reset drops queued events and the dispatch depth, for use after a dispatch
// was aborted by a panic.
func (bus *EventBus) Reset() {
	bus.queue = nil
	bus.depth = 0
	bus.draining = false
}

func (bus *EventBus) drain() {
	bus.draining = true
	defer func() { bus.draining = false }()
	for len(bus.queue) > 0 {
		event := bus.queue[0]
		bus.queue = bus.queue[1:]
		bus.dispatch(event)
	}
}

func (bus *EventBus) dispatch(event Event) {
	if bus.depth >= MaxDepth {
		panic(fmt.Errorf("%w: %s at depth %d", ErrMaxDepthExceeded, event.Type, bus.depth))
	}
	bus.depth++
	defer func() { bus.depth-- }()
	event.Depth = bus.depth

	bus.mu.RLock()
	observers := make([]Listener, 0, len(bus.observerOrder))
	for _, handle := range bus.observerOrder {
		observers = append(observers, bus.listeners[handle])
	}
	typed := append([]TypedListener(nil), bus.typedListeners[event.Type]...)
	bus.mu.RUnlock()

	if ce := bus.logger.Check(zap.DebugLevel, "dispatch"); ce != nil {
		ce.Write(
			zap.String("event", string(event.Type)),
			zap.String("player_id", event.PlayerID),
			zap.String("target_id", event.TargetID),
			zap.Int("depth", event.Depth),
		)
	}

	for _, observer := range observers {
		observer(event)
	}
	for _, listener := range typed {
		listener.Callback(event)
	}
}

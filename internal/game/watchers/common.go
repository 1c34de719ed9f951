package watchers

import (
	"github.com/tabletop-go/monopoly/internal/game/rules"
)

// Keys of the standard watchers.
const (
	KeyTurns           = "TurnsWatcher"
	KeyPassedGo        = "PassedGoWatcher"
	KeyJailed          = "JailedWatcher"
	KeyRentPaid        = "RentPaidWatcher"
	KeyPurchases       = "PurchasesWatcher"
	KeyAuctionsWon     = "AuctionsWonWatcher"
	KeyTradesCompleted = "TradesCompletedWatcher"
	KeyBankruptcies    = "BankruptcyWatcher"
)

// CountWatcher counts events of one type per acting player.
type CountWatcher struct {
	*rules.BaseWatcher
	eventType rules.EventType
	match     func(rules.Event) bool // optional extra filter
	counts    map[string]int         // playerID -> count
}

func newCountWatcher(key string, eventType rules.EventType, match func(rules.Event) bool) *CountWatcher {
	return &CountWatcher{
		BaseWatcher: rules.NewBaseWatcher(key),
		eventType:   eventType,
		match:       match,
		counts:      make(map[string]int),
	}
}

// settled matches SETTLED events recording the completion of an event of type t.
func settled(t rules.EventType) func(rules.Event) bool {
	return func(e rules.Event) bool {
		return e.Data == string(t)
	}
}

// NewTurnsWatcher counts the turns each player started.
func NewTurnsWatcher() *CountWatcher {
	return newCountWatcher(KeyTurns, rules.EventStartTurn, nil)
}

// NewPassedGoWatcher counts salaries collected.
func NewPassedGoWatcher() *CountWatcher {
	return newCountWatcher(KeyPassedGo, rules.EventPassGo, nil)
}

// NewJailedWatcher counts trips to jail.
func NewJailedWatcher() *CountWatcher {
	return newCountWatcher(KeyJailed, rules.EventJail, nil)
}

// NewRentPaidWatcher counts rents paid in full, by payer.
func NewRentPaidWatcher() *CountWatcher {
	return newCountWatcher(KeyRentPaid, rules.EventSettled, settled(rules.EventPayRent))
}

// NewPurchasesWatcher counts properties bought, at list price or at auction.
func NewPurchasesWatcher() *CountWatcher {
	return newCountWatcher(KeyPurchases, rules.EventSettled, settled(rules.EventBuyProperty))
}

// NewAuctionsWonWatcher counts properties bought at auction.
func NewAuctionsWonWatcher() *CountWatcher {
	return newCountWatcher(KeyAuctionsWon, rules.EventSettled, settled(rules.EventAuction))
}

// NewTradesCompletedWatcher counts executed trades, by the proposing player.
func NewTradesCompletedWatcher() *CountWatcher {
	return newCountWatcher(KeyTradesCompleted, rules.EventSettled, settled(rules.EventTrade))
}

// Watch implements the Watcher interface.
func (w *CountWatcher) Watch(event rules.Event) {
	if event.Type != w.eventType || event.PlayerID == "" {
		return
	}
	if w.match != nil && !w.match(event) {
		return
	}
	w.counts[event.PlayerID]++
}

// GetCount returns the count for a player.
func (w *CountWatcher) GetCount(playerID string) int {
	return w.counts[playerID]
}

// BankruptcyWatcher records the order in which players went bankrupt.
type BankruptcyWatcher struct {
	*rules.BaseWatcher
	order []string
}

// NewBankruptcyWatcher creates a new bankruptcy watcher.
func NewBankruptcyWatcher() *BankruptcyWatcher {
	return &BankruptcyWatcher{BaseWatcher: rules.NewBaseWatcher(KeyBankruptcies)}
}

// Watch implements the Watcher interface.
func (w *BankruptcyWatcher) Watch(event rules.Event) {
	if event.Type != rules.EventBankruptcy || event.PlayerID == "" {
		return
	}
	w.order = append(w.order, event.PlayerID)
}

// Order returns the bankrupt players' IDs, earliest first.
func (w *BankruptcyWatcher) Order() []string {
	return append([]string(nil), w.order...)
}

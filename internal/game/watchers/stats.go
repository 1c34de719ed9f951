// Package watchers keeps running statistics of a game by observing the event bus.
package watchers

import (
	"fmt"

	"github.com/tabletop-go/monopoly/internal/game/rules"
	"github.com/tabletop-go/monopoly/internal/game/state"
)

// Stats bundles the standard watchers of a game.
type Stats struct {
	Turns           *CountWatcher
	PassedGo        *CountWatcher
	Jailed          *CountWatcher
	RentPaid        *CountWatcher
	Purchases       *CountWatcher
	AuctionsWon     *CountWatcher
	TradesCompleted *CountWatcher
	Bankruptcies    *BankruptcyWatcher
}

// NewStats creates the standard watchers.
func NewStats() *Stats {
	return &Stats{
		Turns:           NewTurnsWatcher(),
		PassedGo:        NewPassedGoWatcher(),
		Jailed:          NewJailedWatcher(),
		RentPaid:        NewRentPaidWatcher(),
		Purchases:       NewPurchasesWatcher(),
		AuctionsWon:     NewAuctionsWonWatcher(),
		TradesCompleted: NewTradesCompletedWatcher(),
		Bankruptcies:    NewBankruptcyWatcher(),
	}
}

// Register adds every watcher to the registry.
func (s *Stats) Register(registry *rules.WatcherRegistry) {
	for _, w := range []rules.Watcher{
		s.Turns, s.PassedGo, s.Jailed, s.RentPaid, s.Purchases, s.AuctionsWon, s.TradesCompleted, s.Bankruptcies,
	} {
		registry.AddWatcher(w)
	}
}

// Summary describes each player's game, one line per player in seating order.
func (s *Stats) Summary(players []*state.Player) []string {
	lines := make([]string, 0, len(players))
	for _, p := range players {
		status := "solvent"
		if p.Bankrupt {
			status = "bankrupt"
		}
		lines = append(lines, fmt.Sprintf(
			"%s (%s): %d turns, passed Go %d, jailed %d, paid rent %d, bought %d (%d at auction), completed %d trades",
			p.Name, status,
			s.Turns.GetCount(p.ID),
			s.PassedGo.GetCount(p.ID),
			s.Jailed.GetCount(p.ID),
			s.RentPaid.GetCount(p.ID),
			s.Purchases.GetCount(p.ID),
			s.AuctionsWon.GetCount(p.ID),
			s.TradesCompleted.GetCount(p.ID),
		))
	}
	return lines
}

package watchers

import (
	"strings"
	"testing"

	"github.com/tabletop-go/monopoly/internal/game/rules"
	"github.com/tabletop-go/monopoly/internal/game/state"
)

func TestTurnsWatcher(t *testing.T) {
	watcher := NewTurnsWatcher()

	if watcher.GetKey() != KeyTurns {
		t.Fatalf("unexpected key %q", watcher.GetKey())
	}
	if watcher.GetCount("player1") != 0 {
		t.Fatalf("expected 0 turns, got %d", watcher.GetCount("player1"))
	}

	watcher.Watch(rules.NewEvent(rules.EventStartTurn, "player1"))
	watcher.Watch(rules.NewEvent(rules.EventStartTurn, "player1"))
	watcher.Watch(rules.NewEvent(rules.EventStartTurn, "player2"))
	watcher.Watch(rules.NewEvent(rules.EventEndTurn, "player2"))
	watcher.Watch(rules.NewEvent(rules.EventStartTurn, ""))

	if watcher.GetCount("player1") != 2 {
		t.Fatalf("expected 2 turns for player1, got %d", watcher.GetCount("player1"))
	}
	if watcher.GetCount("player2") != 1 {
		t.Fatalf("expected 1 turn for player2, got %d", watcher.GetCount("player2"))
	}
}

func TestAuctionsWonWatcher(t *testing.T) {
	purchases := NewPurchasesWatcher()
	auctions := NewAuctionsWonWatcher()

	// an auction win settles both the purchase and the auction
	events := []rules.Event{
		rules.NewSettledEvent(rules.EventBuyProperty, "player1", "baltic-avenue", 60),
		rules.NewSettledEvent(rules.EventBuyProperty, "player1", "boardwalk", 120),
		rules.NewSettledEvent(rules.EventAuction, "player1", "boardwalk", 120),
	}
	for _, w := range []*CountWatcher{purchases, auctions} {
		for _, e := range events {
			w.Watch(e)
		}
	}

	if purchases.GetCount("player1") != 2 {
		t.Fatalf("expected 2 purchases, got %d", purchases.GetCount("player1"))
	}
	if auctions.GetCount("player1") != 1 {
		t.Fatalf("expected 1 auction won, got %d", auctions.GetCount("player1"))
	}
}

func TestOutcomeWatchersIgnoreRequests(t *testing.T) {
	purchases := NewPurchasesWatcher()
	rent := NewRentPaidWatcher()
	trades := NewTradesCompletedWatcher()

	for _, e := range []rules.Event{
		rules.NewEventWithTarget(rules.EventBuyProperty, "player1", "baltic-avenue"),
		{Type: rules.EventBuyProperty, PlayerID: "player1", TargetID: "boardwalk", Data: rules.DataAuction},
		rules.NewEventWithTarget(rules.EventPayRent, "player1", "boardwalk"),
		rules.NewEvent(rules.EventTrade, "player1"),
	} {
		purchases.Watch(e)
		rent.Watch(e)
		trades.Watch(e)
	}

	for _, w := range []*CountWatcher{purchases, rent, trades} {
		if got := w.GetCount("player1"); got != 0 {
			t.Fatalf("%s counted %d requests that never settled", w.GetKey(), got)
		}
	}
}

func TestBankruptcyWatcher(t *testing.T) {
	watcher := NewBankruptcyWatcher()

	watcher.Watch(rules.NewEventWithTarget(rules.EventBankruptcy, "player2", ""))
	watcher.Watch(rules.NewEventWithTarget(rules.EventBankruptcy, "player1", "player3"))

	order := watcher.Order()
	if len(order) != 2 || order[0] != "player2" || order[1] != "player1" {
		t.Fatalf("unexpected bankruptcy order %v", order)
	}
	order[0] = "changed"
	if watcher.Order()[0] != "player2" {
		t.Fatal("Order should return a copy")
	}
}

func TestStatsThroughRegistry(t *testing.T) {
	bus := rules.NewEventBus(nil)
	registry := rules.NewWatcherRegistry()
	stats := NewStats()
	stats.Register(registry)
	registry.Attach(bus)

	a := &state.Player{ID: "a", Name: "Ada"}
	b := &state.Player{ID: "b", Name: "Bo", Bankrupt: true}

	bus.Notify(rules.NewEvent(rules.EventStartTurn, a.ID))
	bus.Notify(rules.NewEventWithAmount(rules.EventPassGo, a.ID, 200))
	bus.Notify(rules.NewEvent(rules.EventJail, a.ID))
	bus.Notify(rules.NewEvent(rules.EventTrade, a.ID))
	bus.Notify(rules.NewSettledEvent(rules.EventTrade, a.ID, b.ID, 0))
	bus.Notify(rules.NewEventWithTarget(rules.EventPayRent, b.ID, "boardwalk"))
	bus.Notify(rules.NewSettledEvent(rules.EventPayRent, b.ID, "boardwalk", 50))
	bus.Notify(rules.NewEventWithTarget(rules.EventBankruptcy, b.ID, a.ID))

	if w, ok := registry.GetWatcher(KeyBankruptcies).(*BankruptcyWatcher); !ok || w != stats.Bankruptcies {
		t.Fatal("bankruptcy watcher should be registered under its key")
	}

	lines := stats.Summary([]*state.Player{a, b})
	if len(lines) != 2 {
		t.Fatalf("expected one line per player, got %d", len(lines))
	}
	want := "Ada (solvent): 1 turns, passed Go 1, jailed 1, paid rent 0, bought 0 (0 at auction), completed 1 trades"
	if lines[0] != want {
		t.Fatalf("unexpected summary line:\n got %q\nwant %q", lines[0], want)
	}
	if !strings.HasPrefix(lines[1], "Bo (bankrupt):") || !strings.Contains(lines[1], "paid rent 1") {
		t.Fatalf("unexpected summary line %q", lines[1])
	}
	if got := stats.Bankruptcies.Order(); len(got) != 1 || got[0] != b.ID {
		t.Fatalf("unexpected bankruptcy order %v", got)
	}
}

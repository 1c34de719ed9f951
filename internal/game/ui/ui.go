// Package ui defines the boundary between the rules engine and whatever shows
// the game to people. The engine calls it synchronously: announcements are
// fire-and-forget, prompts block until the player answers.
package ui

import (
	"github.com/tabletop-go/monopoly/internal/game/state"
)

// Cancel is the PromptSelect result when the player backs out.
const Cancel = -1

// Announcer receives notable game events.
type Announcer interface {
	StartGame(players []*state.Player)
	StartTurn(p *state.Player)
	EndTurn(p *state.Player)
	DiceRoll(p *state.Player, roll []int)
	Jailed(p *state.Player)
	Released(p *state.Player)
	Speeding(p *state.Player)
	PassGo(p *state.Player, salary int)
	LandedOn(p *state.Player, tile *state.Property)
	CardDrawn(p *state.Player, card *state.Card)
	Bought(p *state.Player, prop *state.Property, price int)
	PaidRent(from, to *state.Player, prop *state.Property, amount int)
	Paid(p *state.Player, amount int, reason string)
	Received(p *state.Player, amount int, reason string)
	AuctionStart(prop *state.Property, price int)
	AuctionBid(bidder *state.Player, amount int, accepted bool)
	AuctionWon(winner *state.Player, prop *state.Property, price int)
	PropertyManaged(p *state.Player, prop *state.Property, action string)
	TradeStatus(status string, actor *state.Player, summary []string)
	PlayerInfo(p *state.Player, props []*state.Property)
	Bankrupt(p *state.Player, creditor *state.Player)
	GameOver(winner *state.Player, standings []*state.Player)
	Message(msg string)
	Error(err error)
}

// Prompter asks the acting player for decisions.
type Prompter interface {
	Prompt(message string) string
	PromptNumber(message string) (int, error)
	PromptConfirm(message string) bool
	// PromptSelect returns the index of the chosen option, or Cancel.
	PromptSelect(options []string, message string) int
	// PromptCLLoop reads commands until a handler returns true.
	PromptCLLoop(prompt string, commands map[string]func() bool)
}

// UI is the full boundary the engine depends on.
type UI interface {
	Announcer
	Prompter
}

package state

import (
	"strings"

	"github.com/google/uuid"
)

// NotJailed is the Jailed value of a player who is free to move.
const NotJailed = -1

// Player is a participant in a game session.
type Player struct {
	ID       string
	Name     string
	Position int // unbounded; the tile is Position mod board size
	Cash     int
	Assets   int // capital tied up in property and buildings, not spendable
	Jailed   int // NotJailed, or the number of failed attempts to roll out
	Bankrupt bool
	Cards    []*Card // held "get out of jail free" cards
	NetWorth int     // cached Cash + Assets, refreshed by wealth.CalculateNetWorth
}

// NewPlayer creates a free player with a fresh ID and the given starting cash.
func NewPlayer(name string, cash int) *Player {
	return &Player{
		ID:       uuid.NewString(),
		Name:     strings.TrimSpace(name),
		Cash:     cash,
		Jailed:   NotJailed,
		Cards:    make([]*Card, 0, 2),
		NetWorth: cash,
	}
}

// InJail reports whether the player is serving a jail sentence.
func (p *Player) InJail() bool {
	return p.Jailed != NotJailed
}

// Tile returns the board index the player occupies on a board of the given size.
func (p *Player) Tile(boardSize int) int {
	if boardSize <= 0 {
		return 0
	}
	tile := p.Position % boardSize
	if tile < 0 {
		tile += boardSize
	}
	return tile
}

// TakeCard removes and returns the first held card, or nil when the hand is empty.
func (p *Player) TakeCard() *Card {
	if len(p.Cards) == 0 {
		return nil
	}
	card := p.Cards[0]
	p.Cards = append(p.Cards[:0:0], p.Cards[1:]...)
	return card
}

// RemoveCard drops the card with the given ID from the hand.
func (p *Player) RemoveCard(id string) (*Card, bool) {
	for i, card := range p.Cards {
		if card.ID == id {
			p.Cards = append(p.Cards[:i:i], p.Cards[i+1:]...)
			return card, true
		}
	}
	return nil, false
}

package deck

import (
	"fmt"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tabletop-go/monopoly/internal/game/state"
)

func newCards(n int) []*state.Card {
	cards := make([]*state.Card, n)
	for i := range cards {
		cards[i] = &state.Card{ID: fmt.Sprintf("card-%d", i), Deck: state.DeckChance}
	}
	return cards
}

func TestShuffleKeepsCards(t *testing.T) {
	cards := newCards(16)
	seen := make(map[string]bool)
	for _, c := range cards {
		seen[c.ID] = true
	}

	Shuffle(cards, rand.New(rand.NewPCG(1, 2)))

	require.Len(t, cards, 16)
	for _, c := range cards {
		assert.True(t, seen[c.ID], "shuffled card %s should come from the original set", c.ID)
		delete(seen, c.ID)
	}
	assert.Empty(t, seen)
}

func TestDraw(t *testing.T) {
	cards := newCards(3)

	card, rest := Draw(cards)
	require.NotNil(t, card)
	assert.Equal(t, "card-0", card.ID)
	assert.Len(t, rest, 2)

	card, rest = Draw(nil)
	assert.Nil(t, card)
	assert.Empty(t, rest)
}

func TestReplaceAvailableCards(t *testing.T) {
	discarded := newCards(4)

	available, rest := ReplaceAvailableCards(nil, discarded)
	assert.Len(t, available, 4)
	assert.Empty(t, rest)

	// Non-empty draw pile is left alone
	current := newCards(1)
	available, rest = ReplaceAvailableCards(current, discarded)
	assert.Len(t, available, 1)
	assert.Len(t, rest, 4)
}

func TestDeckConservation(t *testing.T) {
	pile := &state.Pile{Available: newCards(16)}
	rng := rand.New(rand.NewPCG(7, 7))
	held := 0

	for i := 0; i < 100; i++ {
		card := DrawFrom(pile, rng)
		require.NotNil(t, card)
		// Every fifth draw is kept by a player, the way a jail card would be
		if i%5 == 0 && held < 2 {
			held++
		} else {
			pile.Discarded = Discard(pile.Discarded, card)
		}
		assert.Equal(t, 16, pile.Size()+held, "draw %d changed the number of cards", i)
	}
}

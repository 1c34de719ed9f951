package deck

import (
	"math/rand/v2"

	"github.com/tabletop-go/monopoly/internal/game/state"
)

// Shuffle permutes the cards in place (Fisher-Yates). A nil source uses the global one.
func Shuffle(cards []*state.Card, rng *rand.Rand) []*state.Card {
	for i := len(cards) - 1; i > 0; i-- {
		var j int
		if rng != nil {
			j = rng.IntN(i + 1)
		} else {
			j = rand.IntN(i + 1)
		}
		cards[i], cards[j] = cards[j], cards[i]
	}
	return cards
}

// Draw removes the first card and returns it with the remaining cards.
// It returns a nil card when the pile is empty.
func Draw(cards []*state.Card) (*state.Card, []*state.Card) {
	if len(cards) == 0 {
		return nil, cards
	}
	return cards[0], cards[1:]
}

// Discard appends the card to the discard list.
func Discard(discarded []*state.Card, card *state.Card) []*state.Card {
	if card == nil {
		return discarded
	}
	return append(discarded, card)
}

// ReplaceAvailableCards turns the discard pile into the draw pile once the draw pile
// is empty. Shuffling the new draw pile is up to the caller.
func ReplaceAvailableCards(available, discarded []*state.Card) ([]*state.Card, []*state.Card) {
	if len(available) > 0 {
		return available, discarded
	}
	return discarded, make([]*state.Card, 0, len(discarded))
}

// DrawFrom draws from a pile, recycling and shuffling the discards when it runs dry.
func DrawFrom(pile *state.Pile, rng *rand.Rand) *state.Card {
	if len(pile.Available) == 0 {
		pile.Available, pile.Discarded = ReplaceAvailableCards(pile.Available, pile.Discarded)
		Shuffle(pile.Available, rng)
	}
	var card *state.Card
	card, pile.Available = Draw(pile.Available)
	return card
}

// ShuffleAll shuffles both draw piles of a session.
func ShuffleAll(decks *state.Decks, rng *rand.Rand) {
	Shuffle(decks.Chance.Available, rng)
	Shuffle(decks.CommunityChest.Available, rng)
}

package state

// DeckKind names one of the two card decks.
type DeckKind string

const (
	DeckChance         DeckKind = "chance"
	DeckCommunityChest DeckKind = "community-chest"
)

// CardAction is the effect a card applies when drawn.
type CardAction string

const (
	CardMove              CardAction = "move"
	CardMoveNearest       CardAction = "move-to-nearest"
	CardAddFunds          CardAction = "add-funds"
	CardRemoveFunds       CardAction = "remove-funds"
	CardSendToJail        CardAction = "send-to-jail"
	CardChargePerBuilding CardAction = "charge-per-building"
	CardCollectFromAll    CardAction = "collect-from-all-players"
	CardPayAll            CardAction = "pay-all-players"
	CardGetOutOfJail      CardAction = "get-out-of-jail-free"
)

// Card is a chance or community chest card.
type Card struct {
	ID             string
	Deck           DeckKind
	Text           string
	Action         CardAction
	Tile           string // target tile ID for CardMove
	Spaces         int    // relative move for CardMove when Tile is empty
	Group          Group  // target group for CardMoveNearest
	Amount         int
	HouseCharge    int
	HotelCharge    int
	RentMultiplier int
}

// Pile is a draw pile plus its discard pile.
type Pile struct {
	Available []*Card
	Discarded []*Card
}

// Size returns the number of cards in the draw and discard piles.
func (p *Pile) Size() int {
	return len(p.Available) + len(p.Discarded)
}

// Decks holds both card decks of a session.
type Decks struct {
	Chance         Pile
	CommunityChest Pile
}

// Pile returns the pile for the given deck kind.
func (d *Decks) Pile(kind DeckKind) *Pile {
	if kind == DeckCommunityChest {
		return &d.CommunityChest
	}
	return &d.Chance
}

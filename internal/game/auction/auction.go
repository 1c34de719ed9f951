// Package auction runs open ascending-bid auctions for a single property.
package auction

import (
	"errors"
	"fmt"

	"github.com/tabletop-go/monopoly/internal/game/state"
	"github.com/tabletop-go/monopoly/internal/game/ui"
)

// ErrNoEligibleBidders is returned when nobody can afford to open the bidding.
var ErrNoEligibleBidders = errors.New("no eligible bidders")

// Bidder is a player invited to an auction with the most they can raise.
type Bidder struct {
	Player  *state.Player
	Ceiling int
}

// Result is the outcome of an auction.
type Result struct {
	Buyer *state.Player
	Price int
}

// Eligible keeps the bidders whose ceiling exceeds the starting price.
func Eligible(bidders []Bidder, start int) []Bidder {
	eligible := make([]Bidder, 0, len(bidders))
	for _, b := range bidders {
		if b.Player != nil && !b.Player.Bankrupt && b.Ceiling > start {
			eligible = append(eligible, b)
		}
	}
	return eligible
}

// Run auctions prop among the bidders starting from base.
//
// Each round asks every remaining bidder in order. A bid that is not a number,
// does not beat the current price or exceeds the bidder's ceiling eliminates
// that bidder; a valid bid makes them the leader. Rounds continue with the
// bidders who bid validly until one is left. When a round ends with nobody left
// the standing leader wins at their last price; with no leader at all the
// auction starts over with every original bidder.
func Run(u ui.UI, bidders []Bidder, prop *state.Property, base int) (Result, error) {
	if len(bidders) == 0 {
		return Result{}, ErrNoEligibleBidders
	}
	u.AuctionStart(prop, base)

	for {
		price := base
		var leader *state.Player
		remaining := append([]Bidder(nil), bidders...)

		for len(remaining) > 0 {
			survivors := make([]Bidder, 0, len(remaining))
			for i := range remaining {
				b := remaining[i]
				bid, err := u.PromptNumber(fmt.Sprintf("%s, bid for %s (current %d, you can raise %d)",
					b.Player.Name, prop.Name, price, b.Ceiling))
				if err != nil || bid <= price || bid > b.Ceiling {
					u.AuctionBid(b.Player, bid, false)
					continue
				}
				u.AuctionBid(b.Player, bid, true)
				price = bid
				survivors = append(survivors, b)
				leader = b.Player
			}

			if len(survivors) == 1 {
				return finish(u, prop, survivors[0].Player, price), nil
			}
			if len(survivors) == 0 && leader != nil {
				return finish(u, prop, leader, price), nil
			}
			remaining = survivors
		}
	}
}

func finish(u ui.UI, prop *state.Property, buyer *state.Player, price int) Result {
	u.AuctionWon(buyer, prop, price)
	return Result{Buyer: buyer, Price: price}
}

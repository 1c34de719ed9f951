package state

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
)

// Checksum computes a deterministic digest of the session.
// Per-turn scratch values and the prompt-facing action list are excluded so two
// states that differ only in what is being asked right now compare equal.
func (gs *GameState) Checksum() string {
	hash := sha256.Sum256(gs.buildDeterministicRepresentation())
	return hex.EncodeToString(hash[:])
}

func (gs *GameState) buildDeterministicRepresentation() []byte {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("GAME:%d|%t|%s\n", gs.Turn, gs.GameOver, gs.Winner))

	for _, p := range gs.Players {
		buf.WriteString(fmt.Sprintf("PLAYER:%s|%s|%d|%d|%d|%d|%t\n",
			p.ID,
			p.Name,
			p.Position,
			p.Cash,
			p.Assets,
			p.Jailed,
			p.Bankrupt,
		))
		cardIDs := make([]string, len(p.Cards))
		for i, card := range p.Cards {
			cardIDs[i] = card.ID
		}
		sort.Strings(cardIDs)
		for _, id := range cardIDs {
			buf.WriteString(fmt.Sprintf("  CARD:%s\n", id))
		}
	}

	if gs.Config != nil {
		buf.WriteString(fmt.Sprintf("SUPPLY:%d|%d\n", gs.Config.Houses, gs.Config.Hotels))
		for _, prop := range gs.Config.Properties {
			if !prop.Ownable() {
				continue
			}
			buf.WriteString(fmt.Sprintf("PROPERTY:%s|%s|%d|%t\n",
				prop.ID,
				prop.OwnedBy,
				prop.Buildings,
				prop.Mortgaged,
			))
		}
	}

	for _, kind := range []DeckKind{DeckChance, DeckCommunityChest} {
		pile := gs.Decks.Pile(kind)
		buf.WriteString(fmt.Sprintf("DECK:%s\n", kind))
		for _, card := range pile.Available {
			buf.WriteString(fmt.Sprintf("  AVAILABLE:%s\n", card.ID))
		}
		for _, card := range pile.Discarded {
			buf.WriteString(fmt.Sprintf("  DISCARDED:%s\n", card.ID))
		}
	}

	if gs.SubTurn != nil {
		buf.WriteString(fmt.Sprintf("SUBTURN:%s|%s|%d|%s\n",
			gs.SubTurn.DebtorID,
			gs.SubTurn.CreditorID,
			gs.SubTurn.Amount,
			gs.SubTurn.Reason,
		))
	}

	return buf.Bytes()
}

package trade

import (
	"fmt"

	"github.com/tabletop-go/monopoly/internal/game/property"
	"github.com/tabletop-go/monopoly/internal/game/state"
	"github.com/tabletop-go/monopoly/internal/game/ui"
)

// Commands understood by the negotiation loop.
const (
	CommandRequest = "request"
	CommandOffer   = "offer"
	CommandSummary = "summary"
	CommandConfirm = "confirm"
	CommandCancel  = "cancel"
)

// Asset categories offered when editing a side of the trade.
const (
	choiceProperty = "Property"
	choiceCard     = "Card"
	choiceCash     = "Cash"
)

type turn struct {
	details *Details
	acting  int
}

type negotiation struct {
	gs       *state.GameState
	ui       ui.UI
	details  *Details
	parties  [2]*state.Player
	acting   int
	modified bool
	history  []turn
	handed   bool // a confirm or cancel ended the current loop
	done     bool
}

// Run negotiates a trade between the initiator and the target. The parties
// take turns editing the trade until one accepts an unchanged offer or the
// initiator cancels. The returned details are ACCEPT or CANCEL; the game state
// is left untouched either way.
func Run(u ui.UI, gs *state.GameState, initiator, target *state.Player) *Details {
	n := &negotiation{
		gs:      gs,
		ui:      u,
		details: NewDetails(initiator.ID, target.ID),
		parties: [2]*state.Player{initiator, target},
	}
	commands := map[string]func() bool{
		CommandRequest: func() bool { return n.edit(n.other()) },
		CommandOffer:   func() bool { return n.edit(n.actor()) },
		CommandSummary: n.summary,
		CommandConfirm: n.confirm,
		CommandCancel:  n.cancel,
	}
	for !n.done {
		n.announce()
		n.handed = false
		u.PromptCLLoop(fmt.Sprintf("%s, trade with %s [request|offer|summary|confirm|cancel]",
			n.actor().Name, n.other().Name), commands)
		if !n.handed {
			// Input ended without a decision.
			n.details.Status = StatusCancel
			n.done = true
		}
	}
	n.announce()
	return n.details
}

func (n *negotiation) actor() *state.Player { return n.parties[n.acting] }
func (n *negotiation) other() *state.Player { return n.parties[1-n.acting] }

func (n *negotiation) announce() {
	n.ui.TradeStatus(string(n.details.Status), n.actor(),
		Summary(n.gs, n.details, n.parties[0], n.parties[1]))
}

func (n *negotiation) summary() bool {
	n.announce()
	return false
}

// edit lets the acting player change what owner gives.
func (n *negotiation) edit(owner *state.Player) bool {
	choice := n.ui.PromptSelect([]string{choiceProperty, choiceCard, choiceCash},
		fmt.Sprintf("What should %s give?", owner.Name))
	switch choice {
	case 0:
		props := property.Tradeable(n.gs, owner.ID)
		options := make([]string, 0, len(props))
		for _, prop := range props {
			options = append(options, optionLabel(prop.Name, n.details.Has(owner.ID, AssetProperty, prop.ID)))
		}
		if i := n.ui.PromptSelect(options, "Toggle a property"); i >= 0 && i < len(props) {
			n.details.Toggle(owner.ID, AssetProperty, props[i].ID)
			n.modified = true
		}
	case 1:
		options := make([]string, 0, len(owner.Cards))
		for _, card := range owner.Cards {
			options = append(options, optionLabel(card.Text, n.details.Has(owner.ID, AssetCard, card.ID)))
		}
		if i := n.ui.PromptSelect(options, "Toggle a card"); i >= 0 && i < len(owner.Cards) {
			n.details.Toggle(owner.ID, AssetCard, owner.Cards[i].ID)
			n.modified = true
		}
	case 2:
		amount, err := n.ui.PromptNumber(fmt.Sprintf("Cash %s gives (0 clears)", owner.Name))
		if err != nil {
			n.ui.Error(fmt.Errorf("invalid amount: %w", err))
			return false
		}
		if n.details.SetCash(owner.ID, amount) {
			n.modified = true
		}
	}
	return false
}

func optionLabel(name string, included bool) string {
	if included {
		return name + " [x]"
	}
	return name
}

// confirm turns a new or changed trade into an offer to the other party, or
// accepts an unchanged offer.
func (n *negotiation) confirm() bool {
	if err := Validate(n.gs, n.details); err != nil {
		n.ui.Error(err)
		return false
	}
	n.handed = true
	if n.details.Status == StatusOffer && !n.modified {
		n.details.Status = StatusAccept
		n.done = true
		return true
	}
	n.history = append(n.history, turn{details: n.details.Clone(), acting: n.acting})
	n.details.Status = StatusOffer
	n.modified = false
	n.acting = 1 - n.acting
	return true
}

// cancel hands the trade back to the previous party as it was before their
// confirmation, or abandons it when nobody has confirmed yet.
func (n *negotiation) cancel() bool {
	n.handed = true
	if len(n.history) == 0 {
		n.details.Status = StatusCancel
		n.done = true
		return true
	}
	last := n.history[len(n.history)-1]
	n.history = n.history[:len(n.history)-1]
	n.details = last.details
	n.details.Status = StatusNew
	n.acting = last.acting
	n.modified = false
	return true
}

package game

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/tabletop-go/monopoly/internal/game/property"
	"github.com/tabletop-go/monopoly/internal/game/rules"
	"github.com/tabletop-go/monopoly/internal/game/state"
	"github.com/tabletop-go/monopoly/internal/game/trade"
)

var managementEvents = map[property.Management]rules.EventType{
	property.ManageRenovate:   rules.EventRenovate,
	property.ManageDemolish:   rules.EventDemolish,
	property.ManageMortgage:   rules.EventMortgage,
	property.ManageUnmortgage: rules.EventUnmortgage,
}

// manageProperties offers the management actions the player has candidates
// for. A player raising cash for a pending charge may only sell.
func manageProperties(ctx *Context, gs *state.GameState, evt rules.Event) {
	p := actor(gs, evt)
	raisingCash := gs.SubTurn != nil && gs.SubTurn.DebtorID == p.ID
	actions := property.ManagementActions(gs, p.ID, raisingCash)
	if len(actions) == 0 {
		return
	}
	options := make([]string, 0, len(actions))
	for _, a := range actions {
		options = append(options, string(a))
	}
	choice := ctx.UI.PromptSelect(options, fmt.Sprintf("%s, manage properties", p.Name))
	if choice < 0 || choice >= len(actions) {
		return
	}
	ctx.Notify(rules.NewEvent(managementEvents[actions[choice]], p.ID))
}

func renovate(ctx *Context, gs *state.GameState, evt rules.Event) {
	manageOne(ctx, gs, evt, property.ManageRenovate)
}

func demolish(ctx *Context, gs *state.GameState, evt rules.Event) {
	manageOne(ctx, gs, evt, property.ManageDemolish)
}

func mortgage(ctx *Context, gs *state.GameState, evt rules.Event) {
	manageOne(ctx, gs, evt, property.ManageMortgage)
}

func unmortgage(ctx *Context, gs *state.GameState, evt rules.Event) {
	manageOne(ctx, gs, evt, property.ManageUnmortgage)
}

// manageOne applies the action to the property named by the event, or to one
// the player picks among the candidates. An ineligible property is left alone.
func manageOne(ctx *Context, gs *state.GameState, evt rules.Event, action property.Management) {
	p := actor(gs, evt)
	var prop *state.Property
	if evt.TargetID != "" {
		prop = targetProperty(gs, evt)
	} else {
		candidates := property.Candidates(gs, p.ID, action)
		options := make([]string, 0, len(candidates))
		for _, c := range candidates {
			options = append(options, fmt.Sprintf("%s (%d buildings)", c.Name, c.Buildings))
		}
		choice := ctx.UI.PromptSelect(options,
			fmt.Sprintf("%s, choose a property to %s", p.Name, strings.ToLower(string(action))))
		if choice < 0 || choice >= len(candidates) {
			return
		}
		prop = candidates[choice]
	}
	if prop.OwnedBy != p.ID || !property.Apply(gs, prop, action) {
		return
	}
	ctx.UI.PropertyManaged(p, prop, string(action))
	ctx.Logger.Debug("property managed",
		zap.String("player_id", p.ID),
		zap.String("property_id", prop.ID),
		zap.String("action", string(action)),
		zap.Int("cash", p.Cash),
	)
}

// tradeWithPlayer negotiates with a chosen opponent and settles the trade when
// it is accepted.
func tradeWithPlayer(ctx *Context, gs *state.GameState, evt rules.Event) {
	p := actor(gs, evt)
	partners := gs.Opponents(p.ID)
	if len(partners) == 0 {
		return
	}
	options := make([]string, 0, len(partners))
	for _, partner := range partners {
		options = append(options, partner.Name)
	}
	choice := ctx.UI.PromptSelect(options, fmt.Sprintf("%s, trade with whom?", p.Name))
	if choice < 0 || choice >= len(partners) {
		return
	}

	details := trade.Run(ctx.UI, gs, p, partners[choice])
	if details.Status != trade.StatusAccept {
		return
	}
	received, err := trade.Execute(gs, details)
	if err != nil {
		ctx.UI.Error(err)
		return
	}
	ctx.Logger.Info("trade settled",
		zap.String("trade_id", details.ID),
		zap.String("player_id", p.ID),
		zap.String("partner_id", partners[choice].ID),
	)
	ctx.Notify(rules.NewSettledEvent(rules.EventTrade, p.ID, partners[choice].ID, 0))
	for _, r := range received {
		offerReceivedMortgage(ctx, gs, r.Owner, r.Property)
	}
}

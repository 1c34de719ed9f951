// Package gametest provides scripted stand-ins for the player and the dice so
// that game flows can be driven deterministically from tests.
package gametest

import (
	"fmt"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tabletop-go/monopoly/internal/game/board"
	"github.com/tabletop-go/monopoly/internal/game/state"
	"github.com/tabletop-go/monopoly/internal/game/ui"
)

// CancelLabel scripts a PromptSelect cancel.
const CancelLabel = "cancel"

// maxLoopCommands bounds a PromptCLLoop that never terminates.
const maxLoopCommands = 1000

// NewState builds a game on the classic board for the named players.
func NewState(t testing.TB, names ...string) *state.GameState {
	t.Helper()
	b, err := board.Default()
	require.NoError(t, err)
	return state.New(names, b.Config, b.Rules, b.Decks)
}

// Give hands the properties to a player, recording their capital.
func Give(t testing.TB, gs *state.GameState, p *state.Player, ids ...string) {
	t.Helper()
	for _, id := range ids {
		prop, err := gs.Config.Property(id)
		require.NoError(t, err)
		prop.OwnedBy = p.ID
		p.Assets += prop.Price
	}
}

// ScriptedUI answers prompts from queues and records every announcement.
// When a queue runs dry it falls back to a passive player: selections pick
// END_TURN, ROLL_DICE or DECLARE_BANKRUPTCY when offered and cancel otherwise,
// confirmations return ConfirmDefault, text prompts return "" and command
// loops send "cancel". An exhausted number queue fails the test.
type ScriptedUI struct {
	t testing.TB

	ConfirmDefault bool

	Calls     []string
	Messages  []string
	Errors    []error
	Prompts   []string
	Standings []*state.Player // as last announced by GameOver

	texts    []string
	numbers  []string
	confirms []bool
	selects  []string
	commands []string
}

var _ ui.UI = (*ScriptedUI)(nil)

// NewScriptedUI creates an empty script.
func NewScriptedUI(t testing.TB) *ScriptedUI {
	return &ScriptedUI{t: t}
}

// Texts queues answers for Prompt.
func (s *ScriptedUI) Texts(answers ...string) *ScriptedUI {
	s.texts = append(s.texts, answers...)
	return s
}

// Numbers queues raw answers for PromptNumber; anything that is not an integer
// is answered as a parse error.
func (s *ScriptedUI) Numbers(answers ...string) *ScriptedUI {
	s.numbers = append(s.numbers, answers...)
	return s
}

// Confirms queues answers for PromptConfirm.
func (s *ScriptedUI) Confirms(answers ...bool) *ScriptedUI {
	s.confirms = append(s.confirms, answers...)
	return s
}

// Selects queues option labels for PromptSelect. A label matches the first
// option it is a prefix of; CancelLabel cancels.
func (s *ScriptedUI) Selects(labels ...string) *ScriptedUI {
	s.selects = append(s.selects, labels...)
	return s
}

// Commands queues command names for PromptCLLoop.
func (s *ScriptedUI) Commands(names ...string) *ScriptedUI {
	s.commands = append(s.commands, names...)
	return s
}

// Count returns how many times the named announcement was made.
func (s *ScriptedUI) Count(name string) int {
	n := 0
	for _, call := range s.Calls {
		if call == name {
			n++
		}
	}
	return n
}

// Remaining reports how many scripted answers are still unused.
func (s *ScriptedUI) Remaining() int {
	return len(s.texts) + len(s.numbers) + len(s.confirms) + len(s.selects) + len(s.commands)
}

func (s *ScriptedUI) record(name string) {
	s.Calls = append(s.Calls, name)
}

func (s *ScriptedUI) StartGame([]*state.Player)                             { s.record("StartGame") }
func (s *ScriptedUI) StartTurn(*state.Player)                               { s.record("StartTurn") }
func (s *ScriptedUI) EndTurn(*state.Player)                                 { s.record("EndTurn") }
func (s *ScriptedUI) DiceRoll(*state.Player, []int)                         { s.record("DiceRoll") }
func (s *ScriptedUI) Jailed(*state.Player)                                  { s.record("Jailed") }
func (s *ScriptedUI) Released(*state.Player)                                { s.record("Released") }
func (s *ScriptedUI) Speeding(*state.Player)                                { s.record("Speeding") }
func (s *ScriptedUI) PassGo(*state.Player, int)                             { s.record("PassGo") }
func (s *ScriptedUI) LandedOn(*state.Player, *state.Property)               { s.record("LandedOn") }
func (s *ScriptedUI) CardDrawn(*state.Player, *state.Card)                  { s.record("CardDrawn") }
func (s *ScriptedUI) Bought(*state.Player, *state.Property, int)            { s.record("Bought") }
func (s *ScriptedUI) PaidRent(_, _ *state.Player, _ *state.Property, _ int) { s.record("PaidRent") }
func (s *ScriptedUI) Paid(*state.Player, int, string)                       { s.record("Paid") }
func (s *ScriptedUI) Received(*state.Player, int, string)                   { s.record("Received") }
func (s *ScriptedUI) AuctionStart(*state.Property, int)                     { s.record("AuctionStart") }
func (s *ScriptedUI) AuctionBid(*state.Player, int, bool)                   { s.record("AuctionBid") }
func (s *ScriptedUI) AuctionWon(*state.Player, *state.Property, int)        { s.record("AuctionWon") }
func (s *ScriptedUI) PropertyManaged(*state.Player, *state.Property, string) {
	s.record("PropertyManaged")
}
func (s *ScriptedUI) TradeStatus(status string, _ *state.Player, _ []string) {
	s.record("TradeStatus:" + status)
}
func (s *ScriptedUI) PlayerInfo(*state.Player, []*state.Property) { s.record("PlayerInfo") }
func (s *ScriptedUI) Bankrupt(*state.Player, *state.Player)       { s.record("Bankrupt") }

func (s *ScriptedUI) GameOver(_ *state.Player, standings []*state.Player) {
	s.record("GameOver")
	s.Standings = standings
}

func (s *ScriptedUI) Message(msg string) {
	s.Messages = append(s.Messages, msg)
}

func (s *ScriptedUI) Error(err error) {
	s.record("Error")
	s.Errors = append(s.Errors, err)
}

func (s *ScriptedUI) Prompt(message string) string {
	s.Prompts = append(s.Prompts, message)
	if len(s.texts) == 0 {
		return ""
	}
	answer := s.texts[0]
	s.texts = s.texts[1:]
	return answer
}

func (s *ScriptedUI) PromptNumber(message string) (int, error) {
	s.Prompts = append(s.Prompts, message)
	if len(s.numbers) == 0 {
		s.t.Fatalf("unscripted number prompt: %s", message)
		return 0, fmt.Errorf("no scripted answer")
	}
	answer := s.numbers[0]
	s.numbers = s.numbers[1:]
	return strconv.Atoi(strings.TrimSpace(answer))
}

func (s *ScriptedUI) PromptConfirm(message string) bool {
	s.Prompts = append(s.Prompts, message)
	if len(s.confirms) == 0 {
		return s.ConfirmDefault
	}
	answer := s.confirms[0]
	s.confirms = s.confirms[1:]
	return answer
}

var passiveSelections = []string{"END_TURN", "ROLL_DICE", "DECLARE_BANKRUPTCY"}

func (s *ScriptedUI) PromptSelect(options []string, message string) int {
	s.Prompts = append(s.Prompts, message)
	if len(s.selects) == 0 {
		for _, label := range passiveSelections {
			if i := indexOf(options, label); i >= 0 {
				return i
			}
		}
		return ui.Cancel
	}
	label := s.selects[0]
	s.selects = s.selects[1:]
	if label == CancelLabel {
		return ui.Cancel
	}
	i := indexOf(options, label)
	if i < 0 {
		s.t.Fatalf("scripted selection %q not among options %v (%s)", label, options, message)
	}
	return i
}

func (s *ScriptedUI) PromptCLLoop(prompt string, commands map[string]func() bool) {
	for i := 0; i < maxLoopCommands; i++ {
		s.Prompts = append(s.Prompts, prompt)
		name := "cancel"
		if len(s.commands) > 0 {
			name = s.commands[0]
			s.commands = s.commands[1:]
		}
		handler, ok := commands[name]
		if !ok {
			if name == "cancel" {
				return
			}
			continue
		}
		if handler() {
			return
		}
	}
	s.t.Fatalf("command loop %q did not finish", prompt)
}

func indexOf(options []string, label string) int {
	for i, option := range options {
		if strings.HasPrefix(option, label) {
			return i
		}
	}
	return -1
}

// ScriptedDice returns fixed rolls in order. With Cycle set the sequence
// repeats; otherwise running out fails the test.
type ScriptedDice struct {
	t     testing.TB
	rolls [][]int
	next  int
	Cycle bool
}

// NewScriptedDice creates dice that will produce the given rolls.
func NewScriptedDice(t testing.TB, rolls ...[]int) *ScriptedDice {
	return &ScriptedDice{t: t, rolls: rolls}
}

// Roll implements dice.Roller.
func (d *ScriptedDice) Roll(n, faces int) []int {
	if d.next >= len(d.rolls) {
		if !d.Cycle || len(d.rolls) == 0 {
			d.t.Fatalf("unscripted dice roll #%d", d.next+1)
			return make([]int, n)
		}
		d.next = 0
	}
	roll := d.rolls[d.next]
	d.next++
	return append([]int(nil), roll...)
}

// Used returns how many rolls have been consumed.
func (d *ScriptedDice) Used() int {
	return d.next
}

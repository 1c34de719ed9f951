package console

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tabletop-go/monopoly/internal/game/state"
	"github.com/tabletop-go/monopoly/internal/game/ui"
)

func newConsole(input string) (*Console, *bytes.Buffer) {
	var out bytes.Buffer
	return New(strings.NewReader(input), &out), &out
}

func TestPromptSelect(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  int
	}{
		{"first", "1\n", 0},
		{"last", "3\n", 2},
		{"padded", "  2 \n", 1},
		{"cancel", "c\n", ui.Cancel},
		{"empty", "\n", ui.Cancel},
		{"out of range", "4\n", ui.Cancel},
		{"zero", "0\n", ui.Cancel},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, out := newConsole(tt.input)
			got := c.PromptSelect([]string{"ROLL_DICE", "TRADE", "PLAYER_INFO"}, "Choose an action")
			assert.Equal(t, tt.want, got)
			assert.Contains(t, out.String(), "  2) TRADE")
		})
	}
}

func TestPromptConfirmAndNumber(t *testing.T) {
	c, _ := newConsole("yes\nn\n150\nlots\n")

	assert.True(t, c.PromptConfirm("Buy?"))
	assert.False(t, c.PromptConfirm("Buy?"))

	n, err := c.PromptNumber("Bid")
	require.NoError(t, err)
	assert.Equal(t, 150, n)

	_, err = c.PromptNumber("Bid")
	assert.Error(t, err)
}

func TestFinalLineWithoutNewline(t *testing.T) {
	c, _ := newConsole("Ada")
	assert.Equal(t, "Ada", c.Prompt("Name"))
}

func TestClosedInputPanics(t *testing.T) {
	c, _ := newConsole("")
	defer func() {
		r := recover()
		require.NotNil(t, r)
		err, ok := r.(error)
		require.True(t, ok)
		assert.True(t, errors.Is(err, ErrInputClosed))
	}()
	c.Prompt("Name")
}

func TestPromptCLLoop(t *testing.T) {
	c, out := newConsole("what\nlist\ndone\n")
	listed := 0
	c.PromptCLLoop("trade", map[string]func() bool{
		"list": func() bool { listed++; return false },
		"done": func() bool { return true },
	})
	assert.Equal(t, 1, listed)
	assert.Contains(t, out.String(), "commands: done, list")
}

func TestAnnouncements(t *testing.T) {
	c, out := newConsole("")
	ada := state.NewPlayer("Ada", 1500)
	bo := state.NewPlayer("Bo", 1500)
	avenue := &state.Property{ID: "baltic-avenue", Name: "Baltic Avenue", Group: state.GroupBrown, Kind: state.TileProperty, Price: 60, Mortgaged: true}

	c.DiceRoll(ada, []int{3, 4})
	c.PaidRent(ada, bo, avenue, 4)
	c.Bankrupt(ada, nil)
	c.PlayerInfo(bo, []*state.Property{avenue})
	c.GameOver(bo, []*state.Player{bo, ada})

	text := out.String()
	assert.Contains(t, text, "Ada rolls 3 + 4 (7)")
	assert.Contains(t, text, "Ada pays 4 rent to Bo for Baltic Avenue.")
	assert.Contains(t, text, "Ada is bankrupt to the bank.")
	assert.Contains(t, text, "Baltic Avenue")
	assert.Contains(t, text, ", mortgaged")
	assert.Contains(t, text, "Bo wins!")
	assert.Contains(t, text, "2. Ada")
}

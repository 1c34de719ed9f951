// Package console is the terminal implementation of the game's UI boundary.
package console

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/tabletop-go/monopoly/internal/game/state"
	"github.com/tabletop-go/monopoly/internal/game/ui"
)

// ErrInputClosed is raised when the player's input ends mid-game. Prompts have
// no way to return it, so it unwinds as a panic for the engine to recover.
var ErrInputClosed = errors.New("input closed")

// Console reads answers line by line and writes plain text.
type Console struct {
	in  *bufio.Reader
	out io.Writer
}

var _ ui.UI = (*Console)(nil)

// New creates a console over the given streams.
func New(in io.Reader, out io.Writer) *Console {
	return &Console{in: bufio.NewReader(in), out: out}
}

func (c *Console) printf(format string, args ...any) {
	fmt.Fprintf(c.out, format, args...)
}

func (c *Console) readLine() string {
	line, err := c.in.ReadString('\n')
	if err != nil && (line == "" || !errors.Is(err, io.EOF)) {
		panic(fmt.Errorf("%w: %v", ErrInputClosed, err))
	}
	return strings.TrimSpace(line)
}

func (c *Console) StartGame(players []*state.Player) {
	names := make([]string, 0, len(players))
	for _, p := range players {
		names = append(names, p.Name)
	}
	c.printf("=== New game: %s ===\n", strings.Join(names, ", "))
}

func (c *Console) StartTurn(p *state.Player) {
	c.printf("\n--- %s's turn (cash %d) ---\n", p.Name, p.Cash)
}

func (c *Console) EndTurn(p *state.Player) {
	c.printf("%s ends their turn.\n", p.Name)
}

func (c *Console) DiceRoll(p *state.Player, roll []int) {
	faces := make([]string, 0, len(roll))
	total := 0
	for _, die := range roll {
		faces = append(faces, strconv.Itoa(die))
		total += die
	}
	c.printf("%s rolls %s (%d)\n", p.Name, strings.Join(faces, " + "), total)
}

func (c *Console) Jailed(p *state.Player)   { c.printf("%s goes to jail!\n", p.Name) }
func (c *Console) Released(p *state.Player) { c.printf("%s is out of jail.\n", p.Name) }
func (c *Console) Speeding(p *state.Player) { c.printf("%s rolled too many doubles.\n", p.Name) }

func (c *Console) PassGo(p *state.Player, salary int) {
	c.printf("%s passes Go and collects %d.\n", p.Name, salary)
}

func (c *Console) LandedOn(p *state.Player, tile *state.Property) {
	switch {
	case !tile.Ownable():
		c.printf("%s lands on %s.\n", p.Name, tile.Name)
	case tile.IsOwned():
		c.printf("%s lands on %s (owned%s).\n", p.Name, tile.Name, mortgagedSuffix(tile))
	default:
		c.printf("%s lands on %s (for sale at %d).\n", p.Name, tile.Name, tile.Price)
	}
}

func (c *Console) CardDrawn(p *state.Player, card *state.Card) {
	c.printf("%s draws: %s\n", p.Name, card.Text)
}

func (c *Console) Bought(p *state.Player, prop *state.Property, price int) {
	c.printf("%s buys %s for %d.\n", p.Name, prop.Name, price)
}

func (c *Console) PaidRent(from, to *state.Player, prop *state.Property, amount int) {
	c.printf("%s pays %d rent to %s for %s.\n", from.Name, amount, to.Name, prop.Name)
}

func (c *Console) Paid(p *state.Player, amount int, reason string) {
	c.printf("%s pays %d (%s).\n", p.Name, amount, reason)
}

func (c *Console) Received(p *state.Player, amount int, reason string) {
	c.printf("%s receives %d (%s).\n", p.Name, amount, reason)
}

func (c *Console) AuctionStart(prop *state.Property, price int) {
	c.printf("Auction for %s, bidding starts above %d.\n", prop.Name, price)
}

func (c *Console) AuctionBid(bidder *state.Player, amount int, accepted bool) {
	if accepted {
		c.printf("%s bids %d.\n", bidder.Name, amount)
		return
	}
	c.printf("%s is out of the auction.\n", bidder.Name)
}

func (c *Console) AuctionWon(winner *state.Player, prop *state.Property, price int) {
	c.printf("%s wins %s for %d.\n", winner.Name, prop.Name, price)
}

func (c *Console) PropertyManaged(p *state.Player, prop *state.Property, action string) {
	c.printf("%s: %s %s (buildings %d%s).\n", p.Name, strings.ToLower(action), prop.Name,
		prop.Buildings, mortgagedSuffix(prop))
}

func (c *Console) TradeStatus(status string, actor *state.Player, summary []string) {
	c.printf("[trade %s] %s to act\n", status, actor.Name)
	for _, line := range summary {
		c.printf("  %s\n", line)
	}
}

func (c *Console) PlayerInfo(p *state.Player, props []*state.Property) {
	status := ""
	switch {
	case p.Bankrupt:
		status = " BANKRUPT"
	case p.InJail():
		status = " in jail"
	}
	c.printf("%s%s: cash %d, net worth %d, %d jail cards\n", p.Name, status, p.Cash, p.NetWorth, len(p.Cards))
	for _, prop := range props {
		c.printf("  %-24s %-10s buildings %d%s\n", prop.Name, prop.Group, prop.Buildings, mortgagedSuffix(prop))
	}
}

func (c *Console) Bankrupt(p *state.Player, creditor *state.Player) {
	if creditor == nil {
		c.printf("%s is bankrupt to the bank.\n", p.Name)
		return
	}
	c.printf("%s is bankrupt to %s.\n", p.Name, creditor.Name)
}

func (c *Console) GameOver(winner *state.Player, standings []*state.Player) {
	c.printf("\n=== Game over ===\n")
	if winner != nil {
		c.printf("%s wins!\n", winner.Name)
	}
	for i, p := range standings {
		c.printf("%d. %s (net worth %d)\n", i+1, p.Name, p.NetWorth)
	}
}

func (c *Console) Message(msg string) { c.printf("%s\n", msg) }

func (c *Console) Error(err error) { c.printf("! %v\n", err) }

func (c *Console) Prompt(message string) string {
	c.printf("%s: ", message)
	return c.readLine()
}

func (c *Console) PromptNumber(message string) (int, error) {
	return strconv.Atoi(c.Prompt(message))
}

func (c *Console) PromptConfirm(message string) bool {
	switch strings.ToLower(c.Prompt(message + " [y/N]")) {
	case "y", "yes":
		return true
	default:
		return false
	}
}

// PromptSelect lists the options numbered from 1. An empty answer, "c" or
// anything that is not a listed number cancels.
func (c *Console) PromptSelect(options []string, message string) int {
	c.printf("%s\n", message)
	for i, option := range options {
		c.printf("  %d) %s\n", i+1, option)
	}
	answer := c.Prompt("choice (c to cancel)")
	n, err := strconv.Atoi(answer)
	if err != nil || n < 1 || n > len(options) {
		return ui.Cancel
	}
	return n - 1
}

// PromptCLLoop reads commands until one of the handlers returns true.
func (c *Console) PromptCLLoop(prompt string, commands map[string]func() bool) {
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)
	for {
		name := strings.ToLower(c.Prompt(prompt))
		handler, ok := commands[name]
		if !ok {
			c.printf("commands: %s\n", strings.Join(names, ", "))
			continue
		}
		if handler() {
			return
		}
	}
}

func mortgagedSuffix(prop *state.Property) string {
	if prop.Mortgaged {
		return ", mortgaged"
	}
	return ""
}

package state

import "fmt"

// Rules are the static money and movement constants of a game.
type Rules struct {
	StartingCash  int
	Salary        int
	JailFine      int
	MaxJailTurns  int
	SpeedingLimit int
	DiceCount     int
	DiceFaces     int
	IncomeTax     int
	IncomeTaxRate float64
	LuxuryTax     int
}

// Action is a decision offered to the acting player.
type Action string

const (
	ActionRollDice          Action = "ROLL_DICE"
	ActionEndTurn           Action = "END_TURN"
	ActionPayFine           Action = "PAY_FINE"
	ActionUseCard           Action = "USE_CARD"
	ActionManageProperties  Action = "MANAGE_PROPERTIES"
	ActionTrade             Action = "TRADE"
	ActionPlayerInfo        Action = "PLAYER_INFO"
	ActionDeclareBankruptcy Action = "DECLARE_BANKRUPTCY"
)

// TurnValues is per-turn scratch state, reset at the start of every turn.
type TurnValues struct {
	Roll           []int
	Rolled         bool
	BonusRoll      bool  // doubles earned another roll
	Speeding       int   // consecutive doubles this turn
	RentMultiplier int   // 0 when no card multiplier applies
	Card           *Card // last card drawn this turn
}

// Total returns the sum of the last roll.
func (tv TurnValues) Total() int {
	total := 0
	for _, die := range tv.Roll {
		total += die
	}
	return total
}

// Doubles reports whether every die of the last roll shows the same face.
func (tv TurnValues) Doubles() bool {
	if len(tv.Roll) < 2 {
		return false
	}
	for _, die := range tv.Roll[1:] {
		if die != tv.Roll[0] {
			return false
		}
	}
	return true
}

// Charge is a pending debt owed by a player that their cash did not cover.
type Charge struct {
	DebtorID   string
	CreditorID string // Unowned means the bank
	Amount     int
	AssetValue int // capital gained once paid (purchases and unmortgages)
	Reason     string
}

// GameState is the single mutable session object shared by every handler.
type GameState struct {
	Turn        int
	Players     []*Player
	TurnValues  TurnValues
	SubTurn     *Charge
	Config      *PropertyConfig
	Rules       Rules
	Decks       Decks
	CurrentTile *Property
	Actions     []Action
	GameOver    bool
	Winner      string
	MaxTurns    int
}

// New creates a session for the given players with the board configuration.
func New(names []string, cfg *PropertyConfig, rules Rules, decks Decks) *GameState {
	players := make([]*Player, 0, len(names))
	for _, name := range names {
		players = append(players, NewPlayer(name, rules.StartingCash))
	}
	gs := &GameState{
		Players: players,
		Config:  cfg,
		Rules:   rules,
		Decks:   decks,
	}
	if start, err := cfg.At(0); err == nil {
		gs.CurrentTile = start
	}
	return gs
}

// CurrentPlayer returns the player whose turn it is.
func (gs *GameState) CurrentPlayer() *Player {
	if len(gs.Players) == 0 {
		return nil
	}
	return gs.Players[gs.Turn%len(gs.Players)]
}

// ActingPlayer returns the debtor of a pending charge, or the current player.
func (gs *GameState) ActingPlayer() *Player {
	if gs.SubTurn != nil {
		if debtor, err := gs.Player(gs.SubTurn.DebtorID); err == nil {
			return debtor
		}
	}
	return gs.CurrentPlayer()
}

// Player looks up a player by ID.
func (gs *GameState) Player(id string) (*Player, error) {
	for _, p := range gs.Players {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, fmt.Errorf("unknown player %q", id)
}

// ActivePlayers returns the players that are not bankrupt, in turn order.
func (gs *GameState) ActivePlayers() []*Player {
	active := make([]*Player, 0, len(gs.Players))
	for _, p := range gs.Players {
		if !p.Bankrupt {
			active = append(active, p)
		}
	}
	return active
}

// Opponents returns the non-bankrupt players other than the given one.
func (gs *GameState) Opponents(playerID string) []*Player {
	others := make([]*Player, 0, len(gs.Players))
	for _, p := range gs.Players {
		if !p.Bankrupt && p.ID != playerID {
			others = append(others, p)
		}
	}
	return others
}

// IsGameOver reports whether at most one player remains solvent or the
// turn limit is reached.
func (gs *GameState) IsGameOver() bool {
	if gs.GameOver {
		return true
	}
	if len(gs.ActivePlayers()) <= 1 {
		return true
	}
	return gs.MaxTurns > 0 && gs.Turn+1 >= gs.MaxTurns
}

// AdvanceTurn moves the turn counter to the next non-bankrupt player.
func (gs *GameState) AdvanceTurn() *Player {
	if len(gs.ActivePlayers()) == 0 {
		gs.Turn++
		return gs.CurrentPlayer()
	}
	for {
		gs.Turn++
		if p := gs.CurrentPlayer(); !p.Bankrupt {
			return p
		}
	}
}

// ResetTurnValues clears the per-turn scratch values.
func (gs *GameState) ResetTurnValues() {
	gs.TurnValues = TurnValues{}
	gs.Actions = nil
}

// OwnedBy returns the properties held by the given player in board order.
func (gs *GameState) OwnedBy(playerID string) []*Property {
	owned := make([]*Property, 0, 8)
	for _, prop := range gs.Config.Properties {
		if prop.Ownable() && prop.OwnedBy == playerID {
			owned = append(owned, prop)
		}
	}
	return owned
}

// BoardSize returns the number of tiles on the board.
func (gs *GameState) BoardSize() int {
	return gs.Config.Size()
}

// Package board loads the static board, card and rules data a game runs on.
//
// The classic board is embedded; a replacement can be loaded from a YAML file
// with the same layout. Every load builds fresh state objects, so two games
// never share a building supply or a deck.
package board

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/viper"

	"github.com/tabletop-go/monopoly/internal/game/state"
)

// ErrInvalidBoard is returned when board data is malformed or incomplete.
var ErrInvalidBoard = errors.New("invalid board")

//go:embed board.yaml
var classic []byte

// Board is everything a game session needs from static data.
type Board struct {
	Rules  state.Rules
	Config *state.PropertyConfig
	Decks  state.Decks
}

type rulesSpec struct {
	StartingCash  int     `mapstructure:"starting_cash"`
	Salary        int     `mapstructure:"salary"`
	JailFine      int     `mapstructure:"jail_fine"`
	MaxJailTurns  int     `mapstructure:"max_jail_turns"`
	SpeedingLimit int     `mapstructure:"speeding_limit"`
	DiceCount     int     `mapstructure:"dice_count"`
	DiceFaces     int     `mapstructure:"dice_faces"`
	IncomeTax     int     `mapstructure:"income_tax"`
	IncomeTaxRate float64 `mapstructure:"income_tax_rate"`
	LuxuryTax     int     `mapstructure:"luxury_tax"`
}

type configSpec struct {
	Houses              int     `mapstructure:"houses"`
	Hotels              int     `mapstructure:"hotels"`
	HotelThreshold      int     `mapstructure:"hotel_threshold"`
	MaxBuildings        int     `mapstructure:"max_buildings"`
	MortgageMultiplier  int     `mapstructure:"mortgage_multiplier"`
	MortgageInterest    float64 `mapstructure:"mortgage_interest"`
	RailroadRent        []int   `mapstructure:"railroad_rent"`
	UtilitySingle       int     `mapstructure:"utility_single"`
	UtilityDouble       int     `mapstructure:"utility_double"`
	MinimumAuctionPrice int     `mapstructure:"minimum_auction_price"`
}

type tileSpec struct {
	ID             string `mapstructure:"id"`
	Name           string `mapstructure:"name"`
	Group          string `mapstructure:"group"`
	Kind           string `mapstructure:"kind"`
	Price          int    `mapstructure:"price"`
	Rent           int    `mapstructure:"rent"`
	MultipliedRent []int  `mapstructure:"multiplied_rent"`
	HouseCost      int    `mapstructure:"house_cost"`
}

type cardSpec struct {
	ID             string `mapstructure:"id"`
	Text           string `mapstructure:"text"`
	Action         string `mapstructure:"action"`
	Tile           string `mapstructure:"tile"`
	Spaces         int    `mapstructure:"spaces"`
	Group          string `mapstructure:"group"`
	Amount         int    `mapstructure:"amount"`
	HouseCharge    int    `mapstructure:"house_charge"`
	HotelCharge    int    `mapstructure:"hotel_charge"`
	RentMultiplier int    `mapstructure:"rent_multiplier"`
}

type boardSpec struct {
	Rules          rulesSpec  `mapstructure:"rules"`
	PropertyConfig configSpec `mapstructure:"property_config"`
	Tiles          []tileSpec `mapstructure:"tiles"`
	Chance         []cardSpec `mapstructure:"chance"`
	CommunityChest []cardSpec `mapstructure:"community_chest"`
}

// Default loads the embedded classic board.
func Default() (*Board, error) {
	return Load(bytes.NewReader(classic))
}

// LoadFile loads a board from a YAML file.
func LoadFile(path string) (*Board, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open board file: %w", err)
	}
	defer f.Close()
	return Load(f)
}

// Load parses and validates YAML board data.
func Load(r io.Reader) (*Board, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	if err := v.ReadConfig(r); err != nil {
		return nil, fmt.Errorf("%w: read: %v", ErrInvalidBoard, err)
	}

	var spec boardSpec
	if err := v.Unmarshal(&spec); err != nil {
		return nil, fmt.Errorf("%w: decode: %v", ErrInvalidBoard, err)
	}
	if err := validate(&spec); err != nil {
		return nil, err
	}
	return build(&spec), nil
}

func build(spec *boardSpec) *Board {
	pc := spec.PropertyConfig
	cfg := &state.PropertyConfig{
		Properties:          make([]*state.Property, 0, len(spec.Tiles)),
		Houses:              pc.Houses,
		Hotels:              pc.Hotels,
		HotelThreshold:      pc.HotelThreshold,
		MaxBuildings:        pc.MaxBuildings,
		MortgageMultiplier:  pc.MortgageMultiplier,
		MortgageInterest:    pc.MortgageInterest,
		RailroadRent:        append([]int(nil), pc.RailroadRent...),
		UtilitySingle:       pc.UtilitySingle,
		UtilityDouble:       pc.UtilityDouble,
		MinimumAuctionPrice: pc.MinimumAuctionPrice,
	}
	for i, t := range spec.Tiles {
		kind := state.TileKind(t.Kind)
		if kind == "" {
			kind = state.TileProperty
		}
		cfg.Properties = append(cfg.Properties, &state.Property{
			ID:             t.ID,
			Name:           t.Name,
			Group:          state.Group(t.Group),
			Kind:           kind,
			Position:       i,
			Price:          t.Price,
			Rent:           t.Rent,
			MultipliedRent: append([]int(nil), t.MultipliedRent...),
			HouseCost:      t.HouseCost,
			OwnedBy:        state.Unowned,
		})
	}

	r := spec.Rules
	return &Board{
		Rules: state.Rules{
			StartingCash:  r.StartingCash,
			Salary:        r.Salary,
			JailFine:      r.JailFine,
			MaxJailTurns:  r.MaxJailTurns,
			SpeedingLimit: r.SpeedingLimit,
			DiceCount:     r.DiceCount,
			DiceFaces:     r.DiceFaces,
			IncomeTax:     r.IncomeTax,
			IncomeTaxRate: r.IncomeTaxRate,
			LuxuryTax:     r.LuxuryTax,
		},
		Config: cfg,
		Decks: state.Decks{
			Chance:         state.Pile{Available: buildCards(state.DeckChance, spec.Chance)},
			CommunityChest: state.Pile{Available: buildCards(state.DeckCommunityChest, spec.CommunityChest)},
		},
	}
}

func buildCards(kind state.DeckKind, specs []cardSpec) []*state.Card {
	cards := make([]*state.Card, 0, len(specs))
	for _, c := range specs {
		cards = append(cards, &state.Card{
			ID:             c.ID,
			Deck:           kind,
			Text:           c.Text,
			Action:         state.CardAction(c.Action),
			Tile:           c.Tile,
			Spaces:         c.Spaces,
			Group:          state.Group(c.Group),
			Amount:         c.Amount,
			HouseCharge:    c.HouseCharge,
			HotelCharge:    c.HotelCharge,
			RentMultiplier: c.RentMultiplier,
		})
	}
	return cards
}

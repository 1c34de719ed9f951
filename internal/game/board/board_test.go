package board

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tabletop-go/monopoly/internal/game/state"
)

func TestDefaultClassicBoard(t *testing.T) {
	b, err := Default()
	require.NoError(t, err)

	require.Equal(t, 40, b.Config.Size())
	assert.Equal(t, 32, b.Config.Houses)
	assert.Equal(t, 12, b.Config.Hotels)
	assert.Equal(t, 1500, b.Rules.StartingCash)
	assert.Equal(t, 200, b.Rules.Salary)
	assert.Equal(t, 50, b.Rules.JailFine)
	assert.InDelta(t, 0.1, b.Rules.IncomeTaxRate, 1e-9)
	assert.Len(t, b.Decks.Chance.Available, 16)
	assert.Len(t, b.Decks.CommunityChest.Available, 16)

	baltic, err := b.Config.Property("baltic-avenue")
	require.NoError(t, err)
	assert.Equal(t, 3, baltic.Position)
	assert.Equal(t, state.GroupBrown, baltic.Group)
	assert.Equal(t, state.TileProperty, baltic.Kind)
	assert.Equal(t, []int{20, 60, 180, 320, 450}, baltic.MultipliedRent)
	assert.Equal(t, state.Unowned, baltic.OwnedBy)

	jail, err := b.Config.FirstOfKind(state.TileJail)
	require.NoError(t, err)
	assert.Equal(t, 10, jail.Position)

	for _, card := range b.Decks.CommunityChest.Available {
		assert.Equal(t, state.DeckCommunityChest, card.Deck)
	}
}

func TestDefaultBuildsFreshState(t *testing.T) {
	first, err := Default()
	require.NoError(t, err)
	second, err := Default()
	require.NoError(t, err)

	first.Config.Houses = 0
	first.Config.MustProperty("boardwalk").OwnedBy = "someone"

	assert.Equal(t, 32, second.Config.Houses)
	assert.Equal(t, state.Unowned, second.Config.MustProperty("boardwalk").OwnedBy)
}

func TestLoadRejectsInvalidBoards(t *testing.T) {
	valid, err := os.ReadFile("board.yaml")
	require.NoError(t, err)

	tests := []struct {
		name    string
		mutate  func(string) string
		message string
	}{
		{
			name:    "unknown tile kind",
			mutate:  func(s string) string { return strings.Replace(s, "kind: luxury-tax", "kind: casino", 1) },
			message: "unknown kind",
		},
		{
			name:    "card targets missing tile",
			mutate:  func(s string) string { return strings.Replace(s, "tile: boardwalk}", "tile: nowhere}", 1) },
			message: "unknown tile",
		},
		{
			name:    "unknown card action",
			mutate:  func(s string) string { return strings.Replace(s, "action: send-to-jail", "action: teleport", 1) },
			message: "unknown action",
		},
		{
			name:    "short rent schedule",
			mutate:  func(s string) string { return strings.Replace(s, "[20, 60, 180, 320, 450]", "[20, 60]", 1) },
			message: "multiplied_rent",
		},
		{
			name:    "duplicate tile",
			mutate:  func(s string) string { return strings.Replace(s, "id: short-line", "id: reading-railroad", 1) },
			message: "duplicated",
		},
		{
			name:    "bad hotel threshold",
			mutate:  func(s string) string { return strings.Replace(s, "hotel_threshold: 5", "hotel_threshold: 9", 1) },
			message: "hotel_threshold",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(strings.NewReader(tt.mutate(string(valid))))
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidBoard))
			assert.Contains(t, err.Error(), tt.message)
		})
	}
}

func TestLoadFile(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)

	path := filepath.Join(t.TempDir(), "board.yaml")
	require.NoError(t, os.WriteFile(path, classic, 0o600))
	b, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 40, b.Config.Size())
}

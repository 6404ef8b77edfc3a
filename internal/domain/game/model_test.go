package game_test

import (
	"errors"
	"testing"

	"gamezone/internal/domain/game"
)

// TestGame_Validate tests validation of Game.
func TestGame_Validate(t *testing.T) {
	tests := []struct {
		name    string
		game    game.Game
		wantErr error
	}{
		{
			name: "valid game",
			game: game.Game{Name: "Game A", Size: "4.2 GB", URL: "http://x/a", Description: "A classic."},
		},
		{
			name: "valid without optional fields",
			game: game.Game{Name: "Game B", URL: "http://x/b"},
		},
		{
			name:    "empty name",
			game:    game.Game{URL: "http://x/a"},
			wantErr: game.ErrEmptyName,
		},
		{
			name:    "empty url",
			game:    game.Game{Name: "Game A"},
			wantErr: game.ErrEmptyURL,
		},
		{
			name:    "empty name reported before empty url",
			game:    game.Game{},
			wantErr: game.ErrEmptyName,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.game.Validate()
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

// TestGame_Normalize tests whitespace trimming of all text fields.
func TestGame_Normalize(t *testing.T) {
	g := game.Game{
		Name:        "  Game A  ",
		Size:        "\t4.2 GB\n",
		URL:         " http://x/a ",
		Description: "  desc  ",
	}
	g.Normalize()

	if g.Name != "Game A" {
		t.Errorf("Name = %q, want %q", g.Name, "Game A")
	}
	if g.Size != "4.2 GB" {
		t.Errorf("Size = %q, want %q", g.Size, "4.2 GB")
	}
	if g.URL != "http://x/a" {
		t.Errorf("URL = %q, want %q", g.URL, "http://x/a")
	}
	if g.Description != "desc" {
		t.Errorf("Description = %q, want %q", g.Description, "desc")
	}
}

// TestGame_NormalizeThenValidate rejects whitespace-only required fields.
func TestGame_NormalizeThenValidate(t *testing.T) {
	g := game.Game{Name: "   ", URL: "http://x/a"}
	g.Normalize()
	if err := g.Validate(); !errors.Is(err, game.ErrEmptyName) {
		t.Errorf("Validate() after Normalize = %v, want ErrEmptyName", err)
	}
}

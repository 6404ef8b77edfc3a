package game

import (
	"errors"
	"strings"
	"time"
)

// Domain errors
var (
	ErrEmptyName = errors.New("game name cannot be empty")
	ErrEmptyURL  = errors.New("game download link cannot be empty")
)

// Game represents a downloadable game entry in the catalogue.
// Description supports Markdown formatting.
type Game struct {
	ID          int64
	Name        string
	Size        string // free text, e.g. "4.2 GB"
	URL         string // download link; not validated as a well-formed URI
	Description string // Markdown content
	CreatedAt   time.Time
}

// Normalize trims leading and trailing whitespace from all text fields.
// PRE: Game struct is populated
// POST: Name, Size, URL and Description carry no surrounding whitespace
func (g *Game) Normalize() {
	g.Name = strings.TrimSpace(g.Name)
	g.Size = strings.TrimSpace(g.Size)
	g.URL = strings.TrimSpace(g.URL)
	g.Description = strings.TrimSpace(g.Description)
}

// Validate checks that the required fields are present.
// PRE: Normalize has been called
// POST: Returns nil if valid, a domain error otherwise
func (g *Game) Validate() error {
	if g.Name == "" {
		return ErrEmptyName
	}
	if g.URL == "" {
		return ErrEmptyURL
	}
	return nil
}

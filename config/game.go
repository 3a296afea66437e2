package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"quizbattle/internal/model"
)

// Game is the arena definition: answer zones, seat spawns, avatar size,
// movement speed and matchmaking parameters. Loaded once at startup and
// read-only for the process lifetime.
type Game struct {
	MatchSize       int            `json:"matchSize"`
	SweepIntervalMs int            `json:"sweepIntervalMs"`
	Speed           int            `json:"speed"`
	PlayerSize      model.Size     `json:"playerSize"`
	Spawns          []model.Vec    `json:"spawns"`
	Zones           model.ZonePair `json:"zones"`
}

// LoadGame reads and validates the game definition file. Any missing or
// inconsistent value is a startup error; the server must not accept
// connections with a broken arena.
func LoadGame(path string) (*Game, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read game config: %w", err)
	}

	var g Game
	if err := json.Unmarshal(data, &g); err != nil {
		return nil, fmt.Errorf("parse game config %s: %w", path, err)
	}
	if err := g.validate(); err != nil {
		return nil, fmt.Errorf("invalid game config %s: %w", path, err)
	}
	return &g, nil
}

func (g *Game) validate() error {
	if g.MatchSize < 2 {
		return fmt.Errorf("matchSize must be at least 2, got %d", g.MatchSize)
	}
	if g.SweepIntervalMs <= 0 {
		return fmt.Errorf("sweepIntervalMs must be positive, got %d", g.SweepIntervalMs)
	}
	if g.Speed <= 0 {
		return fmt.Errorf("speed must be positive, got %d", g.Speed)
	}
	if g.PlayerSize.Width <= 0 || g.PlayerSize.Height <= 0 {
		return fmt.Errorf("playerSize must have positive dimensions")
	}
	if len(g.Spawns) < g.MatchSize {
		return fmt.Errorf("need at least %d spawn positions, got %d", g.MatchSize, len(g.Spawns))
	}
	if g.Zones.O.Width <= 0 || g.Zones.O.Height <= 0 {
		return fmt.Errorf("true zone must have positive dimensions")
	}
	if g.Zones.X.Width <= 0 || g.Zones.X.Height <= 0 {
		return fmt.Errorf("false zone must have positive dimensions")
	}
	return nil
}

// SweepInterval is how often the matchmaking sweep fires.
func (g *Game) SweepInterval() time.Duration {
	return time.Duration(g.SweepIntervalMs) * time.Millisecond
}

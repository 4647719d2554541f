package game

import (
	"errors"
	"fmt"

	"github.com/samdwyer/problemcrawl/internal/world"
)

// TestModeHandle is the unrated account used for lookups in test mode.
const TestModeHandle = "total"

// DefaultTier substitutes for the player's tier when the lookup fails.
const DefaultTier = 10

// ErrInvalidConfig is returned when a run cannot start with the given settings.
var ErrInvalidConfig = errors.New("invalid game config")

// Config is the per-run configuration surface.
type Config struct {
	// GridSize is the dungeon side length, at least world.MinSize.
	GridSize int
	// TestMode treats every solve check as successful.
	TestMode bool
}

// Validate checks the config before any dungeon is generated.
func (c Config) Validate() error {
	if c.GridSize < world.MinSize {
		return fmt.Errorf("%w: %w: %d", ErrInvalidConfig, world.ErrGridTooSmall, c.GridSize)
	}
	return nil
}

// lookupHandle returns the handle used for supplier queries.
func (c Config) lookupHandle(handle string) string {
	if c.TestMode {
		return TestModeHandle
	}
	return handle
}

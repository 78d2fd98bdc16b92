package bot

import (
	"fmt"
)

// BotLevel selects a strategy tier.
type BotLevel int

const (
	BotLevelGreedy BotLevel = iota
	BotLevelStandard
)

// NewBrain creates a new AI brain for the specified level.
func NewBrain(level BotLevel) (Brain, error) {
	switch level {
	case BotLevelGreedy:
		return &GreedyBot{}, nil
	case BotLevelStandard:
		return NewStandardBot(), nil
	default:
		return nil, fmt.Errorf("unknown bot level: %d", level)
	}
}

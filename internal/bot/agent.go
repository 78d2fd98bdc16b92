package bot

import (
	"bigtwo/internal/domain"
)

// Agent represents an autonomous bot player occupying a seat.
type Agent struct {
	ID       string
	Name     string
	Strategy Brain
}

// NewAgent binds a strategy to a bot identity.
func NewAgent(id, name string, strategy Brain) *Agent {
	return &Agent{ID: id, Name: name, Strategy: strategy}
}

// Play asks the agent for its move at the given seat. A strategy failure
// degrades to a pass; the validator is the final judge either way.
func (a *Agent) Play(g *domain.Game, seat int) (Move, error) {
	move, err := a.Strategy.Decide(ViewFor(g, seat))
	if err != nil {
		return Move{Pass: true}, err
	}
	return move, nil
}

// Package policy provides the decision makers that choose one side's action
// each turn: random, scripted, greedy, Lua scripted and language model advised.
package policy

import (
	"context"
	"errors"

	"github.com/cory-johannsen/arena/internal/game/action"
	"github.com/cory-johannsen/arena/internal/game/combat"
	"github.com/cory-johannsen/arena/internal/game/roster"
)

// ErrNoDecision is returned when a policy could not produce an action.
var ErrNoDecision = errors.New("policy: no decision")

// Policy chooses the action for the side fielding own against opp.
//
// Implementations must not mutate own or opp. A returned action may still be
// rejected by the battle; an error means the caller should fall back.
type Policy interface {
	Name() string
	Decide(ctx context.Context, own, opp *roster.Roster, snap combat.Snapshot) (action.Action, error)
}

// Func adapts a plain function into a Policy.
type Func struct {
	Label string
	Fn    func(ctx context.Context, own, opp *roster.Roster, snap combat.Snapshot) (action.Action, error)
}

// Name returns the label.
func (f Func) Name() string { return f.Label }

// Decide calls Fn.
func (f Func) Decide(ctx context.Context, own, opp *roster.Roster, snap combat.Snapshot) (action.Action, error) {
	return f.Fn(ctx, own, opp, snap)
}

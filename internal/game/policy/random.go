package policy

import (
	"context"
	"fmt"

	"github.com/cory-johannsen/arena/internal/game/action"
	"github.com/cory-johannsen/arena/internal/game/combat"
	"github.com/cory-johannsen/arena/internal/game/dice"
	"github.com/cory-johannsen/arena/internal/game/roster"
)

// Weights are the relative odds of the three decisions a Random policy makes.
type Weights struct {
	Attack  float64
	Ability float64
	Switch  float64
}

// DefaultWeights attack 60%, use an ability 30% and switch 10% of the time.
var DefaultWeights = Weights{Attack: 0.6, Ability: 0.3, Switch: 0.1}

// Validate reports whether every weight is non-negative and they sum to a
// positive total.
func (w Weights) Validate() error {
	if w.Attack < 0 || w.Ability < 0 || w.Switch < 0 {
		return fmt.Errorf("policy: weights must be non-negative, got %+v", w)
	}
	if w.Attack+w.Ability+w.Switch <= 0 {
		return fmt.Errorf("policy: weights must not all be zero")
	}
	return nil
}

// Random picks a weighted random decision every turn. An impossible ability
// or switch falls back to attack.
type Random struct {
	src     dice.Source
	weights Weights
}

// NewRandom returns a Random policy drawing from src with DefaultWeights.
//
// Precondition: src must be non-nil.
func NewRandom(src dice.Source) *Random {
	r, _ := NewWeightedRandom(src, DefaultWeights)
	return r
}

// NewWeightedRandom returns a Random policy with custom weights.
//
// Precondition: src must be non-nil.
// Postcondition: Returns an error iff w fails Validate.
func NewWeightedRandom(src dice.Source, w Weights) (*Random, error) {
	if src == nil {
		panic("policy.NewWeightedRandom: src must not be nil")
	}
	if err := w.Validate(); err != nil {
		return nil, err
	}
	return &Random{src: src, weights: w}, nil
}

// Name returns "random".
func (r *Random) Name() string { return KindRandom }

// Decide draws one decision.
//
// Postcondition: Never returns an error; the result is always attack, a usable
// ability of the active member or a legal switch.
func (r *Random) Decide(_ context.Context, own, _ *roster.Roster, _ combat.Snapshot) (action.Action, error) {
	active := own.Active()
	total := r.weights.Attack + r.weights.Ability + r.weights.Switch
	choice := r.src.Float64() * total
	switch {
	case choice < r.weights.Attack:
		return action.Attack(), nil
	case choice < r.weights.Attack+r.weights.Ability:
		usable := active.UsableAbilities()
		if len(usable) == 0 {
			return action.Attack(), nil
		}
		return action.UseAbility(usable[dice.Pick(r.src, len(usable))].ID), nil
	default:
		return r.randomSwitch(own), nil
	}
}

func (r *Random) randomSwitch(own *roster.Roster) action.Action {
	targets := own.SwitchTargets()
	if len(targets) == 0 {
		return action.Attack()
	}
	return action.SwitchTo(targets[dice.Pick(r.src, len(targets))])
}

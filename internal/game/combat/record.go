package combat

import (
	"fmt"

	"github.com/cory-johannsen/arena/internal/game/action"
)

// Outcome texts written by the turn orchestration.
const (
	OutcomeStunned  = "stunned, cannot act"
	OutcomeNoEffect = "no effect"
)

// ActionRecord is one ledger entry. Records are values; the session hands out
// copies so an appended record cannot change.
type ActionRecord struct {
	Turn    int         `json:"turn"`
	Side    Side        `json:"side"`
	Actor   string      `json:"actor"`
	Kind    action.Kind `json:"kind"`
	Target  string      `json:"target,omitempty"`
	Damage  int         `json:"damage,omitempty"`
	Ability string      `json:"ability,omitempty"`
	Outcome string      `json:"outcome"`
}

// String renders the record on one line.
func (r ActionRecord) String() string {
	s := fmt.Sprintf("T%d %s %s %s", r.Turn, r.Side, r.Actor, r.Kind)
	if r.Ability != "" {
		s += " " + r.Ability
	}
	if r.Target != "" {
		s += " -> " + r.Target
	}
	if r.Damage > 0 {
		s += fmt.Sprintf(" %d dmg", r.Damage)
	}
	return s + ": " + r.Outcome
}

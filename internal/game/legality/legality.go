// Package legality holds the pure predicates that decide whether an attack,
// ability use or switch is currently allowed. Failures are reported as a
// reason string, never as an error.
package legality

import (
	"fmt"

	"github.com/cory-johannsen/arena/internal/game/ability"
	"github.com/cory-johannsen/arena/internal/game/action"
	"github.com/cory-johannsen/arena/internal/game/fighter"
)

// Reasons reported by the predicates.
const (
	ReasonFainted        = "fainted"
	ReasonStunned        = "stunned"
	ReasonWrongClass     = "class cannot use this ability"
	ReasonInvalidIndex   = "invalid index"
	ReasonAlreadyActive  = "already active"
	ReasonTargetFainted  = "target is fainted"
	ReasonNotImplemented = "items are not implemented"
	ReasonNoAbility      = "no ability selected"
	ReasonNoSwitchTarget = "no switch target"
	ReasonUnknownAction  = "unknown action"
)

// Lineup is the view of a roster the switch predicate needs.
type Lineup interface {
	ActiveIndex() int
	Size() int
	Member(i int) *fighter.Combatant
}

// CanAttack reports whether c may act at all.
//
// Postcondition: Returns (false, ReasonFainted) when c has no HP,
// (false, ReasonStunned) when c is stunned, else (true, "").
func CanAttack(c *fighter.Combatant) (bool, string) {
	if !c.IsAlive() {
		return false, ReasonFainted
	}
	if c.IsStunned() {
		return false, ReasonStunned
	}
	return true, ""
}

// CanUseAbility reports whether c may use a right now.
// Checks run in order: CanAttack, cooldown, class restriction.
func CanUseAbility(c *fighter.Combatant, a *ability.Ability) (bool, string) {
	if ok, reason := CanAttack(c); !ok {
		return false, reason
	}
	if a.Remaining() > 0 {
		return false, fmt.Sprintf("on cooldown, %d turns left", a.Remaining())
	}
	if !a.UsableBy(c.Class) {
		return false, ReasonWrongClass
	}
	return true, ""
}

// CanSwitch reports whether l may field the member at target.
func CanSwitch(l Lineup, target int) (bool, string) {
	if target < 0 || target >= l.Size() {
		return false, ReasonInvalidIndex
	}
	if target == l.ActiveIndex() {
		return false, ReasonAlreadyActive
	}
	if !l.Member(target).IsAlive() {
		return false, ReasonTargetFainted
	}
	return true, ""
}

// Validate dispatches act to the matching predicate for actor fielded by l.
// For KindAbility, ab is the resolved ability and may be nil when the actor
// does not know it.
func Validate(act action.Action, actor *fighter.Combatant, l Lineup, ab *ability.Ability) (bool, string) {
	switch act.Kind {
	case action.KindAttack:
		return CanAttack(actor)
	case action.KindAbility:
		if ab == nil {
			return false, ReasonNoAbility
		}
		return CanUseAbility(actor, ab)
	case action.KindSwitch:
		if act.SwitchTarget == action.NoTarget {
			return false, ReasonNoSwitchTarget
		}
		return CanSwitch(l, act.SwitchTarget)
	case action.KindItem:
		return false, ReasonNotImplemented
	default:
		return false, ReasonUnknownAction
	}
}

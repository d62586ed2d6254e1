package combat

import (
	"slices"

	"github.com/cory-johannsen/arena/internal/game/fighter"
)

// FirstStriker decides which side acts first this turn.
// Higher priority wins outright; on equal priority the faster combatant wins;
// a full tie goes to SideA.
//
// Precondition: a and b must be non-nil.
// Postcondition: Returns SideA or SideB, never SideNone.
func FirstStriker(a *fighter.Combatant, prioA int, b *fighter.Combatant, prioB int) Side {
	if prioA != prioB {
		if prioA > prioB {
			return SideA
		}
		return SideB
	}
	if a.Stats.Speed() != b.Stats.Speed() {
		if a.Stats.Speed() > b.Stats.Speed() {
			return SideA
		}
		return SideB
	}
	return SideA
}

// Intent is one actor's claim on the turn order.
type Intent struct {
	Combatant *fighter.Combatant
	Side      Side
	// Priority is the chosen ability's priority, 0 for anything else.
	Priority int
}

// DetermineOrder returns intents sorted by priority descending, then speed
// descending, then side ascending. The input is not modified.
//
// Postcondition: The sort is stable; intents equal on all three keys keep input order.
func DetermineOrder(intents []Intent) []Intent {
	out := slices.Clone(intents)
	slices.SortStableFunc(out, func(x, y Intent) int {
		if x.Priority != y.Priority {
			return y.Priority - x.Priority
		}
		if sx, sy := x.Combatant.Stats.Speed(), y.Combatant.Stats.Speed(); sx != sy {
			return sy - sx
		}
		return int(x.Side) - int(y.Side)
	})
	return out
}

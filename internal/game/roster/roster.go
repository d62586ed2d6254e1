// Package roster models a side's fixed team of three combatants, one of which
// is fielded at a time.
package roster

import (
	"errors"
	"fmt"

	"github.com/cory-johannsen/arena/internal/game/fighter"
	"github.com/cory-johannsen/arena/internal/game/legality"
)

// Size is the number of combatants on every roster.
const Size = 3

// DefaultName is used when a roster is built without a name.
const DefaultName = "Team"

// reviveRatio is the share of max HP restored by ReviveAll.
const reviveRatio = 0.5

// Roster owns exactly Size combatants and tracks the fielded one.
// Invariant: exactly one member has Fielded set, the member at ActiveIndex.
type Roster struct {
	name    string
	members [Size]*fighter.Combatant
	active  int
}

// New builds a roster and fields the first member.
//
// Postcondition: Returns a Roster with ActiveIndex() == 0, or an error if
// len(members) != Size or any member is nil.
func New(name string, members []*fighter.Combatant) (*Roster, error) {
	if len(members) != Size {
		return nil, fmt.Errorf("roster must have exactly %d combatants, got %d", Size, len(members))
	}
	if name == "" {
		name = DefaultName
	}
	r := &Roster{name: name}
	for i, m := range members {
		if m == nil {
			return nil, fmt.Errorf("roster %q: slot %d is not a combatant", name, i)
		}
		for j := 0; j < i; j++ {
			if r.members[j] == m {
				return nil, fmt.Errorf("roster %q: combatant %q appears more than once", name, m.Name)
			}
		}
		m.Fielded = false
		r.members[i] = m
	}
	r.members[0].Fielded = true
	return r, nil
}

// Name returns the display name.
func (r *Roster) Name() string { return r.name }

// Size returns the number of members.
func (r *Roster) Size() int { return Size }

// ActiveIndex returns the index of the fielded member.
func (r *Roster) ActiveIndex() int { return r.active }

// Active returns the fielded member.
func (r *Roster) Active() *fighter.Combatant { return r.members[r.active] }

// Member returns the member at index i.
//
// Precondition: 0 <= i < Size.
func (r *Roster) Member(i int) *fighter.Combatant { return r.members[i] }

// Members returns the members in roster order.
func (r *Roster) Members() []*fighter.Combatant {
	out := make([]*fighter.Combatant, Size)
	copy(out, r.members[:])
	return out
}

// Switch fields the member at target if legality.CanSwitch allows it.
//
// Postcondition: Returns true iff the switch happened; on false nothing changes.
func (r *Roster) Switch(target int) bool {
	if ok, _ := legality.CanSwitch(r, target); !ok {
		return false
	}
	r.members[r.active].Fielded = false
	r.active = target
	r.members[target].Fielded = true
	return true
}

// ErrNoSurvivors is reported by AutoReplaceOnFaint when every member has fainted.
var ErrNoSurvivors = errors.New("no survivors")

// AutoReplaceOnFaint fields the first living member when the active one has fainted.
//
// Postcondition: Returns the active member unchanged if it is alive; otherwise
// switches to the first living member in roster order and returns it. Returns
// ErrNoSurvivors, leaving the active index unchanged, when none are alive.
func (r *Roster) AutoReplaceOnFaint() (*fighter.Combatant, error) {
	if r.Active().IsAlive() {
		return r.Active(), nil
	}
	for i, m := range r.members {
		if i == r.active || !m.IsAlive() {
			continue
		}
		r.Switch(i)
		return m, nil
	}
	return nil, ErrNoSurvivors
}

// IsDefeated reports whether every member has fainted.
func (r *Roster) IsDefeated() bool { return r.AliveCount() == 0 }

// AliveCount returns the number of members with HP left.
func (r *Roster) AliveCount() int {
	n := 0
	for _, m := range r.members {
		if m.IsAlive() {
			n++
		}
	}
	return n
}

// AliveMembers returns the living members in roster order.
func (r *Roster) AliveMembers() []*fighter.Combatant {
	var out []*fighter.Combatant
	for _, m := range r.members {
		if m.IsAlive() {
			out = append(out, m)
		}
	}
	return out
}

// SwitchTargets returns the indexes a switch could legally target.
func (r *Roster) SwitchTargets() []int {
	var out []int
	for i := range r.members {
		if ok, _ := legality.CanSwitch(r, i); ok {
			out = append(out, i)
		}
	}
	return out
}

// TotalHP returns the sum of current HP.
func (r *Roster) TotalHP() int {
	total := 0
	for _, m := range r.members {
		total += m.CurrentHP
	}
	return total
}

// MaxHP returns the sum of max HP.
func (r *Roster) MaxHP() int {
	total := 0
	for _, m := range r.members {
		total += m.MaxHP()
	}
	return total
}

// HPRatio returns TotalHP / MaxHP in [0, 1].
func (r *Roster) HPRatio() float64 {
	return float64(r.TotalHP()) / float64(r.MaxHP())
}

// ByName returns the first member named name, or nil.
func (r *Roster) ByName(name string) *fighter.Combatant {
	for _, m := range r.members {
		if m.Name == name {
			return m
		}
	}
	return nil
}

// IndexOf returns the index of c, or -1 if c is not a member.
func (r *Roster) IndexOf(c *fighter.Combatant) int {
	for i, m := range r.members {
		if m == c {
			return i
		}
	}
	return -1
}

// HealAll heals every living member by amount and returns the total restored.
func (r *Roster) HealAll(amount int) int {
	total := 0
	for _, m := range r.members {
		total += m.Heal(amount)
	}
	return total
}

// ReviveAll brings every fainted member back at half max HP and returns how many were revived.
func (r *Roster) ReviveAll() int {
	n := 0
	for _, m := range r.members {
		if m.Revive(reviveRatio) {
			n++
		}
	}
	return n
}

// ResetCombatStats zeroes every member's damage counters.
func (r *Roster) ResetCombatStats() {
	for _, m := range r.members {
		m.ResetCombatStats()
	}
}

// ReduceCooldowns lowers every member's ability cooldowns by n, benched members included.
func (r *Roster) ReduceCooldowns(n int) {
	for _, m := range r.members {
		m.ReduceCooldowns(n)
	}
}

// ResetCooldowns makes every member's abilities available.
func (r *Roster) ResetCooldowns() {
	for _, m := range r.members {
		m.ResetCooldowns()
	}
}

// DamageDealt returns the members' summed damage-dealt counters.
func (r *Roster) DamageDealt() int {
	total := 0
	for _, m := range r.members {
		total += m.DamageDealt
	}
	return total
}

// String renders the roster for logs.
func (r *Roster) String() string {
	return fmt.Sprintf("%s [%d/%d alive, %d HP]", r.name, r.AliveCount(), Size, r.TotalHP())
}

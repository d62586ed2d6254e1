package policy

import (
	"github.com/cory-johannsen/arena/internal/game/combat"
	"github.com/cory-johannsen/arena/internal/game/fighter"
	"github.com/cory-johannsen/arena/internal/game/roster"
	"github.com/cory-johannsen/arena/internal/scripting"
)

// BuildState constructs the script-facing snapshot of a battle from the
// deciding side's point of view.
//
// Precondition: own and opp must not be nil.
// Postcondition: Every roster member is represented in roster order.
func BuildState(own, opp *roster.Roster, snap combat.Snapshot) scripting.StateInfo {
	return scripting.StateInfo{
		Turn:     snap.Turn,
		MaxTurns: snap.MaxTurns,
		Own:      buildTeam(own),
		Opponent: buildTeam(opp),
	}
}

func buildTeam(r *roster.Roster) scripting.TeamInfo {
	members := r.Members()
	info := scripting.TeamInfo{
		Name:    r.Name(),
		Active:  r.ActiveIndex(),
		Members: make([]scripting.CombatantInfo, len(members)),
	}
	for i, m := range members {
		info.Members[i] = buildCombatant(m)
	}
	return info
}

func buildCombatant(c *fighter.Combatant) scripting.CombatantInfo {
	info := scripting.CombatantInfo{
		Name:    c.Name,
		Class:   c.Class.String(),
		HP:      c.CurrentHP,
		MaxHP:   c.MaxHP(),
		Attack:  c.EffectiveAttack(),
		Defense: c.Stats.Defense(),
		Speed:   c.Stats.Speed(),
		Stunned: c.IsStunned(),
	}
	for _, e := range c.Effects() {
		info.Statuses = append(info.Statuses, e.Kind.String())
	}
	for _, a := range c.Abilities {
		info.Abilities = append(info.Abilities, scripting.AbilityInfo{
			ID:        a.ID,
			Name:      a.Name,
			Category:  a.Category.String(),
			Ready:     a.Available() && a.UsableBy(c.Class),
			Remaining: a.Remaining(),
			Priority:  a.Priority,
			Damage:    a.DamageValue(),
			Heal:      a.HealValue(),
		})
	}
	return info
}

package ability

import (
	"sort"

	"github.com/cory-johannsen/arena/internal/game/affinity"
	"github.com/cory-johannsen/arena/internal/game/status"
)

func damage(n int) Effect {
	return Effect{Category: CategoryDamage, Magnitude: n, Probability: 1}
}

func inflict(k status.Kind, p float64, target Target) Effect {
	return Effect{Category: CategoryStatus, Status: k, Probability: p, Target: target}
}

func mustNew(id, name, desc string, cat Category, effects []Effect, cooldown, priority int, required affinity.Class) *Ability {
	a, err := New(id, name, desc, cat, effects, cooldown, priority, required)
	if err != nil {
		panic("ability: invalid preset: " + err.Error())
	}
	return a
}

// Presets returns fresh copies of the built-in abilities keyed by ID.
// Each call returns independent instances.
func Presets() map[string]*Ability {
	list := []*Ability{
		mustNew("power_strike", "Power Strike", "A heavy blow that deals high damage.",
			CategoryDamage, []Effect{damage(50)}, 1, 0, affinity.ClassNone),
		mustNew("quick_attack", "Quick Attack", "A fast strike that always goes first.",
			CategoryDamage, []Effect{damage(30)}, 0, 1, affinity.ClassNone),
		mustNew("fireball", "Fireball", "A ball of fire that may burn the target.",
			CategoryMixed, []Effect{damage(40), inflict(status.KindBurn, 0.3, TargetOpponent)}, 2, 0, affinity.ClassMage),
		mustNew("poison_strike", "Poison Strike", "A venomous strike that may poison the target.",
			CategoryMixed, []Effect{damage(30), inflict(status.KindPoison, 0.5, TargetOpponent)}, 2, 0, affinity.ClassRogue),
		mustNew("shield_bash", "Shield Bash", "A shield blow that may stun the target.",
			CategoryMixed, []Effect{damage(35), inflict(status.KindStun, 0.2, TargetOpponent)}, 3, 0, affinity.ClassTank),
		mustNew("heal", "Heal", "Restores the user's HP.",
			CategoryHeal, []Effect{{Category: CategoryHeal, Magnitude: 40, Probability: 1, Target: TargetSelf}}, 3, 0, affinity.ClassSupport),
		mustNew("battle_cry", "Battle Cry", "Raises the user's attack.",
			CategoryBuff, []Effect{inflict(status.KindBuff, 1, TargetSelf)}, 4, 0, affinity.ClassNone),
		mustNew("iron_defense", "Iron Defense", "Raises a protective shield.",
			CategoryBuff, []Effect{inflict(status.KindShield, 1, TargetSelf)}, 3, 0, affinity.ClassTank),
		mustNew("intimidate", "Intimidate", "Lowers the opponent's attack.",
			CategoryDebuff, []Effect{inflict(status.KindDebuff, 1, TargetOpponent)}, 3, 0, affinity.ClassNone),
	}
	out := make(map[string]*Ability, len(list))
	for _, a := range list {
		out[a.ID] = a
	}
	return out
}

// PresetIDs returns the built-in ability IDs in sorted order.
func PresetIDs() []string {
	p := Presets()
	ids := make([]string, 0, len(p))
	for id := range p {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

package content

import (
	"github.com/cory-johannsen/arena/internal/game/ability"
	"github.com/cory-johannsen/arena/internal/game/affinity"
	"github.com/cory-johannsen/arena/internal/game/status"
)

// BuiltinCharacters returns the character roster shipped with the binary. It
// mirrors content/characters.
func BuiltinCharacters() []*CharacterTemplate {
	return []*CharacterTemplate{
		{Name: "Valkyrie", Class: affinity.ClassWarrior, Description: "Shield-maiden who leads from the front.",
			Stats: StatsTemplate{HP: 110, Attack: 55, Defense: 20, Speed: 30}, Abilities: []string{"power_strike", "battle_cry"}},
		{Name: "Ronin", Class: affinity.ClassWarrior, Description: "Masterless blade, quick on the draw.",
			Stats: StatsTemplate{HP: 105, Attack: 60, Defense: 15, Speed: 35}, Abilities: []string{"power_strike", "quick_attack"}},
		{Name: "Pyro", Class: affinity.ClassMage, Description: "Fire caster with a short temper.",
			Stats: StatsTemplate{HP: 85, Attack: 60, Defense: 10, Speed: 40}, Abilities: []string{"fireball", "intimidate"}},
		{Name: "Frost", Class: affinity.ClassMage, Description: "Cold and calculating.",
			Stats: StatsTemplate{HP: 80, Attack: 55, Defense: 12, Speed: 42}, Abilities: []string{"fireball", "quick_attack"}},
		{Name: "Shadow", Class: affinity.ClassRogue, Description: "Strikes from the dark with poisoned steel.",
			Stats: StatsTemplate{HP: 90, Attack: 55, Defense: 15, Speed: 50}, Abilities: []string{"poison_strike", "quick_attack"}},
		{Name: "Goliath", Class: affinity.ClassTank, Description: "An unmovable wall of iron.",
			Stats: StatsTemplate{HP: 140, Attack: 35, Defense: 30, Speed: 15}, Abilities: []string{"shield_bash", "iron_defense"}},
		{Name: "Mender", Class: affinity.ClassSupport, Description: "Field medic who keeps the line standing.",
			Stats: StatsTemplate{HP: 100, Attack: 35, Defense: 20, Speed: 35}, Abilities: []string{"heal", "intimidate"}},
	}
}

// BuiltinTeams returns the preset teams shipped with the binary. It mirrors content/teams.
func BuiltinTeams() []*TeamTemplate {
	return []*TeamTemplate{
		{Name: "Balanced Team", Description: "A bit of everything.", Members: []string{"Valkyrie", "Pyro", "Mender"}},
		{Name: "Aggro Team", Description: "Hit first, hit hard.", Members: []string{"Shadow", "Ronin", "Frost"}},
		{Name: "Defensive Team", Description: "Outlast the opponent.", Members: []string{"Goliath", "Mender", "Valkyrie"}},
	}
}

// Builtin returns a catalog of the preset abilities, characters and teams,
// used when no content directory is configured.
//
// Precondition: reg must be non-nil.
func Builtin(reg *status.Registry) (*Catalog, error) {
	presets := ability.Presets()
	abs := make([]*ability.Ability, 0, len(presets))
	for _, id := range ability.PresetIDs() {
		abs = append(abs, presets[id])
	}
	return newCatalog(reg, abs, BuiltinCharacters(), BuiltinTeams())
}

package policy_test

import (
	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/arena/internal/game/ability"
	"github.com/cory-johannsen/arena/internal/game/affinity"
	"github.com/cory-johannsen/arena/internal/game/combat"
	"github.com/cory-johannsen/arena/internal/game/fighter"
	"github.com/cory-johannsen/arena/internal/game/roster"
	"github.com/cory-johannsen/arena/internal/game/status"
)

// fixedSource returns i mod n for every Intn and f for every Float64.
type fixedSource struct {
	i int
	f float64
}

func (s fixedSource) Intn(n int) int     { return s.i % n }
func (s fixedSource) Float64() float64 { return s.f }

func fighterOf(t require.TestingT, name string, class affinity.Class, hp, atk, def, spd int, abilityIDs ...string) *fighter.Combatant {
	presets := ability.Presets()
	abs := make([]*ability.Ability, 0, len(abilityIDs))
	for _, id := range abilityIDs {
		ab, ok := presets[id]
		require.True(t, ok, "unknown preset %s", id)
		abs = append(abs, ab)
	}
	c, err := fighter.New(name, class, fighter.MustNewStats(hp, atk, def, spd), abs, status.DefaultRegistry())
	require.NoError(t, err)
	return c
}

func team(t require.TestingT, name string, members ...*fighter.Combatant) *roster.Roster {
	r, err := roster.New(name, members)
	require.NoError(t, err)
	return r
}

func flatResolver() *combat.Resolver {
	return combat.NewResolver(affinity.Standard(), fixedSource{}, combat.WithoutVariance())
}

// lineups returns a warrior-led team against a support-led team.
func lineups(t require.TestingT) (own, opp *roster.Roster) {
	own = team(t, "Red",
		fighterOf(t, "Brute", affinity.ClassWarrior, 100, 20, 10, 30, "power_strike", "quick_attack"),
		fighterOf(t, "Sneak", affinity.ClassRogue, 90, 40, 10, 40, "poison_strike"),
		fighterOf(t, "Wall", affinity.ClassTank, 140, 30, 30, 10, "shield_bash", "iron_defense"),
	)
	opp = team(t, "Blue",
		fighterOf(t, "Medic", affinity.ClassSupport, 100, 30, 10, 20, "heal"),
		fighterOf(t, "Caster", affinity.ClassMage, 80, 50, 10, 35, "fireball"),
		fighterOf(t, "Blade", affinity.ClassWarrior, 100, 50, 15, 30, "power_strike"),
	)
	return own, opp
}

func snapshot() combat.Snapshot {
	return combat.Snapshot{Turn: 1, MaxTurns: 100, Phase: combat.PhaseInProgress}
}

package combat_test

import (
	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/arena/internal/game/ability"
	"github.com/cory-johannsen/arena/internal/game/affinity"
	"github.com/cory-johannsen/arena/internal/game/combat"
	"github.com/cory-johannsen/arena/internal/game/dice"
	"github.com/cory-johannsen/arena/internal/game/fighter"
	"github.com/cory-johannsen/arena/internal/game/roster"
	"github.com/cory-johannsen/arena/internal/game/status"
)

// fixedSource always returns the same draws.
type fixedSource struct {
	f float64
}

func (s fixedSource) Intn(n int) int   { return 0 }
func (s fixedSource) Float64() float64 { return s.f }

// panicSource fails any code path that draws randomness.
type panicSource struct{}

func (panicSource) Intn(int) int      { panic("unexpected random draw") }
func (panicSource) Float64() float64 { panic("unexpected random draw") }

var _ dice.Source = fixedSource{}

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

// flatResolver resolves damage without variance; status chances always succeed.
func flatResolver() *combat.Resolver {
	return combat.NewResolver(affinity.Standard(), fixedSource{}, combat.WithoutVariance())
}

func startedBattle(t require.TestingT, a, b *roster.Roster, maxTurns int, r *combat.Resolver) *combat.Battle {
	s, err := combat.NewSession(a, b, maxTurns)
	require.NoError(t, err)
	require.NoError(t, s.Start())
	return combat.NewBattle(s, r, nil)
}

func knockOut(c *fighter.Combatant) { c.TakeDamage(c.CurrentHP + 10000) }

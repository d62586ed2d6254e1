package combat_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/arena/internal/game/affinity"
	"github.com/cory-johannsen/arena/internal/game/combat"
)

func TestFirstStriker(t *testing.T) {
	fast := fighterOf(t, "Fast", affinity.ClassRogue, 100, 10, 10, 50)
	slow := fighterOf(t, "Slow", affinity.ClassTank, 100, 10, 10, 5)
	twin := fighterOf(t, "Twin", affinity.ClassTank, 100, 10, 10, 5)

	assert.Equal(t, combat.SideA, combat.FirstStriker(fast, 0, slow, 0), "speed decides")
	assert.Equal(t, combat.SideB, combat.FirstStriker(slow, 0, fast, 0), "speed decides")
	assert.Equal(t, combat.SideA, combat.FirstStriker(slow, 1, fast, 0), "priority beats speed")
	assert.Equal(t, combat.SideB, combat.FirstStriker(fast, 0, slow, 1), "priority beats speed")
	assert.Equal(t, combat.SideA, combat.FirstStriker(slow, 0, twin, 0), "full tie goes to A")
}

func TestFirstStriker_NeverNone(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		a := fighterOf(rt, "A", affinity.ClassWarrior, 10, 1, 1, rapid.IntRange(0, 100).Draw(rt, "sa"))
		b := fighterOf(rt, "B", affinity.ClassWarrior, 10, 1, 1, rapid.IntRange(0, 100).Draw(rt, "sb"))
		pa := rapid.IntRange(0, 3).Draw(rt, "pa")
		pb := rapid.IntRange(0, 3).Draw(rt, "pb")
		got := combat.FirstStriker(a, pa, b, pb)
		assert.NotEqual(rt, combat.SideNone, got)
		if pa == pb && a.Stats.Speed() == b.Stats.Speed() {
			assert.Equal(rt, combat.SideA, got)
		}
	})
}

func TestDetermineOrder(t *testing.T) {
	fast := fighterOf(t, "Fast", affinity.ClassRogue, 100, 10, 10, 50)
	slow := fighterOf(t, "Slow", affinity.ClassTank, 100, 10, 10, 5)
	slow2 := fighterOf(t, "Slow2", affinity.ClassTank, 100, 10, 10, 5)

	in := []combat.Intent{
		{Combatant: slow2, Side: combat.SideB},
		{Combatant: fast, Side: combat.SideA},
		{Combatant: slow, Side: combat.SideA},
		{Combatant: slow, Side: combat.SideB, Priority: 1},
	}
	got := combat.DetermineOrder(in)

	assert.Equal(t, 1, got[0].Priority)
	assert.Same(t, fast, got[1].Combatant)
	assert.Same(t, slow, got[2].Combatant)
	assert.Equal(t, combat.SideA, got[2].Side)
	assert.Same(t, slow2, got[3].Combatant)
	assert.Same(t, slow2, in[0].Combatant, "input is left untouched")
}

package combat_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/arena/internal/game/ability"
	"github.com/cory-johannsen/arena/internal/game/affinity"
	"github.com/cory-johannsen/arena/internal/game/combat"
	"github.com/cory-johannsen/arena/internal/game/dice"
	"github.com/cory-johannsen/arena/internal/game/status"
)

func TestResolveBasicAttack_TypedDamage(t *testing.T) {
	warrior := fighterOf(t, "W", affinity.ClassWarrior, 100, 50, 10, 10)
	rogue := fighterOf(t, "R", affinity.ClassRogue, 100, 40, 15, 10)

	res := flatResolver().ResolveBasicAttack(warrior, rogue)
	assert.Equal(t, 50, res.BaseDamage)
	assert.Equal(t, 1.5, res.TypeMultiplier)
	assert.Equal(t, 60, res.FinalDamage)
	assert.Equal(t, combat.LabelSuperEffective, res.Effectiveness)
	assert.Equal(t, 100, rogue.CurrentHP, "resolving must not apply")
}

func TestResolveAndApply_ShieldHalvesAfterDefense(t *testing.T) {
	attacker := fighterOf(t, "S1", affinity.ClassSupport, 100, 50, 10, 10)
	defender := fighterOf(t, "S2", affinity.ClassSupport, 100, 40, 20, 10)
	defender.ApplyStatus(status.KindShield)

	res := flatResolver().ResolveAndApply(attacker, defender, nil)
	assert.Equal(t, 15, res.FinalDamage)
	assert.Equal(t, 85, defender.CurrentHP)
	assert.Equal(t, 15, attacker.DamageDealt)
	assert.Equal(t, combat.LabelNormal, res.Effectiveness)
}

func TestResolveAndApply_ReportsActualDamage(t *testing.T) {
	warrior := fighterOf(t, "W", affinity.ClassWarrior, 100, 50, 10, 10)
	rogue := fighterOf(t, "R", affinity.ClassRogue, 100, 40, 15, 10)
	rogue.CurrentHP = 7

	res := flatResolver().ResolveAndApply(warrior, rogue, nil)
	assert.Equal(t, 7, res.FinalDamage)
	assert.Equal(t, 0, rogue.CurrentHP)
	assert.Equal(t, 7, warrior.DamageDealt)
	assert.Equal(t, 7, rogue.DamageReceived)
}

func TestResolveAbilityDamage_UsesAbilityMagnitude(t *testing.T) {
	mage := fighterOf(t, "M", affinity.ClassMage, 100, 5, 10, 10, "fireball")
	warrior := fighterOf(t, "W", affinity.ClassWarrior, 100, 50, 10, 10)
	mage.ApplyStatus(status.KindBuff)

	res := flatResolver().ResolveAbilityDamage(mage, warrior, mage.Ability("fireball"))
	assert.Equal(t, 40, res.BaseDamage)
	assert.Equal(t, 50, res.FinalDamage)
}

func TestResolveBasicAttack_UsesEffectiveAttack(t *testing.T) {
	a := fighterOf(t, "A", affinity.ClassSupport, 100, 55, 0, 10)
	d := fighterOf(t, "D", affinity.ClassSupport, 100, 10, 0, 10)
	a.ApplyStatus(status.KindBuff)

	assert.Equal(t, 71, flatResolver().ResolveBasicAttack(a, d).FinalDamage)
}

func TestResolve_MinimumOne(t *testing.T) {
	weak := fighterOf(t, "Weak", affinity.ClassWarrior, 100, 5, 0, 10)
	wall := fighterOf(t, "Wall", affinity.ClassTank, 100, 5, 100, 10)
	assert.Equal(t, 1, flatResolver().ResolveBasicAttack(weak, wall).FinalDamage)

	r := combat.NewResolver(affinity.Standard(), fixedSource{f: 0}, combat.WithVariance(0.5))
	assert.Equal(t, 1, r.ResolveBasicAttack(weak, wall).FinalDamage)
}

func TestResolve_VarianceScalesAfterDefense(t *testing.T) {
	warrior := fighterOf(t, "W", affinity.ClassWarrior, 100, 50, 10, 10)
	rogue := fighterOf(t, "R", affinity.ClassRogue, 100, 40, 15, 10)

	low := combat.NewResolver(affinity.Standard(), fixedSource{f: 0}, combat.WithVariance(0.5))
	assert.Equal(t, 30, low.ResolveBasicAttack(warrior, rogue).FinalDamage)

	mid := combat.NewResolver(affinity.Standard(), fixedSource{f: 0.5}, combat.WithVariance(0.5))
	assert.Equal(t, 60, mid.ResolveBasicAttack(warrior, rogue).FinalDamage)
}

func TestResolve_VarianceStaysInRange(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		atk := rapid.IntRange(0, 200).Draw(rt, "atk")
		def := rapid.IntRange(0, 100).Draw(rt, "def")
		seed := rapid.Uint64Range(1, 1<<40).Draw(rt, "seed")
		a := fighterOf(rt, "A", affinity.ClassMage, 100, atk, 0, 10)
		d := fighterOf(rt, "D", affinity.ClassWarrior, 100, 10, def, 10)

		r := combat.NewResolver(affinity.Standard(), dice.NewSeededSource(seed))
		lo, hi := r.EstimateRange(a, d, nil)
		got := r.ResolveBasicAttack(a, d).FinalDamage
		assert.GreaterOrEqual(rt, got, 1)
		assert.GreaterOrEqual(rt, got, lo-1)
		assert.LessOrEqual(rt, got, hi+1)
	})
}

func TestEstimateRange_DoesNotMutateOrDraw(t *testing.T) {
	warrior := fighterOf(t, "W", affinity.ClassWarrior, 100, 50, 10, 10)
	rogue := fighterOf(t, "R", affinity.ClassRogue, 100, 40, 15, 10, "power_strike")

	r := combat.NewResolver(affinity.Standard(), panicSource{}, combat.WithVariance(0.5))
	lo, hi := r.EstimateRange(warrior, rogue, nil)
	assert.Equal(t, 30, lo)
	assert.Equal(t, 90, hi)
	assert.Equal(t, 100, rogue.CurrentHP)
	assert.Equal(t, 0, warrior.DamageDealt)

	flat := combat.NewResolver(affinity.Standard(), panicSource{}, combat.WithoutVariance())
	lo, hi = flat.EstimateRange(rogue, warrior, ability.Presets()["power_strike"])
	assert.Equal(t, 15, lo)
	assert.Equal(t, lo, hi)
}

func TestEffectivenessLabel(t *testing.T) {
	assert.Equal(t, combat.LabelSuperEffective, combat.EffectivenessLabel(1.5))
	assert.Equal(t, combat.LabelNotVeryEffective, combat.EffectivenessLabel(0.5))
	assert.Equal(t, combat.LabelNotVeryEffective, combat.EffectivenessLabel(0))
	assert.Equal(t, combat.LabelNormal, combat.EffectivenessLabel(1.0))
}

func TestHealAndChance(t *testing.T) {
	r := combat.NewResolver(affinity.Standard(), fixedSource{f: 0.29})
	c := fighterOf(t, "C", affinity.ClassSupport, 100, 10, 10, 10)
	c.CurrentHP = 80
	assert.Equal(t, 20, r.Heal(c, 40))

	assert.True(t, r.Chance(0.3))
	assert.False(t, r.Chance(0.2))
	assert.False(t, r.Chance(0))
}

func TestWithVariance_NonPositiveDisables(t *testing.T) {
	r := combat.NewResolver(affinity.Standard(), panicSource{}, combat.WithVariance(0))
	v, on := r.Variance()
	assert.False(t, on)
	assert.Zero(t, v)

	warrior := fighterOf(t, "W", affinity.ClassWarrior, 100, 50, 10, 10)
	rogue := fighterOf(t, "R", affinity.ClassRogue, 100, 40, 15, 10)
	assert.Equal(t, 60, r.ResolveBasicAttack(warrior, rogue).FinalDamage)
}

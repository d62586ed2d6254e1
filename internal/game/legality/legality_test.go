package legality_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/arena/internal/game/ability"
	"github.com/cory-johannsen/arena/internal/game/action"
	"github.com/cory-johannsen/arena/internal/game/affinity"
	"github.com/cory-johannsen/arena/internal/game/fighter"
	"github.com/cory-johannsen/arena/internal/game/legality"
	"github.com/cory-johannsen/arena/internal/game/roster"
	"github.com/cory-johannsen/arena/internal/game/status"
)

func combatant(t *testing.T, name string, class affinity.Class, abilities ...*ability.Ability) *fighter.Combatant {
	t.Helper()
	c, err := fighter.New(name, class, fighter.MustNewStats(100, 30, 10, 20), abilities, status.DefaultRegistry())
	require.NoError(t, err)
	return c
}

func TestCanAttack(t *testing.T) {
	c := combatant(t, "A", affinity.ClassWarrior)
	ok, reason := legality.CanAttack(c)
	assert.True(t, ok)
	assert.Empty(t, reason)

	c.ApplyStatus(status.KindStun)
	ok, reason = legality.CanAttack(c)
	assert.False(t, ok)
	assert.Equal(t, legality.ReasonStunned, reason)

	c.TakeDamage(1000)
	ok, reason = legality.CanAttack(c)
	assert.False(t, ok)
	assert.Equal(t, legality.ReasonFainted, reason, "fainted is checked before stunned")
}

func TestCanUseAbility_CheckOrder(t *testing.T) {
	p := ability.Presets()
	fireball := p["fireball"]
	mage := combatant(t, "Mage", affinity.ClassMage, fireball)
	ok, _ := legality.CanUseAbility(mage, fireball)
	assert.True(t, ok)

	require.True(t, fireball.Use())
	ok, reason := legality.CanUseAbility(mage, fireball)
	assert.False(t, ok)
	assert.Equal(t, "on cooldown, 2 turns left", reason)

	warrior := combatant(t, "Warrior", affinity.ClassWarrior)
	fresh := ability.Presets()["fireball"]
	ok, reason = legality.CanUseAbility(warrior, fresh)
	assert.False(t, ok)
	assert.Equal(t, legality.ReasonWrongClass, reason)

	warrior.ApplyStatus(status.KindStun)
	_, reason = legality.CanUseAbility(warrior, fresh)
	assert.Equal(t, legality.ReasonStunned, reason)
}

func TestCanSwitch(t *testing.T) {
	r, err := roster.New("R", []*fighter.Combatant{
		combatant(t, "A", affinity.ClassWarrior),
		combatant(t, "B", affinity.ClassMage),
		combatant(t, "C", affinity.ClassRogue),
	})
	require.NoError(t, err)

	cases := []struct {
		target int
		ok     bool
		reason string
	}{
		{-1, false, legality.ReasonInvalidIndex},
		{3, false, legality.ReasonInvalidIndex},
		{0, false, legality.ReasonAlreadyActive},
		{1, true, ""},
	}
	for _, tc := range cases {
		ok, reason := legality.CanSwitch(r, tc.target)
		assert.Equal(t, tc.ok, ok, "target %d", tc.target)
		assert.Equal(t, tc.reason, reason, "target %d", tc.target)
	}

	r.Member(2).TakeDamage(1000)
	ok, reason := legality.CanSwitch(r, 2)
	assert.False(t, ok)
	assert.Equal(t, legality.ReasonTargetFainted, reason)
}

func TestValidate_Dispatch(t *testing.T) {
	heal := ability.Presets()["heal"]
	actor := combatant(t, "S", affinity.ClassSupport, heal)
	r, err := roster.New("R", []*fighter.Combatant{actor, combatant(t, "B", affinity.ClassMage), combatant(t, "C", affinity.ClassRogue)})
	require.NoError(t, err)

	ok, _ := legality.Validate(action.Attack(), actor, r, nil)
	assert.True(t, ok)

	ok, _ = legality.Validate(action.UseAbility("heal"), actor, r, heal)
	assert.True(t, ok)

	ok, reason := legality.Validate(action.UseAbility("nope"), actor, r, nil)
	assert.False(t, ok)
	assert.Equal(t, legality.ReasonNoAbility, reason)

	ok, _ = legality.Validate(action.SwitchTo(2), actor, r, nil)
	assert.True(t, ok)

	ok, reason = legality.Validate(action.Action{Kind: action.KindSwitch, SwitchTarget: action.NoTarget}, actor, r, nil)
	assert.False(t, ok)
	assert.Equal(t, legality.ReasonNoSwitchTarget, reason)

	ok, reason = legality.Validate(action.Item(), actor, r, nil)
	assert.False(t, ok)
	assert.Equal(t, legality.ReasonNotImplemented, reason)

	ok, reason = legality.Validate(action.Action{}, actor, r, nil)
	assert.False(t, ok)
	assert.Equal(t, legality.ReasonUnknownAction, reason)
}

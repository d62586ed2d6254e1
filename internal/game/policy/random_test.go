package policy_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/arena/internal/game/action"
	"github.com/cory-johannsen/arena/internal/game/dice"
	"github.com/cory-johannsen/arena/internal/game/legality"
	"github.com/cory-johannsen/arena/internal/game/policy"
	"github.com/cory-johannsen/arena/internal/game/status"
)

func TestRandom_WeightedChoice(t *testing.T) {
	cases := []struct {
		name string
		src  fixedSource
		want action.Action
	}{
		{"attack band", fixedSource{i: 0, f: 0.1}, action.Attack()},
		{"ability band", fixedSource{i: 1, f: 0.7}, action.UseAbility("quick_attack")},
		{"switch band", fixedSource{i: 1, f: 0.95}, action.SwitchTo(2)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			own, opp := lineups(t)
			got, err := policy.NewRandom(tc.src).Decide(context.Background(), own, opp, snapshot())
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestRandom_NoUsableAbilityAttacks(t *testing.T) {
	own, opp := lineups(t)
	for _, a := range own.Active().Abilities {
		require.True(t, a.Use())
	}
	got, err := policy.NewRandom(fixedSource{f: 0.7}).Decide(context.Background(), own, opp, snapshot())
	require.NoError(t, err)
	assert.Equal(t, action.Attack(), got)
}

func TestRandom_SwitchDraw(t *testing.T) {
	own, opp := lineups(t)
	got, err := policy.NewRandom(fixedSource{i: 0, f: 0.95}).Decide(context.Background(), own, opp, snapshot())
	require.NoError(t, err)
	assert.Equal(t, action.SwitchTo(1), got)

	own.Member(1).TakeDamage(1000)
	own.Member(2).TakeDamage(1000)
	got, err = policy.NewRandom(fixedSource{i: 0, f: 0.95}).Decide(context.Background(), own, opp, snapshot())
	require.NoError(t, err)
	assert.Equal(t, action.Attack(), got, "no bench left")
}

func TestWeights_Validate(t *testing.T) {
	assert.NoError(t, policy.DefaultWeights.Validate())
	assert.Error(t, policy.Weights{Attack: -1, Ability: 1}.Validate())
	assert.Error(t, policy.Weights{}.Validate())

	_, err := policy.NewWeightedRandom(fixedSource{}, policy.Weights{})
	assert.Error(t, err)

	r, err := policy.NewWeightedRandom(fixedSource{f: 0.99}, policy.Weights{Attack: 1})
	require.NoError(t, err)
	own, opp := lineups(t)
	got, err := r.Decide(context.Background(), own, opp, snapshot())
	require.NoError(t, err)
	assert.Equal(t, action.Attack(), got)
}

func TestRandom_DecisionsAreLegalOrAttack(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		own, opp := lineups(rt)
		if rapid.Bool().Draw(rt, "stunned") {
			own.Active().ApplyStatus(status.KindStun)
		}
		if rapid.Bool().Draw(rt, "bench fainted") {
			own.Member(1).TakeDamage(1000)
		}
		p := policy.NewRandom(dice.NewSeededSource(rapid.Uint64Min(1).Draw(rt, "seed")))
		for i := 0; i < 10; i++ {
			got, err := p.Decide(context.Background(), own, opp, snapshot())
			require.NoError(rt, err)
			switch got.Kind {
			case action.KindAbility:
				ab := own.Active().Ability(got.Ability)
				require.NotNil(rt, ab)
				ok, reason := legality.CanUseAbility(own.Active(), ab)
				assert.True(rt, ok, reason)
			case action.KindSwitch:
				ok, reason := legality.CanSwitch(own, got.SwitchTarget)
				assert.True(rt, ok, reason)
			default:
				assert.Equal(rt, action.KindAttack, got.Kind)
			}
		}
	})
}

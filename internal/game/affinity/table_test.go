package affinity_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/arena/internal/game/affinity"
)

func TestStandard_FixedRelations(t *testing.T) {
	tbl := affinity.Standard()
	cases := []struct {
		atk, def affinity.Class
		want     float64
	}{
		{affinity.ClassWarrior, affinity.ClassRogue, 1.5},
		{affinity.ClassRogue, affinity.ClassMage, 1.5},
		{affinity.ClassMage, affinity.ClassWarrior, 1.5},
		{affinity.ClassWarrior, affinity.ClassMage, 0.5},
		{affinity.ClassRogue, affinity.ClassWarrior, 0.5},
		{affinity.ClassMage, affinity.ClassRogue, 0.5},
		{affinity.ClassWarrior, affinity.ClassTank, 0.5},
		{affinity.ClassRogue, affinity.ClassTank, 0.5},
		{affinity.ClassMage, affinity.ClassTank, 1.5},
		{affinity.ClassTank, affinity.ClassWarrior, 1.0},
		{affinity.ClassWarrior, affinity.ClassWarrior, 1.0},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, tbl.Multiplier(tc.atk, tc.def), "%s vs %s", tc.atk, tc.def)
	}
}

func TestStandard_SupportNeutralBothWays(t *testing.T) {
	tbl := affinity.Standard()
	for _, c := range affinity.Classes {
		assert.Equal(t, 1.0, tbl.Multiplier(affinity.ClassSupport, c))
		assert.Equal(t, 1.0, tbl.Multiplier(c, affinity.ClassSupport))
	}
}

func TestProperty_MultiplierIsOneOfThreeTiers(t *testing.T) {
	tbl := affinity.Standard()
	rapid.Check(t, func(rt *rapid.T) {
		a := rapid.SampledFrom(affinity.Classes).Draw(rt, "attacker")
		d := rapid.SampledFrom(affinity.Classes).Draw(rt, "defender")
		m := tbl.Multiplier(a, d)
		assert.Contains(rt, []float64{0.5, 1.0, 1.5}, m)
		assert.Equal(rt, m, tbl.Multiplier(a, d), "lookup must be deterministic")
	})
}

func TestAdvantageAndScore(t *testing.T) {
	tbl := affinity.Standard()
	assert.Equal(t, affinity.AdvantageFavored, tbl.Advantage(affinity.ClassMage, affinity.ClassTank))
	assert.Equal(t, affinity.AdvantageUnfavored, tbl.Advantage(affinity.ClassRogue, affinity.ClassTank))
	assert.Equal(t, affinity.AdvantageNeutral, tbl.Advantage(affinity.ClassSupport, affinity.ClassMage))
	assert.Equal(t, 1, tbl.Score(affinity.ClassWarrior, affinity.ClassRogue))
	assert.Equal(t, -1, tbl.Score(affinity.ClassWarrior, affinity.ClassMage))
	assert.Equal(t, 0, tbl.Score(affinity.ClassTank, affinity.ClassTank))
	assert.Equal(t, "disadvantage", affinity.AdvantageUnfavored.String())
}

func TestBestAndWorstMatchup(t *testing.T) {
	tbl := affinity.Standard()
	bench := []affinity.Class{affinity.ClassRogue, affinity.ClassSupport, affinity.ClassMage}
	assert.Equal(t, 2, tbl.BestMatchup(bench, affinity.ClassWarrior))
	assert.Equal(t, 0, tbl.WorstMatchup(bench, affinity.ClassWarrior))
	assert.Equal(t, -1, tbl.BestMatchup(nil, affinity.ClassWarrior))
	assert.Equal(t, -1, tbl.WorstMatchup(nil, affinity.ClassWarrior))
}

func TestParseClass(t *testing.T) {
	c, err := affinity.ParseClass(" Mage ")
	require.NoError(t, err)
	assert.Equal(t, affinity.ClassMage, c)

	_, err = affinity.ParseClass("bard")
	assert.Error(t, err)

	var none affinity.Class
	require.NoError(t, none.UnmarshalText(nil))
	assert.Equal(t, affinity.ClassNone, none)
	assert.False(t, none.Valid())
}

package status_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/arena/internal/game/status"
)

func def(t *testing.T, k status.Kind) *status.Def {
	t.Helper()
	d, ok := status.DefaultRegistry().Get(k)
	require.True(t, ok)
	return d
}

func TestDefaultRegistry_Parameters(t *testing.T) {
	reg := status.DefaultRegistry()
	burn, _ := reg.Get(status.KindBurn)
	assert.Equal(t, 3, burn.Duration)
	assert.Equal(t, 0.05, burn.TickPercent(0))
	assert.Equal(t, 0.05, burn.TickPercent(3), "burn does not escalate")

	poison, _ := reg.Get(status.KindPoison)
	assert.Equal(t, 4, poison.Duration)
	assert.True(t, poison.Escalates)
	assert.InDelta(t, 0.15, poison.TickPercent(2), 1e-9)

	stun, _ := reg.Get(status.KindStun)
	assert.True(t, stun.BlocksAction)
	assert.False(t, stun.DealsDamage())

	shield, _ := reg.Get(status.KindShield)
	assert.Equal(t, 0.5, shield.DamageReduction)

	buff, _ := reg.Get(status.KindBuff)
	debuff, _ := reg.Get(status.KindDebuff)
	assert.Equal(t, 1.3, buff.AttackMultiplier)
	assert.Equal(t, 0.7, debuff.AttackMultiplier)
	assert.Len(t, reg.All(), len(status.Kinds))
}

func TestActiveSet_ApplyNew_StartsAtStackZero(t *testing.T) {
	s := status.NewActiveSet()
	s.Apply(def(t, status.KindPoison))
	assert.True(t, s.Has(status.KindPoison))
	assert.Equal(t, 0, s.Stacks(status.KindPoison))
	assert.Equal(t, 4, s.Remaining(status.KindPoison))
}

func TestActiveSet_Reapply_ResetsDurationAndEscalatesPoisonOnly(t *testing.T) {
	s := status.NewActiveSet()
	s.Apply(def(t, status.KindPoison))
	s.Apply(def(t, status.KindBurn))
	s.Tick()
	s.Tick()

	s.Apply(def(t, status.KindPoison))
	s.Apply(def(t, status.KindBurn))

	assert.Equal(t, 4, s.Remaining(status.KindPoison))
	assert.Equal(t, 1, s.Stacks(status.KindPoison))
	assert.Equal(t, 3, s.Remaining(status.KindBurn))
	assert.Equal(t, 0, s.Stacks(status.KindBurn))
	assert.Equal(t, 2, s.Len(), "re-apply never duplicates")
}

func TestActiveSet_Tick_RemovesExpired(t *testing.T) {
	s := status.NewActiveSet()
	s.Apply(def(t, status.KindStun))
	s.Apply(def(t, status.KindShield))

	expired := s.Tick()
	assert.Equal(t, []status.Kind{status.KindStun}, expired)
	assert.False(t, s.Has(status.KindStun))
	assert.True(t, s.Has(status.KindShield))

	expired = s.Tick()
	assert.Equal(t, []status.Kind{status.KindShield}, expired)
	assert.Zero(t, s.Len())
}

func TestActiveSet_RemoveAndClone(t *testing.T) {
	s := status.NewActiveSet()
	s.Apply(def(t, status.KindBuff))
	c := s.Clone()
	s.Remove(status.KindBuff)
	s.Remove(status.KindBuff)
	assert.False(t, s.Has(status.KindBuff))
	assert.True(t, c.Has(status.KindBuff), "clone is independent")
}

func TestProperty_ActiveSet_AtMostOnePerKind(t *testing.T) {
	reg := status.DefaultRegistry()
	rapid.Check(t, func(rt *rapid.T) {
		s := status.NewActiveSet()
		ops := rapid.SliceOfN(rapid.SampledFrom(status.Kinds), 1, 40).Draw(rt, "ops")
		tickEvery := rapid.IntRange(1, 5).Draw(rt, "tickEvery")
		for i, k := range ops {
			d, _ := reg.Get(k)
			s.Apply(d)
			if i%tickEvery == 0 {
				s.Tick()
			}
			seen := map[status.Kind]bool{}
			for _, a := range s.All() {
				assert.False(rt, seen[a.Kind], "duplicate %s", a.Kind)
				seen[a.Kind] = true
				assert.Greater(rt, a.Remaining, 0)
			}
		}
	})
}

func TestNewRegistry_RejectsIncompleteAndInvalid(t *testing.T) {
	_, err := status.NewRegistry([]status.Def{{Kind: status.KindBurn, Duration: 3, DamagePercent: 0.05}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "poison: missing")

	defs := status.DefaultDefs()
	defs[0].Duration = 0
	_, err = status.NewRegistry(defs)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duration must be >= 1")

	defs = append(status.DefaultDefs(), status.Def{Kind: status.KindStun, Duration: 1})
	_, err = status.NewRegistry(defs)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "defined more than once")
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "status.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
effects:
  - kind: burn
    duration: 2
    damage_percent: 0.1
  - kind: poison
    duration: 4
    damage_percent: 0.05
    stack_percent: 0.05
    escalates: true
  - kind: stun
    duration: 1
    blocks_action: true
  - kind: shield
    duration: 2
    damage_reduction: 0.5
  - kind: buff
    duration: 3
    attack_multiplier: 1.3
  - kind: debuff
    duration: 3
    attack_multiplier: 0.7
`), 0o644))

	reg, err := status.LoadFile(path)
	require.NoError(t, err)
	burn, ok := reg.Get(status.KindBurn)
	require.True(t, ok)
	assert.Equal(t, 2, burn.Duration)
	assert.Equal(t, 0.1, burn.DamagePercent)
}

func TestLoadBytes_UnknownFieldRejected(t *testing.T) {
	_, err := status.LoadBytes([]byte("effects:\n  - kind: burn\n    duration: 3\n    colour: red\n"))
	assert.Error(t, err)
}

func TestLoadBytes_UnknownKindRejected(t *testing.T) {
	_, err := status.LoadBytes([]byte("effects:\n  - kind: freeze\n    duration: 3\n"))
	assert.Error(t, err)
}

func TestLoadFile_Missing(t *testing.T) {
	_, err := status.LoadFile(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

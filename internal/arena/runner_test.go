package arena_test

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap/zaptest"

	"github.com/cory-johannsen/arena/internal/archive"
	mockarchive "github.com/cory-johannsen/arena/internal/archive/mock"
	"github.com/cory-johannsen/arena/internal/arena"
	"github.com/cory-johannsen/arena/internal/game/action"
	"github.com/cory-johannsen/arena/internal/game/combat"
	"github.com/cory-johannsen/arena/internal/game/content"
	"github.com/cory-johannsen/arena/internal/game/dice"
	"github.com/cory-johannsen/arena/internal/game/policy"
	"github.com/cory-johannsen/arena/internal/game/roster"
	"github.com/cory-johannsen/arena/internal/game/status"
	"github.com/cory-johannsen/arena/internal/narration"
)

func newRunner(t *testing.T, mutate func(*arena.Options)) (*arena.Runner, *combat.Engine) {
	t.Helper()
	cat, err := content.Builtin(status.DefaultRegistry())
	require.NoError(t, err)
	logger := zaptest.NewLogger(t)
	engine := combat.NewEngine(combat.DefaultMaxTurns, logger)
	opts := arena.Options{
		Catalog:         cat,
		Engine:          engine,
		Variance:        combat.DefaultVariance,
		VarianceEnabled: true,
		Policies:        arena.DefaultPolicies(nil, nil, logger),
		Logger:          logger,
	}
	if mutate != nil {
		mutate(&opts)
	}
	return arena.NewRunner(opts), engine
}

func greedyVsRandom(seed uint64) arena.Match {
	return arena.Match{
		TeamA:   "Aggro Team",
		TeamB:   "Balanced Team",
		PolicyA: arena.PolicySpec{Kind: policy.KindGreedy},
		PolicyB: arena.PolicySpec{Kind: policy.KindRandom},
		Seed:    seed,
	}
}

func TestPlay_FinishesAndUnregisters(t *testing.T) {
	r, engine := newRunner(t, nil)

	res, err := r.Play(context.Background(), greedyVsRandom(7))
	require.NoError(t, err)

	assert.NotEmpty(t, res.BattleID)
	assert.Equal(t, "Aggro Team", res.TeamA)
	assert.Equal(t, "Balanced Team", res.TeamB)
	assert.Equal(t, policy.KindGreedy, res.PolicyA)
	assert.Equal(t, policy.KindRandom, res.PolicyB)
	assert.Equal(t, combat.PhaseFinished, res.Summary.Phase)
	assert.NotEqual(t, combat.SideNone, res.Summary.Winner)
	assert.Len(t, res.Ledger, res.Summary.TotalActions)
	assert.LessOrEqual(t, res.Summary.TotalTurns, combat.DefaultMaxTurns)
	assert.False(t, res.Archived, "no archive configured")
	assert.Zero(t, engine.Len())
}

func TestPlay_SameSeedReplaysSameLedger(t *testing.T) {
	r, _ := newRunner(t, nil)

	first, err := r.Play(context.Background(), greedyVsRandom(42))
	require.NoError(t, err)
	second, err := r.Play(context.Background(), greedyVsRandom(42))
	require.NoError(t, err)

	assert.NotEqual(t, first.BattleID, second.BattleID)
	assert.Equal(t, first.Ledger, second.Ledger)
	assert.Equal(t, first.Summary, second.Summary)
}

func TestPlay_CustomRoster(t *testing.T) {
	r, _ := newRunner(t, nil)
	m := greedyVsRandom(3)
	m.TeamA = "Shadow, Ronin ,Frost"

	res, err := r.Play(context.Background(), m)
	require.NoError(t, err)
	assert.Equal(t, "Shadow/Ronin/Frost", res.TeamA)
}

func TestPlay_BadInputs(t *testing.T) {
	r, engine := newRunner(t, nil)

	m := greedyVsRandom(1)
	m.TeamB = "Nobody Team"
	_, err := r.Play(context.Background(), m)
	assert.ErrorContains(t, err, "team b")

	m = greedyVsRandom(1)
	m.TeamA = "Shadow,Ronin"
	_, err = r.Play(context.Background(), m)
	assert.ErrorContains(t, err, "team a")

	m = greedyVsRandom(1)
	m.PolicyB = arena.PolicySpec{Kind: "telepathy"}
	_, err = r.Play(context.Background(), m)
	assert.ErrorContains(t, err, "policy b")

	m = greedyVsRandom(1)
	m.PolicyA = arena.PolicySpec{Kind: policy.KindLua}
	_, err = r.Play(context.Background(), m)
	assert.ErrorContains(t, err, "policy a")

	assert.Zero(t, engine.Len())
}

func TestPlay_CancelledContext(t *testing.T) {
	r, engine := newRunner(t, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := r.Play(ctx, greedyVsRandom(5))
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, engine.Len())
}

func TestPlay_PolicyErrorFallsBackToAttack(t *testing.T) {
	failing := policy.Func{
		Label: "broken",
		Fn: func(context.Context, *roster.Roster, *roster.Roster, combat.Snapshot) (action.Action, error) {
			return action.Action{}, errors.New("no idea")
		},
	}
	r, _ := newRunner(t, func(o *arena.Options) {
		base := o.Policies
		o.Policies = func(spec arena.PolicySpec, src dice.Source, res *combat.Resolver) (policy.Policy, error) {
			if spec.Kind == "broken" {
				return failing, nil
			}
			return base(spec, src, res)
		}
	})
	m := greedyVsRandom(9)
	m.PolicyA = arena.PolicySpec{Kind: "broken"}

	res, err := r.Play(context.Background(), m)
	require.NoError(t, err)
	assert.Equal(t, "broken", res.PolicyA)

	var sideA int
	for _, rec := range res.Ledger {
		if rec.Side == combat.SideA {
			sideA++
			assert.Equal(t, action.KindAttack, rec.Kind, rec.String())
		}
	}
	assert.Positive(t, sideA)
}

func TestPlay_ArchivesFinishedMatch(t *testing.T) {
	store := archive.NewMemory(zaptest.NewLogger(t))
	r, _ := newRunner(t, func(o *arena.Options) { o.Archive = store })

	res, err := r.Play(context.Background(), greedyVsRandom(11))
	require.NoError(t, err)
	require.True(t, res.Archived)

	rec, err := store.Get(context.Background(), res.BattleID)
	require.NoError(t, err)
	assert.Equal(t, res.Winner(), rec.Winner)
	assert.Equal(t, res.Ledger, rec.Ledger)
	assert.Equal(t, policy.KindGreedy, rec.PolicyA)
	assert.False(t, rec.FinishedAt.Before(rec.StartedAt))
	assert.NoError(t, rec.Validate())
}

func TestPlay_ArchiveFailureKeepsResult(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mockarchive.NewMockArchive(ctrl)
	store.EXPECT().
		Save(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, rec archive.Record) error {
			assert.Equal(t, "Aggro Team", rec.TeamA)
			assert.Equal(t, combat.PhaseFinished, rec.Summary.Phase)
			return errors.New("disk full")
		})
	r, _ := newRunner(t, func(o *arena.Options) { o.Archive = store })

	res, err := r.Play(context.Background(), greedyVsRandom(13))
	require.NoError(t, err)
	assert.False(t, res.Archived)
	assert.Equal(t, combat.PhaseFinished, res.Summary.Phase)
}

func TestPlay_Narrates(t *testing.T) {
	var buf bytes.Buffer
	r, _ := newRunner(t, func(o *arena.Options) {
		o.Narration = &buf
		o.Renderer = narration.New(true)
	})

	res, err := r.Play(context.Background(), greedyVsRandom(17))
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "=== Aggro Team vs Balanced Team ===")
	assert.Contains(t, out, "--- Turn 1/100 ---")
	assert.Contains(t, out, "Battle over after")
	assert.Contains(t, out, "Winner: "+res.Winner())
	assert.NotContains(t, out, "\033[")
}

func TestPlay_WithoutVariance(t *testing.T) {
	r, _ := newRunner(t, func(o *arena.Options) { o.VarianceEnabled = false })
	m := greedyVsRandom(21)
	m.PolicyB = arena.PolicySpec{Kind: policy.KindGreedy}

	first, err := r.Play(context.Background(), m)
	require.NoError(t, err)
	second, err := r.Play(context.Background(), m)
	require.NoError(t, err)
	assert.Equal(t, first.Ledger, second.Ledger)
	assert.Equal(t, combat.PhaseFinished, first.Summary.Phase)
}

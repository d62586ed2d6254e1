// Package arena drives complete matches: it builds rosters from the content
// catalog, asks each side's policy for an action every turn, plays the turn
// through the combat engine, then archives and narrates the result.
package arena

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/arena/internal/archive"
	"github.com/cory-johannsen/arena/internal/game/action"
	"github.com/cory-johannsen/arena/internal/game/affinity"
	"github.com/cory-johannsen/arena/internal/game/combat"
	"github.com/cory-johannsen/arena/internal/game/content"
	"github.com/cory-johannsen/arena/internal/game/dice"
	"github.com/cory-johannsen/arena/internal/game/policy"
	"github.com/cory-johannsen/arena/internal/game/roster"
	"github.com/cory-johannsen/arena/internal/narration"
)

// PolicySpec names the policy for one side.
type PolicySpec struct {
	Kind string
	// Script is the loaded Lua script name for the lua kind.
	Script string
}

// String renders p as kind or kind:script.
func (p PolicySpec) String() string {
	if p.Script == "" {
		return p.Kind
	}
	return p.Kind + ":" + p.Script
}

// Match describes one battle to play.
type Match struct {
	// TeamA and TeamB are preset team names or comma separated character names.
	TeamA, TeamB     string
	PolicyA, PolicyB PolicySpec
	// Seed drives every random draw of the match; 0 uses the crypto source.
	Seed uint64
}

// Result is the outcome of one played match.
type Result struct {
	BattleID         string
	TeamA, TeamB     string
	PolicyA, PolicyB string
	Summary          combat.Summary
	Ledger           []combat.ActionRecord
	Duration         time.Duration
	// Archived is false when no archive is configured or saving failed.
	Archived bool
}

// Winner returns the winning team name, or "" for no winner.
func (r Result) Winner() string { return r.Summary.WinnerName() }

// PolicyBuilder builds the policy for one side of a match. src and resolver
// belong to that match alone.
type PolicyBuilder func(spec PolicySpec, src dice.Source, resolver *combat.Resolver) (policy.Policy, error)

// DefaultPolicies returns a PolicyBuilder over policy.New. scripts and
// completer may be nil when no lua or advisor policy is requested.
func DefaultPolicies(scripts policy.ScriptCaller, completer policy.Completer, logger *zap.Logger) PolicyBuilder {
	return func(spec PolicySpec, src dice.Source, resolver *combat.Resolver) (policy.Policy, error) {
		return policy.New(spec.Kind, policy.Deps{
			Source:    src,
			Resolver:  resolver,
			Scripts:   scripts,
			Script:    spec.Script,
			Completer: completer,
			Logger:    logger,
		})
	}
}

// Options configures a Runner.
type Options struct {
	Catalog *content.Catalog
	Engine  *combat.Engine
	// Table defaults to affinity.Standard.
	Table           *affinity.Table
	Variance        float64
	VarianceEnabled bool
	Policies        PolicyBuilder
	// Archive is optional; finished matches are saved when set.
	Archive archive.Archive
	// Narration is optional; each finished match is written to it in one piece.
	Narration io.Writer
	Renderer  *narration.Renderer
	Logger    *zap.Logger
}

// Runner plays matches. It is safe for concurrent use; every match gets its
// own rosters, dice source and resolver.
type Runner struct {
	catalog  *content.Catalog
	engine   *combat.Engine
	table    *affinity.Table
	variance float64
	vary     bool
	policies PolicyBuilder
	archive  archive.Archive
	out      io.Writer
	outMu    sync.Mutex
	renderer *narration.Renderer
	logger   *zap.Logger
}

// NewRunner creates a Runner.
//
// Precondition: opts.Catalog, opts.Engine and opts.Policies must be non-nil.
func NewRunner(opts Options) *Runner {
	if opts.Catalog == nil || opts.Engine == nil || opts.Policies == nil {
		panic("arena.NewRunner: catalog, engine and policies must not be nil")
	}
	r := &Runner{
		catalog:  opts.Catalog,
		engine:   opts.Engine,
		table:    opts.Table,
		variance: opts.Variance,
		vary:     opts.VarianceEnabled,
		policies: opts.Policies,
		archive:  opts.Archive,
		out:      opts.Narration,
		renderer: opts.Renderer,
		logger:   opts.Logger,
	}
	if r.table == nil {
		r.table = affinity.Standard()
	}
	if r.renderer == nil {
		r.renderer = narration.New(true)
	}
	if r.logger == nil {
		r.logger = zap.NewNop()
	}
	return r
}

// BuildTeam builds a fresh roster from a preset team name or from three comma
// separated character names.
func (r *Runner) BuildTeam(spec string) (*roster.Roster, error) {
	if !strings.Contains(spec, ",") {
		return r.catalog.BuildRoster(strings.TrimSpace(spec))
	}
	parts := strings.Split(spec, ",")
	members := make([]string, 0, len(parts))
	for _, p := range parts {
		members = append(members, strings.TrimSpace(p))
	}
	return r.catalog.BuildCustomRoster(strings.Join(members, "/"), members)
}

func (r *Runner) resolver(src dice.Source) *combat.Resolver {
	if !r.vary {
		return combat.NewResolver(r.table, src, combat.WithoutVariance())
	}
	return combat.NewResolver(r.table, src, combat.WithVariance(r.variance))
}

// Play runs m to completion.
//
// Postcondition: On success the battle is finished and no longer registered
// with the engine. A cancelled ctx aborts the match and returns ctx's error.
func (r *Runner) Play(ctx context.Context, m Match) (Result, error) {
	a, err := r.BuildTeam(m.TeamA)
	if err != nil {
		return Result{}, fmt.Errorf("team a: %w", err)
	}
	b, err := r.BuildTeam(m.TeamB)
	if err != nil {
		return Result{}, fmt.Errorf("team b: %w", err)
	}

	var src dice.Source = dice.NewSource(m.Seed)
	if r.logger.Core().Enabled(zap.DebugLevel) {
		src = dice.NewLoggedSource(src, r.logger)
	}
	resolver := r.resolver(src)

	polA, err := r.policies(m.PolicyA, src, resolver)
	if err != nil {
		return Result{}, fmt.Errorf("policy a: %w", err)
	}
	polB, err := r.policies(m.PolicyB, src, resolver)
	if err != nil {
		return Result{}, fmt.Errorf("policy b: %w", err)
	}

	started := time.Now()
	id, bt, err := r.engine.StartBattle(a, b, resolver)
	if err != nil {
		return Result{}, fmt.Errorf("starting battle: %w", err)
	}
	defer r.engine.EndBattle(id)

	logger := r.logger.With(zap.String("battle_id", id))
	logger.Info("match started",
		zap.String("team_a", a.Name()),
		zap.String("team_b", b.Name()),
		zap.String("policy_a", polA.Name()),
		zap.String("policy_b", polB.Name()),
		zap.Uint64("seed", m.Seed),
	)

	s := bt.Session()
	for !s.Finished() {
		if err := ctx.Err(); err != nil {
			logger.Info("match aborted", zap.Int("turn", s.Turn()), zap.Error(err))
			return Result{}, fmt.Errorf("battle %s: %w", id, err)
		}
		snap := s.Snapshot()
		actA := decide(ctx, logger, polA, a, b, snap)
		actB := decide(ctx, logger, polB, b, a, snap)
		if err := bt.PlayTurn(actA, actB); err != nil {
			return Result{}, fmt.Errorf("battle %s turn %d: %w", id, s.Turn(), err)
		}
	}
	finished := time.Now()

	res := Result{
		BattleID: id,
		TeamA:    a.Name(),
		TeamB:    b.Name(),
		PolicyA:  polA.Name(),
		PolicyB:  polB.Name(),
		Summary:  s.Summary(),
		Ledger:   s.History(),
		Duration: finished.Sub(started),
	}
	logger.Info("match finished",
		zap.String("winner", res.Winner()),
		zap.Int("turns", res.Summary.TotalTurns),
		zap.Int("actions", res.Summary.TotalActions),
		zap.Duration("elapsed", res.Duration),
	)

	if r.archive != nil {
		rec := archive.Record{
			ID:         id,
			TeamA:      res.TeamA,
			TeamB:      res.TeamB,
			PolicyA:    res.PolicyA,
			PolicyB:    res.PolicyB,
			Winner:     res.Winner(),
			Summary:    res.Summary,
			Ledger:     res.Ledger,
			StartedAt:  started,
			FinishedAt: finished,
		}
		if err := r.archive.Save(ctx, rec); err != nil {
			logger.Error("archiving match", zap.Error(err))
		} else {
			res.Archived = true
		}
	}

	r.narrate(res, s.MaxTurns(), a, b)
	return res, nil
}

// decide asks p for an action and falls back to a basic attack on error.
func decide(ctx context.Context, logger *zap.Logger, p policy.Policy, own, opp *roster.Roster, snap combat.Snapshot) action.Action {
	act, err := p.Decide(ctx, own, opp, snap)
	if err != nil {
		lvl := zap.WarnLevel
		if errors.Is(err, context.Canceled) {
			lvl = zap.DebugLevel
		}
		logger.Log(lvl, "policy failed, attacking",
			zap.String("policy", p.Name()),
			zap.String("team", own.Name()),
			zap.Int("turn", snap.Turn),
			zap.Error(err),
		)
		return action.Attack()
	}
	return act
}

func (r *Runner) narrate(res Result, maxTurns int, a, b *roster.Roster) {
	if r.out == nil {
		return
	}
	var sb strings.Builder
	sb.WriteString(r.renderer.Banner(res.TeamA, res.TeamB))
	sb.WriteString("\n")
	sb.WriteString(r.renderer.Ledger(res.Ledger, maxTurns))
	sb.WriteString(r.renderer.Roster(a))
	sb.WriteString("\n")
	sb.WriteString(r.renderer.Roster(b))
	sb.WriteString("\n")
	sb.WriteString(r.renderer.Summary(res.Summary))
	sb.WriteString("\n\n")

	r.outMu.Lock()
	defer r.outMu.Unlock()
	if _, err := io.WriteString(r.out, sb.String()); err != nil {
		r.logger.Warn("writing narration", zap.String("battle_id", res.BattleID), zap.Error(err))
	}
}

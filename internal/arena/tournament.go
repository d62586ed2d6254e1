package arena

import (
	"context"
	"fmt"
	"sort"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/cory-johannsen/arena/internal/game/combat"
)

// Tournament describes a series of identical matchups.
type Tournament struct {
	Battles          int
	TeamA, TeamB     string
	PolicyA, PolicyB PolicySpec
	// Seed of the first battle; battle i uses Seed+i. 0 keeps every battle on
	// the crypto source.
	Seed uint64
}

// Matches expands t into its battles.
//
// Postcondition: Returns max(t.Battles, 0) matches.
func (t Tournament) Matches() []Match {
	if t.Battles <= 0 {
		return nil
	}
	out := make([]Match, t.Battles)
	for i := range out {
		seed := t.Seed
		if seed != 0 {
			seed += uint64(i)
		}
		out[i] = Match{
			TeamA:   t.TeamA,
			TeamB:   t.TeamB,
			PolicyA: t.PolicyA,
			PolicyB: t.PolicyB,
			Seed:    seed,
		}
	}
	return out
}

// PlayMany plays matches with at most parallelism running at once.
//
// Precondition: parallelism values below 1 are treated as 1.
// Postcondition: results[i] is the result of matches[i]. The first failing
// match cancels the rest and its error is returned.
func (r *Runner) PlayMany(ctx context.Context, matches []Match, parallelism int) ([]Result, error) {
	if parallelism < 1 {
		parallelism = 1
	}
	results := make([]Result, len(matches))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(parallelism)
	for i, m := range matches {
		g.Go(func() error {
			res, err := r.Play(gctx, m)
			if err != nil {
				return fmt.Errorf("match %d: %w", i, err)
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	r.logger.Info("tournament finished",
		zap.Int("battles", len(matches)),
		zap.Int("parallelism", parallelism),
	)
	return results, nil
}

// Standing is one team's tournament record.
type Standing struct {
	Team   string
	Wins   int
	Losses int
	Draws  int
	// Turns sums the turns of every battle the team played.
	Turns int
}

// Battles is the number of battles the team played.
func (s Standing) Battles() int { return s.Wins + s.Losses + s.Draws }

// AverageTurns is the mean battle length, or 0 before any battle.
func (s Standing) AverageTurns() float64 {
	if n := s.Battles(); n > 0 {
		return float64(s.Turns) / float64(n)
	}
	return 0
}

// Tally aggregates results per team name. A team fielded on both sides of a
// battle is credited with both outcomes.
//
// Postcondition: Sorted by wins descending, then losses ascending, then name.
func Tally(results []Result) []Standing {
	byTeam := make(map[string]*Standing)
	get := func(team string) *Standing {
		s, ok := byTeam[team]
		if !ok {
			s = &Standing{Team: team}
			byTeam[team] = s
		}
		return s
	}
	for _, res := range results {
		a, b := get(res.TeamA), get(res.TeamB)
		a.Turns += res.Summary.TotalTurns
		b.Turns += res.Summary.TotalTurns
		switch res.Summary.Winner {
		case combat.SideA:
			a.Wins++
			b.Losses++
		case combat.SideB:
			b.Wins++
			a.Losses++
		default:
			a.Draws++
			b.Draws++
		}
	}

	out := make([]Standing, 0, len(byTeam))
	for _, s := range byTeam {
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Wins != out[j].Wins {
			return out[i].Wins > out[j].Wins
		}
		if out[i].Losses != out[j].Losses {
			return out[i].Losses < out[j].Losses
		}
		return out[i].Team < out[j].Team
	})
	return out
}

package policy

import (
	"context"

	"github.com/cory-johannsen/arena/internal/game/action"
	"github.com/cory-johannsen/arena/internal/game/affinity"
	"github.com/cory-johannsen/arena/internal/game/combat"
	"github.com/cory-johannsen/arena/internal/game/roster"
)

// LowHPRatio is the HP ratio below which Greedy heals or retreats.
const LowHPRatio = 0.35

// Greedy maximizes expected damage this turn. When its active member is low
// it heals if it can, else retreats from an unfavored matchup to the bench
// member with the best matchup against the opposing active member.
type Greedy struct {
	resolver *combat.Resolver
}

// NewGreedy returns a Greedy policy estimating damage with resolver.
//
// Precondition: resolver must be non-nil.
func NewGreedy(resolver *combat.Resolver) *Greedy {
	if resolver == nil {
		panic("policy.NewGreedy: resolver must not be nil")
	}
	return &Greedy{resolver: resolver}
}

// Name returns "greedy".
func (g *Greedy) Name() string { return KindGreedy }

// Decide never draws randomness and never returns an error.
func (g *Greedy) Decide(_ context.Context, own, opp *roster.Roster, _ combat.Snapshot) (action.Action, error) {
	me, foe := own.Active(), opp.Active()
	if me.HPRatio() < LowHPRatio {
		if act, ok := g.heal(own); ok {
			return act, nil
		}
		if act, ok := g.retreat(own, opp); ok {
			return act, nil
		}
	}

	best := action.Attack()
	lo, hi := g.resolver.EstimateRange(me, foe, nil)
	bestDmg := lo + hi
	for _, a := range me.UsableAbilities() {
		if a.DamageValue() == 0 {
			continue
		}
		lo, hi := g.resolver.EstimateRange(me, foe, a)
		if lo+hi > bestDmg {
			best, bestDmg = action.UseAbility(a.ID), lo+hi
		}
	}
	return best, nil
}

// heal picks the usable ability restoring the most HP.
func (g *Greedy) heal(own *roster.Roster) (action.Action, bool) {
	var bestID string
	bestHeal := 0
	for _, a := range own.Active().UsableAbilities() {
		if h := a.HealValue(); h > bestHeal {
			bestID, bestHeal = a.ID, h
		}
	}
	if bestHeal == 0 {
		return action.Action{}, false
	}
	return action.UseAbility(bestID), true
}

// retreat switches out of an unfavored matchup to the bench member with the
// best matchup against foe, unless foe is favored against that member too.
func (g *Greedy) retreat(own, opp *roster.Roster) (action.Action, bool) {
	table := g.resolver.Table()
	me, foe := own.Active(), opp.Active()
	if table.Advantage(foe.Class, me.Class) != affinity.AdvantageFavored {
		return action.Action{}, false
	}
	targets := own.SwitchTargets()
	classes := make([]affinity.Class, len(targets))
	for i, t := range targets {
		classes[i] = own.Member(t).Class
	}
	idx := table.BestMatchup(classes, foe.Class)
	if idx < 0 || table.Advantage(foe.Class, classes[idx]) == affinity.AdvantageFavored {
		return action.Action{}, false
	}
	return action.SwitchTo(targets[idx]), true
}

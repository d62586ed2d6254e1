package combat

import (
	"github.com/cory-johannsen/arena/internal/game/ability"
	"github.com/cory-johannsen/arena/internal/game/affinity"
	"github.com/cory-johannsen/arena/internal/game/dice"
	"github.com/cory-johannsen/arena/internal/game/fighter"
)

// DefaultVariance is the default damage spread: final damage is scaled by a
// factor drawn uniformly from [0.9, 1.1].
const DefaultVariance = 0.1

// Effectiveness labels attached to every DamageResult.
const (
	LabelSuperEffective   = "Super effective!"
	LabelNotVeryEffective = "Not very effective..."
	LabelNormal           = "Normal"
)

// DamageResult is the outcome of one damage computation.
type DamageResult struct {
	// BaseDamage is the effective attack, or the ability's summed damage magnitude.
	BaseDamage int
	// TypeMultiplier is the affinity multiplier for the attacker/defender classes.
	TypeMultiplier float64
	// FinalDamage is the amount handed to the defender. After ResolveAndApply it
	// is the amount actually removed.
	FinalDamage int
	// Effectiveness is one of the Label constants.
	Effectiveness string
}

// EffectivenessLabel maps a multiplier to its display label.
func EffectivenessLabel(multiplier float64) string {
	switch {
	case multiplier >= affinity.Strong:
		return LabelSuperEffective
	case multiplier <= affinity.Weak:
		return LabelNotVeryEffective
	default:
		return LabelNormal
	}
}

// Resolver computes and applies damage. It owns the affinity table and the
// random source; both are read-only after construction.
type Resolver struct {
	table           *affinity.Table
	src             dice.Source
	variance        float64
	varianceEnabled bool
}

// ResolverOption configures a Resolver.
type ResolverOption func(*Resolver)

// WithVariance sets the damage spread. A non-positive value disables variance.
func WithVariance(v float64) ResolverOption {
	return func(r *Resolver) {
		if v <= 0 {
			r.varianceEnabled = false
			r.variance = 0
			return
		}
		r.variance = v
		r.varianceEnabled = true
	}
}

// WithoutVariance disables the random damage spread. EstimateRange then
// returns a single point.
func WithoutVariance() ResolverOption {
	return func(r *Resolver) { r.varianceEnabled = false }
}

// NewResolver creates a Resolver with variance on at DefaultVariance.
//
// Precondition: table and src must be non-nil.
func NewResolver(table *affinity.Table, src dice.Source, opts ...ResolverOption) *Resolver {
	r := &Resolver{
		table:           table,
		src:             src,
		variance:        DefaultVariance,
		varianceEnabled: true,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Table returns the affinity table used for multipliers.
func (r *Resolver) Table() *affinity.Table { return r.table }

// Variance returns the configured spread and whether it is applied.
func (r *Resolver) Variance() (float64, bool) { return r.variance, r.varianceEnabled }

// ResolveBasicAttack computes the damage of attacker's basic attack on
// defender without applying it.
//
// Postcondition: FinalDamage >= 1.
func (r *Resolver) ResolveBasicAttack(attacker, defender *fighter.Combatant) DamageResult {
	return r.compute(attacker, defender, attacker.EffectiveAttack(), r.varianceEnabled)
}

// ResolveAbilityDamage computes the damage of ab used by attacker on defender
// without applying it. The base is the ability's summed damage magnitude, so
// attack modifiers do not affect ability damage.
//
// Postcondition: FinalDamage >= 1.
func (r *Resolver) ResolveAbilityDamage(attacker, defender *fighter.Combatant, ab *ability.Ability) DamageResult {
	return r.compute(attacker, defender, ab.DamageValue(), r.varianceEnabled)
}

func (r *Resolver) compute(attacker, defender *fighter.Combatant, base int, withVariance bool) DamageResult {
	mult := r.table.Multiplier(attacker.Class, defender.Class)
	typed := int(float64(base) * mult)
	dmg := max(1, typed-defender.Stats.Defense())
	if withVariance {
		factor := dice.Uniform(r.src, 1-r.variance, 1+r.variance)
		dmg = int(float64(dmg) * factor)
	}
	return DamageResult{
		BaseDamage:     base,
		TypeMultiplier: mult,
		FinalDamage:    max(1, dmg),
		Effectiveness:  EffectivenessLabel(mult),
	}
}

// Apply hands res.FinalDamage to the defender and credits the attacker with
// the damage actually removed.
//
// Postcondition: Returns the HP removed from defender.
func (r *Resolver) Apply(attacker, defender *fighter.Combatant, res DamageResult) int {
	actual := defender.TakeDamage(res.FinalDamage)
	attacker.DamageDealt += actual
	return actual
}

// ResolveAndApply computes and applies damage in one step. A nil ab means a
// basic attack.
//
// Postcondition: The returned FinalDamage is the HP actually removed.
func (r *Resolver) ResolveAndApply(attacker, defender *fighter.Combatant, ab *ability.Ability) DamageResult {
	var res DamageResult
	if ab == nil {
		res = r.ResolveBasicAttack(attacker, defender)
	} else {
		res = r.ResolveAbilityDamage(attacker, defender, ab)
	}
	res.FinalDamage = r.Apply(attacker, defender, res)
	return res
}

// EstimateRange predicts the damage spread of a basic attack (ab == nil) or
// of ab without mutating anything or drawing randomness.
//
// Postcondition: 1 <= lo <= hi.
func (r *Resolver) EstimateRange(attacker, defender *fighter.Combatant, ab *ability.Ability) (lo, hi int) {
	base := attacker.EffectiveAttack()
	if ab != nil {
		base = ab.DamageValue()
	}
	mid := r.compute(attacker, defender, base, false).FinalDamage
	if !r.varianceEnabled {
		return mid, mid
	}
	lo = max(1, int(float64(mid)*(1-r.variance)))
	hi = max(1, int(float64(mid)*(1+r.variance)))
	return lo, hi
}

// Heal restores up to amount HP on target.
//
// Postcondition: Returns the HP actually restored; 0 for a fainted target.
func (r *Resolver) Heal(target *fighter.Combatant, amount int) int {
	return target.Heal(amount)
}

// Chance rolls an application probability against the resolver's source.
func (r *Resolver) Chance(p float64) bool {
	return dice.Chance(r.src, p)
}

// Source returns the resolver's random source.
func (r *Resolver) Source() dice.Source { return r.src }

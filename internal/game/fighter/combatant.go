package fighter

import (
	"errors"
	"fmt"

	"github.com/cory-johannsen/arena/internal/game/ability"
	"github.com/cory-johannsen/arena/internal/game/affinity"
	"github.com/cory-johannsen/arena/internal/game/status"
)

// Combatant is one fighter in a battle.
// It is not safe for concurrent use; a battle owns its combatants exclusively.
type Combatant struct {
	Name      string
	Class     affinity.Class
	Stats     Stats
	CurrentHP int
	Abilities []*ability.Ability
	// Fielded is true while this combatant is its roster's active member.
	Fielded bool
	// DamageDealt and DamageReceived are lifetime counters for this battle.
	DamageDealt    int
	DamageReceived int

	registry *status.Registry
	effects  *status.ActiveSet
}

// New constructs a combatant at full HP with no active effects.
//
// Precondition: stats must come from NewStats.
// Postcondition: Returns a Combatant with CurrentHP == stats.HP(), or an error
// if name is empty, class is not concrete, more than ability.MaxPerCombatant
// abilities are given, or reg is nil.
func New(name string, class affinity.Class, stats Stats, abilities []*ability.Ability, reg *status.Registry) (*Combatant, error) {
	if name == "" {
		return nil, errors.New("combatant: name must not be empty")
	}
	if !class.Valid() {
		return nil, fmt.Errorf("combatant %q: invalid class %d", name, class)
	}
	if stats.HP() <= 0 {
		return nil, fmt.Errorf("combatant %q: stats must be built with NewStats", name)
	}
	if len(abilities) > ability.MaxPerCombatant {
		return nil, fmt.Errorf("combatant %q: at most %d abilities allowed, got %d", name, ability.MaxPerCombatant, len(abilities))
	}
	if reg == nil {
		return nil, fmt.Errorf("combatant %q: status registry must not be nil", name)
	}
	for i, a := range abilities {
		if a == nil {
			return nil, fmt.Errorf("combatant %q: ability %d is nil", name, i)
		}
	}
	return &Combatant{
		Name:      name,
		Class:     class,
		Stats:     stats,
		CurrentHP: stats.HP(),
		Abilities: append([]*ability.Ability(nil), abilities...),
		registry:  reg,
		effects:   status.NewActiveSet(),
	}, nil
}

// MaxHP returns the base HP stat.
func (c *Combatant) MaxHP() int { return c.Stats.HP() }

// IsAlive reports whether CurrentHP > 0.
func (c *Combatant) IsAlive() bool { return c.CurrentHP > 0 }

// HPRatio returns CurrentHP / MaxHP in [0, 1].
func (c *Combatant) HPRatio() float64 {
	return float64(c.CurrentHP) / float64(c.MaxHP())
}

// TakeDamage applies incoming damage after defense and any damage-reducing
// effect. Defense is applied first, then each reduction; both stages floor at 1.
//
// Precondition: amount >= 0.
// Postcondition: Returns the HP actually removed, in [1, CurrentHP before the
// call] when alive; CurrentHP never goes below zero.
func (c *Combatant) TakeDamage(amount int) int {
	after := max(1, amount-c.Stats.Defense())
	for _, k := range status.Kinds {
		d, ok := c.registry.Get(k)
		if !ok || d.DamageReduction <= 0 || !c.effects.Has(k) {
			continue
		}
		after = max(1, int(float64(after)*(1-d.DamageReduction)))
	}
	actual := min(after, c.CurrentHP)
	c.CurrentHP -= actual
	c.DamageReceived += actual
	return actual
}

// Heal restores up to amount HP, capped at MaxHP.
//
// Postcondition: Returns 0 and changes nothing if the combatant has fainted;
// otherwise returns the HP actually restored.
func (c *Combatant) Heal(amount int) int {
	if !c.IsAlive() || amount <= 0 {
		return 0
	}
	before := c.CurrentHP
	c.CurrentHP = min(c.MaxHP(), c.CurrentHP+amount)
	return c.CurrentHP - before
}

// ApplyStatus adds or refreshes the effect k.
//
// Postcondition: Returns false iff k is not defined by the registry.
func (c *Combatant) ApplyStatus(k status.Kind) bool {
	d, ok := c.registry.Get(k)
	if !ok {
		return false
	}
	c.effects.Apply(d)
	return true
}

// RemoveStatus clears the effect k if present.
func (c *Combatant) RemoveStatus(k status.Kind) { c.effects.Remove(k) }

// HasStatus reports whether k is active.
func (c *Combatant) HasStatus(k status.Kind) bool { return c.effects.Has(k) }

// StatusStacks returns the stack count of k.
func (c *Combatant) StatusStacks(k status.Kind) int { return c.effects.Stacks(k) }

// Effects returns copies of the active effects in application order.
func (c *Combatant) Effects() []status.Active { return c.effects.All() }

// IsStunned reports whether any active effect blocks action.
func (c *Combatant) IsStunned() bool {
	for _, a := range c.effects.All() {
		if d, ok := c.registry.Get(a.Kind); ok && d.BlocksAction {
			return true
		}
	}
	return false
}

// ProcessStatusEffects runs the start-of-turn effect step: every damaging
// effect deals floor(maxHP * percent) clamped to current HP, escalating effects
// gain a stack, then every effect's duration drops by one and expired effects
// are removed.
//
// Postcondition: Returns the damage dealt per damaging kind; empty if none fired.
func (c *Combatant) ProcessStatusEffects() map[status.Kind]int {
	dealt := make(map[status.Kind]int)
	for _, a := range c.effects.All() {
		d, ok := c.registry.Get(a.Kind)
		if !ok || !d.DealsDamage() {
			continue
		}
		dmg := int(float64(c.MaxHP()) * d.TickPercent(a.Stacks))
		dmg = min(dmg, c.CurrentHP)
		c.CurrentHP -= dmg
		dealt[a.Kind] = dmg
		if d.Escalates {
			c.effects.Escalate(a.Kind)
		}
	}
	c.effects.Tick()
	return dealt
}

// EffectiveAttack returns the attack stat after attack-scaling effects, applied
// in registry kind order with truncation after each multiplication.
func (c *Combatant) EffectiveAttack() int {
	atk := c.Stats.Attack()
	for _, k := range status.Kinds {
		d, ok := c.registry.Get(k)
		if !ok || d.AttackMultiplier == 0 || !c.effects.Has(k) {
			continue
		}
		atk = int(float64(atk) * d.AttackMultiplier)
	}
	return atk
}

// Ability returns the ability with the given ID, or nil.
func (c *Combatant) Ability(id string) *ability.Ability {
	for _, a := range c.Abilities {
		if a.ID == id {
			return a
		}
	}
	return nil
}

// UsableAbilities returns the abilities that are off cooldown and allowed for this class.
func (c *Combatant) UsableAbilities() []*ability.Ability {
	var out []*ability.Ability
	for _, a := range c.Abilities {
		if a.Available() && a.UsableBy(c.Class) {
			out = append(out, a)
		}
	}
	return out
}

// ReduceCooldowns lowers every ability's cooldown by n, flooring at zero.
func (c *Combatant) ReduceCooldowns(n int) {
	for _, a := range c.Abilities {
		a.ReduceCooldown(n)
	}
}

// ResetCooldowns makes every ability available.
func (c *Combatant) ResetCooldowns() {
	for _, a := range c.Abilities {
		a.ResetCooldown()
	}
}

// Revive restores a fainted combatant to floor(MaxHP * ratio) HP, at least 1,
// and clears its effects. Living combatants are unchanged.
//
// Postcondition: Returns true iff the combatant was revived.
func (c *Combatant) Revive(ratio float64) bool {
	if c.IsAlive() {
		return false
	}
	c.CurrentHP = max(1, min(c.MaxHP(), int(float64(c.MaxHP())*ratio)))
	c.effects.Clear()
	return true
}

// ResetCombatStats zeroes the damage counters.
func (c *Combatant) ResetCombatStats() {
	c.DamageDealt = 0
	c.DamageReceived = 0
}

// Clone returns a deep copy that shares no mutable state with c.
// Abilities, including their current cooldowns, and active effects are copied.
func (c *Combatant) Clone() *Combatant {
	cp := *c
	cp.Abilities = make([]*ability.Ability, len(c.Abilities))
	for i, a := range c.Abilities {
		cp.Abilities[i] = a.Clone()
	}
	cp.effects = c.effects.Clone()
	return &cp
}

// String renders the combatant for logs.
func (c *Combatant) String() string {
	return fmt.Sprintf("%s (%s) %d/%d HP", c.Name, c.Class, c.CurrentHP, c.MaxHP())
}

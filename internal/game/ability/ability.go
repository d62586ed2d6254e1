// Package ability defines the special actions a combatant can use in battle
// and their cooldown bookkeeping.
package ability

import (
	"errors"
	"fmt"
	"strings"

	"github.com/cory-johannsen/arena/internal/game/affinity"
	"github.com/cory-johannsen/arena/internal/game/status"
)

// Category classifies an ability or one of its effects.
// The zero value (CategoryNone) is intentionally invalid.
type Category int

const (
	CategoryNone Category = iota
	CategoryDamage
	CategoryHeal
	CategoryStatus
	CategoryBuff
	CategoryDebuff
	CategoryMixed
)

var categoryNames = map[Category]string{
	CategoryDamage: "damage",
	CategoryHeal:   "heal",
	CategoryStatus: "status",
	CategoryBuff:   "buff",
	CategoryDebuff: "debuff",
	CategoryMixed:  "mixed",
}

// String returns the lower-case category name.
func (c Category) String() string {
	if n, ok := categoryNames[c]; ok {
		return n
	}
	return "none"
}

// UnmarshalText decodes a category from its name.
func (c *Category) UnmarshalText(text []byte) error {
	for k, n := range categoryNames {
		if strings.EqualFold(string(text), n) {
			*c = k
			return nil
		}
	}
	return fmt.Errorf("unknown ability category %q", string(text))
}

// MarshalText encodes the category by name.
func (c Category) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// Target selects who an effect lands on.
type Target int

const (
	TargetOpponent Target = iota
	TargetSelf
)

// String returns "opponent" or "self".
func (t Target) String() string {
	if t == TargetSelf {
		return "self"
	}
	return "opponent"
}

// UnmarshalText decodes a target. Empty input decodes to TargetOpponent.
func (t *Target) UnmarshalText(text []byte) error {
	switch strings.ToLower(string(text)) {
	case "", "opponent":
		*t = TargetOpponent
	case "self":
		*t = TargetSelf
	default:
		return fmt.Errorf("unknown effect target %q", string(text))
	}
	return nil
}

// MarshalText encodes the target by name.
func (t Target) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// MaxPerCombatant is the most abilities a single combatant may carry.
const MaxPerCombatant = 4

// Effect is one component of an ability.
type Effect struct {
	Category Category
	// Magnitude is damage for CategoryDamage and healing for CategoryHeal.
	Magnitude int
	// Status is the effect to apply for CategoryStatus; KindNone otherwise.
	Status status.Kind
	// Probability is the chance in [0, 1] that a status effect lands.
	Probability float64
	Target      Target
}

// Validate checks the effect's construction invariants.
func (e Effect) Validate() error {
	if e.Probability < 0 || e.Probability > 1 {
		return fmt.Errorf("probability must be in [0, 1], got %v", e.Probability)
	}
	if e.Magnitude < 0 {
		return fmt.Errorf("magnitude must be >= 0, got %d", e.Magnitude)
	}
	if e.Category == CategoryStatus && !e.Status.Valid() {
		return errors.New("status effect must name a status kind")
	}
	if _, ok := categoryNames[e.Category]; !ok {
		return fmt.Errorf("invalid effect category %d", e.Category)
	}
	return nil
}

// Ability is a special action with its own effects, cooldown and priority.
// Cooldown state is per instance; use Clone to give each combatant its own copy.
type Ability struct {
	ID          string
	Name        string
	Description string
	Category    Category
	Effects     []Effect
	Cooldown    int
	Priority    int
	// RequiredClass restricts use to one class; ClassNone means unrestricted.
	RequiredClass affinity.Class

	remaining int
}

// New constructs an Ability and validates it.
//
// Postcondition: Returns an Ability with zero cooldown remaining, or an error
// if effects is empty, any effect is invalid, or cooldown/priority is negative.
func New(id, name, description string, category Category, effects []Effect, cooldown, priority int, required affinity.Class) (*Ability, error) {
	a := &Ability{
		ID:            id,
		Name:          name,
		Description:   description,
		Category:      category,
		Effects:       append([]Effect(nil), effects...),
		Cooldown:      cooldown,
		Priority:      priority,
		RequiredClass: required,
	}
	if err := a.Validate(); err != nil {
		return nil, err
	}
	return a, nil
}

// Validate checks the ability's construction invariants.
func (a *Ability) Validate() error {
	if a.ID == "" {
		return errors.New("ability: id must not be empty")
	}
	if a.Name == "" {
		return fmt.Errorf("ability %q: name must not be empty", a.ID)
	}
	if len(a.Effects) == 0 {
		return fmt.Errorf("ability %q: must declare at least one effect", a.ID)
	}
	if a.Cooldown < 0 {
		return fmt.Errorf("ability %q: cooldown must be >= 0, got %d", a.ID, a.Cooldown)
	}
	if a.Priority < 0 {
		return fmt.Errorf("ability %q: priority must be >= 0, got %d", a.ID, a.Priority)
	}
	for i, e := range a.Effects {
		if err := e.Validate(); err != nil {
			return fmt.Errorf("ability %q: effect %d: %w", a.ID, i, err)
		}
	}
	return nil
}

// Remaining returns the turns left before the ability can be used again.
func (a *Ability) Remaining() int { return a.remaining }

// Available reports whether the ability is off cooldown.
func (a *Ability) Available() bool { return a.remaining == 0 }

// Use puts the ability on cooldown.
//
// Postcondition: Returns false and changes nothing if the ability is on cooldown;
// otherwise Remaining() == Cooldown and returns true.
func (a *Ability) Use() bool {
	if !a.Available() {
		return false
	}
	a.remaining = a.Cooldown
	return true
}

// ReduceCooldown lowers the remaining cooldown by n, flooring at zero.
func (a *Ability) ReduceCooldown(n int) {
	a.remaining -= n
	if a.remaining < 0 {
		a.remaining = 0
	}
}

// ResetCooldown makes the ability immediately available.
func (a *Ability) ResetCooldown() { a.remaining = 0 }

// UsableBy reports whether class c satisfies the class restriction.
func (a *Ability) UsableBy(c affinity.Class) bool {
	return a.RequiredClass == affinity.ClassNone || a.RequiredClass == c
}

// DamageValue returns the summed magnitude of the damage effects.
func (a *Ability) DamageValue() int {
	total := 0
	for _, e := range a.Effects {
		if e.Category == CategoryDamage {
			total += e.Magnitude
		}
	}
	return total
}

// HealValue returns the summed magnitude of the heal effects.
func (a *Ability) HealValue() int {
	total := 0
	for _, e := range a.Effects {
		if e.Category == CategoryHeal {
			total += e.Magnitude
		}
	}
	return total
}

// StatusEffects returns the status-applying effects in declaration order.
func (a *Ability) StatusEffects() []Effect {
	var out []Effect
	for _, e := range a.Effects {
		if e.Category == CategoryStatus && e.Status.Valid() {
			out = append(out, e)
		}
	}
	return out
}

// Clone returns an independent copy, including the current cooldown.
func (a *Ability) Clone() *Ability {
	cp := *a
	cp.Effects = append([]Effect(nil), a.Effects...)
	return &cp
}

// String renders the ability with its readiness for logs.
func (a *Ability) String() string {
	if a.Available() {
		return fmt.Sprintf("%s (ready)", a.Name)
	}
	return fmt.Sprintf("%s (cooldown %d)", a.Name, a.remaining)
}

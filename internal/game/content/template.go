// Package content loads ability, character and team definitions from YAML and
// builds fresh battle-ready combatants and rosters from them.
package content

import (
	"errors"
	"fmt"

	"github.com/cory-johannsen/arena/internal/game/ability"
	"github.com/cory-johannsen/arena/internal/game/affinity"
	"github.com/cory-johannsen/arena/internal/game/fighter"
	"github.com/cory-johannsen/arena/internal/game/roster"
	"github.com/cory-johannsen/arena/internal/game/status"
)

// EffectTemplate is one effect of an ability definition.
type EffectTemplate struct {
	Category  ability.Category `yaml:"category"`
	Magnitude int              `yaml:"magnitude"`
	Status    status.Kind      `yaml:"status"`
	// Probability defaults to 1 when omitted.
	Probability *float64       `yaml:"probability"`
	Target      ability.Target `yaml:"target"`
}

func (e EffectTemplate) effect() ability.Effect {
	p := 1.0
	if e.Probability != nil {
		p = *e.Probability
	}
	return ability.Effect{
		Category:    e.Category,
		Magnitude:   e.Magnitude,
		Status:      e.Status,
		Probability: p,
		Target:      e.Target,
	}
}

// AbilityTemplate defines an ability loaded from YAML.
type AbilityTemplate struct {
	ID            string           `yaml:"id"`
	Name          string           `yaml:"name"`
	Description   string           `yaml:"description"`
	Category      ability.Category `yaml:"category"`
	Cooldown      int              `yaml:"cooldown"`
	Priority      int              `yaml:"priority"`
	RequiredClass affinity.Class   `yaml:"required_class"`
	Effects       []EffectTemplate `yaml:"effects"`
}

// Build validates the template and constructs the ability.
//
// Postcondition: Returns a ready ability with no cooldown remaining, or an error.
func (t *AbilityTemplate) Build() (*ability.Ability, error) {
	effects := make([]ability.Effect, len(t.Effects))
	for i, e := range t.Effects {
		effects[i] = e.effect()
	}
	a, err := ability.New(t.ID, t.Name, t.Description, t.Category, effects, t.Cooldown, t.Priority, t.RequiredClass)
	if err != nil {
		return nil, fmt.Errorf("ability %q: %w", t.ID, err)
	}
	return a, nil
}

// StatsTemplate is the YAML form of fighter.Stats.
type StatsTemplate struct {
	HP      int `yaml:"hp"`
	Attack  int `yaml:"attack"`
	Defense int `yaml:"defense"`
	Speed   int `yaml:"speed"`
}

// Stats converts the template into validated stats.
func (s StatsTemplate) Stats() (fighter.Stats, error) {
	return fighter.NewStats(s.HP, s.Attack, s.Defense, s.Speed)
}

// CharacterTemplate defines a combatant archetype. Abilities are ability IDs.
type CharacterTemplate struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Class       affinity.Class `yaml:"class"`
	Stats       StatsTemplate  `yaml:"stats"`
	Abilities   []string       `yaml:"abilities"`
}

// Validate checks the template's own invariants. Ability IDs are resolved by
// the Catalog.
//
// Precondition: t must not be nil.
// Postcondition: Returns nil iff Name is non-empty, Class is concrete, Stats
// are valid and at most four distinct abilities are listed.
func (t *CharacterTemplate) Validate() error {
	var errs []error
	if t.Name == "" {
		errs = append(errs, errors.New("name must not be empty"))
	}
	if !t.Class.Valid() {
		errs = append(errs, fmt.Errorf("class %q is not valid", t.Class))
	}
	if _, err := t.Stats.Stats(); err != nil {
		errs = append(errs, err)
	}
	if len(t.Abilities) > ability.MaxPerCombatant {
		errs = append(errs, fmt.Errorf("at most %d abilities, got %d", ability.MaxPerCombatant, len(t.Abilities)))
	}
	seen := make(map[string]bool, len(t.Abilities))
	for _, id := range t.Abilities {
		if seen[id] {
			errs = append(errs, fmt.Errorf("ability %q listed twice", id))
		}
		seen[id] = true
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("character %q: %w", t.Name, err)
	}
	return nil
}

// TeamTemplate is a preset roster: a name and three character names.
type TeamTemplate struct {
	Name        string   `yaml:"name"`
	Description string   `yaml:"description"`
	Members     []string `yaml:"members"`
}

// Validate checks the team's own invariants. Member names are resolved by the Catalog.
//
// Postcondition: Returns nil iff Name is non-empty and exactly three distinct members are listed.
func (t *TeamTemplate) Validate() error {
	if t.Name == "" {
		return errors.New("team: name must not be empty")
	}
	if len(t.Members) != roster.Size {
		return fmt.Errorf("team %q: must list exactly %d members, got %d", t.Name, roster.Size, len(t.Members))
	}
	seen := make(map[string]bool, len(t.Members))
	for _, m := range t.Members {
		if seen[m] {
			return fmt.Errorf("team %q: member %q listed twice", t.Name, m)
		}
		seen[m] = true
	}
	return nil
}

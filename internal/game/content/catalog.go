package content

import (
	"fmt"
	"sort"

	"github.com/cory-johannsen/arena/internal/game/ability"
	"github.com/cory-johannsen/arena/internal/game/fighter"
	"github.com/cory-johannsen/arena/internal/game/roster"
	"github.com/cory-johannsen/arena/internal/game/status"
)

// Catalog holds validated definitions and builds independent battle instances
// from them. A Catalog is immutable after construction and safe for concurrent use.
type Catalog struct {
	registry   *status.Registry
	abilities  map[string]*ability.Ability
	characters map[string]*CharacterTemplate
	teams      map[string]*TeamTemplate
}

// NewCatalog validates the definitions and their cross references.
//
// Precondition: reg must be non-nil.
// Postcondition: Every character's abilities and every team's members resolve,
// or an error naming the first dangling reference or duplicate is returned.
func NewCatalog(reg *status.Registry, abilities []*AbilityTemplate, characters []*CharacterTemplate, teams []*TeamTemplate) (*Catalog, error) {
	built := make([]*ability.Ability, 0, len(abilities))
	for _, t := range abilities {
		a, err := t.Build()
		if err != nil {
			return nil, fmt.Errorf("catalog: %w", err)
		}
		built = append(built, a)
	}
	return newCatalog(reg, built, characters, teams)
}

func newCatalog(reg *status.Registry, abilities []*ability.Ability, characters []*CharacterTemplate, teams []*TeamTemplate) (*Catalog, error) {
	if reg == nil {
		return nil, fmt.Errorf("catalog: status registry must not be nil")
	}
	c := &Catalog{
		registry:   reg,
		abilities:  make(map[string]*ability.Ability, len(abilities)),
		characters: make(map[string]*CharacterTemplate, len(characters)),
		teams:      make(map[string]*TeamTemplate, len(teams)),
	}
	for _, a := range abilities {
		if _, dup := c.abilities[a.ID]; dup {
			return nil, fmt.Errorf("catalog: duplicate ability %q", a.ID)
		}
		c.abilities[a.ID] = a
	}
	for _, t := range characters {
		if err := t.Validate(); err != nil {
			return nil, fmt.Errorf("catalog: %w", err)
		}
		if _, dup := c.characters[t.Name]; dup {
			return nil, fmt.Errorf("catalog: duplicate character %q", t.Name)
		}
		for _, id := range t.Abilities {
			if _, ok := c.abilities[id]; !ok {
				return nil, fmt.Errorf("catalog: character %q references unknown ability %q", t.Name, id)
			}
		}
		c.characters[t.Name] = t
	}
	for _, t := range teams {
		if err := t.Validate(); err != nil {
			return nil, fmt.Errorf("catalog: %w", err)
		}
		if _, dup := c.teams[t.Name]; dup {
			return nil, fmt.Errorf("catalog: duplicate team %q", t.Name)
		}
		for _, m := range t.Members {
			if _, ok := c.characters[m]; !ok {
				return nil, fmt.Errorf("catalog: team %q references unknown character %q", t.Name, m)
			}
		}
		c.teams[t.Name] = t
	}
	return c, nil
}

// Registry returns the status registry combatants are built with.
func (c *Catalog) Registry() *status.Registry { return c.registry }

// Ability returns a fresh copy of the ability with the given ID.
func (c *Catalog) Ability(id string) (*ability.Ability, bool) {
	a, ok := c.abilities[id]
	if !ok {
		return nil, false
	}
	return a.Clone(), true
}

// Character returns the template with the given name.
func (c *Catalog) Character(name string) (*CharacterTemplate, bool) {
	t, ok := c.characters[name]
	return t, ok
}

// Team returns the preset team with the given name.
func (c *Catalog) Team(name string) (*TeamTemplate, bool) {
	t, ok := c.teams[name]
	return t, ok
}

// Abilities returns the ability IDs in sorted order.
func (c *Catalog) Abilities() []string { return sortedKeys(c.abilities) }

// Characters returns the character names in sorted order.
func (c *Catalog) Characters() []string { return sortedKeys(c.characters) }

// Teams returns the preset team names in sorted order.
func (c *Catalog) Teams() []string { return sortedKeys(c.teams) }

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// NewCombatant builds a fresh combatant from the named template. The result
// shares no mutable state with the catalog or any other combatant.
//
// Postcondition: Returns a combatant at full HP with every ability ready, or an error.
func (c *Catalog) NewCombatant(name string) (*fighter.Combatant, error) {
	t, ok := c.characters[name]
	if !ok {
		return nil, fmt.Errorf("unknown character %q", name)
	}
	stats, err := t.Stats.Stats()
	if err != nil {
		return nil, fmt.Errorf("character %q: %w", name, err)
	}
	abs := make([]*ability.Ability, len(t.Abilities))
	for i, id := range t.Abilities {
		abs[i] = c.abilities[id].Clone()
		abs[i].ResetCooldown()
	}
	return fighter.New(t.Name, t.Class, stats, abs, c.registry)
}

// BuildRoster builds a fresh roster for the named preset team.
func (c *Catalog) BuildRoster(teamName string) (*roster.Roster, error) {
	t, ok := c.teams[teamName]
	if !ok {
		return nil, fmt.Errorf("unknown team %q", teamName)
	}
	return c.BuildCustomRoster(t.Name, t.Members)
}

// BuildCustomRoster builds a fresh roster named name from three character names.
//
// Postcondition: Every member is a new combatant; two rosters built from the
// same names never share ability cooldowns or effects.
func (c *Catalog) BuildCustomRoster(name string, members []string) (*roster.Roster, error) {
	if len(members) != roster.Size {
		return nil, fmt.Errorf("roster %q: need exactly %d members, got %d", name, roster.Size, len(members))
	}
	built := make([]*fighter.Combatant, 0, len(members))
	for _, m := range members {
		cbt, err := c.NewCombatant(m)
		if err != nil {
			return nil, fmt.Errorf("roster %q: %w", name, err)
		}
		built = append(built, cbt)
	}
	return roster.New(name, built)
}

// Package fighter models a single combatant: its immutable base stats, current
// HP, abilities, active status effects and lifetime damage counters.
package fighter

import (
	"errors"
	"fmt"
)

// Stats is an immutable quadruple of base values.
// HP is the maximum, not the current, hit points.
type Stats struct {
	hp      int
	attack  int
	defense int
	speed   int
}

// NewStats validates and builds a Stats value.
//
// Postcondition: Returns Stats with hp > 0 and every other value >= 0, or an
// error naming every violation.
func NewStats(hp, attack, defense, speed int) (Stats, error) {
	var errs []error
	if hp <= 0 {
		errs = append(errs, fmt.Errorf("hp must be > 0, got %d", hp))
	}
	if attack < 0 {
		errs = append(errs, fmt.Errorf("attack must be >= 0, got %d", attack))
	}
	if defense < 0 {
		errs = append(errs, fmt.Errorf("defense must be >= 0, got %d", defense))
	}
	if speed < 0 {
		errs = append(errs, fmt.Errorf("speed must be >= 0, got %d", speed))
	}
	if len(errs) > 0 {
		return Stats{}, fmt.Errorf("invalid stats: %w", errors.Join(errs...))
	}
	return Stats{hp: hp, attack: attack, defense: defense, speed: speed}, nil
}

// MustNewStats is NewStats for fixtures and built-in content; it panics on error.
func MustNewStats(hp, attack, defense, speed int) Stats {
	s, err := NewStats(hp, attack, defense, speed)
	if err != nil {
		panic("fighter: " + err.Error())
	}
	return s
}

func (s Stats) HP() int      { return s.hp }
func (s Stats) Attack() int  { return s.attack }
func (s Stats) Defense() int { return s.defense }
func (s Stats) Speed() int   { return s.speed }

// Total returns the sum of all four values.
func (s Stats) Total() int { return s.hp + s.attack + s.defense + s.speed }

// String renders the stats compactly for logs.
func (s Stats) String() string {
	return fmt.Sprintf("HP:%d ATK:%d DEF:%d SPD:%d", s.hp, s.attack, s.defense, s.speed)
}

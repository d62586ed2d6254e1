// Package combat implements the battle engine: turn order, damage resolution,
// victory determination, the battle session state machine and per-turn
// orchestration.
package combat

import (
	"fmt"

	"github.com/cory-johannsen/arena/internal/game/roster"
)

// Side identifies one of the two rosters in a battle.
type Side int

const (
	// SideNone means no side, e.g. no winner yet.
	SideNone Side = iota
	// SideA is the first roster; it wins every full tie.
	SideA
	// SideB is the second roster.
	SideB
)

// String returns "A", "B" or "none".
func (s Side) String() string {
	switch s {
	case SideA:
		return "A"
	case SideB:
		return "B"
	default:
		return "none"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (s Side) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Side) UnmarshalText(text []byte) error {
	switch string(text) {
	case "A", "a":
		*s = SideA
	case "B", "b":
		*s = SideB
	case "none", "":
		*s = SideNone
	default:
		return fmt.Errorf("unknown side %q", text)
	}
	return nil
}

// Opponent returns the other side. SideNone has no opponent.
func (s Side) Opponent() Side {
	switch s {
	case SideA:
		return SideB
	case SideB:
		return SideA
	default:
		return SideNone
	}
}

// pick returns a for SideA and b for SideB.
func pick(s Side, a, b *roster.Roster) *roster.Roster {
	if s == SideB {
		return b
	}
	return a
}

package combat

import "github.com/cory-johannsen/arena/internal/game/roster"

// CheckVictory decides whether the battle is over.
//
// Postcondition: Returns SideNone while both rosters have a living member; the
// surviving side when exactly one roster is defeated; WinnerByHP when both are.
func CheckVictory(a, b *roster.Roster) Side {
	aDown, bDown := a.IsDefeated(), b.IsDefeated()
	switch {
	case aDown && bDown:
		return WinnerByHP(a, b)
	case aDown:
		return SideB
	case bDown:
		return SideA
	default:
		return SideNone
	}
}

// WinnerByHP returns the side with strictly more total current HP, SideA on a tie.
func WinnerByHP(a, b *roster.Roster) Side {
	if b.TotalHP() > a.TotalHP() {
		return SideB
	}
	return SideA
}

package combat

import (
	"errors"
	"fmt"

	"github.com/cory-johannsen/arena/internal/game/roster"
)

// DefaultMaxTurns is the turn ceiling used when none is configured.
const DefaultMaxTurns = 100

// ErrIllegalState is returned when a session operation is called in the wrong phase.
var ErrIllegalState = errors.New("illegal battle state")

// Phase is the session lifecycle stage. Transitions only move forward.
type Phase int

const (
	PhaseNotStarted Phase = iota
	PhaseInProgress
	PhaseFinished
)

// String returns the snake_case phase name.
func (p Phase) String() string {
	switch p {
	case PhaseNotStarted:
		return "not_started"
	case PhaseInProgress:
		return "in_progress"
	case PhaseFinished:
		return "finished"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (p Phase) MarshalText() ([]byte, error) { return []byte(p.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *Phase) UnmarshalText(text []byte) error {
	for _, c := range []Phase{PhaseNotStarted, PhaseInProgress, PhaseFinished} {
		if c.String() == string(text) {
			*p = c
			return nil
		}
	}
	return fmt.Errorf("unknown phase %q", text)
}

// Session is the state of one battle between two rosters: lifecycle phase,
// turn counter, winner and the append-only action ledger.
//
// A Session is not safe for concurrent use; it is owned by its driver.
type Session struct {
	a, b     *roster.Roster
	turn     int
	phase    Phase
	winner   Side
	maxTurns int
	ledger   []ActionRecord
}

// NewSession creates a session in PhaseNotStarted with turn 0.
//
// Precondition: a and b must be non-nil and distinct.
// Postcondition: maxTurns <= 0 selects DefaultMaxTurns.
func NewSession(a, b *roster.Roster, maxTurns int) (*Session, error) {
	if a == nil || b == nil {
		return nil, errors.New("session requires two rosters")
	}
	if a == b {
		return nil, errors.New("session rosters must be distinct")
	}
	if maxTurns <= 0 {
		maxTurns = DefaultMaxTurns
	}
	return &Session{a: a, b: b, maxTurns: maxTurns}, nil
}

// Roster returns the roster of side s; SideNone yields nil.
func (s *Session) Roster(side Side) *roster.Roster {
	switch side {
	case SideA:
		return s.a
	case SideB:
		return s.b
	default:
		return nil
	}
}

// Turn returns the current turn number, 0 before Start.
func (s *Session) Turn() int { return s.turn }

// Phase returns the lifecycle stage.
func (s *Session) Phase() Phase { return s.phase }

// Winner returns the winning side, SideNone until the session finishes.
func (s *Session) Winner() Side { return s.winner }

// MaxTurns returns the turn ceiling.
func (s *Session) MaxTurns() int { return s.maxTurns }

// Finished reports whether the session has ended.
func (s *Session) Finished() bool { return s.phase == PhaseFinished }

// Start begins the battle.
//
// Precondition: Phase is PhaseNotStarted.
// Postcondition: Turn == 1 and Phase == PhaseInProgress, or ErrIllegalState.
func (s *Session) Start() error {
	if s.phase != PhaseNotStarted {
		return fmt.Errorf("start in phase %s: %w", s.phase, ErrIllegalState)
	}
	s.phase = PhaseInProgress
	s.turn = 1
	return nil
}

// EndWith finishes the battle with the given winner. Calling it on a finished
// session changes nothing.
func (s *Session) EndWith(winner Side) {
	if s.phase == PhaseFinished {
		return
	}
	s.phase = PhaseFinished
	s.winner = winner
}

// AdvanceTurn moves to the next turn. Passing the turn ceiling ends the battle
// by total HP with SideA winning a tie.
//
// Precondition: Phase is PhaseInProgress.
// Postcondition: Turn is incremented, or ErrIllegalState is returned.
func (s *Session) AdvanceTurn() error {
	if s.phase != PhaseInProgress {
		return fmt.Errorf("advance turn in phase %s: %w", s.phase, ErrIllegalState)
	}
	s.turn++
	if s.turn > s.maxTurns {
		s.EndWith(WinnerByHP(s.a, s.b))
	}
	return nil
}

// RecordAction appends rec to the ledger stamped with the current turn.
//
// Postcondition: Returns the stored copy.
func (s *Session) RecordAction(rec ActionRecord) ActionRecord {
	rec.Turn = s.turn
	s.ledger = append(s.ledger, rec)
	return rec
}

// History returns a copy of the full ledger in insertion order.
func (s *Session) History() []ActionRecord {
	out := make([]ActionRecord, len(s.ledger))
	copy(out, s.ledger)
	return out
}

// HistoryForTurn returns the records stamped with turn n.
func (s *Session) HistoryForTurn(n int) []ActionRecord {
	return s.filter(func(r ActionRecord) bool { return r.Turn == n })
}

// HistoryForSide returns the records of the given side.
func (s *Session) HistoryForSide(side Side) []ActionRecord {
	return s.filter(func(r ActionRecord) bool { return r.Side == side })
}

func (s *Session) filter(keep func(ActionRecord) bool) []ActionRecord {
	var out []ActionRecord
	for _, r := range s.ledger {
		if keep(r) {
			out = append(out, r)
		}
	}
	return out
}

// Summary aggregates the session's current state.
type Summary struct {
	TotalTurns   int    `json:"total_turns"`
	Winner       Side   `json:"winner"`
	TeamA        string `json:"team_a"`
	TeamB        string `json:"team_b"`
	HPA          int    `json:"hp_a"`
	HPB          int    `json:"hp_b"`
	AliveA       int    `json:"alive_a"`
	AliveB       int    `json:"alive_b"`
	TotalActions int    `json:"total_actions"`
	Phase        Phase  `json:"phase"`
}

// WinnerName returns the winning roster's name, or "" without a winner.
func (m Summary) WinnerName() string {
	switch m.Winner {
	case SideA:
		return m.TeamA
	case SideB:
		return m.TeamB
	default:
		return ""
	}
}

// Summary returns the aggregate view of the session. A battle forced to end
// by the turn ceiling reports MaxTurns elapsed turns.
func (s *Session) Summary() Summary {
	return Summary{
		TotalTurns:   min(s.turn, s.maxTurns),
		Winner:       s.winner,
		TeamA:        s.a.Name(),
		TeamB:        s.b.Name(),
		HPA:          s.a.TotalHP(),
		HPB:          s.b.TotalHP(),
		AliveA:       s.a.AliveCount(),
		AliveB:       s.b.AliveCount(),
		TotalActions: len(s.ledger),
		Phase:        s.phase,
	}
}

// recentRecords is how many trailing ledger entries a Snapshot carries.
const recentRecords = 4

// Snapshot is the read-only view handed to decision policies.
type Snapshot struct {
	Turn     int
	MaxTurns int
	Phase    Phase
	// Recent holds the last few ledger entries, oldest first.
	Recent []ActionRecord
}

// Snapshot captures the current session view.
func (s *Session) Snapshot() Snapshot {
	from := max(0, len(s.ledger)-recentRecords)
	recent := make([]ActionRecord, len(s.ledger)-from)
	copy(recent, s.ledger[from:])
	return Snapshot{
		Turn:     s.turn,
		MaxTurns: s.maxTurns,
		Phase:    s.phase,
		Recent:   recent,
	}
}

// String renders the session state for logs.
func (s *Session) String() string {
	switch s.phase {
	case PhaseNotStarted:
		return "battle not started"
	case PhaseFinished:
		return fmt.Sprintf("battle finished on turn %d, winner %s", s.turn, s.winner)
	default:
		return fmt.Sprintf("battle turn %d/%d", s.turn, s.maxTurns)
	}
}

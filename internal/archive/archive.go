// Package archive stores finished match records.
package archive

//go:generate mockgen -destination=mock/mock_archive.go -package=mockarchive -source=archive.go

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cory-johannsen/arena/internal/game/combat"
)

// ErrMatchNotFound is returned when no record exists for an ID.
var ErrMatchNotFound = errors.New("match not found")

// ErrInvalidRecord is returned when a record fails validation on Save.
var ErrInvalidRecord = errors.New("invalid match record")

// Record is the archived result of one finished match.
type Record struct {
	ID         string                `json:"id"`
	TeamA      string                `json:"team_a"`
	TeamB      string                `json:"team_b"`
	PolicyA    string                `json:"policy_a,omitempty"`
	PolicyB    string                `json:"policy_b,omitempty"`
	Winner     string                `json:"winner"`
	Summary    combat.Summary        `json:"summary"`
	Ledger     []combat.ActionRecord `json:"ledger"`
	StartedAt  time.Time             `json:"started_at"`
	FinishedAt time.Time             `json:"finished_at"`
}

// Duration is the wall-clock time the match took.
func (r Record) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}

// Validate reports why r cannot be archived.
//
// Postcondition: Returns nil, or an error wrapping ErrInvalidRecord.
func (r Record) Validate() error {
	switch {
	case r.ID == "":
		return fmt.Errorf("%w: empty id", ErrInvalidRecord)
	case r.TeamA == "" || r.TeamB == "":
		return fmt.Errorf("%w: team names required", ErrInvalidRecord)
	case r.Summary.Phase != combat.PhaseFinished:
		return fmt.Errorf("%w: match %s is %s, not finished", ErrInvalidRecord, r.ID, r.Summary.Phase)
	case r.FinishedAt.Before(r.StartedAt):
		return fmt.Errorf("%w: match %s finished before it started", ErrInvalidRecord, r.ID)
	}
	return nil
}

// Archive persists finished match records.
type Archive interface {
	// Save stores rec, replacing any record with the same ID.
	Save(ctx context.Context, rec Record) error
	// Get returns the record for id or ErrMatchNotFound.
	Get(ctx context.Context, id string) (Record, error)
	// ListRecent returns up to limit records, most recently finished first.
	ListRecent(ctx context.Context, limit int) ([]Record, error)
}

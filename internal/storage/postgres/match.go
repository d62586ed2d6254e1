package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/cory-johannsen/arena/internal/archive"
	"github.com/cory-johannsen/arena/internal/game/combat"
)

// MatchRepository implements archive.Archive on the matches table.
type MatchRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

var _ archive.Archive = (*MatchRepository)(nil)

// NewMatchRepository creates a MatchRepository backed by db.
//
// Precondition: db must be a valid, open connection pool with the matches
// migration applied.
func NewMatchRepository(db *pgxpool.Pool, logger *zap.Logger) *MatchRepository {
	if db == nil {
		panic("postgres: pool is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MatchRepository{db: db, logger: logger}
}

const matchColumns = `id, team_a, team_b, policy_a, policy_b, winner,
	summary, ledger, started_at, finished_at`

// Save implements archive.Archive. An existing row with the same ID is replaced.
//
// Postcondition: Returns nil once the row is committed, or an error wrapping
// archive.ErrInvalidRecord for records that are not finished.
func (r *MatchRepository) Save(ctx context.Context, rec archive.Record) error {
	if err := rec.Validate(); err != nil {
		return err
	}
	summary, err := json.Marshal(rec.Summary)
	if err != nil {
		return fmt.Errorf("encoding summary: %w", err)
	}
	ledger := rec.Ledger
	if ledger == nil {
		ledger = []combat.ActionRecord{}
	}
	ledgerJSON, err := json.Marshal(ledger)
	if err != nil {
		return fmt.Errorf("encoding ledger: %w", err)
	}

	_, err = r.db.Exec(ctx, `
		INSERT INTO matches (id, team_a, team_b, policy_a, policy_b, winner,
		                     total_turns, summary, ledger, started_at, finished_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (id) DO UPDATE SET
			team_a = EXCLUDED.team_a, team_b = EXCLUDED.team_b,
			policy_a = EXCLUDED.policy_a, policy_b = EXCLUDED.policy_b,
			winner = EXCLUDED.winner, total_turns = EXCLUDED.total_turns,
			summary = EXCLUDED.summary, ledger = EXCLUDED.ledger,
			started_at = EXCLUDED.started_at, finished_at = EXCLUDED.finished_at`,
		rec.ID, rec.TeamA, rec.TeamB, rec.PolicyA, rec.PolicyB, rec.Winner,
		rec.Summary.TotalTurns, summary, ledgerJSON, rec.StartedAt, rec.FinishedAt,
	)
	if err != nil {
		return fmt.Errorf("inserting match %s: %w", rec.ID, err)
	}
	r.logger.Debug("archive: match saved",
		zap.String("match_id", rec.ID),
		zap.String("backend", "postgres"),
	)
	return nil
}

// Get implements archive.Archive.
//
// Postcondition: Returns the record or archive.ErrMatchNotFound.
func (r *MatchRepository) Get(ctx context.Context, id string) (archive.Record, error) {
	row := r.db.QueryRow(ctx, `SELECT `+matchColumns+` FROM matches WHERE id = $1`, id)
	rec, err := scanMatch(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return archive.Record{}, archive.ErrMatchNotFound
		}
		return archive.Record{}, fmt.Errorf("querying match %s: %w", id, err)
	}
	return rec, nil
}

// ListRecent implements archive.Archive. A limit <= 0 returns every row.
func (r *MatchRepository) ListRecent(ctx context.Context, limit int) ([]archive.Record, error) {
	var lim any
	if limit > 0 {
		lim = limit
	}
	rows, err := r.db.Query(ctx, `
		SELECT `+matchColumns+`
		FROM matches ORDER BY finished_at DESC, id ASC LIMIT $1`,
		lim,
	)
	if err != nil {
		return nil, fmt.Errorf("listing matches: %w", err)
	}
	defer rows.Close()

	out := make([]archive.Record, 0)
	for rows.Next() {
		rec, err := scanMatch(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning match row: %w", err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func scanMatch(row pgx.Row) (archive.Record, error) {
	var (
		rec             archive.Record
		summary, ledger []byte
	)
	if err := row.Scan(
		&rec.ID, &rec.TeamA, &rec.TeamB, &rec.PolicyA, &rec.PolicyB, &rec.Winner,
		&summary, &ledger, &rec.StartedAt, &rec.FinishedAt,
	); err != nil {
		return archive.Record{}, err
	}
	if err := json.Unmarshal(summary, &rec.Summary); err != nil {
		return archive.Record{}, fmt.Errorf("decoding summary of %s: %w", rec.ID, err)
	}
	if err := json.Unmarshal(ledger, &rec.Ledger); err != nil {
		return archive.Record{}, fmt.Errorf("decoding ledger of %s: %w", rec.ID, err)
	}
	return rec, nil
}

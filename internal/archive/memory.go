package archive

import (
	"context"
	"slices"
	"sort"
	"sync"

	"go.uber.org/zap"
)

// Memory is an in-process Archive. Safe for concurrent use.
type Memory struct {
	mu      sync.RWMutex
	records map[string]Record
	logger  *zap.Logger
}

// NewMemory creates an empty Memory archive.
//
// Postcondition: Returns a non-nil Memory ready for use.
func NewMemory(logger *zap.Logger) *Memory {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Memory{records: make(map[string]Record), logger: logger}
}

// Save implements Archive.
func (m *Memory) Save(ctx context.Context, rec Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := rec.Validate(); err != nil {
		return err
	}
	rec.Ledger = slices.Clone(rec.Ledger)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.records[rec.ID] = rec
	m.logger.Debug("archive: match saved",
		zap.String("match_id", rec.ID),
		zap.Int("records", len(m.records)),
	)
	return nil
}

// Get implements Archive.
func (m *Memory) Get(ctx context.Context, id string) (Record, error) {
	if err := ctx.Err(); err != nil {
		return Record{}, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	rec, ok := m.records[id]
	if !ok {
		return Record{}, ErrMatchNotFound
	}
	rec.Ledger = slices.Clone(rec.Ledger)
	return rec, nil
}

// ListRecent implements Archive. A limit <= 0 returns every record.
func (m *Memory) ListRecent(ctx context.Context, limit int) ([]Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	out := make([]Record, 0, len(m.records))
	for _, rec := range m.records {
		rec.Ledger = slices.Clone(rec.Ledger)
		out = append(out, rec)
	}
	m.mu.RUnlock()

	SortRecent(out)
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// Len returns the number of stored records.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.records)
}

// SortRecent orders records by finish time, newest first, breaking ties by ID.
func SortRecent(recs []Record) {
	sort.SliceStable(recs, func(i, j int) bool {
		if !recs[i].FinishedAt.Equal(recs[j].FinishedAt) {
			return recs[i].FinishedAt.After(recs[j].FinishedAt)
		}
		return recs[i].ID < recs[j].ID
	})
}

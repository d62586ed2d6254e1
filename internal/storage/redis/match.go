// Package redis stores archived matches in Redis as JSON values with a
// sorted-set index by finish time.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/cory-johannsen/arena/internal/archive"
	"github.com/cory-johannsen/arena/internal/config"
)

const (
	matchKeyPrefix = "match:"
	recentIndexKey = "matches:recent"
)

// Config configures a MatchRepository.
type Config struct {
	Client goredis.UniversalClient
	// TTL bounds how long a record lives. Zero keeps records forever.
	TTL    time.Duration
	Logger *zap.Logger
}

// MatchRepository implements archive.Archive on Redis.
type MatchRepository struct {
	client goredis.UniversalClient
	ttl    time.Duration
	logger *zap.Logger
}

var _ archive.Archive = (*MatchRepository)(nil)

// NewMatchRepository creates a MatchRepository.
//
// Precondition: cfg.Client must not be nil.
func NewMatchRepository(cfg Config) *MatchRepository {
	if cfg.Client == nil {
		panic("redis: client is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MatchRepository{client: cfg.Client, ttl: cfg.TTL, logger: logger}
}

// Connect opens a client for cfg and checks it with PING.
//
// Postcondition: Returns a connected client or a non-nil error.
func Connect(ctx context.Context, cfg config.RedisConfig) (*goredis.Client, error) {
	client := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("pinging redis at %s: %w", cfg.Addr, err)
	}
	return client, nil
}

func matchKey(id string) string {
	return matchKeyPrefix + id
}

// Score is the index score for rec: its finish time in Unix milliseconds.
func Score(rec archive.Record) float64 {
	return float64(rec.FinishedAt.UnixMilli())
}

// Save implements archive.Archive.
func (r *MatchRepository) Save(ctx context.Context, rec archive.Record) error {
	if err := rec.Validate(); err != nil {
		return err
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshaling match %s: %w", rec.ID, err)
	}

	pipe := r.client.TxPipeline()
	pipe.Set(ctx, matchKey(rec.ID), data, r.ttl)
	pipe.ZAdd(ctx, recentIndexKey, goredis.Z{Score: Score(rec), Member: rec.ID})
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("saving match %s: %w", rec.ID, err)
	}
	r.logger.Debug("archive: match saved",
		zap.String("match_id", rec.ID),
		zap.String("backend", "redis"),
	)
	return nil
}

// Get implements archive.Archive.
func (r *MatchRepository) Get(ctx context.Context, id string) (archive.Record, error) {
	data, err := r.client.Get(ctx, matchKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return archive.Record{}, archive.ErrMatchNotFound
		}
		return archive.Record{}, fmt.Errorf("getting match %s: %w", id, err)
	}
	var rec archive.Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return archive.Record{}, fmt.Errorf("decoding match %s: %w", id, err)
	}
	return rec, nil
}

// ListRecent implements archive.Archive. A limit <= 0 returns every indexed
// record. Index entries whose value has expired are pruned and skipped, so
// fewer than limit records may come back.
func (r *MatchRepository) ListRecent(ctx context.Context, limit int) ([]archive.Record, error) {
	stop := int64(-1)
	if limit > 0 {
		stop = int64(limit - 1)
	}
	ids, err := r.client.ZRevRange(ctx, recentIndexKey, 0, stop).Result()
	if err != nil {
		return nil, fmt.Errorf("reading match index: %w", err)
	}
	out := make([]archive.Record, 0, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = matchKey(id)
	}
	vals, err := r.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("loading matches: %w", err)
	}

	var stale []any
	for i, v := range vals {
		s, ok := v.(string)
		if !ok {
			stale = append(stale, ids[i])
			continue
		}
		var rec archive.Record
		if err := json.Unmarshal([]byte(s), &rec); err != nil {
			return nil, fmt.Errorf("decoding match %s: %w", ids[i], err)
		}
		out = append(out, rec)
	}
	if len(stale) > 0 {
		if err := r.client.ZRem(ctx, recentIndexKey, stale...).Err(); err != nil {
			r.logger.Warn("archive: pruning expired index entries",
				zap.Int("stale", len(stale)),
				zap.Error(err),
			)
		}
	}
	return out, nil
}

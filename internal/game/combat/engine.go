package combat

import (
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cory-johannsen/arena/internal/game/roster"
)

// Engine tracks every live Battle, keyed by battle ID.
// All methods are safe for concurrent use; the battles themselves are not and
// must each be driven by a single goroutine.
type Engine struct {
	mu       sync.RWMutex
	battles  map[string]*Battle
	maxTurns int
	logger   *zap.Logger
}

// NewEngine creates an empty Engine whose sessions use maxTurns as their ceiling.
//
// Postcondition: Returns a non-nil Engine ready for use.
func NewEngine(maxTurns int, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		battles:  make(map[string]*Battle),
		maxTurns: maxTurns,
		logger:   logger,
	}
}

// StartBattle creates, starts and registers a battle between a and b.
//
// Precondition: a and b must be independent rosters not used by another live battle.
// Postcondition: Returns the new battle ID and the started Battle, or an error.
func (e *Engine) StartBattle(a, b *roster.Roster, resolver *Resolver) (string, *Battle, error) {
	s, err := NewSession(a, b, e.maxTurns)
	if err != nil {
		return "", nil, fmt.Errorf("creating session: %w", err)
	}
	if err := s.Start(); err != nil {
		return "", nil, err
	}
	id := uuid.NewString()
	bt := NewBattle(s, resolver, e.logger.With(zap.String("battle_id", id)))

	e.mu.Lock()
	defer e.mu.Unlock()
	e.battles[id] = bt
	return id, bt, nil
}

// Battle returns the live battle with the given ID.
//
// Postcondition: Returns (battle, true) if found, or (nil, false) otherwise.
func (e *Engine) Battle(id string) (*Battle, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	bt, ok := e.battles[id]
	return bt, ok
}

// EndBattle removes the battle record for id.
func (e *Engine) EndBattle(id string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.battles, id)
}

// Active returns the IDs of the registered battles in sorted order.
func (e *Engine) Active() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	ids := make([]string, 0, len(e.battles))
	for id := range e.battles {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Len returns the number of registered battles.
func (e *Engine) Len() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.battles)
}

package policy

import (
	"context"
	"sync"

	"github.com/cory-johannsen/arena/internal/game/action"
	"github.com/cory-johannsen/arena/internal/game/combat"
	"github.com/cory-johannsen/arena/internal/game/roster"
)

// Scripted replays a fixed queue of actions, then attacks forever. It stands
// in for a human player in tests and replays.
type Scripted struct {
	mu    sync.Mutex
	queue []action.Action
}

// NewScripted returns a policy that plays actions in order.
func NewScripted(actions ...action.Action) *Scripted {
	return &Scripted{queue: append([]action.Action(nil), actions...)}
}

// Name returns "scripted".
func (s *Scripted) Name() string { return KindScripted }

// Push appends actions to the queue.
func (s *Scripted) Push(actions ...action.Action) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.queue = append(s.queue, actions...)
}

// Remaining returns the number of queued actions.
func (s *Scripted) Remaining() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.queue)
}

// Decide pops the next queued action, or attacks once the queue is empty.
func (s *Scripted) Decide(_ context.Context, _, _ *roster.Roster, _ combat.Snapshot) (action.Action, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.queue) == 0 {
		return action.Attack(), nil
	}
	next := s.queue[0]
	s.queue = s.queue[1:]
	return next, nil
}

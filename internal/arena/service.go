package arena

import (
	"context"
	"sync"
)

// Service runs one batch of matches as a server.Service. Start blocks until
// every match is played or Stop is called.
type Service struct {
	runner      *Runner
	matches     []Match
	parallelism int

	ctx    context.Context
	cancel context.CancelFunc

	mu      sync.Mutex
	results []Result
}

// NewService creates a Service playing matches on runner. Cancelling ctx has
// the same effect as Stop.
//
// Precondition: runner must be non-nil.
func NewService(ctx context.Context, runner *Runner, matches []Match, parallelism int) *Service {
	ctx, cancel := context.WithCancel(ctx)
	return &Service{
		runner:      runner,
		matches:     matches,
		parallelism: parallelism,
		ctx:         ctx,
		cancel:      cancel,
	}
}

// Start plays every match.
//
// Postcondition: Results holds every result when Start returns nil.
func (s *Service) Start() error {
	results, err := s.runner.PlayMany(s.ctx, s.matches, s.parallelism)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.results = results
	s.mu.Unlock()
	return nil
}

// Stop cancels the matches still running.
func (s *Service) Stop() { s.cancel() }

// Results returns the results of a completed batch, or nil.
func (s *Service) Results() []Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.results
}

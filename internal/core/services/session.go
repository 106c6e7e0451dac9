package services

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/comitanigiacomo/kanso-daily/internal/core/domain"
	"github.com/comitanigiacomo/kanso-daily/internal/core/workers"
)

const resumeTimeout = 5 * time.Second

// Session ties the trackers to both day-boundary mechanisms: the midnight
// worker and the visibility/focus resume check.
type Session struct {
	registry *Registry
	source   domain.VisibilitySource
	worker   *workers.MidnightWorker

	mu      sync.Mutex
	unsubs  []func()
	started bool
}

func NewSession(registry *Registry, source domain.VisibilitySource, worker *workers.MidnightWorker) *Session {
	return &Session{
		registry: registry,
		source:   source,
		worker:   worker,
	}
}

func (s *Session) Registry() *Registry {
	return s.registry
}

func (s *Session) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if err := s.registry.Open(ctx); err != nil {
		return err
	}

	if s.source != nil {
		s.unsubs = append(s.unsubs,
			s.source.Subscribe(domain.EventVisible, s.onResume),
			s.source.Subscribe(domain.EventFocus, s.onResume),
		)
	}
	if s.worker != nil {
		s.worker.Start(ctx)
	}

	s.started = true
	log.Printf("[SESSION] Started with %d trackers", len(s.registry.Trackers()))
	return nil
}

// Resume runs the resume check immediately.
func (s *Session) Resume(ctx context.Context) int {
	n := s.registry.ReconcileAll(ctx)
	if n > 0 {
		log.Printf("[SESSION] Resume reset %d stale tracker(s)", n)
	}
	return n
}

func (s *Session) onResume() {
	ctx, cancel := context.WithTimeout(context.Background(), resumeTimeout)
	defer cancel()
	s.Resume(ctx)
}

func (s *Session) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	for _, unsub := range s.unsubs {
		unsub()
	}
	s.unsubs = nil
	if s.worker != nil {
		s.worker.Stop()
	}
	s.started = false
	log.Println("[SESSION] Stopped")
}

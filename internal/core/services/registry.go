package services

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/comitanigiacomo/kanso-daily/internal/core/domain"
)

// Registry holds one Tracker per definition, in menu order.
type Registry struct {
	trackers []*Tracker
}

func NewRegistry(defs []domain.Definition, deps TrackerDeps) *Registry {
	r := &Registry{}
	for _, def := range defs {
		r.trackers = append(r.trackers, NewTracker(def, deps))
	}
	return r
}

// Get finds a tracker by kind or menu path. The empty path and "/" resolve
// to the first tracker.
func (r *Registry) Get(name string) (*Tracker, error) {
	key := strings.Trim(strings.ToLower(strings.TrimSpace(name)), "/")
	if key == "" && len(r.trackers) > 0 {
		return r.trackers[0], nil
	}
	for _, t := range r.trackers {
		if string(t.def.Kind) == key || t.def.Path == key {
			return t, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", domain.ErrTrackerNotFound, name)
}

func (r *Registry) Trackers() []*Tracker {
	return r.trackers
}

func (r *Registry) Descriptors() []domain.Descriptor {
	out := make([]domain.Descriptor, 0, len(r.trackers))
	for _, t := range r.trackers {
		out = append(out, t.def.Descriptor())
	}
	return out
}

func (r *Registry) Open(ctx context.Context) error {
	for _, t := range r.trackers {
		if err := t.Open(ctx); err != nil {
			return fmt.Errorf("open %s: %w", t.def.Kind, err)
		}
	}
	return nil
}

// ReconcileAll runs the resume check on every tracker and returns how many
// were reset. Failures are logged so one broken slot does not block the rest.
func (r *Registry) ReconcileAll(ctx context.Context) int {
	reset := 0
	for _, t := range r.trackers {
		changed, err := t.Reconcile(ctx)
		if err != nil {
			log.Printf("[SESSION] Resume check failed for %s: %v", t.def.Kind, err)
			continue
		}
		if changed {
			reset++
		}
	}
	return reset
}

// RollOverAll moves every tracker to the current day.
func (r *Registry) RollOverAll(ctx context.Context) int {
	reset := 0
	for _, t := range r.trackers {
		changed, err := t.RollOver(ctx)
		if err != nil {
			log.Printf("[MIDNIGHT] Rollover failed for %s: %v", t.def.Kind, err)
			continue
		}
		if changed {
			reset++
		}
	}
	return reset
}

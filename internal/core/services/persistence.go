package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"github.com/comitanigiacomo/kanso-daily/internal/core/domain"
)

// Persistence reads and writes whole tracker records through a StateStore.
type Persistence struct {
	store domain.StateStore
}

func NewPersistence(store domain.StateStore) *Persistence {
	return &Persistence{store: store}
}

// Load returns the persisted state for def, or nil when the slot is empty or
// holds something that does not belong to def. Only a failing store is
// reported as an error.
func (p *Persistence) Load(ctx context.Context, def domain.Definition) (*domain.TrackerState, error) {
	blob, err := p.store.Get(ctx, def.StorageKey)
	if err != nil {
		if errors.Is(err, domain.ErrStateNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read %s: %w", def.StorageKey, err)
	}

	var s domain.TrackerState
	if err := json.Unmarshal(blob, &s); err != nil {
		log.Printf("[STATE] Corrupted data under %s, falling back to defaults: %v", def.StorageKey, err)
		return nil, nil
	}
	if err := s.Validate(def); err != nil {
		log.Printf("[STATE] Discarding %s: %v", def.StorageKey, err)
		return nil, nil
	}

	s.Normalize(def)
	return &s, nil
}

func (p *Persistence) Save(ctx context.Context, def domain.Definition, s *domain.TrackerState) error {
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", def.StorageKey, err)
	}
	if err := p.store.Put(ctx, def.StorageKey, data); err != nil {
		return fmt.Errorf("failed to persist %s: %w", def.StorageKey, err)
	}
	return nil
}

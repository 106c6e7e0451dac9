package services_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/comitanigiacomo/kanso-daily/internal/core/domain"
	"github.com/comitanigiacomo/kanso-daily/internal/core/services"
	"github.com/comitanigiacomo/kanso-daily/internal/core/workers"
)

type fakeSource struct {
	mu   sync.Mutex
	next int
	subs map[domain.VisibilityEvent]map[int]func()
}

func newFakeSource() *fakeSource {
	return &fakeSource{subs: make(map[domain.VisibilityEvent]map[int]func())}
}

func (f *fakeSource) Subscribe(event domain.VisibilityEvent, fn func()) func() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.subs[event] == nil {
		f.subs[event] = make(map[int]func())
	}
	id := f.next
	f.next++
	f.subs[event][id] = fn
	return func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		delete(f.subs[event], id)
	}
}

func (f *fakeSource) Emit(event domain.VisibilityEvent) {
	f.mu.Lock()
	var fns []func()
	for _, fn := range f.subs[event] {
		fns = append(fns, fn)
	}
	f.mu.Unlock()
	for _, fn := range fns {
		fn()
	}
}

func (f *fakeSource) Active() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, m := range f.subs {
		n += len(m)
	}
	return n
}

func newTestSession(t *testing.T) (*testEnv, *fakeSource, *services.Session) {
	t.Helper()
	env := newTestEnv(t)
	registry := services.NewRegistry(domain.DefaultDefinitions(), env.deps)
	source := newFakeSource()
	worker := workers.NewMidnightWorker(registry, env.clock, time.UTC)
	session := services.NewSession(registry, source, worker)
	return env, source, session
}

func TestSession(t *testing.T) {
	ctx := context.Background()

	t.Run("Start opens trackers and subscribes to resume events", func(t *testing.T) {
		env, source, session := newTestSession(t)
		require.NoError(t, session.Start(ctx))
		defer session.Stop()

		assert.Equal(t, 2, source.Active())
		assert.Contains(t, env.store.Raw("learning-state"), `"date":"2024-05-01"`)

		require.NoError(t, session.Start(ctx))
		assert.Equal(t, 2, source.Active(), "second Start must not subscribe again")
	})

	t.Run("Focus after a stale write resets the slot", func(t *testing.T) {
		env, source, session := newTestSession(t)
		require.NoError(t, session.Start(ctx))
		defer session.Stop()

		env.store.Set("hydration-state", `{"kind":"hydration","date":"2024-04-30","target":1000,"progress":700,"completed":[]}`)
		source.Emit(domain.EventFocus)

		assert.Contains(t, env.store.Raw("hydration-state"), `"date":"2024-05-01"`)
		assert.NotContains(t, env.store.Raw("hydration-state"), `"progress":700`)
	})

	t.Run("Hidden events are ignored", func(t *testing.T) {
		env, source, session := newTestSession(t)
		require.NoError(t, session.Start(ctx))
		defer session.Stop()

		stale := `{"kind":"hydration","date":"2024-04-30","target":1000,"progress":700,"completed":[]}`
		env.store.Set("hydration-state", stale)
		source.Emit(domain.EventHidden)

		assert.Equal(t, stale, env.store.Raw("hydration-state"))
	})

	t.Run("Midnight rolls every tracker over", func(t *testing.T) {
		env, _, session := newTestSession(t)
		require.NoError(t, session.Start(ctx))
		defer session.Stop()

		tr, err := session.Registry().Get("workout")
		require.NoError(t, err)
		_, err = tr.Record(ctx, 0, nil)
		require.NoError(t, err)

		env.clock.Advance(2 * time.Hour)

		for _, key := range []string{"hydration-state", "workout-state", "learning-state"} {
			assert.Contains(t, env.store.Raw(key), `"date":"2024-05-02"`, key)
		}
		snap, err := tr.Snapshot(ctx)
		require.NoError(t, err)
		assert.Equal(t, 0, snap.Progress)
	})

	t.Run("Stop releases subscriptions and the timer", func(t *testing.T) {
		env, source, session := newTestSession(t)
		require.NoError(t, session.Start(ctx))

		session.Stop()
		session.Stop()
		assert.Equal(t, 0, source.Active())

		env.clock.Advance(2 * time.Hour)
		assert.Contains(t, env.store.Raw("workout-state"), `"date":"2024-05-01"`)
	})

	t.Run("Resume reports how many trackers were reset", func(t *testing.T) {
		env, _, session := newTestSession(t)
		require.NoError(t, session.Start(ctx))
		session.Stop()

		env.clock.Advance(26 * time.Hour)
		assert.Equal(t, 3, session.Resume(ctx))
		assert.Equal(t, 0, session.Resume(ctx))
	})
}

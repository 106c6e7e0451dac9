package services_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/comitanigiacomo/kanso-daily/internal/core/domain"
	"github.com/comitanigiacomo/kanso-daily/internal/core/services"
)

type MockStore struct {
	mu            sync.Mutex
	data          map[string][]byte
	simulateError error
	puts          int
}

func NewMockStore() *MockStore {
	return &MockStore{data: make(map[string][]byte)}
}

func (m *MockStore) Get(ctx context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.simulateError != nil {
		return nil, m.simulateError
	}
	v, ok := m.data[key]
	if !ok {
		return nil, domain.ErrStateNotFound
	}
	return append([]byte(nil), v...), nil
}

func (m *MockStore) Put(ctx context.Context, key string, blob []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.simulateError != nil {
		return m.simulateError
	}
	m.data[key] = append([]byte(nil), blob...)
	m.puts++
	return nil
}

func (m *MockStore) Raw(key string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return string(m.data[key])
}

func (m *MockStore) Set(key, value string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = []byte(value)
}

func (m *MockStore) Fail(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.simulateError = err
}

var errStoreDown = errors.New("store down")

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) Notify(ctx context.Context, n domain.Notice) {
	m.Called(ctx, n)
}

type fakeTimer struct {
	clock   *fakeClock
	at      time.Time
	fn      func()
	stopped bool
	fired   bool
}

func (t *fakeTimer) Stop() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()
	active := !t.stopped && !t.fired
	t.stopped = true
	return active
}

type fakeClock struct {
	mu     sync.Mutex
	now    time.Time
	timers []*fakeTimer
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) AfterFunc(d time.Duration, f func()) domain.Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &fakeTimer{clock: c, at: c.now.Add(d), fn: f}
	c.timers = append(c.timers, t)
	return t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	var due []*fakeTimer
	for _, t := range c.timers {
		if !t.stopped && !t.fired && !t.at.After(c.now) {
			t.fired = true
			due = append(due, t)
		}
	}
	c.mu.Unlock()

	for _, t := range due {
		t.fn()
	}
}

type testEnv struct {
	store    *MockStore
	clock    *fakeClock
	notifier *MockNotifier
	deps     services.TrackerDeps
}

// newTestEnv starts the clock at 2024-05-01 22:00 in UTC.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	store := NewMockStore()
	clock := &fakeClock{now: time.Date(2024, 5, 1, 22, 0, 0, 0, time.UTC)}
	notifier := new(MockNotifier)

	return &testEnv{
		store:    store,
		clock:    clock,
		notifier: notifier,
		deps: services.TrackerDeps{
			Persistence: services.NewPersistence(store),
			Clock:       clock,
			Location:    time.UTC,
			Notifier:    notifier,
		},
	}
}

func (e *testEnv) tracker(t *testing.T, def domain.Definition) *services.Tracker {
	t.Helper()
	tr := services.NewTracker(def, e.deps)
	require.NoError(t, tr.Open(context.Background()))
	return tr
}

func answer(v string) domain.Prompter {
	return domain.Answer{Value: v}
}

var cancelled = domain.Answer{Cancelled: true}

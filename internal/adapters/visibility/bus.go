package visibility

import (
	"log"
	"sync"

	"github.com/comitanigiacomo/kanso-daily/internal/core/domain"
)

var _ domain.VisibilitySource = (*Bus)(nil)

// Bus fans visibility events out to subscribers. Handlers run on the
// emitting goroutine, in subscription order.
type Bus struct {
	mu   sync.Mutex
	next uint64
	subs map[domain.VisibilityEvent][]subscriber
}

type subscriber struct {
	id uint64
	fn func()
}

func NewBus() *Bus {
	return &Bus{subs: make(map[domain.VisibilityEvent][]subscriber)}
}

func (b *Bus) Subscribe(event domain.VisibilityEvent, fn func()) func() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.next++
	id := b.next
	b.subs[event] = append(b.subs[event], subscriber{id: id, fn: fn})

	var once sync.Once
	return func() {
		once.Do(func() { b.remove(event, id) })
	}
}

func (b *Bus) remove(event domain.VisibilityEvent, id uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	subs := b.subs[event]
	for i, s := range subs {
		if s.id == id {
			b.subs[event] = append(subs[:i:i], subs[i+1:]...)
			return
		}
	}
}

// Emit runs every handler registered for event and returns how many ran.
func (b *Bus) Emit(event domain.VisibilityEvent) int {
	b.mu.Lock()
	subs := append([]subscriber(nil), b.subs[event]...)
	b.mu.Unlock()

	for _, s := range subs {
		s.fn()
	}
	if len(subs) > 0 {
		log.Printf("[VISIBILITY] %s delivered to %d handler(s)", event, len(subs))
	}
	return len(subs)
}

func (b *Bus) Subscribers(event domain.VisibilityEvent) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs[event])
}

package workers

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/comitanigiacomo/kanso-daily/internal/core/domain"
)

type DayRoller interface {
	RollOverAll(ctx context.Context) int
}

// MidnightWorker rolls every tracker over at each local midnight until it is
// stopped. It re-arms itself after every run.
type MidnightWorker struct {
	roller DayRoller
	clock  domain.Clock
	loc    *time.Location

	mu      sync.Mutex
	ctx     context.Context
	timer   domain.Timer
	gen     uint64
	running bool
	done    chan struct{}
}

func NewMidnightWorker(roller DayRoller, clock domain.Clock, loc *time.Location) *MidnightWorker {
	if clock == nil {
		clock = domain.SystemClock{}
	}
	if loc == nil {
		loc = time.Local
	}
	return &MidnightWorker{
		roller: roller,
		clock:  clock,
		loc:    loc,
	}
}

func (w *MidnightWorker) Start(ctx context.Context) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.running {
		return
	}
	w.running = true
	w.ctx = ctx
	w.done = make(chan struct{})
	w.scheduleLocked()

	done := w.done
	go func() {
		select {
		case <-ctx.Done():
			w.Stop()
		case <-done:
		}
	}()

	log.Println("[MIDNIGHT] Worker started")
}

func (w *MidnightWorker) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.running {
		return
	}
	w.running = false
	w.gen++
	if w.timer != nil {
		w.timer.Stop()
		w.timer = nil
	}
	close(w.done)
	log.Println("[MIDNIGHT] Worker shutting down...")
}

// NextRun returns when the armed timer is due, or false when stopped.
func (w *MidnightWorker) NextRun() (time.Time, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.running {
		return time.Time{}, false
	}
	return domain.NextMidnight(w.clock.Now(), w.loc), true
}

func (w *MidnightWorker) scheduleLocked() {
	now := w.clock.Now()
	wait := domain.NextMidnight(now, w.loc).Sub(now)

	w.gen++
	gen := w.gen
	w.timer = w.clock.AfterFunc(wait, func() { w.fire(gen) })
}

// fire ignores timers from an earlier Start or from before Stop.
func (w *MidnightWorker) fire(gen uint64) {
	w.mu.Lock()
	if !w.running || gen != w.gen {
		w.mu.Unlock()
		return
	}
	ctx := w.ctx
	w.mu.Unlock()

	if n := w.roller.RollOverAll(ctx); n > 0 {
		log.Printf("[MIDNIGHT] Reset %d tracker(s) for %s", n, domain.DayKey(w.clock.Now(), w.loc))
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.running && gen == w.gen {
		w.scheduleLocked()
	}
}

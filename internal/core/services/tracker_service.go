package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/comitanigiacomo/kanso-daily/internal/core/domain"
)

type TrackerDeps struct {
	Persistence *Persistence
	Clock       domain.Clock
	Location    *time.Location
	Notifier    domain.Notifier
}

// Tracker owns the live state of one tracker. All methods are safe for
// concurrent use; each one sees and leaves a state dated today.
type Tracker struct {
	def      domain.Definition
	persist  *Persistence
	clock    domain.Clock
	loc      *time.Location
	notifier domain.Notifier

	mu    sync.Mutex
	state *domain.TrackerState
}

func NewTracker(def domain.Definition, deps TrackerDeps) *Tracker {
	if deps.Clock == nil {
		deps.Clock = domain.SystemClock{}
	}
	if deps.Location == nil {
		deps.Location = time.Local
	}
	return &Tracker{
		def:      def,
		persist:  deps.Persistence,
		clock:    deps.Clock,
		loc:      deps.Location,
		notifier: deps.Notifier,
	}
}

type ButtonView struct {
	Index    int               `json:"index"`
	Label    string            `json:"label"`
	Value    int               `json:"value"`
	Kind     domain.ButtonKind `json:"kind"`
	Disabled bool              `json:"disabled"`
}

type Snapshot struct {
	Kind      domain.TrackerKind      `json:"kind"`
	Title     string                  `json:"title"`
	Date      string                  `json:"date"`
	Unit      string                  `json:"unit"`
	Goal      string                  `json:"goal"`
	Target    int                     `json:"target"`
	Progress  int                     `json:"progress"`
	Cap       int                     `json:"cap"`
	Percent   int                     `json:"percent"`
	Alerted   bool                    `json:"alerted"`
	Completed []domain.CompletedEntry `json:"completed"`
	Buttons   []ButtonView            `json:"buttons"`
	Notice    *domain.Notice          `json:"notice,omitempty"`
	Cancelled bool                    `json:"cancelled,omitempty"`
}

func (t *Tracker) Definition() domain.Definition {
	return t.def
}

func (t *Tracker) today() string {
	return domain.DayKey(t.clock.Now(), t.loc)
}

// Open loads the persisted state, replacing anything stale with defaults.
func (t *Tracker) Open(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.ensureTodayLocked(ctx)
}

func (t *Tracker) ensureTodayLocked(ctx context.Context) error {
	today := t.today()
	if t.state.IsFor(today) {
		return nil
	}

	saved, err := t.persist.Load(ctx, t.def)
	if err != nil {
		return err
	}
	if saved.IsFor(today) {
		t.state = saved
		return nil
	}

	return t.resetDayLocked(ctx, today)
}

func (t *Tracker) resetDayLocked(ctx context.Context, today string) error {
	fresh := domain.NewTrackerState(t.def, today)
	if err := t.persist.Save(ctx, t.def, fresh); err != nil {
		return err
	}
	t.state = fresh
	log.Printf("[STATE] %s reset for %s", t.def.StorageKey, today)
	return nil
}

func (t *Tracker) Snapshot(ctx context.Context) (Snapshot, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.ensureTodayLocked(ctx); err != nil {
		return Snapshot{}, err
	}
	return t.snapshotLocked(), nil
}

func (t *Tracker) snapshotLocked() Snapshot {
	s := t.state
	buttons := s.ButtonsFor(t.def)
	views := make([]ButtonView, 0, len(buttons))
	for i, b := range buttons {
		views = append(views, ButtonView{
			Index:    i,
			Label:    b.Label,
			Value:    b.Value,
			Kind:     b.Kind,
			Disabled: s.Disabled(t.def, b),
		})
	}

	return Snapshot{
		Kind:      t.def.Kind,
		Title:     t.def.Title,
		Date:      s.Date,
		Unit:      t.def.Unit,
		Goal:      s.Goal,
		Target:    s.Target,
		Progress:  s.Progress,
		Cap:       t.def.Cap(s),
		Percent:   s.Percent(t.def),
		Alerted:   s.Alerted,
		Completed: s.Completed.Entries(),
		Buttons:   views,
	}
}

// mutate applies fn to a copy of today's state and commits it only once the
// copy is persisted. Reaching 100% sets alerted in the same write, before the
// notice goes out.
func (t *Tracker) mutate(ctx context.Context, fn func(s *domain.TrackerState) error) (Snapshot, error) {
	t.mu.Lock()

	if err := t.ensureTodayLocked(ctx); err != nil {
		t.mu.Unlock()
		return Snapshot{}, err
	}

	next := t.state.Clone()
	if err := fn(next); err != nil {
		t.mu.Unlock()
		return Snapshot{}, err
	}

	var notice *domain.Notice
	if next.NeedsCompletionNotice(t.def) {
		next.Alerted = true
		notice = &domain.Notice{
			ID:      uuid.NewString(),
			Kind:    domain.NoticeCompletion,
			Tracker: t.def.Kind,
			Message: fmt.Sprintf("%s: today's goal achieved!", t.def.Title),
			At:      t.clock.Now(),
		}
	}

	if err := t.persist.Save(ctx, t.def, next); err != nil {
		t.mu.Unlock()
		return Snapshot{}, err
	}
	t.state = next
	snap := t.snapshotLocked()
	t.mu.Unlock()

	if notice != nil {
		if t.notifier != nil {
			t.notifier.Notify(ctx, *notice)
		}
		snap.Notice = notice
	}
	return snap, nil
}

// ask runs a prompt outside the lock. ok is false when the user cancelled.
func (t *Tracker) ask(ctx context.Context, p domain.Prompter, message, defaultValue string) (string, bool, error) {
	if p == nil {
		return "", false, fmt.Errorf("%w: no input given", domain.ErrInvalidInput)
	}
	v, err := p.Prompt(ctx, message, defaultValue)
	if err != nil {
		if errors.Is(err, domain.ErrCancelled) {
			return "", false, nil
		}
		return "", false, err
	}
	return v, true, nil
}

func (t *Tracker) cancelled(ctx context.Context) (Snapshot, error) {
	snap, err := t.Snapshot(ctx)
	if err != nil {
		return Snapshot{}, err
	}
	snap.Cancelled = true
	return snap, nil
}

// peek runs fn against today's state without changing it.
func (t *Tracker) peek(ctx context.Context, fn func(s *domain.TrackerState) error) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.ensureTodayLocked(ctx); err != nil {
		return err
	}
	return fn(t.state)
}

func (t *Tracker) SetGoal(ctx context.Context, p domain.Prompter) (Snapshot, error) {
	if t.def.GoalPolicy == domain.GoalDerived {
		return t.mutate(ctx, func(s *domain.TrackerState) error {
			return s.SetGoal(t.def, "")
		})
	}

	var current string
	if err := t.peek(ctx, func(s *domain.TrackerState) error {
		switch {
		case t.def.GoalPolicy == domain.GoalNumeric && s.Target > 0:
			current = strconv.Itoa(s.Target)
		case t.def.GoalPolicy == domain.GoalFreeText && s.Goal != t.def.PlaceholderGoal:
			current = s.Goal
		}
		return nil
	}); err != nil {
		return Snapshot{}, err
	}

	input, ok, err := t.ask(ctx, p, t.def.GoalPrompt, current)
	if err != nil {
		return Snapshot{}, err
	}
	if !ok {
		return t.cancelled(ctx)
	}

	return t.mutate(ctx, func(s *domain.TrackerState) error {
		return s.SetGoal(t.def, input)
	})
}

// Record presses button idx. Only prompt buttons read from p.
func (t *Tracker) Record(ctx context.Context, idx int, p domain.Prompter) (Snapshot, error) {
	var button domain.Button
	if err := t.peek(ctx, func(s *domain.TrackerState) error {
		b, err := s.CheckRecord(t.def, idx)
		button = b
		return err
	}); err != nil {
		return Snapshot{}, err
	}

	amount := 0
	if button.Kind == domain.ButtonPrompt {
		input, ok, err := t.ask(ctx, p, t.def.AmountPrompt, "")
		if err != nil {
			return Snapshot{}, err
		}
		if !ok {
			return t.cancelled(ctx)
		}
		amount, err = domain.ParseAmount(input)
		if err != nil {
			return Snapshot{}, err
		}
	}

	return t.mutate(ctx, func(s *domain.TrackerState) error {
		return s.Record(t.def, idx, amount)
	})
}

func (t *Tracker) Reset(ctx context.Context) (Snapshot, error) {
	return t.mutate(ctx, func(s *domain.TrackerState) error {
		s.Reset(t.def)
		return nil
	})
}

func (t *Tracker) RemoveCompleted(ctx context.Context, p domain.Prompter) (Snapshot, error) {
	var message string
	if err := t.peek(ctx, func(s *domain.TrackerState) error {
		if !t.def.HasCompletedSet() {
			return fmt.Errorf("%w: tracker has no completed list", domain.ErrInvalidInput)
		}
		if s.Completed.Len() == 0 {
			return domain.ErrNothingToRemove
		}
		message = s.RemovalPrompt()
		return nil
	}); err != nil {
		return Snapshot{}, err
	}

	input, ok, err := t.ask(ctx, p, message, "")
	if err != nil {
		return Snapshot{}, err
	}
	if !ok {
		return t.cancelled(ctx)
	}

	return t.mutate(ctx, func(s *domain.TrackerState) error {
		_, err := s.RemoveCompleted(t.def, input)
		return err
	})
}

func (t *Tracker) RenameCustomButton(ctx context.Context, p domain.Prompter) (Snapshot, error) {
	if t.def.CustomButton < 0 {
		return Snapshot{}, fmt.Errorf("%w: tracker has no custom action", domain.ErrInvalidInput)
	}

	var current string
	if err := t.peek(ctx, func(s *domain.TrackerState) error {
		current = s.CustomLabel(t.def)
		return nil
	}); err != nil {
		return Snapshot{}, err
	}

	input, ok, err := t.ask(ctx, p, t.def.GoalPrompt, current)
	if err != nil {
		return Snapshot{}, err
	}
	if !ok {
		return t.cancelled(ctx)
	}

	return t.mutate(ctx, func(s *domain.TrackerState) error {
		return s.RenameCustomButton(t.def, input)
	})
}

// Reconcile is the resume check: it compares the persisted date with today
// and resets when the slot is missing or stale. A fresh persisted record
// replaces a stale in-memory one. It reports whether a reset happened.
func (t *Tracker) Reconcile(ctx context.Context) (bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	today := t.today()
	saved, err := t.persist.Load(ctx, t.def)
	if err != nil {
		return false, err
	}
	if !saved.IsFor(today) {
		return true, t.resetDayLocked(ctx, today)
	}
	if !t.state.IsFor(today) {
		t.state = saved
	}
	return false, nil
}

// RollOver is the scheduled check: it moves the live state to today when it
// belongs to an earlier day and does nothing if that already happened.
func (t *Tracker) RollOver(ctx context.Context) (bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.state.IsFor(t.today()) {
		return false, nil
	}
	return true, t.ensureTodayLocked(ctx)
}

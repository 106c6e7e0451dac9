package domain

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"
)

var (
	ErrInvalidInput      = errors.New("invalid input")
	ErrCancelled         = fmt.Errorf("%w: cancelled", ErrInvalidInput)
	ErrNotANumber        = fmt.Errorf("%w: enter a positive number", ErrInvalidInput)
	ErrUnknownButton     = fmt.Errorf("%w: unknown button", ErrInvalidInput)
	ErrLabelTooLong      = fmt.Errorf("%w: label exceeds %d characters", ErrInvalidInput, MaxCustomLabelLen)
	ErrBadIndex          = fmt.Errorf("%w: choose a number from the list", ErrInvalidInput)
	ErrAlreadyRecorded   = fmt.Errorf("%w: action already recorded today", ErrInvalidInput)
	ErrMissingGoal       = errors.New("set a goal first")
	ErrPlaceholderAction = errors.New("customize this action before recording it")
	ErrNameCollision     = errors.New("an action with this label already exists")
	ErrNothingToRemove   = errors.New("nothing to remove")
	ErrCorruptState      = errors.New("corrupt persisted state")
)

// TrackerState is the whole persisted record of one tracker for one day.
type TrackerState struct {
	Kind      TrackerKind  `json:"kind"`
	Date      string       `json:"date"`
	Target    int          `json:"target,omitempty"`
	Goal      string       `json:"goal"`
	Progress  int          `json:"progress"`
	Alerted   bool         `json:"alerted"`
	Completed CompletedSet `json:"completed"`
	Buttons   []Button     `json:"buttons,omitempty"`
}

func NewTrackerState(def Definition, today string) *TrackerState {
	s := &TrackerState{}
	s.ResetDay(def, today)
	return s
}

// ResetDay restores the defaults of def for the given day.
func (s *TrackerState) ResetDay(def Definition, today string) {
	*s = TrackerState{
		Kind: def.Kind,
		Date: today,
	}
	switch def.GoalPolicy {
	case GoalFreeText:
		s.Goal = def.PlaceholderGoal
	case GoalDerived:
		s.Goal = def.EmptyGoal
	}
	if def.CustomButton >= 0 {
		s.Buttons = def.defaultButtons()
	}
}

func (s *TrackerState) IsFor(today string) bool {
	return s != nil && s.Date == today
}

func (s *TrackerState) Clone() *TrackerState {
	c := *s
	c.Completed = s.Completed.clone()
	if s.Buttons != nil {
		c.Buttons = make([]Button, len(s.Buttons))
		copy(c.Buttons, s.Buttons)
	}
	return &c
}

// ButtonsFor returns the live button set: the stored one when the tracker has a
// renamable button, the static definition otherwise.
func (s *TrackerState) ButtonsFor(def Definition) []Button {
	if def.CustomButton >= 0 && len(s.Buttons) == len(def.Buttons) {
		return s.Buttons
	}
	return def.Buttons
}

func (s *TrackerState) Percent(def Definition) int {
	return Percent(s.Progress, def.Cap(s))
}

// NeedsCompletionNotice reports whether the tracker just reached 100% and the
// notice has not been shown yet today.
func (s *TrackerState) NeedsCompletionNotice(def Definition) bool {
	return def.Cap(s) > 0 && s.Percent(def) == 100 && !s.Alerted
}

// Disabled reports whether a button can no longer be pressed today.
func (s *TrackerState) Disabled(def Definition, b Button) bool {
	switch b.Kind {
	case ButtonNamed, ButtonCustom:
		return s.Completed.Has(b.Label)
	}
	return false
}

// CheckRecord validates that button idx may be recorded right now without
// touching the state, so callers can reject before prompting.
func (s *TrackerState) CheckRecord(def Definition, idx int) (Button, error) {
	buttons := s.ButtonsFor(def)
	if idx < 0 || idx >= len(buttons) {
		return Button{}, ErrUnknownButton
	}
	b := buttons[idx]

	switch b.Kind {
	case ButtonReset:
		return b, nil
	case ButtonCustom:
		if b.Label == def.CustomLabel {
			return b, ErrPlaceholderAction
		}
	case ButtonNeedsGoal:
		if def.GoalPolicy == GoalFreeText && s.Goal == def.PlaceholderGoal {
			return b, ErrMissingGoal
		}
	}

	if def.Cap(s) <= 0 {
		return b, ErrMissingGoal
	}
	return b, nil
}

// Record applies button idx. amount is only read for ButtonPrompt.
// Recording an already completed named action is a successful no-op.
func (s *TrackerState) Record(def Definition, idx int, amount int) error {
	b, err := s.CheckRecord(def, idx)
	if err != nil {
		return err
	}

	value := b.Value
	switch b.Kind {
	case ButtonReset:
		s.Reset(def)
		return nil
	case ButtonPrompt:
		if amount <= 0 {
			return ErrNotANumber
		}
		value = amount
	case ButtonNamed, ButtonCustom:
		if !s.Completed.Add(b.Label, b.Value) {
			return nil
		}
		s.rebuildGoal(def)
	}

	s.Progress = clamp(s.Progress+value, def.Cap(s))
	return nil
}

// Reset zeroes today's progress. The day and the button set are kept.
func (s *TrackerState) Reset(def Definition) {
	s.Progress = 0
	s.Alerted = false
	if def.HasCompletedSet() {
		s.Completed.Clear()
		s.rebuildGoal(def)
	}
}

func (s *TrackerState) SetGoal(def Definition, input string) error {
	switch def.GoalPolicy {
	case GoalNumeric:
		target, err := ParseAmount(input)
		if err != nil {
			return err
		}
		s.Target = target
	case GoalFreeText:
		label := strings.TrimSpace(input)
		if label == "" {
			return fmt.Errorf("%w: goal cannot be empty", ErrInvalidInput)
		}
		s.Goal = label
	default:
		return fmt.Errorf("%w: goal is derived from completed actions", ErrInvalidInput)
	}

	if def.ClearProgressOnGoal {
		s.Progress = 0
	}
	s.Progress = clamp(s.Progress, def.Cap(s))
	// A goal still at the cap has already been announced today.
	if s.Percent(def) < 100 {
		s.Alerted = false
	}
	return nil
}

// RemovalPrompt lists the completed entries with their 1-based numbers.
func (s *TrackerState) RemovalPrompt() string {
	entries := s.Completed.Entries()
	lines := make([]string, 0, len(entries))
	for i, e := range entries {
		lines = append(lines, fmt.Sprintf("%d.%s", i+1, e.Label))
	}
	return fmt.Sprintf("Enter the number to remove (1~%d)\n\n%s", len(entries), strings.Join(lines, "\n"))
}

// RemoveCompleted drops the entry at the 1-based position given in input and
// takes its recorded value back off the progress.
func (s *TrackerState) RemoveCompleted(def Definition, input string) (CompletedEntry, error) {
	if !def.HasCompletedSet() {
		return CompletedEntry{}, fmt.Errorf("%w: tracker has no completed list", ErrInvalidInput)
	}
	if s.Completed.Len() == 0 {
		return CompletedEntry{}, ErrNothingToRemove
	}

	n, err := strconv.Atoi(strings.TrimSpace(input))
	if err != nil {
		return CompletedEntry{}, ErrBadIndex
	}
	entry, ok := s.Completed.RemoveAt(n - 1)
	if !ok {
		return CompletedEntry{}, ErrBadIndex
	}

	s.Progress -= entry.Value
	if s.Progress < 0 {
		s.Progress = 0
	}
	s.rebuildGoal(def)
	s.Alerted = false
	return entry, nil
}

func (s *TrackerState) CustomLabel(def Definition) string {
	buttons := s.ButtonsFor(def)
	if def.CustomButton < 0 || def.CustomButton >= len(buttons) {
		return ""
	}
	return buttons[def.CustomButton].Label
}

func (s *TrackerState) RenameCustomButton(def Definition, input string) error {
	if def.CustomButton < 0 {
		return fmt.Errorf("%w: tracker has no custom action", ErrInvalidInput)
	}
	label := strings.TrimSpace(input)
	if label == "" {
		return fmt.Errorf("%w: label cannot be empty", ErrInvalidInput)
	}
	if utf8.RuneCountInString(label) > def.CustomLabelLimit {
		return ErrLabelTooLong
	}

	if len(s.Buttons) != len(def.Buttons) {
		s.Buttons = def.defaultButtons()
	}
	if current := s.Buttons[def.CustomButton].Label; label != current && s.Completed.Has(current) {
		return ErrAlreadyRecorded
	}
	for i, b := range s.Buttons {
		if i != def.CustomButton && b.Label == label {
			return ErrNameCollision
		}
	}

	s.Buttons[def.CustomButton].Label = label
	return nil
}

// Validate rejects records that cannot belong to def.
func (s *TrackerState) Validate(def Definition) error {
	if s.Kind != def.Kind {
		return fmt.Errorf("%w: kind %q, want %q", ErrCorruptState, s.Kind, def.Kind)
	}
	if _, err := time.Parse(DateLayout, s.Date); err != nil {
		return fmt.Errorf("%w: date %q", ErrCorruptState, s.Date)
	}
	if s.Progress < 0 || s.Target < 0 {
		return fmt.Errorf("%w: negative counters", ErrCorruptState)
	}
	for _, b := range s.Buttons {
		if b.Value < 0 {
			return fmt.Errorf("%w: negative button value", ErrCorruptState)
		}
	}
	return nil
}

// Normalize repairs derivable fields after a load.
func (s *TrackerState) Normalize(def Definition) {
	if def.CustomButton >= 0 && len(s.Buttons) != len(def.Buttons) {
		s.Buttons = def.defaultButtons()
	}
	if def.CustomButton < 0 {
		s.Buttons = nil
	}
	switch def.GoalPolicy {
	case GoalFreeText:
		if strings.TrimSpace(s.Goal) == "" {
			s.Goal = def.PlaceholderGoal
		}
	case GoalDerived:
		s.rebuildGoal(def)
	default:
		s.Goal = ""
	}
	if !def.HasCompletedSet() {
		s.Completed.Clear()
	}
	s.Progress = clamp(s.Progress, def.Cap(s))
}

func (s *TrackerState) rebuildGoal(def Definition) {
	if s.Completed.Len() == 0 {
		s.Goal = def.EmptyGoal
		return
	}
	s.Goal = strings.Join(s.Completed.Labels(), goalLabelSeparator)
}

// ParseAmount accepts a positive number, rounding fractions to whole units.
func ParseAmount(input string) (int, error) {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return 0, ErrNotANumber
	}
	v, err := strconv.ParseFloat(trimmed, 64)
	if err != nil || math.IsNaN(v) || v <= 0 || v > MaxAmount {
		return 0, ErrNotANumber
	}
	n := int(math.Round(v))
	if n <= 0 {
		return 0, ErrNotANumber
	}
	return n, nil
}

func clamp(v, cap int) int {
	if v < 0 || cap <= 0 {
		return 0
	}
	if v > cap {
		return cap
	}
	return v
}

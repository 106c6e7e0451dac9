package domain

import (
	"context"
	"errors"
	"time"
)

var (
	ErrStateNotFound = errors.New("state not found")
)

// StateStore is the durable key-value slot each tracker persists into.
type StateStore interface {
	// Get returns the blob stored under key, or ErrStateNotFound.
	Get(ctx context.Context, key string) ([]byte, error)

	// Put overwrites the blob stored under key.
	Put(ctx context.Context, key string, blob []byte) error
}

// Prompter asks the user for a line of text.
// A cancelled prompt returns ErrCancelled.
type Prompter interface {
	Prompt(ctx context.Context, message, defaultValue string) (string, error)
}

// Answer is a Prompter that replies with a value known in advance, e.g. one
// taken from a request body.
type Answer struct {
	Value     string
	Cancelled bool
}

func (a Answer) Prompt(ctx context.Context, message, defaultValue string) (string, error) {
	if a.Cancelled {
		return "", ErrCancelled
	}
	return a.Value, nil
}

type PromptFunc func(ctx context.Context, message, defaultValue string) (string, error)

func (f PromptFunc) Prompt(ctx context.Context, message, defaultValue string) (string, error) {
	return f(ctx, message, defaultValue)
}

const NoticeCompletion = "completion"

type Notice struct {
	ID      string      `json:"id"`
	Kind    string      `json:"kind"`
	Tracker TrackerKind `json:"tracker"`
	Message string      `json:"message"`
	At      time.Time   `json:"at"`
}

type Notifier interface {
	Notify(ctx context.Context, n Notice)
}

type VisibilityEvent string

const (
	EventVisible VisibilityEvent = "visible"
	EventHidden  VisibilityEvent = "hidden"
	EventFocus   VisibilityEvent = "focus"
)

func ParseVisibilityEvent(s string) (VisibilityEvent, bool) {
	switch e := VisibilityEvent(s); e {
	case EventVisible, EventHidden, EventFocus:
		return e, true
	}
	return "", false
}

// VisibilitySource delivers tab visibility and window focus changes.
type VisibilitySource interface {
	// Subscribe registers fn for event and returns the matching unsubscribe.
	Subscribe(event VisibilityEvent, fn func()) (unsubscribe func())
}

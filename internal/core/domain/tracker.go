package domain

import (
	"errors"
	"strings"
)

var (
	ErrTrackerNotFound = errors.New("tracker not found")
)

type TrackerKind string

const (
	KindHydration TrackerKind = "hydration"
	KindWorkout   TrackerKind = "workout"
	KindLearning  TrackerKind = "learning"
)

type ButtonKind string

const (
	// ButtonAdd adds its fixed value to progress.
	ButtonAdd ButtonKind = "add"
	// ButtonPrompt asks the user for the amount to add.
	ButtonPrompt ButtonKind = "prompt"
	// ButtonNeedsGoal adds its value only once a goal label has been entered.
	ButtonNeedsGoal ButtonKind = "needs-goal"
	// ButtonNamed adds its value and records its label in the completed set.
	ButtonNamed ButtonKind = "named"
	// ButtonCustom behaves like ButtonNamed once the user has renamed it.
	ButtonCustom ButtonKind = "custom"
	ButtonReset  ButtonKind = "reset"
)

type GoalPolicy string

const (
	GoalNumeric  GoalPolicy = "numeric"
	GoalFreeText GoalPolicy = "free_text"
	GoalDerived  GoalPolicy = "derived"
)

const (
	DefaultUnitCap     = 600
	MaxCustomLabelLen  = 8
	MaxAmount          = 1_000_000
	goalLabelSeparator = " / "
)

type Button struct {
	Label string     `json:"label"`
	Value int        `json:"value"`
	Kind  ButtonKind `json:"kind"`
}

// Definition carries everything that differs between trackers. The state rules
// in this package only ever branch on Definition fields, never on Kind.
type Definition struct {
	ID         int
	Kind       TrackerKind
	Title      string
	Path       string
	StorageKey string
	Unit       string

	// FixedCap is the 100% value. Zero means the cap is the numeric target.
	FixedCap int

	GoalPolicy          GoalPolicy
	ClearProgressOnGoal bool
	GoalPrompt          string
	AmountPrompt        string

	// PlaceholderGoal is the label shown before a free-text goal is entered.
	PlaceholderGoal string
	// EmptyGoal is the derived label shown when nothing has been completed.
	EmptyGoal string

	Buttons []Button

	// CustomButton is the index of the renamable button, -1 if none.
	CustomButton     int
	CustomLabel      string
	CustomLabelLimit int
}

type Descriptor struct {
	ID    int    `json:"id"`
	Path  string `json:"path"`
	Title string `json:"title"`
}

func (d Definition) Descriptor() Descriptor {
	return Descriptor{ID: d.ID, Path: d.Path, Title: d.Title}
}

func (d Definition) Cap(s *TrackerState) int {
	if d.FixedCap > 0 {
		return d.FixedCap
	}
	if s == nil {
		return 0
	}
	return s.Target
}

func (d Definition) HasCompletedSet() bool {
	return d.GoalPolicy == GoalDerived
}

func (d Definition) defaultButtons() []Button {
	out := make([]Button, len(d.Buttons))
	copy(out, d.Buttons)
	return out
}

func HydrationDefinition() Definition {
	return Definition{
		ID:                  1,
		Kind:                KindHydration,
		Title:               "Hydration",
		Path:                "hydration",
		StorageKey:          "hydration-state",
		Unit:                "mL",
		GoalPolicy:          GoalNumeric,
		ClearProgressOnGoal: true,
		GoalPrompt:          "Today's target (mL)",
		AmountPrompt:        "Amount (mL)",
		Buttons: []Button{
			{Label: "One cup", Value: 180, Kind: ButtonAdd},
			{Label: "500mL", Value: 500, Kind: ButtonAdd},
			{Label: "Custom", Kind: ButtonPrompt},
			{Label: "RESET", Kind: ButtonReset},
		},
		CustomButton: -1,
	}
}

func WorkoutDefinition() Definition {
	return Definition{
		ID:              2,
		Kind:            KindWorkout,
		Title:           "Workout",
		Path:            "workout",
		StorageKey:      "workout-state",
		Unit:            "pt",
		FixedCap:        DefaultUnitCap,
		GoalPolicy:      GoalFreeText,
		GoalPrompt:      "Today's workout",
		PlaceholderGoal: "Enter a workout",
		Buttons: []Button{
			{Label: "Stretching", Value: 100, Kind: ButtonAdd},
			{Label: "Walk 10+ min", Value: 200, Kind: ButtonAdd},
			{Label: "Today's workout", Value: 300, Kind: ButtonNeedsGoal},
			{Label: "RESET", Kind: ButtonReset},
		},
		CustomButton: -1,
	}
}

func LearningDefinition() Definition {
	return Definition{
		ID:         3,
		Kind:       KindLearning,
		Title:      "Learning",
		Path:       "learning",
		StorageKey: "learning-state",
		Unit:       "pt",
		FixedCap:   DefaultUnitCap,
		GoalPolicy: GoalDerived,
		GoalPrompt: "Today's study (max 8 characters)",
		EmptyGoal:  "none",
		Buttons: []Button{
			{Label: "Coding test", Value: 200, Kind: ButtonNamed},
			{Label: "Cert exam", Value: 200, Kind: ButtonNamed},
			{Label: "Today's study", Value: 200, Kind: ButtonCustom},
			{Label: "RESET", Kind: ButtonReset},
		},
		CustomButton:     2,
		CustomLabel:      "Today's study",
		CustomLabelLimit: MaxCustomLabelLen,
	}
}

// DefaultDefinitions returns the trackers in menu order.
func DefaultDefinitions() []Definition {
	return []Definition{HydrationDefinition(), WorkoutDefinition(), LearningDefinition()}
}

func ParseKind(s string) (TrackerKind, error) {
	switch k := TrackerKind(strings.ToLower(strings.TrimSpace(s))); k {
	case KindHydration, KindWorkout, KindLearning:
		return k, nil
	}
	return "", ErrTrackerNotFound
}

package dataset

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownVariant is returned by ParseVariant for anything but v1 or v2.
var ErrUnknownVariant = errors.New("unknown dataset variant")

// Variant selects the dataset layout and rule set.
type Variant string

const (
	// V1 has no collision flag and is written unbalanced.
	V1 Variant = "v1"
	// V2 adds far_front and collision and is class-balanced.
	V2 Variant = "v2"
)

// ParseVariant accepts "v1" or "v2" (case-insensitive).
func ParseVariant(s string) (Variant, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "v1", "1":
		return V1, nil
	case "v2", "2":
		return V2, nil
	}
	return "", fmt.Errorf("%w %q", ErrUnknownVariant, s)
}

// Action is the discrete control decision a sample is labeled with.
type Action int

const (
	ActionForward Action = 0
	ActionLeft    Action = 1
	ActionRight   Action = 2
	ActionStop    Action = 3
)

// NumActions is the size of the action space.
const NumActions = 4

// Actions lists every action in class-iteration order.
var Actions = [NumActions]Action{ActionForward, ActionLeft, ActionRight, ActionStop}

var actionNames = map[Action]string{
	ActionForward: "FORWARD",
	ActionLeft:    "LEFT",
	ActionRight:   "RIGHT",
	ActionStop:    "STOP",
}

func (a Action) String() string {
	if n, ok := actionNames[a]; ok {
		return n
	}
	return fmt.Sprintf("Action(%d)", int(a))
}

// Valid reports whether a is one of the four known actions.
func (a Action) Valid() bool {
	return a >= ActionForward && a <= ActionStop
}

// RawSample is one row of the input sensor log. Distances are in metres.
type RawSample struct {
	LidarMin        float64
	LidarMax        float64 // V2 only
	UltrasonicLeft  float64
	UltrasonicRight float64
	CollisionFlag   float64 // V2 only; absent or empty cells read as 0
}

// NormalizedSample holds the clamped centimetre features derived from a RawSample.
type NormalizedSample struct {
	Front     int
	FarFront  int // V2 only
	Left      int
	Right     int
	Diff      int // Left - Right
	MinLR     int // min(Left, Right)
	Collision int // V2 only
}

// LabeledSample is a NormalizedSample with its derived action.
type LabeledSample struct {
	NormalizedSample
	Action Action
}

// ClassCounts holds the number of samples per action, indexed by Action.
type ClassCounts [NumActions]int

// CountByAction tallies samples per action. Samples with an out-of-range
// action are ignored.
func CountByAction(samples []LabeledSample) ClassCounts {
	var c ClassCounts
	for _, s := range samples {
		if s.Action.Valid() {
			c[s.Action]++
		}
	}
	return c
}

// Total returns the sum over all classes.
func (c ClassCounts) Total() int {
	n := 0
	for _, v := range c {
		n += v
	}
	return n
}

// Max returns the largest class count.
func (c ClassCounts) Max() int {
	m := 0
	for _, v := range c {
		if v > m {
			m = v
		}
	}
	return m
}

func (c ClassCounts) String() string {
	parts := make([]string, 0, NumActions)
	for _, a := range Actions {
		parts = append(parts, fmt.Sprintf("%s=%d", a, c[a]))
	}
	return strings.Join(parts, " ")
}

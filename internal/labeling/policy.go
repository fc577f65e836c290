// Package labeling derives navigation actions from normalized sensor features.
//
// A Policy is an ordered list of guards evaluated first-match-wins, with a
// fallback action when none match. Two policies exist and are kept separate
// because they disagree on boundary inputs: StrictThresholdPolicy (variant
// v1) and RelaxedThresholdPolicy (variant v2, collision-aware).
package labeling

import (
	"fmt"

	"github.com/banshee-data/annie.dataset/internal/dataset"
)

// Threshold constants in centimetres.
const (
	// BoxedInMax: front, left and right all below this means the robot is boxed in.
	BoxedInMax = 20

	// Strict (v1) thresholds.
	StrictForwardMin    = 60
	StrictForwardMargin = 10 // front must beat each side by more than this
	StrictTurnMin       = 40

	// Relaxed (v2) thresholds.
	RelaxedForwardMin = 40
	RelaxedTurnMin    = 30
)

// Policy names, stored alongside runs.
const (
	StrictThresholdPolicyName  = "StrictThresholdPolicy"
	RelaxedThresholdPolicyName = "RelaxedThresholdPolicy"
)

// Features are the inputs a guard may inspect.
type Features struct {
	Front     int
	Left      int
	Right     int
	Collision int
}

// FeaturesOf extracts guard inputs from a normalized sample.
func FeaturesOf(n dataset.NormalizedSample) Features {
	return Features{Front: n.Front, Left: n.Left, Right: n.Right, Collision: n.Collision}
}

// Guard pairs a predicate with the action it yields.
type Guard struct {
	Name   string
	Match  func(Features) bool
	Action dataset.Action
}

// Policy is an ordered guard list with a fallback.
type Policy struct {
	Name     string
	Guards   []Guard
	Fallback dataset.Action
}

// Label returns the action of the first matching guard, or the fallback.
func (p Policy) Label(f Features) dataset.Action {
	a, _ := p.Explain(f)
	return a
}

// Explain is Label plus the name of the deciding guard ("fallback" when no
// guard matched).
func (p Policy) Explain(f Features) (dataset.Action, string) {
	for _, g := range p.Guards {
		if g.Match(f) {
			return g.Action, g.Name
		}
	}
	return p.Fallback, "fallback"
}

// LabelSamples labels each normalized sample in order.
func (p Policy) LabelSamples(samples []dataset.NormalizedSample) []dataset.LabeledSample {
	out := make([]dataset.LabeledSample, len(samples))
	for i, n := range samples {
		out[i] = dataset.LabeledSample{NormalizedSample: n, Action: p.Label(FeaturesOf(n))}
	}
	return out
}

func boxedIn(f Features) bool {
	return f.Front < BoxedInMax && f.Left < BoxedInMax && f.Right < BoxedInMax
}

func turnLeftAbove(threshold int) func(Features) bool {
	return func(f Features) bool { return f.Left > f.Right && f.Left > threshold }
}

func turnRightAbove(threshold int) func(Features) bool {
	return func(f Features) bool { return f.Right > f.Left && f.Right > threshold }
}

// StrictThresholdPolicy is the v1 rule set: no collision input, forward
// requires a 10 cm lead over both sides and more than 60 cm ahead, turns
// require more than 40 cm of side clearance.
func StrictThresholdPolicy() Policy {
	return Policy{
		Name: StrictThresholdPolicyName,
		Guards: []Guard{
			{Name: "boxed_in", Match: boxedIn, Action: dataset.ActionStop},
			{
				Name: "forward_clear",
				Match: func(f Features) bool {
					return f.Front > f.Left+StrictForwardMargin &&
						f.Front > f.Right+StrictForwardMargin &&
						f.Front > StrictForwardMin
				},
				Action: dataset.ActionForward,
			},
			{Name: "left_open", Match: turnLeftAbove(StrictTurnMin), Action: dataset.ActionLeft},
			{Name: "right_open", Match: turnRightAbove(StrictTurnMin), Action: dataset.ActionRight},
		},
		Fallback: dataset.ActionStop,
	}
}

// RelaxedThresholdPolicy is the v2 rule set. A recorded collision stops the
// robot regardless of the distance readings.
func RelaxedThresholdPolicy() Policy {
	return Policy{
		Name: RelaxedThresholdPolicyName,
		Guards: []Guard{
			{Name: "collision", Match: func(f Features) bool { return f.Collision == 1 }, Action: dataset.ActionStop},
			{Name: "boxed_in", Match: boxedIn, Action: dataset.ActionStop},
			{
				Name: "forward_clear",
				Match: func(f Features) bool {
					return f.Front > RelaxedForwardMin && f.Front > f.Left && f.Front > f.Right
				},
				Action: dataset.ActionForward,
			},
			{Name: "left_open", Match: turnLeftAbove(RelaxedTurnMin), Action: dataset.ActionLeft},
			{Name: "right_open", Match: turnRightAbove(RelaxedTurnMin), Action: dataset.ActionRight},
		},
		Fallback: dataset.ActionStop,
	}
}

// ForVariant returns the policy a dataset variant is labeled with.
func ForVariant(v dataset.Variant) (Policy, error) {
	switch v {
	case dataset.V1:
		return StrictThresholdPolicy(), nil
	case dataset.V2:
		return RelaxedThresholdPolicy(), nil
	}
	return Policy{}, fmt.Errorf("no labeling policy for variant %q", v)
}

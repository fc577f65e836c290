// Package synth generates synthetic ANNie sensor logs for exercising the
// dataset pipeline without a robot.
//
// Rows come from four scenario families, one per action the labeling
// policies should derive: a clear corridor ahead, an opening on the left, an
// opening on the right, and a dead end. Readings carry gaussian noise and the
// occasional out-of-range echo that real ultrasonic sensors report.
package synth

import (
	"math"
	"math/rand"

	"github.com/banshee-data/annie.dataset/internal/dataset"
)

// Sensor model constants, in metres.
const (
	NoiseStdDev     = 0.025
	OutOfRangeEcho  = 9.99
	OutOfRangeProb  = 0.01
	CollisionProb   = 0.02
	maxFarFrontGain = 0.5
)

// Scenario is one family of sensor readings.
type Scenario int

const (
	ScenarioClear Scenario = iota
	ScenarioLeftOpen
	ScenarioRightOpen
	ScenarioDeadEnd
)

// Scenarios lists every family in generation order.
var Scenarios = []Scenario{ScenarioClear, ScenarioLeftOpen, ScenarioRightOpen, ScenarioDeadEnd}

func (s Scenario) String() string {
	switch s {
	case ScenarioClear:
		return "clear"
	case ScenarioLeftOpen:
		return "left_open"
	case ScenarioRightOpen:
		return "right_open"
	case ScenarioDeadEnd:
		return "dead_end"
	}
	return "unknown"
}

// span is a uniform range in metres.
type span struct{ lo, hi float64 }

func (s span) draw(rng *rand.Rand) float64 {
	return s.lo + rng.Float64()*(s.hi-s.lo)
}

// scenarioSpans gives front, left and right ranges per family.
var scenarioSpans = map[Scenario][3]span{
	ScenarioClear:     {{0.70, 1.00}, {0.10, 0.50}, {0.10, 0.50}},
	ScenarioLeftOpen:  {{0.10, 0.35}, {0.50, 1.00}, {0.05, 0.30}},
	ScenarioRightOpen: {{0.10, 0.35}, {0.05, 0.30}, {0.50, 1.00}},
	ScenarioDeadEnd:   {{0.02, 0.18}, {0.02, 0.18}, {0.02, 0.18}},
}

// Options controls generation.
type Options struct {
	PerScenario int // rows per scenario family
	Variant     dataset.Variant
}

// Generate returns 4*opts.PerScenario raw samples, interleaving the scenario
// families row by row. The same rng seed always yields the same rows.
func Generate(rng *rand.Rand, opts Options) []dataset.RawSample {
	if opts.PerScenario <= 0 {
		return []dataset.RawSample{}
	}

	out := make([]dataset.RawSample, 0, opts.PerScenario*len(Scenarios))
	for i := 0; i < opts.PerScenario; i++ {
		for _, sc := range Scenarios {
			out = append(out, sample(rng, sc, opts.Variant))
		}
	}
	return out
}

func sample(rng *rand.Rand, sc Scenario, v dataset.Variant) dataset.RawSample {
	spans := scenarioSpans[sc]
	front := spans[0].draw(rng)

	raw := dataset.RawSample{
		LidarMin:        reading(rng, front),
		UltrasonicLeft:  reading(rng, spans[1].draw(rng)),
		UltrasonicRight: reading(rng, spans[2].draw(rng)),
	}
	if v == dataset.V2 {
		raw.LidarMax = math.Max(raw.LidarMin, reading(rng, front+rng.Float64()*maxFarFrontGain))
		if rng.Float64() < CollisionProb {
			raw.CollisionFlag = 1
		}
	}
	return raw
}

// reading applies sensor noise to a true distance. Noisy readings never go
// negative.
func reading(rng *rand.Rand, truth float64) float64 {
	if rng.Float64() < OutOfRangeProb {
		return OutOfRangeEcho
	}
	return math.Max(0, truth+rng.NormFloat64()*NoiseStdDev)
}

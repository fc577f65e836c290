// Package balance equalizes action classes by stratified oversampling and
// splits labeled datasets into train and test partitions.
//
// All randomness comes from an explicitly passed Source. Draws happen in a
// fixed order (per-class oversampling in ascending action order, then one
// global shuffle) so a given input and seed always produce the same output.
package balance

import (
	"errors"
	"fmt"
	"strings"

	"github.com/banshee-data/annie.dataset/internal/dataset"
	"github.com/banshee-data/annie.dataset/internal/monitoring"
)

// Source is the random source consumed by the balancer. *math/rand.Rand
// satisfies it.
type Source interface {
	Intn(n int) int
	Shuffle(n int, swap func(i, j int))
}

// EmptyClassMode controls what happens when a class has no samples while
// another class does.
type EmptyClassMode string

const (
	// EmptyClassSkip leaves the class empty and logs a warning.
	EmptyClassSkip EmptyClassMode = "skip"
	// EmptyClassFail aborts balancing with ErrEmptyClass.
	EmptyClassFail EmptyClassMode = "fail"
)

// ErrEmptyClass is returned in EmptyClassFail mode.
var ErrEmptyClass = errors.New("empty action class")

// ParseEmptyClassMode accepts "skip" or "fail"; empty selects skip.
func ParseEmptyClassMode(s string) (EmptyClassMode, error) {
	switch EmptyClassMode(strings.ToLower(strings.TrimSpace(s))) {
	case "", EmptyClassSkip:
		return EmptyClassSkip, nil
	case EmptyClassFail:
		return EmptyClassFail, nil
	}
	return "", fmt.Errorf("unknown empty class mode %q", s)
}

// Options configures a Balance call.
type Options struct {
	EmptyClass EmptyClassMode
}

// Result is the balanced dataset with the class counts on either side.
type Result struct {
	Samples      []dataset.LabeledSample
	Before       dataset.ClassCounts
	After        dataset.ClassCounts
	MaxCount     int
	EmptyClasses []dataset.Action
}

// Balance oversamples every non-empty class up to the size of the largest
// class, drawing with replacement from the class's original members, then
// shuffles the concatenation. The input slice is not modified. Within each
// class the originals keep their input order and precede the duplicates.
func Balance(samples []dataset.LabeledSample, src Source, opts Options) (*Result, error) {
	var groups [dataset.NumActions][]dataset.LabeledSample
	for i, s := range samples {
		if !s.Action.Valid() {
			return nil, fmt.Errorf("sample %d: invalid action %d", i, int(s.Action))
		}
		groups[s.Action] = append(groups[s.Action], s)
	}

	res := &Result{Before: dataset.CountByAction(samples)}
	res.MaxCount = res.Before.Max()
	if res.MaxCount == 0 {
		res.Samples = []dataset.LabeledSample{}
		return res, nil
	}

	for _, a := range dataset.Actions {
		g := groups[a]
		size := len(g)
		if size == 0 {
			if opts.EmptyClass == EmptyClassFail {
				return nil, fmt.Errorf("%w: %s has no samples (largest class has %d)", ErrEmptyClass, a, res.MaxCount)
			}
			monitoring.Logf("[balance] warning: class %s has no samples; left empty", a)
			res.EmptyClasses = append(res.EmptyClasses, a)
			continue
		}
		for n := size; n < res.MaxCount; n++ {
			g = append(g, g[src.Intn(size)])
		}
		groups[a] = g
	}

	out := make([]dataset.LabeledSample, 0, res.MaxCount*dataset.NumActions)
	for _, a := range dataset.Actions {
		out = append(out, groups[a]...)
	}
	src.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })

	res.Samples = out
	res.After = dataset.CountByAction(out)
	return res, nil
}

package balance

import (
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/annie.dataset/internal/dataset"
	"github.com/banshee-data/annie.dataset/internal/monitoring"
)

// sample builds a labeled sample whose Front field doubles as a unique id.
func sample(id int, a dataset.Action) dataset.LabeledSample {
	return dataset.LabeledSample{
		NormalizedSample: dataset.NormalizedSample{Front: id, Left: id % 7, Right: id % 5},
		Action:           a,
	}
}

func unbalancedFixture() []dataset.LabeledSample {
	var out []dataset.LabeledSample
	id := 0
	// Interleave classes so the input is not label-contiguous.
	remaining := dataset.ClassCounts{9, 3, 1, 5}
	for remaining.Total() > 0 {
		for _, a := range dataset.Actions {
			if remaining[a] > 0 {
				out = append(out, sample(id, a))
				remaining[a]--
				id++
			}
		}
	}
	return out
}

// recordingSource wraps a Source and records the order of calls.
type recordingSource struct {
	inner Source
	calls []string
}

func (r *recordingSource) Intn(n int) int {
	r.calls = append(r.calls, "intn")
	return r.inner.Intn(n)
}

func (r *recordingSource) Shuffle(n int, swap func(i, j int)) {
	r.calls = append(r.calls, "shuffle")
	r.inner.Shuffle(n, swap)
}

func TestBalance_EveryClassReachesMaxCount(t *testing.T) {
	in := unbalancedFixture()

	res, err := Balance(in, rand.New(rand.NewSource(42)), Options{})
	require.NoError(t, err)

	assert.Equal(t, 9, res.MaxCount)
	assert.Equal(t, dataset.ClassCounts{9, 3, 1, 5}, res.Before)
	assert.Equal(t, dataset.ClassCounts{9, 9, 9, 9}, res.After)
	assert.Len(t, res.Samples, 36)
	assert.Empty(t, res.EmptyClasses)
}

func TestBalance_ConservesEveryOriginal(t *testing.T) {
	in := unbalancedFixture()

	res, err := Balance(in, rand.New(rand.NewSource(7)), Options{})
	require.NoError(t, err)

	seen := make(map[dataset.LabeledSample]int)
	for _, s := range res.Samples {
		seen[s]++
	}
	for _, s := range in {
		assert.GreaterOrEqual(t, seen[s], 1, "original %+v dropped", s)
	}
	// Duplicates come only from their own class.
	for s := range seen {
		assert.Contains(t, in, s)
	}
}

func TestBalance_DeterministicForSameSeed(t *testing.T) {
	in := unbalancedFixture()

	a, err := Balance(in, rand.New(rand.NewSource(42)), Options{})
	require.NoError(t, err)
	b, err := Balance(in, rand.New(rand.NewSource(42)), Options{})
	require.NoError(t, err)

	if diff := cmp.Diff(a.Samples, b.Samples); diff != "" {
		t.Errorf("same seed produced different output (-a +b):\n%s", diff)
	}

	c, err := Balance(in, rand.New(rand.NewSource(43)), Options{})
	require.NoError(t, err)
	assert.NotEqual(t, a.Samples, c.Samples, "different seeds should reorder")
}

func TestBalance_DoesNotModifyInput(t *testing.T) {
	in := unbalancedFixture()
	before := append([]dataset.LabeledSample(nil), in...)

	_, err := Balance(in, rand.New(rand.NewSource(1)), Options{})
	require.NoError(t, err)

	assert.Equal(t, before, in)
}

func TestBalance_DrawOrder(t *testing.T) {
	in := unbalancedFixture()
	src := &recordingSource{inner: rand.New(rand.NewSource(42))}

	_, err := Balance(in, src, Options{})
	require.NoError(t, err)

	// 6 LEFT + 8 RIGHT + 4 STOP draws, then exactly one shuffle.
	require.Len(t, src.calls, 19)
	for _, c := range src.calls[:18] {
		assert.Equal(t, "intn", c)
	}
	assert.Equal(t, "shuffle", src.calls[18])
}

func TestBalance_AlreadyBalancedOnlyShuffles(t *testing.T) {
	in := []dataset.LabeledSample{
		sample(1, dataset.ActionForward),
		sample(2, dataset.ActionLeft),
		sample(3, dataset.ActionRight),
		sample(4, dataset.ActionStop),
	}
	src := &recordingSource{inner: rand.New(rand.NewSource(42))}

	res, err := Balance(in, src, Options{})
	require.NoError(t, err)

	assert.Equal(t, []string{"shuffle"}, src.calls)
	assert.ElementsMatch(t, in, res.Samples)
}

func TestBalance_EmptyClassSkip(t *testing.T) {
	lines, restore := monitoring.CaptureLogs()
	defer restore()

	in := []dataset.LabeledSample{
		sample(1, dataset.ActionForward),
		sample(2, dataset.ActionForward),
		sample(3, dataset.ActionStop),
	}

	res, err := Balance(in, rand.New(rand.NewSource(42)), Options{EmptyClass: EmptyClassSkip})
	require.NoError(t, err)

	assert.Equal(t, dataset.ClassCounts{2, 0, 0, 2}, res.After)
	assert.Equal(t, []dataset.Action{dataset.ActionLeft, dataset.ActionRight}, res.EmptyClasses)
	require.Len(t, *lines, 2)
	assert.Contains(t, (*lines)[0], "LEFT")
	assert.Contains(t, (*lines)[1], "RIGHT")
}

func TestBalance_EmptyClassFail(t *testing.T) {
	in := []dataset.LabeledSample{sample(1, dataset.ActionForward)}

	_, err := Balance(in, rand.New(rand.NewSource(42)), Options{EmptyClass: EmptyClassFail})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrEmptyClass)
}

func TestBalance_EmptyInput(t *testing.T) {
	src := &recordingSource{inner: rand.New(rand.NewSource(42))}

	res, err := Balance(nil, src, Options{EmptyClass: EmptyClassFail})
	require.NoError(t, err)

	assert.Empty(t, res.Samples)
	assert.NotNil(t, res.Samples)
	assert.Empty(t, src.calls)
}

func TestBalance_InvalidAction(t *testing.T) {
	_, err := Balance([]dataset.LabeledSample{sample(1, dataset.Action(7))}, rand.New(rand.NewSource(1)), Options{})
	assert.Error(t, err)
}

func TestParseEmptyClassMode(t *testing.T) {
	for in, want := range map[string]EmptyClassMode{"": EmptyClassSkip, "skip": EmptyClassSkip, "FAIL": EmptyClassFail} {
		got, err := ParseEmptyClassMode(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := ParseEmptyClassMode("drop")
	assert.Error(t, err)
}

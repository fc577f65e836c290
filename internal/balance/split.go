package balance

import (
	"fmt"

	"github.com/banshee-data/annie.dataset/internal/dataset"
)

// Split shuffles a copy of samples and returns the train and test partitions.
// The first floor(len*testRatio) shuffled rows form the test set.
func Split(samples []dataset.LabeledSample, testRatio float64, src Source) (train, test []dataset.LabeledSample, err error) {
	if testRatio < 0 || testRatio >= 1 {
		return nil, nil, fmt.Errorf("test ratio must be in [0, 1), got %g", testRatio)
	}

	shuffled := make([]dataset.LabeledSample, len(samples))
	copy(shuffled, samples)
	src.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })

	nTest := int(float64(len(shuffled)) * testRatio)
	return shuffled[nTest:], shuffled[:nTest], nil
}

// Package testutil provides shared test utilities and fixtures.
//
// This package centralises common test helpers to reduce code duplication
// across test files and improve test maintainability.
package testutil

import (
	"testing"

	"github.com/banshee-data/annie.dataset/internal/dataset"
	"github.com/banshee-data/annie.dataset/internal/monitoring"
)

// V1Input is a three-row v1 sensor log. Values are exact in binary so the
// centimetre features are unambiguous: FORWARD, STOP (boxed in), LEFT.
const V1Input = "lidar_min,ultrasonic_left,ultrasonic_right\n" +
	"0.75,0.125,0.125\n" +
	"0.0625,0.0625,0.0625\n" +
	"0.25,0.5,0.125\n"

// V1Output is the labeled table V1Input converts to.
const V1Output = "front,left,right,diff,minLR,action\n" +
	"75,12,12,0,12,0\n" +
	"6,6,6,0,6,3\n" +
	"25,50,12,38,12,1\n"

// V2Input is a four-row v2 sensor log labeled FORWARD, STOP (collision),
// LEFT, FORWARD. RIGHT has no samples.
const V2Input = "lidar_min,lidar_max,ultrasonic_left,ultrasonic_right,collision_flag\n" +
	"0.75,1.5,0.125,0.125,0\n" +
	"0.75,1.5,0.125,0.125,1\n" +
	"0.25,0.5,0.5,0.125,0\n" +
	"0.75,1,0.25,0.125,0\n"

// V2InputCounts are the class counts of V2Input before balancing.
var V2InputCounts = dataset.ClassCounts{2, 1, 0, 1}

// Labeled builds a labeled sample with consistent derived features.
func Labeled(front, left, right int, a dataset.Action) dataset.LabeledSample {
	return dataset.LabeledSample{
		NormalizedSample: dataset.NormalizedSample{
			Front: front, FarFront: front, Left: left, Right: right,
			Diff: left - right, MinLR: min(left, right),
		},
		Action: a,
	}
}

// SilenceLogs captures pipeline logs for the duration of the test and
// returns the captured lines.
func SilenceLogs(t *testing.T) *[]string {
	t.Helper()
	lines, restore := monitoring.CaptureLogs()
	t.Cleanup(restore)
	return lines
}

// AssertNoError fails the test if err is not nil.
func AssertNoError(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// AssertError fails the test if err is nil.
func AssertError(t *testing.T, err error) {
	t.Helper()
	if err == nil {
		t.Fatal("expected error, got nil")
	}
}

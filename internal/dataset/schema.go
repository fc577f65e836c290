package dataset

import "errors"

// Input column names.
const (
	ColLidarMin        = "lidar_min"
	ColLidarMax        = "lidar_max"
	ColUltrasonicLeft  = "ultrasonic_left"
	ColUltrasonicRight = "ultrasonic_right"
	ColCollisionFlag   = "collision_flag"
)

// Output column names.
const (
	ColFront     = "front"
	ColFarFront  = "far_front"
	ColLeft      = "left"
	ColRight     = "right"
	ColDiff      = "diff"
	ColMinLR     = "minLR"
	ColCollision = "collision"
	ColAction    = "action"
)

var (
	// ErrSchema is returned when a required input column is absent.
	ErrSchema = errors.New("schema error")
	// ErrMalformedValue is returned when a cell cannot be read as a number.
	ErrMalformedValue = errors.New("malformed value")
)

// RequiredInputColumns returns the columns a variant's input table must carry.
func RequiredInputColumns(v Variant) []string {
	if v == V2 {
		return []string{ColLidarMin, ColLidarMax, ColUltrasonicLeft, ColUltrasonicRight}
	}
	return []string{ColLidarMin, ColUltrasonicLeft, ColUltrasonicRight}
}

// InputColumns returns the full input layout of a variant, optional columns
// included. Used when writing raw tables.
func InputColumns(v Variant) []string {
	if v == V2 {
		return []string{ColLidarMin, ColLidarMax, ColUltrasonicLeft, ColUltrasonicRight, ColCollisionFlag}
	}
	return RequiredInputColumns(v)
}

// OutputColumns returns the labeled table header of a variant.
func OutputColumns(v Variant) []string {
	if v == V2 {
		return []string{ColFront, ColFarFront, ColLeft, ColRight, ColDiff, ColMinLR, ColCollision, ColAction}
	}
	return []string{ColFront, ColLeft, ColRight, ColDiff, ColMinLR, ColAction}
}

// outputRow renders a labeled sample in the column order of OutputColumns.
func outputRow(v Variant, s LabeledSample) []int {
	if v == V2 {
		return []int{s.Front, s.FarFront, s.Left, s.Right, s.Diff, s.MinLR, s.Collision, int(s.Action)}
	}
	return []int{s.Front, s.Left, s.Right, s.Diff, s.MinLR, int(s.Action)}
}

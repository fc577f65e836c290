package dataset

// Distance bounds in centimetres. Readings outside are clamped, not rejected.
const (
	MinDistanceCm = 0
	MaxDistanceCm = 100

	centimetresPerMetre = 100.0
)

// metresToCm converts a metre reading to centimetres, clamps it to
// [MinDistanceCm, MaxDistanceCm] and truncates toward zero.
func metresToCm(m float64) int {
	cm := m * centimetresPerMetre
	if cm < MinDistanceCm {
		cm = MinDistanceCm
	}
	if cm > MaxDistanceCm {
		cm = MaxDistanceCm
	}
	return int(cm)
}

// Normalize derives the centimetre features of a raw sample. Fields that a
// variant does not carry are left at their zero value in the input and
// therefore normalize to zero.
func Normalize(raw RawSample) NormalizedSample {
	left := metresToCm(raw.UltrasonicLeft)
	right := metresToCm(raw.UltrasonicRight)

	return NormalizedSample{
		Front:     metresToCm(raw.LidarMin),
		FarFront:  metresToCm(raw.LidarMax),
		Left:      left,
		Right:     right,
		Diff:      left - right,
		MinLR:     min(left, right),
		Collision: int(raw.CollisionFlag),
	}
}

// NormalizeAll normalizes every raw sample in order.
func NormalizeAll(raws []RawSample) []NormalizedSample {
	out := make([]NormalizedSample, len(raws))
	for i, r := range raws {
		out[i] = Normalize(r)
	}
	return out
}

package invariant

// Tolerance is the absolute slack applied to every numeric comparison.
// Report values come out of floating-point pipelines, so exact equality
// would reject documents that differ from accepted ones only in the last
// few bits.
const Tolerance = 1e-12

// IntervalOrdered reports whether (low, high) is a validly ordered interval.
// low may exceed high by up to Tolerance (treated as equal bounds); anything
// beyond that is an ordering violation.
func IntervalOrdered(low, high float64) bool {
	return low-high <= Tolerance
}

// WithinInterval reports whether value lies in [low, high] with the interval
// grown by Tolerance on both sides. The formulation (tolerance added to the
// value against the low bound, subtracted against the high bound) must not
// be rearranged: accepted reports depend on these exact comparisons.
func WithinInterval(value, low, high float64) bool {
	return value+Tolerance >= low && value-Tolerance <= high
}

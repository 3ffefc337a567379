package api

// ScoreState is an aggregation of a score's current state, i.e. the
// maximum combo so far and the current hit results. The evaluator never
// retains it; callers mutate their own copy between evaluations.
type ScoreState struct {
	// MaxCombo is the maximum combo the score has had so far.
	// Not the maximum possible combo of the map.
	MaxCombo int

	// N300 is the amount of current 300s (greats).
	N300 int

	// N100 is the amount of current 100s (oks).
	N100 int

	// N50 is the amount of current 50s (mehs).
	N50 int

	// NSliderTickMiss is the amount of missed slider ticks. Tick hits
	// never count toward combo and never need to be reported, only
	// their misses do.
	NSliderTickMiss int

	// NMiss is the amount of current misses.
	NMiss int
}

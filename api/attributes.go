package api

// Attributes holds the precomputed difficulty characteristics of a map
// under a specific mod combination. They are produced once per
// (map, mods, passed objects) triple by a difficulty calculator and are
// immutable afterwards, so they can be cached and shared freely.
type Attributes struct {
	// Total star rating, visible on osu!'s beatmap page
	Total float64

	// Aim stars, needed for Performance Points (aka PP) calculations
	Aim float64

	// Speed stars, needed for Performance Points (aka PP) calculations
	Speed float64

	SpeedNoteCount float64

	AimDifficultStrainCount   float64
	SpeedDifficultStrainCount float64

	// Flashlight stars, needed for Performance Points (aka PP) calculations
	Flashlight float64

	// SliderFactor is a ratio of Aim calculated without sliders to Aim with them
	SliderFactor float64

	// Map settings after mods and clock rate were applied
	AR float64
	OD float64
	CS float64
	HP float64

	ObjectCount int
	Circles     int
	Sliders     int
	Spinners    int
	MaxCombo    int
}

// PerformanceAttributes is the result of a performance calculation.
// Every component is non-negative; Total is 0 exactly when the amount
// of judged objects is 0.
type PerformanceAttributes struct {
	// Difficulty contains the attributes the calculation was based on.
	Difficulty Attributes

	Aim        float64
	Speed      float64
	Acc        float64
	Flashlight float64
	Total      float64
}

// AttributeProvider abstracts over values that can seed a performance
// calculation with already computed difficulty attributes.
type AttributeProvider interface {
	ProvideAttributes() (Attributes, bool)
}

func (attr Attributes) ProvideAttributes() (Attributes, bool) {
	return attr, true
}

func (p PerformanceAttributes) ProvideAttributes() (Attributes, bool) {
	return p.Difficulty, true
}

package api

import (
	"github.com/osuperf/osuperf/beatmap"
	"github.com/osuperf/osuperf/difficulty"
)

// AttributeSource lazily yields one difficulty attribute snapshot per
// processed hit object. It is pull-based, finite and not restartable;
// a fresh instance has to be constructed to replay from the start.
// A source must not be shared between goroutines.
type AttributeSource interface {
	// Next advances the source by one object and returns the
	// attributes of the processed prefix. It returns false once every
	// object has been processed.
	Next() (Attributes, bool)

	// Idx is the amount of objects processed so far.
	Idx() int
}

// IDifficultyCalculator derives difficulty attributes from a map. The
// derivation itself is outside of this module; implementations have to
// guarantee that the k-th snapshot of a gradual sequence equals a
// single calculation bounded to k objects.
type IDifficultyCalculator interface {
	// CalculateSingle computes the attributes over the first
	// passedObjects objects of the map.
	CalculateSingle(mp *beatmap.Map, d *difficulty.Difficulty, passedObjects int) Attributes

	// CalculateGradual returns a lazy sequence yielding one attribute
	// snapshot per processed object.
	CalculateGradual(mp *beatmap.Map, d *difficulty.Difficulty) AttributeSource
}

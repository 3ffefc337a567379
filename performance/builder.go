package performance

import (
	"math"

	"github.com/osuperf/osuperf/api"
	"github.com/osuperf/osuperf/beatmap"
	"github.com/osuperf/osuperf/difficulty"
)

// Builder accumulates the parameters of a play and produces its
// performance attributes.
//
//	result := performance.NewBuilder(m).
//		Mods(difficulty.Hidden | difficulty.DoubleTime).
//		Combo(1234).
//		Misses(1).
//		Accuracy(98.5). // should be set last
//		Calculate()
//
// Calculate consumes the builder; a builder must not be reused after
// its terminal call.
type Builder struct {
	m *beatmap.Map

	attribs  *api.Attributes
	diffCalc api.IDifficultyCalculator

	mods        difficulty.Modifier
	corrections Corrections

	acc   *float64
	combo *int

	n300        *int
	n100        *int
	n50         *int
	nMisses     int
	nTickMisses int

	passedObjects *int
	clockRate     *float64
}

// NewBuilder creates a performance calculator for the given map. The
// map has to outlive the builder.
func NewBuilder(mp *beatmap.Map) *Builder {
	return &Builder{
		m:           mp,
		corrections: DefaultCorrections(),
	}
}

// Attributes provides the result of a previous difficulty or
// performance calculation. If the attributes for the current map-mod
// combination were already calculated, put them in here so that they
// don't have to be recalculated.
func (b *Builder) Attributes(provider api.AttributeProvider) *Builder {
	if attribs, ok := provider.ProvideAttributes(); ok {
		b.attribs = &attribs
	}

	return b
}

// Mods specifies the mods through their bit values.
func (b *Builder) Mods(mods difficulty.Modifier) *Builder {
	b.mods = mods

	return b
}

// DifficultyCalculator sets the collaborator used to derive difficulty
// attributes when none were provided.
func (b *Builder) DifficultyCalculator(calc api.IDifficultyCalculator) *Builder {
	b.diffCalc = calc

	return b
}

// Corrections replaces the map-id correction table.
func (b *Builder) Corrections(corrections Corrections) *Builder {
	b.corrections = corrections

	return b
}

// Combo specifies the max combo of the play.
func (b *Builder) Combo(combo int) *Builder {
	b.combo = &combo

	return b
}

// N300 specifies the amount of 300s of the play.
func (b *Builder) N300(n300 int) *Builder {
	b.n300 = &n300

	return b
}

// N100 specifies the amount of 100s of the play.
func (b *Builder) N100(n100 int) *Builder {
	b.n100 = &n100

	return b
}

// N50 specifies the amount of 50s of the play.
func (b *Builder) N50(n50 int) *Builder {
	b.n50 = &n50

	return b
}

// Misses specifies the amount of misses of the play.
func (b *Builder) Misses(nMisses int) *Builder {
	b.nMisses = nMisses

	return b
}

// PassedObjects bounds the calculation to the first n objects, e.g.
// for a fail. Use a GradualPerformance instead of repeated builders
// when evaluating after every few objects.
func (b *Builder) PassedObjects(passedObjects int) *Builder {
	b.passedObjects = &passedObjects

	return b
}

// ClockRate overrides the clock rate used in the calculation. Without
// it the rate implied by the mods is used, i.e. 1.5 for DT, 0.75 for
// HT and 1.0 otherwise.
func (b *Builder) ClockRate(clockRate float64) *Builder {
	b.clockRate = &clockRate

	return b
}

// State provides all play parameters through a score state, equivalent
// to setting combo, every tier count and misses at once.
func (b *Builder) State(state api.ScoreState) *Builder {
	return b.Combo(state.MaxCombo).
		N300(state.N300).
		N100(state.N100).
		N50(state.N50).
		TickMisses(state.NSliderTickMiss).
		Misses(state.NMiss)
}

// TickMisses specifies the amount of missed slider ticks. They don't
// enter the hit accuracy, their combo damage is already reflected in
// the play's max combo.
func (b *Builder) TickMisses(nTickMisses int) *Builder {
	b.nTickMisses = nTickMisses

	return b
}

// Accuracy generates the hit results matching the given accuracy
// percentage as closely as integer counts allow, preferring
// higher-quality hits. It rewrites every count it was not given, so it
// has to be called after misses, passed objects and any hit counts it
// should respect.
func (b *Builder) Accuracy(acc float64) *Builder {
	nObjects := b.nObjects()
	acc /= 100.0

	if b.n100 != nil || b.n50 != nil {
		n100, n50 := intOr(b.n100, 0), intOr(b.n50, 0)

		placedPoints := 2*n100 + n50 + b.nMisses
		missingObjects := max(0, nObjects-n100-n50-b.nMisses)
		missingPoints := max(0, int(math.Round(6.0*acc*float64(nObjects)))-placedPoints)

		n300 := min(missingObjects, missingPoints/6)
		n50 += missingObjects - n300

		if b.n50 != nil && b.n100 == nil {
			// Only n50s were fixed, try to load some off again onto n100s.
			difference := n50 - *b.n50
			n := min(n300, difference/4)

			n300 -= n
			n100 += 5 * n
			n50 -= 4 * n
		}

		b.n300, b.n100, b.n50 = &n300, &n100, &n50
	} else {
		misses := min(b.nMisses, nObjects)
		targetTotal := int(math.Round(acc * float64(nObjects) * 6.0))
		delta := max(0, targetTotal-(nObjects-misses))

		n300 := min(delta/5, nObjects-misses)
		n100 := max(0, min(delta%5, nObjects-n300-misses))
		n50 := max(0, nObjects-n300-n100-misses)

		// Sacrifice n300s to transform n50s into n100s.
		n := min(n300, n50/4)
		n300 -= n
		n100 += 5 * n
		n50 -= 4 * n

		b.n300, b.n100, b.n50 = &n300, &n100, &n50
	}

	newAcc := 0.0
	if nObjects > 0 {
		newAcc = float64(6**b.n300+2**b.n100+*b.n50) / (6.0 * float64(nObjects))
	}

	b.acc = &newAcc

	return b
}

// Calculate computes the performance attributes of the accumulated
// play. It consumes the builder.
func (b *Builder) Calculate() api.PerformanceAttributes {
	var attribs api.Attributes

	switch {
	case b.attribs != nil:
		attribs = *b.attribs
	case b.diffCalc != nil:
		d := difficulty.NewDifficulty(b.mods)
		if b.clockRate != nil {
			d.CustomSpeed = *b.clockRate
		}

		attribs = b.diffCalc.CalculateSingle(b.m, d, b.nObjects())
	default:
		// No attributes and no calculator to derive them with; the
		// empty bundle degrades every component to zero.
	}

	inner := b.assertHitResults(attribs)

	return inner.calculate()
}

// assertHitResults normalizes the accumulated counts into a fully
// populated inner calculator.
func (b *Builder) assertHitResults(attribs api.Attributes) ppv2 {
	nObjects := b.nObjects()

	n300, n100, n50 := intOr(b.n300, 0), intOr(b.n100, 0), intOr(b.n50, 0)

	var acc float64

	if b.acc != nil {
		acc = *b.acc
	} else {
		// Fill every unset tier with the remaining objects, best tier
		// first.
		remaining := max(0, nObjects-n300-n100-n50-b.nMisses)

		if remaining > 0 {
			switch {
			case b.n300 == nil:
				n300 = remaining
			case b.n100 == nil:
				n100 = remaining
			case b.n50 == nil:
				n50 = remaining
			default:
				n300 += remaining
			}
		}

		if nObjects > 0 {
			acc = float64(6*n300+2*n100+n50) / (6.0 * float64(nObjects))
		}
	}

	totalHits := min(n300+n100+n50+b.nMisses, nObjects)

	combo := attribs.MaxCombo
	if b.combo != nil {
		combo = *b.combo
	}

	effectiveMissCount := calculateEffectiveMissCount(attribs, combo, b.nMisses, totalHits)

	return ppv2{
		attribs:            attribs,
		diff:               difficulty.NewDifficulty(b.mods),
		mapID:              b.mapID(),
		corrections:        b.corrections,
		scoreMaxCombo:      combo,
		countGreat:         n300,
		countOk:            n100,
		countMeh:           n50,
		countMiss:          b.nMisses,
		effectiveMissCount: effectiveMissCount,
		totalHits:          totalHits,
		accuracy:           acc,
	}
}

// clone returns an independent copy of the builder, used by the
// gradual evaluator to re-run the terminal calculation per step.
func (b *Builder) clone() *Builder {
	dup := *b

	dup.acc = copyOf(b.acc)
	dup.combo = copyOf(b.combo)
	dup.n300 = copyOf(b.n300)
	dup.n100 = copyOf(b.n100)
	dup.n50 = copyOf(b.n50)
	dup.passedObjects = copyOf(b.passedObjects)
	dup.clockRate = copyOf(b.clockRate)

	if b.attribs != nil {
		attribs := *b.attribs
		dup.attribs = &attribs
	}

	return &dup
}

func (b *Builder) nObjects() int {
	if b.passedObjects != nil {
		return *b.passedObjects
	}

	if b.m != nil {
		return b.m.ObjectCount()
	}

	return 0
}

func (b *Builder) mapID() int {
	if b.m != nil {
		return b.m.ID
	}

	return 0
}

func intOr(v *int, fallback int) int {
	if v != nil {
		return *v
	}

	return fallback
}

func copyOf[T any](v *T) *T {
	if v == nil {
		return nil
	}

	dup := *v

	return &dup
}

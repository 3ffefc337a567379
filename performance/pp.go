package performance

import (
	"math"

	"github.com/osuperf/osuperf/api"
	"github.com/osuperf/osuperf/difficulty"
	"github.com/osuperf/osuperf/internal/mutils"
)

const (
	PerformanceBaseMultiplier float64 = 1.12
)

/* ------------------------------------------------------------- */
/* pp calc                                                       */

// ppv2 computes the performance values of a single play. It is filled
// by the Builder with already normalized hit results.
type ppv2 struct {
	attribs api.Attributes

	diff        *difficulty.Difficulty
	mapID       int
	corrections Corrections

	scoreMaxCombo      int
	countGreat         int
	countOk            int
	countMeh           int
	countMiss          int
	effectiveMissCount int

	totalHits int
	accuracy  float64
}

func (pp *ppv2) calculate() api.PerformanceAttributes {
	if pp.totalHits == 0 {
		return api.PerformanceAttributes{Difficulty: pp.attribs}
	}

	multiplier := PerformanceBaseMultiplier

	if pp.diff.CheckModActive(difficulty.NoFail) {
		multiplier *= max(0.90, 1.0-0.02*float64(pp.effectiveMissCount))
	}

	if pp.diff.CheckModActive(difficulty.SpunOut) {
		multiplier *= 1.0 - math.Pow(float64(pp.attribs.Spinners)/float64(pp.totalHits), 0.85)
	}

	aimValue := pp.computeAimValue()
	speedValue := pp.computeSpeedValue()
	accValue := pp.computeAccuracyValue()
	flashlightValue := pp.computeFlashlightValue()

	if pp.diff.CheckModActive(difficulty.Relax) {
		// Dampen aim-deficient (stream) plays.
		streamFactor := aimValue / speedValue

		if streamFactor < 1.0 {
			depressionFactor := 0.87
			if pp.accuracy >= 0.97 {
				depressionFactor = 0.94 - (0.99-math.Round(pp.accuracy))*2.0
			}

			aimValue *= depressionFactor
		}
	}

	var totalValue float64

	switch {
	case pp.diff.CheckModActive(difficulty.Relax):
		totalValue = math.Pow(
			math.Pow(aimValue, 1.17)+
				math.Pow(accValue, 1.15)+
				math.Pow(flashlightValue, 1.1),
			1.0/1.1,
		) * multiplier
	case pp.diff.CheckModActive(difficulty.Autopilot):
		totalValue = math.Pow(
			math.Pow(accValue, 1.15)+
				math.Pow(flashlightValue, 1.1),
			1.0/1.1,
		) * multiplier
	default:
		totalValue = math.Pow(
			math.Pow(aimValue, 1.1)+
				math.Pow(speedValue, 1.1)+
				math.Pow(accValue, 1.1)+
				math.Pow(flashlightValue, 1.1),
			1.0/1.1,
		) * multiplier
	}

	if pp.diff.CheckModActive(difficulty.Relax) {
		totalValue *= pp.corrections.Factor(pp.mapID)
	}

	return api.PerformanceAttributes{
		Difficulty: pp.attribs,
		Aim:        aimValue,
		Speed:      speedValue,
		Acc:        accValue,
		Flashlight: flashlightValue,
		Total:      totalValue,
	}
}

func (pp *ppv2) computeAimValue() float64 {
	rawAim := pp.attribs.Aim

	// TD penalty
	if pp.diff.CheckModActive(difficulty.TouchDevice) {
		rawAim = math.Pow(rawAim, 0.8)
	}

	aimValue := difficultyToPerformance(rawAim)

	// Longer maps are worth more
	lengthBonus := pp.lengthBonus()
	aimValue *= lengthBonus

	if pp.effectiveMissCount > 0 {
		aimValue *= pp.calculateMissPenalty(float64(pp.effectiveMissCount), pp.attribs.AimDifficultStrainCount)
	}

	approachRateFactor := 0.0
	if pp.diff.CheckModActive(difficulty.Relax) {
		if pp.attribs.AR > 10.7 {
			approachRateFactor = 0.4 * (pp.attribs.AR - 10.7)
		}
	} else if pp.attribs.AR > 10.33 {
		approachRateFactor = 0.3 * (pp.attribs.AR - 10.33)
	}

	if approachRateFactor > 0 {
		// Buff for longer maps with high AR
		aimValue *= 1.0 + approachRateFactor*lengthBonus
	} else if pp.attribs.AR < 8.0 {
		buff := 1.3
		if pp.attribs.AR <= 5.0 {
			buff += (5.0 - pp.attribs.AR) / 50.0
		}

		aimValue *= min(buff*lengthBonus, 1.75)
	}

	// CS bonus
	if pp.attribs.CS > 6.0 && pp.diff.CheckModActive(difficulty.Relax) {
		aimValue *= 1.03 + (pp.attribs.CS-6.0)/20.0
	}

	// HD bonus (this would include the Blinds mod but it's currently not representable)
	if pp.diff.CheckModActive(difficulty.Hidden) {
		hdScale, hdBase := 0.04, 12.0
		if pp.diff.CheckModActive(difficulty.Relax) {
			hdScale, hdBase = 0.05, 11.0
		}

		aimValue *= 1.0 + hdScale*(hdBase-pp.attribs.AR)
	}

	if pp.attribs.Sliders > 0 {
		// We assume 15% of sliders in a map are difficult since there's no way to tell from the performance calculator.
		estimateDifficultSliders := float64(pp.attribs.Sliders) * 0.15

		nonPerfect := float64(pp.totalHits - pp.countGreat)
		missingCombo := float64(pp.attribs.MaxCombo - pp.scoreMaxCombo)

		estimateSliderEndsDropped := mutils.Clamp(min(nonPerfect, missingCombo), 0, estimateDifficultSliders)

		base := 1.0 - estimateSliderEndsDropped/estimateDifficultSliders
		sliderNerfFactor := (1.0-pp.attribs.SliderFactor)*base*base*base + pp.attribs.SliderFactor

		aimValue *= sliderNerfFactor
	}

	aimValue *= pp.accuracy
	// It is important to also consider accuracy difficulty when doing that
	aimValue *= 0.98 + pp.attribs.OD*pp.attribs.OD/2500.0

	return aimValue
}

func (pp *ppv2) computeSpeedValue() float64 {
	speedValue := difficultyToPerformance(pp.attribs.Speed)

	// Longer maps are worth more
	lengthBonus := pp.lengthBonus()
	speedValue *= lengthBonus

	if pp.effectiveMissCount > 0 {
		speedValue *= pp.calculateMissPenalty(float64(pp.effectiveMissCount), pp.attribs.SpeedDifficultStrainCount)
	}

	approachRateFactor := 0.0
	if pp.diff.CheckModActive(difficulty.Relax) {
		if pp.attribs.AR > 10.7 {
			approachRateFactor = 0.4 * (pp.attribs.AR - 10.7)
		}
	} else if pp.attribs.AR > 10.33 {
		approachRateFactor = 0.3 * (pp.attribs.AR - 10.33)
	}

	// Buff for longer maps with high AR
	speedValue *= 1.0 + approachRateFactor*lengthBonus

	if pp.diff.CheckModActive(difficulty.Hidden) {
		hdScale, hdBase := 0.04, 12.0
		if pp.diff.CheckModActive(difficulty.Relax) {
			hdScale, hdBase = 0.05, 11.0
		}

		speedValue *= 1.0 + hdScale*(hdBase-pp.attribs.AR)
	}

	// Scale the speed value with accuracy and OD
	odFactor := 0.95 + pp.attribs.OD*pp.attribs.OD/750.0
	accFactor := math.Pow(pp.accuracy, (14.5-max(pp.attribs.OD, 8.0))/2.0)
	speedValue *= odFactor * accFactor

	// Scale the speed value with # of 50s to punish doubletapping.
	if float64(pp.countMeh) >= float64(pp.totalHits)/500.0 {
		speedValue *= math.Pow(0.98, float64(pp.countMeh)-float64(pp.totalHits)/500.0)
	}

	return speedValue
}

func (pp *ppv2) computeAccuracyValue() float64 {
	// This percentage only considers HitCircles of any value - in this part
	// of the calculation we focus on hitting the timing hit window.
	betterAccuracyPercentage := 0.0

	if pp.attribs.Circles > 0 {
		betterAccuracyPercentage = float64((pp.countGreat-(pp.totalHits-pp.attribs.Circles))*6+pp.countOk*2+pp.countMeh) /
			(float64(pp.attribs.Circles) * 6.0)

		// It is possible to reach a negative accuracy with this formula. Cap it at zero - zero points.
		betterAccuracyPercentage = max(betterAccuracyPercentage, 0.0)
	}

	// Lots of arbitrary values from testing.
	// Considering to use derivation from perfect accuracy in a probabilistic manner - assume normal distribution
	accuracyValue := math.Pow(1.52163, pp.attribs.OD) * math.Pow(betterAccuracyPercentage, 24) * 2.83

	// Bonus for many hitcircles - it's harder to keep good accuracy up for longer
	accuracyValue *= min(1.15, math.Pow(float64(pp.attribs.Circles)/1000.0, 0.3))

	if pp.diff.CheckModActive(difficulty.Hidden) {
		accuracyValue *= 1.08
	}

	if pp.diff.CheckModActive(difficulty.Flashlight) {
		accuracyValue *= 1.02
	}

	return accuracyValue
}

func (pp *ppv2) computeFlashlightValue() float64 {
	if !pp.diff.CheckModActive(difficulty.Flashlight) {
		return 0
	}

	rawFlashlight := pp.attribs.Flashlight

	// TD penalty
	if pp.diff.CheckModActive(difficulty.TouchDevice) {
		rawFlashlight = math.Pow(rawFlashlight, 0.8)
	}

	flashlightValue := rawFlashlight * rawFlashlight * 25.0

	// Additional bonus for HDFL
	if pp.diff.CheckModActive(difficulty.Hidden) {
		flashlightValue *= 1.3
	}

	totalHits := float64(pp.totalHits)

	// Penalize misses by assessing # of misses relative to the total # of objects. Default a 3% reduction for any # of misses.
	if pp.effectiveMissCount > 0 {
		effectiveMissCount := float64(pp.effectiveMissCount)
		flashlightValue *= 0.97 * math.Pow(1-math.Pow(effectiveMissCount/totalHits, 0.775), math.Pow(effectiveMissCount, 0.875))
	}

	// Combo scaling.
	flashlightValue *= pp.getComboScalingFactor()

	// Account for shorter maps having a higher ratio of 0 combo/100 combo flashlight radius.
	scale := 0.7 + 0.1*min(1.0, totalHits/200.0)
	if pp.totalHits > 200 {
		scale += 0.2 * min(1.0, (totalHits-200.0)/200.0)
	}

	flashlightValue *= scale

	// Scale the flashlight value with accuracy _slightly_.
	flashlightValue *= 0.5 + pp.accuracy/2.0
	// It is important to also consider accuracy difficulty when doing that.
	flashlightValue *= 0.98 + pp.attribs.OD*pp.attribs.OD/2500.0

	return flashlightValue
}

func (pp *ppv2) lengthBonus() float64 {
	totalHits := float64(pp.totalHits)

	bonus := 0.95 + 0.4*min(1.0, totalHits/2000.0)
	if pp.totalHits > 2000 {
		bonus += math.Log10(totalHits/2000.0) * 0.5
	}

	return bonus
}

func (pp *ppv2) calculateMissPenalty(missCount, difficultStrainCount float64) float64 {
	// Miss penalty assumes that a player will miss on the hardest parts of a map,
	// so we use the amount of relatively difficult sections to adjust miss penalty
	// to make it more punishing on maps with lower amount of hard sections.
	return 0.94 / (missCount/(2.0*math.Sqrt(difficultStrainCount)) + 1.0)
}

func (pp *ppv2) getComboScalingFactor() float64 {
	if pp.attribs.MaxCombo <= 0 {
		return 1.0
	}

	return min(math.Pow(float64(pp.scoreMaxCombo), 0.8)/math.Pow(float64(pp.attribs.MaxCombo), 0.8), 1.0)
}

// difficultyToPerformance converts a skill star rating into its base
// performance value.
func difficultyToPerformance(stars float64) float64 {
	return math.Pow(5.0*max(1.0, stars/0.0675)-4.0, 3) / 100000.0
}

// calculateEffectiveMissCount guesses the number of misses + slider
// breaks from the combo deficit. Raw miss counts under-represent slider
// break damage, so it is backfilled from combo.
func calculateEffectiveMissCount(attribs api.Attributes, combo, countMiss, totalHits int) int {
	comboBasedMissCount := 0.0

	if attribs.Sliders > 0 {
		// Sliders commonly drop partial credit even on a "full combo".
		fullComboThreshold := float64(attribs.MaxCombo) - 0.1*float64(attribs.Sliders)
		if float64(combo) < fullComboThreshold {
			comboBasedMissCount = fullComboThreshold / max(1.0, float64(combo))
		}
	}

	// Clamp miss count since it's derived from combo and can be higher
	// than total hits and that breaks some calculations.
	comboBasedMissCount = min(comboBasedMissCount, float64(totalHits))

	return max(countMiss, int(math.Floor(comboBasedMissCount)))
}

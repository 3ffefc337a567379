package performance

import (
	"math"
	"testing"

	"github.com/osuperf/osuperf/api"
	"github.com/osuperf/osuperf/beatmap"
)

func testAttributes() api.Attributes {
	return api.Attributes{
		Aim:                       2.8,
		Speed:                     2.4,
		Flashlight:                2.0,
		SpeedNoteCount:            180,
		AimDifficultStrainCount:   110.5,
		SpeedDifficultStrainCount: 85.2,
		SliderFactor:              0.98,
		AR:                        9.3,
		OD:                        8.8,
		CS:                        4.2,
		HP:                        5,
		ObjectCount:               600,
		Circles:                   441,
		Sliders:                   155,
		Spinners:                  4,
		MaxCombo:                  894,
	}
}

func testMap() *beatmap.Map {
	return &beatmap.Map{
		ID:       42,
		Circles:  441,
		Sliders:  155,
		Spinners: 4,
		MaxCombo: 894,
		AR:       9.3,
		OD:       8.8,
		CS:       4.2,
		HP:       5,
	}
}

func recomputedAccuracy(b *Builder, nObjects int) float64 {
	numerator := 6*intOr(b.n300, 0) + 2*intOr(b.n100, 0) + intOr(b.n50, 0)

	return 100.0 * float64(numerator) / float64(6*nObjects)
}

func TestAccuracyOnly(t *testing.T) {
	totalObjects := 1234
	targetAcc := 97.5

	b := NewBuilder(&beatmap.Map{}).
		PassedObjects(totalObjects).
		Accuracy(targetAcc)

	acc := recomputedAccuracy(b, totalObjects)

	if math.Abs(targetAcc-acc) >= 1.0 {
		t.Errorf("expected accuracy close to %v, got %v", targetAcc, acc)
	}
}

func TestAccuracyAndN50(t *testing.T) {
	totalObjects := 1234
	targetAcc := 97.5
	n50 := 30

	b := NewBuilder(&beatmap.Map{}).
		PassedObjects(totalObjects).
		N50(n50).
		Accuracy(targetAcc)

	if diff := intOr(b.n50, 0) - n50; diff < -4 || diff > 4 {
		t.Errorf("expected n50 close to %v, got %v", n50, intOr(b.n50, 0))
	}

	acc := recomputedAccuracy(b, totalObjects)

	if math.Abs(targetAcc-acc) >= 1.0 {
		t.Errorf("expected accuracy close to %v, got %v", targetAcc, acc)
	}
}

func TestMissingObjectsFilled(t *testing.T) {
	totalObjects := 1234

	b := NewBuilder(&beatmap.Map{}).
		PassedObjects(totalObjects).
		N300(1000).
		N100(200).
		N50(30)

	inner := b.assertHitResults(api.Attributes{})

	nObjects := inner.countGreat + inner.countOk + inner.countMeh

	if nObjects != totalObjects {
		t.Errorf("expected %v objects, got %v", totalObjects, nObjects)
	}
}

func TestMissingObjectsFillBestUnsetTier(t *testing.T) {
	cases := []struct {
		name    string
		prepare func(b *Builder) *Builder
		check   func(t *testing.T, inner ppv2)
	}{
		{
			name:    "nothing set fills 300s",
			prepare: func(b *Builder) *Builder { return b },
			check: func(t *testing.T, inner ppv2) {
				if inner.countGreat != 100 {
					t.Errorf("expected 100 n300, got %v", inner.countGreat)
				}
			},
		},
		{
			name:    "n300 set fills 100s",
			prepare: func(b *Builder) *Builder { return b.N300(90) },
			check: func(t *testing.T, inner ppv2) {
				if inner.countOk != 10 {
					t.Errorf("expected 10 n100, got %v", inner.countOk)
				}
			},
		},
		{
			name:    "n300 and n100 set fills 50s",
			prepare: func(b *Builder) *Builder { return b.N300(90).N100(4) },
			check: func(t *testing.T, inner ppv2) {
				if inner.countMeh != 6 {
					t.Errorf("expected 6 n50, got %v", inner.countMeh)
				}
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			b := tc.prepare(NewBuilder(&beatmap.Map{}).PassedObjects(100))
			tc.check(t, b.assertHitResults(api.Attributes{}))
		})
	}
}

func TestAccuracyNormalizationProperties(t *testing.T) {
	for _, nObjects := range []int{1, 50, 365, 1234} {
		for _, misses := range []int{0, 5} {
			for targetAcc := 0.0; targetAcc <= 100.0; targetAcc += 12.5 {
				b := NewBuilder(&beatmap.Map{}).
					PassedObjects(nObjects).
					Misses(misses).
					Accuracy(targetAcc)

				n300, n100, n50 := intOr(b.n300, 0), intOr(b.n100, 0), intOr(b.n50, 0)

				if n300 < 0 || n100 < 0 || n50 < 0 {
					t.Fatalf("N=%v misses=%v acc=%v: negative counts %v/%v/%v",
						nObjects, misses, targetAcc, n300, n100, n50)
				}

				expected := nObjects - min(misses, nObjects)
				if sum := n300 + n100 + n50; sum != expected {
					t.Fatalf("N=%v misses=%v acc=%v: counts sum to %v, expected %v",
						nObjects, misses, targetAcc, sum, expected)
				}

				// With misses the target can be unreachable, only
				// miss-free normalization has to land within a
				// percentage point. All-50s sets the lowest reachable
				// weighted accuracy, targets below it clamp to that
				// floor.
				if misses == 0 && nObjects >= 50 {
					floor := 100.0 / 6.0
					acc := recomputedAccuracy(b, nObjects)

					switch {
					case targetAcc < floor:
						if math.Abs(acc-floor) > 1e-9 {
							t.Fatalf("N=%v acc=%v: expected all-50s accuracy %v, got %v",
								nObjects, targetAcc, floor, acc)
						}
					case math.Abs(acc-targetAcc) >= 1.0:
						t.Fatalf("N=%v acc=%v: recomputed accuracy %v", nObjects, targetAcc, acc)
					}
				}
			}
		}
	}
}

func TestAccuracyIdempotent(t *testing.T) {
	first := NewBuilder(&beatmap.Map{}).PassedObjects(1000).Misses(3).Accuracy(96.0)
	second := NewBuilder(&beatmap.Map{}).PassedObjects(1000).Misses(3).Accuracy(96.0)

	if intOr(first.n300, -1) != intOr(second.n300, -1) ||
		intOr(first.n100, -1) != intOr(second.n100, -1) ||
		intOr(first.n50, -1) != intOr(second.n50, -1) {
		t.Errorf("normalization is not deterministic: %v/%v/%v vs %v/%v/%v",
			intOr(first.n300, -1), intOr(first.n100, -1), intOr(first.n50, -1),
			intOr(second.n300, -1), intOr(second.n100, -1), intOr(second.n50, -1))
	}
}

// The rebalance branch only fires when the lower middle tier alone was
// fixed. With both middle tiers fixed the 100s have to stay untouched.
func TestAccuracyBothMiddleTiersFixed(t *testing.T) {
	totalObjects := 1000
	n100 := 100
	n50 := 50

	b := NewBuilder(&beatmap.Map{}).
		PassedObjects(totalObjects).
		N100(n100).
		N50(n50).
		Accuracy(90.0)

	if got := intOr(b.n100, 0); got != n100 {
		t.Errorf("expected fixed n100 to stay %v, got %v", n100, got)
	}

	if got := intOr(b.n50, 0); got < n50 {
		t.Errorf("expected n50 to keep at least its fixed %v, got %v", n50, got)
	}

	sum := intOr(b.n300, 0) + intOr(b.n100, 0) + intOr(b.n50, 0)
	if sum != totalObjects {
		t.Errorf("expected counts to sum to %v, got %v", totalObjects, sum)
	}
}

func TestStateAssignsEverything(t *testing.T) {
	state := api.ScoreState{
		MaxCombo:        789,
		N300:            500,
		N100:            66,
		N50:             22,
		NSliderTickMiss: 3,
		NMiss:           12,
	}

	b := NewBuilder(testMap()).State(state)

	if intOr(b.combo, -1) != state.MaxCombo ||
		intOr(b.n300, -1) != state.N300 ||
		intOr(b.n100, -1) != state.N100 ||
		intOr(b.n50, -1) != state.N50 ||
		b.nTickMisses != state.NSliderTickMiss ||
		b.nMisses != state.NMiss {
		t.Errorf("state was not applied fully: %+v", b)
	}
}

func TestAttributesReusedFromPerformanceResult(t *testing.T) {
	attribs := testAttributes()

	first := NewBuilder(testMap()).
		Attributes(attribs).
		Accuracy(98.5).
		Calculate()

	second := NewBuilder(testMap()).
		Attributes(first).
		Accuracy(98.5).
		Calculate()

	if first != second {
		t.Errorf("reusing a prior result changed the outcome:\n%+v\n%+v", first, second)
	}
}

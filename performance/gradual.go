package performance

import (
	"github.com/osuperf/osuperf/api"
	"github.com/osuperf/osuperf/beatmap"
	"github.com/osuperf/osuperf/difficulty"
)

// GradualPerformance calculates the performance attributes of a map
// again after each judged hit object, without re-deriving the map's
// difficulty from scratch each time.
//
// After each hit object, call ProcessNextObject with the score state
// up to that point; to process multiple objects at once use
// ProcessNextNObjects. Both return false once every object has been
// processed.
//
// A GradualPerformance holds a single advancing cursor and must not be
// shared between goroutines; use one instance per logical playback.
type GradualPerformance struct {
	source      api.AttributeSource
	performance *Builder
}

// NewGradualPerformance creates a gradual performance calculator for
// the given map and mods, pulling attribute snapshots from the given
// difficulty calculator.
func NewGradualPerformance(mp *beatmap.Map, mods difficulty.Modifier, calc api.IDifficultyCalculator) *GradualPerformance {
	return &GradualPerformance{
		source: calc.CalculateGradual(mp, difficulty.NewDifficulty(mods)),
		performance: NewBuilder(mp).
			Mods(mods).
			DifficultyCalculator(calc).
			PassedObjects(0),
	}
}

// ProcessNextObject processes the next hit object and calculates the
// performance attributes for the resulting score state.
func (g *GradualPerformance) ProcessNextObject(state api.ScoreState) (api.PerformanceAttributes, bool) {
	return g.ProcessNextNObjects(state, 1)
}

// ProcessNextNObjects is the same as ProcessNextObject but processes n
// objects in one go. An n of 0 is treated as 1; an n beyond the
// remaining objects is clamped to them.
func (g *GradualPerformance) ProcessNextNObjects(state api.ScoreState, n int) (api.PerformanceAttributes, bool) {
	var attribs api.Attributes

	advanced := false

	for i := 0; i < max(1, n); i++ {
		next, ok := g.source.Next()
		if !ok {
			break
		}

		attribs = next
		advanced = true
	}

	if !advanced {
		return api.PerformanceAttributes{}, false
	}

	result := g.performance.clone().
		Attributes(attribs).
		State(state).
		PassedObjects(g.source.Idx()).
		Calculate()

	return result, true
}

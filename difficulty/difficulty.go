// Package difficulty exposes the mod bitmask predicates and the clock
// rate the performance calculation depends on. Anything beyond that,
// like judgement window changes, belongs to the difficulty calculator.
package difficulty

// Difficulty bundles the active mods with an optional clock rate
// override.
type Difficulty struct {
	Mods Modifier

	// CustomSpeed overrides the mod-implied clock rate when > 0.
	CustomSpeed float64
}

func NewDifficulty(mods Modifier) *Difficulty {
	return &Difficulty{Mods: mods}
}

// CheckModActive reports whether any of the given mod bits are active.
func (d *Difficulty) CheckModActive(mods Modifier) bool {
	return d.Mods&mods > 0
}

// GetSpeed returns the effective clock rate of the play.
func (d *Difficulty) GetSpeed() float64 {
	if d.CustomSpeed > 0 {
		return d.CustomSpeed
	}

	return d.Mods.ClockRate()
}

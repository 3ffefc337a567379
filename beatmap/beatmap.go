// Package beatmap holds the minimal map reference the performance core
// needs. Parsing of the actual beatmap format happens elsewhere.
package beatmap

// Map describes a beatmap through its hit object inventory and base
// settings. The referenced value has to outlive every calculator that
// was built on top of it.
type Map struct {
	ID int

	Circles  int
	Sliders  int
	Spinners int

	MaxCombo int

	AR float64
	OD float64
	CS float64
	HP float64
}

// ObjectCount returns the total amount of hit objects.
func (m *Map) ObjectCount() int {
	return m.Circles + m.Sliders + m.Spinners
}

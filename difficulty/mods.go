package difficulty

import "strings"

// Modifier is the mod bitmask as used by the osu! API.
// See https://github.com/ppy/osu-api/wiki#mods
type Modifier uint32

const (
	NoFail Modifier = 1 << iota
	Easy
	TouchDevice
	Hidden
	HardRock
	SuddenDeath
	DoubleTime
	Relax
	HalfTime
	Nightcore
	Flashlight
	Autoplay
	SpunOut
	Autopilot
	Perfect
	None Modifier = 0
)

const ScoreV2 Modifier = 1 << 29

var modAcronyms = map[string]Modifier{
	"NF": NoFail,
	"EZ": Easy,
	"TD": TouchDevice,
	"HD": Hidden,
	"HR": HardRock,
	"SD": SuddenDeath,
	"DT": DoubleTime,
	"RX": Relax,
	"HT": HalfTime,
	"NC": Nightcore,
	"FL": Flashlight,
	"AT": Autoplay,
	"SO": SpunOut,
	"AP": Autopilot,
	"PF": Perfect,
	"V2": ScoreV2,
}

// Active reports whether any of the given mod bits are set.
func (mods Modifier) Active(mod Modifier) bool {
	return mods&mod > 0
}

// ClockRate returns the speed multiplier the mods imply.
func (mods Modifier) ClockRate() float64 {
	switch {
	case mods.Active(DoubleTime | Nightcore):
		return 1.5
	case mods.Active(HalfTime):
		return 0.75
	default:
		return 1.0
	}
}

// ParseMods converts a string of two letter acronyms ("HDDT") into a
// Modifier. Unknown acronyms are ignored.
func ParseMods(mods string) Modifier {
	mods = strings.ToUpper(mods)

	var result Modifier

	for i := 0; i+2 <= len(mods); i += 2 {
		if mod, ok := modAcronyms[mods[i:i+2]]; ok {
			result |= mod
		}
	}

	return result
}

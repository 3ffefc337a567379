package performance

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Corrections maps beatmap ids to total-value multipliers applied under
// Relax. These are documented outliers where the generic model is known
// to overvalue specific content; they are explicit exceptions, not
// derivable from the model.
type Corrections map[int]float64

// DefaultCorrections returns the stock correction table.
func DefaultCorrections() Corrections {
	return Corrections{
		1808605: 0.7, // Louder than steel
		1821147: 0.6, // Over the top
		1849420: 0.6, // Ascension to heaven (mattay)
	}
}

// Factor returns the multiplier for a map, 1.0 when it has none.
func (c Corrections) Factor(mapID int) float64 {
	if factor, ok := c[mapID]; ok {
		return factor
	}

	return 1.0
}

// LoadCorrections reads a correction table from a YAML file mapping
// beatmap ids to multipliers and merges it over the defaults. A missing
// file yields the defaults.
func LoadCorrections(path string) (Corrections, error) {
	corrections := DefaultCorrections()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return corrections, nil
		}

		return nil, fmt.Errorf("reading corrections: %w", err)
	}

	var overrides map[int]float64
	if err := yaml.Unmarshal(data, &overrides); err != nil {
		return nil, fmt.Errorf("parsing corrections: %w", err)
	}

	for id, factor := range overrides {
		corrections[id] = factor
	}

	return corrections, nil
}

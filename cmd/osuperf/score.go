package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/osuperf/osuperf/api"
	"github.com/osuperf/osuperf/beatmap"
	"github.com/osuperf/osuperf/cache"
	"github.com/osuperf/osuperf/difficulty"
	"github.com/osuperf/osuperf/performance"
)

type scoreOpts struct {
	mapPath         string
	correctionsPath string
	cachePath       string

	mods      string
	combo     int
	n300      int
	n100      int
	n50       int
	misses    int
	acc       float64
	passed    int
	clockRate float64
}

func newScoreCmd() *cobra.Command {
	var opts scoreOpts

	cmd := &cobra.Command{
		Use:   "score",
		Short: "Compute the performance value of a play",
		Long:  `Loads a map description with precomputed difficulty attributes from a YAML file and combines it with the play's statistics.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScore(opts)
		},
	}

	cmd.Flags().StringVarP(&opts.mapPath, "map", "m", "", "map description YAML file (required)")
	cmd.Flags().StringVar(&opts.correctionsPath, "corrections", "", "YAML file overriding the map-id correction table")
	cmd.Flags().StringVar(&opts.cachePath, "cache", "", "sqlite attribute cache")
	cmd.Flags().StringVar(&opts.mods, "mods", "", "mods as bitmask or acronyms, e.g. 72 or HDDT")
	cmd.Flags().IntVar(&opts.combo, "combo", -1, "max combo reached")
	cmd.Flags().IntVar(&opts.n300, "n300", -1, "amount of 300s")
	cmd.Flags().IntVar(&opts.n100, "n100", -1, "amount of 100s")
	cmd.Flags().IntVar(&opts.n50, "n50", -1, "amount of 50s")
	cmd.Flags().IntVar(&opts.misses, "misses", 0, "amount of misses")
	cmd.Flags().Float64Var(&opts.acc, "acc", -1, "target accuracy in percent, overrides unset hit counts")
	cmd.Flags().IntVar(&opts.passed, "passed", -1, "passed objects for partial plays")
	cmd.Flags().Float64Var(&opts.clockRate, "clock-rate", 0, "clock rate override")
	cmd.MarkFlagRequired("map")

	return cmd
}

// mapFile is the YAML description of a map plus its precomputed
// difficulty attributes.
type mapFile struct {
	Map struct {
		ID       int     `yaml:"id"`
		Circles  int     `yaml:"circles"`
		Sliders  int     `yaml:"sliders"`
		Spinners int     `yaml:"spinners"`
		MaxCombo int     `yaml:"max_combo"`
		AR       float64 `yaml:"ar"`
		OD       float64 `yaml:"od"`
		CS       float64 `yaml:"cs"`
		HP       float64 `yaml:"hp"`
	} `yaml:"map"`

	Attributes *struct {
		Total                     float64 `yaml:"total"`
		Aim                       float64 `yaml:"aim"`
		Speed                     float64 `yaml:"speed"`
		SpeedNoteCount            float64 `yaml:"speed_note_count"`
		AimDifficultStrainCount   float64 `yaml:"aim_difficult_strain_count"`
		SpeedDifficultStrainCount float64 `yaml:"speed_difficult_strain_count"`
		Flashlight                float64 `yaml:"flashlight"`
		SliderFactor              float64 `yaml:"slider_factor"`
		AR                        float64 `yaml:"ar"`
		OD                        float64 `yaml:"od"`
		CS                        float64 `yaml:"cs"`
		HP                        float64 `yaml:"hp"`
	} `yaml:"attributes"`
}

func loadMapFile(path string) (*beatmap.Map, *api.Attributes, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("reading map file: %w", err)
	}

	var file mapFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, nil, fmt.Errorf("parsing map file: %w", err)
	}

	mp := &beatmap.Map{
		ID:       file.Map.ID,
		Circles:  file.Map.Circles,
		Sliders:  file.Map.Sliders,
		Spinners: file.Map.Spinners,
		MaxCombo: file.Map.MaxCombo,
		AR:       file.Map.AR,
		OD:       file.Map.OD,
		CS:       file.Map.CS,
		HP:       file.Map.HP,
	}

	if file.Attributes == nil {
		return mp, nil, nil
	}

	attribs := &api.Attributes{
		Total:                     file.Attributes.Total,
		Aim:                       file.Attributes.Aim,
		Speed:                     file.Attributes.Speed,
		SpeedNoteCount:            file.Attributes.SpeedNoteCount,
		AimDifficultStrainCount:   file.Attributes.AimDifficultStrainCount,
		SpeedDifficultStrainCount: file.Attributes.SpeedDifficultStrainCount,
		Flashlight:                file.Attributes.Flashlight,
		SliderFactor:              file.Attributes.SliderFactor,
		AR:                        file.Attributes.AR,
		OD:                        file.Attributes.OD,
		CS:                        file.Attributes.CS,
		HP:                        file.Attributes.HP,
		ObjectCount:               mp.ObjectCount(),
		Circles:                   mp.Circles,
		Sliders:                   mp.Sliders,
		Spinners:                  mp.Spinners,
		MaxCombo:                  mp.MaxCombo,
	}

	return mp, attribs, nil
}

// parseMods accepts either the numeric bitmask or a string of
// acronyms.
func parseMods(mods string) difficulty.Modifier {
	if mods == "" {
		return difficulty.None
	}

	if bits, err := strconv.ParseUint(mods, 10, 32); err == nil {
		return difficulty.Modifier(bits)
	}

	return difficulty.ParseMods(mods)
}

func runScore(opts scoreOpts) error {
	mp, attribs, err := loadMapFile(opts.mapPath)
	if err != nil {
		return err
	}

	mods := parseMods(opts.mods)
	passed := opts.passed
	if passed < 0 {
		passed = mp.ObjectCount()
	}

	var store *cache.Store
	if opts.cachePath != "" {
		store, err = cache.Open(opts.cachePath)
		if err != nil {
			return err
		}
		defer store.Close()
	}

	if attribs == nil && store != nil {
		if cached, ok, err := store.Get(mp.ID, mods, passed); err != nil {
			return err
		} else if ok {
			attribs = &cached
		}
	}

	if attribs == nil {
		return fmt.Errorf("map file %s carries no difficulty attributes and the cache has none for mods %d", opts.mapPath, mods)
	}

	if store != nil {
		if err := store.Put(mp.ID, mods, passed, *attribs); err != nil {
			return err
		}
	}

	corrections := performance.DefaultCorrections()
	if opts.correctionsPath != "" {
		corrections, err = performance.LoadCorrections(opts.correctionsPath)
		if err != nil {
			return err
		}
	}

	builder := performance.NewBuilder(mp).
		Mods(mods).
		Attributes(*attribs).
		Corrections(corrections).
		Misses(opts.misses)

	if opts.passed >= 0 {
		builder.PassedObjects(opts.passed)
	}
	if opts.clockRate > 0 {
		builder.ClockRate(opts.clockRate)
	}
	if opts.combo >= 0 {
		builder.Combo(opts.combo)
	}
	if opts.n300 >= 0 {
		builder.N300(opts.n300)
	}
	if opts.n100 >= 0 {
		builder.N100(opts.n100)
	}
	if opts.n50 >= 0 {
		builder.N50(opts.n50)
	}
	if opts.acc >= 0 {
		builder.Accuracy(opts.acc)
	}

	result := builder.Calculate()

	renderResult(mp, result)

	return nil
}

func renderResult(mp *beatmap.Map, result api.PerformanceAttributes) {
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Component", "PP"})

	table.Append([]string{"Aim", fmt.Sprintf("%.2f", result.Aim)})
	table.Append([]string{"Speed", fmt.Sprintf("%.2f", result.Speed)})
	table.Append([]string{"Accuracy", fmt.Sprintf("%.2f", result.Acc)})
	table.Append([]string{"Flashlight", fmt.Sprintf("%.2f", result.Flashlight)})
	table.Append([]string{"Total", fmt.Sprintf("%.2f", result.Total)})

	table.Render()

	fmt.Printf("%s objects, %sx max combo\n",
		humanize.Comma(int64(mp.ObjectCount())),
		humanize.Comma(int64(mp.MaxCombo)))
}

package main

import (
	"log"

	"github.com/spf13/cobra"
)

func main() {
	root := &cobra.Command{
		Use:           "osuperf",
		Short:         "osu! performance point calculator",
		Long:          `Computes the performance value of a play from precomputed difficulty attributes, active mods and hit statistics.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(newScoreCmd())

	if err := root.Execute(); err != nil {
		log.Fatalln(err)
	}
}

package cmd

import (
	"fmt"
	"io"

	"github.com/jsphweid/mdlfit/model"
	"github.com/jsphweid/mdlfit/util"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(inspectCmd)
}

var inspectCmd = &cobra.Command{
	Use:   "inspect [dataset file]",
	Short: "Inspects an encoded dataset",
	Long:  `Prints every piece of an encoded dataset with its onset counts per grid position.`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if len(args) == 1 {
			cfg.Dataset.Path = args[0]
		}
		ds, err := loadDataset(cfg)
		if err != nil {
			return err
		}
		return inspect(cmd.OutOrStdout(), ds)
	},
}

func inspect(w io.Writer, ds model.Dataset) error {
	size, err := model.ValidateDataset(ds)
	if err != nil {
		return err
	}

	perPosition := make(map[int]int)
	for _, p := range ds {
		var onsets int
		for _, m := range p.Measures {
			onsets += model.Onsets(m)
			for pos, v := range m {
				perPosition[pos] += int(v)
			}
		}
		fmt.Fprintf(w, "%v (%v): %v measures, %v onsets", p.Name, p.Path, len(p.Measures), onsets)
		if p.Metadata != nil {
			fmt.Fprintf(w, ", %v by %v", p.Metadata.Title, p.Metadata.Artist)
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "\ndataset: %v\n", model.DatasetName(ds))
	fmt.Fprintf(w, "pieces: %v\n", len(ds))
	fmt.Fprintf(w, "measures: %v\n", model.NumMeasures(ds))
	fmt.Fprintf(w, "grid size: %v\n", size)
	for _, pos := range util.GetKeys(perPosition) {
		fmt.Fprintf(w, "position %d: %v onsets\n", pos, perPosition[pos])
	}
	return nil
}

package cmd

import (
	"context"

	"github.com/jsphweid/mdlfit/constants"
	"github.com/jsphweid/mdlfit/sweep"
	"github.com/spf13/cobra"
)

func init() {
	addSweepFlags(compareCmd)
	rootCmd.AddCommand(compareCmd)
}

var compareCmd = &cobra.Command{
	Use:   "compare [models...]",
	Short: "Selects the best model at its optimal precision",
	Long: `Sweeps every named model (all models when none is given) over the
precision grid and reports the one with the minimum description length.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadSweepConfig(cmd)
		if err != nil {
			return err
		}
		if len(args) > 0 {
			cfg.Models = args
		}
		names, err := cfg.ModelNames()
		if err != nil {
			return err
		}

		ds, err := loadDataset(cfg)
		if err != nil {
			return err
		}
		grid, err := sweep.PowersOfTwo(cfg.Sweep.MinExponent, cfg.Sweep.MaxExponent)
		if err != nil {
			return err
		}
		cmp, err := sweep.NewSelector(cfg.Workers).Compare(context.Background(), ds, names, cfg.ModelConfig(), grid)
		if err != nil {
			return err
		}

		w := cmd.OutOrStdout()
		if flagJSON {
			return printJSON(w, cmp.Report())
		}
		cmp.Show(w, constants.ReportColWidth)
		for _, r := range cmp.Results {
			r.Show(w, constants.ReportColWidth)
		}
		return nil
	},
}

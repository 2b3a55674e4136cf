package cmd

import (
	"encoding/json"
	"io"

	"github.com/jsphweid/mdlfit/config"
	"github.com/jsphweid/mdlfit/constants"
	"github.com/jsphweid/mdlfit/mdl"
	"github.com/jsphweid/mdlfit/model"
	"github.com/spf13/cobra"
)

var flagPrecision float64

func init() {
	fitCmd.Flags().Float64Var(&flagPrecision, "precision", 0, "parameter precision d (default sqrt of the number of observations)")
	rootCmd.AddCommand(fitCmd)
}

var fitCmd = &cobra.Command{
	Use:   "fit [models...]",
	Short: "Fits onset models at one precision",
	Long: `Fits each named model (all models when none is given) to the encoded
dataset and prints its description length in bits per measure.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if len(args) > 0 {
			cfg.Models = args
		}
		if cmd.Flags().Changed("precision") {
			cfg.Precision = &flagPrecision
		}
		if err := cfg.Validate(); err != nil {
			return err
		}

		ds, err := loadDataset(cfg)
		if err != nil {
			return err
		}
		models, err := fitAll(ds, cfg)
		if err != nil {
			return err
		}

		w := cmd.OutOrStdout()
		if flagJSON {
			reports := make([]model.Report, len(models))
			for i, m := range models {
				reports[i] = m.Report()
			}
			return printJSON(w, reports)
		}
		for _, m := range models {
			m.Show(w, constants.ReportColWidth)
		}
		return nil
	},
}

func fitAll(ds model.Dataset, cfg *config.Config) ([]*mdl.Model, error) {
	names, err := cfg.ModelNames()
	if err != nil {
		return nil, err
	}
	res := make([]*mdl.Model, len(names))
	for i, name := range names {
		m, err := mdl.New(name, ds, cfg.ModelConfig())
		if err != nil {
			return nil, err
		}
		res[i] = m
	}
	return res, nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

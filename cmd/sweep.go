package cmd

import (
	"context"

	"github.com/jsphweid/mdlfit/config"
	"github.com/jsphweid/mdlfit/constants"
	"github.com/jsphweid/mdlfit/mdl"
	"github.com/jsphweid/mdlfit/sweep"
	"github.com/spf13/cobra"
)

var (
	flagMinExponent int
	flagMaxExponent int
)

func addSweepFlags(cmd *cobra.Command) {
	cmd.Flags().IntVar(&flagMinExponent, "min-exp", constants.MinPrecisionExponent, "smallest precision is 2^min-exp")
	cmd.Flags().IntVar(&flagMaxExponent, "max-exp", constants.MaxPrecisionExponent, "largest precision is 2^max-exp")
}

func init() {
	addSweepFlags(sweepCmd)
	rootCmd.AddCommand(sweepCmd)
}

var sweepCmd = &cobra.Command{
	Use:   "sweep <model>",
	Short: "Finds the optimal precision of one model",
	Long: `Evaluates one model at every power-of-two precision between 2^min-exp and
2^max-exp and reports the precision with the minimum description length.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadSweepConfig(cmd)
		if err != nil {
			return err
		}
		name, err := mdl.ParseName(args[0])
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
		res, err := sweep.NewSelector(cfg.Workers).Sweep(context.Background(), ds, name, cfg.ModelConfig(), grid)
		if err != nil {
			return err
		}

		if flagJSON {
			return printJSON(cmd.OutOrStdout(), res.Report())
		}
		res.Show(cmd.OutOrStdout(), constants.ReportColWidth)
		return nil
	},
}

func loadSweepConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	if cmd.Flags().Changed("min-exp") {
		cfg.Sweep.MinExponent = flagMinExponent
	}
	if cmd.Flags().Changed("max-exp") {
		cfg.Sweep.MaxExponent = flagMaxExponent
	}
	return cfg, cfg.Validate()
}

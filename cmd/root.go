package cmd

import (
	"path/filepath"

	"github.com/jsphweid/mdlfit/config"
	"github.com/jsphweid/mdlfit/constants"
	"github.com/jsphweid/mdlfit/dataset"
	"github.com/jsphweid/mdlfit/meter"
	"github.com/jsphweid/mdlfit/model"
	"github.com/spf13/cobra"
)

var (
	cfgFile          string
	flagSignature    string
	flagSubdivisions int
	flagDatasetName  string
	flagDatasetPath  string
	flagWorkers      int
	flagJSON         bool
)

var rootCmd = &cobra.Command{
	Use:   "mdlfit",
	Short: "Fits onset models to rhythm corpora by minimum description length",
	Long: `mdlfit encodes MIDI corpora as binary onset grids and compares
probabilistic onset models by their description length in bits per measure.`,
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "YAML analysis config")
	flags.StringVar(&flagSignature, "signature", constants.DefaultSignature, "time signature of the corpus")
	flags.IntVar(&flagSubdivisions, "subdivisions", constants.DefaultBeatSubdivisions, "grid positions per beat")
	flags.StringVar(&flagDatasetName, "name", "", "dataset name")
	flags.StringVar(&flagDatasetPath, "dataset", "", "encoded dataset file")
	flags.IntVar(&flagWorkers, "workers", 0, "parallel evaluations, 0 means one per CPU")
	flags.BoolVar(&flagJSON, "json", false, "print reports as JSON")
}

func Execute() {
	cobra.CheckErr(rootCmd.Execute())
}

// loadConfig reads --config and lets explicitly set flags win over it.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.LoadOrDefault(cfgFile)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("signature") {
		cfg.Signature = flagSignature
	}
	if flags.Changed("subdivisions") {
		cfg.BeatSubdivisions = flagSubdivisions
	}
	if flags.Changed("name") {
		cfg.Dataset.Name = flagDatasetName
	}
	if flags.Changed("dataset") {
		cfg.Dataset.Path = flagDatasetPath
	}
	if flags.Changed("workers") {
		cfg.Workers = flagWorkers
	}
	return cfg, nil
}

// datasetPath is where the encoded dataset of cfg lives.
func datasetPath(cfg *config.Config) (string, error) {
	if cfg.Dataset.Path != "" {
		return cfg.Dataset.Path, nil
	}
	g, err := meter.NewGrid(cfg.Signature, cfg.BeatSubdivisions)
	if err != nil {
		return "", err
	}
	return filepath.Join(constants.GetDataDir(), dataset.FileName(cfg.Dataset.Name, g)), nil
}

func loadDataset(cfg *config.Config) (model.Dataset, error) {
	path, err := datasetPath(cfg)
	if err != nil {
		return nil, err
	}
	return dataset.Load(path)
}

package cmd

import (
	"strconv"

	"github.com/jsphweid/mdlfit/config"
	"github.com/jsphweid/mdlfit/dataset"
	"github.com/jsphweid/mdlfit/db"
	"github.com/jsphweid/mdlfit/logger"
	"github.com/jsphweid/mdlfit/meter"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	flagMediaDir string
	flagNoDedup  bool
	flagMetadata bool
)

func init() {
	encodeCmd.Flags().StringVar(&flagMediaDir, "media-dir", "", "directory of MIDI files (default $MEDIA_PATH)")
	encodeCmd.Flags().BoolVar(&flagNoDedup, "keep-duplicates", false, "keep pieces with identical note sequences")
	encodeCmd.Flags().BoolVar(&flagMetadata, "metadata", false, "attach provenance from the metadata table")
	rootCmd.AddCommand(encodeCmd)
}

var encodeCmd = &cobra.Command{
	Use:   "encode [max files]",
	Short: "Encodes a directory of MIDI files as an onset dataset",
	Long: `Encodes every MIDI file in the media directory that is written in the
requested time signature and saves the onset grids under $MDLFIT_DATA_PATH.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var maxNum int
		if len(args) == 1 {
			arg1, err := strconv.Atoi(args[0])
			if err != nil {
				return err
			}
			maxNum = arg1
		}

		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("media-dir") {
			cfg.Dataset.MediaDir = flagMediaDir
		}
		if flagNoDedup {
			cfg.Dataset.Dedup = false
		}
		if flagMetadata {
			cfg.Dataset.Metadata = true
		}

		_, err = Encode(cfg, maxNum)
		return err
	},
}

// Encode builds the dataset described by cfg and returns the file it was
// saved to.
func Encode(cfg *config.Config, maxNum int) (string, error) {
	if err := cfg.Validate(); err != nil {
		return "", err
	}
	g, err := meter.NewGrid(cfg.Signature, cfg.BeatSubdivisions)
	if err != nil {
		return "", err
	}

	opts := dataset.Options{Name: cfg.Dataset.Name, Grid: g, MaxNum: maxNum, Dedup: cfg.Dataset.Dedup}
	if cfg.Dataset.Metadata {
		store, err := db.NewStore()
		if err != nil {
			return "", err
		}
		opts.Metadata = store
	}

	ds, err := dataset.EncodeDirectory(cfg.Dataset.MediaDir, opts)
	if err != nil {
		return "", err
	}

	path, err := datasetPath(cfg)
	if err != nil {
		return "", err
	}
	if err := dataset.SaveFile(path, ds); err != nil {
		return "", err
	}
	logger.GetProjectLogger().WithFields(logrus.Fields{"path": path}).Info("Saved dataset")
	return path, nil
}

package cmd

import (
	"path/filepath"

	"github.com/spf13/cobra"

	"rav/internal/config"
	"rav/internal/logger"
)

// overwriteSample allows `rav sample` to replace an existing sample file.
var overwriteSample bool

// sampleCmd writes a starter project file to the current directory.
var sampleCmd = &cobra.Command{
	Use:   "sample",
	Short: "Create " + config.SampleFile + " in the current directory",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if overwriteSample {
			logger.Warn("Forcing overwrite of %s\n", config.SampleFile)
		}
		if err := config.WriteSample(config.SampleFile, overwriteSample); err != nil {
			return err
		}
		path, err := filepath.Abs(config.SampleFile)
		if err != nil {
			path = config.SampleFile
		}
		logger.Success("Created a sample project at: %s\n", path)
		return nil
	},
}

func init() {
	sampleCmd.Flags().BoolVar(&overwriteSample, "overwrite", false, "Replace an existing "+config.SampleFile)
}

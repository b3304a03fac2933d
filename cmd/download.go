package cmd

import (
	"errors"
	"net/http"

	"github.com/spf13/cobra"

	"rav/internal/app"
	"rav/internal/config"
	"rav/internal/logger"
)

// httpClient performs download requests. No timeout is set: files may be large
// and the user can interrupt.
var httpClient = &http.Client{}

// downloadCmd fetches the files of one download spec. Without a name it lists
// the available specs.
var downloadCmd = &cobra.Command{
	Use:     "download [name]",
	Aliases: []string{"dl"},
	Short:   "Download the files of a download spec",
	Args:    cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := app.Load(settings)
		if err != nil {
			return err
		}
		if len(args) == 0 {
			printDownloads(cmd, c)
			return nil
		}

		name := args[0]
		summary, err := c.Download(cmd.Context(), name, httpClient)
		if errors.Is(err, config.ErrDownloadNotFound) {
			printDownloads(cmd, c)
			logger.Error("\n'%s' is not a valid download config. Review the valid ones above.\n", name)
			return &ExitError{Code: 1}
		}
		if err != nil {
			return &ExitError{Code: 1, Err: err}
		}
		logger.Debug("[DEBUG] %s: downloaded=%d skipped=%d failed=%d\n",
			summary.Name, summary.Downloaded, summary.Skipped, summary.Failed)
		return nil
	},
}

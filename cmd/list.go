package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"rav/internal/app"
	"rav/internal/logger"
)

// expanded makes `rav list` show fully materialized commands.
var expanded bool

// listCmd prints the scripts of the project file, and its downloads if any.
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the scripts and downloads of the project file",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := app.Load(settings)
		if err != nil {
			return err
		}
		logger.Info("Viewing available commands via `rav list`\n")
		printScripts(cmd, c, expanded)
		if len(c.Project.Downloads) > 0 {
			printDownloads(cmd, c)
		}
		return nil
	},
}

// printScripts renders the script table to the command's output.
func printScripts(cmd *cobra.Command, c *app.Context, expanded bool) {
	rows := c.Rows(expanded)
	cells := make([][]string, 0, len(rows))
	failed := map[int]bool{}
	for i, r := range rows {
		text := r.Command
		if r.Err != nil {
			text = "error: " + r.Err.Error()
			failed[i] = true
		}
		cells = append(cells, []string{r.Name, text})
	}
	fmt.Fprintln(cmd.OutOrStdout())
	fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"Command", "Script"}, cells, failed))
}

// printDownloads renders the download spec table to the command's output.
func printDownloads(cmd *cobra.Command, c *app.Context) {
	rows := c.DownloadRows()
	cells := make([][]string, 0, len(rows))
	failed := map[int]bool{}
	for i, r := range rows {
		if r.Err != nil {
			cells = append(cells, []string{r.Name, "error: " + r.Err.Error(), "-"})
			failed[i] = true
			continue
		}
		cells = append(cells, []string{r.Name, r.Destination, strconv.Itoa(r.Files)})
	}
	fmt.Fprintln(cmd.OutOrStdout())
	fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"Download", "Destination", "Files"}, cells, failed))
}

func init() {
	listCmd.Flags().BoolVarP(&expanded, "expanded", "e", false, "Show fully resolved commands (groups, prefixes and variables applied)")
}

package cmd

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/titlescope/internal/render"
	"github.com/KaramelBytes/titlescope/internal/utils"
)

var (
	repOutputPath string
	repQuiet      bool
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Run every analysis in the catalog and write one combined report",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		runner, err := newRunner()
		if err != nil {
			return err
		}
		ld, err := loadDataset()
		if err != nil {
			return err
		}
		// --out picks its format from the extension unless --format was given.
		if repOutputPath != "" && !rootCmd.PersistentFlags().Changed("format") {
			if f := formatForPath(repOutputPath); f != "" {
				cfg.OutputFormat = f
			}
		}
		names := runner.Catalog().Names()
		if !repQuiet {
			fmt.Fprintf(os.Stderr, "Running %d queries over %d rows from %s...\n", len(names), ld.Table.Len(), filepath.Base(ld.Path))
		}
		results, runErr := runner.RunAll(cmd.Context(), ld.Table)

		if repOutputPath == "" {
			if err := emit(cmd.OutOrStdout(), runner.Catalog(), names, results, ld.Warnings); err != nil {
				return err
			}
			return runErr
		}
		var buf bytes.Buffer
		if err := emit(&buf, runner.Catalog(), names, results, ld.Warnings); err != nil {
			return err
		}
		if err := utils.SafeWriteFile(repOutputPath, buf.Bytes()); err != nil {
			return fmt.Errorf("write report: %w", err)
		}
		if !repQuiet {
			fmt.Fprintf(os.Stderr, "✓ Wrote %d/%d query results to %s\n", len(results), len(names), repOutputPath)
		}
		return runErr
	},
}

// formatForPath maps a file extension to an output format, or "" if unknown.
func formatForPath(p string) string {
	switch strings.ToLower(filepath.Ext(p)) {
	case ".csv":
		return render.FormatCSV
	case ".json":
		return render.FormatJSON
	case ".md", ".markdown":
		return render.FormatMarkdown
	case ".txt":
		return render.FormatTable
	}
	return ""
}

func init() {
	rootCmd.AddCommand(reportCmd)
	reportCmd.Flags().StringVarP(&repOutputPath, "out", "o", "", "write the report to a file instead of stdout")
	reportCmd.Flags().BoolVarP(&repQuiet, "quiet", "q", false, "suppress progress output")
}

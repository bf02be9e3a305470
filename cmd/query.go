package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/titlescope/internal/catalog"
	"github.com/KaramelBytes/titlescope/internal/render"
	"github.com/KaramelBytes/titlescope/internal/table"
)

var queryCmd = &cobra.Command{
	Use:   "query <name> [name...]",
	Short: "Run one or more named analyses against the dataset",
	Long: `Run named analyses from the catalog and print their result tables.
Use 'titlescope list' to see the available names.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		runner, err := newRunner()
		if err != nil {
			return err
		}
		// Fail fast on typos before reading the dataset.
		for _, name := range args {
			if _, err := runner.Catalog().Lookup(name); err != nil {
				return fmt.Errorf("%w (see 'titlescope list')", err)
			}
		}
		ld, err := loadDataset()
		if err != nil {
			return err
		}
		results, runErr := runner.RunMany(cmd.Context(), args, ld.Table)
		if err := emit(cmd.OutOrStdout(), runner.Catalog(), args, results, ld.Warnings); err != nil {
			return err
		}
		return runErr
	},
}

// emit writes the results present for names, in order, in the configured format.
func emit(w io.Writer, c *catalog.Catalog, names []string, results map[string]*table.Table, notes []string) error {
	f, err := render.New(cfg.OutputFormat)
	if err != nil {
		return err
	}
	out := make([]render.Result, 0, len(names))
	for _, name := range names {
		t, ok := results[name]
		if !ok {
			continue
		}
		r := render.Result{Name: name, Table: t, Notes: notes}
		if p, err := c.Lookup(name); err == nil {
			r.Description = p.Description
		}
		out = append(out, r)
	}
	if len(out) == 0 {
		return nil
	}
	if err := f.Write(w, out); err != nil {
		return fmt.Errorf("write %s output: %w", cfg.OutputFormat, err)
	}
	return nil
}

func init() {
	rootCmd.AddCommand(queryCmd)
}

package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/titlescope/internal/dataset"
)

var convertForce bool

var convertCmd = &cobra.Command{
	Use:   "convert <out.parquet>",
	Short: "Validate the dataset and write it as Parquet",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := args[0]
		switch strings.ToLower(filepath.Ext(out)) {
		case ".parquet", ".pq":
		default:
			return fmt.Errorf("output must end in .parquet or .pq: %s", out)
		}
		if _, err := os.Stat(out); err == nil && !convertForce {
			return fmt.Errorf("%s already exists (use --force to overwrite)", out)
		}
		ld, err := loadDataset()
		if err != nil {
			return err
		}
		tmp := out + ".tmp"
		f, err := os.Create(tmp)
		if err != nil {
			return fmt.Errorf("create output: %w", err)
		}
		if err := dataset.WriteParquet(f, ld.Table); err != nil {
			f.Close()
			_ = os.Remove(tmp)
			return err
		}
		if err := f.Close(); err != nil {
			_ = os.Remove(tmp)
			return fmt.Errorf("close output: %w", err)
		}
		if err := os.Rename(tmp, out); err != nil {
			_ = os.Remove(tmp)
			return fmt.Errorf("atomic rename: %w", err)
		}
		fmt.Fprintf(os.Stderr, "✓ Wrote %d titles to %s\n", ld.Table.Len(), out)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(convertCmd)
	convertCmd.Flags().BoolVar(&convertForce, "force", false, "overwrite an existing output file")
}

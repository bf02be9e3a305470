package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	cfgpkg "github.com/KaramelBytes/titlescope/internal/config"
	"github.com/KaramelBytes/titlescope/internal/render"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or set titlescope configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		w := cmd.OutOrStdout()
		if cfg == nil {
			fmt.Fprintln(w, "No config loaded")
			return nil
		}
		fmt.Fprintf(w, "dataset_path: %s\n", cfg.DatasetPath)
		if cfg.Delimiter != "" {
			fmt.Fprintf(w, "delimiter: %q\n", cfg.Delimiter)
		}
		fmt.Fprintf(w, "output_format: %s\n", cfg.OutputFormat)
		fmt.Fprintf(w, "parallelism: %d\n", cfg.Parallelism)
		if cfg.QueriesFile != "" {
			fmt.Fprintf(w, "queries_file: %s\n", cfg.QueriesFile)
		}
		fmt.Fprintf(w, "max_rows: %d\n", cfg.MaxRows)
		if cfg.XLSXSheetName != "" {
			fmt.Fprintf(w, "xlsx_sheet_name: %s\n", cfg.XLSXSheetName)
		}
		if cfg.XLSXSheetIndex > 0 {
			fmt.Fprintf(w, "xlsx_sheet_index: %d\n", cfg.XLSXSheetIndex)
		}
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a config value and save to disk",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, val := args[0], args[1]
		// Start from the file, not from flag overrides applied to cfg.
		c, err := cfgpkg.Load(cfgFile)
		if err != nil {
			return err
		}
		switch key {
		case "dataset_path":
			c.DatasetPath = val
		case "delimiter":
			switch val {
			case ",", ";", "|", "tab", `\t`, "":
				c.Delimiter = val
			default:
				return fmt.Errorf("invalid delimiter: %s (use ',' | ';' | '|' | 'tab')", val)
			}
		case "output_format":
			if !render.Valid(val) {
				return fmt.Errorf("invalid output_format: %s", val)
			}
			c.OutputFormat = val
		case "parallelism":
			i, err := strconv.Atoi(val)
			if err != nil || i < 0 {
				return fmt.Errorf("invalid int for parallelism: %v", val)
			}
			c.Parallelism = i
		case "queries_file":
			c.QueriesFile = val
		case "max_rows":
			i, err := strconv.Atoi(val)
			if err != nil || i < 0 {
				return fmt.Errorf("invalid int for max_rows: %v", val)
			}
			c.MaxRows = i
		case "xlsx_sheet_name":
			c.XLSXSheetName = val
		case "xlsx_sheet_index":
			i, err := strconv.Atoi(val)
			if err != nil || i < 0 {
				return fmt.Errorf("invalid int for xlsx_sheet_index: %v", val)
			}
			c.XLSXSheetIndex = i
		default:
			return fmt.Errorf("unknown key: %s", key)
		}
		if err := cfgpkg.Save(c, cfgFile); err != nil {
			return err
		}
		cfg = c
		fmt.Fprintln(cmd.OutOrStdout(), "Saved config")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}

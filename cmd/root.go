package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/KaramelBytes/titlescope/internal/catalog"
	cfgpkg "github.com/KaramelBytes/titlescope/internal/config"
	"github.com/KaramelBytes/titlescope/internal/dataset"
)

var (
	cfgFile string
	debug   bool
	// Dataset and output flags (override config if set)
	flagDataset     string
	flagQueries     string
	flagFormat      string
	flagDelimiter   string
	flagParallelism int
	flagMaxRows     int
	flagSheetName   string
	flagSheetIndex  int

	// Loaded configuration
	cfg *cfgpkg.Global
)

// log is replaced with a development logger when --debug is set.
var log = zap.NewNop()

var rootCmd = &cobra.Command{
	Use:   "titlescope",
	Short: "titlescope: descriptive analytics over a catalog of movies and TV shows",
	Long: `titlescope loads a titles catalog (CSV, TSV, XLSX or Parquet) and answers a fixed menu
of descriptive questions about it: distributions by type, genre, country, rating and year,
top-N directors and actors, and a few derived classifications.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute is the entry point called by main.main()
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "✗ Error:", err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(loadConfig)

	f := rootCmd.PersistentFlags()
	f.StringVar(&cfgFile, "config", "", "config file (default is ~/.titlescope/config.yaml)")
	f.BoolVar(&debug, "debug", false, "enable debug logging")
	f.StringVarP(&flagDataset, "dataset", "d", "", "titles file: .csv, .tsv, .xlsx or .parquet (overrides dataset_path)")
	f.StringVar(&flagQueries, "queries", "", "YAML file with extra query definitions (overrides queries_file)")
	f.StringVarP(&flagFormat, "format", "f", "", "output format: table | csv | json | markdown (overrides output_format)")
	f.StringVar(&flagDelimiter, "delimiter", "", "CSV delimiter: ',' | ';' | 'tab' (auto-detect if omitted)")
	f.IntVar(&flagParallelism, "parallelism", 0, "queries evaluated concurrently by report (0 = number of CPUs)")
	f.IntVar(&flagMaxRows, "max-rows", 0, "maximum rows to load (0 = unlimited)")
	f.StringVar(&flagSheetName, "sheet-name", "", "XLSX: sheet name to load")
	f.IntVar(&flagSheetIndex, "sheet-index", 0, "XLSX: 1-based sheet index (used if --sheet-name not provided)")
}

func loadConfig() {
	log = zap.NewNop()
	if debug {
		if l, err := zap.NewDevelopment(); err == nil {
			log = l
		} else {
			fmt.Fprintf(os.Stderr, "⚠ Warning: debug logger unavailable: %v\n", err)
		}
	}

	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		// Non-fatal: allow running commands that don't need config
		fmt.Fprintf(os.Stderr, "⚠ Warning: failed to load config: %v\n", err)
		c = &cfgpkg.Global{OutputFormat: "table"}
	}
	cfg = c

	// Apply CLI overrides if provided
	f := rootCmd.PersistentFlags()
	if f.Changed("dataset") {
		cfg.DatasetPath = flagDataset
	}
	if f.Changed("queries") {
		cfg.QueriesFile = flagQueries
	}
	if f.Changed("format") {
		cfg.OutputFormat = flagFormat
	}
	if f.Changed("delimiter") {
		cfg.Delimiter = flagDelimiter
	}
	if f.Changed("parallelism") && flagParallelism > 0 {
		cfg.Parallelism = flagParallelism
	}
	if f.Changed("max-rows") && flagMaxRows >= 0 {
		cfg.MaxRows = flagMaxRows
	}
	if f.Changed("sheet-name") {
		cfg.XLSXSheetName = flagSheetName
	}
	if f.Changed("sheet-index") && flagSheetIndex >= 0 {
		cfg.XLSXSheetIndex = flagSheetIndex
	}
	log.Debug("config loaded",
		zap.String("dataset", cfg.DatasetPath),
		zap.String("format", cfg.OutputFormat),
		zap.Int("parallelism", cfg.Parallelism),
		zap.Int("max_rows", cfg.MaxRows),
	)
}

// loadDataset reads the configured titles file.
func loadDataset() (*dataset.Loaded, error) {
	if cfg.DatasetPath == "" {
		return nil, fmt.Errorf("no dataset: pass --dataset or set dataset_path")
	}
	opt := dataset.Options{
		Delimiter:  cfg.DelimiterRune(),
		SheetName:  cfg.XLSXSheetName,
		SheetIndex: cfg.XLSXSheetIndex,
		MaxRows:    cfg.MaxRows,
	}
	ld, err := dataset.Load(cfg.DatasetPath, opt, log)
	if err != nil {
		return nil, err
	}
	for _, w := range ld.Warnings {
		fmt.Fprintf(os.Stderr, "⚠ Warning: %s\n", w)
	}
	return ld, nil
}

// newRunner builds a runner over the built-in catalog plus any queries file.
func newRunner() (*catalog.Runner, error) {
	c := catalog.Default()
	if cfg.QueriesFile != "" {
		if err := c.LoadFile(cfg.QueriesFile); err != nil {
			return nil, err
		}
		log.Debug("queries file loaded", zap.String("path", cfg.QueriesFile), zap.Int("queries", len(c.Names())))
	}
	return catalog.NewRunner(c, log, cfg.Parallelism), nil
}

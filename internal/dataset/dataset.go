// Package dataset reads catalog files into raw rows for table.Load.
package dataset

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/KaramelBytes/titlescope/internal/table"
)

// Options controls how a dataset file is read.
type Options struct {
	// Delimiter for CSV. If 0, inferred from the extension and header line.
	Delimiter rune
	// SheetName selects an XLSX sheet by name; takes precedence over SheetIndex.
	SheetName string
	// SheetIndex is 1-based; 0 means the first sheet.
	SheetIndex int
	// MaxRows limits rows loaded; 0 means unlimited.
	MaxRows int
}

// Source reads one file format.
type Source interface {
	Name() string
	CanRead(path string) bool
	Read(path string, opt Options) ([]table.RawRow, error)
}

var registry []Source

// Register adds a source to the registry. Later registrations are consulted first.
func Register(s Source) {
	registry = append([]Source{s}, registry...)
}

// ErrUnsupported indicates no registered source handles the file.
var ErrUnsupported = errors.New("unsupported dataset format")

func sourceFor(path string) (Source, error) {
	for _, s := range registry {
		if s.CanRead(path) {
			return s, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupported, filepath.Ext(path))
}

// Open reads path with the source matching its extension. Rows beyond
// opt.MaxRows are dropped.
func Open(path string, opt Options) ([]table.RawRow, error) {
	rows, _, err := open(path, opt)
	return rows, err
}

func open(path string, opt Options) ([]table.RawRow, int, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, 0, fmt.Errorf("open dataset: %w", err)
	}
	src, err := sourceFor(path)
	if err != nil {
		return nil, 0, err
	}
	rows, err := src.Read(path, opt)
	if err != nil {
		return nil, 0, fmt.Errorf("read %s: %w", src.Name(), err)
	}
	total := len(rows)
	if opt.MaxRows > 0 && total > opt.MaxRows {
		rows = rows[:opt.MaxRows]
	}
	return rows, total, nil
}

// Loaded is a validated titles table plus notes gathered while reading it.
type Loaded struct {
	Table    *table.Table
	Path     string
	Rows     int
	Warnings []string
}

// Load reads and validates path into a titles table.
func Load(path string, opt Options, log *zap.Logger) (*Loaded, error) {
	if log == nil {
		log = zap.NewNop()
	}
	rows, total, err := open(path, opt)
	if err != nil {
		return nil, err
	}
	t, err := table.Load(rows)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", filepath.Base(path), err)
	}
	out := &Loaded{Table: t, Path: path, Rows: total}
	if len(rows) < total {
		out.Warnings = append(out.Warnings, fmt.Sprintf("processed only %d/%d rows due to max_rows", len(rows), total))
	}
	log.Debug("dataset loaded",
		zap.String("path", path),
		zap.String("table_id", t.ID()),
		zap.Int("rows", t.Len()),
		zap.Int("source_rows", total),
	)
	return out, nil
}

// headerRows zips a header with data records into raw rows. Short records
// are padded with blanks; surplus cells are ignored.
func headerRows(header []string, records [][]string) []table.RawRow {
	keys := make([]string, len(header))
	for i, h := range header {
		keys[i] = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\uFEFF")))
	}
	out := make([]table.RawRow, 0, len(records))
	for _, rec := range records {
		if blankRecord(rec) {
			continue
		}
		row := make(table.RawRow, len(keys))
		for i, k := range keys {
			if k == "" {
				continue
			}
			if i < len(rec) {
				row[k] = rec[i]
			} else {
				row[k] = ""
			}
		}
		out = append(out, row)
	}
	return out
}

func blankRecord(rec []string) bool {
	for _, c := range rec {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

func init() {
	Register(parquetSource{})
	Register(xlsxSource{})
	Register(csvSource{})
}

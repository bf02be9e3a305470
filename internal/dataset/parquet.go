package dataset

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/parquet-go/parquet-go"

	"github.com/KaramelBytes/titlescope/internal/table"
)

type parquetSource struct{}

func (parquetSource) Name() string { return "parquet" }

func (parquetSource) CanRead(path string) bool {
	lower := strings.ToLower(path)
	return strings.HasSuffix(lower, ".parquet") || strings.HasSuffix(lower, ".pq")
}

// Read loads every row as a column-name map. Byte-array columns without a
// string annotation arrive as []byte and are converted to text.
func (parquetSource) Read(path string, opt Options) ([]table.RawRow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open parquet: %w", err)
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat parquet: %w", err)
	}
	pf, err := parquet.OpenFile(f, stat.Size())
	if err != nil {
		return nil, fmt.Errorf("open parquet file: %w", err)
	}

	reader := parquet.NewReader(pf)
	defer func() { _ = reader.Close() }()

	out := make([]table.RawRow, 0, pf.NumRows())
	for {
		row := make(map[string]any)
		if err := reader.Read(&row); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("read row %d: %w", len(out), err)
		}
		raw := make(table.RawRow, len(row))
		for k, v := range row {
			if b, ok := v.([]byte); ok {
				v = string(b)
			}
			raw[strings.ToLower(k)] = v
		}
		out = append(out, raw)
	}
	return out, nil
}

// TitleRecord is the parquet layout written by `titlescope convert` and
// accepted on read. Optional columns may be absent from the file.
type TitleRecord struct {
	ShowID      *string `parquet:"show_id,optional"`
	Title       string  `parquet:"title"`
	Type        string  `parquet:"type"`
	Director    *string `parquet:"director,optional"`
	Cast        *string `parquet:"cast,optional"`
	Country     *string `parquet:"country,optional"`
	DateAdded   *string `parquet:"date_added,optional"`
	ReleaseYear int64   `parquet:"release_year"`
	Rating      *string `parquet:"rating,optional"`
	Duration    *string `parquet:"duration,optional"`
	ListedIn    *string `parquet:"listed_in,optional"`
	Description *string `parquet:"description,optional"`
}

// WriteParquet writes t in the TitleRecord layout.
func WriteParquet(w io.Writer, t *table.Table) error {
	opt := func(v table.Value) *string {
		if v.IsNull() {
			return nil
		}
		s := v.String()
		if v.Kind() == table.KindList {
			s = strings.Join(v.List(), ", ")
		}
		return &s
	}
	recs := make([]TitleRecord, 0, t.Len())
	for r := range t.Rows() {
		recs = append(recs, TitleRecord{
			ShowID:      opt(r.Get(table.ColShowID)),
			Title:       r.Get(table.ColTitle).Str(),
			Type:        r.Get(table.ColType).Str(),
			Director:    opt(r.Get(table.ColDirector)),
			Cast:        opt(r.Get(table.ColCast)),
			Country:     opt(r.Get(table.ColCountry)),
			DateAdded:   opt(r.Get(table.ColDateAdded)),
			ReleaseYear: r.Get(table.ColReleaseYear).Int(),
			Rating:      opt(r.Get(table.ColRating)),
			Duration:    opt(r.Get(table.ColDuration)),
			ListedIn:    opt(r.Get(table.ColListedIn)),
			Description: opt(r.Get(table.ColDescription)),
		})
	}
	pw := parquet.NewGenericWriter[TitleRecord](w)
	if _, err := pw.Write(recs); err != nil {
		return fmt.Errorf("write parquet: %w", err)
	}
	if err := pw.Close(); err != nil {
		return fmt.Errorf("close parquet writer: %w", err)
	}
	return nil
}

package analysis

import (
	"fmt"
	"math"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/KaramelBytes/titlescope/internal/table"
)

func loadTitles(t *testing.T) *table.Table {
	t.Helper()
	tbl, err := table.Load([]table.RawRow{
		{"title": "Alpha", "type": "Movie", "duration": "90 min", "release_year": "2020", "director": "Ava", "country": "United States, France", "date_added": "September 25, 2021"},
		{"title": "Beta", "type": "TV Show", "duration": "2 Seasons", "release_year": "2018", "country": "France", "date_added": "January 1, 2020"},
		{"title": "Gamma", "type": "Movie", "duration": "100 min", "release_year": "2021", "director": "Bo", "country": "France"},
		{"title": "Delta", "type": "TV Show", "duration": "1 Season", "release_year": "2019", "description": "Line one\nline | two"},
	})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	return tbl
}

func column(t *testing.T, rep *Report, name string) ColumnSummary {
	t.Helper()
	for _, c := range rep.Cols {
		if c.Name == name {
			return c
		}
	}
	t.Fatalf("column %q not in report", name)
	return ColumnSummary{}
}

func TestProfileColumnStats(t *testing.T) {
	tbl := loadTitles(t)
	rep := Profile("titles.csv", tbl, 0, DefaultOptions())
	if rep.Rows != 4 || len(rep.Cols) != table.TitlesSchema.Len() {
		t.Fatalf("rows=%d cols=%d", rep.Rows, len(rep.Cols))
	}
	if rep.TableID != tbl.ID() {
		t.Fatalf("TableID = %q, want %q", rep.TableID, tbl.ID())
	}

	year, ok := column(t, rep, table.ColReleaseYear).StatsFor("")
	if !ok || year.Min != 2018 || year.Max != 2021 || math.Abs(year.Mean-2019.5) > 1e-9 {
		t.Fatalf("release_year stats = %+v", year)
	}
	if year.OutlierThreshold != 0 {
		t.Fatalf("outliers should need at least 8 values, got threshold %v", year.OutlierThreshold)
	}

	dur := column(t, rep, table.ColDuration)
	if dur.Unit != "min/seasons" || len(dur.Stats) != 2 {
		t.Fatalf("duration unit = %q stats = %+v", dur.Unit, dur.Stats)
	}

	dir := column(t, rep, table.ColDirector)
	if dir.NonNull != 2 || dir.Missing != 2 {
		t.Fatalf("director non-null=%d missing=%d, want 2/2", dir.NonNull, dir.Missing)
	}

	country := column(t, rep, table.ColCountry)
	if country.Elements != 4 || len(country.TopValues) == 0 || country.TopValues[0] != (CategoryCount{Value: "France", Count: 3}) {
		t.Fatalf("country summary = %+v", country)
	}

	added := column(t, rep, table.ColDateAdded)
	if added.Earliest != "2020-01-01" || added.Latest != "2021-09-25" {
		t.Fatalf("date_added range = %s..%s", added.Earliest, added.Latest)
	}
}

func TestProfileMarkdown(t *testing.T) {
	opt := DefaultOptions()
	opt.SampleRows = 2
	rep := Profile("titles.csv", loadTitles(t), 10, opt)
	if len(rep.Samples) != 2 {
		t.Fatalf("samples = %d, want 2", len(rep.Samples))
	}
	md := rep.Markdown()
	for _, want := range []string{
		"[DATASET SUMMARY]\nFile: titles.csv\n",
		"Rows: ~10 (processed 4)\n",
		"[SCHEMA]\n",
		"- director: text (non-null 2, missing 50.0%)",
		"- duration [min/seasons]: duration",
		"- country: list",
		"France(3)",
		"[HEAD AND SAMPLE ROWS]\n| show_id | title |",
		"| Alpha | Movie |",
		"[NOTES]\n- processed only 4/10 rows due to max_rows\n",
	} {
		if !strings.Contains(md, want) {
			t.Fatalf("markdown missing %q:\n%s", want, md)
		}
	}
}

func TestProfileDurationStatsPerUnit(t *testing.T) {
	var raws []table.RawRow
	for i, m := range []int{90, 95, 100, 105, 110, 112, 115, 120} {
		raws = append(raws, table.RawRow{"title": fmt.Sprintf("Movie %d", i), "type": "Movie", "duration": fmt.Sprintf("%d min", m)})
	}
	for i, d := range []string{"1 Season", "2 Seasons", "2 Seasons"} {
		raws = append(raws, table.RawRow{"title": fmt.Sprintf("Show %d", i), "type": "TV Show", "duration": d})
	}
	tbl, err := table.Load(raws)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	dur := column(t, Profile("titles.csv", tbl, 0, DefaultOptions()), table.ColDuration)

	mins, ok := dur.StatsFor("min")
	if !ok || mins.Count != 8 || mins.Min != 90 || mins.Max != 120 {
		t.Fatalf("minutes stats = %+v", mins)
	}
	if mins.OutlierThreshold != 3.5 || mins.OutliersCount != 0 {
		t.Fatalf("minutes outliers = %d above %v, want 0 above 3.5", mins.OutliersCount, mins.OutlierThreshold)
	}
	seasons, ok := dur.StatsFor("seasons")
	if !ok || seasons.Count != 3 || seasons.Min != 1 || seasons.Max != 2 {
		t.Fatalf("seasons stats = %+v", seasons)
	}
	if seasons.OutliersCount != 0 {
		t.Fatalf("seasons outliers = %d, want 0", seasons.OutliersCount)
	}

	md := Profile("titles.csv", tbl, 0, DefaultOptions()).Markdown()
	for _, want := range []string{
		"\n  - min: n 8; min 90, max 120,",
		"; outliers: 0 above |z|>3.5\n",
		"\n  - seasons: n 3; min 1, max 2,",
	} {
		if !strings.Contains(md, want) {
			t.Fatalf("markdown missing %q:\n%s", want, md)
		}
	}
}

func TestMarkdownKeepsSampleCellsValidUTF8(t *testing.T) {
	desc := strings.Repeat("a", 76) + "—a quiet drama"
	tbl, err := table.Load([]table.RawRow{{"title": "Alpha", "type": "Movie", "description": desc}})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	md := Profile("titles.csv", tbl, 0, DefaultOptions()).Markdown()
	if !utf8.ValidString(md) {
		t.Fatalf("markdown is not valid UTF-8")
	}
	if !strings.Contains(md, strings.Repeat("a", 76)+"—...") {
		t.Fatalf("sample cell not cut on a rune boundary:\n%s", md)
	}
}

func TestSafeName(t *testing.T) {
	if got := safeName("  "); got != "(unnamed)" {
		t.Fatalf("safeName = %q", got)
	}
}

func TestCountOutliers(t *testing.T) {
	vals := []float64{90, 92, 95, 97, 98, 100, 101, 103, 500}
	if got := countOutliers(vals, 3.5); got != 1 {
		t.Fatalf("countOutliers = %d, want 1", got)
	}
	if got := countOutliers([]float64{5, 5, 5, 5}, 3.5); got != 0 {
		t.Fatalf("constant series should have no outliers, got %d", got)
	}
}

func TestQuantile(t *testing.T) {
	s := []float64{1, 2, 3, 4}
	if q := quantile(s, 0.5); q != 2.5 {
		t.Fatalf("median = %v, want 2.5", q)
	}
	if q := quantile(s, 0); q != 1 {
		t.Fatalf("q0 = %v", q)
	}
	if q := quantile(nil, 0.5); q != 0 {
		t.Fatalf("empty = %v", q)
	}
}

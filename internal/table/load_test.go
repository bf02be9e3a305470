package table

import (
	"errors"
	"testing"
	"time"
)

func TestLoadCoercesRow(t *testing.T) {
	tbl, err := Load([]RawRow{{
		"Show_ID":      "s1",
		"Title":        " Dick Johnson Is Dead ",
		"type":         "Movie",
		"director":     "Kirsten Johnson",
		"cast":         "",
		"country":      "United States, Ghana",
		"date_added":   "September 25, 2021",
		"release_year": "2020",
		"rating":       "PG-13",
		"duration":     "90 min",
		"listed_in":    "Documentaries, Documentaries, Dramas",
		"description":  "As her father nears the end of his life...",
		"unknown":      "ignored",
	}})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if tbl.Len() != 1 {
		t.Fatalf("Len = %d, want 1", tbl.Len())
	}
	if tbl.ID() == "" {
		t.Fatalf("expected a table id")
	}
	r := tbl.Row(0)
	if got := r.Get(ColTitle).Str(); got != "Dick Johnson Is Dead" {
		t.Fatalf("title = %q", got)
	}
	if !r.Get(ColCast).IsNull() {
		t.Fatalf("blank cast should be null, got %v", r.Get(ColCast))
	}
	if got := r.Get(ColCountry).List(); len(got) != 2 || got[1] != "Ghana" {
		t.Fatalf("country = %v", got)
	}
	if got := r.Get(ColListedIn).List(); len(got) != 2 {
		t.Fatalf("listed_in should be deduplicated, got %v", got)
	}
	want := time.Date(2021, time.September, 25, 0, 0, 0, 0, time.UTC)
	if got := r.Get(ColDateAdded).Time(); !got.Equal(want) {
		t.Fatalf("date_added = %v, want %v", got, want)
	}
	if got := r.Get(ColReleaseYear).Int(); got != 2020 {
		t.Fatalf("release_year = %d", got)
	}
	d := r.Get(ColDuration)
	if d.Int() != 90 || d.Unit() != UnitMinutes {
		t.Fatalf("duration = %v (%v)", d, d.Unit())
	}
}

func TestLoadDurationUnitFollowsType(t *testing.T) {
	tbl, err := Load([]RawRow{
		{"title": "S", "type": "TVShow", "release_year": 2019, "duration": "24 Seasons"},
		{"title": "T", "type": "TV Show", "release_year": 2019, "duration": "1 Season"},
		{"title": "M", "type": "Movie", "release_year": 2019, "duration": 95},
	})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got := tbl.Row(0).Get(ColType).Str(); got != TypeTVShow {
		t.Fatalf("type = %q, want %q", got, TypeTVShow)
	}
	cases := []struct {
		row  int
		n    int64
		unit Unit
		text string
	}{
		{0, 24, UnitSeasons, "24 Seasons"},
		{1, 1, UnitSeasons, "1 Season"},
		{2, 95, UnitMinutes, "95 min"},
	}
	for _, c := range cases {
		d := tbl.Row(c.row).Get(ColDuration)
		if d.Int() != c.n || d.Unit() != c.unit || d.String() != c.text {
			t.Fatalf("row %d duration = %d %v %q, want %d %v %q", c.row, d.Int(), d.Unit(), d.String(), c.n, c.unit, c.text)
		}
	}
}

func TestLoadSchemaErrors(t *testing.T) {
	cases := []struct {
		name  string
		row   RawRow
		field string
	}{
		{"missing title", RawRow{"type": "Movie", "release_year": 2000}, ColTitle},
		{"bad type", RawRow{"title": "x", "type": "Podcast", "release_year": 2000}, ColType},
		{"fractional year", RawRow{"title": "x", "type": "Movie", "release_year": 2000.5}, ColReleaseYear},
		{"year text", RawRow{"title": "x", "type": "Movie", "release_year": "soon"}, ColReleaseYear},
		{"bad date", RawRow{"title": "x", "type": "Movie", "release_year": 2000, "date_added": "someday"}, ColDateAdded},
		{"unit mismatch", RawRow{"title": "x", "type": "Movie", "release_year": 2000, "duration": "3 Seasons"}, ColDuration},
		{"garbage duration", RawRow{"title": "x", "type": "Movie", "release_year": 2000, "duration": "long"}, ColDuration},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			ok := RawRow{"title": "fine", "type": "Movie", "release_year": 1999}
			_, err := Load([]RawRow{ok, c.row})
			if !errors.Is(err, ErrSchema) {
				t.Fatalf("err = %v, want ErrSchema", err)
			}
			var se *SchemaError
			if !errors.As(err, &se) {
				t.Fatalf("err is %T, want *SchemaError", err)
			}
			if se.Row != 1 || se.Field != c.field {
				t.Fatalf("SchemaError at row %d field %q, want row 1 field %q", se.Row, se.Field, c.field)
			}
		})
	}
}

func TestLoadEmpty(t *testing.T) {
	tbl, err := Load(nil)
	if err != nil {
		t.Fatalf("Load(nil): %v", err)
	}
	if tbl.Len() != 0 || tbl.Schema() != TitlesSchema {
		t.Fatalf("unexpected table: len=%d", tbl.Len())
	}
}

func TestParseDate(t *testing.T) {
	for _, s := range []string{"September 25, 2021", " 2021-09-25 ", "Sep 25, 2021", "2021-09-25T10:00:00Z"} {
		got, ok := ParseDate(s)
		if !ok {
			t.Fatalf("ParseDate(%q) failed", s)
		}
		if got.Year() != 2021 || got.Month() != time.September || got.Day() != 25 {
			t.Fatalf("ParseDate(%q) = %v", s, got)
		}
	}
	if _, ok := ParseDate("25th of never"); ok {
		t.Fatalf("expected failure")
	}
}

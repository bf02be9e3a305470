package table

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Titles schema column names.
const (
	ColShowID      = "show_id"
	ColTitle       = "title"
	ColType        = "type"
	ColDirector    = "director"
	ColCast        = "cast"
	ColCountry     = "country"
	ColDateAdded   = "date_added"
	ColReleaseYear = "release_year"
	ColRating      = "rating"
	ColDuration    = "duration"
	ColListedIn    = "listed_in"
	ColDescription = "description"
)

// Values of the type column.
const (
	TypeMovie  = "Movie"
	TypeTVShow = "TV Show"
)

// TitlesSchema is the schema every loaded catalog conforms to.
var TitlesSchema = MustSchema(
	Column{Name: ColShowID, Kind: KindText, Nullable: true},
	Column{Name: ColTitle, Kind: KindText},
	Column{Name: ColType, Kind: KindText},
	Column{Name: ColDirector, Kind: KindText, Nullable: true},
	Column{Name: ColCast, Kind: KindList, Nullable: true},
	Column{Name: ColCountry, Kind: KindList, Nullable: true},
	Column{Name: ColDateAdded, Kind: KindDate, Nullable: true},
	Column{Name: ColReleaseYear, Kind: KindInt},
	Column{Name: ColRating, Kind: KindText, Nullable: true},
	Column{Name: ColDuration, Kind: KindDuration, Nullable: true},
	Column{Name: ColListedIn, Kind: KindList, Nullable: true},
	Column{Name: ColDescription, Kind: KindText, Nullable: true},
)

// RawRow is one source row keyed by column name. Values are strings or
// primitives as produced by a loader.
type RawRow map[string]any

var (
	errMissing      = errors.New("required value missing")
	errUnitMismatch = errors.New("duration unit does not match type")
)

// Load validates and coerces raw rows into a titles table. It fails on the
// first row that cannot be coerced; keys outside the schema are ignored.
func Load(rows []RawRow) (*Table, error) {
	s := TitlesSchema
	out := make([][]Value, 0, len(rows))
	typeIdx, _, _ := s.Lookup(ColType)
	for ri, raw := range rows {
		norm := make(map[string]any, len(raw))
		for k, v := range raw {
			norm[strings.ToLower(strings.TrimSpace(k))] = v
		}
		vals := make([]Value, s.Len())
		for ci, col := range s.cols {
			if col.Kind == KindDuration {
				continue // needs the type, coerced below
			}
			v, err := coerce(col, norm[col.Name])
			if err != nil {
				return nil, &SchemaError{Row: ri, Field: col.Name, Err: err}
			}
			vals[ci] = v
		}
		durIdx, durCol, _ := s.Lookup(ColDuration)
		d, err := coerceDuration(norm[durCol.Name], vals[typeIdx].Str())
		if err != nil {
			return nil, &SchemaError{Row: ri, Field: durCol.Name, Err: err}
		}
		vals[durIdx] = d
		out = append(out, vals)
	}
	return &Table{id: uuid.NewString(), schema: s, rows: out}, nil
}

func coerce(col Column, raw any) (Value, error) {
	if isBlank(raw) {
		if col.Nullable {
			return Null(), nil
		}
		return Null(), errMissing
	}
	if col.Name == ColType {
		return coerceType(raw)
	}
	switch col.Kind {
	case KindText:
		s, err := asString(raw)
		if err != nil {
			return Null(), err
		}
		return Text(strings.TrimSpace(s)), nil
	case KindInt:
		n, err := asInt(raw)
		if err != nil {
			return Null(), err
		}
		return Int(n), nil
	case KindDate:
		if t, ok := raw.(time.Time); ok {
			return Date(t), nil
		}
		s, err := asString(raw)
		if err != nil {
			return Null(), err
		}
		t, ok := ParseDate(s)
		if !ok {
			return Null(), fmt.Errorf("unrecognized date %q", s)
		}
		return Date(t), nil
	case KindList:
		var elems []string
		switch x := raw.(type) {
		case []string:
			elems = splitList(strings.Join(x, ","))
		default:
			s, err := asString(raw)
			if err != nil {
				return Null(), err
			}
			elems = splitList(s)
		}
		if col.Name == ColListedIn {
			elems = dedupe(elems)
		}
		if len(elems) == 0 && !col.Nullable {
			return Null(), errMissing
		}
		return List(elems), nil
	}
	return Null(), fmt.Errorf("unsupported column kind %s", col.Kind)
}

func coerceType(raw any) (Value, error) {
	s, err := asString(raw)
	if err != nil {
		return Null(), err
	}
	switch strings.TrimSpace(s) {
	case TypeMovie:
		return Text(TypeMovie), nil
	case TypeTVShow, "TVShow":
		return Text(TypeTVShow), nil
	}
	return Null(), fmt.Errorf("unknown type %q (want %q or %q)", s, TypeMovie, TypeTVShow)
}

var durationRE = regexp.MustCompile(`^(\d+)\s*([A-Za-z]*)$`)

// coerceDuration disambiguates the unit by title type: minutes for movies,
// seasons for TV shows.
func coerceDuration(raw any, typ string) (Value, error) {
	if isBlank(raw) {
		return Null(), nil
	}
	want := UnitMinutes
	if typ == TypeTVShow {
		want = UnitSeasons
	}
	if s, ok := raw.(string); ok {
		m := durationRE.FindStringSubmatch(strings.TrimSpace(s))
		if m == nil {
			return Null(), fmt.Errorf("unrecognized duration %q", s)
		}
		n, err := strconv.ParseInt(m[1], 10, 64)
		if err != nil {
			return Null(), fmt.Errorf("duration %q: %w", s, err)
		}
		if m[2] != "" {
			got, ok := parseUnit(m[2])
			if !ok {
				return Null(), fmt.Errorf("unknown duration unit %q", m[2])
			}
			if got != want {
				return Null(), fmt.Errorf("%w: %q for %s", errUnitMismatch, s, typ)
			}
		}
		return Duration(n, want), nil
	}
	n, err := asInt(raw)
	if err != nil {
		return Null(), err
	}
	return Duration(n, want), nil
}

func parseUnit(s string) (Unit, bool) {
	switch strings.ToLower(s) {
	case "min", "mins", "minute", "minutes":
		return UnitMinutes, true
	case "season", "seasons":
		return UnitSeasons, true
	}
	return UnitNone, false
}

func isBlank(raw any) bool {
	switch x := raw.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(x) == ""
	case []string:
		for _, e := range x {
			if strings.TrimSpace(e) != "" {
				return false
			}
		}
		return true
	}
	return false
}

func asString(raw any) (string, error) {
	switch x := raw.(type) {
	case string:
		return x, nil
	case fmt.Stringer:
		return x.String(), nil
	case int, int32, int64:
		return fmt.Sprint(x), nil
	}
	return "", fmt.Errorf("cannot use %T as text", raw)
}

func asInt(raw any) (int64, error) {
	switch x := raw.(type) {
	case int:
		return int64(x), nil
	case int32:
		return int64(x), nil
	case int64:
		return x, nil
	case uint32:
		return int64(x), nil
	case float64:
		if x != math.Trunc(x) || math.IsInf(x, 0) || math.IsNaN(x) {
			return 0, fmt.Errorf("non-integer value %v", x)
		}
		return int64(x), nil
	case string:
		n, err := strconv.ParseInt(strings.TrimSpace(x), 10, 64)
		if err != nil {
			return 0, fmt.Errorf("non-integer value %q", x)
		}
		return n, nil
	}
	return 0, fmt.Errorf("cannot use %T as integer", raw)
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func dedupe(elems []string) []string {
	out := make([]string, 0, len(elems))
	for _, e := range elems {
		if !slices.Contains(out, e) {
			out = append(out, e)
		}
	}
	return out
}

var dateLayouts = []string{
	"January 2, 2006", "Jan 2, 2006", "2-Jan-06",
	time.RFC3339, "2006-01-02", "2006/01/02", "01/02/2006",
	"2006-01-02 15:04", "2006-01-02 15:04:05",
}

// ParseDate accepts the catalog's "September 25, 2021" layout and common ISO variants.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, l := range dateLayouts {
		if t, err := time.Parse(l, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

package dataset

import (
	"archive/zip"
	"bufio"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/KaramelBytes/titlescope/internal/table"
)

const titlesCSV = `show_id,type,title,director,cast,country,date_added,release_year,rating,duration,listed_in,description
s1,Movie,Dick Johnson Is Dead,Kirsten Johnson,,United States,"September 25, 2021",2020,PG-13,90 min,Documentaries,"As her father nears the end of his life, filmmaker Kirsten Johnson stages his death."
s2,TV Show,Blood & Water,,"Ama Qamata, Khosi Ngema",South Africa,"September 24, 2021",2021,TV-MA,2 Seasons,"International TV Shows, TV Dramas","After crossing paths at a party, a Cape Town teen sets out to prove whether a private-school swimming star is her sister."
s3,Movie,Sankofa,Haile Gerima,Kofi Ghanaba,"United States, Ghana","September 24, 2021",1993,TV-MA,125 min,"Dramas, Independent Movies","On a photo shoot in Ghana, an American model slips back in time."
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return p
}

func TestLoadCSV(t *testing.T) {
	p := writeFile(t, "titles.csv", titlesCSV)
	got, err := Load(p, Options{}, nil)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.Table.Len() != 3 {
		t.Fatalf("rows = %d, want 3", got.Table.Len())
	}
	if len(got.Warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", got.Warnings)
	}
	r := got.Table.Row(2)
	if c := r.Get(table.ColCountry).List(); len(c) != 2 || c[1] != "Ghana" {
		t.Fatalf("country = %v", c)
	}
	if d := r.Get(table.ColDuration); d.Int() != 125 || d.Unit() != table.UnitMinutes {
		t.Fatalf("duration = %v", d)
	}
	if !got.Table.Row(1).Get(table.ColDirector).IsNull() {
		t.Fatalf("empty director should load as null")
	}
}

func TestLoadSemicolonCSVAndMaxRows(t *testing.T) {
	body := "title;type;release_year;duration\nA;Movie;2000;90 min\nB;TV Show;2001;1 Season\nC;Movie;2002;100 min\n"
	p := writeFile(t, "semi.csv", body)
	got, err := Load(p, Options{MaxRows: 2}, nil)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.Table.Len() != 2 || got.Rows != 3 {
		t.Fatalf("loaded %d of %d rows, want 2 of 3", got.Table.Len(), got.Rows)
	}
	if len(got.Warnings) != 1 || !strings.Contains(got.Warnings[0], "2/3") {
		t.Fatalf("warnings = %v", got.Warnings)
	}
}

func TestLoadTSV(t *testing.T) {
	p := writeFile(t, "titles.tsv", "title\ttype\trelease_year\nA, the sequel\tMovie\t2000\n")
	rows, err := Open(p, Options{})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if len(rows) != 1 || rows[0]["title"] != "A, the sequel" {
		t.Fatalf("rows = %v", rows)
	}
}

func TestLoadSchemaErrorPropagates(t *testing.T) {
	p := writeFile(t, "bad.csv", "title,type,release_year\nA,Podcast,2000\n")
	_, err := Load(p, Options{}, nil)
	if !errors.Is(err, table.ErrSchema) {
		t.Fatalf("err = %v, want ErrSchema", err)
	}
}

func TestOpenUnsupportedAndMissing(t *testing.T) {
	p := writeFile(t, "titles.json", "[]")
	if _, err := Open(p, Options{}); !errors.Is(err, ErrUnsupported) {
		t.Fatalf("err = %v, want ErrUnsupported", err)
	}
	if _, err := Open(filepath.Join(t.TempDir(), "nope.csv"), Options{}); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("err = %v, want not-exist", err)
	}
}

func TestEmptyCSV(t *testing.T) {
	p := writeFile(t, "empty.csv", "")
	got, err := Load(p, Options{}, nil)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.Table.Len() != 0 {
		t.Fatalf("rows = %d, want 0", got.Table.Len())
	}
}

// writeXLSX builds a minimal two-sheet workbook. The second sheet's
// relationship target carries a leading slash and stores date_added as day
// serials, once with a date style and once bare.
func writeXLSX(t *testing.T) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "titles.xlsx")
	f, err := os.Create(p)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	zw := zip.NewWriter(f)
	add := func(name, body string) {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("zip create %s: %v", name, err)
		}
		if _, err := w.Write([]byte(body)); err != nil {
			t.Fatalf("zip write %s: %v", name, err)
		}
	}
	add("xl/workbook.xml", `<?xml version="1.0"?>
<workbook xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships"><sheets>
<sheet name="Notes" sheetId="1" r:id="rId1"/>
<sheet name="Titles" sheetId="2" r:id="rId2"/>
</sheets></workbook>`)
	add("xl/_rels/workbook.xml.rels", `<?xml version="1.0"?>
<Relationships><Relationship Id="rId1" Target="worksheets/sheet1.xml"/><Relationship Id="rId2" Target="/xl/worksheets/sheet2.xml"/></Relationships>`)
	add("xl/sharedStrings.xml", `<?xml version="1.0"?>
<sst><si><t>title</t></si><si><t>type</t></si><si><t>release_year</t></si><si><t>duration</t></si><si><t>Movie</t></si><si><t>TV Show</t></si><si><t>date_added</t></si></sst>`)
	add("xl/styles.xml", `<?xml version="1.0"?>
<styleSheet><numFmts count="1"><numFmt numFmtId="164" formatCode="[$-409]mmmm d, yyyy;@"/></numFmts>
<cellStyleXfs count="1"><xf numFmtId="14"/></cellStyleXfs>
<cellXfs count="3"><xf numFmtId="0"/><xf numFmtId="14" applyNumberFormat="1"/><xf numFmtId="164" applyNumberFormat="1"/></cellXfs></styleSheet>`)
	add("xl/worksheets/sheet1.xml", `<?xml version="1.0"?>
<worksheet><sheetData><row r="1"><c r="A1" t="inlineStr"><is><t>scratch</t></is></c></row></sheetData></worksheet>`)
	add("xl/worksheets/sheet2.xml", `<?xml version="1.0"?>
<worksheet><sheetData>
<row r="1"><c r="A1" t="s"><v>0</v></c><c r="B1" t="s"><v>1</v></c><c r="C1" t="s"><v>2</v></c><c r="D1" t="s"><v>3</v></c><c r="E1" t="s"><v>6</v></c></row>
<row r="2"><c r="A2" t="inlineStr"><is><t>Sankofa</t></is></c><c r="B2" t="s"><v>4</v></c><c r="C2"><v>1993</v></c><c r="D2" t="inlineStr"><is><t>125 min</t></is></c><c r="E2" s="1"><v>44464</v></c></row>
<row r="3"><c r="A3" t="inlineStr"><is><t>Blood &amp; Water</t></is></c><c r="B3" t="s"><v>5</v></c><c r="C3"><v>2021</v></c><c r="E3"><v>44463.5</v></c></row>
</sheetData></worksheet>`)
	if err := zw.Close(); err != nil {
		t.Fatalf("zip close: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	return p
}

func TestLoadXLSXBySheetName(t *testing.T) {
	p := writeXLSX(t)
	for _, opt := range []Options{{SheetName: "titles"}, {SheetIndex: 2}} {
		got, err := Load(p, opt, nil)
		if err != nil {
			t.Fatalf("Load(%+v): %v", opt, err)
		}
		if got.Table.Len() != 2 {
			t.Fatalf("rows = %d, want 2", got.Table.Len())
		}
		r := got.Table.Row(1)
		if r.Get(table.ColTitle).Str() != "Blood & Water" || r.Get(table.ColType).Str() != table.TypeTVShow {
			t.Fatalf("row 1 = %v / %v", r.Get(table.ColTitle), r.Get(table.ColType))
		}
		if !r.Get(table.ColDuration).IsNull() {
			t.Fatalf("missing trailing cell should be null")
		}
		if y := got.Table.Row(0).Get(table.ColReleaseYear).Int(); y != 1993 {
			t.Fatalf("release_year = %d", y)
		}
		if d := got.Table.Row(0).Get(table.ColDateAdded).String(); d != "2021-09-25" {
			t.Fatalf("styled date serial = %q, want 2021-09-25", d)
		}
		if d := r.Get(table.ColDateAdded).String(); d != "2021-09-24" {
			t.Fatalf("bare date serial = %q, want 2021-09-24", d)
		}
	}
}

func TestParseDateStyles(t *testing.T) {
	styles := parseDateStyles([]byte(`<styleSheet>
<numFmts><numFmt numFmtId="164" formatCode="[$-409]mmmm d, yyyy;@"/><numFmt numFmtId="165" formatCode="&quot;Day &quot;0.00"/></numFmts>
<cellStyleXfs><xf numFmtId="14"/></cellStyleXfs>
<cellXfs><xf numFmtId="0"/><xf numFmtId="14"/><xf numFmtId="164"/><xf numFmtId="165"/><xf numFmtId="3"/></cellXfs>
</styleSheet>`))
	for idx, want := range map[int]bool{0: false, 1: true, 2: true, 3: false, 4: false} {
		if styles[idx] != want {
			t.Errorf("style %d date = %v, want %v", idx, styles[idx], want)
		}
	}
}

func TestSerialDate(t *testing.T) {
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"44464", "2021-09-25", true},
		{"44197.75", "2021-01-01", true},
		{"61", "1900-03-01", true},
		{"September 25, 2021", "", false},
		{"0", "", false},
	}
	for _, tt := range tests {
		got, ok := serialDate(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Errorf("serialDate(%q) = %q, %v; want %q, %v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestLoadXLSXUnknownSheet(t *testing.T) {
	p := writeXLSX(t)
	_, err := Open(p, Options{SheetName: "Missing"})
	if !errors.Is(err, errSheetNotFound) {
		t.Fatalf("err = %v, want errSheetNotFound", err)
	}
	if !strings.Contains(err.Error(), "Notes, Titles") {
		t.Fatalf("error should list available sheets: %v", err)
	}
}

func TestNormalizeRelPath(t *testing.T) {
	tests := []struct{ in, want string }{
		{"/xl/worksheets/sheet1.xml", "xl/worksheets/sheet1.xml"},
		{"xl/worksheets/sheet1.xml", "xl/worksheets/sheet1.xml"},
		{"/worksheets/sheet1.xml", "xl/worksheets/sheet1.xml"},
		{"worksheets/sheet1.xml", "xl/worksheets/sheet1.xml"},
	}
	for _, tt := range tests {
		if got := normalizeRelPath(tt.in); got != tt.want {
			t.Errorf("normalizeRelPath(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestParquetRoundTrip(t *testing.T) {
	src, err := Load(writeFile(t, "titles.csv", titlesCSV), Options{}, nil)
	if err != nil {
		t.Fatalf("Load csv: %v", err)
	}
	p := filepath.Join(t.TempDir(), "titles.parquet")
	f, err := os.Create(p)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := WriteParquet(f, src.Table); err != nil {
		t.Fatalf("WriteParquet: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	got, err := Load(p, Options{}, nil)
	if err != nil {
		t.Fatalf("Load parquet: %v", err)
	}
	if !got.Table.Equal(src.Table) {
		t.Fatalf("round trip mismatch:\n got %v\nwant %v", got.Table.Strings(), src.Table.Strings())
	}
}

func TestSniffDelimiterFromHeader(t *testing.T) {
	cases := map[string]string{
		"a,b,c\n":   ",",
		"a;b;c\n":   ";",
		"a\tb\tc\n": "\t",
		"single\n":  ",",
	}
	for header, want := range cases {
		p := writeFile(t, "x.csv", header+"1,2,3\n")
		f, err := os.Open(p)
		if err != nil {
			t.Fatal(err)
		}
		got := sniffDelimiter(p, bufio.NewReader(f))
		f.Close()
		if string(got) != want {
			t.Errorf("sniffDelimiter(%q) = %q, want %q", header, string(got), want)
		}
	}
}

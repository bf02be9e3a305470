package render

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/KaramelBytes/titlescope/internal/table"
)

func sample(t *testing.T) Result {
	t.Helper()
	s := table.MustSchema(
		table.Column{Name: "Country", Kind: table.KindText},
		table.Column{Name: "TotalContent", Kind: table.KindInt},
	)
	tbl, err := table.New(s, [][]table.Value{
		{table.Text("United States"), table.Int(3)},
		{table.Text("A|B"), table.Int(1)},
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return Result{Name: "top_countries", Description: "Ten countries", Table: tbl, Notes: []string{"processed only 2/3 rows"}}
}

func write(t *testing.T, format string, rs ...Result) string {
	t.Helper()
	f, err := New(format)
	if err != nil {
		t.Fatalf("New(%q): %v", format, err)
	}
	var buf bytes.Buffer
	if err := f.Write(&buf, rs); err != nil {
		t.Fatalf("Write: %v", err)
	}
	return buf.String()
}

func TestCSV(t *testing.T) {
	got := write(t, FormatCSV, sample(t))
	want := "Country,TotalContent\nUnited States,3\nA|B,1\n"
	if got != want {
		t.Fatalf("csv = %q, want %q", got, want)
	}
	multi := write(t, FormatCSV, sample(t), sample(t))
	if strings.Count(multi, "# top_countries\n") != 2 {
		t.Fatalf("expected a name line per result:\n%s", multi)
	}
}

func TestJSONKeepsNativeTypes(t *testing.T) {
	out := write(t, FormatJSON, sample(t))
	var got struct {
		Query   string           `json:"query"`
		Columns []string         `json:"columns"`
		Rows    []map[string]any `json:"rows"`
	}
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("unmarshal: %v\n%s", err, out)
	}
	if got.Query != "top_countries" || len(got.Rows) != 2 {
		t.Fatalf("got %+v", got)
	}
	if n, ok := got.Rows[0]["TotalContent"].(float64); !ok || n != 3 {
		t.Fatalf("TotalContent = %#v, want number 3", got.Rows[0]["TotalContent"])
	}

	var many []map[string]any
	if err := json.Unmarshal([]byte(write(t, FormatJSON, sample(t), sample(t))), &many); err != nil || len(many) != 2 {
		t.Fatalf("expected an array of two results: %v", err)
	}
}

func TestMarkdown(t *testing.T) {
	md := write(t, "md", sample(t))
	for _, want := range []string{
		"[QUERY]\nName: top_countries\n",
		"Rows: 2\n",
		"| Country | TotalContent |\n| --- | --- |\n",
		"| A/B | 1 |\n",
		"[NOTES]\n- processed only 2/3 rows\n",
	} {
		if !strings.Contains(md, want) {
			t.Fatalf("markdown missing %q:\n%s", want, md)
		}
	}
}

func TestMarkdownCutsLongCellsByRune(t *testing.T) {
	s := table.MustSchema(table.Column{Name: "Description", Kind: table.KindText})
	desc := strings.Repeat("a", 76) + "—Pedro Almodóvar"
	tbl, err := table.New(s, [][]table.Value{{table.Text(desc)}})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	md := write(t, "markdown", Result{Name: "q", Table: tbl})
	if !utf8.ValidString(md) {
		t.Fatalf("markdown is not valid UTF-8")
	}
	if !strings.Contains(md, "| "+strings.Repeat("a", 76)+"—... |\n") {
		t.Fatalf("cell not cut to 80 runes:\n%s", md)
	}
}

func TestTable(t *testing.T) {
	out := write(t, FormatTable, sample(t))
	for _, want := range []string{"top_countries: Ten countries", "United States", "TotalContent", "(2 rows)", "processed only"} {
		if !strings.Contains(out, want) {
			t.Fatalf("table output missing %q:\n%s", want, out)
		}
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := New("xml"); err == nil {
		t.Fatalf("expected error")
	}
	if !Valid("Markdown") || Valid("yaml") {
		t.Fatalf("Valid misreports formats")
	}
}

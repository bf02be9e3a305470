package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaultsWithoutFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	c, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.OutputFormat != "table" || c.MaxRows != 0 || c.DelimiterRune() != 0 {
		t.Fatalf("unexpected defaults: %+v", c)
	}
}

func TestSaveThenLoadRoundTrip(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "config.yaml")
	in := &Global{DatasetPath: "titles.csv", Delimiter: ";", OutputFormat: "json", Parallelism: 3, MaxRows: 100, XLSXSheetName: "Titles"}
	if err := Save(in, path); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if *got != *in {
		t.Fatalf("Load = %+v, want %+v", got, in)
	}
	if got.DelimiterRune() != ';' {
		t.Fatalf("DelimiterRune = %q", got.DelimiterRune())
	}
}

func TestSaveDefaultPath(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	if err := Save(&Global{OutputFormat: "csv"}, ""); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if _, err := os.Stat(filepath.Join(home, ".titlescope", "config.yaml")); err != nil {
		t.Fatalf("config not written: %v", err)
	}
	c, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.OutputFormat != "csv" {
		t.Fatalf("output_format = %q, want csv", c.OutputFormat)
	}
}

func TestEnvOverridesFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("max_rows: 5\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("TITLESCOPE_MAX_ROWS", "7")
	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.MaxRows != 7 {
		t.Fatalf("max_rows = %d, want 7 from env", c.MaxRows)
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	for name, body := range map[string]string{
		"negative max_rows": "max_rows: -1\n",
		"long delimiter":    "delimiter: ';;'\n",
		"malformed":         "max_rows: [\n",
	} {
		path := filepath.Join(t.TempDir(), "config.yaml")
		if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
			t.Fatal(err)
		}
		if _, err := Load(path); err == nil {
			t.Fatalf("%s: expected error", name)
		}
	}
}

func TestDelimiterTab(t *testing.T) {
	for _, d := range []string{`\t`, "tab", "\t"} {
		c := &Global{Delimiter: d}
		if c.DelimiterRune() != '\t' {
			t.Fatalf("DelimiterRune(%q) = %q", d, c.DelimiterRune())
		}
	}
}

package utils_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/KaramelBytes/titlescope/internal/utils"
)

func TestSafeWriteFileReplacesAtomically(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.md")
	if err := os.WriteFile(path, []byte("old"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := utils.SafeWriteFile(path, []byte("new")); err != nil {
		t.Fatalf("SafeWriteFile: %v", err)
	}
	b, err := os.ReadFile(path)
	if err != nil || string(b) != "new" {
		t.Fatalf("content = %q, %v; want new", b, err)
	}
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Fatalf("temp file left behind: %v", err)
	}
}

func TestSafeWriteFileMissingDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nope", "report.md")
	if err := utils.SafeWriteFile(path, []byte("x")); err == nil {
		t.Fatalf("expected error for missing directory")
	}
}

func TestPrettyJSON(t *testing.T) {
	b, err := utils.PrettyJSON(map[string]int{"TotalContent": 3})
	if err != nil {
		t.Fatalf("PrettyJSON: %v", err)
	}
	if got := string(b); got != "{\n  \"TotalContent\": 3\n}" {
		t.Fatalf("PrettyJSON = %q", got)
	}
	if _, err := utils.PrettyJSON(func() {}); err == nil || !strings.Contains(err.Error(), "marshal json") {
		t.Fatalf("expected wrapped marshal error, got %v", err)
	}
}

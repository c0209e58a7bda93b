package pdf

import (
	"os"
	"path/filepath"
	"testing"
)

func TestTitleFromFilename(t *testing.T) {
	cases := map[string]string{
		"annual_report-2024.pdf": "Annual Report 2024",
		"notes.pdf":              "Notes",
		"my.file.name.pdf":       "My File Name",
		"/uploads/deep/path.pdf": "Path",
		"___.pdf":                "Untitled Document",
		".pdf":                   "Untitled Document",
	}
	for in, want := range cases {
		if got := TitleFromFilename(in); got != want {
			t.Errorf("TitleFromFilename(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestCountPagesLexically(t *testing.T) {
	raw := []byte(`%PDF-1.4
1 0 obj << /Type /Catalog /Pages 2 0 R >> endobj
2 0 obj << /Type /Pages /Kids [3 0 R 4 0 R] /Count 2 >> endobj
3 0 obj << /Type /Page /Parent 2 0 R >> endobj
4 0 obj << /Type/Page /Parent 2 0 R >> endobj
%%EOF`)
	path := filepath.Join(t.TempDir(), "two-pages.pdf")
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	n, err := countPagesLexically(path)
	if err != nil {
		t.Fatalf("countPagesLexically: %v", err)
	}
	if n != 2 {
		t.Fatalf("pages = %d, want 2", n)
	}
}

func TestCountPagesLexically_NoMarkers(t *testing.T) {
	path := filepath.Join(t.TempDir(), "opaque.pdf")
	if err := os.WriteFile(path, []byte("not really a pdf"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	n, err := countPagesLexically(path)
	if err != nil {
		t.Fatalf("countPagesLexically: %v", err)
	}
	if n != 0 {
		t.Fatalf("pages = %d, want 0", n)
	}
}

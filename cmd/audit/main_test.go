package main

import (
	"bufio"
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeExport(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		path := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}
}

func article(collection, slug, url string) string {
	return "---\n" +
		"collection: " + collection + "\n" +
		"categories: [general]\n" +
		"keywords: \"\"\n" +
		"name: Some article\n" +
		"helpscout_url: " + url + "\n" +
		"slug: " + slug + "\n" +
		"---\n" +
		"Body"
}

func TestLoadExport(t *testing.T) {
	dir := t.TempDir()
	writeExport(t, dir, map[string]string{
		"faq/hi.md":        article("faq", "hi", "http://x/1"),
		"collections.json": "{}",
		"faq/notes.txt":    "ignored",
	})

	files, err := loadExport(dir)
	if err != nil {
		t.Fatalf("loadExport() error = %v", err)
	}
	if len(files) != 1 {
		t.Fatalf("got %d files, want 1", len(files))
	}

	meta := files[0].Meta
	if meta.Collection != "faq" || meta.Slug != "hi" || meta.HelpScoutURL != "http://x/1" {
		t.Errorf("parsed %+v", meta)
	}
	if len(meta.Categories) != 1 || meta.Categories[0] != "general" {
		t.Errorf("Categories = %v, want [general]", meta.Categories)
	}
}

func TestCheckFiles(t *testing.T) {
	dir := t.TempDir()
	writeExport(t, dir, map[string]string{
		"faq/hi.md":      article("faq", "hi", "http://x/1"),
		"faq/moved.md":   article("guides", "moved", "http://x/2"),
		"faq/renamed.md": article("faq", "original", "http://x/3"),
		"faq/no-url.md":  article("faq", "no-url", "\"\""),
	})

	files, err := loadExport(dir)
	if err != nil {
		t.Fatalf("loadExport() error = %v", err)
	}

	problems := checkFiles(dir, files)
	if len(problems) != 3 {
		t.Fatalf("got %d problems, want 3: %v", len(problems), problems)
	}

	joined := strings.Join(problems, "\n")
	for _, want := range []string{
		"moved.md: front-matter points to " + filepath.Join("guides", "moved.md"),
		"renamed.md: front-matter points to " + filepath.Join("faq", "original.md"),
		"no-url.md: missing helpscout_url",
	} {
		if !strings.Contains(joined, want) {
			t.Errorf("problems missing %q:\n%s", want, joined)
		}
	}
}

func TestReportDuplicates(t *testing.T) {
	dir := t.TempDir()
	writeExport(t, dir, map[string]string{
		"faq/a.md":    article("faq", "a", "http://x/1"),
		"guides/a.md": article("guides", "a", "http://x/1"),
		"faq/b.md":    article("faq", "b", "http://x/2"),
	})

	files, err := loadExport(dir)
	if err != nil {
		t.Fatalf("loadExport() error = %v", err)
	}

	var out bytes.Buffer
	removed := reportDuplicates(&out, nil, files)
	if removed != 0 {
		t.Errorf("removed %d files without confirmation", removed)
	}
	if !strings.Contains(out.String(), "Found 2 copies of http://x/1") {
		t.Errorf("unexpected report:\n%s", out.String())
	}

	reader := bufio.NewReader(strings.NewReader("y\n"))
	removed = reportDuplicates(&out, reader, files)
	if removed != 1 {
		t.Errorf("removed %d files, want 1", removed)
	}
	if _, err := os.Stat(filepath.Join(dir, "guides", "a.md")); !os.IsNotExist(err) {
		t.Error("second copy should have been deleted")
	}
	if _, err := os.Stat(filepath.Join(dir, "faq", "a.md")); err != nil {
		t.Error("first copy should be kept")
	}
}

func TestConfirmDelete(t *testing.T) {
	tests := []struct {
		input    string
		expected bool
	}{
		{"y\n", true},
		{"yes\n", true},
		{"n\n", false},
		{"\n", false},
		{"maybe\ny\n", true},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(strings.TrimSpace(tt.input), func(t *testing.T) {
			var out bytes.Buffer
			reader := bufio.NewReader(strings.NewReader(tt.input))
			if got := confirmDelete(&out, reader, "file.md"); got != tt.expected {
				t.Errorf("confirmDelete(%q) = %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}

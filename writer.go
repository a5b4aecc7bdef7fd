package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

const (
	collectionsFile = "collections.json"
	categoriesFile  = "categories.json"
)

// EnsureDir creates a directory. An existing directory at path is not an
// error; any other failure, including a file in the way, is.
func EnsureDir(path string) error {
	err := os.Mkdir(path, 0755)
	if err == nil {
		return nil
	}
	if !errors.Is(err, fs.ErrExist) {
		return fmt.Errorf("creating directory %s: %w", path, err)
	}

	info, statErr := os.Stat(path)
	if statErr != nil {
		return fmt.Errorf("creating directory %s: %w", path, statErr)
	}
	if !info.IsDir() {
		return fmt.Errorf("creating directory %s: %w", path, err)
	}
	return nil
}

// Writer lays out exported files under a root directory
type Writer struct {
	root string
}

// NewWriter creates a writer rooted at dir
func NewWriter(dir string) *Writer {
	return &Writer{root: dir}
}

// Root returns the output directory
func (w *Writer) Root() string {
	return w.root
}

// ArticlePath returns <root>/<collection slug>/<article slug>.md
func (w *Writer) ArticlePath(article *EnrichedArticle) string {
	return filepath.Join(w.root, article.Collection.Slug, article.Article.Slug+".md")
}

// WriteArticle renders the article and writes it, replacing any existing file
func (w *Writer) WriteArticle(article *EnrichedArticle) (string, error) {
	dir := filepath.Join(w.root, article.Collection.Slug)
	if err := EnsureDir(dir); err != nil {
		return "", err
	}

	content, err := RenderArticle(article)
	if err != nil {
		return "", fmt.Errorf("rendering article %s: %w", article.Article.ID, err)
	}

	filename := w.ArticlePath(article)
	if err := os.WriteFile(filename, []byte(content), 0644); err != nil {
		return "", fmt.Errorf("writing %s: %w", filename, err)
	}
	return filename, nil
}

// WriteMetadata dumps the collection and category tables as JSON
func (w *Writer) WriteMetadata(collections map[string]Collection, categories map[string]Category) error {
	if err := writeJSON(filepath.Join(w.root, collectionsFile), collections); err != nil {
		return err
	}
	return writeJSON(filepath.Join(w.root, categoriesFile), categories)
}

// writeJSON writes v with four-space indentation. Non-ASCII and HTML
// characters are written as-is.
func writeJSON(filename string, v any) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encoding %s: %w", filename, err)
	}

	if err := os.WriteFile(filename, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("writing %s: %w", filename, err)
	}
	return nil
}

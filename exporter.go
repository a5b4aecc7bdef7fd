package main

import (
	"context"
	"fmt"
	"log"
	"sync"

	"golang.org/x/sync/errgroup"
)

// API is the read surface of the knowledge-base service used by an export
type API interface {
	Source
	ListArticleSummaries(ctx context.Context, collectionID, status string) ([]ArticleSummary, error)
	GetArticle(ctx context.Context, articleID string) (*Article, error)
}

// Exporter runs a full export: every article, then the metadata tables
type Exporter struct {
	api         API
	catalog     *Catalog
	writer      *Writer
	status      string
	concurrency int

	mu    sync.Mutex
	files []string
}

// NewExporter creates an exporter that writes below settings.OutputDirectory
func NewExporter(api API, settings *Settings) *Exporter {
	concurrency := settings.Concurrency
	if concurrency < 1 {
		concurrency = 1
	}

	return &Exporter{
		api:         api,
		catalog:     NewCatalog(api),
		writer:      NewWriter(settings.OutputDirectory),
		status:      settings.Status,
		concurrency: concurrency,
	}
}

// Run exports all articles and then the metadata tables
func (e *Exporter) Run(ctx context.Context) (*ExportResult, error) {
	if err := e.Export(ctx); err != nil {
		return nil, err
	}
	if err := e.ExportMetadata(ctx); err != nil {
		return nil, err
	}

	collections, _ := e.catalog.EnsureCollections(ctx)
	categories, _ := e.catalog.EnsureCategories(ctx)

	e.mu.Lock()
	defer e.mu.Unlock()
	return &ExportResult{
		Collections: len(collections),
		Categories:  len(categories),
		Articles:    len(e.files),
		Files:       append([]string(nil), e.files...),
	}, nil
}

// Export writes one file per article. With a concurrency of 1 each article
// is fully written before the next is fetched.
func (e *Exporter) Export(ctx context.Context) error {
	if err := EnsureDir(e.writer.Root()); err != nil {
		return err
	}

	collectionIDs, err := e.catalog.CollectionIDs(ctx)
	if err != nil {
		return fmt.Errorf("loading collections: %w", err)
	}
	// Load categories before any article so enrichment only reads the tables
	if _, err := e.catalog.EnsureCategories(ctx); err != nil {
		return fmt.Errorf("loading categories: %w", err)
	}

	for i, collectionID := range collectionIDs {
		summaries, err := e.api.ListArticleSummaries(ctx, collectionID, e.status)
		if err != nil {
			return err
		}
		log.Printf("[%d/%d] Collection %s: %d articles", i+1, len(collectionIDs), collectionID, len(summaries))

		if err := e.exportArticles(ctx, summaries); err != nil {
			return err
		}
	}

	return nil
}

func (e *Exporter) exportArticles(ctx context.Context, summaries []ArticleSummary) error {
	if e.concurrency == 1 {
		for _, summary := range summaries {
			if err := e.exportArticle(ctx, summary.ID); err != nil {
				return err
			}
		}
		return nil
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(e.concurrency)
	for _, summary := range summaries {
		summary := summary
		g.Go(func() error {
			return e.exportArticle(ctx, summary.ID)
		})
	}
	return g.Wait()
}

func (e *Exporter) exportArticle(ctx context.Context, articleID string) error {
	article, err := e.api.GetArticle(ctx, articleID)
	if err != nil {
		return err
	}

	enriched, err := e.catalog.Enrich(ctx, *article)
	if err != nil {
		return err
	}

	filename, err := e.writer.WriteArticle(enriched)
	if err != nil {
		return err
	}
	log.Printf("  ✓ %s", filename)

	e.mu.Lock()
	e.files = append(e.files, filename)
	e.mu.Unlock()
	return nil
}

// ExportMetadata writes collections.json and categories.json
func (e *Exporter) ExportMetadata(ctx context.Context) error {
	collections, err := e.catalog.EnsureCollections(ctx)
	if err != nil {
		return fmt.Errorf("loading collections: %w", err)
	}
	categories, err := e.catalog.EnsureCategories(ctx)
	if err != nil {
		return fmt.Errorf("loading categories: %w", err)
	}

	log.Printf("→ Writing metadata (%d collections, %d categories)", len(collections), len(categories))
	return e.writer.WriteMetadata(collections, categories)
}

package main

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

var (
	ErrUnknownCollection = errors.New("unknown collection")
	ErrUnknownCategory   = errors.New("unknown category")
)

// Source is the subset of the API the catalog needs
type Source interface {
	ListCollections(ctx context.Context) ([]Collection, error)
	ListCategories(ctx context.Context, collectionID string) ([]Category, error)
}

// Catalog holds the collection and category lookup tables for one run.
// Each table is loaded at most once and is read-only afterwards.
type Catalog struct {
	source Source

	mu            sync.Mutex
	collections   map[string]Collection
	collectionIDs []string
	categories    map[string]Category
}

// NewCatalog creates an empty catalog backed by source
func NewCatalog(source Source) *Catalog {
	return &Catalog{source: source}
}

// EnsureCollections loads the collections table if needed and returns it
func (c *Catalog) EnsureCollections(ctx context.Context) (map[string]Collection, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loadCollections(ctx)
}

// CollectionIDs returns collection ids in the order the API listed them
func (c *Catalog) CollectionIDs(ctx context.Context) ([]string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, err := c.loadCollections(ctx); err != nil {
		return nil, err
	}
	return append([]string(nil), c.collectionIDs...), nil
}

// EnsureCategories loads the categories of every known collection into one
// id-keyed table. A category id seen in two collections keeps the later one.
func (c *Catalog) EnsureCategories(ctx context.Context) (map[string]Category, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.categories != nil {
		return c.categories, nil
	}
	if _, err := c.loadCollections(ctx); err != nil {
		return nil, err
	}

	categories := make(map[string]Category)
	for _, collectionID := range c.collectionIDs {
		items, err := c.source.ListCategories(ctx, collectionID)
		if err != nil {
			return nil, err
		}
		for _, category := range items {
			if prev, ok := categories[category.ID]; ok {
				debugLog("category %s: collection %s overwrites collection %s", category.ID, collectionID, prev.CollectionID)
			}
			categories[category.ID] = category
		}
	}

	c.categories = categories
	return c.categories, nil
}

func (c *Catalog) loadCollections(ctx context.Context) (map[string]Collection, error) {
	if c.collections != nil {
		return c.collections, nil
	}

	items, err := c.source.ListCollections(ctx)
	if err != nil {
		return nil, err
	}

	collections := make(map[string]Collection, len(items))
	ids := make([]string, 0, len(items))
	for _, collection := range items {
		if _, seen := collections[collection.ID]; !seen {
			ids = append(ids, collection.ID)
		}
		collections[collection.ID] = collection
	}

	c.collections = collections
	c.collectionIDs = ids
	return c.collections, nil
}

// Enrich resolves the article's collection and category ids. The input
// article is not modified.
func (c *Catalog) Enrich(ctx context.Context, article Article) (*EnrichedArticle, error) {
	collections, err := c.EnsureCollections(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading collections: %w", err)
	}
	categories, err := c.EnsureCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading categories: %w", err)
	}

	collection, ok := collections[article.CollectionID]
	if !ok {
		return nil, fmt.Errorf("article %s: %w %q", article.ID, ErrUnknownCollection, article.CollectionID)
	}

	slugs := make([]string, 0, len(article.Categories))
	for _, id := range article.Categories {
		category, ok := categories[id]
		if !ok {
			return nil, fmt.Errorf("article %s: %w %q", article.ID, ErrUnknownCategory, id)
		}
		slugs = append(slugs, category.Slug)
	}

	article.Categories = append([]string(nil), article.Categories...)
	return &EnrichedArticle{
		Article:       article,
		Collection:    collection,
		CategorySlugs: slugs,
	}, nil
}

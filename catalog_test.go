package main

import (
	"context"
	"errors"
	"reflect"
	"testing"
)

// stubSource serves fixed collections and categories and counts calls
type stubSource struct {
	collections     []Collection
	categories      map[string][]Category
	collectionCalls int
	categoryCalls   int
	err             error
}

func (s *stubSource) ListCollections(ctx context.Context) ([]Collection, error) {
	s.collectionCalls++
	if s.err != nil {
		return nil, s.err
	}
	return s.collections, nil
}

func (s *stubSource) ListCategories(ctx context.Context, collectionID string) ([]Category, error) {
	s.categoryCalls++
	if s.err != nil {
		return nil, s.err
	}
	return s.categories[collectionID], nil
}

func newStubSource() *stubSource {
	return &stubSource{
		collections: []Collection{
			{ID: "1", Slug: "faq", Name: "FAQ"},
			{ID: "2", Slug: "guides", Name: "Guides"},
		},
		categories: map[string][]Category{
			"1": {
				{ID: "10", Slug: "general", CollectionID: "1"},
				{ID: "11", Slug: "billing", CollectionID: "1"},
			},
			"2": {
				{ID: "20", Slug: "setup", CollectionID: "2"},
			},
			"99": {
				{ID: "990", Slug: "orphan", CollectionID: "99"},
			},
		},
	}
}

func TestEnsureCollectionsLoadsOnce(t *testing.T) {
	source := newStubSource()
	catalog := NewCatalog(source)

	for i := 0; i < 3; i++ {
		collections, err := catalog.EnsureCollections(context.Background())
		if err != nil {
			t.Fatalf("EnsureCollections() error = %v", err)
		}
		if len(collections) != 2 {
			t.Fatalf("got %d collections, want 2", len(collections))
		}
	}

	if source.collectionCalls != 1 {
		t.Errorf("ListCollections called %d times, want 1", source.collectionCalls)
	}
}

func TestCollectionIDsKeepsAPIOrder(t *testing.T) {
	catalog := NewCatalog(newStubSource())

	ids, err := catalog.CollectionIDs(context.Background())
	if err != nil {
		t.Fatalf("CollectionIDs() error = %v", err)
	}
	if want := []string{"1", "2"}; !reflect.DeepEqual(ids, want) {
		t.Errorf("CollectionIDs() = %v, want %v", ids, want)
	}
}

func TestEnsureCategoriesCoversKnownCollectionsOnly(t *testing.T) {
	source := newStubSource()
	catalog := NewCatalog(source)

	categories, err := catalog.EnsureCategories(context.Background())
	if err != nil {
		t.Fatalf("EnsureCategories() error = %v", err)
	}

	want := map[string]string{"10": "1", "11": "1", "20": "2"}
	if len(categories) != len(want) {
		t.Fatalf("got %d categories, want %d", len(categories), len(want))
	}
	for id, collectionID := range want {
		category, ok := categories[id]
		if !ok {
			t.Errorf("category %s missing", id)
			continue
		}
		if category.CollectionID != collectionID {
			t.Errorf("category %s: collection %s, want %s", id, category.CollectionID, collectionID)
		}
	}

	if _, err := catalog.EnsureCategories(context.Background()); err != nil {
		t.Fatalf("EnsureCategories() second call error = %v", err)
	}
	if source.categoryCalls != 2 {
		t.Errorf("ListCategories called %d times, want 2", source.categoryCalls)
	}
}

func TestEnsureCategoriesLaterCollectionWins(t *testing.T) {
	source := newStubSource()
	source.categories["2"] = append(source.categories["2"], Category{ID: "10", Slug: "general-guides", CollectionID: "2"})
	catalog := NewCatalog(source)

	categories, err := catalog.EnsureCategories(context.Background())
	if err != nil {
		t.Fatalf("EnsureCategories() error = %v", err)
	}
	if got := categories["10"].Slug; got != "general-guides" {
		t.Errorf("category 10 slug = %q, want %q", got, "general-guides")
	}
}

func TestEnrich(t *testing.T) {
	catalog := NewCatalog(newStubSource())
	article := Article{ID: "100", CollectionID: "1", Categories: []string{"11", "10"}, Slug: "hi"}

	enriched, err := catalog.Enrich(context.Background(), article)
	if err != nil {
		t.Fatalf("Enrich() error = %v", err)
	}

	if enriched.Collection.Slug != "faq" {
		t.Errorf("Collection.Slug = %q, want %q", enriched.Collection.Slug, "faq")
	}
	if want := []string{"billing", "general"}; !reflect.DeepEqual(enriched.CategorySlugs, want) {
		t.Errorf("CategorySlugs = %v, want %v", enriched.CategorySlugs, want)
	}
	if want := []string{"11", "10"}; !reflect.DeepEqual(article.Categories, want) {
		t.Errorf("input article was modified: %v", article.Categories)
	}
}

func TestEnrichIsIdempotent(t *testing.T) {
	catalog := NewCatalog(newStubSource())
	article := Article{ID: "100", CollectionID: "2", Categories: []string{"20"}}

	first, err := catalog.Enrich(context.Background(), article)
	if err != nil {
		t.Fatalf("Enrich() error = %v", err)
	}
	second, err := catalog.Enrich(context.Background(), first.Article)
	if err != nil {
		t.Fatalf("Enrich() second call error = %v", err)
	}

	if first.Collection.ID != second.Collection.ID {
		t.Errorf("collection changed: %q -> %q", first.Collection.ID, second.Collection.ID)
	}
	if !reflect.DeepEqual(first.CategorySlugs, second.CategorySlugs) {
		t.Errorf("category slugs changed: %v -> %v", first.CategorySlugs, second.CategorySlugs)
	}
}

func TestEnrichUnknownIDs(t *testing.T) {
	tests := []struct {
		name    string
		article Article
		wantErr error
	}{
		{"unknown collection", Article{ID: "1", CollectionID: "404"}, ErrUnknownCollection},
		{"unknown category", Article{ID: "1", CollectionID: "1", Categories: []string{"10", "404"}}, ErrUnknownCategory},
		{"category of unlisted collection", Article{ID: "1", CollectionID: "1", Categories: []string{"990"}}, ErrUnknownCategory},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			catalog := NewCatalog(newStubSource())
			enriched, err := catalog.Enrich(context.Background(), tt.article)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Enrich() error = %v, want %v", err, tt.wantErr)
			}
			if enriched != nil {
				t.Error("Enrich() should return nil on error")
			}
		})
	}
}

func TestEnrichPropagatesSourceError(t *testing.T) {
	source := newStubSource()
	source.err = errors.New("connection refused")
	catalog := NewCatalog(source)

	_, err := catalog.Enrich(context.Background(), Article{ID: "1", CollectionID: "1"})
	if !errors.Is(err, source.err) {
		t.Errorf("Enrich() error = %v, want %v", err, source.err)
	}
}

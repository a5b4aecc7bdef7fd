package main

import "encoding/json"

// Collection is a top-level grouping of articles. The raw provider record is
// kept so metadata dumps reproduce it verbatim.
type Collection struct {
	ID   string
	Slug string
	Name string
	raw  json.RawMessage
}

func (c *Collection) UnmarshalJSON(data []byte) error {
	var fields struct {
		ID   string `json:"id"`
		Slug string `json:"slug"`
		Name string `json:"name"`
	}
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	c.ID, c.Slug, c.Name = fields.ID, fields.Slug, fields.Name
	c.raw = append(json.RawMessage(nil), data...)
	return nil
}

func (c Collection) MarshalJSON() ([]byte, error) {
	if c.raw != nil {
		return c.raw, nil
	}
	return json.Marshal(map[string]string{"id": c.ID, "slug": c.Slug, "name": c.Name})
}

// Category groups articles within a collection
type Category struct {
	ID           string
	Slug         string
	Name         string
	CollectionID string
	raw          json.RawMessage
}

func (c *Category) UnmarshalJSON(data []byte) error {
	var fields struct {
		ID           string `json:"id"`
		Slug         string `json:"slug"`
		Name         string `json:"name"`
		CollectionID string `json:"collectionId"`
	}
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	c.ID, c.Slug, c.Name, c.CollectionID = fields.ID, fields.Slug, fields.Name, fields.CollectionID
	c.raw = append(json.RawMessage(nil), data...)
	return nil
}

func (c Category) MarshalJSON() ([]byte, error) {
	if c.raw != nil {
		return c.raw, nil
	}
	return json.Marshal(map[string]string{
		"id":           c.ID,
		"slug":         c.Slug,
		"name":         c.Name,
		"collectionId": c.CollectionID,
	})
}

// ArticleSummary is the reduced article record returned by the list endpoint
type ArticleSummary struct {
	ID     string `json:"id"`
	Number int    `json:"number"`
	Slug   string `json:"slug"`
	Name   string `json:"name"`
	Status string `json:"status"`
}

// Article is the full article record as returned by the provider.
// Keywords is left untyped: the API has returned both a string and a list.
type Article struct {
	ID           string   `json:"id"`
	CollectionID string   `json:"collectionId"`
	Categories   []string `json:"categories"`
	Text         string   `json:"text"`
	Name         string   `json:"name"`
	Slug         string   `json:"slug"`
	Keywords     any      `json:"keywords"`
	PublicURL    string   `json:"publicUrl"`
	Status       string   `json:"status"`
}

// EnrichedArticle is an Article with its collection and category ids resolved
type EnrichedArticle struct {
	Article       Article
	Collection    Collection
	CategorySlugs []string
}

// FrontMatter is the metadata header written above every exported article
type FrontMatter struct {
	Collection   string   `yaml:"collection"`
	Categories   []string `yaml:"categories,flow"`
	Keywords     any      `yaml:"keywords"`
	Name         string   `yaml:"name"`
	HelpScoutURL string   `yaml:"helpscout_url"`
	Slug         string   `yaml:"slug"`
}

// ExportResult summarizes a completed run
type ExportResult struct {
	Collections int
	Categories  int
	Articles    int
	Files       []string
}

package main

import (
	"bytes"
	"fmt"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"gopkg.in/yaml.v3"
)

const frontMatterDelimiter = "---\n"

var converter = md.NewConverter("", true, nil)

// HTMLToMarkdown converts an article body to Markdown using the converter's
// default rules.
func HTMLToMarkdown(html string) (string, error) {
	markdown, err := converter.ConvertString(html)
	if err != nil {
		return "", fmt.Errorf("converting HTML to markdown: %w", err)
	}
	return markdown, nil
}

// NewFrontMatter builds the metadata header for an enriched article
func NewFrontMatter(article *EnrichedArticle) FrontMatter {
	categories := article.CategorySlugs
	if categories == nil {
		categories = []string{}
	}

	return FrontMatter{
		Collection:   article.Collection.Slug,
		Categories:   categories,
		Keywords:     article.Article.Keywords,
		Name:         article.Article.Name,
		HelpScoutURL: article.Article.PublicURL,
		Slug:         article.Article.Slug,
	}
}

// RenderFrontMatter serializes metadata as a YAML block between --- lines
func RenderFrontMatter(meta FrontMatter) (string, error) {
	var buf bytes.Buffer
	buf.WriteString(frontMatterDelimiter)

	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(meta); err != nil {
		return "", fmt.Errorf("encoding front-matter: %w", err)
	}
	if err := enc.Close(); err != nil {
		return "", fmt.Errorf("encoding front-matter: %w", err)
	}

	buf.WriteString(frontMatterDelimiter)
	return buf.String(), nil
}

// RenderArticle returns the full file content for an enriched article
func RenderArticle(article *EnrichedArticle) (string, error) {
	header, err := RenderFrontMatter(NewFrontMatter(article))
	if err != nil {
		return "", err
	}

	body, err := HTMLToMarkdown(article.Article.Text)
	if err != nil {
		return "", err
	}

	return header + body, nil
}

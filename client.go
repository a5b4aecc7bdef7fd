package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

const (
	defaultBaseURL  = "https://docsapi.helpscout.net/v1/"
	defaultPageSize = 100
	defaultStatus   = "published"

	// Help Scout ignores the password half of basic auth
	basicAuthPassword = "X"
)

// HTTPError represents a failed API response
type HTTPError struct {
	StatusCode int
	URL        string
	Body       string
}

func (e *HTTPError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("HTTP %d for %s", e.StatusCode, e.URL)
	}
	return fmt.Sprintf("HTTP %d for %s: %s", e.StatusCode, e.URL, e.Body)
}

// Client talks to the Help Scout Docs API
type Client struct {
	apiKey   string
	baseURL  string
	pageSize int
	client   *http.Client
}

// NewClient creates a client authenticated with the given API key
func NewClient(apiKey, baseURL string) (*Client, error) {
	if apiKey == "" {
		return nil, ErrMissingAPIKey
	}
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}

	return &Client{
		apiKey:   apiKey,
		baseURL:  baseURL,
		pageSize: defaultPageSize,
		client:   &http.Client{},
	}, nil
}

type itemsEnvelope[T any] struct {
	Items []T `json:"items"`
	Page  int `json:"page"`
	Pages int `json:"pages"`
	Count int `json:"count"`
}

// ListCollections returns every collection. The endpoint is paginated but
// only the first page is read.
func (c *Client) ListCollections(ctx context.Context) ([]Collection, error) {
	var resp struct {
		Collections itemsEnvelope[Collection] `json:"collections"`
	}
	if err := c.get(ctx, "collections", nil, &resp); err != nil {
		return nil, fmt.Errorf("listing collections: %w", err)
	}
	return resp.Collections.Items, nil
}

// ListCategories returns the categories of one collection
func (c *Client) ListCategories(ctx context.Context, collectionID string) ([]Category, error) {
	var resp struct {
		Categories itemsEnvelope[Category] `json:"categories"`
	}
	path := fmt.Sprintf("collections/%s/categories", url.PathEscape(collectionID))
	if err := c.get(ctx, path, nil, &resp); err != nil {
		return nil, fmt.Errorf("listing categories of collection %s: %w", collectionID, err)
	}
	return resp.Categories.Items, nil
}

// ListArticleSummaries returns all article summaries of a collection with the
// given status, following pagination in page order.
func (c *Client) ListArticleSummaries(ctx context.Context, collectionID, status string) ([]ArticleSummary, error) {
	if status == "" {
		status = defaultStatus
	}
	path := fmt.Sprintf("collections/%s/articles", url.PathEscape(collectionID))

	var items []ArticleSummary
	pages := 1
	for page := 1; page <= pages; page++ {
		params := url.Values{}
		params.Set("pageSize", strconv.Itoa(c.pageSize))
		params.Set("status", status)
		params.Set("page", strconv.Itoa(page))

		var resp struct {
			Articles *itemsEnvelope[ArticleSummary] `json:"articles"`
		}
		if err := c.get(ctx, path, params, &resp); err != nil {
			return nil, fmt.Errorf("listing articles of collection %s (page %d): %w", collectionID, page, err)
		}
		if resp.Articles == nil {
			return nil, fmt.Errorf("listing articles of collection %s (page %d): response has no articles", collectionID, page)
		}

		items = append(items, resp.Articles.Items...)
		if page == 1 {
			pages = resp.Articles.Pages
		}
		debugLog("collection %s: page %d/%d, %d items", collectionID, page, pages, len(resp.Articles.Items))
	}

	return items, nil
}

// GetArticle fetches a single article in full. A response without an
// article body is reported as an *HTTPError carrying status and body.
func (c *Client) GetArticle(ctx context.Context, articleID string) (*Article, error) {
	endpoint := c.baseURL + "articles/" + url.PathEscape(articleID)

	status, body, err := c.do(ctx, endpoint)
	if err != nil {
		return nil, fmt.Errorf("fetching article %s: %w", articleID, err)
	}

	var resp struct {
		Article *Article `json:"article"`
	}
	if err := json.Unmarshal(body, &resp); err != nil || resp.Article == nil {
		return nil, fmt.Errorf("fetching article %s: %w", articleID,
			&HTTPError{StatusCode: status, URL: endpoint, Body: string(body)})
	}

	return resp.Article, nil
}

func (c *Client) get(ctx context.Context, path string, params url.Values, out any) error {
	endpoint := c.baseURL + path
	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}

	_, body, err := c.do(ctx, endpoint)
	if err != nil {
		return err
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decoding %s: %w", endpoint, err)
	}
	return nil
}

// do performs an authenticated GET and returns the status code and body.
// Non-2xx responses are returned as *HTTPError.
func (c *Client) do(ctx context.Context, endpoint string) (int, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return 0, nil, err
	}
	req.SetBasicAuth(c.apiKey, basicAuthPassword)
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("requesting %s: %w", endpoint, err)
	}
	defer resp.Body.Close()

	debugLog("GET %s: status=%d", endpoint, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("reading response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return resp.StatusCode, body, &HTTPError{StatusCode: resp.StatusCode, URL: endpoint, Body: string(body)}
	}

	return resp.StatusCode, body, nil
}

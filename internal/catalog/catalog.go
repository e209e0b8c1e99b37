// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package catalog queries the remote book catalog (the Google Books volumes
// endpoint) and normalizes its entries into recent candidates.
package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/pdiddy/book-selection/pkg/types"
)

// DefaultBaseURL is the Google Books volumes search endpoint.
const DefaultBaseURL = "https://www.googleapis.com/books/v1/volumes"

// Query defaults applied by NewClient.
const (
	DefaultMaxResults = 30
	DefaultOrderBy    = "newest"
	DefaultLanguage   = "ja"
)

// ErrSearch is matched by every transport or decode failure. Callers show a
// single generic message for all of them.
var ErrSearch = errors.New("an error occurred while searching")

// SearchError carries the underlying cause of a failed search. It matches
// ErrSearch under errors.Is.
type SearchError struct {
	Err error
}

func (e *SearchError) Error() string {
	return fmt.Sprintf("catalog search: %v", e.Err)
}

func (e *SearchError) Unwrap() error { return e.Err }

// Is reports ErrSearch as the target for every SearchError.
func (e *SearchError) Is(target error) bool { return target == ErrSearch }

// Searcher issues one catalog query and returns the raw entries.
type Searcher interface {
	Search(ctx context.Context, keyword string) ([]Volume, error)
}

// Client queries the volumes endpoint. One call to Search issues exactly one
// request; there are no retries.
type Client struct {
	HTTP      *http.Client
	Config    types.CatalogConfig
	UserAgent string
	Logger    *slog.Logger
}

// NewClient returns a Client with catalog defaults filled in.
func NewClient(httpClient *http.Client, cfg types.CatalogConfig, userAgent string) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.MaxResults <= 0 {
		cfg.MaxResults = DefaultMaxResults
	}
	if cfg.OrderBy == "" {
		cfg.OrderBy = DefaultOrderBy
	}
	if cfg.Language == "" {
		cfg.Language = DefaultLanguage
	}
	return &Client{HTTP: httpClient, Config: cfg, UserAgent: userAgent}
}

// Search queries the catalog for keyword. A blank keyword issues no request
// and returns nil, nil. A missing "items" field yields an empty result, not
// an error. Any non-200 status, network fault, or undecodable body returns a
// *SearchError.
func (c *Client) Search(ctx context.Context, keyword string) ([]Volume, error) {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return nil, nil
	}

	reqURL := c.buildURL(keyword)
	c.logger().Debug("catalog request", "url", redactKey(reqURL))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, &SearchError{Err: fmt.Errorf("creating request: %w", err)}
	}
	if c.UserAgent != "" {
		req.Header.Set("User-Agent", c.UserAgent)
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, &SearchError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &SearchError{Err: fmt.Errorf("catalog returned HTTP %d", resp.StatusCode)}
	}

	var vr volumesResponse
	if err := json.NewDecoder(resp.Body).Decode(&vr); err != nil {
		return nil, &SearchError{Err: fmt.Errorf("parsing catalog response: %w", err)}
	}
	return vr.Items, nil
}

func (c *Client) buildURL(keyword string) string {
	params := url.Values{
		"q":            {keyword},
		"orderBy":      {c.Config.OrderBy},
		"maxResults":   {strconv.Itoa(c.Config.MaxResults)},
		"langRestrict": {c.Config.Language},
	}
	if c.Config.APIKey != "" {
		params.Set("key", c.Config.APIKey)
	}
	return c.Config.BaseURL + "?" + params.Encode()
}

func (c *Client) logger() *slog.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return slog.Default()
}

func redactKey(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	q := u.Query()
	if q.Has("key") {
		q.Set("key", "REDACTED")
		u.RawQuery = q.Encode()
	}
	return u.String()
}

// Google Books JSON structures.
type volumesResponse struct {
	TotalItems int      `json:"totalItems"`
	Items      []Volume `json:"items"`
}

// Volume is one raw catalog entry.
type Volume struct {
	ID         string     `json:"id"`
	VolumeInfo VolumeInfo `json:"volumeInfo"`
}

// VolumeInfo holds the bibliographic fields of a Volume. Every field may be absent.
type VolumeInfo struct {
	Title               string               `json:"title"`
	Authors             []string             `json:"authors"`
	Publisher           string               `json:"publisher"`
	PublishedDate       string               `json:"publishedDate"`
	IndustryIdentifiers []IndustryIdentifier `json:"industryIdentifiers"`
	ImageLinks          *ImageLinks          `json:"imageLinks"`
}

// IndustryIdentifier is a typed identifier such as ISBN_13 or ISBN_10.
type IndustryIdentifier struct {
	Type       string `json:"type"`
	Identifier string `json:"identifier"`
}

// ImageLinks holds cover image URLs.
type ImageLinks struct {
	Thumbnail string `json:"thumbnail"`
}

// Package rest talks to the datastore through its PostgREST-compatible HTTP API.
package rest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	apphttp "github.com/kosarica/catalog-service/internal/http"
	"github.com/kosarica/catalog-service/internal/store"
	"github.com/kosarica/catalog-service/internal/types"
)

// maxErrorBody bounds how much of an error response is kept
const maxErrorBody = 4096

// Tables names the collections used by the client
type Tables struct {
	Feeds      string
	Categories string
	Variants   string
}

// DefaultTables returns the production collection names
func DefaultTables() Tables {
	return Tables{
		Feeds:      "retailer_product_feeds",
		Categories: "raw_category_subcategory_map",
		Variants:   "product_variants",
	}
}

// StatusError is a non-2xx response from the store
type StatusError struct {
	Status int
	Body   string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("store responded %d", e.Status)
	}
	return fmt.Sprintf("store responded %d: %s", e.Status, e.Body)
}

// Client implements store.Store over HTTP
type Client struct {
	http    *apphttp.Client
	baseURL string
	apiKey  string
	tables  Tables
}

// New creates a client for the store at baseURL authenticated with apiKey
func New(httpClient *apphttp.Client, baseURL, apiKey string, tables Tables) (*Client, error) {
	if baseURL == "" {
		return nil, errors.New("store url is required")
	}
	if apiKey == "" {
		return nil, errors.New("store api key is required")
	}
	defaults := DefaultTables()
	if tables.Feeds == "" {
		tables.Feeds = defaults.Feeds
	}
	if tables.Categories == "" {
		tables.Categories = defaults.Categories
	}
	if tables.Variants == "" {
		tables.Variants = defaults.Variants
	}
	return &Client{
		http:    httpClient,
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		tables:  tables,
	}, nil
}

// FindRetailerID implements store.RetailerFinder
func (c *Client) FindRetailerID(ctx context.Context, sourceFeedID string) (string, error) {
	var rows []struct {
		RetailerID *string `json:"retailer_id"`
	}
	q := url.Values{}
	q.Set("select", "retailer_id")
	q.Set("id", "eq."+sourceFeedID)
	if err := c.get(ctx, c.tables.Feeds, q, &rows); err != nil {
		return "", err
	}
	if len(rows) == 0 || rows[0].RetailerID == nil || *rows[0].RetailerID == "" {
		return "", store.ErrNotFound
	}
	return *rows[0].RetailerID, nil
}

// FindSubcategoryID implements store.CategoryFinder
func (c *Client) FindSubcategoryID(ctx context.Context, rawCategory string) (*string, error) {
	var rows []struct {
		SubcategoryID *string `json:"subcategory_id"`
	}
	q := url.Values{}
	q.Set("select", "subcategory_id")
	q.Set("raw_category", "eq."+rawCategory)
	if err := c.get(ctx, c.tables.Categories, q, &rows); err != nil {
		return nil, err
	}
	if len(rows) == 0 || rows[0].SubcategoryID == nil || *rows[0].SubcategoryID == "" {
		return nil, nil
	}
	return rows[0].SubcategoryID, nil
}

// UpsertVariant posts the record with merge-duplicates resolution on the
// (sku, source_feed_id) key.
func (c *Client) UpsertVariant(ctx context.Context, rec types.ProductVariantRecord) error {
	body, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to encode record: %w", err)
	}

	q := url.Values{}
	q.Set("on_conflict", "sku,source_feed_id")

	header := c.headers()
	header.Set("Content-Type", "application/json")
	header.Set("Prefer", "resolution=merge-duplicates,return=minimal")

	resp, err := c.http.Do(ctx, apphttp.Request{
		Method: http.MethodPost,
		URL:    c.endpoint(c.tables.Variants, q),
		Header: header,
		Body:   body,
	})
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	return checkStatus(resp)
}

func (c *Client) get(ctx context.Context, table string, q url.Values, out any) error {
	header := c.headers()
	header.Set("Accept", "application/json")

	resp, err := c.http.Do(ctx, apphttp.Request{
		Method: http.MethodGet,
		URL:    c.endpoint(table, q),
		Header: header,
	})
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		return err
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", table, err)
	}
	return nil
}

func (c *Client) endpoint(table string, q url.Values) string {
	return c.baseURL + "/rest/v1/" + table + "?" + q.Encode()
}

func (c *Client) headers() http.Header {
	h := http.Header{}
	h.Set("apikey", c.apiKey)
	h.Set("Authorization", "Bearer "+c.apiKey)
	return h
}

func checkStatus(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	return &StatusError{Status: resp.StatusCode, Body: strings.TrimSpace(string(body))}
}

var _ store.Store = (*Client)(nil)

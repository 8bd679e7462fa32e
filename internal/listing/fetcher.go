package listing

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	dbtypes "github.com/angelmondragon/carpenter-backend/pkg/db/types"
)

// Query is one page request.
type Query struct {
	Page     int
	Limit    int
	Search   string
	Category string
}

// Product is the listing view of a catalog product.
type Product struct {
	ID             uint               `json:"id"`
	Name           string             `json:"name"`
	Description    *string            `json:"description,omitempty"`
	LegacyImageURL *string            `json:"legacyImageUrl,omitempty"`
	Dimensions     dbtypes.Dimensions `json:"dimensions"`
}

// Result is one page of products.
type Result struct {
	Docs       []Product `json:"docs"`
	TotalDocs  int64     `json:"totalDocs"`
	TotalPages int       `json:"totalPages"`
	Page       int       `json:"page"`
}

type Fetcher interface {
	Fetch(ctx context.Context, q Query) (Result, error)
}

// HTTPFetcher reads products from the public products endpoint.
type HTTPFetcher struct {
	baseURL string
	client  *http.Client
}

func NewHTTPFetcher(baseURL string, client *http.Client) *HTTPFetcher {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &HTTPFetcher{baseURL: strings.TrimRight(baseURL, "/"), client: client}
}

func (f *HTTPFetcher) Fetch(ctx context.Context, q Query) (Result, error) {
	params := url.Values{}
	params.Set("page", strconv.Itoa(max(q.Page, 1)))
	params.Set("limit", strconv.Itoa(max(q.Limit, 1)))
	params.Set("depth", "1")
	if q.Category != "" && q.Category != DefaultCategory {
		params.Set("category", q.Category)
	}
	if q.Search != "" {
		params.Set("search", q.Search)
	}

	var out Result
	if err := f.getJSON(ctx, "/api/public/products?"+params.Encode(), "products", &out); err != nil {
		return Result{}, err
	}
	return out, nil
}

// Product reads one product with its dimensions.
func (f *HTTPFetcher) Product(ctx context.Context, id uint) (Product, error) {
	var out Product
	path := "/api/products/" + strconv.FormatUint(uint64(id), 10) + "?depth=1"
	if err := f.getJSON(ctx, path, "product", &out); err != nil {
		return Product{}, err
	}
	return out, nil
}

func (f *HTTPFetcher) getJSON(ctx context.Context, path, what string, dest any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("build %s request: %w", what, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		return fmt.Errorf("fetch %s: %w", what, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("fetch %s: status %d: %s", what, resp.StatusCode, strings.TrimSpace(string(body)))
	}
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("decode %s: %w", what, err)
	}
	return nil
}

package listing

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	dbtypes "github.com/angelmondragon/carpenter-backend/pkg/db/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPFetcherBuildsQuery(t *testing.T) {
	var got *http.Request
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"docs":[{"id":9,"name":"Shaker","dimensions":{"thickness":[{"value":"40"}],"width":[{"value":"36"}],"height":[{"value":"80"}]}}],"totalDocs":13,"totalPages":2,"page":2}`))
	}))
	defer srv.Close()

	f := NewHTTPFetcher(srv.URL+"/", srv.Client())
	res, err := f.Fetch(context.Background(), Query{Page: 2, Limit: PageSize, Search: "sha", Category: "3"})
	require.NoError(t, err)

	require.NotNil(t, got)
	assert.Equal(t, "/api/public/products", got.URL.Path)
	q := got.URL.Query()
	assert.Equal(t, "2", q.Get("page"))
	assert.Equal(t, "12", q.Get("limit"))
	assert.Equal(t, "1", q.Get("depth"))
	assert.Equal(t, "sha", q.Get("search"))
	assert.Equal(t, "3", q.Get("category"))

	require.Len(t, res.Docs, 1)
	assert.Equal(t, "Shaker", res.Docs[0].Name)
	assert.Equal(t, []dbtypes.DimensionOption{{Value: "36"}}, res.Docs[0].Dimensions.Width)
	assert.Equal(t, int64(13), res.TotalDocs)
	assert.Equal(t, 2, res.TotalPages)
}

func TestHTTPFetcherOmitsAllCategory(t *testing.T) {
	var raw string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw = r.URL.RawQuery
		_, _ = w.Write([]byte(`{"docs":[],"totalDocs":0,"totalPages":0,"page":1}`))
	}))
	defer srv.Close()

	_, err := NewHTTPFetcher(srv.URL, nil).Fetch(context.Background(), Query{Page: 1, Limit: PageSize, Category: "all"})
	require.NoError(t, err)
	assert.NotContains(t, raw, "category")
	assert.NotContains(t, raw, "search")
}

func TestHTTPFetcherStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := NewHTTPFetcher(srv.URL, nil).Fetch(context.Background(), Query{Page: 1, Limit: PageSize})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 500")
}

func TestHTTPFetcherProduct(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/products/9" {
			http.Error(w, `{"error":"Product not found"}`, http.StatusNotFound)
			return
		}
		assert.Equal(t, "1", r.URL.Query().Get("depth"))
		_, _ = w.Write([]byte(`{"id":9,"name":"Shaker","legacyImageUrl":"https://img.example/9.jpg","dimensions":{"thickness":[{"value":"40"}],"width":[],"height":[]}}`))
	}))
	defer srv.Close()

	f := NewHTTPFetcher(srv.URL, nil)
	p, err := f.Product(context.Background(), 9)
	require.NoError(t, err)
	assert.Equal(t, "Shaker", p.Name)
	require.NotNil(t, p.LegacyImageURL)
	assert.Equal(t, []dbtypes.DimensionOption{{Value: "40"}}, p.Dimensions.Thickness)

	_, err = f.Product(context.Background(), 10)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 404")
}

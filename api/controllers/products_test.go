package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/carpenter-backend/internal/catalog"
	"github.com/angelmondragon/carpenter-backend/pkg/config"
	pkgerrors "github.com/angelmondragon/carpenter-backend/pkg/errors"
	"github.com/angelmondragon/carpenter-backend/pkg/pagination"
	"github.com/angelmondragon/carpenter-backend/pkg/types"
)

var testCatalogConfig = config.CatalogConfig{DefaultPageSize: 12, MaxPageSize: 100, DefaultDepth: 2}

type stubCatalog struct {
	catalog.Service

	listInput catalog.ListProductsInput
	listErr   error
	getID     uint
	getDepth  int
	getErr    error
	updateID  uint
	updateIn  catalog.UpdateProductInput
	updateErr error
}

func (s *stubCatalog) ListProducts(_ context.Context, input catalog.ListProductsInput) (pagination.Envelope[catalog.ProductDTO], error) {
	s.listInput = input
	if s.listErr != nil {
		return pagination.Envelope[catalog.ProductDTO]{}, s.listErr
	}
	docs := []catalog.ProductDTO{{ID: 1, Name: "Oak Panel"}}
	return pagination.NewEnvelope(docs, 1, input.Page), nil
}

func (s *stubCatalog) GetProduct(_ context.Context, id uint, depth int) (*catalog.ProductDTO, error) {
	s.getID, s.getDepth = id, depth
	if s.getErr != nil {
		return nil, s.getErr
	}
	return &catalog.ProductDTO{ID: id, Name: "Oak Panel"}, nil
}

func (s *stubCatalog) UpdateProduct(_ context.Context, id uint, input catalog.UpdateProductInput) (*catalog.ProductDTO, error) {
	s.updateID, s.updateIn = id, input
	if s.updateErr != nil {
		return nil, s.updateErr
	}
	name := "Oak Panel"
	if input.Name != nil {
		name = *input.Name
	}
	return &catalog.ProductDTO{ID: id, Name: name}, nil
}

func productRouter(svc catalog.Service) http.Handler {
	r := chi.NewRouter()
	r.Get("/api/public/products", ListProducts(svc, testCatalogConfig, nil))
	r.Get("/api/products/{id}", GetProduct(svc, testCatalogConfig, nil))
	r.Patch("/api/products/{id}", PatchProduct(svc, nil))
	return r
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body types.ErrorBody
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	return body.Error
}

func TestListProductsParsesQuery(t *testing.T) {
	svc := &stubCatalog{}
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/public/products?page=2&limit=500&depth=1&category=7&search=%20oak%20", nil)

	productRouter(svc).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, 2, svc.listInput.Page.Page)
	require.Equal(t, 100, svc.listInput.Page.Limit)
	require.Equal(t, 1, svc.listInput.Depth)
	require.NotNil(t, svc.listInput.CategoryID)
	require.Equal(t, uint(7), *svc.listInput.CategoryID)
	require.Equal(t, "oak", svc.listInput.Search)

	var env pagination.Envelope[catalog.ProductDTO]
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&env))
	require.Len(t, env.Docs, 1)
	require.Equal(t, 2, env.Page)
}

func TestListProductsDefaults(t *testing.T) {
	svc := &stubCatalog{}
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/public/products?category=all", nil)

	productRouter(svc).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, 1, svc.listInput.Page.Page)
	require.Equal(t, 12, svc.listInput.Page.Limit)
	require.Equal(t, 2, svc.listInput.Depth)
	require.Nil(t, svc.listInput.CategoryID)
}

func TestListProductsRejectsMalformedPage(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/public/products?page=abc", nil)

	productRouter(&stubCatalog{}).ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListProductsHidesStoreFailure(t *testing.T) {
	svc := &stubCatalog{listErr: pkgerrors.Wrap(pkgerrors.CodeInternal, context.DeadlineExceeded, "select failed")}
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/public/products", nil)

	productRouter(svc).ServeHTTP(rec, req)

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.Equal(t, catalog.MsgFetchProducts, decodeError(t, rec))
}

func TestGetProduct(t *testing.T) {
	svc := &stubCatalog{}
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/products/42?depth=0", nil)

	productRouter(svc).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, uint(42), svc.getID)
	require.Equal(t, 0, svc.getDepth)
}

func TestGetProductNotFound(t *testing.T) {
	cases := map[string]struct {
		path string
		svc  *stubCatalog
	}{
		"missing row": {
			path: "/api/products/9",
			svc:  &stubCatalog{getErr: pkgerrors.New(pkgerrors.CodeNotFound, catalog.MsgProductNotFound)},
		},
		"malformed id": {
			path: "/api/products/not-a-number",
			svc:  &stubCatalog{},
		},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			productRouter(tc.svc).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tc.path, nil))

			require.Equal(t, http.StatusNotFound, rec.Code)
			require.Equal(t, catalog.MsgProductNotFound, decodeError(t, rec))
		})
	}
}

func TestPatchProduct(t *testing.T) {
	svc := &stubCatalog{}
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPatch, "/api/products/3", strings.NewReader(`{"name":"Walnut Door"}`))
	req.Header.Set("Content-Type", "application/json")

	productRouter(svc).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, uint(3), svc.updateID)
	require.NotNil(t, svc.updateIn.Name)
	require.Equal(t, "Walnut Door", *svc.updateIn.Name)
}

func TestPatchProductNotFound(t *testing.T) {
	svc := &stubCatalog{updateErr: pkgerrors.New(pkgerrors.CodeNotFound, catalog.MsgUpdateNotFound)}
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPatch, "/api/products/3", strings.NewReader(`{"name":"x"}`))

	productRouter(svc).ServeHTTP(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Equal(t, catalog.MsgUpdateNotFound, decodeError(t, rec))
}

func TestProductHandlersWithoutService(t *testing.T) {
	rec := httptest.NewRecorder()
	productRouter(nil).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/public/products", nil))

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.Equal(t, catalog.MsgFetchProducts, decodeError(t, rec))
}

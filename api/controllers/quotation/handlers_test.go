package quotation

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/carpenter-backend/internal/quotation"
	dbtypes "github.com/angelmondragon/carpenter-backend/pkg/db/types"
	pkgerrors "github.com/angelmondragon/carpenter-backend/pkg/errors"
)

const testCartID = "2f1b7c1e-4a6b-4c1e-9d8a-0a1b2c3d4e5f"

type stubProducts struct{}

func (stubProducts) QuotableProduct(_ context.Context, id uint) (quotation.ProductRef, dbtypes.Dimensions, error) {
	if id != 1 {
		return quotation.ProductRef{}, dbtypes.Dimensions{}, pkgerrors.New(pkgerrors.CodeNotFound, "Product not found")
	}
	return quotation.ProductRef{ID: 1, Name: "Oak Panel"}, dbtypes.Dimensions{
		Thickness: []dbtypes.DimensionOption{{Value: "36"}},
	}, nil
}

func newRouter(t *testing.T) http.Handler {
	t.Helper()
	svc, err := quotation.NewCarts(quotation.CartsParams{Products: stubProducts{}, KV: quotation.NewMemoryKV()})
	require.NoError(t, err)

	r := chi.NewRouter()
	r.Route("/api/v1/quotation/{cartId}", func(r chi.Router) {
		r.Get("/", GetCart(svc, nil))
		r.Delete("/", ClearCart(svc, nil))
		r.Post("/items", AddItem(svc, nil))
		r.Patch("/items/{lineId}", UpdateItem(svc, nil))
		r.Delete("/items/{lineId}", RemoveItem(svc, nil))
	})
	return r
}

func do(h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	h.ServeHTTP(rec, req)
	return rec
}

func TestCartLifecycle(t *testing.T) {
	h := newRouter(t)
	base := "/api/v1/quotation/" + testCartID

	rec := do(h, http.MethodGet, base+"/", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"items":[],"itemCount":0}`, rec.Body.String())

	add := `{"productId":1,"selectedDimensions":{"thickness":"36"},"quantity":2}`
	require.Equal(t, http.StatusOK, do(h, http.MethodPost, base+"/items", add).Code)
	rec = do(h, http.MethodPost, base+"/items", add)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"itemCount":4`)

	lineID := quotation.LineID(1, quotation.SelectedDimensions{Thickness: "36"})
	rec = do(h, http.MethodPatch, base+"/items/"+lineID, `{"quantity":1}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"itemCount":1`)

	rec = do(h, http.MethodDelete, base+"/items/"+lineID, "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"itemCount":0`)

	require.Equal(t, http.StatusNoContent, do(h, http.MethodDelete, base+"/", "").Code)
}

func TestCartErrors(t *testing.T) {
	h := newRouter(t)
	base := "/api/v1/quotation/" + testCartID

	cases := map[string]struct {
		method, path, body string
		status             int
	}{
		"bad cart id":           {http.MethodGet, "/api/v1/quotation/not-a-uuid/", "", http.StatusBadRequest},
		"unknown product":       {http.MethodPost, base + "/items", `{"productId":9}`, http.StatusNotFound},
		"dimension not offered": {http.MethodPost, base + "/items", `{"productId":1,"selectedDimensions":{"thickness":"99"}}`, http.StatusBadRequest},
		"missing line":          {http.MethodPatch, base + "/items/nope", `{"quantity":3}`, http.StatusNotFound},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			require.Equal(t, tc.status, do(h, tc.method, tc.path, tc.body).Code)
		})
	}
}

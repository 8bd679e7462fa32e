package quotation

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/angelmondragon/carpenter-backend/api/responses"
	"github.com/angelmondragon/carpenter-backend/api/validators"
	"github.com/angelmondragon/carpenter-backend/internal/quotation"
	pkgerrors "github.com/angelmondragon/carpenter-backend/pkg/errors"
	"github.com/angelmondragon/carpenter-backend/pkg/logger"
)

type updateItemRequest struct {
	Quantity int `json:"quantity"`
}

func unavailable() error {
	return pkgerrors.New(pkgerrors.CodeInternal, "quotation cart service unavailable")
}

func withCart(r *http.Request, logg *logger.Logger) *http.Request {
	if logg == nil {
		return r
	}
	return r.WithContext(logg.WithCartID(r.Context(), chi.URLParam(r, "cartId")))
}

// GetCart returns the cart, empty when it has never been written.
func GetCart(svc quotation.Carts, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, unavailable())
			return
		}
		r = withCart(r, logg)
		view, err := svc.Get(r.Context(), chi.URLParam(r, "cartId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}

func AddItem(svc quotation.Carts, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, unavailable())
			return
		}
		r = withCart(r, logg)
		var input quotation.AddItemInput
		if err := validators.DecodeJSONBody(r, &input); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		view, err := svc.AddItem(r.Context(), chi.URLParam(r, "cartId"), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}

// UpdateItem sets a line's quantity. A quantity below one removes the line.
func UpdateItem(svc quotation.Carts, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, unavailable())
			return
		}
		r = withCart(r, logg)
		var req updateItemRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		view, err := svc.UpdateItem(r.Context(), chi.URLParam(r, "cartId"), chi.URLParam(r, "lineId"), req.Quantity)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}

func RemoveItem(svc quotation.Carts, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, unavailable())
			return
		}
		r = withCart(r, logg)
		view, err := svc.RemoveItem(r.Context(), chi.URLParam(r, "cartId"), chi.URLParam(r, "lineId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}

func ClearCart(svc quotation.Carts, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, unavailable())
			return
		}
		r = withCart(r, logg)
		if err := svc.Clear(r.Context(), chi.URLParam(r, "cartId")); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

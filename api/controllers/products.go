package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/angelmondragon/carpenter-backend/api/responses"
	"github.com/angelmondragon/carpenter-backend/api/validators"
	"github.com/angelmondragon/carpenter-backend/internal/catalog"
	"github.com/angelmondragon/carpenter-backend/pkg/config"
	pkgerrors "github.com/angelmondragon/carpenter-backend/pkg/errors"
	"github.com/angelmondragon/carpenter-backend/pkg/logger"
	"github.com/angelmondragon/carpenter-backend/pkg/pagination"
)

const maxSearchLength = 100

// ListProducts serves the paginated storefront listing.
func ListProducts(svc catalog.Service, cfg config.CatalogConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteErrorFallback(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"), catalog.MsgFetchProducts)
			return
		}

		page, err := validators.ParsePage(r, cfg.DefaultPageSize, maxLimit(cfg))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		depth, err := parseDepth(r, cfg)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		categoryID, err := catalog.ParseCategory(r.URL.Query().Get("category"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		env, err := svc.ListProducts(r.Context(), catalog.ListProductsInput{
			Page:       page,
			Depth:      depth,
			CategoryID: categoryID,
			Search:     validators.SanitizeString(r.URL.Query().Get("search"), maxSearchLength),
		})
		if err != nil {
			responses.WriteErrorFallback(r.Context(), logg, w, err, catalog.MsgFetchProducts)
			return
		}
		responses.WriteSuccess(w, env)
	}
}

func GetProduct(svc catalog.Service, cfg config.CatalogConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteErrorFallback(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"), catalog.MsgFetchProduct)
			return
		}
		id, err := productID(r, catalog.MsgProductNotFound)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		depth, err := parseDepth(r, cfg)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.GetProduct(r.Context(), id, depth)
		if err != nil {
			responses.WriteErrorFallback(r.Context(), logg, w, err, catalog.MsgFetchProduct)
			return
		}
		responses.WriteSuccess(w, product)
	}
}

// PatchProduct applies a partial update from the CMS.
func PatchProduct(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteErrorFallback(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"), catalog.MsgUpdateProduct)
			return
		}
		id, err := productID(r, catalog.MsgUpdateNotFound)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload catalog.UpdateProductInput
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.UpdateProduct(r.Context(), id, payload)
		if err != nil {
			responses.WriteErrorFallback(r.Context(), logg, w, err, catalog.MsgUpdateProduct)
			return
		}
		responses.WriteSuccess(w, product)
	}
}

func AdminCreateProduct(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}
		var payload catalog.CreateProductInput
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		product, err := svc.CreateProduct(r.Context(), payload)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, product)
	}
}

func ListCategories(svc catalog.Service, cfg config.CatalogConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}
		page, err := validators.ParsePage(r, maxLimit(cfg), maxLimit(cfg))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		env, err := svc.ListCategories(r.Context(), page)
		if err != nil {
			responses.WriteErrorFallback(r.Context(), logg, w, err, "Failed to fetch categories")
			return
		}
		responses.WriteSuccess(w, env)
	}
}

func AdminCreateCategory(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}
		var payload catalog.CreateCategoryInput
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		category, err := svc.CreateCategory(r.Context(), payload)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, category)
	}
}

// productID reads {id}. A malformed id cannot match a product, so it is
// reported as not found with the route's message.
func productID(r *http.Request, notFound string) (uint, error) {
	id, err := catalog.ParseID(chi.URLParam(r, "id"))
	if err != nil {
		return 0, pkgerrors.New(pkgerrors.CodeNotFound, notFound)
	}
	return id, nil
}

func parseDepth(r *http.Request, cfg config.CatalogConfig) (int, error) {
	return validators.ParseQueryInt(r, "depth", catalog.ClampDepth(cfg.DefaultDepth), catalog.MinDepth, catalog.MaxDepth)
}

func maxLimit(cfg config.CatalogConfig) int {
	if cfg.MaxPageSize <= 0 {
		return pagination.MaxLimit
	}
	return min(cfg.MaxPageSize, pagination.MaxLimit)
}

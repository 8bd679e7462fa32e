package controllers

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/angelmondragon/carpenter-backend/api/responses"
	"github.com/angelmondragon/carpenter-backend/api/validators"
	"github.com/angelmondragon/carpenter-backend/internal/content"
	"github.com/angelmondragon/carpenter-backend/pkg/config"
	"github.com/angelmondragon/carpenter-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/carpenter-backend/pkg/errors"
	"github.com/angelmondragon/carpenter-backend/pkg/logger"
	"github.com/angelmondragon/carpenter-backend/pkg/render"
)

const (
	msgFetchPage   = "Failed to fetch page"
	msgFetchGlobal = "Failed to fetch global"
)

func GetPage(svc content.Service, cfg config.CatalogConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteErrorFallback(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "content service unavailable"), msgFetchPage)
			return
		}
		depth, err := parseDepth(r, cfg)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		page, err := svc.GetPage(r.Context(), chi.URLParam(r, "slug"), depth)
		if err != nil {
			responses.WriteErrorFallback(r.Context(), logg, w, err, msgFetchPage)
			return
		}
		responses.WriteSuccess(w, page)
	}
}

func ListPages(svc content.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "content service unavailable"))
			return
		}
		slugs, err := svc.ListPageSlugs(r.Context())
		if err != nil {
			responses.WriteErrorFallback(r.Context(), logg, w, err, msgFetchPage)
			return
		}
		responses.WriteSuccess(w, map[string]any{"slugs": slugs})
	}
}

// RenderPage serves a page as a full HTML document with the site header and
// footer.
func RenderPage(svc content.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			writeHTMLError(w, r, http.StatusInternalServerError, msgFetchPage)
			return
		}
		ctx := r.Context()
		page, err := svc.GetPage(ctx, chi.URLParam(r, "slug"), 1)
		if err != nil {
			status := http.StatusInternalServerError
			msg := msgFetchPage
			if pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
				status, msg = http.StatusNotFound, content.MsgPageNotFound
			} else if logg != nil {
				logg.Error(ctx, "page.render_failed", err)
			}
			writeHTMLError(w, r, status, msg)
			return
		}

		var header *content.Header
		var footer *content.Footer
		if g, err := svc.GetGlobal(ctx, enums.GlobalHeader, 1); err == nil {
			header, _ = g.(*content.Header)
		} else if logg != nil {
			logg.Warn(ctx, "page.header_unavailable: "+err.Error())
		}
		if g, err := svc.GetGlobal(ctx, enums.GlobalFooter, 1); err == nil {
			footer, _ = g.(*content.Footer)
		} else if logg != nil {
			logg.Warn(ctx, "page.footer_unavailable: "+err.Error())
		}

		if err := render.HTML(w, r, http.StatusOK, content.PageDocument(page, header, footer)); err != nil {
			if logg != nil {
				logg.Error(ctx, "page.render_failed", err)
			}
			writeHTMLError(w, r, http.StatusInternalServerError, msgFetchPage)
		}
	}
}

func AdminPutPage(svc content.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "content service unavailable"))
			return
		}
		var payload content.PutPageInput
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		page, err := svc.PutPage(r.Context(), chi.URLParam(r, "slug"), payload)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, page)
	}
}

func GetGlobal(svc content.Service, cfg config.CatalogConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteErrorFallback(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "content service unavailable"), msgFetchGlobal)
			return
		}
		slug, err := enums.ParseGlobalSlug(chi.URLParam(r, "slug"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "Global not found"))
			return
		}
		depth, err := parseDepth(r, cfg)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		g, err := svc.GetGlobal(r.Context(), slug, depth)
		if err != nil {
			responses.WriteErrorFallback(r.Context(), logg, w, err, msgFetchGlobal)
			return
		}
		responses.WriteSuccess(w, g)
	}
}

func AdminPutGlobal(svc content.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "content service unavailable"))
			return
		}
		slug, err := enums.ParseGlobalSlug(chi.URLParam(r, "slug"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "Global not found"))
			return
		}
		raw, err := io.ReadAll(io.LimitReader(r.Body, validators.MaxBodyBytes))
		if err != nil || !json.Valid(raw) {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invalid request body"))
			return
		}
		g, err := svc.PutGlobal(r.Context(), slug, raw)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, g)
	}
}

func writeHTMLError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	_ = render.HTML(w, r, status, content.ErrorDocument(msg))
}

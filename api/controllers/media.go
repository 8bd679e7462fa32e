package controllers

import (
	"net/http"

	"github.com/angelmondragon/carpenter-backend/api/responses"
	"github.com/angelmondragon/carpenter-backend/api/validators"
	"github.com/angelmondragon/carpenter-backend/internal/catalog"
	pkgerrors "github.com/angelmondragon/carpenter-backend/pkg/errors"
	"github.com/angelmondragon/carpenter-backend/pkg/logger"
)

// AdminCreateMedia registers an already uploaded asset so pages and products
// can reference it by id.
func AdminCreateMedia(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}
		var payload catalog.CreateMediaInput
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		media, err := svc.CreateMedia(r.Context(), payload)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, media)
	}
}

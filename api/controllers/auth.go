package controllers

import (
	"net/http"

	"github.com/angelmondragon/carpenter-backend/api/responses"
	"github.com/angelmondragon/carpenter-backend/api/validators"
	"github.com/angelmondragon/carpenter-backend/internal/auth"
	pkgerrors "github.com/angelmondragon/carpenter-backend/pkg/errors"
	"github.com/angelmondragon/carpenter-backend/pkg/logger"
)

// AdminLogin exchanges CMS credentials for a bearer token.
func AdminLogin(svc auth.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "auth service unavailable"))
			return
		}

		var req auth.LoginRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		resp, err := svc.Login(r.Context(), req)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, resp)
	}
}

package responses

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	pkgerrors "github.com/angelmondragon/carpenter-backend/pkg/errors"
	"github.com/angelmondragon/carpenter-backend/pkg/logger"
	"github.com/angelmondragon/carpenter-backend/pkg/types"
)

func WriteSuccess(w http.ResponseWriter, data any) {
	WriteSuccessStatus(w, http.StatusOK, data)
}

func WriteSuccessStatus(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, data)
}

// WriteMessage writes the `{"message": ...}` body used by submission routes.
func WriteMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, types.MessageBody{Message: message})
}

// WriteError writes `{"error": ...}`. Server side failures carry the generic
// public message for their code.
func WriteError(ctx context.Context, logg *logger.Logger, w http.ResponseWriter, err error) {
	WriteErrorFallback(ctx, logg, w, err, "")
}

// WriteErrorFallback is WriteError with an endpoint specific message for
// server side failures, e.g. "Failed to fetch products".
func WriteErrorFallback(ctx context.Context, logg *logger.Logger, w http.ResponseWriter, err error, fallback string) {
	status, msg := resolve(ctx, logg, err, fallback)
	writeJSON(w, status, types.ErrorBody{Error: msg})
}

// WriteMessageError is the `{"message": ...}` counterpart of WriteErrorFallback.
func WriteMessageError(ctx context.Context, logg *logger.Logger, w http.ResponseWriter, err error, fallback string) {
	status, msg := resolve(ctx, logg, err, fallback)
	writeJSON(w, status, types.MessageBody{Message: msg})
}

func resolve(ctx context.Context, logg *logger.Logger, err error, fallback string) (int, string) {
	if err == nil {
		err = errors.New("unknown error")
	}

	typed := pkgerrors.As(err)
	if typed == nil {
		typed = pkgerrors.Wrap(pkgerrors.CodeInternal, err, "unexpected error")
	}

	meta := pkgerrors.MetadataFor(typed.Code())
	msg := meta.PublicMessage
	switch {
	case meta.Expose && typed.Message() != "":
		msg = typed.Message()
	case !meta.Expose && fallback != "":
		msg = fallback
	}

	if logg != nil {
		fields := pkgerrors.Dump(err).Fields()
		if d := typed.Details(); d != nil && meta.Expose {
			fields["details"] = d
		}
		ctx = logg.WithFields(ctx, fields)
		if meta.HTTPStatus >= http.StatusInternalServerError {
			logg.Error(ctx, "request.error", err)
		} else {
			logg.Warn(ctx, "request.rejected")
		}
	}

	return meta.HTTPStatus, msg
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf(`{"level":"error","msg":"failed to encode response","err":"%v"}`, err)
	}
}

package controllers

import (
	"net/http"

	"github.com/angelmondragon/carpenter-backend/api/responses"
	"github.com/angelmondragon/carpenter-backend/api/validators"
	"github.com/angelmondragon/carpenter-backend/internal/contact"
	"github.com/angelmondragon/carpenter-backend/internal/quotation"
	pkgerrors "github.com/angelmondragon/carpenter-backend/pkg/errors"
	"github.com/angelmondragon/carpenter-backend/pkg/logger"
)

// SubmitQuotation mails a quotation request. The client clears its cart only
// after it sees the success message.
func SubmitQuotation(svc quotation.Submitter, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteMessageError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "quotation service unavailable"), quotation.MsgSubmitFailed)
			return
		}

		var req quotation.SubmitRequest
		if err := validators.DecodeJSONBody(r, &req, validators.AllowUnknownFields(), validators.SkipValidation()); err != nil {
			responses.WriteMessageError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, quotation.MsgMissingInput), "")
			return
		}

		if err := svc.Submit(r.Context(), req); err != nil {
			responses.WriteMessageError(r.Context(), logg, w, err, quotation.MsgSubmitFailed)
			return
		}
		responses.WriteMessage(w, http.StatusOK, quotation.MsgSubmitted)
	}
}

func SubmitContact(svc contact.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteMessageError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "contact service unavailable"), contact.MsgSendFailed)
			return
		}

		var req contact.Request
		if err := validators.DecodeJSONBody(r, &req, validators.AllowUnknownFields(), validators.SkipValidation()); err != nil {
			responses.WriteMessageError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, contact.MsgMissingFields), "")
			return
		}

		if err := svc.Send(r.Context(), req); err != nil {
			responses.WriteMessageError(r.Context(), logg, w, err, contact.MsgSendFailed)
			return
		}
		responses.WriteMessage(w, http.StatusOK, contact.MsgSent)
	}
}

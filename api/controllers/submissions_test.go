package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/carpenter-backend/internal/contact"
	"github.com/angelmondragon/carpenter-backend/internal/quotation"
	pkgerrors "github.com/angelmondragon/carpenter-backend/pkg/errors"
	"github.com/angelmondragon/carpenter-backend/pkg/types"
)

type stubSubmitter struct {
	got quotation.SubmitRequest
	err error
}

func (s *stubSubmitter) Submit(_ context.Context, req quotation.SubmitRequest) error {
	s.got = req
	return s.err
}

type stubContact struct {
	got contact.Request
	err error
}

func (s *stubContact) Send(_ context.Context, req contact.Request) error {
	s.got = req
	return s.err
}

func decodeMessage(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body types.MessageBody
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	return body.Message
}

func TestSubmitQuotationSuccess(t *testing.T) {
	svc := &stubSubmitter{}
	body := `{"items":[{"cartId":"1-36--","product":{"id":1,"name":"Oak"},"quantity":2,"selectedDimensions":{"thickness":"36"}}],
		"customerInfo":{"name":"Ana","email":"ana@example.com"},"extra":true}`
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/quotation", strings.NewReader(body))

	SubmitQuotation(svc, nil).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, quotation.MsgSubmitted, decodeMessage(t, rec))
	require.Len(t, svc.got.Items, 1)
	require.Equal(t, "Ana", svc.got.CustomerInfo.Name)
}

func TestSubmitQuotationErrors(t *testing.T) {
	cases := map[string]struct {
		body    string
		err     error
		status  int
		message string
	}{
		"malformed json": {
			body:    `{"items":`,
			status:  http.StatusBadRequest,
			message: quotation.MsgMissingInput,
		},
		"missing input": {
			body:    `{"items":[]}`,
			err:     pkgerrors.New(pkgerrors.CodeValidation, quotation.MsgMissingInput),
			status:  http.StatusBadRequest,
			message: quotation.MsgMissingInput,
		},
		"mail failure": {
			body:    `{"items":[]}`,
			err:     pkgerrors.Wrap(pkgerrors.CodeInternal, errors.New("smtp 421"), "send failed"),
			status:  http.StatusInternalServerError,
			message: quotation.MsgSubmitFailed,
		},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/api/quotation", strings.NewReader(tc.body))

			SubmitQuotation(&stubSubmitter{err: tc.err}, nil).ServeHTTP(rec, req)

			require.Equal(t, tc.status, rec.Code)
			require.Equal(t, tc.message, decodeMessage(t, rec))
		})
	}
}

func TestSubmitContact(t *testing.T) {
	svc := &stubContact{}
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/contact",
		strings.NewReader(`{"name":"Ana","email":"ana@example.com","subject":"Doors","message":"Hello","phone":"555"}`))

	SubmitContact(svc, nil).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, contact.MsgSent, decodeMessage(t, rec))
	require.Equal(t, "555", svc.got.Phone)
}

func TestSubmitContactMissingFields(t *testing.T) {
	svc := &stubContact{err: pkgerrors.New(pkgerrors.CodeValidation, contact.MsgMissingFields)}
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/contact", strings.NewReader(`{"name":"Ana"}`))

	SubmitContact(svc, nil).ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, contact.MsgMissingFields, decodeMessage(t, rec))
}

func TestSubmitContactWithoutService(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/contact", strings.NewReader(`{}`))

	SubmitContact(nil, nil).ServeHTTP(rec, req)

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.Equal(t, contact.MsgSendFailed, decodeMessage(t, rec))
}

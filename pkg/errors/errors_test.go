package errors

import (
	stdErrors "errors"
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mattn/go-sqlite3"
)

func TestMetadataFor(t *testing.T) {
	tests := []struct {
		code   Code
		status int
		expose bool
	}{
		{CodeValidation, http.StatusBadRequest, true},
		{CodeUnauthorized, http.StatusUnauthorized, true},
		{CodeForbidden, http.StatusForbidden, true},
		{CodeNotFound, http.StatusNotFound, true},
		{CodeConflict, http.StatusConflict, true},
		{CodeIdempotency, http.StatusConflict, true},
		{CodeTooLarge, http.StatusRequestEntityTooLarge, true},
		{CodeRateLimit, http.StatusTooManyRequests, true},
		{CodeInternal, http.StatusInternalServerError, false},
		{CodeDependency, http.StatusServiceUnavailable, false},
		{"SOMETHING_UNKNOWN", http.StatusInternalServerError, false},
	}
	for _, tt := range tests {
		meta := MetadataFor(tt.code)
		if meta.HTTPStatus != tt.status || meta.Expose != tt.expose {
			t.Fatalf("%s: got status %d expose %v", tt.code, meta.HTTPStatus, meta.Expose)
		}
		if meta.PublicMessage == "" {
			t.Fatalf("%s: missing public message", tt.code)
		}
	}
}

func TestConstructors(t *testing.T) {
	base := New(CodeValidation, "Missing items or customer info")
	if base.Code() != CodeValidation || base.Message() != "Missing items or customer info" {
		t.Fatalf("unexpected error %v", base)
	}
	if base.WithDetails(map[string]string{"items": "is required"}).Details() == nil {
		t.Fatal("details should be kept")
	}

	cause := stdErrors.New("dial tcp: connection refused")
	wrapped := Wrap(CodeDependency, cause, "send quotation email")
	if !stdErrors.Is(wrapped, cause) {
		t.Fatal("Wrap must keep the cause")
	}
	if !strings.Contains(wrapped.Error(), "connection refused") {
		t.Fatalf("Error() should mention the cause: %s", wrapped.Error())
	}
	if Wrap(CodeInternal, nil, "x").Unwrap() != nil {
		t.Fatal("nil cause should unwrap to nil")
	}

	if got := Newf(CodeNotFound, "product %d not found", 7).Message(); got != "product 7 not found" {
		t.Fatalf("unexpected message %q", got)
	}

	var nilErr *Error
	if nilErr.Code() != CodeInternal || nilErr.Message() != "" || nilErr.Error() != "" {
		t.Fatal("nil *Error accessors must be safe")
	}
}

func TestAsAndIsCode(t *testing.T) {
	err := fmt.Errorf("handler: %w", New(CodeNotFound, "Product not found"))
	if got := As(err); got == nil || got.Code() != CodeNotFound {
		t.Fatal("As should find the wrapped error")
	}
	if !IsCode(err, CodeNotFound) || IsCode(err, CodeValidation) {
		t.Fatal("IsCode mismatch")
	}
	if IsCode(stdErrors.New("plain"), CodeNotFound) || As(nil) != nil {
		t.Fatal("untyped errors carry no code")
	}
}

func TestDump(t *testing.T) {
	if Dump(nil).Message != "" {
		t.Fatal("expected an empty report for nil")
	}

	err := Wrap(CodeDependency, fmt.Errorf("smtp: %w", stdErrors.New("refused")), "send mail")
	r := Dump(err)
	if r.Code != CodeDependency || len(r.Chain) != 3 || r.DB != nil {
		t.Fatalf("unexpected report %+v", r)
	}
	if _, ok := r.Fields()["db_engine"]; ok {
		t.Fatal("no db fields expected")
	}
}

func TestDumpDatabaseErrors(t *testing.T) {
	pgErr := &pgconn.PgError{Code: "23505", ConstraintName: "idx_pages_slug", TableName: "pages"}
	r := Dump(Wrap(CodeConflict, pgErr, "slug taken"))
	if r.DB == nil || r.DB.Engine != "postgres" || r.DB.Code != "23505" || r.DB.Constraint != "idx_pages_slug" {
		t.Fatalf("unexpected postgres detail %+v", r.DB)
	}
	if r.Fields()["db_table"] != "pages" {
		t.Fatalf("db_table missing from fields: %v", r.Fields())
	}

	liteErr := sqlite3.Error{Code: sqlite3.ErrConstraint, ExtendedCode: sqlite3.ErrConstraintUnique}
	r = Dump(Wrap(CodeConflict, liteErr, "email taken"))
	if r.DB == nil || r.DB.Engine != "sqlite" || r.DB.Code == "" {
		t.Fatalf("unexpected sqlite detail %+v", r.DB)
	}
}

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	pkgAuth "github.com/angelmondragon/carpenter-backend/pkg/auth"
	"github.com/angelmondragon/carpenter-backend/pkg/config"
)

var testJWT = config.JWTConfig{Secret: "secret", Issuer: "carpenter", ExpirationMinutes: 30}

func TestAdminAuthSeedsAdminID(t *testing.T) {
	token, _, err := pkgAuth.MintAccessToken(testJWT, time.Now(), pkgAuth.AccessTokenPayload{AdminID: 42, Email: "a@example.com"})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}

	var seen uint
	handler := AdminAuth(testJWT, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = AdminIDFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodPatch, "/api/products/1", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if seen != 42 {
		t.Fatalf("expected admin id 42, got %d", seen)
	}
}

func TestAdminAuthRejects(t *testing.T) {
	expired, _, err := pkgAuth.MintAccessToken(testJWT, time.Now().Add(-2*time.Hour), pkgAuth.AccessTokenPayload{AdminID: 1})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	other := config.JWTConfig{Secret: "other", Issuer: "carpenter", ExpirationMinutes: 30}
	forged, _, err := pkgAuth.MintAccessToken(other, time.Now(), pkgAuth.AccessTokenPayload{AdminID: 1})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}

	cases := map[string]string{
		"missing": "",
		"garbage": "Bearer not-a-jwt",
		"expired": "Bearer " + expired,
		"forged":  "Bearer " + forged,
	}
	for name, header := range cases {
		t.Run(name, func(t *testing.T) {
			called := false
			handler := AdminAuth(testJWT, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				called = true
			}))
			req := httptest.NewRequest(http.MethodGet, "/api/admin/pages", nil)
			if header != "" {
				req.Header.Set("Authorization", header)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != http.StatusUnauthorized {
				t.Fatalf("expected 401, got %d", rec.Code)
			}
			if called {
				t.Fatalf("handler must not run")
			}
		})
	}
}

package middleware

import (
	"context"
	"net/http"
	"regexp"

	"github.com/google/uuid"

	"github.com/angelmondragon/carpenter-backend/pkg/logger"
)

const (
	requestIDHeader   = "X-Request-Id"
	ctxRequestID      = contextKey("request_id")
	maxRequestIDBytes = 64
)

// inbound ids end up in log lines and response headers
var requestIDPattern = regexp.MustCompile(`^[A-Za-z0-9._-]+$`)

// RequestID tags each request with an id. A well-formed X-Request-Id from the
// storefront or a proxy is kept so one quote can be traced across hops;
// anything else is replaced with a fresh uuid.
func RequestID(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get(requestIDHeader)
			if len(id) > maxRequestIDBytes || !requestIDPattern.MatchString(id) {
				id = uuid.NewString()
			}
			w.Header().Set(requestIDHeader, id)

			ctx := context.WithValue(r.Context(), ctxRequestID, id)
			if logg != nil {
				ctx = logg.WithRequestID(ctx, id)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequestIDFromContext returns the id assigned by RequestID, or "".
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(ctxRequestID).(string)
	return id
}

package middleware

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/angelmondragon/carpenter-backend/api/responses"
	"github.com/angelmondragon/carpenter-backend/api/validators"
	pkgerrors "github.com/angelmondragon/carpenter-backend/pkg/errors"
	"github.com/angelmondragon/carpenter-backend/pkg/logger"
	pkgredis "github.com/angelmondragon/carpenter-backend/pkg/redis"
)

const (
	idempotencyHeader    = "Idempotency-Key"
	replayedHeader       = "Idempotent-Replayed"
	maxIdempotencyKeyLen = 128

	// inFlightTTL bounds how long a crashed request can hold its key.
	inFlightTTL  = 2 * time.Minute
	inFlightMark = "in-flight:"
)

type IdempotencyStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	SetNX(ctx context.Context, key string, value any, ttl time.Duration) (bool, error)
	Del(ctx context.Context, keys ...string) error
	IdempotencyKey(scope, id string) string
}

type IdempotencyOptions struct {
	// TTL is how long a completed response is replayed. Defaults to 24h.
	TTL time.Duration
	// MessageBody renders errors as {"message"} for the submission endpoints.
	MessageBody bool
}

// storedResponse is what a repeated key replays.
type storedResponse struct {
	Status      int    `json:"status"`
	ContentType string `json:"content_type,omitempty"`
	Body        []byte `json:"body"`
	Fingerprint string `json:"fingerprint"`
}

// Idempotency makes POST requests carrying an Idempotency-Key run at most
// once per key. The key is reserved before the handler runs, so a concurrent
// retry gets 409 instead of sending a second email. Completed responses below
// 500 are replayed; server errors release the key so the client can retry.
func Idempotency(store IdempotencyStore, opts IdempotencyOptions, logg *logger.Logger) func(http.Handler) http.Handler {
	if opts.TTL <= 0 {
		opts.TTL = 24 * time.Hour
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := strings.TrimSpace(r.Header.Get(idempotencyHeader))
			if r.Method != http.MethodPost || store == nil || id == "" {
				next.ServeHTTP(w, r)
				return
			}
			ctx := r.Context()
			fail := func(err error) {
				if opts.MessageBody {
					responses.WriteMessageError(ctx, logg, w, err, "")
				} else {
					responses.WriteError(ctx, logg, w, err)
				}
			}

			if len(id) > maxIdempotencyKeyLen {
				fail(pkgerrors.New(pkgerrors.CodeValidation, "Idempotency-Key is too long"))
				return
			}
			body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, validators.MaxBodyBytes))
			if err != nil {
				var tooLarge *http.MaxBytesError
				if errors.As(err, &tooLarge) {
					fail(pkgerrors.Wrap(pkgerrors.CodeTooLarge, err, "Request body too large"))
					return
				}
				fail(pkgerrors.Wrap(pkgerrors.CodeValidation, err, "read request"))
				return
			}
			r.Body = io.NopCloser(bytes.NewReader(body))

			fingerprint := fingerprintOf(body)
			key := store.IdempotencyKey(idempotencyScope(r), id)

			reserved, err := store.SetNX(ctx, key, inFlightMark+fingerprint, inFlightTTL)
			if err != nil {
				fail(pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reserve idempotency key"))
				return
			}
			if !reserved {
				if err := replayStored(ctx, store, key, fingerprint, w); err != nil {
					fail(err)
				}
				return
			}

			capture := &captureWriter{ResponseWriter: w}
			next.ServeHTTP(capture, r)

			if capture.statusCode() >= http.StatusInternalServerError {
				if err := store.Del(ctx, key); err != nil && logg != nil {
					logg.Error(ctx, "idempotency.release_failed", err)
				}
				return
			}
			payload, _ := json.Marshal(storedResponse{
				Status:      capture.statusCode(),
				ContentType: capture.Header().Get("Content-Type"),
				Body:        capture.body.Bytes(),
				Fingerprint: fingerprint,
			})
			if err := store.Set(ctx, key, string(payload), opts.TTL); err != nil && logg != nil {
				logg.Error(ctx, "idempotency.persist_failed", err)
			}
		})
	}
}

// replayStored answers a request whose key is already taken.
func replayStored(ctx context.Context, store IdempotencyStore, key, fingerprint string, w http.ResponseWriter) error {
	raw, err := store.Get(ctx, key)
	switch {
	case pkgredis.IsNil(err):
		// released or expired between SetNX and Get
		return pkgerrors.New(pkgerrors.CodeIdempotency, "Idempotency-Key was just released, retry the request")
	case err != nil:
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read idempotency key")
	}

	if pending, ok := strings.CutPrefix(raw, inFlightMark); ok {
		if pending != fingerprint {
			return reusedKeyError()
		}
		return pkgerrors.New(pkgerrors.CodeIdempotency, "A request with this Idempotency-Key is still in progress")
	}

	var stored storedResponse
	if err := json.Unmarshal([]byte(raw), &stored); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode idempotency record")
	}
	if stored.Fingerprint != fingerprint {
		return reusedKeyError()
	}

	if stored.ContentType != "" {
		w.Header().Set("Content-Type", stored.ContentType)
	}
	w.Header().Set(replayedHeader, "true")
	w.WriteHeader(stored.Status)
	_, _ = w.Write(stored.Body)
	return nil
}

func reusedKeyError() error {
	return pkgerrors.New(pkgerrors.CodeIdempotency, "Idempotency-Key reused with a different request body")
}

// idempotencyScope keeps keys from different endpoints and admins apart.
func idempotencyScope(r *http.Request) string {
	scope := r.Method + "|" + r.URL.Path
	if id := AdminIDFromContext(r.Context()); id != 0 {
		scope += "|admin:" + strconv.FormatUint(uint64(id), 10)
	}
	return scope
}

func fingerprintOf(body []byte) string {
	sum := sha256.Sum256(body)
	return hex.EncodeToString(sum[:])
}

type captureWriter struct {
	http.ResponseWriter
	body   bytes.Buffer
	status int
}

func (c *captureWriter) WriteHeader(code int) {
	if c.status == 0 {
		c.status = code
	}
	c.ResponseWriter.WriteHeader(code)
}

func (c *captureWriter) Write(b []byte) (int, error) {
	if c.status == 0 {
		c.status = http.StatusOK
	}
	c.body.Write(b)
	return c.ResponseWriter.Write(b)
}

func (c *captureWriter) statusCode() int {
	if c.status == 0 {
		return http.StatusOK
	}
	return c.status
}

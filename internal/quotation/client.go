package quotation

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	pkgerrors "github.com/angelmondragon/carpenter-backend/pkg/errors"
	"github.com/angelmondragon/carpenter-backend/pkg/types"
)

type idempotencyKeyCtx struct{}

// WithIdempotencyKey fixes the Idempotency-Key HTTPSubmitter sends for every
// attempt made with ctx. Reusing the key on a later retry lets the API replay
// its first answer instead of mailing the quote again.
func WithIdempotencyKey(ctx context.Context, key string) context.Context {
	return context.WithValue(ctx, idempotencyKeyCtx{}, key)
}

// IdempotencyKeyFrom returns the key set by WithIdempotencyKey, or "".
func IdempotencyKeyFrom(ctx context.Context) string {
	key, _ := ctx.Value(idempotencyKeyCtx{}).(string)
	return key
}

// HTTPSubmitter sends quotation requests to a remote API. All attempts of one
// Submit share an Idempotency-Key, so its own retries after a timeout or a
// 502/503/504 are answered from the server's replay store.
type HTTPSubmitter struct {
	baseURL  string
	client   *http.Client
	attempts int
	backoff  time.Duration
}

type SubmitterOption func(*HTTPSubmitter)

// WithRetries sets how many attempts Submit makes and the wait before the
// second one; the wait doubles after each failure.
func WithRetries(attempts int, backoff time.Duration) SubmitterOption {
	return func(h *HTTPSubmitter) {
		h.attempts, h.backoff = max(attempts, 1), backoff
	}
}

func NewHTTPSubmitter(baseURL string, client *http.Client, opts ...SubmitterOption) *HTTPSubmitter {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	h := &HTTPSubmitter{
		baseURL:  strings.TrimRight(baseURL, "/"),
		client:   client,
		attempts: 3,
		backoff:  500 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *HTTPSubmitter) Submit(ctx context.Context, req SubmitRequest) error {
	raw, err := json.Marshal(req)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, MsgSubmitFailed)
	}
	key := IdempotencyKeyFrom(ctx)
	if key == "" {
		key = uuid.NewString()
	}

	wait := h.backoff
	for attempt := 1; ; attempt++ {
		retry, err := h.post(ctx, key, raw)
		if err == nil || !retry || attempt >= h.attempts {
			return err
		}
		select {
		case <-ctx.Done():
			return err
		case <-time.After(wait):
		}
		wait *= 2
	}
}

// post makes one attempt and reports whether a retry with the same key is
// safe and could succeed.
func (h *HTTPSubmitter) post(ctx context.Context, key string, raw []byte) (bool, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, h.baseURL+"/api/quotation", bytes.NewReader(raw))
	if err != nil {
		return false, pkgerrors.Wrap(pkgerrors.CodeInternal, err, MsgSubmitFailed)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Idempotency-Key", key)

	resp, err := h.client.Do(httpReq)
	if err != nil {
		return ctx.Err() == nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, MsgSubmitFailed)
	}
	defer resp.Body.Close()

	var body types.MessageBody
	_ = json.NewDecoder(io.LimitReader(resp.Body, 4096)).Decode(&body)

	switch status := resp.StatusCode; {
	case status == http.StatusOK:
		return false, nil
	case status == http.StatusConflict:
		// the first attempt may still be in flight on the server
		return true, pkgerrors.New(pkgerrors.CodeIdempotency, orStatusText(body.Message, status))
	case status == http.StatusTooManyRequests:
		return false, pkgerrors.New(pkgerrors.CodeRateLimit, orStatusText(body.Message, status))
	case status >= 400 && status < 500:
		return false, pkgerrors.New(pkgerrors.CodeValidation, orStatusText(body.Message, status))
	default:
		retry := status == http.StatusBadGateway || status == http.StatusServiceUnavailable || status == http.StatusGatewayTimeout
		return retry, pkgerrors.Newf(pkgerrors.CodeDependency, "%s (status %d)", MsgSubmitFailed, status)
	}
}

func orStatusText(msg string, status int) string {
	if msg == "" {
		return http.StatusText(status)
	}
	return msg
}

// SubmitStore sends the cart's lines and clears the cart only once the
// submitter reports success. On failure the cart is left intact for a retry.
func SubmitStore(ctx context.Context, s *Store, sub Submitter, info CustomerInfo) error {
	items := s.Items()
	if err := sub.Submit(ctx, SubmitRequest{Items: items, CustomerInfo: &info}); err != nil {
		return err
	}
	s.Clear(ctx)
	return nil
}

package redis

import "strings"

const namespace = "carpenter"

// QuotationKey is where a server cart is stored:
// carpenter:carpenter-quotation:<cartId>.
func (c *Client) QuotationKey(cartID string) string {
	return key("carpenter-quotation", cartID)
}

// IdempotencyKey scopes a client supplied Idempotency-Key to a route.
func (c *Client) IdempotencyKey(scope, id string) string {
	return key("idempotency", scope, id)
}

// RateLimitKey names a fixed-window counter.
func (c *Client) RateLimitKey(scope string) string {
	return key("rate_limit", scope)
}

func key(parts ...string) string {
	var b strings.Builder
	b.WriteString(namespace)
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			b.WriteByte(':')
			b.WriteString(p)
		}
	}
	return b.String()
}

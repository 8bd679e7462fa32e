// Package render turns templ components into email bodies and HTML
// responses.
package render

import (
	"bytes"
	"context"
	"net/http"
	"strings"

	"github.com/a-h/templ"
)

// ToString renders a component into a string, e.g. for an email body.
func ToString(ctx context.Context, c templ.Component) (string, error) {
	var b strings.Builder
	if err := c.Render(ctx, &b); err != nil {
		return "", err
	}
	return b.String(), nil
}

// HTML renders c fully before writing anything, so a failed render leaves
// the response untouched for the caller's error page.
func HTML(w http.ResponseWriter, r *http.Request, status int, c templ.Component) error {
	var buf bytes.Buffer
	if err := c.Render(r.Context(), &buf); err != nil {
		return err
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err := buf.WriteTo(w)
	return err
}

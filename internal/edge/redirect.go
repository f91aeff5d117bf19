package edge

import (
	"html"
	"net/http"
	"net/url"
)

// guestErrorMessage is the single message shown for every authorization
// failure. Not-found, expired, and wrong-tenant are deliberately collapsed so
// the error surface cannot be used as an oracle to probe token state; the
// precise reason is logged server-side by the engine.
const guestErrorMessage = "This link is no longer valid. Please contact the front desk for assistance."

// redirectError sends the guest to the generic error surface.
func (d *Dispatcher) redirectError(w http.ResponseWriter, r *http.Request) {
	target := "/error?message=" + url.QueryEscape(guestErrorMessage)
	http.Redirect(w, r, target, http.StatusSeeOther)
}

// handleError renders the error surface. The message parameter is escaped
// and capped so the endpoint cannot be abused to reflect arbitrary content.
func (d *Dispatcher) handleError(w http.ResponseWriter, r *http.Request) {
	msg := r.URL.Query().Get("message")
	if msg == "" || len(msg) > 200 {
		msg = guestErrorMessage
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("<!doctype html><title>Something went wrong</title><h1>We're sorry</h1><p>" +
		html.EscapeString(msg) + "</p>"))
}

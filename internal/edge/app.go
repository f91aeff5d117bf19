package edge

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/innkeep/innkeep/internal/store"
	"github.com/innkeep/innkeep/pkg/cookie"
	"github.com/innkeep/innkeep/pkg/qrcode"
	"github.com/innkeep/innkeep/pkg/ratelimit"
	"github.com/innkeep/innkeep/pkg/tenant"
	"github.com/innkeep/innkeep/pkg/token"
)

// appRouter serves one hotel tenant. The tenant has already been authorized
// and placed in context by the dispatcher.
func (d *Dispatcher) appRouter() http.Handler {
	r := chi.NewRouter()

	limited := ratelimit.Middleware(d.deps.Limiter, ratelimit.ClientIPKey, d.deps.Log)

	r.Route("/c/{token}", func(cr chi.Router) {
		cr.Use(limited, d.requireCheckIn)
		cr.Get("/qr", d.handleCheckInQR)
		cr.Post("/complete", d.handleCheckInComplete)
		cr.Get("/", d.handleCheckIn)
		cr.Get("/*", d.handleCheckIn)
	})

	r.Route("/guest-app", func(gr chi.Router) {
		gr.Use(d.requireSession)
		gr.Get("/", d.handleGuestApp)
		gr.Get("/*", d.handleGuestApp)
	})

	r.Route("/minibar", func(mr chi.Router) {
		mr.Use(d.optionalSession)
		mr.With(limited).Post("/order", d.handleMinibarOrder)
		mr.Get("/", d.handleMinibar)
		mr.Get("/*", d.handleMinibar)
	})

	// The error surface is handled by the dispatcher ahead of the tenant
	// gate so it stays reachable when the gate itself denies.
	r.Get("/", d.handleTenantHome)

	return r
}

// requireCheckIn guards the check-in namespace with AuthorizeCheckIn.
func (d *Dispatcher) requireCheckIn(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ten := tenant.MustFromContext(r.Context())
		tok := chi.URLParam(r, "token")

		result := d.deps.Engine.AuthorizeCheckIn(r.Context(), tok, ten)
		if !result.Valid() {
			d.redirectError(w, r)
			return
		}

		ctx := WithTokenGrant(r.Context(), result.Grant)
		r = r.WithContext(ctx)
		r.Header.Set(HeaderGuest, result.Grant.Guest.ID.String())
		next.ServeHTTP(w, r)
	})
}

// requireSession guards the guest app with AuthorizeGuestSession.
func (d *Dispatcher) requireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ten := tenant.MustFromContext(r.Context())

		sessionToken, err := d.deps.Cookies.GetSigned(r, GuestSessionCookie)
		if err != nil {
			d.redirectError(w, r)
			return
		}

		result := d.deps.Engine.AuthorizeGuestSession(r.Context(), sessionToken, ten)
		if !result.Valid() {
			d.redirectError(w, r)
			return
		}

		ctx := WithSessionGrant(r.Context(), result.Grant)
		r = r.WithContext(ctx)
		r.Header.Set(HeaderGuest, result.Grant.Guest.ID.String())
		r.Header.Set(HeaderSession, result.Grant.Session.ID.String())
		next.ServeHTTP(w, r)
	})
}

// optionalSession attaches a session grant when a valid cookie is present
// and passes through unauthenticated otherwise. The minibar proves identity
// at order time instead.
func (d *Dispatcher) optionalSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ten := tenant.MustFromContext(r.Context())

		if sessionToken, err := d.deps.Cookies.GetSigned(r, GuestSessionCookie); err == nil {
			if result := d.deps.Engine.AuthorizeGuestSession(r.Context(), sessionToken, ten); result.Valid() {
				ctx := WithSessionGrant(r.Context(), result.Grant)
				r = r.WithContext(ctx)
				r.Header.Set(HeaderGuest, result.Grant.Guest.ID.String())
				r.Header.Set(HeaderSession, result.Grant.Session.ID.String())
			}
		}

		next.ServeHTTP(w, r)
	})
}

func (d *Dispatcher) handleTenantHome(w http.ResponseWriter, r *http.Request) {
	ten := tenant.MustFromContext(r.Context())
	writeJSON(w, http.StatusOK, map[string]any{
		"hotel":     ten.Name,
		"subdomain": ten.Subdomain,
	})
}

// handleCheckIn forwards the validated check-in context downstream. The
// wizard UI itself is rendered elsewhere; the edge's contract is the
// authorized guest/booking payload.
func (d *Dispatcher) handleCheckIn(w http.ResponseWriter, r *http.Request) {
	ten := tenant.MustFromContext(r.Context())
	grant, _ := TokenGrantFromContext(r.Context())

	payload := map[string]any{
		"hotel": ten.Name,
		"guest": map[string]any{
			"id":         grant.Guest.ID,
			"first_name": grant.Guest.FirstName,
			"last_name":  grant.Guest.LastName,
		},
	}
	if b := grant.Booking; b != nil {
		payload["booking"] = map[string]any{
			"room_number": b.RoomNumber,
			"room_type":   b.RoomType,
			"check_in":    b.CheckIn,
			"check_out":   b.CheckOut,
			"guest_count": b.GuestCount,
		}
	}
	writeJSON(w, http.StatusOK, payload)
}

// handleCheckInQR renders the canonical check-in URL as a PNG QR code for
// printed collateral and front-desk screens.
func (d *Dispatcher) handleCheckInQR(w http.ResponseWriter, r *http.Request) {
	ten := tenant.MustFromContext(r.Context())
	grant, _ := TokenGrantFromContext(r.Context())

	url := "https://" + ten.Subdomain + "." + d.cfg.RootDomain + "/c/" + grant.Token.Token
	png, err := qrcode.Generate(url, 0)
	if err != nil {
		d.deps.Log.ErrorContext(r.Context(), "qr generation failed", "error", err)
		d.redirectError(w, r)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	_, _ = w.Write(png)
}

// handleCheckInComplete finishes the check-in flow: it mints a guest
// session, marks the token used, and sets the session cookie before sending
// the guest into the app.
func (d *Dispatcher) handleCheckInComplete(w http.ResponseWriter, r *http.Request) {
	ten := tenant.MustFromContext(r.Context())
	grant, _ := TokenGrantFromContext(r.Context())

	sessionToken, err := token.GenerateSessionToken()
	if err != nil {
		d.deps.Log.ErrorContext(r.Context(), "session token generation failed", "error", err)
		d.redirectError(w, r)
		return
	}

	now := time.Now()
	session := &store.GuestSession{
		ID:             uuid.New(),
		TenantID:       ten.ID,
		GuestID:        grant.Guest.ID,
		Token:          sessionToken,
		ExpiresAt:      now.Add(d.cfg.GuestSessionTTL),
		LastActivityAt: now,
		CreatedAt:      now,
	}
	if b := grant.Booking; b != nil {
		session.BookingID = &b.ID
	}

	if err := d.deps.Store.CreateGuestSession(r.Context(), session); err != nil {
		d.deps.Log.ErrorContext(r.Context(), "failed to create guest session", "error", err)
		d.redirectError(w, r)
		return
	}

	// The token is spent; a failed status write is tolerable because the
	// session already exists and expiry will catch the token later.
	if err := d.deps.Store.SetTokenStatus(r.Context(), grant.Token.ID, store.TokenUsed); err != nil {
		d.deps.Log.ErrorContext(r.Context(), "failed to mark token used", "error", err)
	}

	_ = d.deps.Cookies.SetSigned(w, GuestSessionCookie, sessionToken,
		cookie.WithMaxAge(int(d.cfg.GuestSessionTTL.Seconds())),
		cookie.WithSecure(d.cfg.SecureCookies),
	)
	http.Redirect(w, r, "/guest-app", http.StatusSeeOther)
}

func (d *Dispatcher) handleGuestApp(w http.ResponseWriter, r *http.Request) {
	ten := tenant.MustFromContext(r.Context())
	grant, _ := SessionGrantFromContext(r.Context())

	payload := map[string]any{
		"hotel": ten.Name,
		"guest": map[string]any{
			"id":         grant.Guest.ID,
			"first_name": grant.Guest.FirstName,
			"last_name":  grant.Guest.LastName,
		},
	}
	if b := grant.Booking; b != nil {
		payload["room_number"] = b.RoomNumber
	}
	writeJSON(w, http.StatusOK, payload)
}

// handleMinibar serves the menu. Works with or without a session.
func (d *Dispatcher) handleMinibar(w http.ResponseWriter, r *http.Request) {
	ten := tenant.MustFromContext(r.Context())

	payload := map[string]any{"hotel": ten.Name}
	if grant, ok := SessionGrantFromContext(r.Context()); ok {
		payload["guest"] = grant.Guest.FirstName
	}
	writeJSON(w, http.StatusOK, payload)
}

// handleMinibarOrder accepts an order. A session proves identity by itself;
// without one the guest supplies last name and room number, checked against
// currently checked-in guests of this tenant.
func (d *Dispatcher) handleMinibarOrder(w http.ResponseWriter, r *http.Request) {
	ten := tenant.MustFromContext(r.Context())

	var guestID uuid.UUID
	if grant, ok := SessionGrantFromContext(r.Context()); ok {
		guestID = grant.Guest.ID
	} else {
		if err := r.ParseForm(); err != nil {
			d.redirectError(w, r)
			return
		}
		lastName := r.PostFormValue("last_name")
		roomNumber := r.PostFormValue("room_number")
		if lastName == "" || roomNumber == "" {
			d.redirectError(w, r)
			return
		}

		guest, err := d.deps.Store.FindCheckedInGuest(r.Context(), ten.ID, lastName, roomNumber)
		if err != nil {
			d.deps.Log.InfoContext(r.Context(), "minibar identity check failed", "error", err)
			d.redirectError(w, r)
			return
		}
		guestID = guest.ID
	}

	r.Header.Set(HeaderGuest, guestID.String())
	writeJSON(w, http.StatusAccepted, map[string]any{
		"status":   "accepted",
		"guest_id": guestID,
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

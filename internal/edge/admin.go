package edge

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/innkeep/innkeep/internal/notify"
	"github.com/innkeep/innkeep/internal/store"
	"github.com/innkeep/innkeep/pkg/cookie"
)

const (
	adminLoginPath     = "/admin/login"
	adminDashboardPath = "/admin/dashboard"
)

// adminRouter serves the operator portal on the reserved admin subdomain.
func (d *Dispatcher) adminRouter() http.Handler {
	r := chi.NewRouter()
	r.Use(d.operatorGate)

	r.Get("/", func(w http.ResponseWriter, req *http.Request) {
		http.Redirect(w, req, adminDashboardPath, http.StatusSeeOther)
	})
	r.Get(adminLoginPath, d.handleAdminLoginPage)
	r.Post(adminLoginPath, d.handleAdminLogin)
	r.Get("/admin/logout", d.handleAdminLogout)
	r.Get(adminDashboardPath, d.handleAdminDashboard)
	r.Post("/admin/tokens/{id}/send", d.handleSendCheckInLink)

	return r
}

// operatorGate is the two-state reflex guarding the portal: an operator
// without a session lands on the login page, an operator with one is kept
// away from it.
func (d *Dispatcher) operatorGate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authed := d.operatorAuthenticated(r)

		if r.URL.Path == adminLoginPath {
			if authed && r.Method == http.MethodGet {
				http.Redirect(w, r, adminDashboardPath, http.StatusSeeOther)
				return
			}
			next.ServeHTTP(w, r)
			return
		}

		if !authed {
			http.Redirect(w, r, adminLoginPath, http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// operatorAuthenticated checks for a validly signed operator cookie holding
// an operator id.
func (d *Dispatcher) operatorAuthenticated(r *http.Request) bool {
	value, err := d.deps.Cookies.GetSigned(r, OperatorSessionCookie)
	if err != nil {
		return false
	}
	_, err = uuid.Parse(value)
	return err == nil
}

func (d *Dispatcher) handleAdminLoginPage(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(`<!doctype html><title>Operator login</title>` +
		`<form method="post" action="` + adminLoginPath + `">` +
		`<input name="email" type="email" placeholder="Email">` +
		`<input name="password" type="password" placeholder="Password">` +
		`<button>Sign in</button></form>`))
}

func (d *Dispatcher) handleAdminLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Redirect(w, r, adminLoginPath, http.StatusSeeOther)
		return
	}
	email := r.PostFormValue("email")
	password := r.PostFormValue("password")

	op, err := d.deps.Store.GetOperatorByEmail(r.Context(), email)
	if err != nil {
		// Burn a comparison anyway so absent and present accounts take the
		// same time.
		_ = bcrypt.CompareHashAndPassword([]byte("$2a$10$0000000000000000000000uGZv7tP7bKQmVDC9QMYhvOqW3zrkG/q"), []byte(password))
		d.deps.Log.InfoContext(r.Context(), "operator login rejected", "email", email)
		http.Redirect(w, r, adminLoginPath, http.StatusSeeOther)
		return
	}

	if bcrypt.CompareHashAndPassword([]byte(op.PasswordHash), []byte(password)) != nil {
		d.deps.Log.InfoContext(r.Context(), "operator login rejected", "email", email)
		http.Redirect(w, r, adminLoginPath, http.StatusSeeOther)
		return
	}

	_ = d.deps.Cookies.SetSigned(w, OperatorSessionCookie, op.ID.String(),
		cookie.WithMaxAge(int(d.cfg.OperatorSessionTTL.Seconds())),
		cookie.WithSecure(d.cfg.SecureCookies),
	)
	http.Redirect(w, r, adminDashboardPath, http.StatusSeeOther)
}

func (d *Dispatcher) handleAdminLogout(w http.ResponseWriter, r *http.Request) {
	d.deps.Cookies.Delete(w, OperatorSessionCookie)
	http.Redirect(w, r, adminLoginPath, http.StatusSeeOther)
}

func (d *Dispatcher) handleAdminDashboard(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"portal": "operator", "status": "ok"})
}

// handleSendCheckInLink (re)sends a guest their check-in link.
func (d *Dispatcher) handleSendCheckInLink(w http.ResponseWriter, r *http.Request) {
	tokenID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid token id", http.StatusBadRequest)
		return
	}

	grant, err := d.deps.Store.GetGuestTokenByID(r.Context(), tokenID)
	if err != nil {
		http.Error(w, "token not found", http.StatusNotFound)
		return
	}
	if grant.Token.Status != store.TokenActive {
		http.Error(w, "token is not active", http.StatusConflict)
		return
	}

	ten, err := d.deps.Store.GetTenantByID(r.Context(), grant.Token.TenantID)
	if err != nil {
		http.Error(w, "tenant not found", http.StatusNotFound)
		return
	}

	msg := notify.CheckInLink{
		To:        grant.Guest.Email,
		GuestName: grant.Guest.FirstName,
		HotelName: ten.Name,
		URL:       "https://" + ten.Subdomain + "." + d.cfg.RootDomain + "/c/" + grant.Token.Token,
	}
	if err := d.deps.Notifier.SendCheckInLink(r.Context(), msg); err != nil {
		d.deps.Log.ErrorContext(r.Context(), "check-in link delivery failed", "error", err)
		http.Error(w, "delivery failed", http.StatusBadGateway)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"status": "sent"})
}

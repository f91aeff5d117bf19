package edge

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/innkeep/innkeep/internal/authz"
	"github.com/innkeep/innkeep/internal/notify"
	"github.com/innkeep/innkeep/internal/store"
	"github.com/innkeep/innkeep/pkg/cookie"
	"github.com/innkeep/innkeep/pkg/ratelimit"
	"github.com/innkeep/innkeep/pkg/reqcache"
	"github.com/innkeep/innkeep/pkg/tenant"
)

// Config holds dispatcher settings.
type Config struct {
	RootDomain         string
	SecureCookies      bool
	GuestSessionTTL    time.Duration
	OperatorSessionTTL time.Duration

	// Healthchecks are probed by /healthz on the marketing surface.
	Healthchecks map[string]func(context.Context) error
}

// Deps are the dispatcher's collaborators.
type Deps struct {
	Resolver *tenant.Resolver
	Engine   *authz.Engine
	Store    store.Store
	Cookies  *cookie.Manager
	Limiter  ratelimit.Allower
	Notifier notify.Sender
	Log      *slog.Logger
}

// Dispatcher routes every inbound request to the surface its hostname
// addresses. It implements http.Handler.
type Dispatcher struct {
	cfg  Config
	deps Deps

	admin     http.Handler
	marketing http.Handler
	app       http.Handler
}

// New creates the dispatcher and builds its three surface routers.
func New(cfg Config, deps Deps) *Dispatcher {
	if deps.Log == nil {
		deps.Log = slog.Default()
	}
	if deps.Notifier == nil {
		deps.Notifier = notify.NewDevSender(deps.Log)
	}

	d := &Dispatcher{cfg: cfg, deps: deps}
	d.admin = d.adminRouter()
	d.marketing = d.marketingRouter()
	d.app = d.appRouter()
	return d
}

// ServeHTTP classifies the hostname, attaches a fresh request cache, and
// hands off to the matching surface. Unresolved hostnames fall through to
// the marketing site.
func (d *Dispatcher) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// The cache must exist before any authorization runs so every consumer
	// of this request shares one set of store results.
	r = r.WithContext(reqcache.WithCache(r.Context()))

	res := d.deps.Resolver.Resolve(r.Host)
	switch res.Kind {
	case tenant.KindAdmin:
		d.admin.ServeHTTP(w, r)
	case tenant.KindTenant:
		d.serveTenant(w, r, res.Subdomain)
	default:
		d.marketing.ServeHTTP(w, r)
	}
}

// serveTenant gates the hotel surface behind AuthorizeTenant and propagates
// the resolved tenant before entering the app router.
func (d *Dispatcher) serveTenant(w http.ResponseWriter, r *http.Request, subdomain string) {
	// The error surface must stay reachable when tenant authorization itself
	// fails, or the failure redirect would loop back onto itself.
	if r.URL.Path == "/error" {
		d.handleError(w, r)
		return
	}

	result := d.deps.Engine.AuthorizeTenant(r.Context(), subdomain)
	if !result.Valid() {
		d.redirectError(w, r)
		return
	}

	ctx := tenant.WithTenant(r.Context(), result.Tenant)
	r = r.WithContext(ctx)
	r.Header.Set(HeaderTenant, result.Tenant.Subdomain)
	d.app.ServeHTTP(w, r)
}

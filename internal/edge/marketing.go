package edge

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
)

// marketingRouter serves the public site and the process health endpoint.
// No authorization runs here.
func (d *Dispatcher) marketingRouter() http.Handler {
	r := chi.NewRouter()

	r.Get("/healthz", d.handleHealthz)
	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte("<!doctype html><title>Innkeep</title><h1>Innkeep</h1><p>Guest experience for modern hotels.</p>"))
	})

	return r
}

func (d *Dispatcher) handleHealthz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	status := http.StatusOK
	checks := make(map[string]string, len(d.cfg.Healthchecks))
	for name, probe := range d.cfg.Healthchecks {
		if err := probe(ctx); err != nil {
			checks[name] = err.Error()
			status = http.StatusServiceUnavailable
		} else {
			checks[name] = "ok"
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(checks)
}

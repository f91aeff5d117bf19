package ratelimit_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/innkeep/innkeep/pkg/ratelimit"
)

type stubAllower struct {
	allowed bool
	err     error
	keys    []string
}

func (s *stubAllower) Allow(_ context.Context, key string) (bool, error) {
	s.keys = append(s.keys, key)
	return s.allowed, s.err
}

func TestMiddleware(t *testing.T) {
	t.Parallel()

	okHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	t.Run("allows within limit", func(t *testing.T) {
		t.Parallel()

		mw := ratelimit.Middleware(&stubAllower{allowed: true}, nil, nil)
		rec := httptest.NewRecorder()
		mw(okHandler).ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("rejects over limit", func(t *testing.T) {
		t.Parallel()

		mw := ratelimit.Middleware(&stubAllower{allowed: false}, nil, nil)
		rec := httptest.NewRecorder()
		mw(okHandler).ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))

		assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	})

	t.Run("fails open on limiter error", func(t *testing.T) {
		t.Parallel()

		stub := &stubAllower{err: errors.New("redis down")}
		mw := ratelimit.Middleware(stub, nil, nil)
		rec := httptest.NewRecorder()
		mw(okHandler).ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("nil limiter passes through", func(t *testing.T) {
		t.Parallel()

		mw := ratelimit.Middleware(nil, nil, nil)
		rec := httptest.NewRecorder()
		mw(okHandler).ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("keys by client ip", func(t *testing.T) {
		t.Parallel()

		stub := &stubAllower{allowed: true}
		mw := ratelimit.Middleware(stub, ratelimit.ClientIPKey, nil)

		req := httptest.NewRequest("GET", "/", nil)
		req.RemoteAddr = "10.1.2.3:51234"
		mw(okHandler).ServeHTTP(httptest.NewRecorder(), req)

		assert.Equal(t, []string{"10.1.2.3"}, stub.keys)
	})
}

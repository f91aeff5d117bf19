package reqcache_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/innkeep/innkeep/pkg/reqcache"
)

func TestCacheDo(t *testing.T) {
	t.Parallel()

	t.Run("computes once per key", func(t *testing.T) {
		t.Parallel()

		cache := reqcache.New()
		var calls int

		for range 3 {
			v, err := cache.Do("k", func() (any, error) {
				calls++
				return "value", nil
			})
			require.NoError(t, err)
			assert.Equal(t, "value", v)
		}

		assert.Equal(t, 1, calls)
	})

	t.Run("distinct keys compute separately", func(t *testing.T) {
		t.Parallel()

		cache := reqcache.New()
		var calls int
		fn := func() (any, error) { calls++; return calls, nil }

		_, _ = cache.Do("a", fn)
		_, _ = cache.Do("b", fn)

		assert.Equal(t, 2, calls)
	})

	t.Run("memoizes errors", func(t *testing.T) {
		t.Parallel()

		cache := reqcache.New()
		var calls int
		sentinel := errors.New("boom")

		for range 3 {
			_, err := cache.Do("k", func() (any, error) {
				calls++
				return nil, sentinel
			})
			assert.ErrorIs(t, err, sentinel)
		}

		assert.Equal(t, 1, calls)
	})

	t.Run("concurrent callers share one execution", func(t *testing.T) {
		t.Parallel()

		cache := reqcache.New()
		var calls atomic.Int64
		start := make(chan struct{})

		var wg sync.WaitGroup
		for range 50 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				<-start
				v, err := cache.Do("k", func() (any, error) {
					calls.Add(1)
					return "shared", nil
				})
				assert.NoError(t, err)
				assert.Equal(t, "shared", v)
			}()
		}
		close(start)
		wg.Wait()

		assert.Equal(t, int64(1), calls.Load())
	})

	t.Run("nil cache executes directly", func(t *testing.T) {
		t.Parallel()

		var cache *reqcache.Cache
		var calls int

		for range 2 {
			v, err := cache.Do("k", func() (any, error) {
				calls++
				return "direct", nil
			})
			require.NoError(t, err)
			assert.Equal(t, "direct", v)
		}

		assert.Equal(t, 2, calls)
	})

	t.Run("instances do not share results", func(t *testing.T) {
		t.Parallel()

		first := reqcache.New()
		second := reqcache.New()
		var calls int
		fn := func() (any, error) { calls++; return calls, nil }

		_, _ = first.Do("k", fn)
		_, _ = second.Do("k", fn)

		assert.Equal(t, 2, calls)
	})
}

func TestMemo(t *testing.T) {
	t.Parallel()

	t.Run("typed results", func(t *testing.T) {
		t.Parallel()

		cache := reqcache.New()
		v, err := reqcache.Memo(cache, "k", func() (int, error) { return 42, nil })
		require.NoError(t, err)
		assert.Equal(t, 42, v)
	})

	t.Run("zero value on error", func(t *testing.T) {
		t.Parallel()

		cache := reqcache.New()
		v, err := reqcache.Memo(cache, "k", func() (*string, error) {
			return nil, errors.New("boom")
		})
		require.Error(t, err)
		assert.Nil(t, v)
	})
}

func TestContext(t *testing.T) {
	t.Parallel()

	t.Run("round trip", func(t *testing.T) {
		t.Parallel()

		ctx := reqcache.WithCache(context.Background())
		assert.NotNil(t, reqcache.FromContext(ctx))
	})

	t.Run("missing cache is nil", func(t *testing.T) {
		t.Parallel()

		assert.Nil(t, reqcache.FromContext(context.Background()))
	})

	t.Run("each attach is a fresh cache", func(t *testing.T) {
		t.Parallel()

		first := reqcache.FromContext(reqcache.WithCache(context.Background()))
		second := reqcache.FromContext(reqcache.WithCache(context.Background()))
		assert.NotSame(t, first, second)
	})
}

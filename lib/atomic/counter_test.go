package atomic_test

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/chaisql/llsd/lib/atomic"
)

func TestCounter(t *testing.T) {
	var c atomic.Counter

	require.Equal(t, int64(1), c.Incr())
	require.Equal(t, int64(5), c.Add(4))
	require.Equal(t, int64(5), c.Reset())
	require.Equal(t, int64(0), c.Get())
}

func TestBoundedCounter(t *testing.T) {
	c := atomic.NewCounter(3)

	c.Incr()
	c.Incr()
	c.Incr()
	require.Equal(t, int64(3), c.Incr())

	c = atomic.NewCounter(math.MaxInt64)
	c.Add(math.MaxInt64 - 1)
	require.Equal(t, int64(math.MaxInt64), c.Add(10))
}

func TestConcurrentIncr(t *testing.T) {
	var c atomic.Counter

	g, _ := errgroup.WithContext(context.Background())
	for i := 0; i < 8; i++ {
		g.Go(func() error {
			for j := 0; j < 1000; j++ {
				c.Incr()
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())
	require.Equal(t, int64(8000), c.Get())
}

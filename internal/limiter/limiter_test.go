package limiter

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	redis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubFetcher struct {
	err   error
	calls int
}

func (s *stubFetcher) Fetch(context.Context, string) ([]byte, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return []byte("ok"), nil
}

func TestHostOf(t *testing.T) {
	tests := map[string]string{
		"https://cdn.example.com/a.png": "cdn.example.com",
		"s3://assets/designs/a.png":     "s3.assets",
		"file:///tmp/a.png":             "local",
		"/tmp/a.png":                    "local",
	}
	for ref, want := range tests {
		assert.Equal(t, want, HostOf(ref), ref)
	}
}

func TestBackoffDoublesAndCaps(t *testing.T) {
	a := New(Options{BaseBackoff: time.Second, MaxBackoff: 5 * time.Second})
	assert.Equal(t, time.Second, a.backoff(1))
	assert.Equal(t, 2*time.Second, a.backoff(2))
	assert.Equal(t, 4*time.Second, a.backoff(3))
	assert.Equal(t, 5*time.Second, a.backoff(4))
	assert.Equal(t, 5*time.Second, a.backoff(60))
}

func TestAllow(t *testing.T) {
	a := New(Options{MaxInflight: 1})
	release, ok := a.Allow("cdn")
	require.True(t, ok)
	_, ok = a.Allow("CDN")
	assert.False(t, ok)
	_, ok = a.Allow("other")
	assert.True(t, ok)
	release()
	_, ok = a.Allow("cdn")
	assert.True(t, ok)
}

func TestAcquire_RespectsContext(t *testing.T) {
	a := New(Options{MaxInflight: 1})
	_, err := a.Acquire(context.Background(), "cdn")
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err = a.Acquire(ctx, "cdn")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestGuard_InMemory(t *testing.T) {
	a := New(Options{BaseBackoff: time.Minute})
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	a.now = func() time.Time { return now }

	bad := &stubFetcher{err: errors.New("connection refused")}
	g := Guard(bad, a, nil)
	ctx := context.Background()

	_, err := g.Fetch(ctx, "https://cdn.example.com/a.png")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrCoolingDown)

	_, err = g.Fetch(ctx, "https://cdn.example.com/b.png")
	assert.ErrorIs(t, err, ErrCoolingDown)
	assert.Equal(t, 1, bad.calls)

	now = now.Add(2 * time.Minute)
	bad.err = nil
	data, err := g.Fetch(ctx, "https://cdn.example.com/b.png")
	require.NoError(t, err)
	assert.Equal(t, "ok", string(data))
	assert.False(t, a.IsOpen(ctx, "cdn.example.com"))
}

func TestGuard_TripsFilter(t *testing.T) {
	notFound := errors.New("404")
	g := Guard(&stubFetcher{err: notFound}, New(Options{}), func(err error) bool { return !errors.Is(err, notFound) })

	for i := 0; i < 3; i++ {
		_, err := g.Fetch(context.Background(), "https://cdn.example.com/missing.png")
		assert.ErrorIs(t, err, notFound)
	}
}

func TestAdaptive_Redis(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()

	a := New(Options{Client: rdb, KeyPrefix: "test:", BaseBackoff: time.Minute})
	ctx := context.Background()

	assert.False(t, a.IsOpen(ctx, "cdn"))
	assert.Equal(t, time.Minute, a.Open(ctx, "cdn"))
	assert.True(t, a.IsOpen(ctx, "cdn"))
	assert.True(t, mr.Exists("test:cb:cdn"))
	assert.Equal(t, 2*time.Minute, a.Open(ctx, "cdn"))

	a.Close(ctx, "cdn")
	assert.False(t, a.IsOpen(ctx, "cdn"))
	assert.False(t, mr.Exists("test:cb:cdn:attempts"))
}

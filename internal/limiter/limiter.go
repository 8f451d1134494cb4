// Package limiter guards asset fetches per origin host: a bounded number of
// concurrent downloads, and a cooldown with exponential backoff once a host
// keeps failing.
package limiter

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	redis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

var ErrCoolingDown = errors.New("asset host is cooling down after repeated failures")

// Adaptive tracks cooldowns in Redis when a client is given, so every
// instance backs off together, and in process otherwise. Slots are always
// local.
type Adaptive struct {
	rdb         *redis.Client
	keyNS       string
	maxInflight int
	baseBackoff time.Duration
	maxBackoff  time.Duration
	now         func() time.Time

	mu    sync.Mutex
	sem   map[string]chan struct{}
	local map[string]cooldown
}

type cooldown struct {
	until    time.Time
	attempts int
}

type Options struct {
	Client      *redis.Client
	KeyPrefix   string
	MaxInflight int
	BaseBackoff time.Duration
	MaxBackoff  time.Duration
}

func New(opts Options) *Adaptive {
	if opts.MaxInflight <= 0 {
		opts.MaxInflight = 4
	}
	if opts.BaseBackoff <= 0 {
		opts.BaseBackoff = 30 * time.Second
	}
	if opts.MaxBackoff <= 0 {
		opts.MaxBackoff = 5 * time.Minute
	}
	return &Adaptive{
		rdb:         opts.Client,
		keyNS:       opts.KeyPrefix + "cb",
		maxInflight: opts.MaxInflight,
		baseBackoff: opts.BaseBackoff,
		maxBackoff:  opts.MaxBackoff,
		now:         time.Now,
		sem:         map[string]chan struct{}{},
		local:       map[string]cooldown{},
	}
}

func (a *Adaptive) key(host string) string {
	return fmt.Sprintf("%s:%s", a.keyNS, strings.ToLower(host))
}

func (a *Adaptive) backoff(attempts int) time.Duration {
	if attempts < 1 {
		attempts = 1
	}
	d := a.baseBackoff
	for i := 1; i < attempts && d < a.maxBackoff; i++ {
		d *= 2
	}
	if d > a.maxBackoff {
		d = a.maxBackoff
	}
	return d
}

// IsOpen returns true while host is in cooldown.
func (a *Adaptive) IsOpen(ctx context.Context, host string) bool {
	if a.rdb != nil {
		ts, err := a.rdb.Get(ctx, a.key(host)).Int64()
		if err != nil {
			return false
		}
		return a.now().Unix() < ts
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.now().Before(a.local[strings.ToLower(host)].until)
}

// Open starts or extends the cooldown for host. Each consecutive call
// doubles the backoff up to the maximum.
func (a *Adaptive) Open(ctx context.Context, host string) time.Duration {
	if a.rdb != nil {
		k := a.key(host)
		attempts, _ := a.rdb.Incr(ctx, k+":attempts").Result()
		d := a.backoff(int(attempts))
		_ = a.rdb.Expire(ctx, k+":attempts", a.maxBackoff*2).Err()
		_ = a.rdb.Set(ctx, k, a.now().Add(d).Unix(), d).Err()
		return d
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	h := strings.ToLower(host)
	c := a.local[h]
	c.attempts++
	d := a.backoff(c.attempts)
	c.until = a.now().Add(d)
	a.local[h] = c
	return d
}

// Close resets the breaker for host.
func (a *Adaptive) Close(ctx context.Context, host string) {
	if a.rdb != nil {
		k := a.key(host)
		_ = a.rdb.Del(ctx, k, k+":attempts").Err()
		return
	}
	a.mu.Lock()
	delete(a.local, strings.ToLower(host))
	a.mu.Unlock()
}

func (a *Adaptive) slots(host string) chan struct{} {
	a.mu.Lock()
	defer a.mu.Unlock()
	h := strings.ToLower(host)
	ch, ok := a.sem[h]
	if !ok {
		ch = make(chan struct{}, a.maxInflight)
		a.sem[h] = ch
	}
	return ch
}

// Allow tries to reserve a slot for host without waiting.
func (a *Adaptive) Allow(host string) (func(), bool) {
	ch := a.slots(host)
	select {
	case ch <- struct{}{}:
		return func() { <-ch }, true
	default:
		return func() {}, false
	}
}

// Acquire waits for a slot for host until ctx is done.
func (a *Adaptive) Acquire(ctx context.Context, host string) (func(), error) {
	ch := a.slots(host)
	select {
	case ch <- struct{}{}:
		return func() { <-ch }, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Fetcher matches analysis.Fetcher.
type Fetcher interface {
	Fetch(ctx context.Context, ref string) ([]byte, error)
}

// Guarded wraps a Fetcher with per-host slots and cooldowns.
type Guarded struct {
	next Fetcher
	lim  *Adaptive
	// trips decides whether an error counts against the host. Nil counts
	// every error except context cancellation.
	trips func(error) bool
}

func Guard(next Fetcher, lim *Adaptive, trips func(error) bool) *Guarded {
	return &Guarded{next: next, lim: lim, trips: trips}
}

func (g *Guarded) Fetch(ctx context.Context, ref string) ([]byte, error) {
	host := HostOf(ref)
	if g.lim.IsOpen(ctx, host) {
		return nil, fmt.Errorf("%w: %s", ErrCoolingDown, host)
	}
	release, err := g.lim.Acquire(ctx, host)
	if err != nil {
		return nil, err
	}
	defer release()

	data, err := g.next.Fetch(ctx, ref)
	if err != nil {
		if g.counts(err) {
			d := g.lim.Open(ctx, host)
			log.Warn().Err(err).Str("host", host).Dur("cooldown", d).Msg("asset host failing, backing off")
		}
		return nil, err
	}
	g.lim.Close(ctx, host)
	return data, nil
}

func (g *Guarded) counts(err error) bool {
	if errors.Is(err, context.Canceled) {
		return false
	}
	if g.trips != nil {
		return g.trips(err)
	}
	return true
}

// HostOf names the origin of an asset ref: the URL host, the S3 bucket, or
// "local" for filesystem paths.
func HostOf(ref string) string {
	u, err := url.Parse(ref)
	if err != nil || u.Scheme == "" || u.Scheme == "file" {
		return "local"
	}
	if u.Scheme == "s3" {
		return "s3." + u.Host
	}
	return u.Host
}

package statuscheck

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Pinger models the minimal capability we need to check a dependency.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Checker aggregates health checks for the dependencies behind /status.
type Checker struct {
	redis          Pinger
	archive        Pinger
	catalogVersion int
	catalogJobs    int
}

// Options configures the Checker. Nil pingers are reported as disabled.
type Options struct {
	Redis          Pinger
	Archive        Pinger
	CatalogVersion int
	CatalogJobs    int
}

// Status represents the readiness of a subsystem.
type Status struct {
	OK      bool   `json:"ok"`
	Enabled bool   `json:"enabled"`
	Message string `json:"message"`
}

// Summary bundles all subsystem statuses.
type Summary struct {
	Redis   Status `json:"redis"`
	Archive Status `json:"archive"`
	Catalog Status `json:"catalog"`
}

// Healthy is false when an enabled dependency is down.
func (s Summary) Healthy() bool {
	for _, st := range []Status{s.Redis, s.Archive, s.Catalog} {
		if st.Enabled && !st.OK {
			return false
		}
	}
	return true
}

// New creates a new Checker with the provided options.
func New(opts Options) *Checker {
	return &Checker{
		redis:          opts.Redis,
		archive:        opts.Archive,
		catalogVersion: opts.CatalogVersion,
		catalogJobs:    opts.CatalogJobs,
	}
}

// Summary returns the current status snapshot.
func (c *Checker) Summary(ctx context.Context) Summary {
	return Summary{
		Redis:   ping(ctx, c.redis, 2*time.Second, "Not configured, using in-memory state"),
		Archive: ping(ctx, c.archive, 5*time.Second, "Bucket not configured"),
		Catalog: c.checkCatalog(),
	}
}

func ping(ctx context.Context, p Pinger, timeout time.Duration, disabledMsg string) Status {
	if p == nil {
		return Status{OK: false, Enabled: false, Message: disabledMsg}
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := p.Ping(ctx); err != nil {
		return Status{OK: false, Enabled: true, Message: trimError(err)}
	}
	return Status{OK: true, Enabled: true, Message: "Connected"}
}

func (c *Checker) checkCatalog() Status {
	if c.catalogJobs == 0 {
		return Status{OK: false, Enabled: true, Message: "No print jobs loaded"}
	}
	return Status{OK: true, Enabled: true, Message: fmt.Sprintf("v%d, %d jobs", c.catalogVersion, c.catalogJobs)}
}

func trimError(err error) string {
	if err == nil {
		return ""
	}
	var netErr interface{ Timeout() bool }
	if errors.As(err, &netErr) && netErr.Timeout() {
		return "timeout"
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return "timeout"
	}
	msg := err.Error()
	if len(msg) > 120 {
		return msg[:120]
	}
	return msg
}

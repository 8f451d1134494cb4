package statuscheck

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

type pingFunc func(ctx context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

func TestSummary_AllDisabled(t *testing.T) {
	s := New(Options{CatalogVersion: 3, CatalogJobs: 18}).Summary(context.Background())

	assert.False(t, s.Redis.Enabled)
	assert.False(t, s.Archive.Enabled)
	assert.True(t, s.Catalog.OK)
	assert.Equal(t, "v3, 18 jobs", s.Catalog.Message)
	assert.True(t, s.Healthy())
}

func TestSummary_DependencyDown(t *testing.T) {
	s := New(Options{
		Redis:       pingFunc(func(context.Context) error { return nil }),
		Archive:     pingFunc(func(context.Context) error { return errors.New(strings.Repeat("x", 200)) }),
		CatalogJobs: 1,
	}).Summary(context.Background())

	assert.True(t, s.Redis.OK)
	assert.Equal(t, "Connected", s.Redis.Message)
	assert.False(t, s.Archive.OK)
	assert.Len(t, s.Archive.Message, 120)
	assert.False(t, s.Healthy())
}

func TestSummary_Timeout(t *testing.T) {
	s := New(Options{
		Redis: pingFunc(func(context.Context) error { return context.DeadlineExceeded }),
	}).Summary(context.Background())

	assert.Equal(t, "timeout", s.Redis.Message)
	assert.False(t, s.Catalog.OK)
}

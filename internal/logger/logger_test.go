package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/axiomhq/axiom-go/axiom"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInit_WritesJSONWithService(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Init(Options{Level: "debug", Console: &buf}))
	defer Close()

	log.Info().Str("job", "poster_24x36").Msg("hello")

	var ev map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &ev))
	assert.Equal(t, "hello", ev["message"])
	assert.Equal(t, "printssistant", ev["service"])
	assert.Equal(t, "poster_24x36", ev["job"])
}

func TestInit_LevelFilters(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Init(Options{Level: "warn", Console: &buf}))

	log.Info().Msg("quiet")
	assert.Zero(t, buf.Len())

	log.Warn().Msg("loud")
	assert.Contains(t, buf.String(), "loud")
}

func TestInit_FileRotationTarget(t *testing.T) {
	var buf bytes.Buffer
	path := filepath.Join(t.TempDir(), "nested", "app.log")
	require.NoError(t, Init(Options{Console: &buf, File: path, MaxSizeMB: 1}))

	log.Info().Msg("to file")
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "to file")
}

func TestFromContext_AddsRequestID(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Init(Options{Console: &buf}))

	ctx := WithRequestID(context.Background(), "req-1")
	assert.Equal(t, "req-1", RequestID(ctx))

	FromContext(ctx).Info().Msg("tagged")
	assert.Contains(t, buf.String(), `"request_id":"req-1"`)

	assert.Empty(t, RequestID(context.Background()))
}

func TestAxiomSink_BatchesAndSkipsDebug(t *testing.T) {
	var (
		mu      sync.Mutex
		batches [][]axiom.Event
	)
	send := func(_ context.Context, evs []axiom.Event) error {
		mu.Lock()
		defer mu.Unlock()
		batches = append(batches, append([]axiom.Event(nil), evs...))
		return nil
	}
	s := startSink(send, axiomOptions{Service: "printssistant", BatchSize: 2, FlushEvery: time.Hour})

	for _, line := range []string{
		`{"level":"info","message":"a"}`,
		`{"level":"debug","message":"skip"}`,
		`{"level":"warn","message":"b"}`,
		`not json`,
	} {
		n, err := s.Write([]byte(line))
		require.NoError(t, err)
		assert.Equal(t, len(line), n)
	}
	require.NoError(t, s.Close())

	mu.Lock()
	defer mu.Unlock()
	var msgs []any
	for _, b := range batches {
		assert.LessOrEqual(t, len(b), 2)
		for _, ev := range b {
			assert.Equal(t, "printssistant", ev["service"])
			msgs = append(msgs, ev["message"])
		}
	}
	assert.Equal(t, []any{"a", "b", "not json"}, msgs)
}

func TestAxiomSink_DropsWhenFull(t *testing.T) {
	block := make(chan struct{})
	send := func(context.Context, []axiom.Event) error { <-block; return errors.New("down") }
	s := startSink(send, axiomOptions{BatchSize: 1, Buffer: 1, FlushEvery: time.Hour})

	for i := 0; i < 20; i++ {
		_, _ = s.Write([]byte(`{"level":"info","message":"x"}`))
	}
	assert.Positive(t, s.dropped.Load())
	close(block)
	require.NoError(t, s.Close())
	assert.Positive(t, s.failed.Load())
}

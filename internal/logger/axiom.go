package logger

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/axiomhq/axiom-go/axiom"
	"github.com/axiomhq/axiom-go/axiom/ingest"
)

type axiomOptions struct {
	Token      string
	OrgID      string
	Dataset    string
	Service    string
	FlushEvery time.Duration
	BatchSize  int
	Buffer     int
}

// axiomSink is an io.Writer that batches zerolog JSON lines into Axiom.
// Debug and trace lines stay local. When the buffer is full new lines are
// dropped and counted, never blocking the request path.
type axiomSink struct {
	ingest    func(ctx context.Context, events []axiom.Event) error
	service   string
	batchSize int
	ch        chan axiom.Event
	dropped   atomic.Int64
	failed    atomic.Int64

	wg     sync.WaitGroup
	cancel context.CancelFunc
}

func newAxiomSink(o axiomOptions) (*axiomSink, error) {
	if o.Dataset == "" {
		o.Dataset = "dev_printssistant"
	}
	opts := []axiom.Option{axiom.SetToken(o.Token)}
	if o.OrgID != "" {
		opts = append(opts, axiom.SetOrganizationID(o.OrgID))
	}
	c, err := axiom.NewClient(opts...)
	if err != nil {
		return nil, err
	}
	dataset := o.Dataset
	send := func(ctx context.Context, events []axiom.Event) error {
		_, err := c.IngestEvents(ctx, dataset, events)
		return err
	}
	return startSink(send, o), nil
}

func startSink(send func(context.Context, []axiom.Event) error, o axiomOptions) *axiomSink {
	if o.FlushEvery <= 0 {
		o.FlushEvery = 10 * time.Second
	}
	if o.BatchSize <= 0 {
		o.BatchSize = 200
	}
	if o.Buffer <= 0 {
		o.Buffer = 1000
	}
	ctx, cancel := context.WithCancel(context.Background())
	s := &axiomSink{
		ingest:    send,
		service:   o.Service,
		batchSize: o.BatchSize,
		ch:        make(chan axiom.Event, o.Buffer),
		cancel:    cancel,
	}
	s.wg.Add(1)
	go s.run(ctx, o.FlushEvery)
	return s
}

func (s *axiomSink) Write(p []byte) (int, error) {
	var ev map[string]any
	if err := json.Unmarshal(p, &ev); err != nil {
		ev = map[string]any{"message": string(p), "level": "info"}
	}
	switch ev["level"] {
	case "debug", "trace":
		return len(p), nil
	}
	if _, ok := ev["service"]; !ok && s.service != "" {
		ev["service"] = s.service
	}
	if _, ok := ev[ingest.TimestampField]; !ok {
		ev[ingest.TimestampField] = time.Now()
	}
	select {
	case s.ch <- axiom.Event(ev):
	default:
		s.dropped.Add(1)
	}
	return len(p), nil
}

func (s *axiomSink) run(ctx context.Context, flushEvery time.Duration) {
	defer s.wg.Done()
	ticker := time.NewTicker(flushEvery)
	defer ticker.Stop()

	batch := make([]axiom.Event, 0, s.batchSize)
	flush := func() {
		if len(batch) == 0 {
			return
		}
		fctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		if err := s.ingest(fctx, batch); err != nil {
			s.failed.Add(int64(len(batch)))
		}
		cancel()
		batch = batch[:0]
	}
	for {
		select {
		case <-ctx.Done():
			// drain what is already queued
			for {
				select {
				case ev := <-s.ch:
					batch = append(batch, ev)
					if len(batch) >= s.batchSize {
						flush()
					}
				default:
					flush()
					return
				}
			}
		case <-ticker.C:
			flush()
		case ev := <-s.ch:
			batch = append(batch, ev)
			if len(batch) >= s.batchSize {
				flush()
			}
		}
	}
}

// Close flushes queued events. Losses are reported on stderr since the
// logger itself may be the thing that is failing.
func (s *axiomSink) Close() error {
	s.cancel()
	s.wg.Wait()
	if d, f := s.dropped.Load(), s.failed.Load(); d > 0 || f > 0 {
		fmt.Fprintf(os.Stderr, "axiom: %d log events dropped, %d failed to ingest\n", d, f)
	}
	return nil
}

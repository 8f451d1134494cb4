// Package analysis runs the print quality evaluation over a batch of
// images placed in a design.
package analysis

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/local/printssistant/internal/filetype"
	"github.com/local/printssistant/internal/imageprobe"
	"github.com/local/printssistant/internal/metrics"
	"github.com/local/printssistant/internal/preflight"
	"github.com/local/printssistant/internal/printspec"
	"github.com/local/printssistant/internal/quality"
	"github.com/local/printssistant/internal/tips"
)

var (
	ErrNoImages      = errors.New("no images to analyze")
	ErrTooManyImages = errors.New("too many images in one request")
	ErrStaleRequest  = errors.New("a newer analysis request superseded this one")
	ErrMissingPixels = errors.New("image has neither a reference nor pixel dimensions")
	ErrUnanalyzable  = errors.New("asset type cannot be analyzed")
)

// noResultsMessage is set on a report when every image failed.
const noResultsMessage = "Could not analyze selected images"

// Fetcher loads the bytes behind an asset reference.
type Fetcher interface {
	Fetch(ctx context.Context, ref string) ([]byte, error)
}

// Options configures an Analyzer. Zero values pick the defaults.
type Options struct {
	Catalog     *printspec.Catalog
	Fetcher     Fetcher
	Sequencer   preflight.Sequencer
	Concurrency int
	MaxImages   int
	Timeout     time.Duration
}

type Analyzer struct {
	catalog     *printspec.Catalog
	fetch       Fetcher
	seq         preflight.Sequencer
	detector    *filetype.Detector
	concurrency int
	maxImages   int
	timeout     time.Duration
}

func New(opts Options) *Analyzer {
	if opts.Catalog == nil {
		opts.Catalog = printspec.Default()
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = 4
	}
	if opts.MaxImages <= 0 {
		opts.MaxImages = 50
	}
	return &Analyzer{
		catalog:     opts.Catalog,
		fetch:       opts.Fetcher,
		seq:         opts.Sequencer,
		detector:    filetype.New(),
		concurrency: opts.Concurrency,
		maxImages:   opts.MaxImages,
		timeout:     opts.Timeout,
	}
}

// Analyze evaluates every image in req against the job. Images that cannot
// be fetched or probed are listed in Report.Failed and do not stop the run.
//
// When req carries a session and a newer request for that session has been
// issued meanwhile, the finished report is returned together with
// ErrStaleRequest and should not be shown or stored.
func (a *Analyzer) Analyze(ctx context.Context, req Request) (Report, error) {
	start := time.Now()

	job, err := a.catalog.ByID(req.JobID)
	if err != nil {
		return Report{}, err
	}
	if len(req.Images) == 0 {
		return Report{}, ErrNoImages
	}
	if len(req.Images) > a.maxImages {
		return Report{}, fmt.Errorf("%w: %d > %d", ErrTooManyImages, len(req.Images), a.maxImages)
	}

	if req.Session != "" && req.Sequence == 0 && a.seq != nil {
		if req.Sequence, err = a.seq.Next(ctx, req.Session); err != nil {
			return Report{}, fmt.Errorf("assign sequence: %w", err)
		}
	}

	results := make([]ImageResult, len(req.Images))
	failures := make([]*Failure, len(req.Images))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.concurrency)
	for i, in := range req.Images {
		g.Go(func() error {
			res, err := a.analyzeOne(gctx, i, in, job)
			if err != nil {
				failures[i] = &Failure{Index: i, Name: in.Name, Ref: in.Ref, Reason: err.Error()}
				metrics.IncImage(failureLabel(err))
				log.Warn().Err(err).Int("index", i).Str("ref", in.Ref).Str("job", job.ID).Msg("image analysis failed; continuing with others")
				return nil
			}
			results[i] = res
			metrics.IncImage("ok")
			return nil
		})
	}
	_ = g.Wait()

	rep := Report{
		ID:        uuid.NewString(),
		JobID:     job.ID,
		Job:       job,
		Session:   req.Session,
		Sequence:  req.Sequence,
		CreatedAt: time.Now().UTC(),
		Results:   []ImageResult{},
		JobTip:    tips.ForJob(job),
	}

	tiers := make([]quality.Tier, 0, len(results))
	worst := math.Inf(1)
	for i := range results {
		if failures[i] != nil {
			rep.Failed = append(rep.Failed, *failures[i])
			continue
		}
		r := results[i]
		rep.Results = append(rep.Results, r)
		tiers = append(tiers, r.Tier)
		if !r.ResolutionIndependent && r.Evaluation.Effective < worst {
			worst = r.Evaluation.Effective
		}
	}

	rep.AllPassing = len(tiers) > 0
	for _, t := range tiers {
		rep.AllPassing = rep.AllPassing && t.Passing()
	}
	if len(rep.Results) == 0 && len(rep.Failed) > 0 {
		rep.Error = noResultsMessage
	}

	rep.Overall = quality.AggregateOverallStatus(tiers)
	if st, ok := quality.StatusInfo(rep.Overall); ok {
		rep.OverallStatus = st
	}
	if math.IsInf(worst, 1) {
		worst = job.MinDPI
	}
	rep.Tips = tips.Relevant(worst, job.MinDPI, job.Category.IsLargeFormat())

	metrics.ObserveAnalysis(time.Since(start))
	log.Info().
		Str("analysis_id", rep.ID).
		Str("job", job.ID).
		Int("images", len(req.Images)).
		Int("failed", len(rep.Failed)).
		Str("overall", string(rep.Overall)).
		Dur("took", time.Since(start)).
		Msg("analysis finished")

	if req.Session != "" && a.seq != nil {
		current, err := preflight.IsCurrent(ctx, a.seq, req.Session, req.Sequence)
		if err != nil {
			return rep, fmt.Errorf("check sequence: %w", err)
		}
		if !current {
			metrics.IncStale()
			return rep, ErrStaleRequest
		}
	}
	return rep, nil
}

func (a *Analyzer) analyzeOne(ctx context.Context, index int, in ImageInput, job printspec.PrintJobSpec) (ImageResult, error) {
	res := ImageResult{
		Index:              index,
		Name:               in.Name,
		Ref:                in.Ref,
		PixelWidth:         in.PixelWidth,
		PixelHeight:        in.PixelHeight,
		PlacedWidthInches:  in.PlacedWidthInches,
		PlacedHeightInches: in.PlacedHeightInches,
	}
	// Without a placed size the image is assumed to fill the trim area.
	if res.PlacedWidthInches == 0 && res.PlacedHeightInches == 0 {
		res.PlacedWidthInches = job.WidthInches
		res.PlacedHeightInches = job.HeightInches
	}

	if in.PixelWidth == 0 && in.PixelHeight == 0 {
		if in.Ref == "" {
			return res, ErrMissingPixels
		}
		if a.fetch == nil {
			return res, fmt.Errorf("fetch %s: no fetcher configured", in.Ref)
		}

		fctx := ctx
		if a.timeout > 0 {
			var cancel context.CancelFunc
			fctx, cancel = context.WithTimeout(ctx, a.timeout)
			defer cancel()
		}
		data, err := a.fetch.Fetch(fctx, in.Ref)
		if err != nil {
			return res, &FetchError{Ref: in.Ref, Err: err}
		}

		info := a.detector.DetectBytes(data)
		res.MIMEType = info.MIMEType
		switch info.Kind {
		case filetype.KindVector:
			res.ResolutionIndependent = true
			res.Tier = quality.TierExcellent
			res.Recommendation = quality.Recommendation{Key: "recommendationExcellent"}
			metrics.IncEvaluation(string(job.Category), string(res.Tier))
			return res, nil
		case filetype.KindRaster:
		default:
			return res, fmt.Errorf("%w: %s", ErrUnanalyzable, info.Description)
		}

		size, err := imageprobe.Dimensions(data)
		if err != nil {
			return res, err
		}
		res.PixelWidth, res.PixelHeight = size.Width, size.Height
		res.Megapixels = size.Megapixels()
	}

	ev, err := quality.Evaluate(res.PixelWidth, res.PixelHeight, res.PlacedWidthInches, res.PlacedHeightInches, job)
	if err != nil {
		return res, err
	}
	res.Evaluation = ev
	res.Tier = ev.Tier
	res.Recommendation = quality.Recommend(ev.Tier, res.PlacedWidthInches, res.PlacedHeightInches, job, ev.ViewingDistance)
	res.RequiredWidth, res.RequiredHeight = quality.RequiredPixels(res.PlacedWidthInches, res.PlacedHeightInches, job.RecommendedDPI)

	metrics.IncEvaluation(string(job.Category), string(res.Tier))
	return res, nil
}

// FetchError wraps a failure to load an asset.
type FetchError struct {
	Ref string
	Err error
}

func (e *FetchError) Error() string { return fmt.Sprintf("fetch %s: %v", e.Ref, e.Err) }
func (e *FetchError) Unwrap() error { return e.Err }

func failureLabel(err error) string {
	var fe *FetchError
	switch {
	case errors.As(err, &fe):
		return "fetch_error"
	case errors.Is(err, quality.ErrInvalidDimension), errors.Is(err, ErrMissingPixels):
		return "invalid"
	default:
		return "probe_error"
	}
}

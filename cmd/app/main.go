package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	redis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/local/printssistant/internal/analysis"
	"github.com/local/printssistant/internal/api"
	cfgpkg "github.com/local/printssistant/internal/config"
	"github.com/local/printssistant/internal/limiter"
	logpkg "github.com/local/printssistant/internal/logger"
	"github.com/local/printssistant/internal/metrics"
	"github.com/local/printssistant/internal/preflight"
	"github.com/local/printssistant/internal/printspec"
	"github.com/local/printssistant/internal/statuscheck"
	"github.com/local/printssistant/internal/storage"
	"github.com/local/printssistant/internal/store"
)

func main() {
	cfg := cfgpkg.Load()

	// Init logging
	if err := logpkg.Init(logpkg.Options{
		Level:        cfg.Logging.Level,
		Pretty:       cfg.Logging.Pretty,
		File:         cfg.Logging.File,
		MaxSizeMB:    cfg.Logging.MaxSizeMB,
		MaxBackups:   cfg.Logging.MaxBackups,
		MaxAgeDays:   cfg.Logging.MaxAgeDays,
		Compress:     cfg.Logging.Compress,
		SendToAxiom:  cfg.Axiom.Send && cfg.Axiom.APIKey != "",
		AxiomAPIKey:  cfg.Axiom.APIKey,
		AxiomOrgID:   cfg.Axiom.OrgID,
		AxiomDataset: cfg.Axiom.Dataset,
		AxiomFlush:   cfg.Axiom.FlushInterval,
	}); err != nil {
		fmt.Fprintf(os.Stderr, "logger init: %v\n", err)
	}
	defer logpkg.Close()

	metrics.Init()
	catalog := printspec.Default()

	ctx := context.Background()

	// Redis is optional; without it results and sequences live in process.
	var (
		rdb       *redis.Client
		results   store.ResultStore   = store.NewMemoryResults(cfg.Redis.ResultTTL)
		sequencer preflight.Sequencer = preflight.NewMemorySequencer()
		statusOpt                     = statuscheck.Options{CatalogVersion: catalog.Version(), CatalogJobs: len(catalog.Jobs())}
	)
	if cfg.Redis.Enabled() {
		var err error
		if rdb, err = store.Open(ctx, cfg.Redis.URL); err != nil {
			log.Fatal().Err(err).Msg("failed to connect to redis")
		}
		defer rdb.Close()
		results = store.NewRedisResults(rdb, cfg.Redis.KeyPrefix, cfg.Redis.ResultTTL)
		sequencer = store.NewRedisSequencer(rdb, cfg.Redis.KeyPrefix, cfg.Redis.ResultTTL)
		statusOpt.Redis = store.Pinger{Client: rdb}
	} else {
		log.Warn().Msg("REDIS_URL not set, using in-memory result store")
	}

	// S3 serves s3:// asset refs and the report archive.
	fetchOpts := []storage.FetcherOption{storage.WithHTTPClient(&http.Client{Timeout: cfg.Analysis.FetchTimeout})}
	if cfg.Analysis.AllowLocalFiles {
		fetchOpts = append(fetchOpts, storage.WithLocalFiles())
	}
	var archive *storage.Archive
	s3c, err := storage.NewS3Client(ctx, cfg.S3)
	if err != nil {
		log.Warn().Err(err).Msg("s3 client unavailable, s3:// refs and archiving disabled")
	} else {
		fetchOpts = append(fetchOpts, storage.WithS3(s3c))
		archive = storage.NewArchive(s3c, cfg.S3.ArchiveBucket, cfg.S3.ArchivePrefix)
	}
	if archive != nil {
		statusOpt.Archive = archive
	}

	fetcher := limiter.Guard(
		storage.NewFetcher(cfg.Analysis.MaxImageBytes, fetchOpts...),
		limiter.New(limiter.Options{
			Client:      rdb,
			KeyPrefix:   cfg.Redis.KeyPrefix,
			MaxInflight: cfg.Analysis.HostInflight,
			BaseBackoff: cfg.Analysis.HostBackoff,
			MaxBackoff:  cfg.Analysis.HostMaxBackoff,
		}),
		storage.HostFault,
	)

	analyzer := analysis.New(analysis.Options{
		Catalog:     catalog,
		Fetcher:     fetcher,
		Sequencer:   sequencer,
		Concurrency: cfg.Analysis.Concurrency,
		MaxImages:   cfg.Analysis.MaxImages,
		Timeout:     cfg.Analysis.FetchTimeout,
	})

	server := api.New(api.Dependencies{
		Catalog:       catalog,
		Analyzer:      analyzer,
		Results:       results,
		Archive:       archive,
		Status:        statuscheck.New(statusOpt),
		SizeTolerance: cfg.Analysis.SizeTolerance,
		APIKeyHash:    cfg.Auth.APIKeyHash,
		MaxBodyBytes:  cfg.Server.MaxBodyBytes,
	})

	srv := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      server.Handler(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		log.Info().
			Str("addr", cfg.Server.Addr).
			Int("catalog_version", catalog.Version()).
			Bool("redis", cfg.Redis.Enabled()).
			Bool("archive", archive.Enabled()).
			Bool("auth", cfg.Auth.APIKeyHash != "").
			Msg("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("http server error")
		}
	}()

	// Graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	sctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(sctx); err != nil {
		log.Error().Err(err).Msg("shutdown")
	}
	log.Info().Dur("timeout", cfg.Server.ShutdownTimeout).Msg("shutdown complete")
}

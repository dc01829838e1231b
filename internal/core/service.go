package core

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/zeebo/xxh3"
)

// ServiceConfig holds the settings a Service needs from configuration.
type ServiceConfig struct {
	PreviewRows   int
	MaxFileSize   int64
	MaxConcurrent int
	MaxWait       time.Duration

	CacheEnabled    bool
	CacheTTL        time.Duration
	CacheMaxEntries int
}

// Service runs the pipeline on behalf of a transport. It bounds how many
// batches run at once, memoises per-file results, and records metrics.
// It keeps no uploads between calls.
type Service struct {
	limits  Limits
	limiter *UploadLimiter
	cache   *reportCache
	metrics *Metrics
	logger  *slog.Logger
}

// NewService builds a Service. A nil logger uses slog.Default.
func NewService(cfg ServiceConfig, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	limiter := NewUploadLimiter(cfg.MaxConcurrent, cfg.MaxWait)
	s := &Service{
		limits:  Limits{PreviewRows: cfg.PreviewRows, MaxFileSize: cfg.MaxFileSize},
		limiter: limiter,
		metrics: NewMetrics(limiter),
		logger:  logger,
	}
	if cfg.CacheEnabled && cfg.CacheTTL > 0 {
		s.cache = newReportCache(cfg.CacheTTL, cfg.CacheMaxEntries)
	}
	return s
}

// Metrics returns the service's collectors.
func (s *Service) Metrics() *Metrics { return s.metrics }

// ProcessBatch processes files in upload order under opts. It fails only
// when no processing slot frees up in time or ctx ends while waiting; every
// per-file failure is reported inside the BatchReport instead.
func (s *Service) ProcessBatch(ctx context.Context, files []UploadedFile, opts BatchOptions) (*BatchReport, error) {
	if err := s.limiter.Acquire(ctx); err != nil {
		if errors.Is(err, ErrTooManyUploads) {
			s.metrics.rejected.Inc()
		}
		return nil, err
	}
	defer s.limiter.Release()

	br := processBatch(ctx, files, opts, s.processFile)
	s.metrics.batches.Inc()
	s.logger.Info("batch processed",
		"batch_id", br.ID,
		"files", len(br.Files),
		"failed", br.Failed,
		"duration", br.Duration,
	)
	return br, nil
}

// Convert processes a single file and returns its export. opts.Format must
// name an export format. The returned error is the file's failure, if any;
// the report is returned either way.
func (s *Service) Convert(ctx context.Context, file UploadedFile, opts Options) (*ExportArtifact, *FileReport, error) {
	if _, err := ParseFormat(opts.Format); err != nil {
		return nil, nil, fileErr(file.Name, "export", err)
	}
	br, err := s.ProcessBatch(ctx, []UploadedFile{file}, BatchOptions{Default: opts})
	if err != nil {
		return nil, nil, err
	}
	rep := br.Files[0]
	if rep.Err != nil {
		return nil, rep, rep.Err
	}
	if rep.Export == nil {
		return nil, rep, fileErr(file.Name, "export", fmt.Errorf("no export produced"))
	}
	return rep.Export, rep, nil
}

// processFile runs Process through the cache.
func (s *Service) processFile(file UploadedFile, opts Options) *FileReport {
	log := s.logger.With("file", file.Name)

	var (
		key       xxh3.Uint128
		cacheable bool
	)
	if s.cache != nil {
		if k, err := cacheKey(file, opts, s.limits); err == nil {
			key, cacheable = k, true
			if rep, ok := s.cache.get(key); ok {
				s.metrics.observeCache(true)
				log.Debug("report served from cache")
				return rep
			}
			s.metrics.observeCache(false)
		}
	}

	start := time.Now()
	rep, _ := Process(file, opts, s.limits)
	elapsed := time.Since(start)
	s.metrics.observeFile(rep, elapsed)

	if rep.Err != nil {
		log.Warn("file failed", "error", rep.Err, "code", MapError(rep.Err).Code)
	} else {
		log.Debug("file processed", "rows", rep.Rows, "duration", elapsed)
	}

	if cacheable {
		s.cache.put(key, rep)
	}
	return rep
}

// WaitForUploads blocks until running batches finish or ctx ends.
func (s *Service) WaitForUploads(ctx context.Context) error {
	return s.limiter.WaitForDrain(ctx)
}

// UploadLimiterStatus reports processing slot usage.
func (s *Service) UploadLimiterStatus() LimiterStatus {
	return s.limiter.Status()
}

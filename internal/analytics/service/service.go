package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"agora/internal/analytics/metrics"
	"agora/internal/analytics/models"
	"agora/internal/analytics/store"
	dErrors "agora/pkg/domain-errors"
)

const topCategoryLimit = 3

// BriefCache caches brief reports. The Redis implementation lives in
// internal/analytics/cache; a nil cache disables caching.
type BriefCache interface {
	Get(ctx context.Context, region, city string, period models.Period) (*models.BriefReport, bool)
	Set(ctx context.Context, region, city string, period models.Period, report *models.BriefReport)
}

// Service computes brief and detailed analytics by fanning out independent
// aggregate queries and merging the results. Any branch failure fails the
// whole call; no partial bundle is ever returned.
type Service struct {
	reader  store.Reader
	cache   BriefCache
	logger  *slog.Logger
	metrics *metrics.Metrics
	tracer  trace.Tracer
	timeout time.Duration
}

// Option configures optional service dependencies.
type Option func(*Service)

// WithCache attaches a brief report cache.
func WithCache(c BriefCache) Option {
	return func(s *Service) { s.cache = c }
}

// WithMetrics attaches Prometheus metrics.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// WithTimeout bounds a full fan-out.
func WithTimeout(d time.Duration) Option {
	return func(s *Service) { s.timeout = d }
}

// New constructs the analytics service.
func New(reader store.Reader, logger *slog.Logger, opts ...Option) (*Service, error) {
	if reader == nil {
		return nil, errors.New("analytics reader is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	s := &Service{
		reader:  reader,
		logger:  logger,
		tracer:  otel.Tracer("agora/analytics"),
		timeout: 15 * time.Second,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// aggregationError collapses a branch failure into a whole-call error,
// keeping the cause for logs.
func (s *Service) aggregationError(ctx context.Context, report string, err error) error {
	s.metrics.RecordFailure(report)
	s.logger.ErrorContext(ctx, "aggregate fan-out failed",
		"report", report,
		"error", err,
	)
	return dErrors.Wrap(dErrors.CodeAggregation, report+" analysis failed", err)
}

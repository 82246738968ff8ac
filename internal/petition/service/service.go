package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"agora/internal/notification"
	"agora/internal/petition/metrics"
	"agora/internal/petition/models"
	"agora/internal/petition/store"
	dErrors "agora/pkg/domain-errors"
	"agora/pkg/email"
	"agora/pkg/platform/sentinel"
)

// Notifier receives status-change events. The notification worker implements
// it; tests use a recording fake.
type Notifier interface {
	Emit(ctx context.Context, event notification.Event)
}

// Service implements petition submission, the moderation status workflow,
// the endorsement registry, and the visibility-filtered listings.
type Service struct {
	store    store.Store
	notifier Notifier
	logger   *slog.Logger
	metrics  *metrics.Metrics
	tracer   trace.Tracer

	transitionTimeout time.Duration
}

// Option configures optional service dependencies.
type Option func(*Service)

// WithMetrics attaches Prometheus metrics.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// WithTransitionTimeout bounds a single status transition.
func WithTransitionTimeout(d time.Duration) Option {
	return func(s *Service) { s.transitionTimeout = d }
}

// New constructs the petition service.
func New(st store.Store, notifier Notifier, logger *slog.Logger, opts ...Option) (*Service, error) {
	if st == nil {
		return nil, errors.New("petition store is required")
	}
	if notifier == nil {
		return nil, errors.New("notifier is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	s := &Service{
		store:             st,
		notifier:          notifier,
		logger:            logger,
		tracer:            otel.Tracer("agora/petition"),
		transitionTimeout: 10 * time.Second,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Submit validates and persists a new petition. The petition starts in the
// pending-moderation state.
func (s *Service) Submit(ctx context.Context, p models.NewPetition) (int64, error) {
	if err := validateSubmission(p); err != nil {
		return 0, err
	}
	p.PetitionerEmail = email.Normalize(p.PetitionerEmail)

	id, err := s.store.Insert(ctx, p)
	if err != nil {
		return 0, translateStoreError(err, "submit petition")
	}
	s.metrics.RecordSubmission(models.KindLabel(p.IsInitiative))
	return id, nil
}

// ListCityPetitions is the public listing: moderated petitions of one kind
// in a city.
func (s *Service) ListCityPetitions(ctx context.Context, region, city string, isInitiative bool) ([]models.Summary, error) {
	if region == "" || city == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "region and city are required")
	}
	out, err := s.store.ListCity(ctx, region, city, isInitiative)
	if err != nil {
		return nil, translateStoreError(err, "list city petitions")
	}
	return out, nil
}

// ListModeratorPetitions lists every petition in a city, all statuses and
// kinds, annotated with the derived kind label.
func (s *Service) ListModeratorPetitions(ctx context.Context, region, city string) ([]models.ModeratorSummary, error) {
	if region == "" || city == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "region and city are required")
	}
	out, err := s.store.ListModeration(ctx, region, city)
	if err != nil {
		return nil, translateStoreError(err, "list moderation petitions")
	}
	return out, nil
}

// ListUserPetitions returns petitions submitted by the given address.
func (s *Service) ListUserPetitions(ctx context.Context, petitionerEmail string) ([]models.Summary, error) {
	if !email.Valid(petitionerEmail) {
		return nil, dErrors.New(dErrors.CodeValidation, "invalid email address")
	}
	out, err := s.store.ListByPetitioner(ctx, email.Normalize(petitionerEmail))
	if err != nil {
		return nil, translateStoreError(err, "list user petitions")
	}
	return out, nil
}

// GetPetition returns the full petition record, its endorsement count, and
// its moderation comments. The two reads run concurrently.
func (s *Service) GetPetition(ctx context.Context, petitionID int64) (*models.Detail, error) {
	var (
		detail   *models.Detail
		comments []models.Comment
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		detail, err = s.store.Detail(gctx, petitionID)
		return err
	})
	g.Go(func() error {
		var err error
		comments, err = s.store.Comments(gctx, petitionID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, translateStoreError(err, "petition detail")
	}
	detail.Comments = comments
	return detail, nil
}

func validateSubmission(p models.NewPetition) error {
	switch {
	case p.Header == "":
		return dErrors.New(dErrors.CodeValidation, "header is required")
	case p.Category == "":
		return dErrors.New(dErrors.CodeValidation, "category is required")
	case p.Description == "":
		return dErrors.New(dErrors.CodeValidation, "description is required")
	case p.Region == "" || p.CityName == "":
		return dErrors.New(dErrors.CodeValidation, "region and city are required")
	case !email.Valid(p.PetitionerEmail):
		return dErrors.New(dErrors.CodeValidation, "invalid petitioner email")
	}
	return nil
}

// translateStoreError maps infrastructure sentinels onto domain errors so
// handlers never see raw store failures.
func translateStoreError(err error, op string) error {
	switch {
	case errors.Is(err, sentinel.ErrNotFound):
		return dErrors.Wrap(dErrors.CodeNotFound, "petition not found", err)
	case errors.Is(err, sentinel.ErrUnavailable):
		return dErrors.Wrap(dErrors.CodeUnavailable, "store unreachable", err)
	default:
		return dErrors.Wrap(dErrors.CodeInternal, op, err)
	}
}

package service

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"agora/internal/analytics/models"
	dErrors "agora/pkg/domain-errors"
	"agora/pkg/requestcontext"
)

// Brief computes the eight rolling-window aggregates for a city and its
// region. The window is submission_time >= now − 1 period unit.
func (s *Service) Brief(ctx context.Context, region, city, periodToken string) (*models.BriefReport, error) {
	ctx, span := s.tracer.Start(ctx, "analytics.Brief")
	defer span.End()

	if region == "" || city == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "region and city are required")
	}
	period, err := models.ParsePeriod(periodToken)
	if err != nil {
		return nil, dErrors.Wrap(dErrors.CodeValidation, "invalid period", err)
	}

	if s.cache != nil {
		if report, ok := s.cache.Get(ctx, region, city, period); ok {
			s.metrics.RecordCacheHit()
			return report, nil
		}
		s.metrics.RecordCacheMiss()
	}

	since := period.WindowStart(requestcontext.Now(ctx))
	start := time.Now()

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	// Eight independent aggregates; first failure cancels the rest through
	// the shared group context.
	var report models.BriefReport
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		report.TopCityInitiatives, err = s.reader.TopCategoriesCity(gctx, region, city, since, true, topCategoryLimit)
		return err
	})
	g.Go(func() error {
		var err error
		report.TopCityComplaints, err = s.reader.TopCategoriesCity(gctx, region, city, since, false, topCategoryLimit)
		return err
	})
	g.Go(func() error {
		var err error
		report.TopRegionInitiatives, err = s.reader.TopCategoriesRegion(gctx, region, since, true, topCategoryLimit)
		return err
	})
	g.Go(func() error {
		var err error
		report.TopRegionComplaints, err = s.reader.TopCategoriesRegion(gctx, region, since, false, topCategoryLimit)
		return err
	})
	g.Go(func() error {
		var err error
		report.CityInitiativesPerStatus, err = s.reader.StatusCountsCity(gctx, region, city, since, true)
		return err
	})
	g.Go(func() error {
		var err error
		report.CityComplaintsPerStatus, err = s.reader.StatusCountsCity(gctx, region, city, since, false)
		return err
	})
	g.Go(func() error {
		var err error
		report.RegionInitiativesPerStatus, err = s.reader.StatusCountsRegion(gctx, region, since, true)
		return err
	})
	g.Go(func() error {
		var err error
		report.RegionComplaintsPerStatus, err = s.reader.StatusCountsRegion(gctx, region, since, false)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, s.aggregationError(ctx, "brief", err)
	}

	s.metrics.ObserveReport("brief", time.Since(start))

	if s.cache != nil {
		s.cache.Set(ctx, region, city, period, &report)
	}
	return &report, nil
}

package service

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"agora/internal/analytics/models"
	dErrors "agora/pkg/domain-errors"
)

// Detailed computes the eight explicit-window aggregates for a city and its
// region. The window [start, end] is inclusive; rowsCount caps the
// most-endorsed listings.
func (s *Service) Detailed(ctx context.Context, region, city string, startTime, endTime time.Time, rowsCount int) (*models.DetailedReport, error) {
	ctx, span := s.tracer.Start(ctx, "analytics.Detailed")
	defer span.End()

	switch {
	case region == "" || city == "":
		return nil, dErrors.New(dErrors.CodeValidation, "region and city are required")
	case startTime.IsZero() || endTime.IsZero():
		return nil, dErrors.New(dErrors.CodeValidation, "start and end are required")
	case endTime.Before(startTime):
		return nil, dErrors.New(dErrors.CodeValidation, "end precedes start")
	case rowsCount < 1:
		return nil, dErrors.New(dErrors.CodeValidation, "rows count must be positive")
	}

	start := time.Now()
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	var report models.DetailedReport
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		report.CityComplaintsPerCategory, err = s.reader.CategoryDistributionCity(gctx, region, city, startTime, endTime, false)
		return err
	})
	g.Go(func() error {
		var err error
		report.CityInitiativesPerCategory, err = s.reader.CategoryDistributionCity(gctx, region, city, startTime, endTime, true)
		return err
	})
	g.Go(func() error {
		var err error
		report.RegionComplaintsPerCapita, err = s.reader.PerCapitaDistributionRegion(gctx, region, startTime, endTime, false)
		return err
	})
	g.Go(func() error {
		var err error
		report.RegionInitiativesPerCapita, err = s.reader.PerCapitaDistributionRegion(gctx, region, startTime, endTime, true)
		return err
	})
	g.Go(func() error {
		var err error
		report.TopInitiatives, err = s.reader.TopEndorsed(gctx, region, city, startTime, endTime, true, rowsCount)
		return err
	})
	g.Go(func() error {
		var err error
		report.TopComplaints, err = s.reader.TopEndorsed(gctx, region, city, startTime, endTime, false, rowsCount)
		return err
	})
	g.Go(func() error {
		var err error
		report.InitiativesPerDay, err = s.reader.DailyCounts(gctx, region, city, startTime, endTime, true)
		return err
	})
	g.Go(func() error {
		var err error
		report.ComplaintsPerDay, err = s.reader.DailyCounts(gctx, region, city, startTime, endTime, false)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, s.aggregationError(ctx, "detailed", err)
	}

	s.metrics.ObserveReport("detailed", time.Since(start))
	return &report, nil
}

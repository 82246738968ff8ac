package store

import (
	"context"
	"time"

	"agora/internal/analytics/models"
)

// Reader is the aggregate-query contract the analytics engine fans out over.
// Every method is a single independent read; the engine coordinates
// concurrency and failure.
type Reader interface {
	// TopCategoriesCity ranks categories by submission count within a city
	// since the given time. Ordered count desc, category asc.
	TopCategoriesCity(ctx context.Context, region, city string, since time.Time, isInitiative bool, limit int) ([]models.CategoryCount, error)

	// TopCategoriesRegion ranks categories across a whole region.
	TopCategoriesRegion(ctx context.Context, region string, since time.Time, isInitiative bool, limit int) ([]models.CategoryCount, error)

	// StatusCountsCity counts petitions per status within a city.
	StatusCountsCity(ctx context.Context, region, city string, since time.Time, isInitiative bool) ([]models.StatusCount, error)

	// StatusCountsRegion counts petitions per status across a region.
	StatusCountsRegion(ctx context.Context, region string, since time.Time, isInitiative bool) ([]models.StatusCount, error)

	// CategoryDistributionCity is the category→count distribution in an
	// explicit inclusive window, city-scoped.
	CategoryDistributionCity(ctx context.Context, region, city string, start, end time.Time, isInitiative bool) ([]models.CategoryCount, error)

	// PerCapitaDistributionRegion divides region category counts by the
	// number of distinct cities in the region with any petition. A region
	// with no petitions yields an empty distribution.
	PerCapitaDistributionRegion(ctx context.Context, region string, start, end time.Time, isInitiative bool) ([]models.CategoryShare, error)

	// TopEndorsed lists the most-endorsed petitions of one kind in a city
	// window. Ordered endorsements desc, submission time desc, id asc.
	TopEndorsed(ctx context.Context, region, city string, start, end time.Time, isInitiative bool, limit int) ([]models.RankedPetition, error)

	// DailyCounts returns one row per calendar day in [start, end],
	// zero-filled for days without petitions, ascending.
	DailyCounts(ctx context.Context, region, city string, start, end time.Time, isInitiative bool) ([]models.DayCount, error)
}

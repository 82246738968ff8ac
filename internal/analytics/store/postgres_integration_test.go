//go:build integration

package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"agora/internal/analytics/store"
	"agora/pkg/testutil/containers"
)

type PostgresReaderSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	reader   *store.PostgresReader
	ctx      context.Context
}

func TestPostgresReaderSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresReaderSuite))
}

func (s *PostgresReaderSuite) SetupSuite() {
	s.postgres = containers.NewPostgresContainer(s.T())
	s.reader = store.NewPostgres(s.postgres.Pool)
	s.ctx = context.Background()
}

func (s *PostgresReaderSuite) SetupTest() {
	err := s.postgres.TruncateTables(s.ctx, "comments", "likes", "petition")
	s.Require().NoError(err)
}

// seedPetition inserts a row directly so the aggregate under test controls
// its own fixtures.
func (s *PostgresReaderSuite) seedPetition(region, city, category string, isInitiative bool, submitted time.Time) int64 {
	var id int64
	err := s.postgres.Pool.QueryRow(s.ctx, `
		INSERT INTO petition
			(is_initiative, category, petition_description, petitioner_email, header, region, city_name, petition_status, submission_time)
		VALUES ($1, $2, 'desc', 'seed@example.com', 'header', $3, $4, 'in_review', $5)
		RETURNING id`,
		isInitiative, category, region, city, submitted,
	).Scan(&id)
	s.Require().NoError(err)
	return id
}

func (s *PostgresReaderSuite) endorse(petitionID int64, email string) {
	_, err := s.postgres.Pool.Exec(s.ctx,
		`INSERT INTO likes (petition_id, user_email) VALUES ($1, $2)`, petitionID, email)
	s.Require().NoError(err)
}

func (s *PostgresReaderSuite) TestTopCategoriesTieBreak() {
	now := time.Now()

	// zoning: 2, roads: 2, parks: 1. The tie between roads and zoning must
	// resolve alphabetically.
	s.seedPetition("north", "springfield", "zoning", true, now)
	s.seedPetition("north", "springfield", "zoning", true, now)
	s.seedPetition("north", "springfield", "roads", true, now)
	s.seedPetition("north", "springfield", "roads", true, now)
	s.seedPetition("north", "springfield", "parks", true, now)
	// A complaint in the same window must not leak into the initiative count.
	s.seedPetition("north", "springfield", "noise", false, now)

	since := now.AddDate(0, 0, -7)
	out, err := s.reader.TopCategoriesCity(s.ctx, "north", "springfield", since, true, 3)
	s.Require().NoError(err)
	s.Require().Len(out, 3)
	s.Equal("roads", out[0].Category)
	s.Equal(2, out[0].Count)
	s.Equal("zoning", out[1].Category)
	s.Equal(2, out[1].Count)
	s.Equal("parks", out[2].Category)
	s.Equal(1, out[2].Count)
}

func (s *PostgresReaderSuite) TestTopCategoriesWindowCutoff() {
	now := time.Now()
	s.seedPetition("north", "springfield", "recent", true, now.Add(-time.Hour))
	s.seedPetition("north", "springfield", "stale", true, now.AddDate(0, 0, -30))

	out, err := s.reader.TopCategoriesCity(s.ctx, "north", "springfield", now.AddDate(0, 0, -7), true, 3)
	s.Require().NoError(err)
	s.Require().Len(out, 1)
	s.Equal("recent", out[0].Category)
}

func (s *PostgresReaderSuite) TestStatusCountsRegionSpansCities() {
	now := time.Now()
	s.seedPetition("north", "springfield", "roads", true, now)
	s.seedPetition("north", "shelbyville", "roads", true, now)
	s.seedPetition("south", "capital", "roads", true, now)

	out, err := s.reader.StatusCountsRegion(s.ctx, "north", now.AddDate(0, 0, -1), true)
	s.Require().NoError(err)
	s.Require().Len(out, 1)
	s.Equal("in_review", out[0].Status)
	s.Equal(2, out[0].Count)
}

func (s *PostgresReaderSuite) TestPerCapitaDividesByDistinctCities() {
	start := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0)
	mid := start.AddDate(0, 0, 15)

	// 10 roads petitions across 5 distinct cities: 10 / 5 = 2.0 per city.
	cities := []string{"a", "b", "c", "d", "e"}
	for i := 0; i < 10; i++ {
		s.seedPetition("north", cities[i%len(cities)], "roads", false, mid)
	}

	out, err := s.reader.PerCapitaDistributionRegion(s.ctx, "north", start, end, false)
	s.Require().NoError(err)
	s.Require().Len(out, 1)
	s.Equal("roads", out[0].Category)
	s.InDelta(2.0, out[0].PerCity, 1e-9)
}

func (s *PostgresReaderSuite) TestTopEndorsedRanking() {
	start := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0)

	older := s.seedPetition("north", "springfield", "roads", true, start.AddDate(0, 0, 5))
	newer := s.seedPetition("north", "springfield", "parks", true, start.AddDate(0, 0, 10))
	leader := s.seedPetition("north", "springfield", "zoning", true, start.AddDate(0, 0, 2))

	s.endorse(leader, "a@example.com")
	s.endorse(leader, "b@example.com")
	s.endorse(older, "a@example.com")
	s.endorse(newer, "a@example.com")

	out, err := s.reader.TopEndorsed(s.ctx, "north", "springfield", start, end, true, 2)
	s.Require().NoError(err)
	s.Require().Len(out, 2)
	s.Equal(leader, out[0].ID)
	s.Equal(2, out[0].Endorsements)
	// Equal endorsement counts fall back to the newer submission.
	s.Equal(newer, out[1].ID)
}

func (s *PostgresReaderSuite) TestDailyCountsZeroFill() {
	start := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 6)

	s.seedPetition("north", "springfield", "roads", true, start.Add(10*time.Hour))
	s.seedPetition("north", "springfield", "roads", true, start.Add(11*time.Hour))
	s.seedPetition("north", "springfield", "roads", true, start.AddDate(0, 0, 3))
	// Other city and other kind must not count, but must not break zero-fill.
	s.seedPetition("north", "shelbyville", "roads", true, start.AddDate(0, 0, 1))
	s.seedPetition("north", "springfield", "roads", false, start.AddDate(0, 0, 1))

	out, err := s.reader.DailyCounts(s.ctx, "north", "springfield", start, end, true)
	s.Require().NoError(err)
	// Inclusive calendar spine: 7 days.
	s.Require().Len(out, 7)

	counts := map[string]int{}
	for _, dc := range out {
		counts[dc.Day] = dc.Count
	}
	s.Equal(2, counts["2025-06-01"])
	s.Equal(0, counts["2025-06-02"])
	s.Equal(1, counts["2025-06-04"])
	s.Equal(0, counts["2025-06-07"])
}

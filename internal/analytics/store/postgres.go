package store

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"agora/internal/analytics/models"
)

// PostgresReader runs the aggregate queries against PostgreSQL. Every query
// is fully parameterized; region, city, and window values are never
// interpolated.
type PostgresReader struct {
	pool *pgxpool.Pool
}

// NewPostgres constructs a PostgreSQL-backed aggregate reader.
func NewPostgres(pool *pgxpool.Pool) *PostgresReader {
	return &PostgresReader{pool: pool}
}

func (r *PostgresReader) TopCategoriesCity(ctx context.Context, region, city string, since time.Time, isInitiative bool, limit int) ([]models.CategoryCount, error) {
	const q = `
		SELECT category, COUNT(*)
		FROM petition
		WHERE submission_time >= $1
		  AND is_initiative = $2
		  AND region = $3 AND city_name = $4
		GROUP BY category
		ORDER BY COUNT(*) DESC, category ASC
		LIMIT $5`
	rows, err := r.pool.Query(ctx, q, since, isInitiative, region, city, limit)
	if err != nil {
		return nil, fmt.Errorf("top categories city: %w", err)
	}
	defer rows.Close()
	return scanCategoryCounts(rows)
}

func (r *PostgresReader) TopCategoriesRegion(ctx context.Context, region string, since time.Time, isInitiative bool, limit int) ([]models.CategoryCount, error) {
	const q = `
		SELECT category, COUNT(*)
		FROM petition
		WHERE submission_time >= $1
		  AND is_initiative = $2
		  AND region = $3
		GROUP BY category
		ORDER BY COUNT(*) DESC, category ASC
		LIMIT $4`
	rows, err := r.pool.Query(ctx, q, since, isInitiative, region, limit)
	if err != nil {
		return nil, fmt.Errorf("top categories region: %w", err)
	}
	defer rows.Close()
	return scanCategoryCounts(rows)
}

func (r *PostgresReader) StatusCountsCity(ctx context.Context, region, city string, since time.Time, isInitiative bool) ([]models.StatusCount, error) {
	const q = `
		SELECT petition_status, COUNT(*)
		FROM petition
		WHERE submission_time >= $1
		  AND is_initiative = $2
		  AND region = $3 AND city_name = $4
		GROUP BY petition_status
		ORDER BY petition_status`
	rows, err := r.pool.Query(ctx, q, since, isInitiative, region, city)
	if err != nil {
		return nil, fmt.Errorf("status counts city: %w", err)
	}
	defer rows.Close()
	return scanStatusCounts(rows)
}

func (r *PostgresReader) StatusCountsRegion(ctx context.Context, region string, since time.Time, isInitiative bool) ([]models.StatusCount, error) {
	const q = `
		SELECT petition_status, COUNT(*)
		FROM petition
		WHERE submission_time >= $1
		  AND is_initiative = $2
		  AND region = $3
		GROUP BY petition_status
		ORDER BY petition_status`
	rows, err := r.pool.Query(ctx, q, since, isInitiative, region)
	if err != nil {
		return nil, fmt.Errorf("status counts region: %w", err)
	}
	defer rows.Close()
	return scanStatusCounts(rows)
}

func (r *PostgresReader) CategoryDistributionCity(ctx context.Context, region, city string, start, end time.Time, isInitiative bool) ([]models.CategoryCount, error) {
	const q = `
		SELECT category, COUNT(*)
		FROM petition
		WHERE region = $1 AND city_name = $2
		  AND submission_time BETWEEN $3 AND $4
		  AND is_initiative = $5
		GROUP BY category
		ORDER BY COUNT(*) DESC, category ASC`
	rows, err := r.pool.Query(ctx, q, region, city, start, end, isInitiative)
	if err != nil {
		return nil, fmt.Errorf("category distribution city: %w", err)
	}
	defer rows.Close()
	return scanCategoryCounts(rows)
}

// PerCapitaDistributionRegion divides by the number of distinct cities in
// the region holding any petition. NULLIF guards the zero-city case; a
// region without petitions produces no rows at all.
func (r *PostgresReader) PerCapitaDistributionRegion(ctx context.Context, region string, start, end time.Time, isInitiative bool) ([]models.CategoryShare, error) {
	const q = `
		WITH city_count AS (
			SELECT COUNT(DISTINCT city_name) AS n
			FROM petition
			WHERE region = $1
		)
		SELECT category,
		       COUNT(*)::float / NULLIF((SELECT n FROM city_count), 0) AS count_per_city
		FROM petition
		WHERE region = $1
		  AND submission_time BETWEEN $2 AND $3
		  AND is_initiative = $4
		GROUP BY category
		ORDER BY count_per_city DESC, category ASC`
	rows, err := r.pool.Query(ctx, q, region, start, end, isInitiative)
	if err != nil {
		return nil, fmt.Errorf("per-capita distribution: %w", err)
	}
	defer rows.Close()

	var out []models.CategoryShare
	for rows.Next() {
		var cs models.CategoryShare
		if err := rows.Scan(&cs.Category, &cs.PerCity); err != nil {
			return nil, fmt.Errorf("scan per-capita row: %w", err)
		}
		out = append(out, cs)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("per-capita distribution: %w", err)
	}
	return out, nil
}

func (r *PostgresReader) TopEndorsed(ctx context.Context, region, city string, start, end time.Time, isInitiative bool, limit int) ([]models.RankedPetition, error) {
	const q = `
		SELECT p.id, p.header, p.category, p.submission_time, COUNT(l.petition_id) AS endorsement_count
		FROM petition p
		LEFT JOIN likes l ON p.id = l.petition_id
		WHERE p.is_initiative = $1
		  AND p.region = $2 AND p.city_name = $3
		  AND p.submission_time BETWEEN $4 AND $5
		GROUP BY p.id
		ORDER BY endorsement_count DESC, p.submission_time DESC, p.id ASC
		LIMIT $6`
	rows, err := r.pool.Query(ctx, q, isInitiative, region, city, start, end, limit)
	if err != nil {
		return nil, fmt.Errorf("top endorsed: %w", err)
	}
	defer rows.Close()

	var out []models.RankedPetition
	for rows.Next() {
		var rp models.RankedPetition
		if err := rows.Scan(&rp.ID, &rp.Header, &rp.Category, &rp.SubmissionTime, &rp.Endorsements); err != nil {
			return nil, fmt.Errorf("scan ranked petition: %w", err)
		}
		out = append(out, rp)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("top endorsed: %w", err)
	}
	return out, nil
}

// DailyCounts joins the petitions onto a generate_series calendar spine so
// every day in the window appears, zero-filled when nothing was submitted.
func (r *PostgresReader) DailyCounts(ctx context.Context, region, city string, start, end time.Time, isInitiative bool) ([]models.DayCount, error) {
	const q = `
		SELECT dates.d::date AS day, COUNT(petition.submission_time)
		FROM GENERATE_SERIES($1::date, $2::date, '1 day') AS dates(d)
		LEFT JOIN petition
		  ON petition.submission_time::date = dates.d::date
		 AND petition.is_initiative = $3
		 AND petition.region = $4
		 AND petition.city_name = $5
		GROUP BY dates.d
		ORDER BY day`
	rows, err := r.pool.Query(ctx, q, start, end, isInitiative, region, city)
	if err != nil {
		return nil, fmt.Errorf("daily counts: %w", err)
	}
	defer rows.Close()

	var out []models.DayCount
	for rows.Next() {
		var day time.Time
		var count int
		if err := rows.Scan(&day, &count); err != nil {
			return nil, fmt.Errorf("scan daily count: %w", err)
		}
		out = append(out, models.DayCount{Day: day.Format("2006-01-02"), Count: count})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("daily counts: %w", err)
	}
	return out, nil
}

func scanCategoryCounts(rows pgx.Rows) ([]models.CategoryCount, error) {
	var out []models.CategoryCount
	for rows.Next() {
		var cc models.CategoryCount
		if err := rows.Scan(&cc.Category, &cc.Count); err != nil {
			return nil, fmt.Errorf("scan category count: %w", err)
		}
		out = append(out, cc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("category counts: %w", err)
	}
	return out, nil
}

func scanStatusCounts(rows pgx.Rows) ([]models.StatusCount, error) {
	var out []models.StatusCount
	for rows.Next() {
		var sc models.StatusCount
		if err := rows.Scan(&sc.Status, &sc.Count); err != nil {
			return nil, fmt.Errorf("scan status count: %w", err)
		}
		out = append(out, sc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("status counts: %w", err)
	}
	return out, nil
}

package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"agora/internal/petition/models"
	"agora/pkg/platform/sentinel"
)

// PostgresStore persists petitions in PostgreSQL through a bounded pgx pool.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgres constructs a PostgreSQL-backed petition store.
func NewPostgres(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

func (s *PostgresStore) Insert(ctx context.Context, p models.NewPetition) (int64, error) {
	const q = `INSERT INTO petition
		(is_initiative, category, petition_description, petitioner_email, address, header, region, city_name)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id`
	var id int64
	err := s.pool.QueryRow(ctx, q,
		p.IsInitiative, p.Category, p.Description, p.PetitionerEmail,
		p.Address, p.Header, p.Region, p.CityName,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert petition: %w", err)
	}
	return id, nil
}

func (s *PostgresStore) ModerationFacts(ctx context.Context, petitionID int64) (models.ModerationFacts, error) {
	const q = `SELECT region, city_name, petition_status FROM petition WHERE id = $1`
	var facts models.ModerationFacts
	err := s.pool.QueryRow(ctx, q, petitionID).Scan(&facts.Region, &facts.CityName, &facts.Status)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.ModerationFacts{}, fmt.Errorf("petition %d: %w", petitionID, sentinel.ErrNotFound)
	}
	if err != nil {
		return models.ModerationFacts{}, fmt.Errorf("moderation facts: %w", err)
	}
	return facts, nil
}

// UpdateStatusWithComment runs the status update and the comment insert in
// one transaction so a failed comment never leaves a silent status change.
func (s *PostgresStore) UpdateStatusWithComment(ctx context.Context, petitionID int64, status models.Status, adminID int64, comment string) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transition: %w", sentinel.ErrUnavailable)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx,
		`UPDATE petition SET petition_status = $1 WHERE id = $2`,
		status, petitionID,
	)
	if err != nil {
		return fmt.Errorf("update status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("petition %d: %w", petitionID, sentinel.ErrNotFound)
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO comments (petition_id, user_id, comment_description) VALUES ($1, $2, $3)`,
		petitionID, adminID, comment,
	)
	if err != nil {
		return fmt.Errorf("insert moderation comment: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transition: %w", sentinel.ErrUnavailable)
	}
	return nil
}

func (s *PostgresStore) RecipientEmails(ctx context.Context, petitionID int64) ([]string, error) {
	const q = `
		SELECT petitioner_email AS email
		FROM petition
		WHERE id = $1

		UNION

		SELECT user_email AS email
		FROM petition
		JOIN likes ON petition.id = likes.petition_id
		WHERE petition.id = $1`
	rows, err := s.pool.Query(ctx, q, petitionID)
	if err != nil {
		return nil, fmt.Errorf("recipient emails: %w", err)
	}
	defer rows.Close()

	var emails []string
	for rows.Next() {
		var email string
		if err := rows.Scan(&email); err != nil {
			return nil, fmt.Errorf("scan recipient email: %w", err)
		}
		emails = append(emails, email)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("recipient emails: %w", err)
	}
	return emails, nil
}

func (s *PostgresStore) PetitionExists(ctx context.Context, petitionID int64) (bool, error) {
	const q = `SELECT EXISTS (SELECT 1 FROM petition WHERE id = $1)`
	var exists bool
	if err := s.pool.QueryRow(ctx, q, petitionID).Scan(&exists); err != nil {
		return false, fmt.Errorf("check petition exists: %w", err)
	}
	return exists, nil
}

func (s *PostgresStore) EndorsementExists(ctx context.Context, petitionID int64, userEmail string) (bool, error) {
	const q = `SELECT EXISTS (SELECT 1 FROM likes WHERE petition_id = $1 AND user_email = $2)`
	var exists bool
	if err := s.pool.QueryRow(ctx, q, petitionID, userEmail).Scan(&exists); err != nil {
		return false, fmt.Errorf("check endorsement: %w", err)
	}
	return exists, nil
}

// InsertEndorsement leans on the (petition_id, user_email) unique constraint
// so concurrent toggles cannot produce duplicates.
func (s *PostgresStore) InsertEndorsement(ctx context.Context, petitionID int64, userEmail string) (bool, error) {
	const q = `INSERT INTO likes (petition_id, user_email) VALUES ($1, $2) ON CONFLICT DO NOTHING`
	tag, err := s.pool.Exec(ctx, q, petitionID, userEmail)
	if err != nil {
		return false, fmt.Errorf("insert endorsement: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (s *PostgresStore) DeleteEndorsement(ctx context.Context, petitionID int64, userEmail string) (bool, error) {
	const q = `DELETE FROM likes WHERE petition_id = $1 AND user_email = $2`
	tag, err := s.pool.Exec(ctx, q, petitionID, userEmail)
	if err != nil {
		return false, fmt.Errorf("delete endorsement: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (s *PostgresStore) ListCity(ctx context.Context, region, city string, isInitiative bool) ([]models.Summary, error) {
	const q = `
		SELECT p.id, p.header, p.petition_status, p.address, p.submission_time, COUNT(l.petition_id) AS endorsements
		FROM petition p
		LEFT JOIN likes l ON p.id = l.petition_id
		WHERE p.region = $1
		  AND p.city_name = $2
		  AND p.petition_status <> $3
		  AND p.is_initiative = $4
		GROUP BY p.id
		ORDER BY p.submission_time DESC, p.id DESC`
	rows, err := s.pool.Query(ctx, q, region, city, models.StatusPendingModeration, isInitiative)
	if err != nil {
		return nil, fmt.Errorf("list city petitions: %w", err)
	}
	defer rows.Close()
	return scanSummaries(rows)
}

func (s *PostgresStore) ListModeration(ctx context.Context, region, city string) ([]models.ModeratorSummary, error) {
	const q = `
		SELECT p.id, p.is_initiative, p.header, p.petition_status, p.address, p.submission_time, COUNT(l.petition_id) AS endorsements
		FROM petition p
		LEFT JOIN likes l ON p.id = l.petition_id
		WHERE p.region = $1
		  AND p.city_name = $2
		GROUP BY p.id
		ORDER BY p.submission_time DESC, p.id DESC`
	rows, err := s.pool.Query(ctx, q, region, city)
	if err != nil {
		return nil, fmt.Errorf("list moderation petitions: %w", err)
	}
	defer rows.Close()

	var out []models.ModeratorSummary
	for rows.Next() {
		var m models.ModeratorSummary
		if err := rows.Scan(&m.ID, &m.IsInitiative, &m.Header, &m.Status, &m.Address, &m.SubmissionTime, &m.Endorsements); err != nil {
			return nil, fmt.Errorf("scan moderation row: %w", err)
		}
		m.Kind = models.KindLabel(m.IsInitiative)
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list moderation petitions: %w", err)
	}
	return out, nil
}

func (s *PostgresStore) ListByPetitioner(ctx context.Context, petitionerEmail string) ([]models.Summary, error) {
	const q = `
		SELECT p.id, p.header, p.petition_status, p.address, p.submission_time, COUNT(l.petition_id) AS endorsements
		FROM petition p
		LEFT JOIN likes l ON p.id = l.petition_id
		WHERE p.petitioner_email = $1
		GROUP BY p.id
		ORDER BY p.submission_time DESC, p.id DESC`
	rows, err := s.pool.Query(ctx, q, petitionerEmail)
	if err != nil {
		return nil, fmt.Errorf("list petitions by petitioner: %w", err)
	}
	defer rows.Close()
	return scanSummaries(rows)
}

func (s *PostgresStore) Detail(ctx context.Context, petitionID int64) (*models.Detail, error) {
	const q = `
		SELECT p.id, p.is_initiative, p.category, p.petition_description, p.petitioner_email,
		       p.address, p.header, p.region, p.city_name, p.petition_status, p.submission_time,
		       COUNT(l.petition_id) AS endorsements
		FROM petition p
		LEFT JOIN likes l ON p.id = l.petition_id
		WHERE p.id = $1
		GROUP BY p.id`
	var d models.Detail
	err := s.pool.QueryRow(ctx, q, petitionID).Scan(
		&d.ID, &d.IsInitiative, &d.Category, &d.Description, &d.PetitionerEmail,
		&d.Address, &d.Header, &d.Region, &d.CityName, &d.Status, &d.SubmissionTime,
		&d.Endorsements,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("petition %d: %w", petitionID, sentinel.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("petition detail: %w", err)
	}
	return &d, nil
}

func (s *PostgresStore) Comments(ctx context.Context, petitionID int64) ([]models.Comment, error) {
	const q = `SELECT submission_time, comment_description FROM comments WHERE petition_id = $1 ORDER BY submission_time`
	rows, err := s.pool.Query(ctx, q, petitionID)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	defer rows.Close()

	var out []models.Comment
	for rows.Next() {
		var c models.Comment
		if err := rows.Scan(&c.SubmissionTime, &c.Text); err != nil {
			return nil, fmt.Errorf("scan comment: %w", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	return out, nil
}

func scanSummaries(rows pgx.Rows) ([]models.Summary, error) {
	var out []models.Summary
	for rows.Next() {
		var sm models.Summary
		if err := rows.Scan(&sm.ID, &sm.Header, &sm.Status, &sm.Address, &sm.SubmissionTime, &sm.Endorsements); err != nil {
			return nil, fmt.Errorf("scan petition summary: %w", err)
		}
		out = append(out, sm)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("petition summaries: %w", err)
	}
	return out, nil
}

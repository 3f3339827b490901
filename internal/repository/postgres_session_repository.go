package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/u1krsh/EduPay/internal/domain"
)

// PostgresSessionRepository implements SessionRepository using PostgreSQL
type PostgresSessionRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresSessionRepository creates a new PostgresSessionRepository
func NewPostgresSessionRepository(pool *pgxpool.Pool) *PostgresSessionRepository {
	return &PostgresSessionRepository{pool: pool}
}

// reviewed_by and payment_id are nullable UUIDs in the schema but plain
// strings on the domain type; the COALESCE/NULLIF pair maps between them.
const sessionColumns = `id, professor_id, course_name, session_date, hours, hourly_rate, amount,
	status, notes, review_note, COALESCE(reviewed_by::text, ''), COALESCE(payment_id::text, ''),
	created_at, updated_at`

func scanSession(row pgx.Row) (*domain.TeachingSession, error) {
	s := &domain.TeachingSession{}
	err := row.Scan(
		&s.ID,
		&s.ProfessorID,
		&s.CourseName,
		&s.Date,
		&s.Hours,
		&s.HourlyRate,
		&s.Amount,
		&s.Status,
		&s.Notes,
		&s.ReviewNote,
		&s.ReviewedBy,
		&s.PaymentID,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return s, nil
}

func scanSessionRows(rows pgx.Rows) ([]*domain.TeachingSession, error) {
	var sessions []*domain.TeachingSession
	for rows.Next() {
		s := &domain.TeachingSession{}
		err := rows.Scan(
			&s.ID,
			&s.ProfessorID,
			&s.CourseName,
			&s.Date,
			&s.Hours,
			&s.HourlyRate,
			&s.Amount,
			&s.Status,
			&s.Notes,
			&s.ReviewNote,
			&s.ReviewedBy,
			&s.PaymentID,
			&s.CreatedAt,
			&s.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, s)
	}
	return sessions, rows.Err()
}

// Create creates a new teaching session
func (r *PostgresSessionRepository) Create(ctx context.Context, session *domain.TeachingSession) error {
	query := `
		INSERT INTO teaching_sessions (id, professor_id, course_name, session_date, hours,
			hourly_rate, amount, status, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	_, err := r.pool.Exec(ctx, query,
		session.ID,
		session.ProfessorID,
		session.CourseName,
		session.Date,
		session.Hours,
		session.HourlyRate,
		session.Amount,
		session.Status,
		session.Notes,
		session.CreatedAt,
		session.UpdatedAt,
	)
	return err
}

// GetByID retrieves a session by ID
func (r *PostgresSessionRepository) GetByID(ctx context.Context, id string) (*domain.TeachingSession, error) {
	query := `SELECT ` + sessionColumns + ` FROM teaching_sessions WHERE id = $1`
	return scanSession(r.pool.QueryRow(ctx, query, id))
}

// GetByIDs retrieves sessions by ID
func (r *PostgresSessionRepository) GetByIDs(ctx context.Context, ids []string) ([]*domain.TeachingSession, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	query := `SELECT ` + sessionColumns + ` FROM teaching_sessions WHERE id = ANY($1)`
	rows, err := r.pool.Query(ctx, query, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanSessionRows(rows)
}

// List retrieves sessions matching the filter plus the unpaginated total
func (r *PostgresSessionRepository) List(ctx context.Context, filter SessionFilter) ([]*domain.TeachingSession, int64, error) {
	var conditions []string
	var args []interface{}

	if filter.ProfessorID != "" {
		args = append(args, filter.ProfessorID)
		conditions = append(conditions, fmt.Sprintf("professor_id = $%d", len(args)))
	}
	if filter.Status != "" {
		args = append(args, filter.Status)
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)))
	}
	if !filter.Month.IsZero() {
		args = append(args, filter.Month, filter.Month.AddDate(0, 1, 0))
		conditions = append(conditions, fmt.Sprintf("session_date >= $%d AND session_date < $%d", len(args)-1, len(args)))
	}

	where := ""
	if len(conditions) > 0 {
		where = " WHERE " + strings.Join(conditions, " AND ")
	}

	var total int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM teaching_sessions`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, filter.Limit, filter.Offset)
	query := fmt.Sprintf(`SELECT %s FROM teaching_sessions%s ORDER BY session_date DESC, created_at DESC LIMIT $%d OFFSET $%d`,
		sessionColumns, where, len(args)-1, len(args))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	sessions, err := scanSessionRows(rows)
	if err != nil {
		return nil, 0, err
	}
	return sessions, total, nil
}

// Update updates a session
func (r *PostgresSessionRepository) Update(ctx context.Context, session *domain.TeachingSession) error {
	query := `
		UPDATE teaching_sessions
		SET course_name = $2, session_date = $3, hours = $4, hourly_rate = $5,
		    amount = $6, status = $7, notes = $8, review_note = $9,
		    reviewed_by = NULLIF($10, '')::uuid, payment_id = NULLIF($11, '')::uuid,
		    updated_at = $12
		WHERE id = $1
	`
	_, err := r.pool.Exec(ctx, query,
		session.ID,
		session.CourseName,
		session.Date,
		session.Hours,
		session.HourlyRate,
		session.Amount,
		session.Status,
		session.Notes,
		session.ReviewNote,
		session.ReviewedBy,
		session.PaymentID,
		session.UpdatedAt,
	)
	return err
}

// Delete deletes a session
func (r *PostgresSessionRepository) Delete(ctx context.Context, id string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM teaching_sessions WHERE id = $1`, id)
	return err
}

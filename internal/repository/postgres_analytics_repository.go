package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/u1krsh/EduPay/internal/domain"
)

// PostgresAnalyticsRepository implements AnalyticsRepository using PostgreSQL
type PostgresAnalyticsRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresAnalyticsRepository creates a new PostgresAnalyticsRepository
func NewPostgresAnalyticsRepository(pool *pgxpool.Pool) *PostgresAnalyticsRepository {
	return &PostgresAnalyticsRepository{pool: pool}
}

// MonthlyEarnings aggregates a professor's sessions by month, most recent
// first, covering the last `months` months.
func (r *PostgresAnalyticsRepository) MonthlyEarnings(ctx context.Context, professorID string, months int) ([]*domain.MonthlyEarnings, error) {
	query := `
		SELECT to_char(session_date, 'YYYY-MM') AS month,
		       COUNT(*) AS session_count,
		       COALESCE(SUM(hours), 0) AS total_hours,
		       COALESCE(SUM(amount) FILTER (WHERE status IN ('approved', 'paid')), 0) AS approved_total,
		       COALESCE(SUM(amount) FILTER (WHERE status = 'paid'), 0) AS paid_total
		FROM teaching_sessions
		WHERE professor_id = $1
		  AND session_date >= date_trunc('month', NOW()) - make_interval(months => $2 - 1)
		GROUP BY month
		ORDER BY month DESC
	`
	rows, err := r.pool.Query(ctx, query, professorID, months)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var buckets []*domain.MonthlyEarnings
	for rows.Next() {
		b := &domain.MonthlyEarnings{}
		if err := rows.Scan(&b.Month, &b.SessionCount, &b.TotalHours, &b.ApprovedTotal, &b.PaidTotal); err != nil {
			return nil, err
		}
		buckets = append(buckets, b)
	}
	return buckets, rows.Err()
}

// ProfessorTotals aggregates sessions per professor for the admin view
func (r *PostgresAnalyticsRepository) ProfessorTotals(ctx context.Context) ([]*domain.ProfessorTotals, error) {
	query := `
		SELECT u.id,
		       u.name,
		       COUNT(s.id) AS session_count,
		       COALESCE(SUM(s.hours), 0) AS total_hours,
		       COALESCE(SUM(s.amount) FILTER (WHERE s.status = 'pending'), 0) AS pending_total,
		       COALESCE(SUM(s.amount) FILTER (WHERE s.status = 'approved'), 0) AS approved_total,
		       COALESCE(SUM(s.amount) FILTER (WHERE s.status = 'paid'), 0) AS paid_total
		FROM users u
		LEFT JOIN teaching_sessions s ON s.professor_id = u.id
		WHERE u.role = 'professor' AND u.is_active
		GROUP BY u.id, u.name
		ORDER BY u.name
	`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var totals []*domain.ProfessorTotals
	for rows.Next() {
		t := &domain.ProfessorTotals{}
		if err := rows.Scan(&t.ProfessorID, &t.ProfessorName, &t.SessionCount, &t.TotalHours,
			&t.PendingTotal, &t.ApprovedTotal, &t.PaidTotal); err != nil {
			return nil, err
		}
		totals = append(totals, t)
	}
	return totals, rows.Err()
}

// StatusTotals aggregates all sessions by status
func (r *PostgresAnalyticsRepository) StatusTotals(ctx context.Context) ([]*domain.StatusTotals, error) {
	query := `
		SELECT status,
		       COUNT(*) AS session_count,
		       COALESCE(SUM(hours), 0) AS total_hours,
		       COALESCE(SUM(amount), 0) AS total_amount
		FROM teaching_sessions
		GROUP BY status
		ORDER BY status
	`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var totals []*domain.StatusTotals
	for rows.Next() {
		t := &domain.StatusTotals{}
		if err := rows.Scan(&t.Status, &t.SessionCount, &t.TotalHours, &t.TotalAmount); err != nil {
			return nil, err
		}
		totals = append(totals, t)
	}
	return totals, rows.Err()
}

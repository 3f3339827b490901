package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/u1krsh/EduPay/internal/domain"
)

// PostgresActivityLogRepository implements ActivityLogRepository using
// PostgreSQL
type PostgresActivityLogRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresActivityLogRepository creates a new PostgresActivityLogRepository
func NewPostgresActivityLogRepository(pool *pgxpool.Pool) *PostgresActivityLogRepository {
	return &PostgresActivityLogRepository{pool: pool}
}

// Create appends an activity entry
func (r *PostgresActivityLogRepository) Create(ctx context.Context, entry *domain.ActivityLog) error {
	query := `
		INSERT INTO activity_log (id, user_id, action, entity_type, entity_id, details, created_at)
		VALUES ($1, NULLIF($2, '')::uuid, $3, $4, $5, $6, $7)
	`
	_, err := r.pool.Exec(ctx, query,
		entry.ID,
		entry.UserID,
		entry.Action,
		entry.EntityType,
		entry.EntityID,
		entry.Details,
		entry.CreatedAt,
	)
	return err
}

// ListRecent retrieves the newest entries
func (r *PostgresActivityLogRepository) ListRecent(ctx context.Context, limit int) ([]*domain.ActivityLog, error) {
	query := `
		SELECT id, COALESCE(user_id::text, ''), action, entity_type, entity_id, details, created_at
		FROM activity_log
		ORDER BY created_at DESC
		LIMIT $1
	`
	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*domain.ActivityLog
	for rows.Next() {
		entry := &domain.ActivityLog{}
		err := rows.Scan(
			&entry.ID,
			&entry.UserID,
			&entry.Action,
			&entry.EntityType,
			&entry.EntityID,
			&entry.Details,
			&entry.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

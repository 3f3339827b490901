package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/u1krsh/EduPay/internal/domain"
)

// PostgresPaymentRepository implements PaymentRepository using PostgreSQL
type PostgresPaymentRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresPaymentRepository creates a new PostgresPaymentRepository
func NewPostgresPaymentRepository(pool *pgxpool.Pool) *PostgresPaymentRepository {
	return &PostgresPaymentRepository{pool: pool}
}

const paymentColumns = `id, professor_id, invoice_number, amount, total_hours, session_count,
	status, created_by, created_at, paid_at`

func scanPayment(row pgx.Row) (*domain.Payment, error) {
	p := &domain.Payment{}
	err := row.Scan(
		&p.ID,
		&p.ProfessorID,
		&p.InvoiceNumber,
		&p.Amount,
		&p.TotalHours,
		&p.SessionCount,
		&p.Status,
		&p.CreatedBy,
		&p.CreatedAt,
		&p.PaidAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return p, nil
}

// CreateWithSessions persists the payment and marks its sessions paid in one
// transaction. The status guard on the UPDATE means a session that slipped
// out of approved state since selection fails the whole batch.
func (r *PostgresPaymentRepository) CreateWithSessions(ctx context.Context, payment *domain.Payment, sessionIDs []string) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	insertPayment := `
		INSERT INTO payments (id, professor_id, invoice_number, amount, total_hours,
			session_count, status, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	if _, err := tx.Exec(ctx, insertPayment,
		payment.ID,
		payment.ProfessorID,
		payment.InvoiceNumber,
		payment.Amount,
		payment.TotalHours,
		payment.SessionCount,
		payment.Status,
		payment.CreatedBy,
		payment.CreatedAt,
	); err != nil {
		return err
	}

	markPaid := `
		UPDATE teaching_sessions
		SET status = 'paid', payment_id = $1, updated_at = NOW()
		WHERE id = ANY($2) AND status = 'approved'
	`
	tag, err := tx.Exec(ctx, markPaid, payment.ID, sessionIDs)
	if err != nil {
		return err
	}
	if int(tag.RowsAffected()) != len(sessionIDs) {
		return fmt.Errorf("expected %d sessions to mark paid, matched %d", len(sessionIDs), tag.RowsAffected())
	}

	return tx.Commit(ctx)
}

// GetByID retrieves a payment by ID
func (r *PostgresPaymentRepository) GetByID(ctx context.Context, id string) (*domain.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE id = $1`
	return scanPayment(r.pool.QueryRow(ctx, query, id))
}

// List retrieves payments matching the filter plus the unpaginated total
func (r *PostgresPaymentRepository) List(ctx context.Context, filter PaymentFilter) ([]*domain.Payment, int64, error) {
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

	where := ""
	if len(conditions) > 0 {
		where = " WHERE " + strings.Join(conditions, " AND ")
	}

	var total int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM payments`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, filter.Limit, filter.Offset)
	query := fmt.Sprintf(`SELECT %s FROM payments%s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		paymentColumns, where, len(args)-1, len(args))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var payments []*domain.Payment
	for rows.Next() {
		p := &domain.Payment{}
		err := rows.Scan(
			&p.ID,
			&p.ProfessorID,
			&p.InvoiceNumber,
			&p.Amount,
			&p.TotalHours,
			&p.SessionCount,
			&p.Status,
			&p.CreatedBy,
			&p.CreatedAt,
			&p.PaidAt,
		)
		if err != nil {
			return nil, 0, err
		}
		payments = append(payments, p)
	}
	return payments, total, rows.Err()
}

// MarkCompleted stamps the payment completed with its paid time
func (r *PostgresPaymentRepository) MarkCompleted(ctx context.Context, id string, paidAt time.Time) error {
	query := `UPDATE payments SET status = 'completed', paid_at = $2 WHERE id = $1 AND status = 'pending'`
	tag, err := r.pool.Exec(ctx, query, id, paidAt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return errors.New("payment not found or already completed")
	}
	return nil
}

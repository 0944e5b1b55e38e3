package database

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"

	"subminder_reminder/internal/domain/notification"
)

type PostgresNotificationRepository struct {
	db *sql.DB
}

func NewPostgresNotificationRepository(db *sql.DB) *PostgresNotificationRepository {
	return &PostgresNotificationRepository{db: db}
}

// Create inserts the record; created_at and read come from column defaults.
func (r *PostgresNotificationRepository) Create(ctx context.Context, tenantID string, n *notification.Notification) error {
	query := `INSERT INTO notifications (user_id, title, body)
              VALUES ($1, $2, $3)
              RETURNING id, created_at, read`
	var id int64
	err := r.db.QueryRowContext(ctx, query, tenantID, n.Title, n.Body).Scan(&id, &n.CreatedAt, &n.Read)
	if err != nil {
		return fmt.Errorf("error creating notification: %w", err)
	}
	n.ID = strconv.FormatInt(id, 10)
	n.TenantID = tenantID
	return nil
}

type PostgresLedger struct {
	db *sql.DB
}

func NewPostgresLedger(db *sql.DB) *PostgresLedger {
	return &PostgresLedger{db: db}
}

// Claim inserts key into reminder_ledger. A conflicting row means it was already claimed.
func (l *PostgresLedger) Claim(ctx context.Context, key string) (bool, error) {
	res, err := l.db.ExecContext(ctx, `INSERT INTO reminder_ledger (reminder_key) VALUES ($1) ON CONFLICT DO NOTHING`, key)
	if err != nil {
		return false, fmt.Errorf("error claiming reminder key: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("error reading ledger result: %w", err)
	}
	return n == 1, nil
}

// Release removes key from reminder_ledger.
func (l *PostgresLedger) Release(ctx context.Context, key string) error {
	if _, err := l.db.ExecContext(ctx, `DELETE FROM reminder_ledger WHERE reminder_key = $1`, key); err != nil {
		return fmt.Errorf("error releasing reminder key: %w", err)
	}
	return nil
}

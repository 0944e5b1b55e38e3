package database

import (
	"context"
	"database/sql"
	"fmt"

	"subminder_reminder/internal/domain/subscription"
)

type PostgresSubscriptionRepository struct {
	db *sql.DB
}

func NewPostgresSubscriptionRepository(db *sql.DB) *PostgresSubscriptionRepository {
	return &PostgresSubscriptionRepository{db: db}
}

func (r *PostgresSubscriptionRepository) FindDue(ctx context.Context, window subscription.Window, reminderDays int) ([]*subscription.Subscription, error) {
	query := `SELECT id, user_id, service_name, cost, currency, cycle, next_bill_date, reminder_days, category, management_url
              FROM subscriptions
              WHERE next_bill_date >= $1 AND next_bill_date <= $2 AND reminder_days = $3`
	rows, err := r.db.QueryContext(ctx, query, window.Start, window.End, reminderDays)
	if err != nil {
		return nil, fmt.Errorf("error querying due subscriptions: %w", err)
	}
	defer rows.Close()

	var subs []*subscription.Subscription
	for rows.Next() {
		var (
			s             subscription.Subscription
			userID        sql.NullString
			managementURL sql.NullString
		)
		if err := rows.Scan(&s.ID, &userID, &s.ServiceName, &s.Cost, &s.Currency, &s.Cycle,
			&s.NextBillDate, &s.ReminderDays, &s.Category, &managementURL); err != nil {
			return nil, fmt.Errorf("error scanning subscription row: %w", err)
		}
		s.TenantID = userID.String
		s.ManagementURL = managementURL.String
		s.NextBillDate = s.NextBillDate.UTC()
		subs = append(subs, &s)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating subscription rows: %w", err)
	}
	return subs, nil
}

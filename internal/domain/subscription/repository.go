package subscription

import "context"

// Repository is the read side of the record store used by the reminder scan.
type Repository interface {
	// FindDue returns subscriptions of every tenant whose NextBillDate lies in
	// window and whose ReminderDays equals reminderDays.
	FindDue(ctx context.Context, window Window, reminderDays int) ([]*Subscription, error)
}

// internal/domain/notification/repository.go
package notification

import "context"

// Repository persists in-app notifications under a tenant.
type Repository interface {
	// Create stores n under tenantID. CreatedAt is assigned by the store and
	// written back to n when the store reports it.
	Create(ctx context.Context, tenantID string, n *Notification) error
}

// Ledger remembers which reminders were already sent.
type Ledger interface {
	// Claim records key and reports whether this call was the first to do so.
	Claim(ctx context.Context, key string) (bool, error)
	// Release forgets key so a later run may send the reminder again.
	Release(ctx context.Context, key string) error
}

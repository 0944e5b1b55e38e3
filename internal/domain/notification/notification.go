// internal/domain/notification/notification.go
package notification

import (
	"time"

	"github.com/google/uuid"
)

// ReminderTitle is the title of every reminder notification and push.
const ReminderTitle = "Upcoming Subscription Charge!"

// Notification is an in-app message shown in the tenant's notification center.
// The reminder job only creates them; the client marks them read or deletes them.
type Notification struct {
	ID        string
	TenantID  string
	Title     string
	Body      string
	CreatedAt time.Time
	Read      bool
}

// NewReminder builds an unread reminder notification for tenantID.
func NewReminder(tenantID, body string) *Notification {
	return &Notification{
		TenantID: tenantID,
		Title:    ReminderTitle,
		Body:     body,
		Read:     false,
	}
}

var ledgerNamespace = uuid.MustParse("6f1d3c2e-8b7a-4e55-9c1d-2a4b6e8f0a13")

// ReminderKey derives a deterministic idempotency key for one reminder of a
// subscription due on dueDate.
func ReminderKey(subscriptionID string, dueDate time.Time) string {
	name := subscriptionID + "|" + dueDate.UTC().Format("2006-01-02")
	return uuid.NewSHA1(ledgerNamespace, []byte(name)).String()
}

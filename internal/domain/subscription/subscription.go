// internal/domain/subscription/subscription.go
package subscription

import (
	"time"

	"github.com/shopspring/decimal"
)

// Cycle controls how the client recalculates NextBillDate after a charge.
type Cycle string

const (
	CycleWeekly  Cycle = "weekly"
	CycleMonthly Cycle = "monthly"
	CycleYearly  Cycle = "yearly"
)

// Category is a descriptive grouping used by the dashboard only.
type Category string

const (
	CategoryEntertainment Category = "Entertainment"
	CategoryWork          Category = "Work"
	CategoryHealth        Category = "Health"
	CategoryUtility       Category = "Utility"
	CategoryOther         Category = "Other"
)

// Subscription is a recurring payment owned by exactly one tenant.
// The reminder job only reads it.
type Subscription struct {
	ID            string
	TenantID      string // Resolved from the parent document; empty when unresolvable
	ServiceName   string
	Cost          decimal.Decimal
	Currency      Currency
	Cycle         Cycle
	NextBillDate  time.Time // Authoritative due date
	ReminderDays  int       // One of ReminderOffsets, 0 when absent
	Category      Category
	ManagementURL string
}

// LeadTimeDays returns the lead time shown to the user. Zero falls back to
// DefaultReminderDays regardless of which offset matched.
func (s *Subscription) LeadTimeDays() int {
	if s.ReminderDays == 0 {
		return DefaultReminderDays
	}
	return s.ReminderDays
}

package firebase

import (
	"context"
	"errors"
	"time"

	"subminder_reminder/internal/domain/subscription"

	"cloud.google.com/go/firestore"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"google.golang.org/api/iterator"
)

const subscriptionsCollection = "subscriptions"

type subscriptionDoc struct {
	ServiceName   string    `firestore:"serviceName"`
	Cost          float64   `firestore:"cost"`
	Currency      string    `firestore:"currency"`
	Cycle         string    `firestore:"cycle"`
	NextBillDate  time.Time `firestore:"nextBillDate"`
	ReminderDays  int       `firestore:"reminderDays"`
	Category      string    `firestore:"category"`
	ManagementURL string    `firestore:"managementUrl"`
}

func (d *subscriptionDoc) toDomain(id, tenantID string) *subscription.Subscription {
	return &subscription.Subscription{
		ID:            id,
		TenantID:      tenantID,
		ServiceName:   d.ServiceName,
		Cost:          decimal.NewFromFloat(d.Cost),
		Currency:      subscription.Currency(d.Currency),
		Cycle:         subscription.Cycle(d.Cycle),
		NextBillDate:  d.NextBillDate.UTC(),
		ReminderDays:  d.ReminderDays,
		Category:      subscription.Category(d.Category),
		ManagementURL: d.ManagementURL,
	}
}

// FirestoreSubscriptionRepository reads users/{uid}/subscriptions across all users.
type FirestoreSubscriptionRepository struct {
	client *firestore.Client
	logger *logrus.Entry
}

func NewFirestoreSubscriptionRepository(client *firestore.Client, logger *logrus.Entry) *FirestoreSubscriptionRepository {
	return &FirestoreSubscriptionRepository{client: client, logger: logger}
}

// FindDue runs a collection-group query. It needs a composite index on
// (reminderDays ASC, nextBillDate ASC) for the subscriptions collection group.
func (r *FirestoreSubscriptionRepository) FindDue(ctx context.Context, window subscription.Window, reminderDays int) ([]*subscription.Subscription, error) {
	iter := r.client.CollectionGroup(subscriptionsCollection).
		Where("nextBillDate", ">=", window.Start).
		Where("nextBillDate", "<=", window.End).
		Where("reminderDays", "==", reminderDays).
		Documents(ctx)
	defer iter.Stop()

	var subs []*subscription.Subscription
	for {
		snap, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, describe("query due subscriptions", err)
		}

		var doc subscriptionDoc
		if err := snap.DataTo(&doc); err != nil {
			r.logger.WithError(err).WithField("path", snap.Ref.Path).Warn("Skipping malformed subscription document")
			continue
		}
		// An unresolved owner stays empty; the fan-out skips it.
		tenantID, _ := tenantOf(snap.Ref)
		subs = append(subs, doc.toDomain(snap.Ref.ID, tenantID))
	}
	return subs, nil
}

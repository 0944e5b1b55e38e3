package firebase

import (
	"context"

	"subminder_reminder/internal/domain/notification"

	"cloud.google.com/go/firestore"
)

const notificationsCollection = "notifications"

// FirestoreNotificationRepository appends to users/{uid}/notifications.
type FirestoreNotificationRepository struct {
	client *firestore.Client
}

func NewFirestoreNotificationRepository(client *firestore.Client) *FirestoreNotificationRepository {
	return &FirestoreNotificationRepository{client: client}
}

func (r *FirestoreNotificationRepository) Create(ctx context.Context, tenantID string, n *notification.Notification) error {
	ref, _, err := r.client.Collection(usersCollection).Doc(tenantID).Collection(notificationsCollection).Add(ctx, notificationFields(n))
	if err != nil {
		return describe("add notification", err)
	}
	n.ID = ref.ID
	return nil
}

func notificationFields(n *notification.Notification) map[string]interface{} {
	return map[string]interface{}{
		"title":     n.Title,
		"body":      n.Body,
		"createdAt": firestore.ServerTimestamp,
		"read":      false,
	}
}

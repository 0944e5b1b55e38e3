package firebase

import (
	"context"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const ledgerCollection = "reminderLedger"

// FirestoreLedger records sent reminders as reminderLedger/{key} documents.
type FirestoreLedger struct {
	client *firestore.Client
}

func NewFirestoreLedger(client *firestore.Client) *FirestoreLedger {
	return &FirestoreLedger{client: client}
}

// Claim creates the ledger document. It reports false when the key already exists.
func (l *FirestoreLedger) Claim(ctx context.Context, key string) (bool, error) {
	_, err := l.client.Collection(ledgerCollection).Doc(key).Create(ctx, map[string]interface{}{
		"sentAt": firestore.ServerTimestamp,
	})
	if status.Code(err) == codes.AlreadyExists {
		return false, nil
	}
	if err != nil {
		return false, describe("claim reminder key", err)
	}
	return true, nil
}

// Release deletes the ledger document. Deleting a missing key is not an error.
func (l *FirestoreLedger) Release(ctx context.Context, key string) error {
	if _, err := l.client.Collection(ledgerCollection).Doc(key).Delete(ctx); err != nil {
		return describe("release reminder key", err)
	}
	return nil
}

package firebase

import (
	"context"
	"errors"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
)

const (
	usersCollection  = "users"
	tokensCollection = "tokens"
)

// FirestoreTokenRepository lists users/{uid}/tokens. Documents are keyed by the
// token value; a "token" field, when present, wins over the document ID.
type FirestoreTokenRepository struct {
	client *firestore.Client
}

func NewFirestoreTokenRepository(client *firestore.Client) *FirestoreTokenRepository {
	return &FirestoreTokenRepository{client: client}
}

func (r *FirestoreTokenRepository) ListByTenant(ctx context.Context, tenantID string) ([]string, error) {
	iter := r.client.Collection(usersCollection).Doc(tenantID).Collection(tokensCollection).Documents(ctx)
	defer iter.Stop()

	var tokens []string
	for {
		snap, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, describe("list device tokens", err)
		}
		tokens = append(tokens, tokenValue(snap.Ref.ID, snap.Data()))
	}
	return tokens, nil
}

func tokenValue(docID string, data map[string]interface{}) string {
	if v, ok := data["token"].(string); ok && v != "" {
		return v
	}
	return docID
}

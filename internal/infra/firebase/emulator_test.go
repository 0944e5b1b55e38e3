package firebase

import (
	"context"
	"io"
	"os"
	"testing"
	"time"

	"subminder_reminder/internal/domain/notification"
	"subminder_reminder/internal/domain/subscription"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// These tests talk to the Firestore emulator, e.g.
// `gcloud emulators firestore start --host-port=localhost:8080` with
// FIRESTORE_EMULATOR_HOST=localhost:8080.
func newEmulatorClient(t *testing.T) *firestore.Client {
	t.Helper()
	if os.Getenv("FIRESTORE_EMULATOR_HOST") == "" {
		t.Skip("FIRESTORE_EMULATOR_HOST is not set")
	}
	client, err := firestore.NewClient(context.Background(), "subminder-test")
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })
	return client
}

func seedSubscription(t *testing.T, ref *firestore.DocumentRef, reminderDays int, due time.Time) {
	t.Helper()
	_, err := ref.Set(context.Background(), map[string]interface{}{
		"serviceName":  "Spotify",
		"cost":         9.99,
		"currency":     "EUR",
		"cycle":        "monthly",
		"nextBillDate": due,
		"reminderDays": reminderDays,
		"category":     "Entertainment",
	})
	require.NoError(t, err)
}

func TestEmulator_FindDue(t *testing.T) {
	client := newEmulatorClient(t)
	ctx := context.Background()
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	repo := NewFirestoreSubscriptionRepository(client, logrus.NewEntry(logger))

	uid := uuid.NewString()
	subs := client.Collection(usersCollection).Doc(uid).Collection(subscriptionsCollection)
	day := time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)

	hit, edge := uuid.NewString(), uuid.NewString()
	orphan := uuid.NewString()
	seedSubscription(t, subs.Doc(hit), 3, day)
	seedSubscription(t, subs.Doc(edge), 3, day.Add(24*time.Hour-time.Millisecond))
	seedSubscription(t, subs.Doc(uuid.NewString()), 7, day)
	seedSubscription(t, subs.Doc(uuid.NewString()), 3, day.AddDate(0, 0, 1))
	seedSubscription(t, subs.Doc(uuid.NewString()), 3, day.Add(-time.Millisecond))
	seedSubscription(t, client.Collection(subscriptionsCollection).Doc(orphan), 3, day)

	window := subscription.Window{Start: day, End: day.Add(24*time.Hour - time.Millisecond)}
	found, err := repo.FindDue(ctx, window, 3)
	require.NoError(t, err)

	byID := map[string]*subscription.Subscription{}
	for _, s := range found {
		byID[s.ID] = s
	}
	for _, s := range found {
		if s.TenantID == uid {
			assert.Contains(t, []string{hit, edge}, s.ID)
		}
	}
	require.Contains(t, byID, hit)
	require.Contains(t, byID, edge)
	require.Contains(t, byID, orphan)
	assert.Equal(t, uid, byID[hit].TenantID)
	assert.Equal(t, "9.99", byID[hit].Cost.StringFixed(2))
	assert.Empty(t, byID[orphan].TenantID)
}

func TestEmulator_ListTokens(t *testing.T) {
	client := newEmulatorClient(t)
	ctx := context.Background()
	uid := uuid.NewString()
	tokens := client.Collection(usersCollection).Doc(uid).Collection(tokensCollection)

	_, err := tokens.Doc("doc-a").Set(ctx, map[string]interface{}{"token": "fcm-a"})
	require.NoError(t, err)
	_, err = tokens.Doc("fcm-b").Set(ctx, map[string]interface{}{"createdAt": time.Now()})
	require.NoError(t, err)

	got, err := NewFirestoreTokenRepository(client).ListByTenant(ctx, uid)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"fcm-a", "fcm-b"}, got)

	none, err := NewFirestoreTokenRepository(client).ListByTenant(ctx, uuid.NewString())
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestEmulator_CreateNotification(t *testing.T) {
	client := newEmulatorClient(t)
	ctx := context.Background()
	uid := uuid.NewString()

	n := notification.NewReminder(uid, "Your Spotify subscription for $9.99 is due in 3 days.")
	require.NoError(t, NewFirestoreNotificationRepository(client).Create(ctx, uid, n))
	require.NotEmpty(t, n.ID)

	snap, err := client.Collection(usersCollection).Doc(uid).Collection(notificationsCollection).Doc(n.ID).Get(ctx)
	require.NoError(t, err)
	data := snap.Data()
	assert.Equal(t, notification.ReminderTitle, data["title"])
	assert.Equal(t, false, data["read"])
	createdAt, ok := data["createdAt"].(time.Time)
	require.True(t, ok)
	assert.False(t, createdAt.IsZero())
}

func TestEmulator_LedgerClaimRelease(t *testing.T) {
	client := newEmulatorClient(t)
	ctx := context.Background()
	ledger := NewFirestoreLedger(client)
	key := notification.ReminderKey(uuid.NewString(), time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC))

	claimed, err := ledger.Claim(ctx, key)
	require.NoError(t, err)
	assert.True(t, claimed)

	claimed, err = ledger.Claim(ctx, key)
	require.NoError(t, err)
	assert.False(t, claimed, "AlreadyExists must map to an existing claim")

	require.NoError(t, ledger.Release(ctx, key))
	claimed, err = ledger.Claim(ctx, key)
	require.NoError(t, err)
	assert.True(t, claimed)
}

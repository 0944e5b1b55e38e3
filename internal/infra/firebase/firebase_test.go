package firebase

import (
	"context"
	"encoding/base64"
	"errors"
	"testing"
	"time"

	"subminder_reminder/internal/domain/notification"
	"subminder_reminder/internal/domain/subscription"

	"cloud.google.com/go/firestore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TestNewApp_RequiresProjectID(t *testing.T) {
	_, err := NewApp(context.Background(), Credentials{})
	assert.EqualError(t, err, "FIREBASE_PROJECT_ID must be set")
}

func TestClientOptions(t *testing.T) {
	opts, err := clientOptions(Credentials{File: "/secrets/sa.json"})
	require.NoError(t, err)
	assert.Len(t, opts, 1)

	opts, err = clientOptions(Credentials{JSONBase64: base64.StdEncoding.EncodeToString([]byte(`{"type":"service_account"}`))})
	require.NoError(t, err)
	assert.Len(t, opts, 1)

	_, err = clientOptions(Credentials{JSONBase64: "%%%"})
	assert.Error(t, err)

	opts, err = clientOptions(Credentials{})
	require.NoError(t, err)
	assert.Empty(t, opts)
}

func TestDescribe_KeepsStatusMessage(t *testing.T) {
	cause := status.Error(codes.FailedPrecondition, "The query requires an index. You can create it here: https://console.firebase.google.com/...")
	err := describe("query due subscriptions", cause)

	assert.Contains(t, err.Error(), "FailedPrecondition")
	assert.Contains(t, err.Error(), "You can create it here")
	assert.True(t, errors.Is(err, cause))

	plain := errors.New("boom")
	assert.Equal(t, "list device tokens: boom", describe("list device tokens", plain).Error())
}

func TestTenantOf(t *testing.T) {
	user := &firestore.DocumentRef{ID: "uid-1"}
	subs := &firestore.CollectionRef{ID: "subscriptions", Parent: user}
	ref := &firestore.DocumentRef{ID: "sub-1", Parent: subs}

	tenant, err := tenantOf(ref)
	require.NoError(t, err)
	assert.Equal(t, "uid-1", tenant)

	rootLevel := &firestore.DocumentRef{ID: "sub-2", Parent: &firestore.CollectionRef{ID: "subscriptions"}}
	_, err = tenantOf(rootLevel)
	assert.ErrorIs(t, err, ErrTenantUnresolved)
}

func TestTokenValue(t *testing.T) {
	assert.Equal(t, "fcm-abc", tokenValue("doc-id", map[string]interface{}{"token": "fcm-abc"}))
	assert.Equal(t, "doc-id", tokenValue("doc-id", map[string]interface{}{}))
	assert.Equal(t, "doc-id", tokenValue("doc-id", map[string]interface{}{"token": 12}))
}

func TestSubscriptionDoc_ToDomain(t *testing.T) {
	skopje := time.FixedZone("CEST", 2*3600)
	doc := subscriptionDoc{
		ServiceName:  "Netflix",
		Cost:         15.99,
		Currency:     "EUR",
		Cycle:        "monthly",
		NextBillDate: time.Date(2026, 10, 19, 2, 0, 0, 0, skopje),
		ReminderDays: 3,
		Category:     "Entertainment",
	}

	sub := doc.toDomain("sub-1", "uid-1")

	assert.Equal(t, "15.99", sub.Cost.StringFixed(2))
	assert.Equal(t, subscription.CurrencyEUR, sub.Currency)
	assert.Equal(t, time.UTC, sub.NextBillDate.Location())
	assert.Equal(t, time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC), sub.NextBillDate)
	assert.Equal(t, "uid-1", sub.TenantID)
}

func TestNotificationFields(t *testing.T) {
	n := notification.NewReminder("uid-1", "Your Netflix subscription for $15.99 is due in 3 days.")
	fields := notificationFields(n)

	assert.Equal(t, notification.ReminderTitle, fields["title"])
	assert.Equal(t, false, fields["read"])
	assert.Equal(t, firestore.ServerTimestamp, fields["createdAt"])
}

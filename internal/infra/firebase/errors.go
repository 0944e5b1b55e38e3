package firebase

import (
	"errors"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/status"
)

// ErrTenantUnresolved is reported for subscription documents that do not live under users/{uid}.
var ErrTenantUnresolved = errors.New("subscription has no owning user document")

// describe keeps the store's own remediation text (for example the
// index-creation link of FAILED_PRECONDITION) in the returned error.
func describe(op string, err error) error {
	if st, ok := status.FromError(err); ok && st.Message() != "" {
		return fmt.Errorf("%s: %s: %s: %w", op, st.Code(), st.Message(), err)
	}
	return fmt.Errorf("%s: %w", op, err)
}

// tenantOf returns the ID of the users/{uid} document that owns ref.
func tenantOf(ref *firestore.DocumentRef) (string, error) {
	if ref == nil || ref.Parent == nil || ref.Parent.Parent == nil {
		return "", ErrTenantUnresolved
	}
	return ref.Parent.Parent.ID, nil
}

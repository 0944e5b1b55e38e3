// internal/domain/device/token.go
package device

import "context"

// Token is a push-delivery address registered by one of the tenant's devices.
// A token is keyed by its value, so re-registering it is a no-op.
type Token struct {
	Value    string
	TenantID string
}

// Repository lists the tokens registered for a tenant.
type Repository interface {
	ListByTenant(ctx context.Context, tenantID string) ([]string, error)
}

// Dedupe drops empty and repeated token values, keeping first-seen order.
func Dedupe(tokens []string) []string {
	seen := make(map[string]struct{}, len(tokens))
	out := make([]string, 0, len(tokens))
	for _, t := range tokens {
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}

package push

import "context"

// Message is one multicast push addressed to every token of a tenant.
type Message struct {
	Tokens []string
	Title  string
	Body   string
	Icon   string // Web push icon hint
}

// TokenFailure describes a single token the gateway could not deliver to.
type TokenFailure struct {
	Token string
	Err   error
}

// BatchResult is the per-token outcome of a multicast.
type BatchResult struct {
	SuccessCount int
	FailureCount int
	Failures     []TokenFailure
}

// Gateway delivers push messages. Failures of individual tokens are reported
// in BatchResult and do not fail the call.
type Gateway interface {
	SendMulticast(ctx context.Context, msg Message) (*BatchResult, error)
}

package fcm

import (
	"context"
	"errors"
	"fmt"

	"subminder_reminder/internal/domain/push"

	"firebase.google.com/go/v4/messaging"
	"github.com/sirupsen/logrus"
)

// MaxTokensPerBatch is the FCM limit for one multicast request.
const MaxTokensPerBatch = 500

// Sender is the part of *messaging.Client the gateway uses.
type Sender interface {
	SendEachForMulticast(ctx context.Context, message *messaging.MulticastMessage) (*messaging.BatchResponse, error)
}

// Gateway implements push.Gateway on Firebase Cloud Messaging.
type Gateway struct {
	sender Sender
	logger *logrus.Entry
}

func NewGateway(sender Sender, logger *logrus.Entry) *Gateway {
	return &Gateway{sender: sender, logger: logger}
}

// SendMulticast sends msg to every token. Lists above MaxTokensPerBatch are
// split; the call fails only if no chunk could be sent at all.
func (g *Gateway) SendMulticast(ctx context.Context, msg push.Message) (*push.BatchResult, error) {
	if len(msg.Tokens) == 0 {
		return nil, errors.New("fcm: no tokens to send to")
	}

	result := &push.BatchResult{}
	var lastErr error
	sentChunks := 0

	for _, tokens := range chunk(msg.Tokens, MaxTokensPerBatch) {
		resp, err := g.sender.SendEachForMulticast(ctx, multicastMessage(msg, tokens))
		if err != nil {
			lastErr = err
			g.logger.WithError(err).WithField("tokens", len(tokens)).Warn("Multicast chunk failed")
			result.FailureCount += len(tokens)
			for _, t := range tokens {
				result.Failures = append(result.Failures, push.TokenFailure{Token: t, Err: err})
			}
			continue
		}
		sentChunks++
		merge(result, tokens, resp)
	}

	if sentChunks == 0 {
		return nil, fmt.Errorf("fcm multicast: %w", lastErr)
	}
	return result, nil
}

func multicastMessage(msg push.Message, tokens []string) *messaging.MulticastMessage {
	m := &messaging.MulticastMessage{
		Tokens: tokens,
		Notification: &messaging.Notification{
			Title: msg.Title,
			Body:  msg.Body,
		},
	}
	if msg.Icon != "" {
		m.Webpush = &messaging.WebpushConfig{
			Notification: &messaging.WebpushNotification{Icon: msg.Icon},
		}
	}
	return m
}

// merge folds one batch response into result. Responses are in token order.
func merge(result *push.BatchResult, tokens []string, resp *messaging.BatchResponse) {
	result.SuccessCount += resp.SuccessCount
	result.FailureCount += resp.FailureCount
	for i, r := range resp.Responses {
		if r == nil || r.Success || i >= len(tokens) {
			continue
		}
		result.Failures = append(result.Failures, push.TokenFailure{Token: tokens[i], Err: r.Error})
	}
}

func chunk(tokens []string, size int) [][]string {
	var out [][]string
	for len(tokens) > size {
		out = append(out, tokens[:size])
		tokens = tokens[size:]
	}
	if len(tokens) > 0 {
		out = append(out, tokens)
	}
	return out
}

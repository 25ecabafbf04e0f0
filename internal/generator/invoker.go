package generator

import (
	"context"
	"log"
	"time"
)

const (
	defaultMaxAttempts = 3
	retryBackoff       = time.Second
)

// Invoker wraps a CompletionClient with a bounded retry loop. A fresh
// credential is drawn from the rotator before every attempt, so a
// rate-limited credential is never reused on the retry that follows its
// failure (for pools larger than one).
type Invoker struct {
	client      CompletionClient
	rotator     *CredentialRotator
	maxAttempts int
	backoff     time.Duration
}

func NewInvoker(client CompletionClient, rotator *CredentialRotator) *Invoker {
	return &Invoker{
		client:      client,
		rotator:     rotator,
		maxAttempts: defaultMaxAttempts,
		backoff:     retryBackoff,
	}
}

// Invoke runs the completion, retrying transport and service failures up to
// maxAttempts. The last attempt's error is returned as-is.
func (inv *Invoker) Invoke(ctx context.Context, messages []Message, temperature float64, maxTokens int) (string, error) {
	var lastErr error

	for attempt := 1; attempt <= inv.maxAttempts; attempt++ {
		if attempt > 1 {
			select {
			case <-time.After(inv.backoff):
			case <-ctx.Done():
				return "", &TransportError{Err: ctx.Err()}
			}
		}

		credential := inv.rotator.Next()

		content, err := inv.client.Complete(ctx, credential, messages, temperature, maxTokens)
		if err == nil {
			return content, nil
		}
		lastErr = err
		log.Printf("completion attempt %d/%d failed: %v", attempt, inv.maxAttempts, err)
	}

	return "", lastErr
}

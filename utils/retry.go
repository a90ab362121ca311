package utils

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// TransientClassifier decides whether a store error is worth one retry.
type TransientClassifier func(error) bool

// IsTransientStoreError is the default classifier: network-level mongo
// failures and deadline expiries are retried, everything else surfaces.
func IsTransientStoreError(err error) bool {
	if err == nil {
		return false
	}
	if mongo.IsNetworkError(err) || mongo.IsTimeout(err) {
		return true
	}
	return errors.Is(err, context.DeadlineExceeded)
}

// WithRetry runs fn, retrying transient failures up to attempts times with a
// short pause between tries. Non-transient errors surface immediately.
func WithRetry(ctx context.Context, attempts int, classify TransientClassifier, fn func(context.Context) error) error {
	if attempts < 1 {
		attempts = 1
	}
	if classify == nil {
		classify = IsTransientStoreError
	}
	var err error
	for i := 0; i < attempts; i++ {
		if err = fn(ctx); err == nil {
			return nil
		}
		if !classify(err) || i == attempts-1 {
			return err
		}
		GetLogger().Warn("transient store error, retrying", zap.Error(err), zap.Int("attempt", i+1))
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(100 * time.Millisecond):
		}
	}
	return err
}

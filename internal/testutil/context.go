package testutil

import (
	"context"
	"testing"
	"time"
)

const fallbackTimeout = 10 * time.Second

// Context returns a context that ends one second before the test deadline,
// or after ten seconds when the test has none. It is cancelled on cleanup.
func Context(t *testing.T) context.Context {
	t.Helper()

	var (
		ctx    context.Context
		cancel context.CancelFunc
	)
	if deadline, ok := t.Deadline(); ok {
		ctx, cancel = context.WithDeadline(context.Background(), deadline.Add(-time.Second))
	} else {
		ctx, cancel = context.WithTimeout(context.Background(), fallbackTimeout)
	}
	t.Cleanup(cancel)
	return ctx
}

package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// sagaBackOff is the retry policy for each cleanup step.
var sagaBackOff = func() backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 100 * time.Millisecond
	b.MaxInterval = time.Second
	return backoff.WithMaxRetries(b, 3)
}

type sagaStep struct {
	name string
	run  func(ctx context.Context) error
}

// runSaga executes steps in order, retrying each one. Steps must be
// idempotent: a failed saga is resumed by running it again from the start.
func runSaga(ctx context.Context, name string, steps []sagaStep) error {
	for _, st := range steps {
		op := func() error { return st.run(ctx) }
		if err := backoff.Retry(op, backoff.WithContext(sagaBackOff(), ctx)); err != nil {
			slog.Error("cleanup step failed", "saga", name, "step", st.name, "error", err)
			return fmt.Errorf("%s: step %s: %w", name, st.name, err)
		}
		slog.Debug("cleanup step done", "saga", name, "step", st.name)
	}
	return nil
}

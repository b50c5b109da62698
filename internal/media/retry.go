package media

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// Retrying retries failed uploads and deletes with exponential backoff.
type Retrying struct {
	next        Store
	maxAttempts int
	newBackOff  func() backoff.BackOff
}

func NewRetrying(next Store, maxAttempts int) *Retrying {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	return &Retrying{
		next:        next,
		maxAttempts: maxAttempts,
		newBackOff: func() backoff.BackOff {
			b := backoff.NewExponentialBackOff()
			b.InitialInterval = 200 * time.Millisecond
			b.MaxInterval = 2 * time.Second
			return b
		},
	}
}

func (r *Retrying) policy(ctx context.Context) backoff.BackOff {
	return backoff.WithContext(backoff.WithMaxRetries(r.newBackOff(), uint64(r.maxAttempts-1)), ctx)
}

func (r *Retrying) Upload(ctx context.Context, folder string, u Upload) (Asset, error) {
	if u.Open == nil {
		return Asset{}, ErrEmptyUpload
	}
	var asset Asset
	op := func() error {
		var err error
		asset, err = r.next.Upload(ctx, folder, u)
		if errors.Is(err, ErrEmptyUpload) {
			return backoff.Permanent(err)
		}
		return err
	}
	notify := func(err error, wait time.Duration) {
		slog.Warn("media upload failed, retrying", "folder", folder, "file", u.Filename, "error", err, "wait", wait)
	}
	if err := backoff.RetryNotify(op, r.policy(ctx), notify); err != nil {
		return Asset{}, err
	}
	return asset, nil
}

func (r *Retrying) Delete(ctx context.Context, id string) error {
	return backoff.Retry(func() error {
		return r.next.Delete(ctx, id)
	}, r.policy(ctx))
}

package enrichment

import (
	"context"
	"errors"
	"time"
)

// ErrPreviewTimeout means the generated preview never finished loading.
var ErrPreviewTimeout = errors.New("timed out waiting for preview")

// waitUntil calls cond every interval until it reports true, cond fails, ctx
// ends or timeout elapses.
func waitUntil(ctx context.Context, interval, timeout time.Duration, cond func(context.Context) (bool, error)) error {
	deadline := time.Now().Add(timeout)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		done, err := cond(ctx)
		if err != nil {
			return err
		}
		if done {
			return nil
		}
		if !time.Now().Before(deadline) {
			return ErrPreviewTimeout
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

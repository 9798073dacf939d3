// Package provision bulk-provisions a chm.Map: retrying construction
// under transient allocation pressure, and bounding the fan-out of a
// concurrent bulk load. Neither helper touches chm's lock-free fast
// paths; both run strictly before or around calls to Find/Insert.
package provision

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/Emanem/ehmap/chm"
	"github.com/Emanem/ehmap/errs"
)

// maxConstructRetryInterval caps the time between Construct's retries.
const maxConstructRetryInterval = 5 * time.Second

// Construct calls chm.New, retrying with bounded exponential backoff
// if it fails with an errs.KindAllocation error (transient memory
// pressure is worth retrying once the backoff schedule allows).
// A errs.KindConfig error is never retried: it can't succeed later.
// ctx governs how long Construct is willing to keep retrying.
func Construct[K comparable, V any](ctx context.Context, hash chm.Hasher[K], opts ...chm.Option) (*chm.Map[K, V], error) {
	bo := backoff.NewExponentialBackOff()
	bo.MaxInterval = maxConstructRetryInterval
	bo.MaxElapsedTime = 0

	var m *chm.Map[K, V]
	op := func() error {
		var err error
		m, err = chm.New[K, V](hash, opts...)
		if err == nil {
			return nil
		}
		var mapErr *errs.MapError
		if mapErrAs(err, &mapErr) && mapErr.Kind == errs.KindConfig {
			return backoff.Permanent(err)
		}
		return err
	}

	if err := backoff.Retry(op, backoff.WithContext(bo, ctx)); err != nil {
		return nil, err
	}
	return m, nil
}

func mapErrAs(err error, target **errs.MapError) bool {
	me, ok := err.(*errs.MapError)
	if ok {
		*target = me
	}
	return ok
}

// KV is one key/value pair to bulk-load via FillConcurrently.
type KV[K comparable, V any] struct {
	Key K
	Val V
}

// FillConcurrently inserts pairs into m using up to maxConcurrency
// goroutines at a time, bounded by a weighted semaphore. It returns
// the number of pairs actually inserted (duplicates and
// capacity-exhaustion are not counted, matching Insert's own
// true/false semantics) and the first hard error encountered, if any.
// Lock-free capacity exhaustion is never reported as an error.
func FillConcurrently[K comparable, V any](ctx context.Context, m *chm.Map[K, V], pairs []KV[K, V], maxConcurrency int64) (int, error) {
	sem := semaphore.NewWeighted(maxConcurrency)
	eg, ctx := errgroup.WithContext(ctx)

	inserted := make([]bool, len(pairs))
	for i := range pairs {
		i := i
		if err := sem.Acquire(ctx, 1); err != nil {
			break
		}
		eg.Go(func() error {
			defer sem.Release(1)
			inserted[i] = m.Insert(pairs[i].Key, pairs[i].Val)
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return 0, err
	}

	count := 0
	for _, ok := range inserted {
		if ok {
			count++
		}
	}
	return count, nil
}

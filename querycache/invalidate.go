package querycache

import (
	"context"

	"github.com/goliatone/go-queryset-cache/cache"
)

// Op is an application mutation the invalidation wrappers decorate: it runs
// to completion or fails, and its result passes through the wrapper
// unchanged.
type Op[R any] func(ctx context.Context) (R, error)

// WithKeyInvalidation wraps op so that the listed keys, plus any keys
// attached to the context via WithInvalidationKeys, are deleted from the
// store after op completes successfully. When op fails nothing is deleted and
// the failure propagates unchanged. Delete failures are fire-and-forget: the
// mutation already happened, so the worst case is a stale entry that ages out
// via TTL.
func WithKeyInvalidation[R any](store cache.Store, op Op[R], keys ...string) Op[R] {
	return func(ctx context.Context) (R, error) {
		result, err := op(ctx)
		if err != nil {
			return result, err
		}
		for _, key := range unionStrings(keys, invalidationKeysFromContext(ctx)) {
			_ = store.Delete(ctx, key)
		}
		return result, nil
	}
}

// WithManagerInvalidation wraps op so that, after it completes successfully,
// the manager's base collection entry is deleted, along with the detail entry
// of the record op yields (when the result is a T or *T whose identifier can
// be extracted), any additional keys, and any keys attached to the context
// via WithInvalidationKeys. Failure semantics match WithKeyInvalidation.
func WithManagerInvalidation[T, R any](manager *Manager[T], op Op[R], additionalKeys ...string) Op[R] {
	return func(ctx context.Context) (R, error) {
		result, err := op(ctx)
		if err != nil {
			return result, err
		}
		manager.invalidateAfterMutation(ctx, any(result), unionStrings(additionalKeys, invalidationKeysFromContext(ctx)))
		return result, nil
	}
}

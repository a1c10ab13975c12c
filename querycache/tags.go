package querycache

import (
	"context"
)

type invalidationKeysContextKey struct{}

// WithInvalidationKeys attaches additional cache keys to the context. The
// invalidation wrappers delete them alongside their configured keys after a
// successful mutation, so call sites deep in a request can mark related
// entries without threading key lists through every signature.
func WithInvalidationKeys(ctx context.Context, keys ...string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	if len(keys) == 0 {
		return ctx
	}

	combined := unionStrings(invalidationKeysFromContext(ctx), keys)
	if len(combined) == 0 {
		return ctx
	}
	return context.WithValue(ctx, invalidationKeysContextKey{}, combined)
}

func invalidationKeysFromContext(ctx context.Context) []string {
	if ctx == nil {
		return nil
	}
	if keys, ok := ctx.Value(invalidationKeysContextKey{}).([]string); ok {
		return append([]string(nil), keys...)
	}
	return nil
}

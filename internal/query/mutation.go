// ABOUTME: Mutation execution with configured retry and outcome callbacks
// ABOUTME: Mutations bypass the cache; callers invalidate affected keys on success

package query

import "context"

// MutationOptions tunes one mutation. Retries is the number of extra
// attempts after a failure; zero inherits the cache default and a
// negative value disables retrying.
type MutationOptions struct {
	Retries   int
	OnSuccess func(any)
	OnError   func(error)
}

// Mutate runs fn and invokes exactly one of the callbacks. Mutations
// are never deduplicated or serialized against each other; guarding
// against double submission is the caller's concern.
func (c *Cache) Mutate(ctx context.Context, fn FetchFunc, opts MutationOptions) (any, error) {
	attempts := c.cfg.MutationRetries + 1
	if opts.Retries > 0 {
		attempts = opts.Retries + 1
	} else if opts.Retries < 0 {
		attempts = 1
	}

	var v any
	var err error
	for i := 0; i < attempts; i++ {
		v, err = fn(ctx)
		if err == nil {
			break
		}
	}
	if err != nil {
		if opts.OnError != nil {
			opts.OnError(err)
		}
		return nil, err
	}
	if opts.OnSuccess != nil {
		opts.OnSuccess(v)
	}
	return v, nil
}

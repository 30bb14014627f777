package ai

import (
	"context"

	"golang.org/x/time/rate"

	"github.com/custodia-labs/vaultag/internal/core/ports/driven"
)

// Ensure RateLimitedOracle implements the interface.
var _ driven.LabelingOracle = (*RateLimitedOracle)(nil)

// RateLimitedOracle paces Label calls to a fixed rate. A synthesis run
// makes one call per tree node, which can trip provider rate limits on
// large vaults.
type RateLimitedOracle struct {
	next    driven.LabelingOracle
	limiter *rate.Limiter
}

// NewRateLimitedOracle wraps next, allowing requestsPerSecond calls with a
// burst of one.
func NewRateLimitedOracle(next driven.LabelingOracle, requestsPerSecond float64) *RateLimitedOracle {
	return &RateLimitedOracle{
		next:    next,
		limiter: rate.NewLimiter(rate.Limit(requestsPerSecond), 1),
	}
}

// Label waits for a token, then delegates.
func (r *RateLimitedOracle) Label(ctx context.Context, prompt string) (string, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return "", err
	}
	return r.next.Label(ctx, prompt)
}

// ModelName returns the wrapped oracle's model.
func (r *RateLimitedOracle) ModelName() string {
	return r.next.ModelName()
}

// Ping is not rate limited.
func (r *RateLimitedOracle) Ping(ctx context.Context) error {
	return r.next.Ping(ctx)
}

// Close closes the wrapped oracle.
func (r *RateLimitedOracle) Close() error {
	return r.next.Close()
}

// Unwrap returns the wrapped oracle.
func (r *RateLimitedOracle) Unwrap() driven.LabelingOracle {
	return r.next
}

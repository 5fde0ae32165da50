package domain

import "errors"

// Error taxonomy for the screening pipeline. Every gateway and estimator
// failure is mapped onto one of these sentinels at ingress so that the
// pipeline stages never branch on provider-specific error shapes.
//
// All four kinds are per-ticker and recoverable: the pipeline drops the
// ticker and continues. Only a failure to resolve the ticker universe at
// all aborts a run.
var (
	// ErrUnavailable indicates an external data source is unreachable or
	// returned nothing usable for the ticker.
	ErrUnavailable = errors.New("data source unavailable")

	// ErrInsufficient indicates data is present but below the minimum
	// sample size for a computation.
	ErrInsufficient = errors.New("insufficient data")

	// ErrRateLimited indicates a quota was exhausted. Callers recover via
	// fallback data, never via retry storms.
	ErrRateLimited = errors.New("rate limited")

	// ErrMalformed indicates an unexpected response shape from a gateway
	// or classifier. Callers normalize to a safe default.
	ErrMalformed = errors.New("malformed response")
)

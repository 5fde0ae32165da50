package volatility

import (
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"
)

// ImpliedStrategy derives an implied volatility figure from a historical
// volatility estimate. Swappable so a real options-chain feed can replace
// the synthetic model without touching the pipeline.
type ImpliedStrategy interface {
	Implied(hv float64) float64
}

// SyntheticStrategy models implied volatility as a random premium over
// historical volatility: HV times a uniform multiplier in [1.1, 2.5], plus
// gaussian noise with a standard deviation of 10% of HV. The result is
// floored at 1.05x HV so the IV/HV ratio always reflects a premium.
type SyntheticStrategy struct {
	mult  distuv.Uniform
	noise func(hv float64) float64
}

// NewSyntheticStrategy creates a seeded synthetic IV strategy.
// The same seed yields the same IV sequence, which keeps runs reproducible
// in tests.
func NewSyntheticStrategy(seed uint64) *SyntheticStrategy {
	src := rand.NewSource(seed)
	return &SyntheticStrategy{
		mult: distuv.Uniform{Min: 1.1, Max: 2.5, Src: src},
		noise: func(hv float64) float64 {
			return distuv.Normal{Mu: 0, Sigma: hv * 0.1, Src: src}.Rand()
		},
	}
}

// Implied returns the synthetic implied volatility for the given
// historical volatility, in the same percent units.
func (s *SyntheticStrategy) Implied(hv float64) float64 {
	if hv <= 0 {
		return 0
	}

	iv := hv*s.mult.Rand() + s.noise(hv)

	floor := hv * 1.05
	if iv < floor {
		iv = floor
	}
	return iv
}

package universe

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve_SP500(t *testing.T) {
	r := NewResolver(zerolog.Nop())

	tickers, err := r.Resolve("SP500")
	require.NoError(t, err)
	assert.Len(t, tickers, 100)
	assert.Equal(t, "AAPL", tickers[0])
}

func TestResolve_CaseInsensitive(t *testing.T) {
	r := NewResolver(zerolog.Nop())

	tickers, err := r.Resolve("nasdaq100")
	require.NoError(t, err)
	assert.Len(t, tickers, 90)
}

func TestResolve_Both_Deduplicates(t *testing.T) {
	r := NewResolver(zerolog.Nop())

	tickers, err := r.Resolve("Both")
	require.NoError(t, err)

	seen := make(map[string]int)
	for _, ticker := range tickers {
		seen[ticker]++
	}
	for ticker, count := range seen {
		assert.Equal(t, 1, count, "ticker %s appears %d times", ticker, count)
	}

	// Union must be larger than either list but smaller than their sum
	// because the indices overlap heavily.
	assert.Greater(t, len(tickers), len(SP500Tickers))
	assert.Less(t, len(tickers), len(SP500Tickers)+len(Nasdaq100Tickers))

	// First occurrence wins, so SP500 order leads.
	assert.Equal(t, "AAPL", tickers[0])
	assert.Equal(t, "MSFT", tickers[1])
}

func TestResolve_Deterministic(t *testing.T) {
	r := NewResolver(zerolog.Nop())

	first, err := r.Resolve("Both")
	require.NoError(t, err)
	second, err := r.Resolve("Both")
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestResolve_UnknownSelector(t *testing.T) {
	r := NewResolver(zerolog.Nop())

	_, err := r.Resolve("FTSE100")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unknown market selector")
}

package service

import (
	"context"
	"testing"
	"time"

	"bitcoin-price-service/internal/apperr"
	"bitcoin-price-service/internal/model"
	"bitcoin-price-service/internal/provider"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// stubAdapter returns a fixed price after an optional delay, honoring
// context cancellation the way a real HTTP fetch would.
type stubAdapter struct {
	name  string
	price float64
	delay time.Duration
	err   error
}

func (s *stubAdapter) Name() string { return s.name }

func (s *stubAdapter) Fetch(ctx context.Context) (*model.Quote, error) {
	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-ctx.Done():
			return nil, apperr.NewNetworkError(s.name, ctx.Err())
		}
	}
	if s.err != nil {
		return nil, s.err
	}
	return &model.Quote{Provider: s.name, Price: s.price, Timestamp: time.Now().UTC()}, nil
}

func TestQuoteFrom_UnknownProvider(t *testing.T) {
	svc := NewQuoteService(nil, time.Second, zap.NewNop())

	_, err := svc.QuoteFrom(context.Background(), "luno")
	var notFound *apperr.NotFoundError
	require.ErrorAs(t, err, &notFound)
}

func TestQuoteFrom_PropagatesProviderError(t *testing.T) {
	failing := &stubAdapter{name: "kraken", err: apperr.NewUpstreamError("kraken", assert.AnError)}
	svc := NewQuoteService([]provider.Adapter{failing}, time.Second, zap.NewNop())

	_, err := svc.QuoteFrom(context.Background(), "kraken")
	var providerErr *apperr.ProviderError
	require.ErrorAs(t, err, &providerErr)
	assert.Equal(t, apperr.ProviderErrUpstream, providerErr.Kind)
}

func TestQuotesFromAll_PartialFailure(t *testing.T) {
	adapters := []provider.Adapter{
		&stubAdapter{name: "binance", price: 60500},
		&stubAdapter{name: "kraken", delay: time.Minute}, // always times out
		&stubAdapter{name: "coinbase", price: 60490},
	}
	svc := NewQuoteService(adapters, 50*time.Millisecond, zap.NewNop())

	start := time.Now()
	result, err := svc.QuotesFromAll(context.Background())
	elapsed := time.Since(start)

	require.NoError(t, err)
	require.Len(t, result.Results, 3)

	// Configured order, not completion order.
	assert.Equal(t, "binance", result.Results[0].Provider)
	assert.Equal(t, "kraken", result.Results[1].Provider)
	assert.Equal(t, "coinbase", result.Results[2].Provider)

	assert.Equal(t, model.StatusSuccess, result.Results[0].Status)
	assert.Equal(t, model.StatusFailure, result.Results[1].Status)
	assert.Equal(t, model.StatusSuccess, result.Results[2].Status)

	assert.NotNil(t, result.Results[0].Quote)
	assert.Nil(t, result.Results[1].Quote)
	assert.NotEmpty(t, result.Results[1].Error)

	// Bounded by the single provider timeout, not the sum of timeouts.
	assert.Less(t, elapsed, time.Second)
}

func TestQuotesFromAll_SlowProvidersRunConcurrently(t *testing.T) {
	adapters := []provider.Adapter{
		&stubAdapter{name: "binance", price: 60500, delay: 100 * time.Millisecond},
		&stubAdapter{name: "kraken", price: 60510, delay: 100 * time.Millisecond},
		&stubAdapter{name: "bybit", price: 60480, delay: 100 * time.Millisecond},
	}
	svc := NewQuoteService(adapters, time.Second, zap.NewNop())

	start := time.Now()
	result, err := svc.QuotesFromAll(context.Background())
	elapsed := time.Since(start)

	require.NoError(t, err)
	for _, entry := range result.Results {
		assert.Equal(t, model.StatusSuccess, entry.Status)
	}
	// Sequential execution would take at least 300ms.
	assert.Less(t, elapsed, 250*time.Millisecond)
}

func TestQuotesFromAll_AllFailStillReturns(t *testing.T) {
	adapters := []provider.Adapter{
		&stubAdapter{name: "binance", err: apperr.NewNetworkError("binance", assert.AnError)},
		&stubAdapter{name: "kucoin", err: apperr.NewSchemaError("kucoin", assert.AnError)},
	}
	svc := NewQuoteService(adapters, time.Second, zap.NewNop())

	result, err := svc.QuotesFromAll(context.Background())
	require.NoError(t, err)
	require.Len(t, result.Results, 2)
	for _, entry := range result.Results {
		assert.Equal(t, model.StatusFailure, entry.Status)
		assert.NotEmpty(t, entry.Error)
	}
}

func TestQuotesFromAll_CallerCancellation(t *testing.T) {
	adapters := []provider.Adapter{
		&stubAdapter{name: "binance", price: 60500, delay: time.Minute},
	}
	svc := NewQuoteService(adapters, time.Minute, zap.NewNop())

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	result, err := svc.QuotesFromAll(ctx)
	require.Error(t, err)
	assert.Nil(t, result)
}

func TestProviders_ConfiguredOrder(t *testing.T) {
	adapters := []provider.Adapter{
		&stubAdapter{name: "coincap"},
		&stubAdapter{name: "binance"},
	}
	svc := NewQuoteService(adapters, time.Second, zap.NewNop())

	assert.Equal(t, []string{"coincap", "binance"}, svc.Providers())
}

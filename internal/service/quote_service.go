package service

import (
	"context"
	"time"

	"bitcoin-price-service/internal/apperr"
	"bitcoin-price-service/internal/model"
	"bitcoin-price-service/internal/provider"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// QuoteService fans live-quote requests out to the configured provider
// adapters. Aggregate calls capture each provider's success or failure
// independently; one slow or failing provider never blocks the others.
type QuoteService struct {
	adapters []provider.Adapter
	byName   map[string]provider.Adapter
	timeout  time.Duration
	logger   *zap.Logger
}

// NewQuoteService creates a quote service over the given adapters. The
// adapter order fixes the result order of aggregate calls. timeout is the
// per-provider fetch budget.
func NewQuoteService(adapters []provider.Adapter, timeout time.Duration, logger *zap.Logger) *QuoteService {
	byName := make(map[string]provider.Adapter, len(adapters))
	for _, a := range adapters {
		byName[a.Name()] = a
	}
	return &QuoteService{
		adapters: adapters,
		byName:   byName,
		timeout:  timeout,
		logger:   logger,
	}
}

// Providers returns the configured provider ids in order.
func (s *QuoteService) Providers() []string {
	names := make([]string, 0, len(s.adapters))
	for _, a := range s.adapters {
		names = append(names, a.Name())
	}
	return names
}

// QuoteFrom fetches a quote from a single provider. The adapter's error is
// returned as-is (single attempt, no retry); an unknown provider id fails
// with a NotFoundError.
func (s *QuoteService) QuoteFrom(ctx context.Context, providerID string) (*model.Quote, error) {
	adapter, ok := s.byName[providerID]
	if !ok {
		return nil, &apperr.NotFoundError{Resource: "quote provider", Key: providerID}
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	return adapter.Fetch(ctx)
}

// QuotesFromAll queries every configured adapter concurrently and always
// assembles a result, even when all providers fail. Entries preserve the
// configured provider order, not completion order. Each fetch runs under
// its own timeout, so the wall clock is bounded by the slowest single
// provider. The only error returned is caller cancellation, in which case
// no partial aggregate is produced.
func (s *QuoteService) QuotesFromAll(ctx context.Context) (*model.AggregatedQuoteResult, error) {
	results := make([]model.ProviderResult, len(s.adapters))

	var g errgroup.Group
	for i, adapter := range s.adapters {
		i, adapter := i, adapter
		g.Go(func() error {
			fetchCtx, cancel := context.WithTimeout(ctx, s.timeout)
			defer cancel()

			quote, err := adapter.Fetch(fetchCtx)
			if err != nil {
				s.logger.Warn("Provider fetch failed",
					zap.String("provider", adapter.Name()),
					zap.Error(err))
				results[i] = model.ProviderResult{
					Provider: adapter.Name(),
					Status:   model.StatusFailure,
					Error:    err.Error(),
				}
				return nil
			}
			results[i] = model.ProviderResult{
				Provider: adapter.Name(),
				Status:   model.StatusSuccess,
				Quote:    quote,
			}
			return nil
		})
	}

	// Adapter goroutines never return errors; Wait is a pure join.
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		// The caller went away before assembly; do not hand back a torn
		// aggregate built from cancelled fetches.
		return nil, err
	}
	return &model.AggregatedQuoteResult{Results: results}, nil
}

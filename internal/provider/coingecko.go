package provider

import (
	"context"
	"fmt"
	"time"

	"bitcoin-price-service/internal/apperr"
	"bitcoin-price-service/internal/httpx"
	"bitcoin-price-service/internal/model"
)

const coingeckoBaseURL = "https://api.coingecko.com"

// CoinGecko fetches the simple BTC/USD spot price. The endpoint supplies a
// last price only; OHLC and volume stay unset.
type CoinGecko struct {
	baseURL string
	client  *httpx.Client
}

// NewCoinGecko creates the CoinGecko adapter. An empty baseURL uses the
// public API endpoint.
func NewCoinGecko(baseURL string, client *httpx.Client) *CoinGecko {
	if baseURL == "" {
		baseURL = coingeckoBaseURL
	}
	return &CoinGecko{baseURL: baseURL, client: client}
}

func (g *CoinGecko) Name() string { return "coingecko" }

type coingeckoResponse struct {
	Bitcoin *struct {
		USD *float64 `json:"usd"`
	} `json:"bitcoin"`
}

// Fetch issues GET /api/v3/simple/price?ids=bitcoin&vs_currencies=usd.
func (g *CoinGecko) Fetch(ctx context.Context) (*model.Quote, error) {
	var resp coingeckoResponse
	url := g.baseURL + "/api/v3/simple/price?ids=bitcoin&vs_currencies=usd"
	if err := fetchJSON(ctx, g.client, g.Name(), url, &resp); err != nil {
		return nil, err
	}

	if resp.Bitcoin == nil || resp.Bitcoin.USD == nil {
		return nil, apperr.NewSchemaError(g.Name(), fmt.Errorf("missing field %q", "bitcoin.usd"))
	}

	return &model.Quote{
		Provider:  g.Name(),
		Timestamp: time.Now().UTC(),
		Price:     *resp.Bitcoin.USD,
	}, nil
}

package provider

import (
	"context"
	"fmt"
	"time"

	"bitcoin-price-service/internal/apperr"
	"bitcoin-price-service/internal/httpx"
	"bitcoin-price-service/internal/model"
)

const coinbaseBaseURL = "https://api.coinbase.com"

// Coinbase fetches the BTC-USD spot price, a single amount with no OHLC or
// volume.
type Coinbase struct {
	baseURL string
	client  *httpx.Client
}

// NewCoinbase creates the Coinbase adapter. An empty baseURL uses the
// public API endpoint.
func NewCoinbase(baseURL string, client *httpx.Client) *Coinbase {
	if baseURL == "" {
		baseURL = coinbaseBaseURL
	}
	return &Coinbase{baseURL: baseURL, client: client}
}

func (c *Coinbase) Name() string { return "coinbase" }

type coinbaseResponse struct {
	Data *struct {
		Amount   string `json:"amount"`
		Currency string `json:"currency"`
	} `json:"data"`
}

// Fetch issues GET /v2/prices/BTC-USD/spot.
func (c *Coinbase) Fetch(ctx context.Context) (*model.Quote, error) {
	var resp coinbaseResponse
	url := c.baseURL + "/v2/prices/BTC-USD/spot"
	if err := fetchJSON(ctx, c.client, c.Name(), url, &resp); err != nil {
		return nil, err
	}

	if resp.Data == nil {
		return nil, apperr.NewSchemaError(c.Name(), fmt.Errorf("missing field %q", "data"))
	}
	price, err := parsePrice(c.Name(), "data.amount", resp.Data.Amount)
	if err != nil {
		return nil, err
	}

	return &model.Quote{
		Provider:  c.Name(),
		Timestamp: time.Now().UTC(),
		Price:     price,
	}, nil
}

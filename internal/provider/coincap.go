package provider

import (
	"context"
	"fmt"
	"time"

	"bitcoin-price-service/internal/apperr"
	"bitcoin-price-service/internal/httpx"
	"bitcoin-price-service/internal/model"
)

const coincapBaseURL = "https://api.coincap.io"

// CoinCap fetches the bitcoin asset record. It supplies the current price
// and a 24h USD volume; OHLC stays unset.
type CoinCap struct {
	baseURL string
	client  *httpx.Client
}

// NewCoinCap creates the CoinCap adapter. An empty baseURL uses the public
// API endpoint.
func NewCoinCap(baseURL string, client *httpx.Client) *CoinCap {
	if baseURL == "" {
		baseURL = coincapBaseURL
	}
	return &CoinCap{baseURL: baseURL, client: client}
}

func (c *CoinCap) Name() string { return "coincap" }

type coincapResponse struct {
	Data *struct {
		PriceUsd      string `json:"priceUsd"`
		VolumeUsd24Hr string `json:"volumeUsd24Hr"`
	} `json:"data"`
	Timestamp int64 `json:"timestamp"`
}

// Fetch issues GET /v2/assets/bitcoin.
func (c *CoinCap) Fetch(ctx context.Context) (*model.Quote, error) {
	var resp coincapResponse
	url := c.baseURL + "/v2/assets/bitcoin"
	if err := fetchJSON(ctx, c.client, c.Name(), url, &resp); err != nil {
		return nil, err
	}

	if resp.Data == nil {
		return nil, apperr.NewSchemaError(c.Name(), fmt.Errorf("missing field %q", "data"))
	}
	price, err := parsePrice(c.Name(), "data.priceUsd", resp.Data.PriceUsd)
	if err != nil {
		return nil, err
	}
	volume, err := parseOptional(c.Name(), "data.volumeUsd24Hr", resp.Data.VolumeUsd24Hr)
	if err != nil {
		return nil, err
	}

	ts := time.Now().UTC()
	if resp.Timestamp > 0 {
		ts = time.UnixMilli(resp.Timestamp).UTC()
	}

	return &model.Quote{
		Provider:  c.Name(),
		Timestamp: ts,
		Price:     price,
		Volume:    volume,
	}, nil
}

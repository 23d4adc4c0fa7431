package provider

import (
	"context"
	"fmt"
	"time"

	"bitcoin-price-service/internal/apperr"
	"bitcoin-price-service/internal/httpx"
	"bitcoin-price-service/internal/model"
)

const kucoinBaseURL = "https://api.kucoin.com"

// KuCoin fetches the BTC-USDT level-1 orderbook, which carries the last
// traded price only; OHLC and volume stay unset.
type KuCoin struct {
	baseURL string
	client  *httpx.Client
}

// NewKuCoin creates the KuCoin adapter. An empty baseURL uses the public
// API endpoint.
func NewKuCoin(baseURL string, client *httpx.Client) *KuCoin {
	if baseURL == "" {
		baseURL = kucoinBaseURL
	}
	return &KuCoin{baseURL: baseURL, client: client}
}

func (k *KuCoin) Name() string { return "kucoin" }

type kucoinResponse struct {
	Code string `json:"code"`
	Data *struct {
		Price string `json:"price"`
		Time  int64  `json:"time"`
	} `json:"data"`
}

// Fetch issues GET /api/v1/market/orderbook/level1?symbol=BTC-USDT.
// KuCoin signals success with code "200000" in the envelope.
func (k *KuCoin) Fetch(ctx context.Context) (*model.Quote, error) {
	var resp kucoinResponse
	url := k.baseURL + "/api/v1/market/orderbook/level1?symbol=BTC-USDT"
	if err := fetchJSON(ctx, k.client, k.Name(), url, &resp); err != nil {
		return nil, err
	}

	if resp.Code != "" && resp.Code != "200000" {
		return nil, apperr.NewUpstreamError(k.Name(), fmt.Errorf("api code %s", resp.Code))
	}
	if resp.Data == nil {
		return nil, apperr.NewSchemaError(k.Name(), fmt.Errorf("missing field %q", "data"))
	}
	price, err := parsePrice(k.Name(), "data.price", resp.Data.Price)
	if err != nil {
		return nil, err
	}

	ts := time.Now().UTC()
	if resp.Data.Time > 0 {
		ts = time.UnixMilli(resp.Data.Time).UTC()
	}

	return &model.Quote{
		Provider:  k.Name(),
		Timestamp: ts,
		Price:     price,
	}, nil
}

package provider

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"bitcoin-price-service/internal/apperr"
	"bitcoin-price-service/internal/httpx"
	"bitcoin-price-service/internal/model"
)

const bybitBaseURL = "https://api.bybit.com"

// Bybit fetches the v2 public BTCUSD ticker. The endpoint exposes a 24h
// high/low and volume but no true daily open, so Open stays unset.
type Bybit struct {
	baseURL string
	client  *httpx.Client
}

// NewBybit creates the Bybit adapter. An empty baseURL uses the public API
// endpoint.
func NewBybit(baseURL string, client *httpx.Client) *Bybit {
	if baseURL == "" {
		baseURL = bybitBaseURL
	}
	return &Bybit{baseURL: baseURL, client: client}
}

func (b *Bybit) Name() string { return "bybit" }

type bybitTicker struct {
	LastPrice    string `json:"last_price"`
	HighPrice24h string `json:"high_price_24h"`
	LowPrice24h  string `json:"low_price_24h"`
	Volume24h    string `json:"volume_24h"`
}

type bybitResponse struct {
	RetCode int           `json:"ret_code"`
	RetMsg  string        `json:"ret_msg"`
	Result  []bybitTicker `json:"result"`
	TimeNow string        `json:"time_now"`
}

// Fetch issues GET /v2/public/tickers?symbol=BTCUSD.
func (b *Bybit) Fetch(ctx context.Context) (*model.Quote, error) {
	var resp bybitResponse
	url := b.baseURL + "/v2/public/tickers?symbol=BTCUSD"
	if err := fetchJSON(ctx, b.client, b.Name(), url, &resp); err != nil {
		return nil, err
	}

	if resp.RetCode != 0 {
		return nil, apperr.NewUpstreamError(b.Name(), fmt.Errorf("ret_code %d: %s", resp.RetCode, resp.RetMsg))
	}
	if len(resp.Result) == 0 {
		return nil, apperr.NewSchemaError(b.Name(), fmt.Errorf("empty result array"))
	}

	ticker := resp.Result[0]
	last, err := parsePrice(b.Name(), "last_price", ticker.LastPrice)
	if err != nil {
		return nil, err
	}

	ts := time.Now().UTC()
	if resp.TimeNow != "" {
		if sec, err := strconv.ParseFloat(resp.TimeNow, 64); err == nil {
			ts = time.Unix(int64(sec), 0).UTC()
		}
	}

	quote := &model.Quote{
		Provider:  b.Name(),
		Timestamp: ts,
		Price:     last,
	}
	if quote.High, err = parseOptional(b.Name(), "high_price_24h", ticker.HighPrice24h); err != nil {
		return nil, err
	}
	if quote.Low, err = parseOptional(b.Name(), "low_price_24h", ticker.LowPrice24h); err != nil {
		return nil, err
	}
	if quote.Volume, err = parseOptional(b.Name(), "volume_24h", ticker.Volume24h); err != nil {
		return nil, err
	}
	return quote, nil
}

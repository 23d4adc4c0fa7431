package provider

import (
	"context"
	"time"

	"bitcoin-price-service/internal/httpx"
	"bitcoin-price-service/internal/model"
)

const binanceBaseURL = "https://api.binance.com"

// Binance fetches the BTCUSDT 24hr ticker. This endpoint supplies a genuine
// 24h open/high/low alongside the last price, so the full OHLC is populated.
type Binance struct {
	baseURL string
	client  *httpx.Client
}

// NewBinance creates the Binance adapter. An empty baseURL uses the public
// API endpoint.
func NewBinance(baseURL string, client *httpx.Client) *Binance {
	if baseURL == "" {
		baseURL = binanceBaseURL
	}
	return &Binance{baseURL: baseURL, client: client}
}

func (b *Binance) Name() string { return "binance" }

type binanceTicker struct {
	OpenPrice string `json:"openPrice"`
	HighPrice string `json:"highPrice"`
	LowPrice  string `json:"lowPrice"`
	LastPrice string `json:"lastPrice"`
	Volume    string `json:"volume"`
	CloseTime int64  `json:"closeTime"`
}

// Fetch issues GET /api/v3/ticker/24hr?symbol=BTCUSDT.
func (b *Binance) Fetch(ctx context.Context) (*model.Quote, error) {
	var ticker binanceTicker
	url := b.baseURL + "/api/v3/ticker/24hr?symbol=BTCUSDT"
	if err := fetchJSON(ctx, b.client, b.Name(), url, &ticker); err != nil {
		return nil, err
	}

	last, err := parsePrice(b.Name(), "lastPrice", ticker.LastPrice)
	if err != nil {
		return nil, err
	}
	open, err := parseOptional(b.Name(), "openPrice", ticker.OpenPrice)
	if err != nil {
		return nil, err
	}
	high, err := parseOptional(b.Name(), "highPrice", ticker.HighPrice)
	if err != nil {
		return nil, err
	}
	low, err := parseOptional(b.Name(), "lowPrice", ticker.LowPrice)
	if err != nil {
		return nil, err
	}
	volume, err := parseOptional(b.Name(), "volume", ticker.Volume)
	if err != nil {
		return nil, err
	}

	ts := time.Now().UTC()
	if ticker.CloseTime > 0 {
		ts = time.UnixMilli(ticker.CloseTime).UTC()
	}

	return &model.Quote{
		Provider:  b.Name(),
		Timestamp: ts,
		Price:     last,
		Open:      open,
		High:      high,
		Low:       low,
		Volume:    volume,
	}, nil
}

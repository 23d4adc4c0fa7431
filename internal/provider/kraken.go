package provider

import (
	"context"
	"fmt"
	"strings"
	"time"

	"bitcoin-price-service/internal/apperr"
	"bitcoin-price-service/internal/httpx"
	"bitcoin-price-service/internal/model"
)

const krakenBaseURL = "https://api.kraken.com"

// Kraken fetches the public XBTUSD ticker. Kraken reports today's
// open (o), high (h[0]), low (l[0]) and volume (v[0]) next to the last
// trade price (c[0]), so the full OHLC is populated.
type Kraken struct {
	baseURL string
	client  *httpx.Client
}

// NewKraken creates the Kraken adapter. An empty baseURL uses the public
// API endpoint.
func NewKraken(baseURL string, client *httpx.Client) *Kraken {
	if baseURL == "" {
		baseURL = krakenBaseURL
	}
	return &Kraken{baseURL: baseURL, client: client}
}

func (k *Kraken) Name() string { return "kraken" }

type krakenPair struct {
	Close  []string `json:"c"`
	Open   string   `json:"o"`
	High   []string `json:"h"`
	Low    []string `json:"l"`
	Volume []string `json:"v"`
}

type krakenResponse struct {
	Error  []string              `json:"error"`
	Result map[string]krakenPair `json:"result"`
}

// Fetch issues GET /0/public/Ticker?pair=XBTUSD. Kraken keys the result by
// its internal pair name (XXBTZUSD for XBTUSD).
func (k *Kraken) Fetch(ctx context.Context) (*model.Quote, error) {
	var resp krakenResponse
	url := k.baseURL + "/0/public/Ticker?pair=XBTUSD"
	if err := fetchJSON(ctx, k.client, k.Name(), url, &resp); err != nil {
		return nil, err
	}

	if len(resp.Error) > 0 {
		return nil, apperr.NewUpstreamError(k.Name(), fmt.Errorf("api error: %s", strings.Join(resp.Error, "; ")))
	}

	pair, ok := resp.Result["XXBTZUSD"]
	if !ok {
		// Fall back to the single returned pair when Kraken renames it.
		if len(resp.Result) != 1 {
			return nil, apperr.NewSchemaError(k.Name(), fmt.Errorf("pair XXBTZUSD missing from result"))
		}
		for _, p := range resp.Result {
			pair = p
		}
	}

	if len(pair.Close) == 0 {
		return nil, apperr.NewSchemaError(k.Name(), fmt.Errorf("missing field %q", "c"))
	}
	last, err := parsePrice(k.Name(), "c[0]", pair.Close[0])
	if err != nil {
		return nil, err
	}

	quote := &model.Quote{
		Provider:  k.Name(),
		Timestamp: time.Now().UTC(),
		Price:     last,
	}
	if quote.Open, err = parseOptional(k.Name(), "o", pair.Open); err != nil {
		return nil, err
	}
	if len(pair.High) > 0 {
		if quote.High, err = parseOptional(k.Name(), "h[0]", pair.High[0]); err != nil {
			return nil, err
		}
	}
	if len(pair.Low) > 0 {
		if quote.Low, err = parseOptional(k.Name(), "l[0]", pair.Low[0]); err != nil {
			return nil, err
		}
	}
	if len(pair.Volume) > 0 {
		if quote.Volume, err = parseOptional(k.Name(), "v[0]", pair.Volume[0]); err != nil {
			return nil, err
		}
	}
	return quote, nil
}

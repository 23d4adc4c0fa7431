package provider

import (
	"context"
	"fmt"
	"time"

	"bitcoin-price-service/internal/apperr"
	"bitcoin-price-service/internal/httpx"
	"bitcoin-price-service/internal/model"
)

const yahooBaseURL = "https://query1.finance.yahoo.com"

// Yahoo fetches the current daily BTC-USD bar from the Yahoo Finance chart
// API, which supplies a genuine open/high/low/close/volume.
type Yahoo struct {
	baseURL string
	client  *httpx.Client
}

// NewYahoo creates the Yahoo adapter. An empty baseURL uses the public
// query endpoint.
func NewYahoo(baseURL string, client *httpx.Client) *Yahoo {
	if baseURL == "" {
		baseURL = yahooBaseURL
	}
	return &Yahoo{baseURL: baseURL, client: client}
}

func (y *Yahoo) Name() string { return "yahoo" }

// yahooChart is the chart API response. Bar values may be null mid-session,
// hence the pointer elements.
type yahooChart struct {
	Chart struct {
		Result []struct {
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open   []*float64 `json:"open"`
					High   []*float64 `json:"high"`
					Low    []*float64 `json:"low"`
					Close  []*float64 `json:"close"`
					Volume []*float64 `json:"volume"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// Fetch issues GET /v8/finance/chart/BTC-USD?interval=1d&range=1d and
// normalizes the latest bar.
func (y *Yahoo) Fetch(ctx context.Context) (*model.Quote, error) {
	var chart yahooChart
	url := y.baseURL + "/v8/finance/chart/BTC-USD?interval=1d&range=1d"
	if err := fetchJSON(ctx, y.client, y.Name(), url, &chart); err != nil {
		return nil, err
	}

	if chart.Chart.Error != nil {
		return nil, apperr.NewUpstreamError(y.Name(), fmt.Errorf("api error %s: %s",
			chart.Chart.Error.Code, chart.Chart.Error.Description))
	}
	if len(chart.Chart.Result) == 0 || len(chart.Chart.Result[0].Indicators.Quote) == 0 {
		return nil, apperr.NewSchemaError(y.Name(), fmt.Errorf("empty chart result"))
	}

	result := chart.Chart.Result[0]
	bar := result.Indicators.Quote[0]
	last := len(bar.Close) - 1
	if last < 0 || bar.Close[last] == nil {
		return nil, apperr.NewSchemaError(y.Name(), fmt.Errorf("missing close value"))
	}

	ts := time.Now().UTC()
	if len(result.Timestamp) > last {
		ts = time.Unix(result.Timestamp[last], 0).UTC()
	}

	quote := &model.Quote{
		Provider:  y.Name(),
		Timestamp: ts,
		Price:     *bar.Close[last],
	}
	if len(bar.Open) > last {
		quote.Open = bar.Open[last]
	}
	if len(bar.High) > last {
		quote.High = bar.High[last]
	}
	if len(bar.Low) > last {
		quote.Low = bar.Low[last]
	}
	if len(bar.Volume) > last {
		quote.Volume = bar.Volume[last]
	}
	return quote, nil
}

package provider

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"bitcoin-price-service/internal/apperr"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bitcoin-price-service/internal/httpx"
)

func testClient() *httpx.Client {
	return httpx.New(2 * time.Second)
}

func jsonServer(t *testing.T, wantPath string, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, wantPath, r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestBinance_FullOHLCDistinctFromLastPrice(t *testing.T) {
	srv := jsonServer(t, "/api/v3/ticker/24hr",
		`{"openPrice":"60000","highPrice":"61000","lowPrice":"59000","lastPrice":"60500","volume":"1200","closeTime":1718064000000}`)

	quote, err := NewBinance(srv.URL, testClient()).Fetch(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "binance", quote.Provider)
	assert.Equal(t, 60500.0, quote.Price)
	require.NotNil(t, quote.Open)
	require.NotNil(t, quote.High)
	require.NotNil(t, quote.Low)
	require.NotNil(t, quote.Volume)
	assert.Equal(t, 60000.0, *quote.Open)
	assert.Equal(t, 61000.0, *quote.High)
	assert.Equal(t, 59000.0, *quote.Low)
	assert.Equal(t, 1200.0, *quote.Volume)
	assert.Equal(t, time.UnixMilli(1718064000000).UTC(), quote.Timestamp)
}

func TestBinance_MissingLastPriceIsSchemaError(t *testing.T) {
	srv := jsonServer(t, "/api/v3/ticker/24hr", `{"openPrice":"60000"}`)

	_, err := NewBinance(srv.URL, testClient()).Fetch(context.Background())
	var providerErr *apperr.ProviderError
	require.ErrorAs(t, err, &providerErr)
	assert.Equal(t, apperr.ProviderErrSchema, providerErr.Kind)
}

func TestBinance_Non2xxIsUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"code":-1003,"msg":"rate limited"}`, http.StatusTooManyRequests)
	}))
	t.Cleanup(srv.Close)

	_, err := NewBinance(srv.URL, testClient()).Fetch(context.Background())
	var providerErr *apperr.ProviderError
	require.ErrorAs(t, err, &providerErr)
	assert.Equal(t, apperr.ProviderErrUpstream, providerErr.Kind)
}

func TestBinance_MalformedBodyIsUpstreamError(t *testing.T) {
	srv := jsonServer(t, "/api/v3/ticker/24hr", `<html>not json</html>`)

	_, err := NewBinance(srv.URL, testClient()).Fetch(context.Background())
	var providerErr *apperr.ProviderError
	require.ErrorAs(t, err, &providerErr)
	assert.Equal(t, apperr.ProviderErrUpstream, providerErr.Kind)
}

func TestBinance_TimeoutIsNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	t.Cleanup(srv.Close)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := NewBinance(srv.URL, testClient()).Fetch(ctx)
	var providerErr *apperr.ProviderError
	require.ErrorAs(t, err, &providerErr)
	assert.Equal(t, apperr.ProviderErrNetwork, providerErr.Kind)
}

func TestKraken_ParsesPairFields(t *testing.T) {
	srv := jsonServer(t, "/0/public/Ticker",
		`{"error":[],"result":{"XXBTZUSD":{"c":["60500.0","0.1"],"o":"60000.0","h":["61000.0","61500.0"],"l":["59000.0","58500.0"],"v":["1200.5","2400.9"]}}}`)

	quote, err := NewKraken(srv.URL, testClient()).Fetch(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 60500.0, quote.Price)
	require.NotNil(t, quote.Open)
	require.NotNil(t, quote.High)
	require.NotNil(t, quote.Low)
	require.NotNil(t, quote.Volume)
	assert.Equal(t, 60000.0, *quote.Open)
	assert.Equal(t, 61000.0, *quote.High)
	assert.Equal(t, 59000.0, *quote.Low)
	assert.Equal(t, 1200.5, *quote.Volume)
}

func TestKraken_APIErrorIsUpstreamError(t *testing.T) {
	srv := jsonServer(t, "/0/public/Ticker", `{"error":["EQuery:Unknown asset pair"],"result":{}}`)

	_, err := NewKraken(srv.URL, testClient()).Fetch(context.Background())
	var providerErr *apperr.ProviderError
	require.ErrorAs(t, err, &providerErr)
	assert.Equal(t, apperr.ProviderErrUpstream, providerErr.Kind)
}

func TestBybit_NoOpenFabricated(t *testing.T) {
	srv := jsonServer(t, "/v2/public/tickers",
		`{"ret_code":0,"ret_msg":"OK","result":[{"last_price":"60500","high_price_24h":"61000","low_price_24h":"59000","volume_24h":"88000"}],"time_now":"1718064000.123"}`)

	quote, err := NewBybit(srv.URL, testClient()).Fetch(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 60500.0, quote.Price)
	// The v2 ticker has no true daily open; it must stay absent rather
	// than echoing the last price.
	assert.Nil(t, quote.Open)
	require.NotNil(t, quote.High)
	require.NotNil(t, quote.Low)
	assert.Equal(t, 61000.0, *quote.High)
	assert.Equal(t, 59000.0, *quote.Low)
}

func TestBybit_RetCodeIsUpstreamError(t *testing.T) {
	srv := jsonServer(t, "/v2/public/tickers", `{"ret_code":10001,"ret_msg":"param error","result":[]}`)

	_, err := NewBybit(srv.URL, testClient()).Fetch(context.Background())
	var providerErr *apperr.ProviderError
	require.ErrorAs(t, err, &providerErr)
	assert.Equal(t, apperr.ProviderErrUpstream, providerErr.Kind)
}

func TestYahoo_ParsesDailyBar(t *testing.T) {
	srv := jsonServer(t, "/v8/finance/chart/BTC-USD",
		`{"chart":{"result":[{"timestamp":[1718064000],"indicators":{"quote":[{"open":[60000.0],"high":[61000.0],"low":[59000.0],"close":[60500.0],"volume":[31000000000.0]}]}}],"error":null}}`)

	quote, err := NewYahoo(srv.URL, testClient()).Fetch(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 60500.0, quote.Price)
	require.NotNil(t, quote.Open)
	assert.Equal(t, 60000.0, *quote.Open)
	assert.Equal(t, time.Unix(1718064000, 0).UTC(), quote.Timestamp)
}

func TestYahoo_EmptyResultIsSchemaError(t *testing.T) {
	srv := jsonServer(t, "/v8/finance/chart/BTC-USD", `{"chart":{"result":[],"error":null}}`)

	_, err := NewYahoo(srv.URL, testClient()).Fetch(context.Background())
	var providerErr *apperr.ProviderError
	require.ErrorAs(t, err, &providerErr)
	assert.Equal(t, apperr.ProviderErrSchema, providerErr.Kind)
}

func TestCoinGecko_LastPriceOnly(t *testing.T) {
	srv := jsonServer(t, "/api/v3/simple/price", `{"bitcoin":{"usd":60500}}`)

	quote, err := NewCoinGecko(srv.URL, testClient()).Fetch(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 60500.0, quote.Price)
	assert.Nil(t, quote.Open)
	assert.Nil(t, quote.High)
	assert.Nil(t, quote.Low)
	assert.Nil(t, quote.Volume)
}

func TestCoinGecko_MissingPriceIsSchemaError(t *testing.T) {
	srv := jsonServer(t, "/api/v3/simple/price", `{}`)

	_, err := NewCoinGecko(srv.URL, testClient()).Fetch(context.Background())
	var providerErr *apperr.ProviderError
	require.ErrorAs(t, err, &providerErr)
	assert.Equal(t, apperr.ProviderErrSchema, providerErr.Kind)
}

func TestCoinCap_PriceAndVolume(t *testing.T) {
	srv := jsonServer(t, "/v2/assets/bitcoin",
		`{"data":{"priceUsd":"60500.25","volumeUsd24Hr":"31000000000.5"},"timestamp":1718064000000}`)

	quote, err := NewCoinCap(srv.URL, testClient()).Fetch(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 60500.25, quote.Price)
	require.NotNil(t, quote.Volume)
	assert.Equal(t, 31000000000.5, *quote.Volume)
	assert.Nil(t, quote.Open)
}

func TestKuCoin_PriceOnly(t *testing.T) {
	srv := jsonServer(t, "/api/v1/market/orderbook/level1",
		`{"code":"200000","data":{"price":"60500.1","time":1718064000000}}`)

	quote, err := NewKuCoin(srv.URL, testClient()).Fetch(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 60500.1, quote.Price)
	assert.Nil(t, quote.Open)
	assert.Equal(t, time.UnixMilli(1718064000000).UTC(), quote.Timestamp)
}

func TestKuCoin_ErrorCodeIsUpstreamError(t *testing.T) {
	srv := jsonServer(t, "/api/v1/market/orderbook/level1", `{"code":"400100","data":null}`)

	_, err := NewKuCoin(srv.URL, testClient()).Fetch(context.Background())
	var providerErr *apperr.ProviderError
	require.ErrorAs(t, err, &providerErr)
	assert.Equal(t, apperr.ProviderErrUpstream, providerErr.Kind)
}

func TestCoinbase_SpotPrice(t *testing.T) {
	srv := jsonServer(t, "/v2/prices/BTC-USD/spot",
		`{"data":{"amount":"60500.55","currency":"USD"}}`)

	quote, err := NewCoinbase(srv.URL, testClient()).Fetch(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 60500.55, quote.Price)
	assert.Nil(t, quote.Open)
	assert.Nil(t, quote.Volume)
}

func TestCoinbase_UnparsableAmountIsSchemaError(t *testing.T) {
	srv := jsonServer(t, "/v2/prices/BTC-USD/spot", `{"data":{"amount":"n/a","currency":"USD"}}`)

	_, err := NewCoinbase(srv.URL, testClient()).Fetch(context.Background())
	var providerErr *apperr.ProviderError
	require.ErrorAs(t, err, &providerErr)
	assert.Equal(t, apperr.ProviderErrSchema, providerErr.Kind)
}

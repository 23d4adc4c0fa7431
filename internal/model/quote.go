package model

import (
	"time"
)

// Quote is a normalized live price observation from one provider. Price is
// the last/spot price and is always set. Open, High, Low and Volume are only
// set when the upstream genuinely supplies them; many ticker endpoints only
// expose a last price, and those fields stay nil rather than echoing Price.
type Quote struct {
	Provider  string    `json:"provider"`
	Timestamp time.Time `json:"timestamp"`
	Price     float64   `json:"price"`
	Open      *float64  `json:"open,omitempty"`
	High      *float64  `json:"high,omitempty"`
	Low       *float64  `json:"low,omitempty"`
	Volume    *float64  `json:"volume,omitempty"`
}

// Provider result statuses.
const (
	StatusSuccess = "success"
	StatusFailure = "failure"
)

// ProviderResult is one provider's outcome inside an aggregate quote call.
type ProviderResult struct {
	Provider string `json:"provider"`
	Status   string `json:"status"`
	Quote    *Quote `json:"quote,omitempty"`
	Error    string `json:"error,omitempty"`
}

// AggregatedQuoteResult is the outcome of querying every configured
// provider. Results preserve the configured provider order and are present
// even when all providers fail.
type AggregatedQuoteResult struct {
	Results []ProviderResult `json:"results"`
}

package model

import (
	"time"
)

// PriceRecord is one daily Bitcoin price observation from the historical
// store. Dates are calendar days stored at UTC midnight; there is exactly
// one record per date.
type PriceRecord struct {
	Date     time.Time `json:"date" db:"date"`
	Open     float64   `json:"open" db:"open"`
	High     float64   `json:"high" db:"high"`
	Low      float64   `json:"low" db:"low"`
	Close    float64   `json:"close" db:"close"`
	AdjClose *float64  `json:"adj_close" db:"adj_close"`
	Volume   float64   `json:"volume" db:"volume"`
}

// DateRange is an inclusive [Start, End] calendar date range.
type DateRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// PriceStatistics summarizes the close prices held in the store.
type PriceStatistics struct {
	MinPrice     float64 `json:"min_price" db:"min_price"`
	MaxPrice     float64 `json:"max_price" db:"max_price"`
	AvgPrice     float64 `json:"avg_price" db:"avg_price"`
	TotalEntries int     `json:"total_entries" db:"total_entries"`
}

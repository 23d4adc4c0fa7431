package halving

import (
	"fmt"
	"time"

	"bitcoin-price-service/internal/apperr"
	"bitcoin-price-service/internal/model"
)

// Year bounds accepted by RangeForYear. The store cannot hold data outside
// this span, so anything else is rejected rather than silently returning an
// empty result.
const (
	minYear = 1
	maxYear = 9999
)

// Resolver turns a halving index or calendar year into the inclusive date
// range(s) to query.
type Resolver struct {
	calendar *Calendar
}

// NewResolver creates a resolver over the given calendar.
func NewResolver(calendar *Calendar) *Resolver {
	return &Resolver{calendar: calendar}
}

// RangeForHalving returns the configured era window for a halving index
// verbatim. Unknown indices propagate the calendar's NotFoundError.
func (r *Resolver) RangeForHalving(index int) (model.DateRange, error) {
	era, err := r.calendar.EraByIndex(index)
	if err != nil {
		return model.DateRange{}, err
	}
	return model.DateRange{Start: era.RangeStart, End: era.RangeEnd}, nil
}

// RangesForAllHalvings returns one range per configured era in index order.
// Overlapping windows are not merged here: overlap is a data concern and is
// resolved by record-level dedup in the query service.
func (r *Resolver) RangesForAllHalvings() []model.DateRange {
	eras := r.calendar.AllEras()
	ranges := make([]model.DateRange, 0, len(eras))
	for _, era := range eras {
		ranges = append(ranges, model.DateRange{Start: era.RangeStart, End: era.RangeEnd})
	}
	return ranges
}

// RangeForYear returns the full-year range (year-01-01, year-12-31). Years
// outside [1, 9999] fail with a ValidationError.
func (r *Resolver) RangeForYear(year int) (model.DateRange, error) {
	if year < minYear || year > maxYear {
		return model.DateRange{}, &apperr.ValidationError{
			Field:  "year",
			Reason: fmt.Sprintf("must be between %d and %d, got %d", minYear, maxYear, year),
		}
	}
	return model.DateRange{
		Start: time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC),
	}, nil
}

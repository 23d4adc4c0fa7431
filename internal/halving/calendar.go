package halving

import (
	"fmt"
	"strconv"
	"time"

	"bitcoin-price-service/internal/apperr"
)

// Era is one epoch of Bitcoin's emission schedule: the halving event date
// plus the inclusive date window used for price queries around it.
type Era struct {
	Index      int       `json:"index"`
	EventDate  time.Time `json:"event_date"`
	RangeStart time.Time `json:"range_start"`
	RangeEnd   time.Time `json:"range_end"`
	// OpenEnded marks an era whose end is a configured far-future
	// sentinel because the next halving date is not yet known.
	OpenEnded bool `json:"open_ended"`
}

// Calendar holds the static halving era table. It is built once at startup
// and immutable afterwards; eras are never derived from the database.
type Calendar struct {
	eras []Era
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// defaultEras is the configured halving table. Era 4 ends at an explicit
// far-future sentinel until the next halving is scheduled.
var defaultEras = []Era{
	{Index: 1, EventDate: date(2012, time.November, 28), RangeStart: date(2012, time.September, 1), RangeEnd: date(2013, time.February, 28)},
	{Index: 2, EventDate: date(2016, time.July, 9), RangeStart: date(2016, time.April, 1), RangeEnd: date(2016, time.October, 31)},
	{Index: 3, EventDate: date(2020, time.May, 11), RangeStart: date(2020, time.February, 1), RangeEnd: date(2020, time.August, 31)},
	{Index: 4, EventDate: date(2024, time.April, 20), RangeStart: date(2024, time.February, 1), RangeEnd: date(2099, time.December, 31), OpenEnded: true},
}

// NewCalendar creates a calendar with the default halving era table.
func NewCalendar() *Calendar {
	cal, err := NewCalendarWithEras(defaultEras)
	if err != nil {
		// The default table is validated by tests; a bad entry here is
		// a programming error, not a runtime condition.
		panic(err)
	}
	return cal
}

// NewCalendarWithEras creates a calendar from an explicit era table. Eras
// must be 1-based, contiguous, ascending, and each window must contain its
// event date.
func NewCalendarWithEras(eras []Era) (*Calendar, error) {
	if len(eras) == 0 {
		return nil, fmt.Errorf("halving calendar requires at least one era")
	}
	for i, era := range eras {
		if era.Index != i+1 {
			return nil, fmt.Errorf("era at position %d has index %d, want %d", i, era.Index, i+1)
		}
		if era.EventDate.Before(era.RangeStart) || era.EventDate.After(era.RangeEnd) {
			return nil, fmt.Errorf("era %d: event date %s outside window [%s, %s]",
				era.Index,
				era.EventDate.Format("2006-01-02"),
				era.RangeStart.Format("2006-01-02"),
				era.RangeEnd.Format("2006-01-02"))
		}
	}
	out := make([]Era, len(eras))
	copy(out, eras)
	return &Calendar{eras: out}, nil
}

// EraByIndex returns the era for a 1-based halving index. Unknown indices
// fail with a NotFoundError; there is deliberately no fallback range.
func (c *Calendar) EraByIndex(index int) (Era, error) {
	if index < 1 || index > len(c.eras) {
		return Era{}, &apperr.NotFoundError{Resource: "halving era", Key: strconv.Itoa(index)}
	}
	return c.eras[index-1], nil
}

// AllEras returns every configured era ordered by index ascending.
func (c *Calendar) AllEras() []Era {
	out := make([]Era, len(c.eras))
	copy(out, c.eras)
	return out
}

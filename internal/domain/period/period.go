// Package period defines the inclusive day ranges scores are computed over.
package period

import (
	"fmt"
	"time"

	"github.com/okian/gutscore/internal/domain/model"
)

const monthLayout = "2006-01"

// Period is an inclusive range of calendar days. From and To are day starts
// in the same location.
type Period struct {
	From time.Time
	To   time.Time
}

// New returns the period between the days of from and to.
func New(from, to time.Time) (Period, error) {
	p := Period{From: model.Day(from), To: model.Day(to.In(from.Location()))}
	if err := p.Validate(); err != nil {
		return Period{}, err
	}
	return p, nil
}

// Month returns the calendar month of year/month in loc.
func Month(year int, month time.Month, loc *time.Location) Period {
	if loc == nil {
		loc = time.UTC
	}
	from := time.Date(year, month, 1, 0, 0, 0, 0, loc)
	return Period{From: from, To: from.AddDate(0, 1, -1)}
}

// ParseMonth parses "YYYY-MM" into a calendar month period.
func ParseMonth(s string, loc *time.Location) (Period, error) {
	if loc == nil {
		loc = time.UTC
	}
	t, err := time.ParseInLocation(monthLayout, s, loc)
	if err != nil {
		return Period{}, fmt.Errorf("%w: month %q: %v", ErrInvalidPeriod, s, err)
	}
	return Month(t.Year(), t.Month(), loc), nil
}

// LastDays returns the n days ending on asOf, asOf included.
func LastDays(asOf time.Time, n int) (Period, error) {
	if n <= 0 {
		return Period{}, fmt.Errorf("%w: %d days", ErrInvalidPeriod, n)
	}
	to := model.Day(asOf)
	return Period{From: to.AddDate(0, 0, -(n - 1)), To: to}, nil
}

// Validate rejects zero bounds and ranges that end before they start.
func (p Period) Validate() error {
	if p.From.IsZero() || p.To.IsZero() {
		return fmt.Errorf("%w: missing bound", ErrInvalidPeriod)
	}
	if p.To.Before(p.From) {
		return fmt.Errorf("%w: %s ends before it starts", ErrInvalidPeriod, p)
	}
	return nil
}

// Contains reports whether the day of t falls inside p.
func (p Period) Contains(t time.Time) bool {
	d := model.Day(t.In(p.From.Location()))
	return !d.Before(p.From) && !d.After(p.To)
}

// Days returns the number of calendar days in p.
func (p Period) Days() int {
	if p.To.Before(p.From) {
		return 0
	}
	n := 0
	for d := p.From; !d.After(p.To); d = d.AddDate(0, 0, 1) {
		n++
	}
	return n
}

func (p Period) String() string {
	return p.From.Format(time.DateOnly) + ".." + p.To.Format(time.DateOnly)
}

package team

import (
	"fmt"
	"time"

	"github.com/shopx/backoffice/internal/domain/shared"
)

// Period is a calendar month in "YYYY-MM" form, the granularity at which
// performance and commissions are computed.
type Period string

// ParsePeriod validates a "YYYY-MM" string
func ParsePeriod(s string) (Period, error) {
	if _, err := time.Parse("2006-01", s); err != nil {
		return "", shared.NewDomainError("INVALID_PERIOD", fmt.Sprintf("Invalid period %q, expected YYYY-MM", s))
	}
	return Period(s), nil
}

// CurrentPeriod returns the period containing now
func CurrentPeriod() Period {
	return Period(time.Now().Format("2006-01"))
}

// PeriodOf returns the period containing the given time
func PeriodOf(t time.Time) Period {
	return Period(t.Format("2006-01"))
}

// Bounds returns the half-open time range [start, end) of the period
func (p Period) Bounds() (time.Time, time.Time) {
	start, _ := time.Parse("2006-01", string(p))
	return start, start.AddDate(0, 1, 0)
}

// String returns the string representation
func (p Period) String() string {
	return string(p)
}

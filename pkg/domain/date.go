package domain

import (
	"fmt"
	"time"
)

// dateLayout is the ISO calendar-day format used for registry columns,
// photo directory names, and archive names.
const dateLayout = "2006-01-02"

// Date is a calendar day in ISO YYYY-MM-DD form. It is a value, not an
// instant: two uploads on the same wall-clock day share one Date regardless
// of time of day.
type Date string

// ParseDate validates an ISO date string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return "", fmt.Errorf("invalid date %q (expected YYYY-MM-DD): %w", s, err)
	}
	return Date(t.Format(dateLayout)), nil
}

// DateOf truncates an instant to its calendar day in the instant's location.
func DateOf(t time.Time) Date { return Date(t.Format(dateLayout)) }

// Today returns the current calendar day.
func Today() Date { return DateOf(time.Now()) }

func (d Date) String() string { return string(d) }

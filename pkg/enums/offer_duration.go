package enums

import (
	"fmt"
	"time"
)

// OfferDuration is the subscription length attached to an offer.
type OfferDuration string

const (
	OfferDurationOneMonth  OfferDuration = "one_month"
	OfferDurationSixMonths OfferDuration = "six_months"
	OfferDurationOneYear   OfferDuration = "one_year"
)

var validOfferDurations = []OfferDuration{
	OfferDurationOneMonth,
	OfferDurationSixMonths,
	OfferDurationOneYear,
}

// String implements fmt.Stringer.
func (d OfferDuration) String() string {
	return string(d)
}

// IsValid reports whether the value is a known OfferDuration.
func (d OfferDuration) IsValid() bool {
	for _, candidate := range validOfferDurations {
		if candidate == d {
			return true
		}
	}
	return false
}

// ParseOfferDuration converts raw input into an OfferDuration.
func ParseOfferDuration(value string) (OfferDuration, error) {
	for _, candidate := range validOfferDurations {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid offer duration %q", value)
}

func (d OfferDuration) months() int {
	switch d {
	case OfferDurationOneMonth:
		return 1
	case OfferDurationSixMonths:
		return 6
	case OfferDurationOneYear:
		return 12
	}
	return 0
}

// AddTo returns the calendar-correct expiry for a subscription starting at t.
// Month offsets clamp to the last day of the target month instead of
// normalizing forward: Jan 31 + 1 month is Feb 29 in a leap year, Feb 28
// otherwise. time.AddDate would roll into March, which is the wrong answer
// for a subscription end date.
func (d OfferDuration) AddTo(t time.Time) time.Time {
	months := d.months()
	if months == 0 {
		return t
	}

	year, month, day := t.Date()
	total := int(month) - 1 + months
	targetYear := year + total/12
	targetMonth := time.Month(total%12 + 1)

	if last := lastDayOfMonth(targetYear, targetMonth, t.Location()); day > last {
		day = last
	}

	return time.Date(targetYear, targetMonth, day,
		t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}

func lastDayOfMonth(year int, month time.Month, loc *time.Location) int {
	firstOfNext := time.Date(year, month, 1, 0, 0, 0, 0, loc).AddDate(0, 1, 0)
	return firstOfNext.AddDate(0, 0, -1).Day()
}

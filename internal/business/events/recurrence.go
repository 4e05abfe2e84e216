package events

import (
	"fmt"
	"time"

	"github.com/SergeyKozhin/aquacare-backend/internal/model"
	"github.com/teambition/rrule-go"
)

// nextOccurrence returns the first occurrence strictly after the anchor.
// Monthly recurrence follows RFC 5545 month arithmetic: the same day of month
// in a later month, skipping months that lack that day (Jan 31 -> Mar 31).
func nextOccurrence(r model.Recurrence, anchor time.Time) (time.Time, error) {
	var freq rrule.Frequency

	switch r {
	case model.RecurrenceDaily:
		freq = rrule.DAILY
	case model.RecurrenceWeekly:
		freq = rrule.WEEKLY
	case model.RecurrenceMonthly:
		freq = rrule.MONTHLY
	default:
		return time.Time{}, fmt.Errorf("unknown recurrence: %q", r)
	}

	rule, err := rrule.NewRRule(rrule.ROption{
		Freq:    freq,
		Dtstart: anchor.UTC(),
	})
	if err != nil {
		return time.Time{}, fmt.Errorf("creating rule: %w", err)
	}

	return rule.After(anchor.UTC(), false), nil
}

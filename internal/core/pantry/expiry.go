package pantry

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// DateLayout is the stored expiry date format, day precision.
const DateLayout = "02/01/2006"

// Urgency classifies how close an item is to its expiry date.
type Urgency int

const (
	UrgencyNoDate Urgency = iota
	UrgencyExpired
	UrgencyToday
	UrgencySoon        // 1-2 days
	UrgencyApproaching // 3-5 days
	UrgencyThisWeek    // 6-7 days
	UrgencyNormal      // beyond a week
)

func (u Urgency) String() string {
	switch u {
	case UrgencyExpired:
		return "expired"
	case UrgencyToday:
		return "today"
	case UrgencySoon:
		return "soon"
	case UrgencyApproaching:
		return "approaching"
	case UrgencyThisWeek:
		return "this_week"
	case UrgencyNormal:
		return "normal"
	default:
		return "no_date"
	}
}

// atMidnight truncates t to local midnight to avoid partial-day skew.
func atMidnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// DaysUntilExpiry returns the signed whole-day difference between the item's
// expiry date and ref. ok is false when the date is blank or unparsable;
// an unknown date is never conflated with a negative day count.
func DaysUntilExpiry(expiryDate string, ref time.Time) (int, bool) {
	expiryDate = strings.TrimSpace(expiryDate)
	if expiryDate == "" {
		return 0, false
	}

	expiry, err := time.ParseInLocation(DateLayout, expiryDate, ref.Location())
	if err != nil {
		return 0, false
	}

	// Rounding absorbs the 23- and 25-hour days around DST transitions.
	diff := atMidnight(expiry).Sub(atMidnight(ref))
	days := int(math.Round(diff.Hours() / 24))
	return days, true
}

// IsExpiringWithin reports whether the item expires between ref and the next
// windowDays days, inclusive. Items without a parseable date never qualify.
func IsExpiringWithin(item Item, windowDays int, ref time.Time) bool {
	days, ok := DaysUntilExpiry(item.ExpiryDate, ref)
	if !ok {
		return false
	}
	return days >= 0 && days <= windowDays
}

// BucketFor maps a day count to an urgency bucket.
func BucketFor(days int, known bool) Urgency {
	switch {
	case !known:
		return UrgencyNoDate
	case days < 0:
		return UrgencyExpired
	case days == 0:
		return UrgencyToday
	case days <= 2:
		return UrgencySoon
	case days <= 5:
		return UrgencyApproaching
	case days <= 7:
		return UrgencyThisWeek
	default:
		return UrgencyNormal
	}
}

// UrgencyOf classifies an item against ref.
func UrgencyOf(item Item, ref time.Time) Urgency {
	days, ok := DaysUntilExpiry(item.ExpiryDate, ref)
	return BucketFor(days, ok)
}

// ExpiryLabel renders the display text shown next to an item.
func ExpiryLabel(item Item, ref time.Time) string {
	days, ok := DaysUntilExpiry(item.ExpiryDate, ref)
	switch {
	case !ok:
		return ""
	case days < 0:
		return "Expired"
	case days == 0:
		return "Expires today!"
	case days == 1:
		return "Expires tomorrow"
	case days <= 7:
		return fmt.Sprintf("Expires in %d days", days)
	default:
		return item.ExpiryDate
	}
}

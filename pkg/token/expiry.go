package token

import "time"

// ComputeExpiry returns the expiry for a guest token given the booking's
// check-out date: the end of the calendar day after check-out, in the
// check-out date's location. The extra day is the late-checkout grace window.
func ComputeExpiry(checkOut time.Time) time.Time {
	next := checkOut.AddDate(0, 0, 1)
	return time.Date(next.Year(), next.Month(), next.Day(), 23, 59, 59, 0, checkOut.Location())
}

// IsExpired reports whether a credential with the given expiry is expired at
// now. The comparison is strict: a credential expiring exactly at now is
// still valid.
func IsExpired(expiry, now time.Time) bool {
	return expiry.Before(now)
}

package webstore

import "time"

// coalesce returns def when v is the zero value of T - otherwise v.
func coalesce[T comparable](v, def T) T {
	var zero T
	if v == zero {
		return def
	}
	return v
}

// ceilMinutes converts a positive TTL to whole minutes, rounding up so a
// sub-minute TTL still expires at the next minute boundary.
func ceilMinutes(ttl time.Duration) int64 {
	return int64((ttl + time.Minute - 1) / time.Minute)
}

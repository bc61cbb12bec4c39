// Package fortune computes deterministic reward outcomes for offerings.
package fortune

import "time"

// Context carries the wall-clock inputs of an outcome computation. Engines
// never read the real clock themselves; callers inject a Context so tests can
// freeze it and assert exact outputs.
type Context struct {
	NowMillis int64
	Today     time.Time
}

// Now captures the current wall clock in UTC.
func Now() Context {
	now := time.Now().UTC()
	return Context{
		NowMillis: now.UnixMilli(),
		Today:     now,
	}
}

// Days returns whole days since the Unix epoch for Today.
func (c Context) Days() int64 {
	return c.Today.Unix() / 86400
}

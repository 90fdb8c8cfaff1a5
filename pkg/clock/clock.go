// Package clock supplies the current time to components that need to reason
// about it, so tests can pin the clock instead of sleeping.
package clock

import (
	"sync"
	"time"
)

// BusinessTimeZone is the fixed timezone the issuing service runs its
// shipment cutoffs in.
const BusinessTimeZone = "America/New_York"

// Clock defines the interface for reading the current time.
type Clock interface {
	// Now returns the current time.
	Now() time.Time
}

// Real reads the system clock, reporting times in the business timezone.
type Real struct {
	loc *time.Location
}

// NewReal creates a Real clock pinned to the business timezone.
func NewReal() (*Real, error) {
	loc, err := time.LoadLocation(BusinessTimeZone)
	if err != nil {
		return nil, err
	}
	return &Real{loc: loc}, nil
}

// Now returns the current time in the business timezone.
func (c *Real) Now() time.Time {
	return time.Now().In(c.loc)
}

// Make sure we conform to the interface
var _ Clock = (*Real)(nil)

// Fixed is a settable clock for tests.
type Fixed struct {
	mu  sync.Mutex
	now time.Time
}

// NewFixed creates a Fixed clock reporting the given instant.
func NewFixed(now time.Time) *Fixed {
	return &Fixed{now: now}
}

// Now returns the pinned time.
func (c *Fixed) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Set moves the pinned time.
func (c *Fixed) Set(now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = now
}

// Advance moves the pinned time forward by d.
func (c *Fixed) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// Make sure we conform to the interface
var _ Clock = (*Fixed)(nil)

package clock

import "time"

const dateLayout = "2006-01-02"

// Clock supplies "now" to forecasting and recommendation code.
type Clock interface {
	Now() time.Time
}

type realClock struct{}

// New returns a clock backed by the system time.
func New() Clock {
	return realClock{}
}

func (realClock) Now() time.Time {
	return time.Now().UTC()
}

// FixedClock always reports the same instant. Used to pin the simulation date.
type FixedClock struct {
	now time.Time
}

func NewFixedClock(t time.Time) *FixedClock {
	return &FixedClock{now: t.UTC()}
}

// ParseFixed builds a FixedClock from a YYYY-MM-DD date.
func ParseFixed(date string) (*FixedClock, error) {
	t, err := time.Parse(dateLayout, date)
	if err != nil {
		return nil, err
	}
	return NewFixedClock(t), nil
}

func (c *FixedClock) Now() time.Time {
	return c.now
}

type FakeClock struct {
	now time.Time
}

func NewFakeClock(t time.Time) *FakeClock {
	return &FakeClock{now: t.UTC()}
}

func (c *FakeClock) Now() time.Time {
	return c.now
}

func (c *FakeClock) Advance(d time.Duration) {
	c.now = c.now.Add(d)
}

// Today truncates the clock's current time to midnight UTC.
func Today(c Clock) time.Time {
	now := c.Now().UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

// FormatDate renders a date as YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format(dateLayout)
}

var dateLayouts = []string{dateLayout, "2006-01-02 15:04:05", time.RFC3339}

// ParseDate parses a calendar date and truncates it to midnight UTC. Timestamps
// with a time part are accepted.
func ParseDate(s string) (time.Time, error) {
	var firstErr error
	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			t = t.UTC()
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	return time.Time{}, firstErr
}

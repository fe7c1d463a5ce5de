package forecast

import (
	"fmt"
	"time"
)

// FestivalWindow is a yearly run of days whose forecast demand is scaled up.
type FestivalWindow struct {
	Month      time.Month
	Day        int
	Days       int
	Multiplier float64
}

// DefaultFestivalWindow covers Oct 15-31 with a 1.6x uplift.
func DefaultFestivalWindow() FestivalWindow {
	return FestivalWindow{Month: time.October, Day: 15, Days: 17, Multiplier: 1.6}
}

// ParseFestivalWindow builds a window from an MM-DD start, a length in days
// and an uplift in percent.
func ParseFestivalWindow(start string, days, upliftPercent int) (FestivalWindow, error) {
	t, err := time.Parse("01-02", start)
	if err != nil {
		return FestivalWindow{}, fmt.Errorf("invalid festival window start %q: %w", start, err)
	}
	if days <= 0 {
		return FestivalWindow{}, fmt.Errorf("festival window must span at least one day, got %d", days)
	}
	if upliftPercent < 0 {
		return FestivalWindow{}, fmt.Errorf("festival uplift cannot be negative, got %d", upliftPercent)
	}

	return FestivalWindow{
		Month:      t.Month(),
		Day:        t.Day(),
		Days:       days,
		Multiplier: 1 + float64(upliftPercent)/100,
	}, nil
}

// Contains reports whether d falls in the window of d's year.
func (w FestivalWindow) Contains(d time.Time) bool {
	if w.Days <= 0 {
		return false
	}
	start := time.Date(d.Year(), w.Month, w.Day, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, w.Days)
	day := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)

	return !day.Before(start) && day.Before(end)
}

// Span returns the first and last day of the window in year.
func (w FestivalWindow) Span(year int) (time.Time, time.Time) {
	start := time.Date(year, w.Month, w.Day, 0, 0, 0, 0, time.UTC)
	if w.Days <= 0 {
		return start, start
	}
	return start, start.AddDate(0, 0, w.Days-1)
}

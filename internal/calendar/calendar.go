package calendar

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/alexanderramin/falsework/internal/domain"
)

// maxScanDays bounds every day-walking loop. A calendar that yields no
// working day within a year of scanning is misconfigured, not slow.
const maxScanDays = 365

var (
	// ErrNoWorkingDays is returned when a scan exhausts maxScanDays without
	// finding a working day.
	ErrNoWorkingDays = errors.New("no working day found within scan bound")

	// ErrInvalidConfig is returned for an empty work week or a non-positive
	// hours-per-day factor.
	ErrInvalidConfig = errors.New("invalid calendar configuration")
)

const dateLayout = "2006-01-02"

// Calendar answers working-day questions and does working-day arithmetic.
// It is pure: given the same configuration, every method is deterministic
// and none of them mutate state.
type Calendar struct {
	workWeek    map[time.Weekday]bool
	exceptions  map[string]domain.DayException
	hoursPerDay float64
}

// New builds a calendar from a work week and an hours-per-day conversion
// factor. The work week must be non-empty and hoursPerDay positive.
func New(workWeek []time.Weekday, hoursPerDay float64) (*Calendar, error) {
	if len(workWeek) == 0 {
		return nil, fmt.Errorf("%w: empty work week", ErrInvalidConfig)
	}
	if hoursPerDay <= 0 {
		return nil, fmt.Errorf("%w: hours per day must be positive, got %v", ErrInvalidConfig, hoursPerDay)
	}
	week := make(map[time.Weekday]bool, len(workWeek))
	for _, d := range workWeek {
		week[d] = true
	}
	return &Calendar{
		workWeek:    week,
		exceptions:  make(map[string]domain.DayException),
		hoursPerDay: hoursPerDay,
	}, nil
}

// Default returns a Monday-Friday calendar with 8 working hours per day.
func Default() *Calendar {
	c, err := New([]time.Weekday{
		time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday,
	}, 8)
	if err != nil {
		panic(err) // static configuration, cannot fail
	}
	return c
}

// SetException overrides the work-week rule for one calendar date.
func (c *Calendar) SetException(date time.Time, kind domain.DayException) {
	c.exceptions[date.Format(dateLayout)] = kind
}

// HoursPerDay returns the hours-to-days conversion factor.
func (c *Calendar) HoursPerDay() float64 {
	return c.hoursPerDay
}

// IsWorkingDay reports whether work may occur on the given date.
// The exception table wins over the work-week rule.
func (c *Calendar) IsWorkingDay(date time.Time) bool {
	if kind, ok := c.exceptions[date.Format(dateLayout)]; ok {
		return kind == domain.ExceptionWorkingDay
	}
	return c.workWeek[date.Weekday()]
}

// NextWorkingDay returns date itself if it is a working day, otherwise the
// first working day after it.
func (c *Calendar) NextWorkingDay(date time.Time) (time.Time, error) {
	d := dateOnly(date)
	for i := 0; i <= maxScanDays; i++ {
		if c.IsWorkingDay(d) {
			return d, nil
		}
		d = d.AddDate(0, 0, 1)
	}
	return time.Time{}, fmt.Errorf("scanning forward from %s: %w", date.Format(dateLayout), ErrNoWorkingDays)
}

// PreviousWorkingDay returns date itself if it is a working day, otherwise
// the first working day before it.
func (c *Calendar) PreviousWorkingDay(date time.Time) (time.Time, error) {
	d := dateOnly(date)
	for i := 0; i <= maxScanDays; i++ {
		if c.IsWorkingDay(d) {
			return d, nil
		}
		d = d.AddDate(0, 0, -1)
	}
	return time.Time{}, fmt.Errorf("scanning backward from %s: %w", date.Format(dateLayout), ErrNoWorkingDays)
}

// AddWorkingDays advances date by n working days. The whole part of n is
// consumed one working day at a time; a fractional remainder pushes the
// result to the start of the following working day, so every returned date
// is a working-day boundary. Negative n walks backward.
func (c *Calendar) AddWorkingDays(date time.Time, n float64) (time.Time, error) {
	if n == 0 {
		return dateOnly(date), nil
	}
	if n < 0 {
		return c.subtractWorkingDays(date, -n)
	}

	d, err := c.NextWorkingDay(date)
	if err != nil {
		return time.Time{}, err
	}
	whole := int(math.Floor(n))
	for i := 0; i < whole; i++ {
		d, err = c.NextWorkingDay(d.AddDate(0, 0, 1))
		if err != nil {
			return time.Time{}, err
		}
	}
	if n > float64(whole) {
		d, err = c.NextWorkingDay(d.AddDate(0, 0, 1))
		if err != nil {
			return time.Time{}, err
		}
	}
	return d, nil
}

func (c *Calendar) subtractWorkingDays(date time.Time, n float64) (time.Time, error) {
	d, err := c.PreviousWorkingDay(date)
	if err != nil {
		return time.Time{}, err
	}
	whole := int(math.Floor(n))
	for i := 0; i < whole; i++ {
		d, err = c.PreviousWorkingDay(d.AddDate(0, 0, -1))
		if err != nil {
			return time.Time{}, err
		}
	}
	if n > float64(whole) {
		d, err = c.PreviousWorkingDay(d.AddDate(0, 0, -1))
		if err != nil {
			return time.Time{}, err
		}
	}
	return d, nil
}

// WorkingDaysBetween counts working days in the half-open range [start, end).
// Returns 0 when end is not after start.
func (c *Calendar) WorkingDaysBetween(start, end time.Time) float64 {
	s := dateOnly(start)
	e := dateOnly(end)
	if !e.After(s) {
		return 0
	}
	count := 0.0
	for d := s; d.Before(e); d = d.AddDate(0, 0, 1) {
		if c.IsWorkingDay(d) {
			count++
		}
	}
	return count
}

// HoursToDays converts a working-hours quantity to working days.
func (c *Calendar) HoursToDays(hours float64) float64 {
	return hours / c.hoursPerDay
}

// DaysToHours converts a working-days quantity to working hours.
func (c *Calendar) DaysToHours(days float64) float64 {
	return days * c.hoursPerDay
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

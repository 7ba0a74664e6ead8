package calendar

import (
	"testing"
	"time"

	"github.com/alexanderramin/falsework/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// 2024-01-01 is a Monday.
var monday = date(2024, time.January, 1)

func TestNew_RejectsEmptyWorkWeek(t *testing.T) {
	_, err := New(nil, 8)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestNew_RejectsBadHoursPerDay(t *testing.T) {
	_, err := New([]time.Weekday{time.Monday}, 0)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidConfig)

	_, err = New([]time.Weekday{time.Monday}, -4)
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestIsWorkingDay_WorkWeek(t *testing.T) {
	cal := Default()
	assert.True(t, cal.IsWorkingDay(monday))
	assert.True(t, cal.IsWorkingDay(monday.AddDate(0, 0, 4)), "friday")
	assert.False(t, cal.IsWorkingDay(monday.AddDate(0, 0, 5)), "saturday")
	assert.False(t, cal.IsWorkingDay(monday.AddDate(0, 0, 6)), "sunday")
}

func TestIsWorkingDay_ExceptionsWin(t *testing.T) {
	cal := Default()
	saturday := monday.AddDate(0, 0, 5)
	cal.SetException(monday, domain.ExceptionHoliday)
	cal.SetException(saturday, domain.ExceptionWorkingDay)

	assert.False(t, cal.IsWorkingDay(monday), "holiday overrides work week")
	assert.True(t, cal.IsWorkingDay(saturday), "forced working day overrides weekend")
}

func TestNextWorkingDay_ReturnsInputWhenWorking(t *testing.T) {
	cal := Default()
	got, err := cal.NextWorkingDay(monday)
	require.NoError(t, err)
	assert.Equal(t, monday, got)
}

func TestNextWorkingDay_SkipsWeekend(t *testing.T) {
	cal := Default()
	saturday := date(2024, time.January, 6)
	got, err := cal.NextWorkingDay(saturday)
	require.NoError(t, err)
	assert.Equal(t, date(2024, time.January, 8), got)
}

func TestPreviousWorkingDay_SkipsWeekend(t *testing.T) {
	cal := Default()
	sunday := date(2024, time.January, 7)
	got, err := cal.PreviousWorkingDay(sunday)
	require.NoError(t, err)
	assert.Equal(t, date(2024, time.January, 5), got)
}

func TestAddWorkingDays_Zero(t *testing.T) {
	cal := Default()
	got, err := cal.AddWorkingDays(monday, 0)
	require.NoError(t, err)
	assert.Equal(t, monday, got)
}

func TestAddWorkingDays_WholeDaysSkipWeekend(t *testing.T) {
	cal := Default()

	// Friday + 1 working day lands on Monday.
	friday := date(2024, time.January, 5)
	got, err := cal.AddWorkingDays(friday, 1)
	require.NoError(t, err)
	assert.Equal(t, date(2024, time.January, 8), got)

	// Monday + 4 working days lands on Friday.
	got, err = cal.AddWorkingDays(monday, 4)
	require.NoError(t, err)
	assert.Equal(t, date(2024, time.January, 5), got)
}

func TestAddWorkingDays_SnapsNonWorkingStart(t *testing.T) {
	cal := Default()
	saturday := date(2024, time.January, 6)
	got, err := cal.AddWorkingDays(saturday, 1)
	require.NoError(t, err)
	// Snap to Monday, then one working day forward.
	assert.Equal(t, date(2024, time.January, 9), got)
}

func TestAddWorkingDays_FractionPushesToNextBoundary(t *testing.T) {
	cal := Default()

	// Half a day of work still occupies the following working-day boundary.
	got, err := cal.AddWorkingDays(monday, 0.5)
	require.NoError(t, err)
	assert.Equal(t, date(2024, time.January, 2), got)

	// Thursday + 1.5: one whole day to Friday, fraction pushes over the
	// weekend to Monday.
	thursday := date(2024, time.January, 4)
	got, err = cal.AddWorkingDays(thursday, 1.5)
	require.NoError(t, err)
	assert.Equal(t, date(2024, time.January, 8), got)
}

func TestAddWorkingDays_Negative(t *testing.T) {
	cal := Default()

	// Monday - 1 working day lands on the previous Friday.
	mon := date(2024, time.January, 8)
	got, err := cal.AddWorkingDays(mon, -1)
	require.NoError(t, err)
	assert.Equal(t, date(2024, time.January, 5), got)
}

func TestAddWorkingDays_RespectsHolidays(t *testing.T) {
	cal := Default()
	cal.SetException(date(2024, time.January, 2), domain.ExceptionHoliday)

	got, err := cal.AddWorkingDays(monday, 1)
	require.NoError(t, err)
	assert.Equal(t, date(2024, time.January, 3), got)
}

func TestAddWorkingDays_NoWorkingDaysFails(t *testing.T) {
	// A Monday-only week where every Monday for over a year is a holiday
	// cannot be built cheaply, so force the degenerate case via exceptions
	// on a one-day week.
	cal, err := New([]time.Weekday{time.Monday}, 8)
	require.NoError(t, err)
	d := monday
	for i := 0; i < 60; i++ {
		cal.SetException(d, domain.ExceptionHoliday)
		d = d.AddDate(0, 0, 7)
	}
	// 60 holiday Mondays ~ 420 days > scan bound.
	_, err = cal.NextWorkingDay(monday)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNoWorkingDays)
}

func TestWorkingDaysBetween(t *testing.T) {
	cal := Default()

	// [Mon, Mon+7) covers one full week: 5 working days.
	assert.Equal(t, 5.0, cal.WorkingDaysBetween(monday, monday.AddDate(0, 0, 7)))

	// Empty and inverted ranges count zero.
	assert.Equal(t, 0.0, cal.WorkingDaysBetween(monday, monday))
	assert.Equal(t, 0.0, cal.WorkingDaysBetween(monday.AddDate(0, 0, 3), monday))
}

func TestHoursDaysConversion(t *testing.T) {
	cal := Default()
	assert.Equal(t, 2.0, cal.HoursToDays(16))
	assert.Equal(t, 16.0, cal.DaysToHours(2))
}

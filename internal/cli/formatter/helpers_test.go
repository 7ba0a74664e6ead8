package formatter

import (
	"testing"
	"time"

	"github.com/alexanderramin/falsework/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestFormatHours(t *testing.T) {
	tests := []struct {
		hours float64
		want  string
	}{
		{0, "0h"},
		{4, "4h"},
		{8, "1d"},
		{12, "1d 4h"},
		{40, "5d"},
		{0.5, "0.5h"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatHours(tt.hours), "hours=%v", tt.hours)
	}
}

func TestDateRange(t *testing.T) {
	start := time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)
	finish := time.Date(2024, 3, 8, 0, 0, 0, 0, time.UTC)

	assert.Contains(t, DateRange(&start, &finish), "Mar 4 2024")
	assert.Contains(t, DateRange(&start, &finish), "Mar 8 2024")
	assert.Equal(t, "Mar 4 2024", DateRange(&start, &start))
	assert.Contains(t, DateRange(nil, nil), "unscheduled")
	assert.Contains(t, DateRange(&start, nil), "unscheduled")
}

func TestPlural(t *testing.T) {
	assert.Equal(t, "1 task", Plural(1, "task"))
	assert.Equal(t, "0 tasks", Plural(0, "task"))
	assert.Equal(t, "3 repairs", Plural(3, "repair"))
}

func TestStatusPill(t *testing.T) {
	assert.Contains(t, StatusPill(domain.ProjectActive), "Active")
	assert.Contains(t, StatusPill(domain.ProjectArchived), "Archived")
}

func TestTruncID(t *testing.T) {
	assert.Contains(t, TruncID("0123456789abcdef"), "01234567")
	assert.NotContains(t, TruncID("0123456789abcdef"), "89abcdef")
}

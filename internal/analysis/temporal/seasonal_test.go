package temporal

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSeasonalAdjustAllWeekend(t *testing.T) {
	s := NewSeasonalAdjuster(DefaultCalendarConfig())

	// 2025-06-07 is a Saturday
	start := time.Date(2025, 6, 7, 0, 0, 0, 0, time.UTC)
	end := start.Add(24 * time.Hour)

	assert.InDelta(t, 130.0, s.Adjust(100, start, end), 1e-9)
}

func TestSeasonalAdjustNoWeekend(t *testing.T) {
	s := NewSeasonalAdjuster(DefaultCalendarConfig())

	// 2025-06-02 is a Monday
	start := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)
	end := start.Add(24 * time.Hour)

	assert.Equal(t, 100.0, s.Adjust(100, start, end))
}

func TestSeasonalAdjustPartialWeekend(t *testing.T) {
	s := NewSeasonalAdjuster(DefaultCalendarConfig())

	// Friday noon through Saturday noon: 12 of 24 hours are weekend
	start := time.Date(2025, 6, 6, 12, 0, 0, 0, time.UTC)
	end := start.Add(24 * time.Hour)

	assert.InDelta(t, 115.0, s.Adjust(100, start, end), 1e-9)
}

func TestSeasonalAdjustHoliday(t *testing.T) {
	cfg := DefaultCalendarConfig()
	cfg.HolidayMultiplier = 1.5
	cfg.Holidays = []time.Time{time.Date(2025, 7, 4, 0, 0, 0, 0, time.UTC)}
	s := NewSeasonalAdjuster(cfg)

	// 2025-07-04 is a Friday, so only the holiday multiplier fires
	start := time.Date(2025, 7, 4, 0, 0, 0, 0, time.UTC)
	end := start.Add(24 * time.Hour)

	assert.InDelta(t, 150.0, s.Adjust(100, start, end), 1e-9)
}

func TestSeasonalAdjustPayday(t *testing.T) {
	cfg := DefaultCalendarConfig()
	cfg.PaydayMultiplier = 1.2
	cfg.Paydays = []int{15}
	s := NewSeasonalAdjuster(cfg)

	// 2025-07-15 is a Tuesday
	start := time.Date(2025, 7, 15, 0, 0, 0, 0, time.UTC)
	end := start.Add(24 * time.Hour)

	assert.InDelta(t, 120.0, s.Adjust(100, start, end), 1e-9)
}

func TestSeasonalAdjustDegenerateWindow(t *testing.T) {
	s := NewSeasonalAdjuster(DefaultCalendarConfig())

	start := time.Date(2025, 6, 7, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, 100.0, s.Adjust(100, start, start))
}

package temporal

import (
	"time"
)

// CalendarConfig drives seasonal adjustment. Multipliers apply in
// proportion to how much of the forecast window each calendar class
// covers; dates are configuration, never hard-coded.
type CalendarConfig struct {
	WeekendMultiplier float64
	HolidayMultiplier float64
	// Holidays are matched by calendar date (year, month, day)
	Holidays []time.Time
	PaydayMultiplier float64
	// Paydays are matched by day of month
	Paydays []int
}

// DefaultCalendarConfig returns the stock calendar tuning
func DefaultCalendarConfig() CalendarConfig {
	return CalendarConfig{
		WeekendMultiplier: 1.3,
		HolidayMultiplier: 1.0,
		PaydayMultiplier:  1.0,
	}
}

// SeasonalAdjuster scales an aggregate expected count by the calendar
// composition of the forecast window
type SeasonalAdjuster struct {
	cfg CalendarConfig
}

// NewSeasonalAdjuster creates an adjuster with the given calendar
func NewSeasonalAdjuster(cfg CalendarConfig) *SeasonalAdjuster {
	if cfg.WeekendMultiplier <= 0 {
		cfg.WeekendMultiplier = DefaultCalendarConfig().WeekendMultiplier
	}
	if cfg.HolidayMultiplier <= 0 {
		cfg.HolidayMultiplier = 1.0
	}
	if cfg.PaydayMultiplier <= 0 {
		cfg.PaydayMultiplier = 1.0
	}
	return &SeasonalAdjuster{cfg: cfg}
}

// Adjust applies every calendar multiplier to the expected count:
// adjusted = expected × Π (1 + (mult−1)·fraction). A degenerate window
// (end not after start) passes the value through unchanged.
func (s *SeasonalAdjuster) Adjust(expected float64, start, end time.Time) float64 {
	adjusted := expected
	adjusted *= 1 + (s.cfg.WeekendMultiplier-1)*s.fraction(start, end, isWeekend)
	adjusted *= 1 + (s.cfg.HolidayMultiplier-1)*s.fraction(start, end, s.isHoliday)
	adjusted *= 1 + (s.cfg.PaydayMultiplier-1)*s.fraction(start, end, s.isPayday)
	return adjusted
}

// fraction is the share of whole hours in [start, end) whose day
// matches the predicate
func (s *SeasonalAdjuster) fraction(start, end time.Time, match func(time.Time) bool) float64 {
	hours := int(end.Sub(start).Hours())
	if hours <= 0 {
		return 0
	}

	matched := 0
	for h := 0; h < hours; h++ {
		if match(start.Add(time.Duration(h) * time.Hour)) {
			matched++
		}
	}
	return float64(matched) / float64(hours)
}

func isWeekend(t time.Time) bool {
	wd := t.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

func (s *SeasonalAdjuster) isHoliday(t time.Time) bool {
	for _, h := range s.cfg.Holidays {
		hy, hm, hd := h.Date()
		ty, tm, td := t.Date()
		if hy == ty && hm == tm && hd == td {
			return true
		}
	}
	return false
}

func (s *SeasonalAdjuster) isPayday(t time.Time) bool {
	for _, d := range s.cfg.Paydays {
		if t.Day() == d {
			return true
		}
	}
	return false
}

package temporal

import (
	"time"

	"github.com/citywatch/rtcc-backend-go/internal/models"
)

// Buckets is an hourly event-count series ending at the reference
// hour. Index 0 is the oldest bucket.
type Buckets struct {
	Start  time.Time // Truncated to the hour
	Counts []float64
}

// HourlyBuckets buckets events into hourly counts from the earliest
// event through the hour containing now. Events after now are ignored
// so forecasts stay deterministic for a fixed reference time.
func HourlyBuckets(events []models.Event, now time.Time) Buckets {
	end := now.Truncate(time.Hour)

	var start time.Time
	first := true
	for _, e := range events {
		if e.OccurredAt.After(now) {
			continue
		}
		h := e.OccurredAt.Truncate(time.Hour)
		if first || h.Before(start) {
			start = h
			first = false
		}
	}
	if first {
		return Buckets{Start: end, Counts: []float64{0}}
	}

	n := int(end.Sub(start)/time.Hour) + 1
	counts := make([]float64, n)
	for _, e := range events {
		if e.OccurredAt.After(now) {
			continue
		}
		idx := int(e.OccurredAt.Truncate(time.Hour).Sub(start) / time.Hour)
		counts[idx]++
	}

	return Buckets{Start: start, Counts: counts}
}

// RecentAverage is the mean count over the last ≤window buckets
func (b Buckets) RecentAverage(window int) float64 {
	counts := b.Counts
	if window > 0 && len(counts) > window {
		counts = counts[len(counts)-window:]
	}
	if len(counts) == 0 {
		return 0
	}
	var sum float64
	for _, c := range counts {
		sum += c
	}
	return sum / float64(len(counts))
}

// PatternMultipliers derives the hour-of-day and day-of-week activity
// multipliers from the full series. A flat or empty series yields all
// 1.0 so the baseline passes through unchanged.
func (b Buckets) PatternMultipliers() (hour [24]float64, dow [7]float64) {
	var hourTotals [24]float64
	var hourBuckets [24]float64
	var dowTotals [7]float64
	var dowBuckets [7]float64
	var total float64

	for i, c := range b.Counts {
		ts := b.Start.Add(time.Duration(i) * time.Hour)
		h := ts.Hour()
		d := int(ts.Weekday())
		hourTotals[h] += c
		hourBuckets[h]++
		dowTotals[d] += c
		dowBuckets[d]++
		total += c
	}

	avgPerBucket := 0.0
	if len(b.Counts) > 0 {
		avgPerBucket = total / float64(len(b.Counts))
	}

	for h := range hour {
		hour[h] = multiplier(hourTotals[h], hourBuckets[h], avgPerBucket)
	}
	for d := range dow {
		dow[d] = multiplier(dowTotals[d], dowBuckets[d], avgPerBucket)
	}
	return hour, dow
}

// multiplier is observed average over the series average, defaulting
// to 1.0 when either denominator is zero
func multiplier(totalCount, bucketCount, avgPerBucket float64) float64 {
	if bucketCount == 0 || avgPerBucket == 0 {
		return 1.0
	}
	return (totalCount / bucketCount) / avgPerBucket
}

// States maps every bucket onto its activity state
func (b Buckets) States() []models.MarkovState {
	states := make([]models.MarkovState, len(b.Counts))
	for i, c := range b.Counts {
		states[i] = models.StateFromCount(int(c))
	}
	return states
}

// CurrentState is the activity state of the most recent bucket
func (b Buckets) CurrentState() models.MarkovState {
	if len(b.Counts) == 0 {
		return models.StateLow
	}
	return models.StateFromCount(int(b.Counts[len(b.Counts)-1]))
}

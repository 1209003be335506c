// sim/schedule.go
package sim

import (
	"math"
	"slices"
	"time"

	"github.com/robfig/cron/v3"
)

// FeedSchedule is the set of times of day (fractional hours in [0, 24)) at
// which a feeding event happens. Membership is exact equality, so the time
// grid must put a sub-step boundary on every scheduled time.
type FeedSchedule struct {
	hours []float64
}

// NewFeedSchedule builds a schedule from hours of day. Duplicates are
// collapsed. An empty schedule is representable but rejected by
// FeedParams.Validate.
func NewFeedSchedule(hours ...float64) (FeedSchedule, error) {
	hs := make([]float64, 0, len(hours))
	for _, h := range hours {
		if math.IsNaN(h) || h < 0 || h >= 24 {
			return FeedSchedule{}, configErrorf("feeding time %v is not an hour of day in [0, 24)", h)
		}
		hs = append(hs, h)
	}
	slices.Sort(hs)
	return FeedSchedule{hours: slices.Compact(hs)}, nil
}

// ParseCronSchedule derives a daily schedule from a standard five-field cron
// expression, e.g. "0 8,12,17 * * *". The expression is evaluated over one
// reference day, so day-of-month and day-of-week fields must not exclude it.
func ParseCronSchedule(expr string) (FeedSchedule, error) {
	sched, err := cron.ParseStandard(expr)
	if err != nil {
		return FeedSchedule{}, configErrorf("feeding cron %q: %v", expr, err)
	}
	day := time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC)
	end := day.Add(24 * time.Hour)

	var hours []float64
	for t := sched.Next(day.Add(-time.Second)); !t.IsZero() && t.Before(end); t = sched.Next(t) {
		hours = append(hours, float64(t.Hour())+float64(t.Minute())/60)
	}
	if len(hours) == 0 {
		return FeedSchedule{}, configErrorf("feeding cron %q does not fire on a daily basis", expr)
	}
	return NewFeedSchedule(hours...)
}

// Len is the number of feeds per day.
func (s FeedSchedule) Len() int { return len(s.hours) }

// Hours returns a copy of the scheduled times of day.
func (s FeedSchedule) Hours() []float64 { return append([]float64(nil), s.hours...) }

// Contains reports whether tod is exactly a scheduled time of day.
func (s FeedSchedule) Contains(tod float64) bool {
	_, found := slices.BinarySearch(s.hours, tod)
	return found
}

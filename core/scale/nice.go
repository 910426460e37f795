package scale

import (
	"math"
	"sort"
	"time"
)

const (
	durationSecond = time.Second
	durationMinute = time.Minute
	durationHour   = time.Hour
	durationDay    = 24 * time.Hour
	durationWeek   = 7 * durationDay
	durationMonth  = 30 * durationDay
	durationYear   = 365 * durationDay
)

// interval is a calendar interval in a fixed location.
type interval struct {
	floor  func(time.Time) time.Time
	offset func(time.Time, int) time.Time
	field  func(time.Time) int
}

// every returns an interval whose boundaries are those of iv where field % step == 0.
func (iv interval) every(step int) interval {
	if step <= 1 || iv.field == nil {
		return iv
	}
	test := func(t time.Time) bool { return iv.field(t)%step == 0 }
	return interval{
		floor: func(t time.Time) time.Time {
			t = iv.floor(t)
			for !test(t) {
				t = iv.floor(t.Add(-time.Millisecond))
			}
			return t
		},
		offset: func(t time.Time, n int) time.Time {
			for ; n > 0; n-- {
				t = iv.offset(t, 1)
				for !test(t) {
					t = iv.offset(t, 1)
				}
			}
			return t
		},
	}
}

// ceil returns the smallest boundary at or after t.
func (iv interval) ceil(t time.Time) time.Time {
	return iv.floor(iv.offset(iv.floor(t.Add(-time.Millisecond)), 1))
}

func addDuration(d time.Duration) func(time.Time, int) time.Time {
	return func(t time.Time, n int) time.Time { return t.Add(time.Duration(n) * d) }
}

func secondInterval(loc *time.Location) interval {
	return interval{
		floor: func(t time.Time) time.Time {
			t = t.In(loc)
			return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), 0, loc)
		},
		offset: addDuration(durationSecond),
		field:  func(t time.Time) int { return t.Second() },
	}
}

func minuteInterval(loc *time.Location) interval {
	return interval{
		floor: func(t time.Time) time.Time {
			t = t.In(loc)
			return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), 0, 0, loc)
		},
		offset: addDuration(durationMinute),
		field:  func(t time.Time) int { return t.In(loc).Minute() },
	}
}

func hourInterval(loc *time.Location) interval {
	return interval{
		floor: func(t time.Time) time.Time {
			t = t.In(loc)
			return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), 0, 0, 0, loc)
		},
		offset: addDuration(durationHour),
		field:  func(t time.Time) int { return t.In(loc).Hour() },
	}
}

func dayFloor(loc *time.Location) func(time.Time) time.Time {
	return func(t time.Time) time.Time {
		t = t.In(loc)
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
	}
}

func dayInterval(loc *time.Location) interval {
	return interval{
		floor:  dayFloor(loc),
		offset: func(t time.Time, n int) time.Time { return t.AddDate(0, 0, n) },
		field:  func(t time.Time) int { return t.In(loc).Day() - 1 },
	}
}

// weekInterval starts weeks on Sunday.
func weekInterval(loc *time.Location) interval {
	floor := dayFloor(loc)
	return interval{
		floor: func(t time.Time) time.Time {
			d := floor(t)
			return d.AddDate(0, 0, -int(d.Weekday()))
		},
		offset: func(t time.Time, n int) time.Time { return t.AddDate(0, 0, 7*n) },
	}
}

func monthInterval(loc *time.Location) interval {
	return interval{
		floor: func(t time.Time) time.Time {
			t = t.In(loc)
			return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, loc)
		},
		offset: func(t time.Time, n int) time.Time { return t.AddDate(0, n, 0) },
		field:  func(t time.Time) int { return int(t.In(loc).Month()) - 1 },
	}
}

// yearInterval steps k years at a time with boundaries on multiples of k.
func yearInterval(loc *time.Location, k int) interval {
	return interval{
		floor: func(t time.Time) time.Time {
			t = t.In(loc)
			y := int(math.Floor(float64(t.Year())/float64(k))) * k
			return time.Date(y, time.January, 1, 0, 0, 0, 0, loc)
		},
		offset: func(t time.Time, n int) time.Time { return t.AddDate(n*k, 0, 0) },
	}
}

// millisecondInterval steps k milliseconds at a time.
func millisecondInterval(loc *time.Location, k float64) interval {
	return interval{
		floor: func(t time.Time) time.Time {
			return fromMillis(math.Floor(millis(t)/k)*k, loc)
		},
		offset: func(t time.Time, n int) time.Time {
			return fromMillis(millis(t)+float64(n)*k, loc)
		},
	}
}

type tickInterval struct {
	base     func(*time.Location) interval
	step     int
	duration time.Duration
}

var tickIntervals = []tickInterval{
	{secondInterval, 1, durationSecond},
	{secondInterval, 5, 5 * durationSecond},
	{secondInterval, 15, 15 * durationSecond},
	{secondInterval, 30, 30 * durationSecond},
	{minuteInterval, 1, durationMinute},
	{minuteInterval, 5, 5 * durationMinute},
	{minuteInterval, 15, 15 * durationMinute},
	{minuteInterval, 30, 30 * durationMinute},
	{hourInterval, 1, durationHour},
	{hourInterval, 3, 3 * durationHour},
	{hourInterval, 6, 6 * durationHour},
	{hourInterval, 12, 12 * durationHour},
	{dayInterval, 1, durationDay},
	{dayInterval, 2, 2 * durationDay},
	{weekInterval, 1, durationWeek},
	{monthInterval, 1, durationMonth},
	{monthInterval, 3, 3 * durationMonth},
	{func(loc *time.Location) interval { return yearInterval(loc, 1) }, 1, durationYear},
}

// chooseInterval picks the calendar interval giving roughly count ticks over [start, stop].
func chooseInterval(start, stop time.Time, count int) interval {
	loc := start.Location()
	span := math.Abs(millis(stop) - millis(start))
	target := span / float64(count)

	i := sort.Search(len(tickIntervals), func(i int) bool {
		return float64(tickIntervals[i].duration.Milliseconds()) > target
	})
	switch i {
	case len(tickIntervals):
		years := tickStep(millis(start)/float64(durationYear.Milliseconds()), millis(stop)/float64(durationYear.Milliseconds()), count)
		return yearInterval(loc, max(int(math.Floor(years)), 1))
	case 0:
		return millisecondInterval(loc, math.Max(math.Floor(tickStep(millis(start), millis(stop), count)), 1))
	}

	prev, next := tickIntervals[i-1], tickIntervals[i]
	chosen := next
	if target/float64(prev.duration.Milliseconds()) < float64(next.duration.Milliseconds())/target {
		chosen = prev
	}
	return chosen.base(loc).every(chosen.step)
}

// tickStep returns a round step of 1, 2 or 5 times a power of ten that splits [start, stop] into about count parts.
func tickStep(start, stop float64, count int) float64 {
	step := math.Abs(stop-start) / float64(count)
	power := math.Floor(math.Log10(step))
	base := math.Pow(10, power)
	err := step / base
	switch {
	case err >= math.Sqrt(50):
		base *= 10
	case err >= math.Sqrt(10):
		base *= 5
	case err >= math.Sqrt(2):
		base *= 2
	}
	return base
}

// NiceTime floors start and ceils stop to the interval chosen for count ticks.
// A reversed domain keeps its orientation and an empty domain is returned unchanged.
func NiceTime(start, stop time.Time, count int) (time.Time, time.Time) {
	if start.Equal(stop) || count <= 0 {
		return start, stop
	}
	reversed := stop.Before(start)
	if reversed {
		start, stop = stop, start
	}
	iv := chooseInterval(start, stop, count)
	lo, hi := iv.floor(start), iv.ceil(stop)
	if reversed {
		return hi, lo
	}
	return lo, hi
}

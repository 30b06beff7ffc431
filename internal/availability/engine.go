// Package availability computes bookable appointment slots from weekly
// availability rules, a service duration and the bookings already on the
// calendar. It does no I/O and keeps no state, so callers may invoke it
// concurrently.
package availability

import (
	"errors"
	"fmt"
	"sort"
	"time"
)

// DisplayLayout renders slot labels in business-local time, e.g. "9:00 AM".
const DisplayLayout = "3:04 PM"

// ZonedDisplayLayout labels slots whose wall clock repeats on a fall-back
// day, e.g. "1:00 AM EDT" and "1:00 AM EST".
const ZonedDisplayLayout = "3:04 PM MST"

var (
	ErrInvalidDuration = errors.New("service duration must be positive")
	ErrInvalidRule     = errors.New("invalid availability rule")
)

// Rule is a recurring weekly open-hours window. Start and End are HH:MM in
// the business's time zone.
type Rule struct {
	DayOfWeek int
	Start     string
	End       string
}

// Interval is a half-open [Start, End) span of absolute time.
type Interval struct {
	Start time.Time
	End   time.Time
}

func (i Interval) Overlaps(o Interval) bool {
	return i.Start.Before(o.End) && o.Start.Before(i.End)
}

type Slot struct {
	Start   time.Time
	End     time.Time
	Display string
}

// Input carries everything one slot computation reads. Busy must only hold
// intervals of bookings that occupy the calendar (pending or confirmed).
type Input struct {
	Date     Date
	Duration time.Duration
	Rules    []Rule
	Busy     []Interval
	Location *time.Location
	Now      time.Time
	LeadTime time.Duration
}

// Compute returns the bookable slots on in.Date ordered by start. An empty
// result is a normal outcome (past date, closed day, fully booked).
func Compute(in Input) ([]Slot, error) {
	if in.Duration <= 0 {
		return nil, ErrInvalidDuration
	}
	loc := in.Location
	if loc == nil {
		loc = time.UTC
	}

	windows, err := windowsFor(in.Date, in.Rules, loc)
	if err != nil {
		return nil, err
	}

	slots := []Slot{}
	if in.Date.Before(DateOf(in.Now.In(loc))) || len(windows) == 0 {
		return slots, nil
	}

	cutoff := in.Now.Add(in.LeadTime)
	seen := make(map[int64]struct{})

	for _, w := range windows {
		for start := w.Start; !start.Add(in.Duration).After(w.End); start = start.Add(in.Duration) {
			key := start.UnixNano()
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}

			candidate := Interval{Start: start, End: start.Add(in.Duration)}
			if !candidate.Start.After(cutoff) {
				continue
			}
			if conflicts(candidate, in.Busy) {
				continue
			}

			slots = append(slots, Slot{
				Start:   candidate.Start,
				End:     candidate.End,
				Display: candidate.Start.In(loc).Format(DisplayLayout),
			})
		}
	}

	sort.Slice(slots, func(i, j int) bool {
		return slots[i].Start.Before(slots[j].Start)
	})
	disambiguate(slots, loc)

	return slots, nil
}

// disambiguate appends the zone abbreviation to every label shared by more
// than one slot so each Display stays unique.
func disambiguate(slots []Slot, loc *time.Location) {
	count := make(map[string]int, len(slots))
	for _, s := range slots {
		count[s.Display]++
	}
	for i := range slots {
		if count[slots[i].Display] > 1 {
			slots[i].Display = slots[i].Start.In(loc).Format(ZonedDisplayLayout)
		}
	}
}

// windowsFor validates every rule and returns the absolute windows of the
// rules that apply to date.
func windowsFor(date Date, rules []Rule, loc *time.Location) ([]Interval, error) {
	weekday := date.Weekday()

	var windows []Interval
	for _, r := range rules {
		start, end, err := ValidateRule(r)
		if err != nil {
			return nil, err
		}
		if r.DayOfWeek != weekday {
			continue
		}
		windows = append(windows, Interval{
			Start: date.At(start, loc),
			End:   date.At(end, loc),
		})
	}
	return windows, nil
}

// ValidateRule checks the day range and that start is before end, and
// returns the parsed clocks.
func ValidateRule(r Rule) (Clock, Clock, error) {
	if r.DayOfWeek < 0 || r.DayOfWeek > 6 {
		return Clock{}, Clock{}, fmt.Errorf("%w: day_of_week %d out of range 0-6", ErrInvalidRule, r.DayOfWeek)
	}
	start, err := ParseClock(r.Start)
	if err != nil {
		return Clock{}, Clock{}, fmt.Errorf("%w: %v", ErrInvalidRule, err)
	}
	end, err := ParseClock(r.End)
	if err != nil {
		return Clock{}, Clock{}, fmt.Errorf("%w: %v", ErrInvalidRule, err)
	}
	if start.Minutes() >= end.Minutes() {
		return Clock{}, Clock{}, fmt.Errorf("%w: start %s must be before end %s", ErrInvalidRule, start, end)
	}
	return start, end, nil
}

func conflicts(candidate Interval, busy []Interval) bool {
	for _, b := range busy {
		if candidate.Overlaps(b) {
			return true
		}
	}
	return false
}

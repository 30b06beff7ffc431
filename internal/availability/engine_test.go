package availability

import (
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var monday = Date{Year: 2026, Month: time.October, Day: 19}

func fixedNow() time.Time {
	return time.Date(2026, time.October, 16, 8, 0, 0, 0, time.UTC)
}

func at(hour, min int) time.Time {
	return time.Date(2026, time.October, 19, hour, min, 0, 0, time.UTC)
}

func baseInput() Input {
	return Input{
		Date:     monday,
		Duration: 30 * time.Minute,
		Rules:    []Rule{{DayOfWeek: 0, Start: "09:00", End: "17:00"}},
		Location: time.UTC,
		Now:      fixedNow(),
	}
}

func TestCompute_WindowProducesSpacedAscendingSlots(t *testing.T) {
	slots, err := Compute(baseInput())
	require.NoError(t, err)
	require.Len(t, slots, 16)

	assert.Equal(t, at(9, 0), slots[0].Start)
	assert.Equal(t, at(16, 30), slots[len(slots)-1].Start)
	assert.Equal(t, at(17, 0), slots[len(slots)-1].End)

	for i, s := range slots {
		assert.Equal(t, 30*time.Minute, s.End.Sub(s.Start))
		assert.False(t, s.Start.Before(at(9, 0)))
		assert.False(t, s.End.After(at(17, 0)))
		if i > 0 {
			assert.Equal(t, slots[i-1].End, s.Start, "slots must not overlap")
			assert.True(t, slots[i-1].Start.Before(s.Start))
		}
	}
	assert.Equal(t, "9:00 AM", slots[0].Display)
	assert.Equal(t, "4:30 PM", slots[15].Display)
}

func TestCompute_NoRuleForWeekdayIsEmpty(t *testing.T) {
	in := baseInput()
	in.Date = monday.AddDays(1)

	slots, err := Compute(in)
	require.NoError(t, err)
	assert.NotNil(t, slots)
	assert.Empty(t, slots)
}

func TestCompute_Idempotent(t *testing.T) {
	in := baseInput()
	in.Busy = []Interval{{Start: at(11, 0), End: at(11, 30)}}

	first, err := Compute(in)
	require.NoError(t, err)
	second, err := Compute(in)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestCompute_ExcludesConfirmedBooking(t *testing.T) {
	in := baseInput()
	in.Busy = []Interval{{Start: at(10, 0), End: at(10, 30)}}

	slots, err := Compute(in)
	require.NoError(t, err)
	require.Len(t, slots, 15)

	starts := startsOf(slots)
	assert.NotContains(t, starts, at(10, 0))
	assert.Contains(t, starts, at(9, 30))
	assert.Contains(t, starts, at(10, 30))
}

func TestCompute_PartialOverlapRemovesBothNeighbours(t *testing.T) {
	in := baseInput()
	in.Busy = []Interval{{Start: at(10, 15), End: at(10, 45)}}

	slots, err := Compute(in)
	require.NoError(t, err)

	starts := startsOf(slots)
	assert.NotContains(t, starts, at(10, 0))
	assert.NotContains(t, starts, at(10, 30))
	assert.Contains(t, starts, at(11, 0))
}

func TestCompute_TrailingPartialWindowUnused(t *testing.T) {
	in := baseInput()
	in.Rules = []Rule{{DayOfWeek: 0, Start: "09:00", End: "09:50"}}

	slots, err := Compute(in)
	require.NoError(t, err)
	require.Len(t, slots, 1)
	assert.Equal(t, at(9, 0), slots[0].Start)
	assert.Equal(t, at(9, 30), slots[0].End)
}

func TestCompute_PastDateIsEmpty(t *testing.T) {
	in := baseInput()
	in.Date = DateOf(fixedNow()).AddDays(-1)
	in.Rules = []Rule{{DayOfWeek: in.Date.Weekday(), Start: "09:00", End: "17:00"}}

	slots, err := Compute(in)
	require.NoError(t, err)
	assert.Empty(t, slots)
}

func TestCompute_OverlappingRulesCollapseSameStart(t *testing.T) {
	in := baseInput()
	in.Duration = time.Hour
	in.Rules = []Rule{
		{DayOfWeek: 0, Start: "09:00", End: "11:00"},
		{DayOfWeek: 0, Start: "10:00", End: "12:00"},
	}

	slots, err := Compute(in)
	require.NoError(t, err)
	assert.Equal(t, []time.Time{at(9, 0), at(10, 0), at(11, 0)}, startsOf(slots))
}

func TestCompute_LeadTimeAndStrictlyFuture(t *testing.T) {
	in := baseInput()
	in.Now = at(9, 0)

	slots, err := Compute(in)
	require.NoError(t, err)
	assert.Equal(t, at(9, 30), slots[0].Start, "a slot starting exactly now is not offered")

	in.Now = at(9, 40)
	in.LeadTime = 30 * time.Minute
	slots, err = Compute(in)
	require.NoError(t, err)
	assert.Equal(t, at(10, 30), slots[0].Start)
}

func TestCompute_RuleTimesUseBusinessTimezone(t *testing.T) {
	tokyo, err := time.LoadLocation("Asia/Tokyo")
	require.NoError(t, err)

	in := baseInput()
	in.Location = tokyo
	in.Rules = []Rule{{DayOfWeek: 0, Start: "09:00", End: "10:00"}}

	slots, err := Compute(in)
	require.NoError(t, err)
	require.Len(t, slots, 2)
	assert.True(t, slots[0].Start.Equal(time.Date(2026, time.October, 19, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "9:00 AM", slots[0].Display)
}

func TestCompute_SpringForwardDay(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	sunday := Date{Year: 2026, Month: time.March, Day: 8}
	require.Equal(t, 6, sunday.Weekday())

	slots, err := Compute(Input{
		Date:     sunday,
		Duration: time.Hour,
		Rules:    []Rule{{DayOfWeek: 6, Start: "01:00", End: "05:00"}},
		Location: ny,
		Now:      time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	require.Len(t, slots, 3)
	assert.Equal(t, []string{"1:00 AM", "3:00 AM", "4:00 AM"}, displaysOf(slots))

	labels := map[string]bool{}
	for i, s := range slots {
		assert.False(t, labels[s.Display], "duplicate wall clock slot %s", s.Display)
		labels[s.Display] = true
		if i > 0 {
			assert.True(t, slots[i-1].Start.Before(s.Start))
			assert.False(t, slots[i-1].End.After(s.Start))
		}
	}
}

func TestCompute_FallBackDayStaysStrictlyIncreasing(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	sunday := Date{Year: 2026, Month: time.November, Day: 1}

	slots, err := Compute(Input{
		Date:     sunday,
		Duration: time.Hour,
		Rules:    []Rule{{DayOfWeek: 6, Start: "00:00", End: "03:00"}},
		Location: ny,
		Now:      time.Date(2026, time.October, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	require.Len(t, slots, 4)
	for i := 1; i < len(slots); i++ {
		assert.Equal(t, time.Hour, slots[i].Start.Sub(slots[i-1].Start))
	}
}

func TestCompute_FallBackDayLabelsRepeatedHourWithZone(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	slots, err := Compute(Input{
		Date:     Date{Year: 2026, Month: time.November, Day: 1},
		Duration: time.Hour,
		Rules:    []Rule{{DayOfWeek: 6, Start: "00:00", End: "03:00"}},
		Location: ny,
		Now:      time.Date(2026, time.October, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"12:00 AM", "1:00 AM EDT", "1:00 AM EST", "2:00 AM"}, displaysOf(slots))
}

func TestCompute_InvalidInput(t *testing.T) {
	in := baseInput()
	in.Duration = 0
	_, err := Compute(in)
	assert.ErrorIs(t, err, ErrInvalidDuration)

	in = baseInput()
	in.Rules = []Rule{{DayOfWeek: 0, Start: "17:00", End: "09:00"}}
	_, err = Compute(in)
	assert.ErrorIs(t, err, ErrInvalidRule)

	in.Rules = []Rule{{DayOfWeek: 7, Start: "09:00", End: "10:00"}}
	_, err = Compute(in)
	assert.ErrorIs(t, err, ErrInvalidRule)
}

func TestDateHelpers(t *testing.T) {
	d, err := ParseDate("2026-10-19")
	require.NoError(t, err)
	assert.Equal(t, monday, d)
	assert.Equal(t, 0, d.Weekday())
	assert.Equal(t, "2026-10-19", d.String())
	assert.True(t, d.Before(d.AddDays(1)))

	_, err = ParseDate("19/10/2026")
	assert.Error(t, err)

	c, err := ParseClock("24:00")
	require.NoError(t, err)
	assert.Equal(t, 1440, c.Minutes())

	for _, bad := range []string{"9:00", "25:00", "12:60", "ab:cd", "24:30"} {
		_, err := ParseClock(bad)
		assert.Error(t, err, bad)
	}
}

func startsOf(slots []Slot) []time.Time {
	out := make([]time.Time, len(slots))
	for i, s := range slots {
		out[i] = s.Start
	}
	return out
}

func displaysOf(slots []Slot) []string {
	out := make([]string, len(slots))
	for i, s := range slots {
		out[i] = s.Display
	}
	return out
}

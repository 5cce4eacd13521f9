package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDayKeyNormalizesToUTC(t *testing.T) {
	zone := time.FixedZone("UTC+11", 11*60*60)
	// 2025-03-01 03:00 in UTC+11 is still 2025-02-28 in UTC.
	local := time.Date(2025, 3, 1, 3, 0, 0, 0, zone)

	assert.Equal(t, DayKey("2025-02-28"), NewDayKey(local))
	assert.Equal(t, NewDayKey(local.UTC()), NewDayKey(local))
}

func TestParseDayKey(t *testing.T) {
	key, err := ParseDayKey("2025-06-09")
	require.NoError(t, err)
	assert.Equal(t, DayKey("2025-06-09"), key)

	for _, invalid := range []string{"", "2025-6-9", "2025-06-09T00:00:00Z", "09-06-2025", "2025-13-01", "garbage"} {
		_, err := ParseDayKey(invalid)
		assert.Error(t, err, "expected %q to be rejected", invalid)
	}
}

func TestExpandRangeSingleDay(t *testing.T) {
	day := time.Date(2025, 6, 9, 15, 30, 0, 0, time.UTC)

	days := ExpandRange(day, day)
	assert.Equal(t, []DayKey{"2025-06-09"}, days)
}

func TestExpandRangeOrderIndependent(t *testing.T) {
	a := time.Date(2025, 6, 9, 0, 0, 0, 0, time.UTC)
	b := time.Date(2025, 6, 12, 0, 0, 0, 0, time.UTC)

	forward := ExpandRange(a, b)
	backward := ExpandRange(b, a)

	assert.Equal(t, forward, backward)
	assert.Equal(t, []DayKey{"2025-06-09", "2025-06-10", "2025-06-11", "2025-06-12"}, forward)
}

func TestExpandRangeAscendingNoGaps(t *testing.T) {
	a := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	b := time.Date(2025, 2, 15, 0, 0, 0, 0, time.UTC)

	days := ExpandRange(a, b)
	require.Len(t, days, 46)
	for i := 1; i < len(days); i++ {
		prev := days[i-1].Time()
		assert.Equal(t, prev.AddDate(0, 0, 1), days[i].Time())
	}
}

func TestExpandRangeCrossesMonthAndYearBoundaries(t *testing.T) {
	days := ExpandRange(
		time.Date(2024, 12, 30, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC),
	)
	assert.Equal(t, []DayKey{"2024-12-30", "2024-12-31", "2025-01-01", "2025-01-02"}, days)
}

func TestExpandRangeLeapDay(t *testing.T) {
	days := ExpandRange(
		time.Date(2024, 2, 28, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
	)
	assert.Equal(t, []DayKey{"2024-02-28", "2024-02-29", "2024-03-01"}, days)
}

func TestExpandRangeIgnoresTimeOfDay(t *testing.T) {
	a := time.Date(2025, 6, 9, 23, 59, 59, 0, time.UTC)
	b := time.Date(2025, 6, 10, 0, 0, 1, 0, time.UTC)

	assert.Equal(t, []DayKey{"2025-06-09", "2025-06-10"}, ExpandRange(a, b))
}

package booking

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestExpandDates_All(t *testing.T) {
	dates, err := ExpandDates("2030-04-01", "2030-04-03", DaysAll)
	require.NoError(t, err)
	require.Equal(t, []string{"2030-04-01", "2030-04-02", "2030-04-03"}, dates)
}

func TestExpandDates_SingleDay(t *testing.T) {
	dates, err := ExpandDates("2030-04-01", "2030-04-01", DaysAll)
	require.NoError(t, err)
	require.Equal(t, []string{"2030-04-01"}, dates)
}

func TestExpandDates_Workdays(t *testing.T) {
	// Fri 05 .. Mon 08: the weekend drops out
	dates, err := ExpandDates("2030-04-05", "2030-04-08", DaysWorkdays)
	require.NoError(t, err)
	require.Equal(t, []string{"2030-04-05", "2030-04-08"}, dates)
}

func TestExpandDates_Weekends(t *testing.T) {
	dates, err := ExpandDates("2030-04-05", "2030-04-08", DaysWeekends)
	require.NoError(t, err)
	require.Equal(t, []string{"2030-04-06", "2030-04-07"}, dates)
}

func TestExpandDates_InvalidInput(t *testing.T) {
	_, err := ExpandDates("01.04.2030", "2030-04-03", DaysAll)
	require.Error(t, err)

	_, err = ExpandDates("2030-04-03", "2030-04-01", DaysAll)
	require.Error(t, err)
}

func TestMinutesOfDay(t *testing.T) {
	m, err := MinutesOfDay("00:00")
	require.NoError(t, err)
	require.Zero(t, m)

	m, err = MinutesOfDay("10:30")
	require.NoError(t, err)
	require.Equal(t, 630, m)

	_, err = MinutesOfDay("25:00")
	require.Error(t, err)
}

func TestTooClose(t *testing.T) {
	existing := []string{"10:00", "14:00"}

	require.True(t, TooClose(existing, "10:00", 5))
	require.True(t, TooClose(existing, "10:04", 5))
	require.True(t, TooClose(existing, "13:56", 5))
	require.False(t, TooClose(existing, "10:05", 5))
	require.False(t, TooClose(existing, "12:00", 5))
}

func TestTooClose_CustomGap(t *testing.T) {
	existing := []string{"10:00"}

	require.True(t, TooClose(existing, "10:25", 30))
	require.False(t, TooClose(existing, "10:30", 30))
}

func TestTooClose_NoExisting(t *testing.T) {
	require.False(t, TooClose(nil, "10:00", 5))
}

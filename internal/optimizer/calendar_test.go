package optimizer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWeekStartOf(t *testing.T) {
	// 2024-01-10 は水曜日なので、その週の開始日は 2024-01-07（日曜日）
	date := time.Date(2024, 1, 10, 15, 30, 0, 0, time.Local)
	weekStart := WeekStartOf(date)

	assert.Equal(t, "2024-01-07", ToDateKey(weekStart))
	assert.Equal(t, time.Sunday, weekStart.Weekday())

	// 日曜日自身はそのまま週の開始日になる
	sunday := time.Date(2024, 1, 7, 0, 0, 0, 0, time.Local)
	assert.Equal(t, "2024-01-07", ToDateKey(WeekStartOf(sunday)))
}

func TestWeekDates(t *testing.T) {
	weekStart, err := ParseDateKey("2024-01-07")
	require.NoError(t, err)

	dates := WeekDates(weekStart)
	require.Len(t, dates, 7)

	expected := []string{
		"2024-01-07", "2024-01-08", "2024-01-09", "2024-01-10",
		"2024-01-11", "2024-01-12", "2024-01-13",
	}
	for i, date := range dates {
		assert.Equal(t, expected[i], ToDateKey(date))
	}
}

func TestWeekDatesCrossesMonthBoundary(t *testing.T) {
	weekStart, err := ParseDateKey("2024-01-28")
	require.NoError(t, err)

	dates := WeekDates(weekStart)
	require.Len(t, dates, 7)
	assert.Equal(t, "2024-01-31", ToDateKey(dates[3]))
	assert.Equal(t, "2024-02-01", ToDateKey(dates[4]))
	assert.Equal(t, "2024-02-03", ToDateKey(dates[6]))
}

func TestParseDateKeyInvalid(t *testing.T) {
	_, err := ParseDateKey("2024/01/07")
	assert.Error(t, err)

	_, err = ParseDateKey("invalid")
	assert.Error(t, err)
}

func TestFormatDateForDisplay(t *testing.T) {
	date := time.Date(2024, 1, 7, 0, 0, 0, 0, time.Local)
	assert.Equal(t, "1/7(日)", FormatDateForDisplay(date))
}

func TestFormatWeekRange(t *testing.T) {
	sameMonth := time.Date(2024, 1, 7, 0, 0, 0, 0, time.Local)
	assert.Equal(t, "1月7日～13日", FormatWeekRange(sameMonth))

	crossMonth := time.Date(2024, 1, 28, 0, 0, 0, 0, time.Local)
	assert.Equal(t, "1月28日～2月3日", FormatWeekRange(crossMonth))
}

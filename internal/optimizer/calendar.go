package optimizer

import (
	"fmt"
	"time"
)

const dateKeyLayout = "2006-01-02"

// 週の開始曜日（日曜日始まり）
const weekStartDay = time.Sunday

// WeekStartOf は指定した日付を含む週の開始日（日曜日）を返す
func WeekStartOf(date time.Time) time.Time {
	diff := int(date.Weekday() - weekStartDay)
	start := date.AddDate(0, 0, -diff)
	return time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, start.Location())
}

// WeekDates は週の開始日から 7 日分の日付を順に返す
func WeekDates(weekStart time.Time) []time.Time {
	dates := make([]time.Time, 0, 7)
	for i := 0; i < 7; i++ {
		dates = append(dates, weekStart.AddDate(0, 0, i))
	}
	return dates
}

// ToDateKey は日付を YYYY-MM-DD 形式の文字列に変換する。
// タイムゾーン変換は行わず、渡された日付のカレンダー上のフィールドをそのまま使う
func ToDateKey(date time.Time) string {
	return date.Format(dateKeyLayout)
}

// ParseDateKey は YYYY-MM-DD 形式の文字列を日付に変換する
func ParseDateKey(dateKey string) (time.Time, error) {
	return time.Parse(dateKeyLayout, dateKey)
}

// FormatDateForDisplay は日付を「M/D(曜)」形式の表示用文字列に変換する
func FormatDateForDisplay(date time.Time) string {
	weekdays := []string{"日", "月", "火", "水", "木", "金", "土"}
	return fmt.Sprintf("%d/%d(%s)", int(date.Month()), date.Day(), weekdays[date.Weekday()])
}

// FormatWeekRange は週の範囲を「M月D日～D日」形式の表示用文字列に変換する
func FormatWeekRange(weekStart time.Time) string {
	weekEnd := weekStart.AddDate(0, 0, 6)

	if weekStart.Month() == weekEnd.Month() {
		return fmt.Sprintf("%d月%d日～%d日", int(weekStart.Month()), weekStart.Day(), weekEnd.Day())
	}
	return fmt.Sprintf("%d月%d日～%d月%d日", int(weekStart.Month()), weekStart.Day(), int(weekEnd.Month()), weekEnd.Day())
}

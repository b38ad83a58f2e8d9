package utils

import (
	"fmt"

	"github.com/meiwakai-dev/shift-optimizer/backend/internal/domain"
	"github.com/meiwakai-dev/shift-optimizer/backend/internal/optimizer"
)

// ValidateAssignmentsMatchWeek は配置が週の開始日から 7 日分を順番どおりに
// 過不足なく覆っているかを検証する
func ValidateAssignmentsMatchWeek(assignments []domain.ShiftAssignment, weekStartDate string) error {
	weekStart, err := optimizer.ParseDateKey(weekStartDate)
	if err != nil {
		return fmt.Errorf("週の開始日の形式が正しくありません (YYYY-MM-DD)")
	}

	if len(assignments) != 7 {
		return fmt.Errorf("配置は 7 日分である必要があります (現在 %d 日分)", len(assignments))
	}

	for i, date := range optimizer.WeekDates(weekStart) {
		expected := optimizer.ToDateKey(date)
		if assignments[i].Date != expected {
			return fmt.Errorf("%d 日目の日付が %s ではありません", i+1, expected)
		}
	}

	return nil
}

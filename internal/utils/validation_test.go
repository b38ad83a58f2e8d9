package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/meiwakai-dev/shift-optimizer/backend/internal/domain"
)

func weekAssignments(dates ...string) []domain.ShiftAssignment {
	assignments := make([]domain.ShiftAssignment, 0, len(dates))
	for _, date := range dates {
		assignments = append(assignments, domain.ShiftAssignment{Date: date})
	}
	return assignments
}

func TestValidateAssignmentsMatchWeek(t *testing.T) {
	valid := weekAssignments(
		"2024-01-07", "2024-01-08", "2024-01-09", "2024-01-10",
		"2024-01-11", "2024-01-12", "2024-01-13",
	)

	assert.NoError(t, ValidateAssignmentsMatchWeek(valid, "2024-01-07"))

	// 日付の形式が不正
	assert.Error(t, ValidateAssignmentsMatchWeek(valid, "2024/01/07"))

	// 日数が足りない
	assert.Error(t, ValidateAssignmentsMatchWeek(valid[:6], "2024-01-07"))

	// 週の開始日とずれている
	assert.Error(t, ValidateAssignmentsMatchWeek(valid, "2024-01-14"))

	// 途中の日付が入れ替わっている
	swapped := weekAssignments(
		"2024-01-07", "2024-01-09", "2024-01-08", "2024-01-10",
		"2024-01-11", "2024-01-12", "2024-01-13",
	)
	assert.Error(t, ValidateAssignmentsMatchWeek(swapped, "2024-01-07"))
}

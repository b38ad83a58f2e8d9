package optimizer

import (
	"math"

	"github.com/meiwakai-dev/shift-optimizer/backend/internal/domain"
)

// TotalAssignments はシフト表全体の総配置数を返す
func TotalAssignments(shift *domain.WeeklyShift) int {
	total := 0
	for _, assignment := range shift.Assignments {
		for _, shiftType := range domain.ShiftOrder {
			total += len(assignment.Shifts.ForShift(shiftType))
		}
	}
	return total
}

// RequiredStaff はシフト表全体で必要となる延べ人数を返す
func RequiredStaff(shift *domain.WeeklyShift) int {
	perDay := 0
	for _, required := range domain.RequiredStaffCount {
		perDay += required
	}
	return perDay * len(shift.Assignments)
}

// UnassignedSlots は未配置の枠数を返す
func UnassignedSlots(shift *domain.WeeklyShift) int {
	return max(0, RequiredStaff(shift)-TotalAssignments(shift))
}

// AssignmentRate は配置率（0〜100 のパーセント、四捨五入）を返す
func AssignmentRate(shift *domain.WeeklyShift) int {
	required := RequiredStaff(shift)
	if required == 0 {
		return 0
	}
	return int(math.Round(float64(TotalAssignments(shift)) / float64(required) * 100))
}

// PeriodAssignments は指定シフト区分の配置数を返す
func PeriodAssignments(shift *domain.WeeklyShift, shiftType domain.ShiftType) int {
	total := 0
	for _, assignment := range shift.Assignments {
		total += len(assignment.Shifts.ForShift(shiftType))
	}
	return total
}

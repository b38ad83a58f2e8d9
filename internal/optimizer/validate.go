package optimizer

import (
	"fmt"
	"slices"

	"github.com/meiwakai-dev/shift-optimizer/backend/internal/domain"
)

var shiftRuleNames = map[domain.ShiftType]string{
	domain.ShiftDay:     "日勤最低人数",
	domain.ShiftEvening: "準夜最低人数",
	domain.ShiftNight:   "深夜最低人数",
}

// Validate はシフト表を検証し、制約違反の一覧を返す。
// このエンジンが生成したものに限らず、任意のシフト表に対して使える。
// roster は休み希望チェックでスタッフ ID を解決するために必要。
// 日付順に、人数チェック（日勤・準夜・深夜）、休み希望チェックの順で違反を列挙する
func Validate(shift *domain.WeeklyShift, roster []*domain.Staff) []domain.ConstraintViolation {
	violations := []domain.ConstraintViolation{}

	for _, assignment := range shift.Assignments {
		// 最低人数チェック
		for _, shiftType := range domain.ShiftOrder {
			assigned := assignment.Shifts.ForShift(shiftType)
			required := domain.RequiredStaffCount[shiftType]

			if len(assigned) < required {
				violations = append(violations, domain.ConstraintViolation{
					Type:          domain.ViolationBasic,
					Rule:          shiftRuleNames[shiftType],
					Severity:      domain.SeverityError,
					AffectedStaff: []string{},
					AffectedDates: []string{assignment.Date},
					Message:       fmt.Sprintf("%sの人数が不足しています (%d/%d)", domain.ShiftTimes[shiftType].Label, len(assigned), required),
				})
			}
		}

		// 休み希望違反チェック。日勤・準夜・深夜の順に連結した並びで走査する
		allAssigned := make([]string, 0, len(assignment.Shifts.Day)+len(assignment.Shifts.Evening)+len(assignment.Shifts.Night))
		allAssigned = append(allAssigned, assignment.Shifts.Day...)
		allAssigned = append(allAssigned, assignment.Shifts.Evening...)
		allAssigned = append(allAssigned, assignment.Shifts.Night...)

		for _, staffID := range allAssigned {
			staff := findStaff(roster, staffID)
			if staff == nil {
				// roster に存在しない ID は違反とせず読み飛ばす
				continue
			}

			if slices.Contains(staff.UnavailableDates, assignment.Date) {
				violations = append(violations, domain.ConstraintViolation{
					Type:          domain.ViolationBasic,
					Rule:          "休み希望違反",
					Severity:      domain.SeverityError,
					AffectedStaff: []string{staffID},
					AffectedDates: []string{assignment.Date},
					Message:       fmt.Sprintf("%sさんの休み希望日に配置されています", staff.Name),
				})
			}
		}
	}

	return violations
}

func findStaff(roster []*domain.Staff, id string) *domain.Staff {
	for _, staff := range roster {
		if staff.ID == id {
			return staff
		}
	}
	return nil
}

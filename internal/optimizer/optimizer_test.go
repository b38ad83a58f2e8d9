package optimizer

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meiwakai-dev/shift-optimizer/backend/internal/domain"
)

func TestBuildBasicAssignmentInvalidWeekStart(t *testing.T) {
	_, err := BuildBasicAssignment([]*domain.Staff{}, "not-a-date")
	assert.Error(t, err)
}

func TestBuildBasicAssignmentEmptyRoster(t *testing.T) {
	shift, err := BuildBasicAssignment([]*domain.Staff{}, "2024-01-07")
	require.NoError(t, err)

	// 空のロスターでもエラーにはならず、全枠が空のシフト表になる
	require.Len(t, shift.Assignments, 7)
	for _, assignment := range shift.Assignments {
		assert.Empty(t, assignment.Shifts.Day)
		assert.Empty(t, assignment.Shifts.Evening)
		assert.Empty(t, assignment.Shifts.Night)
	}

	assert.Equal(t, domain.ShiftStatusOptimizing, shift.Status)
	require.Len(t, shift.OptimizationHistory, 1)
	assert.Equal(t, domain.PhaseBasic, shift.OptimizationHistory[0].Phase)
	assert.Equal(t, 0, shift.OptimizationHistory[0].Score)
	assert.Empty(t, shift.OptimizationHistory[0].Violations)
}

func TestRunOptimizationWeekStructure(t *testing.T) {
	roster := []*domain.Staff{
		newTestStaff("s1", "あおい", domain.ExperienceMid, allShifts()),
	}

	shift, err := RunOptimization(roster, "2024-01-07")
	require.NoError(t, err)

	require.Len(t, shift.Assignments, 7)
	expected := []string{
		"2024-01-07", "2024-01-08", "2024-01-09", "2024-01-10",
		"2024-01-11", "2024-01-12", "2024-01-13",
	}
	for i, assignment := range shift.Assignments {
		assert.Equal(t, expected[i], assignment.Date)
	}

	assert.Equal(t, "2024-01-07", shift.WeekStartDate)
	assert.Equal(t, "optimization-engine", shift.CreatedBy)
	assert.NotEmpty(t, shift.ID)
}

func TestRunOptimizationHistoryHasTwoSteps(t *testing.T) {
	roster := []*domain.Staff{
		newTestStaff("s1", "あおい", domain.ExperienceMid, allShifts()),
	}

	shift, err := RunOptimization(roster, "2024-01-07")
	require.NoError(t, err)

	require.Len(t, shift.OptimizationHistory, 2)

	basic := shift.OptimizationHistory[0]
	assert.Equal(t, domain.PhaseBasic, basic.Phase)
	assert.Equal(t, 0, basic.Score)
	assert.Empty(t, basic.Violations)
	assert.Empty(t, basic.Changes)

	constraint := shift.OptimizationHistory[1]
	assert.Equal(t, domain.PhaseConstraint, constraint.Phase)
	assert.Empty(t, constraint.Changes)
	// 1 名だけのロスターでは全ての日で人数不足になる
	assert.Equal(t, 0, constraint.Score)
	assert.NotEmpty(t, constraint.Violations)
}

func TestApplyConstraintOptimizationDoesNotMutateDraft(t *testing.T) {
	roster := []*domain.Staff{
		newTestStaff("s1", "あおい", domain.ExperienceMid, allShifts()),
	}

	draft, err := BuildBasicAssignment(roster, "2024-01-07")
	require.NoError(t, err)

	optimized := ApplyConstraintOptimization(draft, roster, DefaultAdjustmentRules)

	// 履歴はコピーに追記され、元のドラフトは変化しない
	assert.Len(t, draft.OptimizationHistory, 1)
	assert.Len(t, optimized.OptimizationHistory, 2)
	assert.Equal(t, draft.Status, optimized.Status)
}

// 履歴にステップを追記する調整ルール
type historyAppendingRule struct {
	reason string
}

func (historyAppendingRule) Name() string { return "履歴追記" }

func (r historyAppendingRule) Apply(shift *domain.WeeklyShift, roster []*domain.Staff) *domain.WeeklyShift {
	adjusted := *shift
	adjusted.OptimizationHistory = append(
		append([]domain.OptimizationStep{}, shift.OptimizationHistory...),
		domain.OptimizationStep{
			Phase:      domain.PhaseConstraint,
			Timestamp:  time.Now(),
			Changes:    []domain.ShiftChange{{Date: "2024-01-07", Shift: domain.ShiftDay, Reason: r.reason}},
			Violations: []domain.ConstraintViolation{},
		},
	)
	return &adjusted
}

func TestApplyConstraintOptimizationKeepsRuleHistory(t *testing.T) {
	roster := []*domain.Staff{
		newTestStaff("s1", "あおい", domain.ExperienceMid, allShifts()),
	}

	draft, err := BuildBasicAssignment(roster, "2024-01-07")
	require.NoError(t, err)

	rules := []AdjustmentRule{historyAppendingRule{reason: "振り替え"}}
	optimized := ApplyConstraintOptimization(draft, roster, rules)

	// basic、ルールが追記したステップ、最終の constraint ステップの順に残る
	require.Len(t, optimized.OptimizationHistory, 3)
	assert.Equal(t, domain.PhaseBasic, optimized.OptimizationHistory[0].Phase)
	require.Len(t, optimized.OptimizationHistory[1].Changes, 1)
	assert.Equal(t, "振り替え", optimized.OptimizationHistory[1].Changes[0].Reason)
	assert.Equal(t, domain.PhaseConstraint, optimized.OptimizationHistory[2].Phase)

	// 元のドラフトの履歴は変化しない
	assert.Len(t, draft.OptimizationHistory, 1)
}

func TestRunOptimizationExcludesInactiveStaff(t *testing.T) {
	inactive := newTestStaff("s9", "やまだ", domain.ExperienceSenior, allShifts())
	inactive.IsActive = false

	roster := []*domain.Staff{
		newTestStaff("s1", "あおい", domain.ExperienceMid, allShifts()),
		inactive,
	}

	shift, err := RunOptimization(roster, "2024-01-07")
	require.NoError(t, err)

	for _, assignment := range shift.Assignments {
		for _, shiftType := range domain.ShiftOrder {
			assert.NotContains(t, assignment.Shifts.ForShift(shiftType), "s9")
		}
	}
}

// 日勤のみ 6 名のロスター: 日勤は毎日 6 名、準夜・深夜は毎日人数不足で
// 週あたり 14 件の違反、スコアは 0 になる
func TestRunOptimizationDayOnlyRoster(t *testing.T) {
	roster := make([]*domain.Staff, 0, 6)
	for i := 0; i < 6; i++ {
		roster = append(roster, newTestStaff(
			fmt.Sprintf("s%d", i+1),
			fmt.Sprintf("すたっふ%d", i+1),
			domain.ExperienceMid,
			[]domain.ShiftType{domain.ShiftDay},
		))
	}

	shift, err := RunOptimization(roster, "2024-01-07")
	require.NoError(t, err)

	for _, assignment := range shift.Assignments {
		assert.Len(t, assignment.Shifts.Day, 6)
		assert.Empty(t, assignment.Shifts.Evening)
		assert.Empty(t, assignment.Shifts.Night)
	}

	violations := Validate(shift, roster)
	assert.Len(t, violations, 14)
	assert.Equal(t, 0, Score(violations))
}

// 全区分勤務可能な 8 名のロスター: 経験レベルの高い順・名前順の序列で
// 日勤に 6 名、準夜・深夜に各 2 名が入り、違反は発生しない。
// 選出は区分ごとに独立なので、上位のスタッフは同じ日の複数の区分に現れる
func TestRunOptimizationFullRoster(t *testing.T) {
	roster := []*domain.Staff{
		newTestStaff("s5", "おおた", domain.ExperienceMid, allShifts()),
		newTestStaff("s2", "いとう", domain.ExperienceSenior, allShifts()),
		newTestStaff("s7", "きむら", domain.ExperienceJunior, allShifts()),
		newTestStaff("s1", "あべ", domain.ExperienceSenior, allShifts()),
		newTestStaff("s4", "えんどう", domain.ExperienceMid, allShifts()),
		newTestStaff("s8", "くどう", domain.ExperienceJunior, allShifts()),
		newTestStaff("s3", "うえだ", domain.ExperienceMid, allShifts()),
		newTestStaff("s6", "かとう", domain.ExperienceJunior, allShifts()),
	}

	shift, err := RunOptimization(roster, "2024-01-07")
	require.NoError(t, err)

	for _, assignment := range shift.Assignments {
		assert.Equal(t, []string{"s1", "s2", "s3", "s4", "s5", "s6"}, assignment.Shifts.Day)
		assert.Equal(t, []string{"s1", "s2"}, assignment.Shifts.Evening)
		assert.Equal(t, []string{"s1", "s2"}, assignment.Shifts.Night)
	}

	violations := Validate(shift, roster)
	assert.Empty(t, violations)
	assert.Equal(t, 100, ComputeScore(shift, roster))
}

func TestRunOptimizationRespectsUnavailableDates(t *testing.T) {
	roster := []*domain.Staff{
		newTestStaff("s1", "あおい", domain.ExperienceSenior, allShifts(), "2024-01-08"),
		newTestStaff("s2", "かえで", domain.ExperienceMid, allShifts()),
	}

	shift, err := RunOptimization(roster, "2024-01-07")
	require.NoError(t, err)

	for _, assignment := range shift.Assignments {
		for _, shiftType := range domain.ShiftOrder {
			assigned := assignment.Shifts.ForShift(shiftType)
			if assignment.Date == "2024-01-08" {
				assert.NotContains(t, assigned, "s1")
			} else {
				assert.Contains(t, assigned, "s1")
			}
		}
	}
}

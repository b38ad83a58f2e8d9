package optimizer

import (
	"fmt"
	"time"

	"github.com/meiwakai-dev/shift-optimizer/backend/internal/domain"
)

// シフト最適化エンジン。
// 1 回の呼び出しは (roster, weekStartDate) から WeeklyShift への純粋な計算であり、
// 呼び出し間で共有される状態は持たない。
//
// 既知の制限: 配置はシフト区分ごとに独立して行われるため、同じスタッフが
// 同日の複数の区分に選出されうる。

// AdjustmentRule は Phase 2 の調整ルール。ドラフトのシフト表を受け取り、
// 調整後のシフト表を返す
type AdjustmentRule interface {
	Name() string
	Apply(shift *domain.WeeklyShift, roster []*domain.Staff) *domain.WeeklyShift
}

// 連勤制限ルール
type consecutiveWorkdaysRule struct{}

func (consecutiveWorkdaysRule) Name() string { return "連勤制限" }

func (consecutiveWorkdaysRule) Apply(shift *domain.WeeklyShift, roster []*domain.Staff) *domain.WeeklyShift {
	// TODO: 連勤日数の上限を超えたスタッフを他の日に振り替える
	return shift
}

// 経験レベルバランスルール
type experienceBalanceRule struct{}

func (experienceBalanceRule) Name() string { return "経験レベルバランス" }

func (experienceBalanceRule) Apply(shift *domain.WeeklyShift, roster []*domain.Staff) *domain.WeeklyShift {
	// TODO: 各シフトに最低 1 名のシニアレベルを配置する
	return shift
}

// DefaultAdjustmentRules は Phase 2 で適用する調整ルールの既定セット
var DefaultAdjustmentRules = []AdjustmentRule{
	consecutiveWorkdaysRule{},
	experienceBalanceRule{},
}

// ActiveStaff は在職中のスタッフのみを抽出する
func ActiveStaff(roster []*domain.Staff) []*domain.Staff {
	active := make([]*domain.Staff, 0, len(roster))
	for _, staff := range roster {
		if staff.IsActive {
			active = append(active, staff)
		}
	}
	return active
}

// BuildBasicAssignment は Phase 1 の基本配置を行う。
// 週の 7 日それぞれについて、シフト区分ごとに配置可能なスタッフを抽出し、
// 必要人数分を選出して 1 週間分のシフト表を組み立てる
func BuildBasicAssignment(roster []*domain.Staff, weekStartDate string) (*domain.WeeklyShift, error) {
	weekStart, err := ParseDateKey(weekStartDate)
	if err != nil {
		return nil, fmt.Errorf("週の開始日の形式が正しくありません: %w", err)
	}

	assignments := make([]domain.ShiftAssignment, 0, 7)
	for _, date := range WeekDates(weekStart) {
		dateKey := ToDateKey(date)

		assignments = append(assignments, domain.ShiftAssignment{
			Date: dateKey,
			Shifts: domain.DayShifts{
				Day:     assignShift(roster, domain.ShiftDay, dateKey),
				Evening: assignShift(roster, domain.ShiftEvening, dateKey),
				Night:   assignShift(roster, domain.ShiftNight, dateKey),
			},
		})
	}

	now := time.Now()
	return &domain.WeeklyShift{
		ID:            fmt.Sprintf("temp-%d", now.UnixMilli()),
		WeekStartDate: weekStartDate,
		Status:        domain.ShiftStatusOptimizing,
		Assignments:   assignments,
		OptimizationHistory: []domain.OptimizationStep{
			{
				Phase:      domain.PhaseBasic,
				Timestamp:  now,
				Changes:    []domain.ShiftChange{},
				Score:      0,
				Violations: []domain.ConstraintViolation{},
			},
		},
		CreatedBy:    "optimization-engine",
		CreatedAt:    now,
		LastModified: now,
	}, nil
}

func assignShift(roster []*domain.Staff, shiftType domain.ShiftType, dateKey string) []string {
	eligible := EligibleStaff(roster, shiftType, dateKey)
	return SelectStaff(eligible, domain.RequiredStaffCount[shiftType])
}

// ApplyConstraintOptimization は Phase 2 の制約最適化を行う。
// 調整ルールを順に適用した後、現在の状態のスコアと制約違反を計算し、
// 最適化履歴に constraint ステップを追記した新しいレコードを返す。
// 入力のレコードと履歴は変更しない
func ApplyConstraintOptimization(draft *domain.WeeklyShift, roster []*domain.Staff, rules []AdjustmentRule) *domain.WeeklyShift {
	optimized := *draft

	for _, rule := range rules {
		optimized = *rule.Apply(&optimized, roster)
	}

	violations := Validate(&optimized, roster)

	// ルールが履歴にステップを追加していてもよいよう、調整後の履歴を基に追記する
	history := make([]domain.OptimizationStep, 0, len(optimized.OptimizationHistory)+1)
	history = append(history, optimized.OptimizationHistory...)
	history = append(history, domain.OptimizationStep{
		Phase:      domain.PhaseConstraint,
		Timestamp:  time.Now(),
		Changes:    []domain.ShiftChange{},
		Score:      Score(violations),
		Violations: violations,
	})
	optimized.OptimizationHistory = history

	return &optimized
}

// RunOptimization は Phase 1、Phase 2 を順に実行し、最終的なシフト表を返す。
// 履歴には basic と constraint の 2 つのステップが記録される
func RunOptimization(roster []*domain.Staff, weekStartDate string) (*domain.WeeklyShift, error) {
	active := ActiveStaff(roster)

	draft, err := BuildBasicAssignment(active, weekStartDate)
	if err != nil {
		return nil, err
	}

	return ApplyConstraintOptimization(draft, active, DefaultAdjustmentRules), nil
}

package optimizer

import "github.com/meiwakai-dev/shift-optimizer/backend/internal/domain"

// 制約違反 1 件につき減点する点数
const penaltyPerViolation = 10

// Score は制約違反の一覧から最適化スコア（0〜100）を計算する。
// 重大度や種類によらず一律に減点する
func Score(violations []domain.ConstraintViolation) int {
	score := 100 - penaltyPerViolation*len(violations)
	return max(0, score)
}

// ComputeScore はシフト表を検証してスコアを計算する
func ComputeScore(shift *domain.WeeklyShift, roster []*domain.Staff) int {
	return Score(Validate(shift, roster))
}

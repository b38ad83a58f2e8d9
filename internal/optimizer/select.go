package optimizer

import (
	"slices"
	"sort"

	"github.com/meiwakai-dev/shift-optimizer/backend/internal/domain"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

var experienceRank = map[domain.ExperienceLevel]int{
	domain.ExperienceSenior: 3,
	domain.ExperienceMid:    2,
	domain.ExperienceJunior: 1,
}

// EligibleStaff は指定日・指定シフト区分に配置可能なスタッフを返す。
// 在職中であり、その区分で勤務可能であり、休み希望日に当たらないこと。
// 入力の並び順は保持される
func EligibleStaff(roster []*domain.Staff, shiftType domain.ShiftType, dateKey string) []*domain.Staff {
	eligible := make([]*domain.Staff, 0, len(roster))
	for _, staff := range roster {
		if !staff.IsActive {
			continue
		}
		if !slices.Contains(staff.AvailableShifts, shiftType) {
			continue
		}
		if slices.Contains(staff.UnavailableDates, dateKey) {
			continue
		}
		eligible = append(eligible, staff)
	}
	return eligible
}

// SortStaffByExperience は経験レベルの高い順に並べ替えたコピーを返す。
// 同レベルの場合は名前の昇順（日本語ロケールの照合順）で順序を固定する
func SortStaffByExperience(staff []*domain.Staff) []*domain.Staff {
	sorted := make([]*domain.Staff, len(staff))
	copy(sorted, staff)

	// collate.Collator は比較中に内部バッファを使い回すため、
	// 呼び出しごとに作成して並行呼び出しでも共有しない
	collator := collate.New(language.Japanese)

	sort.SliceStable(sorted, func(i, j int) bool {
		ri := experienceRank[sorted[i].ExperienceLevel]
		rj := experienceRank[sorted[j].ExperienceLevel]
		if ri != rj {
			return ri > rj
		}
		return collator.CompareString(sorted[i].Name, sorted[j].Name) < 0
	})

	return sorted
}

// SelectStaff は配置可能なスタッフから必要人数分のスタッフ ID を選出する。
// 人数が足りない場合は全員を返す（人数不足はエラーではなく検証側で違反として扱う）
func SelectStaff(eligible []*domain.Staff, requiredCount int) []string {
	sorted := SortStaffByExperience(eligible)

	n := min(requiredCount, len(sorted))
	ids := make([]string, 0, n)
	for _, staff := range sorted[:n] {
		ids = append(ids, staff.ID)
	}
	return ids
}

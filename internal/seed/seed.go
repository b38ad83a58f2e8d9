package seed

import (
	"log/slog"

	"github.com/meiwakai-dev/shift-optimizer/backend/internal/domain"
	"github.com/meiwakai-dev/shift-optimizer/backend/internal/optimizer"
	"github.com/meiwakai-dev/shift-optimizer/backend/internal/repository"
)

// demoRoster はデモ用の病棟ロスター。日勤 6 名・準夜 2 名・深夜 2 名の
// 最低人数をちょうど満たせる程度の構成にしてある
var demoRoster = []*domain.Staff{
	{Name: "佐藤 陽子", AvailableShifts: []domain.ShiftType{domain.ShiftDay, domain.ShiftEvening, domain.ShiftNight}, UnavailableDates: []string{}, Skills: []string{"救急対応", "新人指導"}, ExperienceLevel: domain.ExperienceSenior, IsActive: true},
	{Name: "鈴木 健太", AvailableShifts: []domain.ShiftType{domain.ShiftDay, domain.ShiftNight}, UnavailableDates: []string{}, Skills: []string{"透析"}, ExperienceLevel: domain.ExperienceSenior, IsActive: true},
	{Name: "高橋 美咲", AvailableShifts: []domain.ShiftType{domain.ShiftDay, domain.ShiftEvening}, UnavailableDates: []string{}, Skills: []string{"手術室"}, ExperienceLevel: domain.ExperienceMid, IsActive: true},
	{Name: "田中 直樹", AvailableShifts: []domain.ShiftType{domain.ShiftDay, domain.ShiftEvening, domain.ShiftNight}, UnavailableDates: []string{}, Skills: []string{}, ExperienceLevel: domain.ExperienceMid, IsActive: true},
	{Name: "伊藤 さくら", AvailableShifts: []domain.ShiftType{domain.ShiftDay}, UnavailableDates: []string{}, Skills: []string{"感染管理"}, ExperienceLevel: domain.ExperienceMid, IsActive: true},
	{Name: "渡辺 翔太", AvailableShifts: []domain.ShiftType{domain.ShiftDay, domain.ShiftNight}, UnavailableDates: []string{}, Skills: []string{}, ExperienceLevel: domain.ExperienceJunior, IsActive: true},
	{Name: "山本 愛", AvailableShifts: []domain.ShiftType{domain.ShiftDay, domain.ShiftEvening}, UnavailableDates: []string{}, Skills: []string{}, ExperienceLevel: domain.ExperienceJunior, IsActive: true},
	{Name: "中村 大輔", AvailableShifts: []domain.ShiftType{domain.ShiftDay}, UnavailableDates: []string{}, Skills: []string{"救急対応"}, ExperienceLevel: domain.ExperienceJunior, IsActive: true},
}

// SeedDemoRoster はデモ用のロスターを登録する
func SeedDemoRoster(r *repository.Repository) {
	cnt := 0
	for _, staff := range demoRoster {
		if err := r.CreateStaff(staff); err != nil {
			slog.Error("スタッフを登録できませんでした", "name", staff.Name, "error", err)
			continue
		}
		cnt++
	}

	slog.Info("デモ用ロスターを登録しました", "count", cnt)
}

// SeedOptimizedWeek は指定した週のシフトを最適化エンジンで生成して保存する
func SeedOptimizedWeek(r *repository.Repository, weekStartDate string) {
	roster, err := r.GetActiveStaff()
	if err != nil {
		slog.Error("在職中のスタッフを取得できませんでした", "error", err)
		return
	}

	if len(roster) == 0 {
		slog.Error("在職中のスタッフが存在しません。先にロスターを登録してください")
		return
	}

	shift, err := optimizer.RunOptimization(roster, weekStartDate)
	if err != nil {
		slog.Error("最適化に失敗しました", "error", err)
		return
	}

	if err := r.UpsertWeeklyShiftByWeek(shift); err != nil {
		slog.Error("シフトを保存できませんでした", "error", err)
		return
	}

	score := optimizer.ComputeScore(shift, roster)
	slog.Info("デモ用シフトを生成しました", "weekStartDate", weekStartDate, "score", score)
}

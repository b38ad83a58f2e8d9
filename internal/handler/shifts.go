package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/meiwakai-dev/shift-optimizer/backend/internal/domain"
	"github.com/meiwakai-dev/shift-optimizer/backend/internal/optimizer"
	"github.com/meiwakai-dev/shift-optimizer/backend/internal/utils"
)

func (h *Handler) GetWeeklyShifts(w http.ResponseWriter, r *http.Request) {
	start := r.URL.Query().Get("start")
	end := r.URL.Query().Get("end")

	// start と end が両方指定されていれば範囲検索、そうでなければ全件
	if start != "" && end != "" {
		if _, err := optimizer.ParseDateKey(start); err != nil {
			h.errorResponse(w, r, "検索開始日の形式が正しくありません (YYYY-MM-DD)")
			return
		}
		if _, err := optimizer.ParseDateKey(end); err != nil {
			h.errorResponse(w, r, "検索終了日の形式が正しくありません (YYYY-MM-DD)")
			return
		}

		shifts, err := h.repository.GetWeeklyShiftsByDateRange(start, end)
		if err != nil {
			h.internalServerError(w, r, err)
			return
		}

		h.successResponse(w, r, "指定範囲のシフトを取得しました", shifts)
		return
	}

	shifts, err := h.repository.GetAllWeeklyShifts()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "シフト一覧を取得しました", shifts)
}

func (h *Handler) GetWeeklyShift(w http.ResponseWriter, r *http.Request) {
	shift := r.Context().Value(WeeklyShiftCtx).(*domain.WeeklyShift)

	h.successResponse(w, r, "シフトを取得しました", shift)
}

func (h *Handler) GetWeeklyShiftStatistics(w http.ResponseWriter, r *http.Request) {
	shift := r.Context().Value(WeeklyShiftCtx).(*domain.WeeklyShift)

	roster, err := h.repository.GetAllStaff()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	violations := optimizer.Validate(shift, roster)

	stats := struct {
		TotalAssignments   int `json:"totalAssignments"`
		RequiredStaff      int `json:"requiredStaff"`
		UnassignedSlots    int `json:"unassignedSlots"`
		AssignmentRate     int `json:"assignmentRate"`
		DayAssignments     int `json:"dayAssignments"`
		EveningAssignments int `json:"eveningAssignments"`
		NightAssignments   int `json:"nightAssignments"`
		Score              int `json:"score"`
		ViolationCount     int `json:"violationCount"`
	}{
		TotalAssignments:   optimizer.TotalAssignments(shift),
		RequiredStaff:      optimizer.RequiredStaff(shift),
		UnassignedSlots:    optimizer.UnassignedSlots(shift),
		AssignmentRate:     optimizer.AssignmentRate(shift),
		DayAssignments:     optimizer.PeriodAssignments(shift, domain.ShiftDay),
		EveningAssignments: optimizer.PeriodAssignments(shift, domain.ShiftEvening),
		NightAssignments:   optimizer.PeriodAssignments(shift, domain.ShiftNight),
		Score:              optimizer.Score(violations),
		ViolationCount:     len(violations),
	}

	h.successResponse(w, r, "シフトの統計情報を取得しました", stats)
}

func (h *Handler) UpdateWeeklyShiftAssignments(w http.ResponseWriter, r *http.Request) {
	shift := r.Context().Value(WeeklyShiftCtx).(*domain.WeeklyShift)

	var req []struct {
		Date   string `json:"date" validate:"required,datetime=2006-01-02"`
		Shifts struct {
			Day     []string `json:"day" validate:"required"`
			Evening []string `json:"evening" validate:"required"`
			Night   []string `json:"night" validate:"required"`
		} `json:"shifts" validate:"required"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Var(req, "required,dive"); err != nil {
		h.badRequest(w, r, err)
		return
	}

	assignments := make([]domain.ShiftAssignment, len(req))
	for i, item := range req {
		assignments[i] = domain.ShiftAssignment{
			Date: item.Date,
			Shifts: domain.DayShifts{
				Day:     item.Shifts.Day,
				Evening: item.Shifts.Evening,
				Night:   item.Shifts.Night,
			},
		}
	}

	// 配置が週の 7 日分と一致しているかを検証する
	if err := utils.ValidateAssignmentsMatchWeek(assignments, shift.WeekStartDate); err != nil {
		h.badRequest(w, r, err)
		return
	}

	shift.Assignments = assignments

	// 手動編集もスコアと制約違反を計算して履歴に残す
	roster, err := h.repository.GetAllStaff()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	violations := optimizer.Validate(shift, roster)
	shift.OptimizationHistory = append(shift.OptimizationHistory, domain.OptimizationStep{
		Phase:      domain.PhaseManual,
		Timestamp:  time.Now(),
		Changes:    []domain.ShiftChange{},
		Score:      optimizer.Score(violations),
		Violations: violations,
	})

	if err := h.repository.UpdateWeeklyShift(shift); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "配置を更新しました", shift)
}

func (h *Handler) ConfirmWeeklyShift(w http.ResponseWriter, r *http.Request) {
	shift := r.Context().Value(WeeklyShiftCtx).(*domain.WeeklyShift)
	myInfo := r.Context().Value(MyInfoCtx).(*domain.User)

	if shift.Status == domain.ShiftStatusConfirmed {
		h.errorResponse(w, r, "このシフトはすでに確定しています")
		return
	}

	shift.Status = domain.ShiftStatusConfirmed
	if err := h.repository.UpdateWeeklyShift(shift); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	// 確定はすでに保存されているので、通知の失敗では確定を取り消さずログに残す
	if err := h.notifyShiftConfirmed(shift, myInfo); err != nil {
		slog.Error("シフト確定通知を送信できませんでした", "weekStartDate", shift.WeekStartDate, "error", err)
	}

	h.successResponse(w, r, "シフトを確定しました", shift)
}

// notifyShiftConfirmed は確定通知をメッセージキューに送信する
func (h *Handler) notifyShiftConfirmed(shift *domain.WeeklyShift, confirmedBy *domain.User) error {
	roster, err := h.repository.GetAllStaff()
	if err != nil {
		return err
	}

	weekStart, err := optimizer.ParseDateKey(shift.WeekStartDate)
	if err != nil {
		return err
	}

	violations := optimizer.Validate(shift, roster)
	return h.publishNotification(domain.NotificationMessage{
		Type: "shift_confirmed",
		To:   h.config.Email.NotifyTo,
		Data: domain.ShiftConfirmedNotificationData{
			WeekRange:      optimizer.FormatWeekRange(weekStart),
			WeekStartDate:  shift.WeekStartDate,
			Score:          optimizer.Score(violations),
			ViolationCount: len(violations),
			ConfirmedBy:    confirmedBy.FullName,
		},
	})
}

func (h *Handler) DeleteWeeklyShift(w http.ResponseWriter, r *http.Request) {
	shift := r.Context().Value(WeeklyShiftCtx).(*domain.WeeklyShift)

	if err := h.repository.DeleteWeeklyShift(shift.ID); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "シフトを削除しました", nil)
}

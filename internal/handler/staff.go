package handler

import (
	"errors"
	"net/http"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/meiwakai-dev/shift-optimizer/backend/internal/domain"
)

func (h *Handler) CreateStaff(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name             string   `json:"name" validate:"required"`
		AvailableShifts  []string `json:"availableShifts" validate:"required,dive,oneof=day evening night"`
		UnavailableDates []string `json:"unavailableDates" validate:"omitempty,dive,datetime=2006-01-02"`
		Skills           []string `json:"skills"`
		ExperienceLevel  string   `json:"experienceLevel" validate:"required,oneof=junior mid senior"`
	}

	if err := h.decodeValid(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	staff := &domain.Staff{
		Name:             req.Name,
		AvailableShifts:  make([]domain.ShiftType, len(req.AvailableShifts)),
		UnavailableDates: req.UnavailableDates,
		Skills:           req.Skills,
		ExperienceLevel:  domain.ExperienceLevel(req.ExperienceLevel),
		IsActive:         true,
	}
	for i, shiftType := range req.AvailableShifts {
		staff.AvailableShifts[i] = domain.ShiftType(shiftType)
	}
	if staff.UnavailableDates == nil {
		staff.UnavailableDates = []string{}
	}
	if staff.Skills == nil {
		staff.Skills = []string{}
	}

	if err := h.repository.CreateStaff(staff); err != nil {
		var pgErr *pgconn.PgError
		switch {
		case errors.As(err, &pgErr):
			switch pgErr.ConstraintName {
			case "staff_pkey":
				h.errorResponse(w, r, "スタッフ ID が重複しました。もう一度お試しください")
			default:
				h.internalServerError(w, r, err)
			}
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "スタッフを登録しました", staff)
}

func (h *Handler) GetAllStaff(w http.ResponseWriter, r *http.Request) {
	allStaff, err := h.repository.GetAllStaff()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "スタッフ一覧を取得しました", allStaff)
}

func (h *Handler) GetStaff(w http.ResponseWriter, r *http.Request) {
	staff := r.Context().Value(StaffCtx).(*domain.Staff)

	h.successResponse(w, r, "スタッフ情報を取得しました", staff)
}

func (h *Handler) UpdateStaff(w http.ResponseWriter, r *http.Request) {
	staff := r.Context().Value(StaffCtx).(*domain.Staff)

	var req struct {
		Name             *string   `json:"name"`
		AvailableShifts  *[]string `json:"availableShifts" validate:"omitempty,dive,oneof=day evening night"`
		UnavailableDates *[]string `json:"unavailableDates" validate:"omitempty,dive,datetime=2006-01-02"`
		Skills           *[]string `json:"skills"`
		ExperienceLevel  *string   `json:"experienceLevel" validate:"omitempty,oneof=junior mid senior"`
		IsActive         *bool     `json:"isActive"`
	}

	if err := h.decodeValid(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	// 入力されたフィールドだけを staff に反映する
	if req.Name != nil {
		staff.Name = *req.Name
	}
	if req.AvailableShifts != nil {
		staff.AvailableShifts = make([]domain.ShiftType, len(*req.AvailableShifts))
		for i, shiftType := range *req.AvailableShifts {
			staff.AvailableShifts[i] = domain.ShiftType(shiftType)
		}
	}
	if req.UnavailableDates != nil {
		staff.UnavailableDates = *req.UnavailableDates
	}
	if req.Skills != nil {
		staff.Skills = *req.Skills
	}
	if req.ExperienceLevel != nil {
		staff.ExperienceLevel = domain.ExperienceLevel(*req.ExperienceLevel)
	}
	if req.IsActive != nil {
		staff.IsActive = *req.IsActive
	}

	if err := h.repository.UpdateStaff(staff); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "スタッフ情報を更新しました", staff)
}

func (h *Handler) DeactivateStaff(w http.ResponseWriter, r *http.Request) {
	staff := r.Context().Value(StaffCtx).(*domain.Staff)

	staff.IsActive = false
	if err := h.repository.UpdateStaff(staff); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "スタッフを退職扱いにしました", staff)
}

func (h *Handler) DeleteStaff(w http.ResponseWriter, r *http.Request) {
	staff := r.Context().Value(StaffCtx).(*domain.Staff)

	if err := h.repository.DeleteStaff(staff.ID); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "スタッフを削除しました", nil)
}

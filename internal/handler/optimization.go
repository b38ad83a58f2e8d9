package handler

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/meiwakai-dev/shift-optimizer/backend/internal/domain"
	"github.com/meiwakai-dev/shift-optimizer/backend/internal/optimizer"
)

// RunOptimization はシフト最適化を実行する。
// POST /optimization
func (h *Handler) RunOptimization(w http.ResponseWriter, r *http.Request) {
	var req struct {
		WeekStartDate      string                   `json:"weekStartDate" validate:"required,datetime=2006-01-02"`
		CurrentAssignments []domain.ShiftAssignment `json:"currentAssignments"`
	}

	if err := h.decodeValid(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	// 在職中のスタッフ一覧を取得する。空の場合はエンジンを起動せずエラーを返す
	activeStaff, err := h.repository.GetActiveStaff()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	if len(activeStaff) == 0 {
		h.errorResponse(w, r, "在職中のスタッフが存在しません")
		return
	}

	// 同じ週に対する最適化の同時実行をロックで防ぐ
	lockKey := fmt.Sprintf("optimization_lock_%s", req.WeekStartDate)

	ctx, cancel := h.redisContext(r)
	defer cancel()

	locked, err := h.redisClient.SetNX(ctx, lockKey, 1, time.Duration(h.config.Optimizer.LockExpiration)*time.Second).Result()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}
	if !locked {
		h.errorResponse(w, r, "この週の最適化はすでに実行中です")
		return
	}
	defer func() {
		if err := h.redisClient.Del(context.Background(), lockKey).Err(); err != nil {
			slog.Error("最適化ロックを解放できませんでした", "key", lockKey, "error", err)
		}
	}()

	if len(req.CurrentAssignments) > 0 {
		// TODO: 既存の配置を初期値として引き継ぐ
		slog.Info("既存の配置が指定されましたが、現在は考慮されません", "weekStartDate", req.WeekStartDate)
	}

	slog.Info("最適化を開始します", "weekStartDate", req.WeekStartDate, "staffCount", len(activeStaff))

	shift, err := optimizer.RunOptimization(activeStaff, req.WeekStartDate)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	violations := optimizer.Validate(shift, activeStaff)
	finalScore := optimizer.Score(violations)

	// 週の開始日をキーに保存する（既存レコードがあれば上書き）
	if err := h.repository.UpsertWeeklyShiftByWeek(shift); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	slog.Info("最適化が完了しました", "weekStartDate", req.WeekStartDate, "score", finalScore, "violations", len(violations))

	h.successResponse(w, r, fmt.Sprintf("最適化が完了しました (スコア: %d, 制約違反: %d件)", finalScore, len(violations)), shift)
}

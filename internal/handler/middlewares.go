package handler

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"
	"slices"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"

	"github.com/meiwakai-dev/shift-optimizer/backend/internal/domain"
	"github.com/meiwakai-dev/shift-optimizer/backend/internal/optimizer"
)

// statusRecorder はアクセスログ用にステータスコードを記録する
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (rec *statusRecorder) WriteHeader(status int) {
	rec.status = status
	rec.ResponseWriter.WriteHeader(status)
}

func (h *Handler) logger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()
		next.ServeHTTP(rec, r)
		slog.Info("リクエストを処理しました",
			"status", rec.status,
			"ip", r.RemoteAddr,
			"method", r.Method,
			"path", r.URL.Path,
			"duration", time.Since(start),
		)
	})
}

func (h *Handler) recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if v := recover(); v != nil {
				h.internalServerError(w, r, fmt.Errorf("panic: %v", v))
				fmt.Print(string(debug.Stack())) // ここで slog を使うと出力が乱れる
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// lookupFailed はレコード取得系ミドルウェア共通のエラー応答。
// 見つからない場合は notFoundMsg、それ以外はサーバー内部エラーを返す
func (h *Handler) lookupFailed(w http.ResponseWriter, r *http.Request, err error, notFoundMsg string) {
	if errors.Is(err, sql.ErrNoRows) {
		h.errorResponse(w, r, notFoundMsg)
		return
	}
	h.internalServerError(w, r, err)
}

func (h *Handler) auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(authCookieName)
		if errors.Is(err, http.ErrNoCookie) {
			h.errorResponse(w, r, "ログインしていません")
			return
		} else if err != nil {
			h.internalServerError(w, r, err)
			return
		}

		claims := &AuthClaims{}
		if _, err := jwt.ParseWithClaims(
			cookie.Value,
			claims,
			func(t *jwt.Token) (interface{}, error) { return []byte(h.config.JWT.Secret), nil },
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		); err != nil {
			h.errorResponse(w, r, "無効なトークンです")
			return
		}

		// 後続のハンドラーが参照できるよう role と sub を context に載せる
		ctx := context.WithValue(r.Context(), RoleCtxKey, claims.Role)
		ctx = context.WithValue(ctx, SubCtxKey, claims.Subject)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (h *Handler) myInfo(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sub, err := strconv.ParseInt(r.Context().Value(SubCtxKey).(string), 10, 64)
		if err != nil {
			h.internalServerError(w, r, err)
			return
		}

		myInfo, err := h.repository.GetUserByID(sub)
		if err != nil {
			h.lookupFailed(w, r, err, "アカウント情報が存在しません")
			return
		}

		ctx := context.WithValue(r.Context(), MyInfoCtx, myInfo)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (h *Handler) RequiredRole(roles []domain.Role) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role := domain.Role(r.Context().Value(RoleCtxKey).(string))
			if !slices.Contains(roles, role) {
				h.errorResponse(w, r, "権限がありません")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// staffRecord は URL の {id} に対応するスタッフを読み込んで context に載せる
func (h *Handler) staffRecord(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		staff, err := h.repository.GetStaffByID(chi.URLParam(r, "id"))
		if err != nil {
			h.lookupFailed(w, r, err, "スタッフが存在しません")
			return
		}

		ctx := context.WithValue(r.Context(), StaffCtx, staff)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// weeklyShift は URL の {weekStartDate} に対応する週次シフトを読み込んで context に載せる
func (h *Handler) weeklyShift(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		weekStartDate := chi.URLParam(r, "weekStartDate")
		if _, err := optimizer.ParseDateKey(weekStartDate); err != nil {
			h.errorResponse(w, r, "週の開始日の形式が正しくありません (YYYY-MM-DD)")
			return
		}

		shift, err := h.repository.GetWeeklyShiftByWeek(weekStartDate)
		if err != nil {
			h.lookupFailed(w, r, err, "指定した週のシフトが存在しません")
			return
		}

		ctx := context.WithValue(r.Context(), WeeklyShiftCtx, shift)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
